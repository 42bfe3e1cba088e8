package memory

import (
	"context"
	"sync"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

// AuditRepository хранит события аудита в порядке поступления
type AuditRepository struct {
	events []*domain.AuditEvent
	mu     sync.RWMutex
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *event
	r.events = append(r.events, &copied)
	return nil
}

// ListByTarget возвращает события по объекту, новые первыми
func (r *AuditRepository) ListByTarget(ctx context.Context, domainID, targetID string, limit int) ([]*domain.AuditEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*domain.AuditEvent, 0)
	for i := len(r.events) - 1; i >= 0 && len(events) < limit; i-- {
		event := r.events[i]
		if event.Domain == domainID && event.TargetID == targetID {
			copied := *event
			events = append(events, &copied)
		}
	}
	return events, nil
}

// Events возвращает копию всех событий
func (r *AuditRepository) Events() []*domain.AuditEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*domain.AuditEvent, 0, len(r.events))
	for _, event := range r.events {
		copied := *event
		events = append(events, &copied)
	}
	return events
}
