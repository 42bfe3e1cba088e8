package repository

import (
	"context"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	ListByTarget(ctx context.Context, domainID, targetID string, limit int) ([]*domain.AuditEvent, error)
}
