package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
)

const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

// AuditService отдаёт журнал изменений группы, в том числе уже удалённой
type AuditService interface {
	FindGroupEvents(ctx context.Context, domainID, groupID string, limit int) ([]*domain.AuditEvent, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
	logger    *slog.Logger
}

func NewAuditService(auditRepo repository.AuditRepository, logger *slog.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		logger:    logger.With("component", "audit_service"),
	}
}

func (s *auditService) FindGroupEvents(ctx context.Context, domainID, groupID string, limit int) ([]*domain.AuditEvent, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	limit = min(limit, MaxAuditLimit)

	events, err := s.auditRepo.ListByTarget(ctx, domainID, groupID, limit)
	if err != nil {
		message := fmt.Sprintf("An error occurs while trying to find audit events for group %s", groupID)
		s.logger.ErrorContext(ctx, message, "error", err)
		return nil, domain.NewTechnicalError(message, err)
	}
	return events, nil
}
