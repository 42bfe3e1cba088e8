package audit

import (
	"context"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
)

// RepositorySink сохраняет события в AuditRepository
type RepositorySink struct {
	repo repository.AuditRepository
}

func NewRepositorySink(repo repository.AuditRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Name() string {
	return "repository"
}

func (s *RepositorySink) Report(ctx context.Context, event *domain.AuditEvent) error {
	return s.repo.Insert(ctx, event)
}
