package repository

import (
	"context"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

type RoleRepository interface {
	// ListByIDs возвращает только существующие роли; пропуски вызывающий определяет сам
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Role, error)
}
