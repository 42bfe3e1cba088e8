package repository

import (
	"context"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

type UserRepository interface {
	// GetByID возвращает ErrNotFound, если пользователя нет
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// ListByIDs возвращает только существующих пользователей, остальные идентификаторы молча отбрасываются
	ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
}
