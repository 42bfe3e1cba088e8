package repository

import (
	"context"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

type DomainRepository interface {
	// GetByID возвращает ErrNotFound, если домена нет
	GetByID(ctx context.Context, id string) (*domain.SecurityDomain, error)
}
