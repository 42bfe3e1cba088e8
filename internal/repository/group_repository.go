package repository

import (
	"context"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

// GroupRepository хранит группы целиком: изменение - это всегда замена сущности.
type GroupRepository interface {
	// GetByID возвращает ErrNotFound, если группы нет
	GetByID(ctx context.Context, id string) (*domain.Group, error)

	// GetByDomainAndName возвращает ErrNotFound, если группы нет
	GetByDomainAndName(ctx context.Context, domainID, name string) (*domain.Group, error)

	ListByDomain(ctx context.Context, domainID string) ([]*domain.Group, error)
	ListByDomainPage(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Group], error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Group, error)
	ListByMember(ctx context.Context, userID string) ([]*domain.Group, error)

	Create(ctx context.Context, group *domain.Group) (*domain.Group, error)

	// Update заменяет группу, если group.Version совпадает с версией в хранилище,
	// иначе возвращает ErrVersionConflict; ErrNotFound, если группы уже нет.
	// Возвращённая группа содержит новую версию.
	Update(ctx context.Context, group *domain.Group) (*domain.Group, error)

	Delete(ctx context.Context, id string) error
}
