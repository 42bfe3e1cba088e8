package service

import (
	"context"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

type GroupService interface {
	FindByDomainPage(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Group], error)
	FindByDomain(ctx context.Context, domainID string) ([]*domain.Group, error)
	FindByDomainAndName(ctx context.Context, domainID, name string) (*domain.Group, error)

	// FindByID возвращает nil без ошибки, если группы нет
	FindByID(ctx context.Context, id string) (*domain.Group, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error)
	FindByMember(ctx context.Context, userID string) ([]*domain.Group, error)

	// FindMembers трактует page как смещение в отсортированном списке участников
	FindMembers(ctx context.Context, groupID string, page, size int) (*domain.Page[*domain.User], error)

	Create(ctx context.Context, domainID string, newGroup *domain.NewGroup, actor domain.Principal) (*domain.Group, error)
	Update(ctx context.Context, domainID, id string, updateGroup *domain.UpdateGroup, actor domain.Principal) (*domain.Group, error)
	Delete(ctx context.Context, id string, actor domain.Principal) error

	// AssignRoles заменяет набор ролей группы целиком
	AssignRoles(ctx context.Context, groupID string, roleIDs []string, actor domain.Principal) (*domain.Group, error)

	// RevokeRoles убирает перечисленные роли; отсутствующие игнорируются
	RevokeRoles(ctx context.Context, groupID string, roleIDs []string, actor domain.Principal) (*domain.Group, error)
}

// AuditReporter принимает событие аудита и никогда не возвращает ошибку
type AuditReporter interface {
	Report(ctx context.Context, event *domain.AuditEvent)
}
