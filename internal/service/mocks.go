package service

import (
	"context"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) GetByDomainAndName(ctx context.Context, domainID, name string) (*domain.Group, error) {
	args := m.Called(ctx, domainID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListByDomain(ctx context.Context, domainID string) ([]*domain.Group, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListByDomainPage(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Group], error) {
	args := m.Called(ctx, domainID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Group]), args.Error(1)
}

func (m *MockGroupRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) Update(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Role, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Role), args.Error(1)
}

type MockDomainRepository struct {
	mock.Mock
}

func (m *MockDomainRepository) GetByID(ctx context.Context, id string) (*domain.SecurityDomain, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SecurityDomain), args.Error(1)
}

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) FindByDomainPage(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Group], error) {
	args := m.Called(ctx, domainID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Group]), args.Error(1)
}

func (m *MockGroupService) FindByDomain(ctx context.Context, domainID string) ([]*domain.Group, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Group), args.Error(1)
}

func (m *MockGroupService) FindByDomainAndName(ctx context.Context, domainID, name string) (*domain.Group, error) {
	args := m.Called(ctx, domainID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Group), args.Error(1)
}

func (m *MockGroupService) FindByMember(ctx context.Context, userID string) ([]*domain.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Group), args.Error(1)
}

func (m *MockGroupService) FindMembers(ctx context.Context, groupID string, page, size int) (*domain.Page[*domain.User], error) {
	args := m.Called(ctx, groupID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.User]), args.Error(1)
}

func (m *MockGroupService) Create(ctx context.Context, domainID string, newGroup *domain.NewGroup, actor domain.Principal) (*domain.Group, error) {
	args := m.Called(ctx, domainID, newGroup, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) Update(ctx context.Context, domainID, id string, updateGroup *domain.UpdateGroup, actor domain.Principal) (*domain.Group, error) {
	args := m.Called(ctx, domainID, id, updateGroup, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) Delete(ctx context.Context, id string, actor domain.Principal) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

func (m *MockGroupService) AssignRoles(ctx context.Context, groupID string, roleIDs []string, actor domain.Principal) (*domain.Group, error) {
	args := m.Called(ctx, groupID, roleIDs, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) RevokeRoles(ctx context.Context, groupID string, roleIDs []string, actor domain.Principal) (*domain.Group, error) {
	args := m.Called(ctx, groupID, roleIDs, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

// MockAuditReporter запоминает события, чтобы тесты могли проверить аудит
type MockAuditReporter struct {
	mock.Mock
	Events []*domain.AuditEvent
}

func (m *MockAuditReporter) Report(ctx context.Context, event *domain.AuditEvent) {
	m.Called(ctx, event)
	m.Events = append(m.Events, event)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByTarget(ctx context.Context, domainID, targetID string, limit int) ([]*domain.AuditEvent, error) {
	args := m.Called(ctx, domainID, targetID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEvent), args.Error(1)
}
