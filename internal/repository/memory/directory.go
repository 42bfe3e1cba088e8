package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
)

// UserRepository - справочник пользователей в памяти
type UserRepository struct {
	users map[string]*domain.User
	mu    sync.RWMutex
}

func NewUserRepository(users ...*domain.User) *UserRepository {
	r := &UserRepository{users: make(map[string]*domain.User)}
	for _, user := range users {
		r.Add(user)
	}
	return r
}

func (r *UserRepository) Add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *user
	r.users[user.ID] = &copied
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(ids))
	for _, id := range domain.CanonicalIDs(ids) {
		if user, exists := r.users[id]; exists {
			copied := *user
			users = append(users, &copied)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// RoleRepository - справочник ролей в памяти
type RoleRepository struct {
	roles map[string]*domain.Role
	mu    sync.RWMutex
}

func NewRoleRepository(roles ...*domain.Role) *RoleRepository {
	r := &RoleRepository{roles: make(map[string]*domain.Role)}
	for _, role := range roles {
		r.Add(role)
	}
	return r
}

func (r *RoleRepository) Add(role *domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *role
	r.roles[role.ID] = &copied
}

func (r *RoleRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]*domain.Role, 0, len(ids))
	for _, id := range domain.CanonicalIDs(ids) {
		if role, exists := r.roles[id]; exists {
			copied := *role
			roles = append(roles, &copied)
		}
	}
	return roles, nil
}

// DomainRepository - справочник доменов в памяти
type DomainRepository struct {
	domains map[string]*domain.SecurityDomain
	mu      sync.RWMutex
}

func NewDomainRepository(domains ...*domain.SecurityDomain) *DomainRepository {
	r := &DomainRepository{domains: make(map[string]*domain.SecurityDomain)}
	for _, securityDomain := range domains {
		r.Add(securityDomain)
	}
	return r
}

func (r *DomainRepository) Add(securityDomain *domain.SecurityDomain) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *securityDomain
	r.domains[securityDomain.ID] = &copied
}

func (r *DomainRepository) GetByID(ctx context.Context, id string) (*domain.SecurityDomain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	securityDomain, exists := r.domains[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	copied := *securityDomain
	return &copied, nil
}
