package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
)

// GroupRepository - хранилище групп в памяти с той же семантикой версий, что и postgres
type GroupRepository struct {
	groups map[string]*domain.Group
	mu     sync.RWMutex
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{
		groups: make(map[string]*domain.Group),
	}
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, exists := r.groups[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return group.Clone(), nil
}

func (r *GroupRepository) GetByDomainAndName(ctx context.Context, domainID, name string) (*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, group := range r.groups {
		if group.Domain == domainID && group.Name == name {
			return group.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *GroupRepository) ListByDomain(ctx context.Context, domainID string) ([]*domain.Group, error) {
	return r.filter(func(group *domain.Group) bool {
		return group.Domain == domainID
	}), nil
}

func (r *GroupRepository) ListByDomainPage(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Group], error) {
	groups, _ := r.ListByDomain(ctx, domainID)

	size = max(size, 0)
	from := 0
	if page > 0 && size > 0 {
		// page*size не вычисляется, если смещение заведомо за концом списка
		from = len(groups)
		if page <= len(groups)/size {
			from = page * size
		}
	}
	to := from + min(size, len(groups)-from)

	return &domain.Page[*domain.Group]{
		Data:        groups[from:to],
		CurrentPage: page,
		Size:        len(groups),
	}, nil
}

func (r *GroupRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return r.filter(func(group *domain.Group) bool {
		_, ok := wanted[group.ID]
		return ok
	}), nil
}

func (r *GroupRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Group, error) {
	return r.filter(func(group *domain.Group) bool {
		return domain.ContainsID(group.Members, userID)
	}), nil
}

func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(group.Domain, group.Name, group.ID) {
		return nil, domain.NewGroupAlreadyExistsError(group.Name)
	}

	created := group.Clone()
	created.Version = 1
	r.groups[created.ID] = created
	return created.Clone(), nil
}

func (r *GroupRepository) Update(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.groups[group.ID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	if existing.Version != group.Version {
		return nil, repository.ErrVersionConflict
	}
	if r.nameTakenLocked(group.Domain, group.Name, group.ID) {
		return nil, domain.NewGroupAlreadyExistsError(group.Name)
	}

	updated := group.Clone()
	updated.Version = existing.Version + 1
	r.groups[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.groups[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

func (r *GroupRepository) nameTakenLocked(domainID, name, exceptID string) bool {
	for _, group := range r.groups {
		if group.Domain == domainID && group.Name == name && group.ID != exceptID {
			return true
		}
	}
	return false
}

// filter возвращает копии подходящих групп, отсортированные по имени
func (r *GroupRepository) filter(match func(*domain.Group) bool) []*domain.Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Group, 0)
	for _, group := range r.groups {
		if match(group) {
			result = append(result, group.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
