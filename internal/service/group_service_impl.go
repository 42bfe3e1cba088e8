package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
)

type groupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	audit     AuditReporter
	logger    *slog.Logger
	now       func() time.Time
}

// NewGroupService создает новый экземпляр GroupService
func NewGroupService(
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	audit AuditReporter,
	logger *slog.Logger,
) GroupService {
	return &groupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		audit:     audit,
		logger:    logger.With("component", "group_service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *groupService) FindByDomainPage(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Group], error) {
	s.logger.DebugContext(ctx, "find groups by domain", "domain", domainID, "page", page, "size", size)

	result, err := s.groupRepo.ListByDomainPage(ctx, domainID, page, size)
	if err != nil {
		return nil, s.technical(ctx, fmt.Sprintf("An error occurs while trying to find groups by domain %s", domainID), err)
	}
	return result, nil
}

func (s *groupService) FindByDomain(ctx context.Context, domainID string) ([]*domain.Group, error) {
	s.logger.DebugContext(ctx, "find groups by domain", "domain", domainID)

	groups, err := s.groupRepo.ListByDomain(ctx, domainID)
	if err != nil {
		return nil, s.technical(ctx, fmt.Sprintf("An error occurs while trying to find groups by domain %s", domainID), err)
	}
	return groups, nil
}

func (s *groupService) FindByDomainAndName(ctx context.Context, domainID, name string) (*domain.Group, error) {
	s.logger.DebugContext(ctx, "find group by domain and name", "domain", domainID, "name", name)

	group, err := s.findByDomainAndName(ctx, domainID, name)
	if err != nil {
		return nil, s.technical(ctx, fmt.Sprintf("An error occurs while trying to find a group using its name: %s for the domain %s", name, domainID), err)
	}
	return group, nil
}

func (s *groupService) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	s.logger.DebugContext(ctx, "find group by id", "group_id", id)

	group, err := s.findByID(ctx, id)
	if err != nil {
		return nil, s.technical(ctx, fmt.Sprintf("An error occurs while trying to find a group using its ID: %s", id), err)
	}
	return group, nil
}

func (s *groupService) FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	s.logger.DebugContext(ctx, "find groups by ids", "ids", ids)

	groups, err := s.groupRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, s.technical(ctx, fmt.Sprintf("An error occurs while trying to find a group using ids: %v", ids), err)
	}
	return groups, nil
}

func (s *groupService) FindByMember(ctx context.Context, userID string) ([]*domain.Group, error) {
	s.logger.DebugContext(ctx, "find groups by member", "user_id", userID)

	groups, err := s.groupRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, s.technical(ctx, fmt.Sprintf("An error occurs while trying to find groups using member: %s", userID), err)
	}
	return groups, nil
}

// FindMembers сортирует идентификаторы участников и резолвит срез [page, page+size).
// Size страницы - число идентификаторов в срезе, даже если часть из них не нашлась.
func (s *groupService) FindMembers(ctx context.Context, groupID string, page, size int) (*domain.Page[*domain.User], error) {
	s.logger.DebugContext(ctx, "find members for group", "group_id", groupID)

	group, err := s.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.NewGroupNotFoundError(groupID)
	}

	if len(group.Members) == 0 {
		return &domain.Page[*domain.User]{
			Data:        []*domain.User{},
			CurrentPage: page,
			Size:        size,
		}, nil
	}

	pagedIDs := domain.PageIDs(group.Members, page, size)
	users, err := s.userRepo.ListByIDs(ctx, pagedIDs)
	if err != nil {
		return nil, s.technical(ctx, fmt.Sprintf("An error occurs while trying to find members for group %s", groupID), err)
	}

	return &domain.Page[*domain.User]{
		Data:        users,
		CurrentPage: page,
		Size:        len(pagedIDs),
	}, nil
}

func (s *groupService) Create(ctx context.Context, domainID string, newGroup *domain.NewGroup, actor domain.Principal) (*domain.Group, error) {
	s.logger.DebugContext(ctx, "create group", "domain", domainID, "name", newGroup.Name)

	created, err := s.create(ctx, domainID, newGroup)
	if err != nil {
		s.reportFailure(ctx, domain.EventGroupCreated, domainID, "", actor, err)
		return nil, s.passOrWrap(ctx, "An error occurs while trying to create a group", err)
	}

	s.reportSuccess(ctx, domain.EventGroupCreated, actor, nil, created)
	return created, nil
}

func (s *groupService) create(ctx context.Context, domainID string, newGroup *domain.NewGroup) (*domain.Group, error) {
	existing, err := s.findByDomainAndName(ctx, domainID, newGroup.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewGroupAlreadyExistsError(newGroup.Name)
	}

	now := s.now()
	group := &domain.Group{
		ID:          domain.NewID(),
		Domain:      domainID,
		Name:        newGroup.Name,
		Description: newGroup.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	group.Members, err = s.resolveMembers(ctx, newGroup.Members)
	if err != nil {
		return nil, err
	}

	return s.groupRepo.Create(ctx, group)
}

func (s *groupService) Update(ctx context.Context, domainID, id string, updateGroup *domain.UpdateGroup, actor domain.Principal) (*domain.Group, error) {
	s.logger.DebugContext(ctx, "update group", "domain", domainID, "group_id", id)

	oldGroup, updated, err := s.update(ctx, domainID, id, updateGroup)
	if err != nil {
		s.reportFailure(ctx, domain.EventGroupUpdated, domainID, id, actor, err)
		return nil, s.passOrWrap(ctx, "An error occurs while trying to update a group", err)
	}

	s.reportSuccess(ctx, domain.EventGroupUpdated, actor, oldGroup, updated)
	return updated, nil
}

func (s *groupService) update(ctx context.Context, domainID, id string, updateGroup *domain.UpdateGroup) (*domain.Group, *domain.Group, error) {
	oldGroup, err := s.loadGroup(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if oldGroup.Domain != domainID {
		return nil, nil, domain.NewGroupNotFoundError(id)
	}

	if updateGroup.ExpectedVersion != nil && *updateGroup.ExpectedVersion != oldGroup.Version {
		return nil, nil, domain.NewConcurrentModificationError(id)
	}

	sameName, err := s.findByDomainAndName(ctx, domainID, updateGroup.Name)
	if err != nil {
		return nil, nil, err
	}
	if sameName != nil && sameName.ID != id {
		return nil, nil, domain.NewGroupAlreadyExistsError(updateGroup.Name)
	}

	groupToUpdate := oldGroup.Clone()
	groupToUpdate.Name = updateGroup.Name
	groupToUpdate.Description = updateGroup.Description
	groupToUpdate.UpdatedAt = s.now()

	groupToUpdate.Members, err = s.resolveMembers(ctx, updateGroup.Members)
	if err != nil {
		return nil, nil, err
	}

	if updateGroup.Roles != nil {
		roles := domain.CanonicalIDs(*updateGroup.Roles)
		if err := s.checkRoles(ctx, domain.WithoutIDs(roles, oldGroup.Roles)); err != nil {
			return nil, nil, err
		}
		groupToUpdate.Roles = roles
	}

	updated, err := s.persist(ctx, groupToUpdate)
	if err != nil {
		return nil, nil, err
	}
	return oldGroup, updated, nil
}

func (s *groupService) Delete(ctx context.Context, id string, actor domain.Principal) error {
	s.logger.DebugContext(ctx, "delete group", "group_id", id)

	group, err := s.delete(ctx, id)
	if err != nil {
		domainID := ""
		if group != nil {
			domainID = group.Domain
		}
		s.reportFailure(ctx, domain.EventGroupDeleted, domainID, id, actor, err)
		return s.passOrWrap(ctx, fmt.Sprintf("An error occurs while trying to delete group: %s", id), err)
	}

	s.reportSuccess(ctx, domain.EventGroupDeleted, actor, group, nil)
	return nil
}

func (s *groupService) delete(ctx context.Context, id string) (*domain.Group, error) {
	group, err := s.loadGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.groupRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return group, domain.NewGroupNotFoundError(id)
		}
		return group, err
	}
	return group, nil
}

func (s *groupService) AssignRoles(ctx context.Context, groupID string, roleIDs []string, actor domain.Principal) (*domain.Group, error) {
	return s.assignRoles(ctx, groupID, roleIDs, actor, false)
}

func (s *groupService) RevokeRoles(ctx context.Context, groupID string, roleIDs []string, actor domain.Principal) (*domain.Group, error) {
	return s.assignRoles(ctx, groupID, roleIDs, actor, true)
}

// assignRoles: при назначении набор ролей заменяется целиком и проверяется,
// при отзыве перечисленные роли удаляются без проверки.
func (s *groupService) assignRoles(ctx context.Context, groupID string, roleIDs []string, actor domain.Principal, revoke bool) (*domain.Group, error) {
	s.logger.DebugContext(ctx, "change group roles", "group_id", groupID, "roles", roleIDs, "revoke", revoke)

	oldGroup, updated, err := s.changeRoles(ctx, groupID, roleIDs, revoke)
	if err != nil {
		domainID := ""
		if oldGroup != nil {
			domainID = oldGroup.Domain
		}
		s.reportFailure(ctx, domain.EventGroupRolesAssigned, domainID, groupID, actor, err)
		return nil, s.passOrWrap(ctx, "An error occurs while trying to assign roles to a group", err)
	}

	s.reportSuccess(ctx, domain.EventGroupRolesAssigned, actor, oldGroup, updated)
	return updated, nil
}

func (s *groupService) changeRoles(ctx context.Context, groupID string, roleIDs []string, revoke bool) (*domain.Group, *domain.Group, error) {
	oldGroup, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	groupToUpdate := oldGroup.Clone()
	groupToUpdate.UpdatedAt = s.now()
	if revoke {
		groupToUpdate.Roles = domain.WithoutIDs(groupToUpdate.Roles, roleIDs)
	} else {
		roles := domain.CanonicalIDs(roleIDs)
		if roles == nil {
			roles = []string{}
		}
		if err := s.checkRoles(ctx, roles); err != nil {
			return oldGroup, nil, err
		}
		groupToUpdate.Roles = roles
	}

	updated, err := s.persist(ctx, groupToUpdate)
	if err != nil {
		return oldGroup, nil, err
	}
	return oldGroup, updated, nil
}

// loadGroup возвращает GroupNotFound, если группы нет
func (s *groupService) loadGroup(ctx context.Context, id string) (*domain.Group, error) {
	group, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.NewGroupNotFoundError(id)
	}
	return group, nil
}

func (s *groupService) findByID(ctx context.Context, id string) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return group, nil
}

func (s *groupService) findByDomainAndName(ctx context.Context, domainID, name string) (*domain.Group, error) {
	group, err := s.groupRepo.GetByDomainAndName(ctx, domainID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return group, nil
}

func (s *groupService) persist(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	updated, err := s.groupRepo.Update(ctx, group)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			return nil, domain.NewConcurrentModificationError(group.ID)
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.NewGroupNotFoundError(group.ID)
		}
		return nil, err
	}
	return updated, nil
}

// resolveMembers убирает дубликаты и пустые значения и оставляет только существующих пользователей
// в порядке запроса. Пустой список не резолвится.
func (s *groupService) resolveMembers(ctx context.Context, members []string) ([]string, error) {
	canonical := domain.CanonicalIDs(members)
	if len(canonical) == 0 {
		return canonical, nil
	}

	users, err := s.userRepo.ListByIDs(ctx, canonical)
	if err != nil {
		return nil, err
	}

	return domain.WithoutIDs(canonical, domain.MissingIDs(canonical, domain.UserIDs(users))), nil
}

// checkRoles возвращает RoleNotFound со списком ролей, которых нет в справочнике
func (s *groupService) checkRoles(ctx context.Context, roleIDs []string) error {
	if len(roleIDs) == 0 {
		return nil
	}

	roles, err := s.roleRepo.ListByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}

	if missing := domain.MissingIDs(roleIDs, domain.RoleIDs(roles)); len(missing) > 0 {
		return domain.NewRoleNotFoundError(missing)
	}
	return nil
}

// passOrWrap пропускает доменные ошибки как есть, остальные оборачивает в TechnicalError
func (s *groupService) passOrWrap(ctx context.Context, message string, err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return s.technical(ctx, message, err)
}

func (s *groupService) technical(ctx context.Context, message string, err error) error {
	if errors.Is(err, domain.ErrTechnical) {
		return err
	}
	s.logger.ErrorContext(ctx, message, "error", err)
	return domain.NewTechnicalError(message, err)
}

func (s *groupService) reportSuccess(ctx context.Context, eventType domain.EventType, actor domain.Principal, oldValue, newValue *domain.Group) {
	target := newValue
	if target == nil {
		target = oldValue
	}
	s.audit.Report(ctx, &domain.AuditEvent{
		Type:     eventType,
		Domain:   target.Domain,
		Actor:    actor,
		TargetID: target.ID,
		Status:   domain.AuditStatusSuccess,
		OldValue: oldValue,
		NewValue: newValue,
	})
}

func (s *groupService) reportFailure(ctx context.Context, eventType domain.EventType, domainID, targetID string, actor domain.Principal, cause error) {
	s.audit.Report(ctx, &domain.AuditEvent{
		Type:     eventType,
		Domain:   domainID,
		Actor:    actor,
		TargetID: targetID,
		Status:   domain.AuditStatusFailure,
		Error:    auditCause(cause),
	})
}

// auditCause раскрывает причину технической ошибки для журнала аудита
func auditCause(err error) string {
	var technical *domain.TechnicalError
	if errors.As(err, &technical) && technical.Cause != nil {
		return fmt.Sprintf("%s: %s", technical.Message, technical.Cause)
	}
	return err.Error()
}
