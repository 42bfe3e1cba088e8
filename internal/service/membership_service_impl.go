package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
)

type membershipEditor struct {
	domainRepo   repository.DomainRepository
	userRepo     repository.UserRepository
	groupService GroupService
	logger       *slog.Logger
}

// NewMembershipEditor создает новый экземпляр MembershipEditor
func NewMembershipEditor(
	domainRepo repository.DomainRepository,
	userRepo repository.UserRepository,
	groupService GroupService,
	logger *slog.Logger,
) MembershipEditor {
	return &membershipEditor{
		domainRepo:   domainRepo,
		userRepo:     userRepo,
		groupService: groupService,
		logger:       logger.With("component", "membership_editor"),
	}
}

func (e *membershipEditor) AddMember(ctx context.Context, domainID, groupID, userID string, actor domain.Principal) (*domain.Group, error) {
	e.logger.DebugContext(ctx, "add member", "domain", domainID, "group_id", groupID, "user_id", userID)

	group, err := e.check(ctx, domainID, groupID, userID)
	if err != nil {
		return nil, err
	}

	if domain.ContainsID(group.Members, userID) {
		return nil, domain.NewMemberAlreadyExistsError(userID)
	}

	return e.groupService.Update(ctx, domainID, groupID, membersUpdate(group, domain.WithMember(group.Members, userID)), actor)
}

func (e *membershipEditor) RemoveMember(ctx context.Context, domainID, groupID, userID string, actor domain.Principal) (*domain.Group, error) {
	e.logger.DebugContext(ctx, "remove member", "domain", domainID, "group_id", groupID, "user_id", userID)

	group, err := e.check(ctx, domainID, groupID, userID)
	if err != nil {
		return nil, err
	}

	if !domain.ContainsID(group.Members, userID) {
		return nil, domain.NewMemberNotFoundError(userID)
	}

	return e.groupService.Update(ctx, domainID, groupID, membersUpdate(group, domain.WithoutMember(group.Members, userID)), actor)
}

// check проверяет по порядку домен, группу и пользователя
func (e *membershipEditor) check(ctx context.Context, domainID, groupID, userID string) (*domain.Group, error) {
	if _, err := e.domainRepo.GetByID(ctx, domainID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewDomainNotFoundError(domainID)
		}
		return nil, e.technical(ctx, fmt.Sprintf("An error occurs while trying to find domain %s", domainID), err)
	}

	group, err := e.groupService.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil || group.Domain != domainID {
		return nil, domain.NewGroupNotFoundError(groupID)
	}

	if _, err := e.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewUserNotFoundError(userID)
		}
		return nil, e.technical(ctx, fmt.Sprintf("An error occurs while trying to find user %s", userID), err)
	}

	return group, nil
}

func (e *membershipEditor) technical(ctx context.Context, message string, err error) error {
	e.logger.ErrorContext(ctx, message, "error", err)
	return domain.NewTechnicalError(message, err)
}

// membersUpdate сохраняет имя, описание и роли группы и подставляет новый список участников.
// Версия прочитанной группы защищает от параллельной записи между проверкой и обновлением.
func membersUpdate(group *domain.Group, members []string) *domain.UpdateGroup {
	roles := append([]string(nil), group.Roles...)
	version := group.Version
	return &domain.UpdateGroup{
		Name:            group.Name,
		Description:     group.Description,
		Members:         members,
		Roles:           &roles,
		ExpectedVersion: &version,
	}
}
