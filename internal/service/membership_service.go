package service

import (
	"context"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

// MembershipEditor добавляет и удаляет одного участника через GroupService.Update
type MembershipEditor interface {
	AddMember(ctx context.Context, domainID, groupID, userID string, actor domain.Principal) (*domain.Group, error)
	RemoveMember(ctx context.Context, domainID, groupID, userID string, actor domain.Principal) (*domain.Group, error)
}
