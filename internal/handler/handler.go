package handler

import (
	"log/slog"

	"github.com/bagdasarian/iam-groups/internal/service"
)

type Handler struct {
	groupService     service.GroupService
	membershipEditor service.MembershipEditor
	auditService     service.AuditService
	logger           *slog.Logger
}

func NewHandler(
	groupService service.GroupService,
	membershipEditor service.MembershipEditor,
	auditService service.AuditService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		groupService:     groupService,
		membershipEditor: membershipEditor,
		auditService:     auditService,
		logger:           logger.With("component", "http"),
	}
}
