package handler

import (
	"time"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

func domainGroupToHTTP(group *domain.Group) GroupResponse {
	return GroupResponse{
		ID:          group.ID,
		Domain:      group.Domain,
		Name:        group.Name,
		Description: group.Description,
		Members:     nonNil(group.Members),
		Roles:       nonNil(group.Roles),
		Version:     group.Version,
		CreatedAt:   group.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   group.UpdatedAt.Format(time.RFC3339),
	}
}

func domainGroupPageToHTTP(page *domain.Page[*domain.Group]) GroupPageResponse {
	data := make([]GroupResponse, 0, len(page.Data))
	for _, group := range page.Data {
		data = append(data, domainGroupToHTTP(group))
	}
	return GroupPageResponse{
		Data:        data,
		CurrentPage: page.CurrentPage,
		TotalCount:  page.Size,
	}
}

func domainMemberPageToHTTP(page *domain.Page[*domain.User]) MemberPageResponse {
	data := make([]UserResponse, 0, len(page.Data))
	for _, user := range page.Data {
		data = append(data, UserResponse{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		})
	}
	return MemberPageResponse{
		Data:        data,
		CurrentPage: page.CurrentPage,
		TotalCount:  page.Size,
	}
}

func domainAuditEventsToHTTP(events []*domain.AuditEvent) AuditEventsResponse {
	result := make([]AuditEventResponse, 0, len(events))
	for _, event := range events {
		item := AuditEventResponse{
			ID:        event.ID,
			Type:      string(event.Type),
			Status:    string(event.Status),
			ActorID:   event.Actor.ID,
			ActorName: event.Actor.Username,
			Error:     event.Error,
			CreatedAt: event.CreatedAt.Format(time.RFC3339Nano),
		}
		if event.OldValue != nil {
			oldValue := domainGroupToHTTP(event.OldValue)
			item.OldValue = &oldValue
		}
		if event.NewValue != nil {
			newValue := domainGroupToHTTP(event.NewValue)
			item.NewValue = &newValue
		}
		result = append(result, item)
	}
	return AuditEventsResponse{Events: result}
}

func httpNewGroupToDomain(req NewGroupRequest) *domain.NewGroup {
	return &domain.NewGroup{
		Name:        req.Name,
		Description: req.Description,
		Members:     req.Members,
	}
}

func httpUpdateGroupToDomain(req UpdateGroupRequest) *domain.UpdateGroup {
	return &domain.UpdateGroup{
		Name:            req.Name,
		Description:     req.Description,
		Members:         req.Members,
		Roles:           req.Roles,
		ExpectedVersion: req.Version,
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
