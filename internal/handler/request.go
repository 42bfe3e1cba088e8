package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorName = "X-Actor-Name"

	defaultPageSize = 20
	maxPageSize     = 200
)

// actorFromRequest берёт актора из заголовков; без X-Actor-ID изменения выполняются от имени system
func actorFromRequest(r *http.Request) domain.Principal {
	id := r.Header.Get(HeaderActorID)
	if id == "" {
		return domain.SystemPrincipal
	}
	name := r.Header.Get(HeaderActorName)
	if name == "" {
		name = id
	}
	return domain.Principal{ID: id, Username: name}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, badRequest(key + " must be a non-negative integer")
	}
	return value, nil
}

func pageParams(r *http.Request) (int, int, error) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		return 0, 0, err
	}
	size, err := queryInt(r, "size", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return page, min(size, maxPageSize), nil
}

// groupInDomain возвращает GroupNotFound и для группы из чужого домена
func (h *Handler) groupInDomain(ctx context.Context, domainID, groupID string) (*domain.Group, error) {
	group, err := h.groupService.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil || group.Domain != domainID {
		return nil, domain.NewGroupNotFoundError(groupID)
	}
	return group, nil
}
