package handler

import (
	"net/http"
)

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	groups, err := h.groupService.FindByDomainPage(r.Context(), r.PathValue("domain"), page, size)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainGroupPageToHTTP(groups))
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req NewGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if req.Name == "" {
		h.handleError(w, r, badRequest("name is required"))
		return
	}

	group, err := h.groupService.Create(r.Context(), r.PathValue("domain"), httpNewGroupToDomain(req), actorFromRequest(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainGroupToHTTP(group))
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupInDomain(r.Context(), r.PathValue("domain"), r.PathValue("group"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainGroupToHTTP(group))
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req UpdateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if req.Name == "" {
		h.handleError(w, r, badRequest("name is required"))
		return
	}

	group, err := h.groupService.Update(r.Context(), r.PathValue("domain"), r.PathValue("group"), httpUpdateGroupToDomain(req), actorFromRequest(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainGroupToHTTP(group))
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupInDomain(r.Context(), r.PathValue("domain"), r.PathValue("group"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.groupService.Delete(r.Context(), group.ID, actorFromRequest(r)); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AssignRoles(w http.ResponseWriter, r *http.Request) {
	h.changeRoles(w, r, false)
}

func (h *Handler) RevokeRoles(w http.ResponseWriter, r *http.Request) {
	h.changeRoles(w, r, true)
}

func (h *Handler) changeRoles(w http.ResponseWriter, r *http.Request, revoke bool) {
	var req RolesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	group, err := h.groupInDomain(r.Context(), r.PathValue("domain"), r.PathValue("group"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if revoke {
		group, err = h.groupService.RevokeRoles(r.Context(), group.ID, req.Roles, actorFromRequest(r))
	} else {
		group, err = h.groupService.AssignRoles(r.Context(), group.ID, req.Roles, actorFromRequest(r))
	}
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainGroupToHTTP(group))
}

func (h *Handler) ListGroupAudits(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	events, err := h.auditService.FindGroupEvents(r.Context(), r.PathValue("domain"), r.PathValue("group"), limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainAuditEventsToHTTP(events))
}
