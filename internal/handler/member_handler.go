package handler

import (
	"net/http"
)

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	group, err := h.groupInDomain(r.Context(), r.PathValue("domain"), r.PathValue("group"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	members, err := h.groupService.FindMembers(r.Context(), group.ID, page, size)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainMemberPageToHTTP(members))
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	group, err := h.membershipEditor.AddMember(r.Context(), r.PathValue("domain"), r.PathValue("group"), r.PathValue("member"), actorFromRequest(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainGroupToHTTP(group))
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	group, err := h.membershipEditor.RemoveMember(r.Context(), r.PathValue("domain"), r.PathValue("group"), r.PathValue("member"), actorFromRequest(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainGroupToHTTP(group))
}
