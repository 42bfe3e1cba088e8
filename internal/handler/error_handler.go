package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

const (
	codeBadRequest    = "BAD_REQUEST"
	codeInternalError = "INTERNAL_ERROR"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		writeJSON(w, getStatusCode(domainErr.Code), ErrorResponse{
			Error: ErrorDetail{
				Code:    domainErr.Code,
				Message: domainErr.Message,
			},
		})
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)

	message := "internal server error"
	var technicalErr *domain.TechnicalError
	if errors.As(err, &technicalErr) {
		message = technicalErr.Message
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    codeInternalError,
			Message: message,
		},
	})
}

func badRequest(message string) error {
	return &domain.DomainError{
		Code:    codeBadRequest,
		Message: message,
	}
}

func getStatusCode(errorCode string) int {
	switch errorCode {
	case codeBadRequest:
		return http.StatusBadRequest
	case domain.CodeDomainNotFound, domain.CodeGroupNotFound, domain.CodeUserNotFound, domain.CodeMemberNotFound:
		return http.StatusNotFound
	case domain.CodeRoleNotFound:
		return http.StatusBadRequest
	case domain.CodeGroupAlreadyExists, domain.CodeMemberAlreadyExists, domain.CodeConcurrentModification:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
