package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bagdasarian/iam-groups/internal/handler"
)

func SetupRoutes(mux *http.ServeMux, h *handler.Handler) {
	mux.HandleFunc("GET /domains/{domain}/groups", h.ListGroups)
	mux.HandleFunc("POST /domains/{domain}/groups", h.CreateGroup)
	mux.HandleFunc("GET /domains/{domain}/groups/{group}", h.GetGroup)
	mux.HandleFunc("PUT /domains/{domain}/groups/{group}", h.UpdateGroup)
	mux.HandleFunc("DELETE /domains/{domain}/groups/{group}", h.DeleteGroup)
	mux.HandleFunc("GET /domains/{domain}/groups/{group}/members", h.ListMembers)
	mux.HandleFunc("POST /domains/{domain}/groups/{group}/members/{member}", h.AddMember)
	mux.HandleFunc("DELETE /domains/{domain}/groups/{group}/members/{member}", h.RemoveMember)
	mux.HandleFunc("PUT /domains/{domain}/groups/{group}/roles", h.AssignRoles)
	mux.HandleFunc("DELETE /domains/{domain}/groups/{group}/roles", h.RevokeRoles)
	mux.HandleFunc("GET /domains/{domain}/groups/{group}/audits", h.ListGroupAudits)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// NewRouter собирает маршруты и оборачивает их логированием запросов
func NewRouter(h *handler.Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	SetupRoutes(mux, h)
	return logRequests(mux, logger)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start),
		)
	})
}
