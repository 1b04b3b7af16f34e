package adminhandler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"atskpi/internal/domain/auth"
	"atskpi/internal/platform/jobs"
	"atskpi/internal/platform/metrics"
	"atskpi/internal/transport/http/api"
	"atskpi/internal/transport/http/middleware"
	"atskpi/internal/transport/http/shared"
)

type Handler struct {
	Auth    *auth.Service
	Jobs    *jobs.Service
	Perms   middleware.PermissionStore
	Metrics *metrics.Collector
}

func NewHandler(authSvc *auth.Service, jobsSvc *jobs.Service, perms middleware.PermissionStore, collector *metrics.Collector) *Handler {
	return &Handler{Auth: authSvc, Jobs: jobsSvc, Perms: perms, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermGoalsRead, h.Perms)).Get("/advisors", h.handleListAdvisors)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Get("/metrics", h.handleMetrics)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Post("/snapshots/run", h.handleRunSnapshot)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Post("/renumber/run", h.handleRunRenumber)
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "metrics_disabled", "metrics collection is disabled", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAdvisors(w http.ResponseWriter, r *http.Request) {
	advisors, err := h.Auth.ListAdvisors(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "advisors_failed", "failed to list advisors", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, advisors, middleware.GetRequestID(r.Context()))
}

// handleRunSnapshot recomputes and stores the KPI snapshot for one day,
// yesterday unless a day parameter is given.
func (h *Handler) handleRunSnapshot(w http.ResponseWriter, r *http.Request) {
	day := time.Now().AddDate(0, 0, -1)
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil || parsed.IsZero() {
			api.Fail(w, http.StatusBadRequest, "invalid_day", "day must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		day = parsed
	}

	result, err := h.Jobs.RunNow(r.Context(), jobs.JobKPISnapshot, func(ctx context.Context) (any, error) {
		return h.Jobs.SnapshotDay(ctx, day)
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "snapshot_failed", "failed to run KPI snapshot", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunRenumber(w http.ResponseWriter, r *http.Request) {
	_, err := h.Jobs.RunNow(r.Context(), jobs.JobAttemptRenumber, func(ctx context.Context) (any, error) {
		return nil, h.Jobs.Calls.Renumber(ctx)
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "renumber_failed", "failed to renumber call attempts", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "renumbered"}, middleware.GetRequestID(r.Context()))
}
