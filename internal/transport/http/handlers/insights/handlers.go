package insightshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"atskpi/internal/domain/auth"
	"atskpi/internal/domain/calls"
	"atskpi/internal/domain/insights"
	"atskpi/internal/transport/http/api"
	"atskpi/internal/transport/http/middleware"
	"atskpi/internal/transport/http/shared"
)

type Handler struct {
	Calls *calls.Service
	Perms middleware.PermissionStore
}

func NewHandler(callsSvc *calls.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Calls: callsSvc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/insights", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermInsightsRead, h.Perms)).Get("/slots", h.handleSlots)
		r.With(middleware.RequirePermission(auth.PermInsightsRead, h.Perms)).Get("/attempts", h.handleAttempts)
	})
}

// logsForRange defaults to the last 90 days, long enough for the slot
// heatmap to accumulate usable sample sizes.
func (h *Handler) logsForRange(r *http.Request) ([]calls.CallLogRecord, bool, error) {
	v := shared.NewValidator()
	var start, end time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, _ = v.Date("start", raw)
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, _ = v.Date("end", raw)
	}
	if v.HasIssues() {
		return nil, false, nil
	}
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -90)
	}
	end = end.Add(24*time.Hour - time.Nanosecond)

	logs, err := h.Calls.List(r.Context(), start, end, r.URL.Query().Get("employee"))
	return logs, true, err
}

func (h *Handler) handleSlots(w http.ResponseWriter, r *http.Request) {
	logs, ok, err := h.logsForRange(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "start and end must be valid dates", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "insights_failed", "failed to load call logs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, insights.RecommendSlots(logs), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAttempts(w http.ResponseWriter, r *http.Request) {
	logs, ok, err := h.logsForRange(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "start and end must be valid dates", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "insights_failed", "failed to load call logs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, insights.RecommendAttempts(logs), middleware.GetRequestID(r.Context()))
}
