package kpihandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"atskpi/internal/domain/auth"
	"atskpi/internal/domain/funnel"
	"atskpi/internal/domain/goals"
	"atskpi/internal/domain/periods"
	"atskpi/internal/transport/http/api"
	"atskpi/internal/transport/http/middleware"
	"atskpi/internal/transport/http/shared"
)

type Handler struct {
	Funnel      *funnel.Service
	Goals       *goals.Service
	Perms       middleware.PermissionStore
	DefaultMode funnel.DenominatorMode
}

func NewHandler(funnelSvc *funnel.Service, goalsSvc *goals.Service, perms middleware.PermissionStore, defaultMode funnel.DenominatorMode) *Handler {
	return &Handler{Funnel: funnelSvc, Goals: goalsSvc, Perms: perms, DefaultMode: defaultMode}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kpi", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/trend/daily", h.handleDailyTrend)
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/trend/periods", h.handlePeriodTrend)
	})
}

func (h *Handler) mode(r *http.Request) funnel.DenominatorMode {
	switch r.URL.Query().Get("mode") {
	case string(funnel.ModeBase):
		return funnel.ModeBase
	case string(funnel.ModeStep):
		return funnel.ModeStep
	}
	if h.DefaultMode == funnel.ModeBase {
		return funnel.ModeBase
	}
	return funnel.ModeStep
}

// advisorParam resolves the advisor filter. Advisors always see their
// own numbers; managers and admins may ask for any advisor or the
// company by leaving the filter empty.
func advisorParam(r *http.Request) string {
	advisorID := r.URL.Query().Get("advisorId")
	if user, ok := middleware.GetUser(r.Context()); ok && user.RoleName == auth.RoleAdvisor {
		return user.UserID
	}
	return advisorID
}

// dateRange parses start/end, defaulting to the current goal period
// and then to the current calendar month.
func (h *Handler) dateRange(r *http.Request) (time.Time, time.Time, bool) {
	v := shared.NewValidator()
	var start, end time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, _ = v.Date("start", raw)
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, _ = v.Date("end", raw)
	}
	if v.HasIssues() {
		return time.Time{}, time.Time{}, false
	}
	if start.IsZero() || end.IsZero() {
		now := time.Now()
		if period, err := h.Goals.CurrentPeriod(r.Context(), now); err == nil {
			if start.IsZero() {
				start, _ = shared.ParseDate(period.StartDate)
			}
			if end.IsZero() {
				end, _ = shared.ParseDate(period.EndDate)
			}
		}
		if start.IsZero() {
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
		if end.IsZero() {
			end = start.AddDate(0, 1, -1)
		}
	}
	end = end.Add(24*time.Hour - time.Nanosecond)
	return start, end, true
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.dateRange(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "start and end must be valid dates", middleware.GetRequestID(r.Context()))
		return
	}

	basis := funnel.TimeBasisEvent
	if r.URL.Query().Get("basis") == string(funnel.TimeBasisCohort) {
		basis = funnel.TimeBasisCohort
	}

	summary, err := h.Funnel.Summary(r.Context(), advisorParam(r), start, end, h.mode(r), basis)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_summary_failed", "failed to compute summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDailyTrend(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.dateRange(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "start and end must be valid dates", middleware.GetRequestID(r.Context()))
		return
	}

	points, err := h.Funnel.DailyTrend(r.Context(), advisorParam(r), start, end, h.mode(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_trend_failed", "failed to compute daily trend", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, points, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePeriodTrend(w http.ResponseWriter, r *http.Request) {
	list, err := h.Goals.Periods(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_trend_failed", "failed to list periods", middleware.GetRequestID(r.Context()))
		return
	}
	if len(list) == 0 {
		rule, err := h.Goals.Rule(r.Context())
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "kpi_trend_failed", "failed to load goal rule", middleware.GetRequestID(r.Context()))
			return
		}
		list = periods.Generate(rule, time.Now())
	}

	points, err := h.Funnel.PeriodTrend(r.Context(), advisorParam(r), list, h.mode(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_trend_failed", "failed to compute period trend", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, points, middleware.GetRequestID(r.Context()))
}
