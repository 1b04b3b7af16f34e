package goalshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"atskpi/internal/domain/auth"
	"atskpi/internal/domain/goals"
	"atskpi/internal/domain/periods"
	"atskpi/internal/transport/http/api"
	"atskpi/internal/transport/http/middleware"
)

type Handler struct {
	Service *goals.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *goals.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermGoalsRead, h.Perms)).Get("/rule", h.handleGetRule)
		r.With(middleware.RequirePermission(auth.PermGoalRuleWrite, h.Perms)).Put("/rule", h.handleSaveRule)
		r.With(middleware.RequirePermission(auth.PermGoalsRead, h.Perms)).Get("/periods", h.handleListPeriods)
		r.With(middleware.RequirePermission(auth.PermGoalsRead, h.Perms)).Get("/periods/current", h.handleCurrentPeriod)
		r.With(middleware.RequirePermission(auth.PermGoalsRead, h.Perms)).Get("/periods/{periodID}/targets", h.handleGetTarget)
		r.With(middleware.RequirePermission(auth.PermGoalsWrite, h.Perms)).Put("/periods/{periodID}/targets", h.handleSaveTarget)
		r.With(middleware.RequirePermission(auth.PermGoalsWrite, h.Perms)).Post("/periods/{periodID}/targets/copy-company", h.handleCopyCompany)
		r.With(middleware.RequirePermission(auth.PermGoalsRead, h.Perms)).Get("/periods/{periodID}/daily", h.handleGetDaily)
		r.With(middleware.RequirePermission(auth.PermGoalsWrite, h.Perms)).Put("/periods/{periodID}/daily", h.handleSaveDaily)
		r.With(middleware.RequirePermission(auth.PermGoalsWrite, h.Perms)).Post("/periods/{periodID}/distribute", h.handleDistribute)
		r.With(middleware.RequirePermission(auth.PermGoalsWrite, h.Perms)).Post("/periods/{periodID}/copy-previous", h.handleCopyPrevious)
	})
}

func (h *Handler) handleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := h.Service.Rule(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_rule_failed", "failed to load goal rule", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rule, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSaveRule(w http.ResponseWriter, r *http.Request) {
	var payload periods.Rule
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	list, err := h.Service.SaveRule(r.Context(), payload, time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_rule_save_failed", "failed to save goal rule", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"rule": periods.Normalize(payload), "periods": list}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Periods(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "periods_failed", "failed to list periods", middleware.GetRequestID(r.Context()))
		return
	}
	if len(list) == 0 {
		rule, err := h.Service.Rule(r.Context())
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "periods_failed", "failed to list periods", middleware.GetRequestID(r.Context()))
			return
		}
		list = periods.Generate(rule, time.Now())
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.Service.CurrentPeriod(r.Context(), time.Now())
	if err != nil {
		if errors.Is(err, goals.ErrPeriodNotFound) {
			api.Fail(w, http.StatusNotFound, "period_not_found", "no period contains today", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "periods_failed", "failed to resolve current period", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

// scopeParams pulls the scope and advisor selection shared by the
// target endpoints. Personal scope for a non-manager is pinned to the
// caller's own advisor id.
func scopeParams(r *http.Request) (scope, advisorID string) {
	scope = r.URL.Query().Get("scope")
	if scope == "" {
		scope = goals.ScopeCompany
	}
	advisorID = r.URL.Query().Get("advisorId")
	if user, ok := middleware.GetUser(r.Context()); ok && user.RoleName == auth.RoleAdvisor {
		if scope == goals.ScopePersonal {
			advisorID = user.UserID
		}
	}
	return scope, advisorID
}

func (h *Handler) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	scope, advisorID := scopeParams(r)

	target, err := h.Service.Target(r.Context(), scope, periodID, advisorID)
	if err != nil {
		if errors.Is(err, goals.ErrUnknownScope) {
			api.Fail(w, http.StatusBadRequest, "invalid_scope", "unknown goal scope", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "target_failed", "failed to load target", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"scope": scope, "periodId": periodID, "target": target}, middleware.GetRequestID(r.Context()))
}

type saveTargetPayload struct {
	Scope     string       `json:"scope"`
	AdvisorID string       `json:"advisorId"`
	Target    goals.Target `json:"target"`
}

func (h *Handler) handleSaveTarget(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")

	var payload saveTargetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Scope == "" {
		payload.Scope = goals.ScopeCompany
	}
	if user, ok := middleware.GetUser(r.Context()); ok && user.RoleName == auth.RoleAdvisor && payload.Scope == goals.ScopePersonal {
		payload.AdvisorID = user.UserID
	}

	if err := h.Service.SaveTarget(r.Context(), payload.Scope, periodID, payload.AdvisorID, payload.Target); err != nil {
		h.failTargetWrite(w, r, err, "target_save_failed", "failed to save target")
		return
	}
	api.Success(w, map[string]string{"status": "saved"}, middleware.GetRequestID(r.Context()))
}

type copyCompanyPayload struct {
	AdvisorID string `json:"advisorId"`
}

func (h *Handler) handleCopyCompany(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")

	var payload copyCompanyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if user, ok := middleware.GetUser(r.Context()); ok && user.RoleName == auth.RoleAdvisor {
		payload.AdvisorID = user.UserID
	}

	target, err := h.Service.CopyCompanyToPersonal(r.Context(), periodID, payload.AdvisorID)
	if err != nil {
		h.failTargetWrite(w, r, err, "target_copy_failed", "failed to copy company target")
		return
	}
	api.Success(w, map[string]any{"target": target}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDaily(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	_, advisorID := scopeParams(r)

	daily, err := h.Service.DailyTargets(r.Context(), periodID, advisorID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "daily_targets_failed", "failed to load daily targets", middleware.GetRequestID(r.Context()))
		return
	}
	if daily == nil {
		daily = goals.DailyTargets{}
	}
	api.Success(w, map[string]any{"periodId": periodID, "daily": daily}, middleware.GetRequestID(r.Context()))
}

type saveDailyPayload struct {
	AdvisorID string             `json:"advisorId"`
	Daily     goals.DailyTargets `json:"daily"`
}

func (h *Handler) handleSaveDaily(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")

	var payload saveDailyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if user, ok := middleware.GetUser(r.Context()); ok && user.RoleName == auth.RoleAdvisor {
		payload.AdvisorID = user.UserID
	}

	if err := h.Service.SaveDailyTargets(r.Context(), periodID, payload.AdvisorID, payload.Daily); err != nil {
		h.failTargetWrite(w, r, err, "daily_save_failed", "failed to save daily targets")
		return
	}
	api.Success(w, map[string]string{"status": "saved"}, middleware.GetRequestID(r.Context()))
}

type distributePayload struct {
	AdvisorID  string       `json:"advisorId"`
	Target     goals.Target `json:"target"`
	ActiveDays []string     `json:"activeDays"`
}

func (h *Handler) handleDistribute(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")

	var payload distributePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if user, ok := middleware.GetUser(r.Context()); ok && user.RoleName == auth.RoleAdvisor {
		payload.AdvisorID = user.UserID
	}

	var active func(string) bool
	if len(payload.ActiveDays) > 0 {
		set := make(map[string]bool, len(payload.ActiveDays))
		for _, day := range payload.ActiveDays {
			set[day] = true
		}
		active = func(day string) bool { return set[day] }
	}

	daily, err := h.Service.DistributeDaily(r.Context(), periodID, payload.AdvisorID, goals.NormalizeTarget(payload.Target), active)
	if err != nil {
		h.failTargetWrite(w, r, err, "distribute_failed", "failed to distribute targets")
		return
	}
	api.Success(w, map[string]any{"periodId": periodID, "daily": daily}, middleware.GetRequestID(r.Context()))
}

type copyPreviousPayload struct {
	AdvisorID string `json:"advisorId"`
}

func (h *Handler) handleCopyPrevious(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")

	var payload copyPreviousPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if user, ok := middleware.GetUser(r.Context()); ok && user.RoleName == auth.RoleAdvisor {
		payload.AdvisorID = user.UserID
	}

	daily, err := h.Service.CopyPreviousDaily(r.Context(), periodID, payload.AdvisorID)
	if err != nil {
		if errors.Is(err, goals.ErrNoSourcePeriod) {
			api.Fail(w, http.StatusConflict, "no_source_period", "no earlier period to copy from", middleware.GetRequestID(r.Context()))
			return
		}
		h.failTargetWrite(w, r, err, "copy_previous_failed", "failed to copy previous daily targets")
		return
	}
	api.Success(w, map[string]any{"periodId": periodID, "daily": daily}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failTargetWrite(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, goals.ErrPeriodNotFound), errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "period_not_found", "goal period not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, goals.ErrUnknownScope):
		api.Fail(w, http.StatusBadRequest, "invalid_scope", "unknown goal scope", middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, middleware.GetRequestID(r.Context()))
	}
}
