package callshandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"atskpi/internal/domain/auth"
	"atskpi/internal/domain/calls"
	"atskpi/internal/domain/funnel"
	"atskpi/internal/transport/http/api"
	"atskpi/internal/transport/http/middleware"
	"atskpi/internal/transport/http/shared"
)

type Handler struct {
	Service     *calls.Service
	Perms       middleware.PermissionStore
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *calls.Service, perms middleware.PermissionStore, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Perms: perms, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calls", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCallsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermCallsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermCallsWrite, h.Perms)).Delete("/{callID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermCallsRead, h.Perms)).Get("/summary", h.handleSummaries)
		r.With(middleware.RequirePermission(auth.PermCallsRead, h.Perms)).Get("/candidates/{candidateID}/summary", h.handleCandidateSummary)
		r.With(middleware.RequirePermission(auth.PermCallsRead, h.Perms)).Get("/kpi", h.handleKPI)
	})
}

// parseRange defaults to the last 30 days when no range is given.
func parseRange(r *http.Request) (time.Time, time.Time, bool) {
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
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}
	end = end.Add(24*time.Hour - time.Nanosecond)
	return start, end, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRange(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "start and end must be valid dates", middleware.GetRequestID(r.Context()))
		return
	}

	logs, err := h.Service.List(r.Context(), start, end, r.URL.Query().Get("employee"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "call_list_failed", "failed to list call logs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, logs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "failed to read request body", middleware.GetRequestID(r.Context()))
		return
	}

	var raw calls.RawCallLog
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&raw); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, "calls.create", idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key already used with a different payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Success(w, stored, middleware.GetRequestID(r.Context()))
			return
		}
	}

	rec, err := h.Service.Create(r.Context(), raw)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "call_create_failed", "failed to record call log", middleware.GetRequestID(r.Context()))
		return
	}

	if idempotencyKey != "" {
		encoded, err := json.Marshal(rec)
		if err == nil {
			if err := h.Idempotency.Save(r.Context(), user.UserID, "calls.create", idempotencyKey, requestHash, encoded); err != nil {
				slog.Warn("idempotency save failed", "err", err)
			}
		}
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "callID"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "call id must be a positive integer", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "call_not_found", "call log not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "call_delete_failed", "failed to delete call log", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Service.Summaries(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "call_summary_failed", "failed to build contact summaries", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summaries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCandidateSummary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "candidateID"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "candidate id must be a positive integer", middleware.GetRequestID(r.Context()))
		return
	}

	summary, err := h.Service.CandidateSummary(r.Context(), id, r.URL.Query().Get("name"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "call_summary_failed", "failed to build contact summary", middleware.GetRequestID(r.Context()))
		return
	}
	if summary == nil {
		summary = &calls.ContactSummary{}
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleKPI(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRange(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "start and end must be valid dates", middleware.GetRequestID(r.Context()))
		return
	}

	groupBy := calls.GroupByDate
	switch r.URL.Query().Get("groupBy") {
	case string(calls.GroupByCaller):
		groupBy = calls.GroupByCaller
	case string(calls.GroupByCallerDate):
		groupBy = calls.GroupByCallerDate
	}

	basis := funnel.BasisContacts
	if r.URL.Query().Get("basis") == string(funnel.BasisSets) {
		basis = funnel.BasisSets
	}

	rows, err := h.Service.KPIRows(r.Context(), start, end, groupBy, basis)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "call_kpi_failed", "failed to compute call KPIs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}
