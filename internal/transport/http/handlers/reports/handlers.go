package reportshandler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"atskpi/internal/domain/auth"
	"atskpi/internal/domain/funnel"
	"atskpi/internal/domain/goals"
	"atskpi/internal/domain/periods"
	"atskpi/internal/transport/http/api"
	"atskpi/internal/transport/http/middleware"
)

type Handler struct {
	Funnel      *funnel.Service
	Goals       *goals.Service
	Perms       middleware.PermissionStore
	ExportDir   string
	DefaultMode funnel.DenominatorMode
}

func NewHandler(funnelSvc *funnel.Service, goalsSvc *goals.Service, perms middleware.PermissionStore, exportDir string, defaultMode funnel.DenominatorMode) *Handler {
	return &Handler{Funnel: funnelSvc, Goals: goalsSvc, Perms: perms, ExportDir: exportDir, DefaultMode: defaultMode}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/periods/{periodID}/summary.pdf", h.handlePeriodPDF)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/periods/{periodID}/daily-goals.xlsx", h.handleDailyGoalsXLSX)
	})
}

func (h *Handler) period(r *http.Request) (periods.Period, error) {
	periodID := chi.URLParam(r, "periodID")
	list, err := h.Goals.Periods(r.Context())
	if err != nil {
		return periods.Period{}, err
	}
	for _, p := range list {
		if p.ID == periodID {
			return p, nil
		}
	}
	return periods.Period{}, goals.ErrPeriodNotFound
}

func (h *Handler) handlePeriodPDF(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		h.failPeriod(w, r, err)
		return
	}

	advisorID := r.URL.Query().Get("advisorId")
	if user, ok := middleware.GetUser(r.Context()); ok && user.RoleName == auth.RoleAdvisor {
		advisorID = user.UserID
	}

	start := periods.ParseDate(period.StartDate)
	end := periods.ParseDate(period.EndDate).Add(24*time.Hour - time.Nanosecond)
	summary, err := h.Funnel.Summary(r.Context(), advisorID, start, end, h.DefaultMode, funnel.TimeBasisEvent)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to compute period summary", middleware.GetRequestID(r.Context()))
		return
	}

	scope := goals.ScopeCompany
	if advisorID != "" {
		scope = goals.ScopePersonal
	}
	target, err := h.Goals.Target(r.Context(), scope, period.ID, advisorID)
	if err != nil {
		target = goals.Target{}
	}

	if err := os.MkdirAll(h.ExportDir, 0o755); err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to prepare export directory", middleware.GetRequestID(r.Context()))
		return
	}
	filePath := filepath.Join(h.ExportDir, fmt.Sprintf("summary-%s.pdf", period.ID))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Funnel Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s (%s to %s)", period.ID, period.StartDate, period.EndDate))
	pdf.Ln(10)

	rows := []struct {
		label     string
		actual    int
		targetKey string
	}{
		{"New interviews", summary.Counts.NewInterviews, "newInterviewsTarget"},
		{"Proposals", summary.Counts.Proposals, "proposalsTarget"},
		{"Recommendations", summary.Counts.Recommendations, "recommendationsTarget"},
		{"Interviews scheduled", summary.Counts.InterviewsScheduled, "interviewsScheduledTarget"},
		{"Interviews held", summary.Counts.InterviewsHeld, "interviewsHeldTarget"},
		{"Offers", summary.Counts.Offers, "offersTarget"},
		{"Accepts", summary.Counts.Accepts, "acceptsTarget"},
	}
	for _, row := range rows {
		pdf.Cell(0, 7, fmt.Sprintf("%s: %d / target %.0f", row.label, row.actual, target[row.targetKey]))
		pdf.Ln(6)
	}
	pdf.Ln(4)
	pdf.Cell(0, 7, fmt.Sprintf("Proposal rate: %.1f%%", summary.Rates.ProposalRate))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Offer rate: %.1f%%", summary.Rates.OfferRate))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Accept rate: %.1f%%", summary.Rates.AcceptRate))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Hire rate: %.1f%%", summary.Rates.HireRate))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to write PDF", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filePath)))
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, filePath)
}

func (h *Handler) handleDailyGoalsXLSX(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		h.failPeriod(w, r, err)
		return
	}

	advisorID := r.URL.Query().Get("advisorId")
	if user, ok := middleware.GetUser(r.Context()); ok && user.RoleName == auth.RoleAdvisor {
		advisorID = user.UserID
	}

	daily, err := h.Goals.DailyTargets(r.Context(), period.ID, advisorID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to load daily targets", middleware.GetRequestID(r.Context()))
		return
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheet, "A1", "Date")
	for i, key := range goals.DailyKeys {
		col, _ := excelize.ColumnNumberToName(2 + i)
		f.SetCellValue(sheet, col+"1", key)
	}
	lastCol, _ := excelize.ColumnNumberToName(1 + len(goals.DailyKeys))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)

	for rowIdx, day := range days {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		f.SetCellValue(sheet, cell, day)
		for i, key := range goals.DailyKeys {
			cell, _ := excelize.CoordinatesToCellName(2+i, rowIdx+2)
			f.SetCellValue(sheet, cell, daily[day][key])
		}
	}

	filename := fmt.Sprintf("daily-goals-%s.xlsx", period.ID)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(w); err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to write workbook", middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) failPeriod(w http.ResponseWriter, r *http.Request, err error) {
	if err == goals.ErrPeriodNotFound {
		api.Fail(w, http.StatusNotFound, "period_not_found", "goal period not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to resolve period", middleware.GetRequestID(r.Context()))
}
