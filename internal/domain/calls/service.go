package calls

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"atskpi/internal/domain/funnel"
)

// GroupBy selects how outbound KPI rows are bucketed.
type GroupBy string

const (
	GroupByDate       GroupBy = "date"
	GroupByCaller     GroupBy = "caller"
	GroupByCallerDate GroupBy = "caller_date"
)

// KPIRow is one bucket of the outbound-call KPI table.
type KPIRow struct {
	Date           string  `json:"date,omitempty"`
	Caller         string  `json:"caller,omitempty"`
	TotalCalls     int     `json:"totalCalls"`
	ConnectedCalls int     `json:"connectedCalls"`
	NoAnswerCalls  int     `json:"noAnswerCalls"`
	ScheduledCalls int     `json:"scheduledCalls"`
	AttendedCalls  int     `json:"attendedCalls"`
	SmsCalls       int     `json:"smsCalls"`
	ConnectRate    float64 `json:"connectRate"`
	ScheduleRate   float64 `json:"scheduleRate"`
	AttendanceRate float64 `json:"attendanceRate"`
}

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Pool() *pgxpool.Pool {
	return s.store.DB
}

func (s *Service) List(ctx context.Context, start, end time.Time, employeeName string) ([]CallLogRecord, error) {
	return s.store.ListLogs(ctx, start, end, employeeName)
}

// Create normalizes the raw payload, resolves a candidate id when the
// log arrives without one, inserts, and renumbers the whole set.
func (s *Service) Create(ctx context.Context, raw RawCallLog) (CallLogRecord, error) {
	rec := raw.Normalize()
	if rec.Datetime.IsZero() {
		rec.Datetime = time.Now()
	}
	if rec.CandidateID == 0 {
		candidates, err := s.store.ListCandidates(ctx)
		if err != nil {
			return CallLogRecord{}, err
		}
		rec.CandidateID = Resolve(rec, candidates)
	}

	id, err := s.store.InsertLog(ctx, rec)
	if err != nil {
		return CallLogRecord{}, err
	}
	rec.ID = id

	if err := s.Renumber(ctx); err != nil {
		return CallLogRecord{}, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteLog(ctx, id); err != nil {
		return err
	}
	return s.Renumber(ctx)
}

// Renumber reassigns callAttempt across every stored log and persists
// the result. Runs after each mutation and from the periodic sweep.
func (s *Service) Renumber(ctx context.Context) error {
	logs, err := s.store.ListAllLogs(ctx)
	if err != nil {
		return err
	}
	AssignAttempts(logs)
	return s.store.SaveAttempts(ctx, logs)
}

// Summaries rebuilds every contact summary from the full log set.
func (s *Service) Summaries(ctx context.Context) (map[string]*ContactSummary, error) {
	logs, err := s.store.ListAllLogs(ctx)
	if err != nil {
		return nil, err
	}
	return BuildSummaries(logs), nil
}

// CandidateSummary returns the contact summary for one candidate, nil
// when the candidate has no logs.
func (s *Service) CandidateSummary(ctx context.Context, candidateID int64, name string) (*ContactSummary, error) {
	summaries, err := s.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	return SummaryFor(summaries, candidateID, name), nil
}

// KPIRows buckets classified tel logs and computes the outbound-funnel
// rates per bucket. Classification happens here, in one place, rather
// than in SQL.
func (s *Service) KPIRows(ctx context.Context, start, end time.Time, groupBy GroupBy, basis funnel.AttendanceBasis) ([]KPIRow, error) {
	logs, err := s.store.ListLogs(ctx, start, end, "")
	if err != nil {
		return nil, err
	}
	return buildKPIRows(logs, groupBy, basis), nil
}

func buildKPIRows(logs []CallLogRecord, groupBy GroupBy, basis funnel.AttendanceBasis) []KPIRow {
	rows := map[string]*KPIRow{}
	var order []string

	for _, log := range logs {
		if log.Route != RouteTel {
			continue
		}
		date := log.Datetime.Format("2006-01-02")
		var key string
		row := KPIRow{}
		switch groupBy {
		case GroupByCaller:
			key = log.EmployeeName
			row.Caller = log.EmployeeName
		case GroupByCallerDate:
			key = log.EmployeeName + "|" + date
			row.Caller = log.EmployeeName
			row.Date = date
		default:
			key = date
			row.Date = date
		}

		r, ok := rows[key]
		if !ok {
			r = &row
			rows[key] = r
			order = append(order, key)
		}

		code := Classify(log.ResultCode)
		r.TotalCalls++
		if IsConnect(code) {
			r.ConnectedCalls++
		}
		switch code {
		case CodeNoAnswer:
			r.NoAnswerCalls++
		case CodeSmsSent:
			r.SmsCalls++
		}
		if IsSet(code) {
			r.ScheduledCalls++
		}
		if code == CodeShow {
			r.AttendedCalls++
		}
	}

	sort.Strings(order)
	out := make([]KPIRow, 0, len(order))
	for _, key := range order {
		r := rows[key]
		r.ConnectRate = funnel.Ratio{Numer: float64(r.ConnectedCalls), Denom: float64(r.TotalCalls)}.Percent1()
		r.ScheduleRate = funnel.Ratio{Numer: float64(r.ScheduledCalls), Denom: float64(r.ConnectedCalls)}.Percent1()
		r.AttendanceRate = funnel.ShowRate(r.AttendedCalls, r.ScheduledCalls, r.ConnectedCalls, basis).Percent1()
		out = append(out, *r)
	}
	return out
}
