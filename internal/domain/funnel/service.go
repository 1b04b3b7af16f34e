package funnel

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"atskpi/internal/domain/periods"
)

// TimeBasis selects how a date range attributes funnel activity. Event
// basis counts each stage transition in the range it happened; cohort
// basis follows candidates whose first interview is in the range.
type TimeBasis string

const (
	TimeBasisEvent  TimeBasis = "event"
	TimeBasisCohort TimeBasis = "cohort"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Pool() *pgxpool.Pool {
	return s.store.DB
}

// Summary bundles a counts snapshot with its summary-card rates.
type Summary struct {
	StartDate string       `json:"startDate"`
	EndDate   string       `json:"endDate"`
	Counts    FunnelCounts `json:"counts"`
	Hires     int          `json:"hires"`
	Rates     SummaryRates `json:"rates"`
}

func (s *Service) Summary(ctx context.Context, advisorID string, start, end time.Time, mode DenominatorMode, basis TimeBasis) (Summary, error) {
	var counts FunnelCounts
	var err error
	if basis == TimeBasisCohort {
		counts, err = s.store.CohortCounts(ctx, advisorID, start, end)
	} else {
		counts, err = s.store.Counts(ctx, advisorID, start, end)
	}
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		StartDate: periods.FormatDate(start),
		EndDate:   periods.FormatDate(end),
		Counts:    counts,
		Hires:     counts.Hires(),
		Rates:     SummaryRatesFor(ComputeRates(counts, mode)),
	}, nil
}

// DailyTrend returns one point per day of the range, in order. Days
// with no activity keep zero counts and nil rates so charts can show
// the gap.
func (s *Service) DailyTrend(ctx context.Context, advisorID string, start, end time.Time, mode DenominatorMode) ([]TrendPoint, error) {
	byDay, err := s.store.CountsByDay(ctx, advisorID, start, end)
	if err != nil {
		return nil, err
	}

	days := periods.DateStrings(periods.FormatDate(start), periods.FormatDate(end))
	out := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		counts := byDay[day]
		out = append(out, TrendPoint{
			Bucket: day,
			Counts: counts,
			Rates:  TrendRatesFor(ComputeRates(counts, mode)),
		})
	}
	return out, nil
}

// PeriodTrend returns one point per evaluation period, labelled by
// period id.
func (s *Service) PeriodTrend(ctx context.Context, advisorID string, list []periods.Period, mode DenominatorMode) ([]TrendPoint, error) {
	out := make([]TrendPoint, 0, len(list))
	for _, p := range list {
		start := periods.ParseDate(p.StartDate)
		end := periods.ParseDate(p.EndDate)
		if start.IsZero() || end.IsZero() {
			continue
		}
		counts, err := s.store.Counts(ctx, advisorID, start, end.Add(24*time.Hour-time.Nanosecond))
		if err != nil {
			return nil, err
		}
		out = append(out, TrendPoint{
			Bucket: p.ID,
			Counts: counts,
			Rates:  TrendRatesFor(ComputeRates(counts, mode)),
		})
	}
	return out, nil
}
