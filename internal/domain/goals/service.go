package goals

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"atskpi/internal/domain/periods"
)

// Service owns the goal rule, the generated period sequence and the
// target values attached to periods and days.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Pool() *pgxpool.Pool {
	return s.store.DB
}

func (s *Service) Rule(ctx context.Context) (periods.Rule, error) {
	return s.store.GetRule(ctx)
}

// SaveRule normalizes the rule, regenerates the period sequence around
// today and persists both atomically. Existing targets keep their period
// ids; targets for ids no longer generated become unreachable but are
// not destroyed.
func (s *Service) SaveRule(ctx context.Context, rule periods.Rule, today time.Time) ([]periods.Period, error) {
	rule = periods.Normalize(rule)
	list := periods.Generate(rule, today)
	if err := s.store.SaveRule(ctx, rule, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) Periods(ctx context.Context) ([]periods.Period, error) {
	return s.store.ListPeriods(ctx)
}

// CurrentPeriod returns the stored period containing today, or the
// sequence generated from the stored rule when no periods are persisted
// yet.
func (s *Service) CurrentPeriod(ctx context.Context, today time.Time) (periods.Period, error) {
	list, err := s.store.ListPeriods(ctx)
	if err != nil {
		return periods.Period{}, err
	}
	if len(list) == 0 {
		rule, err := s.store.GetRule(ctx)
		if err != nil {
			return periods.Period{}, err
		}
		list = periods.Generate(rule, today)
	}
	if p := periods.PeriodByDate(periods.FormatDate(today), list); p != nil {
		return *p, nil
	}
	return periods.Period{}, ErrPeriodNotFound
}

// Target returns the stored target for the scope. A personal lookup
// falls back to the company target when the advisor has none of their
// own, matching how the dashboard seeds personal goals.
func (s *Service) Target(ctx context.Context, scope, periodID, advisorID string) (Target, error) {
	switch scope {
	case ScopeCompany:
		advisorID = ""
	case ScopePersonal:
		if advisorID == "" {
			return nil, ErrUnknownScope
		}
	default:
		return nil, ErrUnknownScope
	}

	target, err := s.store.PeriodTarget(ctx, scope, periodID, advisorID)
	if err != nil {
		return nil, err
	}
	if target == nil && scope == ScopePersonal {
		target, err = s.store.PeriodTarget(ctx, ScopeCompany, periodID, "")
		if err != nil {
			return nil, err
		}
	}
	if target == nil {
		target = Target{}
	}
	return target, nil
}

func (s *Service) SaveTarget(ctx context.Context, scope, periodID, advisorID string, target Target) error {
	switch scope {
	case ScopeCompany:
		advisorID = ""
	case ScopePersonal:
		if advisorID == "" {
			return ErrUnknownScope
		}
	default:
		return ErrUnknownScope
	}
	if _, err := s.store.GetPeriod(ctx, periodID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrPeriodNotFound
		}
		return err
	}
	return s.store.SavePeriodTarget(ctx, scope, periodID, advisorID, NormalizeTarget(target))
}

// CopyCompanyToPersonal seeds an advisor's personal target from the
// company target for the same period.
func (s *Service) CopyCompanyToPersonal(ctx context.Context, periodID, advisorID string) (Target, error) {
	if advisorID == "" {
		return nil, ErrUnknownScope
	}
	company, err := s.store.PeriodTarget(ctx, ScopeCompany, periodID, "")
	if err != nil {
		return nil, err
	}
	if company == nil {
		company = Target{}
	}
	if err := s.store.SavePeriodTarget(ctx, ScopePersonal, periodID, advisorID, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) DailyTargets(ctx context.Context, periodID, advisorID string) (DailyTargets, error) {
	return s.store.DailyTargets(ctx, periodID, advisorID)
}

func (s *Service) SaveDailyTargets(ctx context.Context, periodID, advisorID string, daily DailyTargets) error {
	if _, err := s.store.GetPeriod(ctx, periodID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrPeriodNotFound
		}
		return err
	}
	return s.store.SaveDailyTargets(ctx, periodID, advisorID, NormalizeDailyTargets(daily))
}

// DistributeDaily spreads the period target's count keys over the
// period's days and persists the result. Days reported inactive by
// active are skipped; nil active means every day counts.
func (s *Service) DistributeDaily(ctx context.Context, periodID, advisorID string, target Target, active func(string) bool) (DailyTargets, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}

	days := periods.DateStrings(period.StartDate, period.EndDate)
	daily := DailyTargets{}
	for _, key := range DailyKeys {
		cumulative := DistributeActive(days, active, target[key])
		for day, value := range cumulative {
			entry := daily[day]
			if entry == nil {
				entry = Target{}
				daily[day] = entry
			}
			entry[key] = value
		}
	}

	if err := s.store.SaveDailyTargets(ctx, periodID, advisorID, daily); err != nil {
		return nil, err
	}
	return daily, nil
}

// CopyPreviousDaily maps the previous period's daily values onto the
// target period by day position, not by date. The nth day of the new
// period receives the nth stored value; surplus source days are
// dropped and surplus target days stay empty.
func (s *Service) CopyPreviousDaily(ctx context.Context, periodID, advisorID string) (DailyTargets, error) {
	list, err := s.store.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}
	index := -1
	for i, p := range list {
		if p.ID == periodID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrPeriodNotFound
	}
	if index == 0 {
		return nil, ErrNoSourcePeriod
	}

	source := list[index-1]
	sourceDaily, err := s.store.DailyTargets(ctx, source.ID, advisorID)
	if err != nil {
		return nil, err
	}

	sourceDays := periods.DateStrings(source.StartDate, source.EndDate)
	targetDays := periods.DateStrings(list[index].StartDate, list[index].EndDate)

	daily := DailyTargets{}
	for i, day := range targetDays {
		if i >= len(sourceDays) {
			break
		}
		if entry, ok := sourceDaily[sourceDays[i]]; ok {
			daily[day] = entry
		}
	}

	if err := s.store.SaveDailyTargets(ctx, periodID, advisorID, daily); err != nil {
		return nil, err
	}
	return daily, nil
}
