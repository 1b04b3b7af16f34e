package goals

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"atskpi/internal/domain/periods"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetRule(ctx context.Context) (periods.Rule, error) {
	var ruleType string
	var optionsJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT rule_type, options_json
    FROM goal_rules
    WHERE id = 'default'
  `).Scan(&ruleType, &optionsJSON)
	if err == pgx.ErrNoRows {
		return periods.Normalize(periods.Rule{}), nil
	}
	if err != nil {
		return periods.Rule{}, err
	}
	var options periods.Options
	if err := json.Unmarshal(optionsJSON, &options); err != nil {
		options = periods.Options{}
	}
	return periods.Normalize(periods.Rule{Type: periods.RuleType(ruleType), Options: options}), nil
}

// SaveRule stores the rule and replaces the whole period sequence in one
// transaction. Periods are never patched in place; a rule change owns them.
func (s *Store) SaveRule(ctx context.Context, rule periods.Rule, list []periods.Period) error {
	optionsJSON, err := json.Marshal(rule.Options)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO goal_rules (id, rule_type, options_json, updated_at)
    VALUES ('default', $1, $2, now())
    ON CONFLICT (id)
    DO UPDATE SET rule_type = EXCLUDED.rule_type, options_json = EXCLUDED.options_json, updated_at = now()
  `, string(rule.Type), optionsJSON); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM goal_periods"); err != nil {
		return err
	}
	for position, period := range list {
		if _, err := tx.Exec(ctx, `
      INSERT INTO goal_periods (id, label, start_date, end_date, position)
      VALUES ($1,$2,$3,$4,$5)
    `, period.ID, period.Label, period.StartDate, period.EndDate, position); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ListPeriods(ctx context.Context) ([]periods.Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, label, start_date::text, end_date::text
    FROM goal_periods
    ORDER BY position
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []periods.Period
	for rows.Next() {
		var period periods.Period
		if err := rows.Scan(&period.ID, &period.Label, &period.StartDate, &period.EndDate); err != nil {
			return nil, err
		}
		out = append(out, period)
	}
	return out, nil
}

func (s *Store) GetPeriod(ctx context.Context, periodID string) (periods.Period, error) {
	var period periods.Period
	err := s.DB.QueryRow(ctx, `
    SELECT id, label, start_date::text, end_date::text
    FROM goal_periods
    WHERE id = $1
  `, periodID).Scan(&period.ID, &period.Label, &period.StartDate, &period.EndDate)
	return period, err
}

func (s *Store) PeriodTarget(ctx context.Context, scope, periodID, advisorID string) (Target, error) {
	var raw []byte
	err := s.DB.QueryRow(ctx, `
    SELECT targets_json
    FROM goal_period_targets
    WHERE scope = $1 AND period_id = $2 AND advisor_id = $3
  `, scope, periodID, advisorID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var target Target
	if err := json.Unmarshal(raw, &target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *Store) SavePeriodTarget(ctx context.Context, scope, periodID, advisorID string, target Target) error {
	raw, err := json.Marshal(target)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO goal_period_targets (scope, period_id, advisor_id, targets_json, updated_at)
    VALUES ($1,$2,$3,$4,now())
    ON CONFLICT (scope, period_id, advisor_id)
    DO UPDATE SET targets_json = EXCLUDED.targets_json, updated_at = now()
  `, scope, periodID, advisorID, raw)
	return err
}

func (s *Store) DailyTargets(ctx context.Context, periodID, advisorID string) (DailyTargets, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT day::text, targets_json
    FROM goal_daily_targets
    WHERE period_id = $1 AND advisor_id = $2
    ORDER BY day
  `, periodID, advisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := DailyTargets{}
	for rows.Next() {
		var day string
		var raw []byte
		if err := rows.Scan(&day, &raw); err != nil {
			return nil, err
		}
		var target Target
		if err := json.Unmarshal(raw, &target); err != nil {
			continue
		}
		out[day] = target
	}
	return out, nil
}

// SaveDailyTargets replaces the period's daily rows wholesale so removed
// days do not linger.
func (s *Store) SaveDailyTargets(ctx context.Context, periodID, advisorID string, daily DailyTargets) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    DELETE FROM goal_daily_targets WHERE period_id = $1 AND advisor_id = $2
  `, periodID, advisorID); err != nil {
		return err
	}
	for day, target := range daily {
		raw, err := json.Marshal(target)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO goal_daily_targets (period_id, advisor_id, day, targets_json)
      VALUES ($1,$2,$3,$4)
    `, periodID, advisorID, day, raw); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
