package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"atskpi/internal/domain/calls"
	"atskpi/internal/domain/funnel"
	"atskpi/internal/platform/config"
)

const (
	JobKPISnapshot     = "kpi_snapshot"
	JobAttemptRenumber = "attempt_renumber"
)

type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	queue chan job

	Funnel *funnel.Service
	Calls  *calls.Service
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, funnelSvc *funnel.Service, callsSvc *calls.Service) *Service {
	return &Service{
		DB:     db,
		Cfg:    cfg,
		queue:  make(chan job, 128),
		Funnel: funnelSvc,
		Calls:  callsSvc,
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.SnapshotInterval > 0 {
		go s.scheduleSnapshots(ctx, s.Cfg.SnapshotInterval)
	}
	if s.Cfg.RenumberInterval > 0 {
		go s.scheduleRenumber(ctx, s.Cfg.RenumberInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleSnapshots(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobKPISnapshot, func(ctx context.Context) (any, error) {
				return s.SnapshotDay(ctx, time.Now().AddDate(0, 0, -1))
			})
		}
	}
}

func (s *Service) scheduleRenumber(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobAttemptRenumber, func(ctx context.Context) (any, error) {
				return nil, s.Calls.Renumber(ctx)
			})
		}
	}
}

// SnapshotDay stores the company funnel counts and summary rates for
// one calendar day. Re-running a day overwrites its snapshot.
func (s *Service) SnapshotDay(ctx context.Context, day time.Time) (any, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	mode := funnel.ModeStep
	if s.Cfg.DefaultRateMode == "base" {
		mode = funnel.ModeBase
	}
	summary, err := s.Funnel.Summary(ctx, "", start, end, mode, funnel.TimeBasisEvent)
	if err != nil {
		return nil, err
	}

	countsJSON, err := json.Marshal(summary.Counts)
	if err != nil {
		return nil, err
	}
	ratesJSON, err := json.Marshal(summary.Rates)
	if err != nil {
		return nil, err
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO kpi_snapshots (day, counts_json, rates_json)
    VALUES ($1,$2,$3)
    ON CONFLICT (day)
    DO UPDATE SET counts_json = EXCLUDED.counts_json, rates_json = EXCLUDED.rates_json, created_at = now()
  `, start.Format("2006-01-02"), countsJSON, ratesJSON)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
