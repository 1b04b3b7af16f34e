package funnel

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// stageColumns maps funnel stages to the candidate timestamp columns
// that mark stage entry. A stage is counted when its timestamp falls
// inside the requested range.
var stageColumns = []string{
	"new_interview_at",
	"proposal_at",
	"recommendation_at",
	"interview_scheduled_at",
	"interview_held_at",
	"offer_at",
	"accept_at",
}

// Counts tallies stage entries inside [start, end]. An empty advisorID
// counts the whole company.
func (s *Store) Counts(ctx context.Context, advisorID string, start, end time.Time) (FunnelCounts, error) {
	var c FunnelCounts
	err := s.DB.QueryRow(ctx, `
    SELECT
      count(*) FILTER (WHERE new_interview_at       BETWEEN $2 AND $3),
      count(*) FILTER (WHERE proposal_at            BETWEEN $2 AND $3),
      count(*) FILTER (WHERE recommendation_at      BETWEEN $2 AND $3),
      count(*) FILTER (WHERE interview_scheduled_at BETWEEN $2 AND $3),
      count(*) FILTER (WHERE interview_held_at      BETWEEN $2 AND $3),
      count(*) FILTER (WHERE offer_at               BETWEEN $2 AND $3),
      count(*) FILTER (WHERE accept_at              BETWEEN $2 AND $3)
    FROM candidates
    WHERE ($1 = '' OR advisor_id = $1)
  `, advisorID, start, end).Scan(
		&c.NewInterviews, &c.Proposals, &c.Recommendations,
		&c.InterviewsScheduled, &c.InterviewsHeld, &c.Offers, &c.Accepts,
	)
	return c, err
}

// CohortCounts tallies downstream stages for the cohort of candidates
// whose first interview falls inside [start, end], regardless of when
// the later stages happened.
func (s *Store) CohortCounts(ctx context.Context, advisorID string, start, end time.Time) (FunnelCounts, error) {
	var c FunnelCounts
	err := s.DB.QueryRow(ctx, `
    SELECT
      count(*),
      count(proposal_at),
      count(recommendation_at),
      count(interview_scheduled_at),
      count(interview_held_at),
      count(offer_at),
      count(accept_at)
    FROM candidates
    WHERE ($1 = '' OR advisor_id = $1)
      AND new_interview_at BETWEEN $2 AND $3
  `, advisorID, start, end).Scan(
		&c.NewInterviews, &c.Proposals, &c.Recommendations,
		&c.InterviewsScheduled, &c.InterviewsHeld, &c.Offers, &c.Accepts,
	)
	return c, err
}

// CountsByDay tallies stage entries per calendar day inside the range,
// keyed by ISO date. Days with no activity are absent.
func (s *Store) CountsByDay(ctx context.Context, advisorID string, start, end time.Time) (map[string]FunnelCounts, error) {
	out := map[string]FunnelCounts{}
	for i, column := range stageColumns {
		rows, err := s.DB.Query(ctx, `
      SELECT to_char(`+column+`, 'YYYY-MM-DD'), count(*)
      FROM candidates
      WHERE ($1 = '' OR advisor_id = $1)
        AND `+column+` BETWEEN $2 AND $3
      GROUP BY 1
    `, advisorID, start, end)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var day string
			var n int
			if err := rows.Scan(&day, &n); err != nil {
				rows.Close()
				return nil, err
			}
			c := out[day]
			switch i {
			case 0:
				c.NewInterviews = n
			case 1:
				c.Proposals = n
			case 2:
				c.Recommendations = n
			case 3:
				c.InterviewsScheduled = n
			case 4:
				c.InterviewsHeld = n
			case 5:
				c.Offers = n
			case 6:
				c.Accepts = n
			}
			out[day] = c
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
