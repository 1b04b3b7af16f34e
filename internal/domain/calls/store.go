package calls

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const logColumns = `
  id, called_at, employee_name, route, target, COALESCE(candidate_id, 0),
  result, COALESCE(memo, ''), COALESCE(call_attempt, 0)
`

func (s *Store) scanLogs(rows pgx.Rows) ([]CallLogRecord, error) {
	defer rows.Close()
	var out []CallLogRecord
	for rows.Next() {
		var rec CallLogRecord
		var route string
		if err := rows.Scan(&rec.ID, &rec.Datetime, &rec.EmployeeName, &route,
			&rec.Target, &rec.CandidateID, &rec.ResultCode, &rec.Memo, &rec.CallAttempt); err != nil {
			return nil, err
		}
		rec.Route = Route(route)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) ListLogs(ctx context.Context, start, end time.Time, employeeName string) ([]CallLogRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+logColumns+`
    FROM call_logs
    WHERE called_at BETWEEN $1 AND $2
      AND ($3 = '' OR employee_name = $3)
    ORDER BY called_at
  `, start, end, employeeName)
	if err != nil {
		return nil, err
	}
	return s.scanLogs(rows)
}

// ListAllLogs returns every log in timestamp order. The attempt
// renumber sweep needs the whole set.
func (s *Store) ListAllLogs(ctx context.Context) ([]CallLogRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+logColumns+`
    FROM call_logs
    ORDER BY called_at
  `)
	if err != nil {
		return nil, err
	}
	return s.scanLogs(rows)
}

func (s *Store) LogsForCandidate(ctx context.Context, candidateID int64) ([]CallLogRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+logColumns+`
    FROM call_logs
    WHERE candidate_id = $1
    ORDER BY called_at
  `, candidateID)
	if err != nil {
		return nil, err
	}
	return s.scanLogs(rows)
}

func (s *Store) InsertLog(ctx context.Context, rec CallLogRecord) (int64, error) {
	var candidateID any
	if rec.CandidateID > 0 {
		candidateID = rec.CandidateID
	}
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO call_logs (called_at, employee_name, route, target, candidate_id, result, memo)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, rec.Datetime, rec.EmployeeName, string(rec.Route), rec.Target, candidateID, rec.ResultCode, rec.Memo).Scan(&id)
	return id, err
}

func (s *Store) DeleteLog(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM call_logs WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SaveAttempts writes the freshly derived attempt numbers back in one
// transaction.
func (s *Store) SaveAttempts(ctx context.Context, logs []CallLogRecord) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rec := range logs {
		if _, err := tx.Exec(ctx, `
      UPDATE call_logs SET call_attempt = $2 WHERE id = $1
    `, rec.ID, rec.CallAttempt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) ListCandidates(ctx context.Context) ([]Candidate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), attendance_confirmed
    FROM candidates
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.AttendanceConfirmed); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
