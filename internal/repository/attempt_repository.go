package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nokhba/academy-backend/internal/model"
)

var (
	ErrAttemptActive  = errors.New("an active attempt already exists for this lesson")
	ErrAttemptClaimed = errors.New("attempt is no longer active")
)

// AttemptRepository handles quiz attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create opens a new ACTIVE attempt. A partial unique index on
// (student_id, lesson_id) WHERE status = 'ACTIVE' enforces at most one
// in-flight attempt per pair.
func (r *AttemptRepository) Create(ctx context.Context, a *model.QuizAttempt) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts (lesson_id, student_id, started_at, deadline, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		a.LessonID, a.StudentID, a.StartedAt, a.Deadline, a.Status,
	).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAttemptActive
		}
		return err
	}
	return nil
}

// GetActive retrieves the in-flight attempt for a (student, lesson) pair.
// Returns nil without error when none exists.
func (r *AttemptRepository) GetActive(ctx context.Context, studentID int, lessonID uuid.UUID) (*model.QuizAttempt, error) {
	a := &model.QuizAttempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, lesson_id, student_id, started_at, deadline, status, submitted_at
		 FROM quiz_attempts
		 WHERE student_id = $1 AND lesson_id = $2 AND status = 'ACTIVE'`,
		studentID, lessonID,
	).Scan(&a.ID, &a.LessonID, &a.StudentID, &a.StartedAt, &a.Deadline, &a.Status, &a.SubmittedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Claim transitions an attempt out of ACTIVE exactly once. The conditional
// UPDATE guarantees that between a manual submit, an abandon and the sweeper
// only the first caller wins; later callers get ErrAttemptClaimed.
func (r *AttemptRepository) Claim(ctx context.Context, id uuid.UUID, to model.AttemptStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quiz_attempts
		 SET status = $2, submitted_at = NOW()
		 WHERE id = $1 AND status = 'ACTIVE'`,
		id, to,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAttemptClaimed
	}
	return nil
}

// ClaimAndRecord transitions an attempt out of ACTIVE and writes the graded
// verdict in one transaction. The conditional claim keeps grading
// exactly-once between a manual submit and the sweeper, and committing the
// verdict with the claim means a failed write leaves the attempt ACTIVE for
// the sweeper to retry; a claim can never land without its progress row.
// The guarded upsert never downgrades a recorded Pass; p is updated in place
// with the row as stored, which may be the retained Pass.
func (r *AttemptRepository) ClaimAndRecord(ctx context.Context, id uuid.UUID, to model.AttemptStatus, p *model.Progress) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE quiz_attempts
		 SET status = $2, submitted_at = NOW()
		 WHERE id = $1 AND status = 'ACTIVE'`,
		id, to,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAttemptClaimed
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO progress (student_id, lesson_id, status, score, total, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (student_id, lesson_id) DO UPDATE
		 SET status = EXCLUDED.status, score = EXCLUDED.score, total = EXCLUDED.total, updated_at = NOW()
		 WHERE progress.status <> 'Pass'
		 RETURNING status, score, total, updated_at`,
		p.StudentID, p.LessonID, p.Status, p.Score, p.Total,
	).Scan(&p.Status, &p.Score, &p.Total, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		// The guarded upsert skipped the row: an earlier Pass stands.
		err = tx.QueryRow(ctx,
			`SELECT status, score, total, updated_at FROM progress
			 WHERE student_id = $1 AND lesson_id = $2`,
			p.StudentID, p.LessonID,
		).Scan(&p.Status, &p.Score, &p.Total, &p.UpdatedAt)
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListExpired returns ACTIVE attempts whose deadline has passed.
// Used by the sweeper worker to auto-submit abandoned timers.
func (r *AttemptRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, lesson_id, student_id, started_at, deadline, status, submitted_at
		 FROM quiz_attempts
		 WHERE status = 'ACTIVE' AND deadline < $1
		 ORDER BY deadline ASC
		 LIMIT $2`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.QuizAttempt
	for rows.Next() {
		var a model.QuizAttempt
		if err := rows.Scan(&a.ID, &a.LessonID, &a.StudentID, &a.StartedAt, &a.Deadline, &a.Status, &a.SubmittedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
