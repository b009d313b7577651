package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nokhba/academy-backend/internal/model"
)

// ProgressRepository reads per-lesson verdicts. Verdicts are written together
// with the attempt claim in AttemptRepository.ClaimAndRecord.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Get retrieves the verdict for one (student, lesson) pair.
// Returns nil without error when no attempt has been graded yet.
func (r *ProgressRepository) Get(ctx context.Context, studentID int, lessonID uuid.UUID) (*model.Progress, error) {
	p := &model.Progress{}
	err := r.pool.QueryRow(ctx,
		`SELECT student_id, lesson_id, status, score, total, updated_at
		 FROM progress WHERE student_id = $1 AND lesson_id = $2`, studentID, lessonID,
	).Scan(&p.StudentID, &p.LessonID, &p.Status, &p.Score, &p.Total, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByStudent returns all verdicts for one student keyed by lesson ID.
func (r *ProgressRepository) ListByStudent(ctx context.Context, studentID int) (map[uuid.UUID]*model.Progress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id, lesson_id, status, score, total, updated_at
		 FROM progress WHERE student_id = $1`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID]*model.Progress)
	for rows.Next() {
		p := &model.Progress{}
		if err := rows.Scan(&p.StudentID, &p.LessonID, &p.Status, &p.Score, &p.Total, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result[p.LessonID] = p
	}
	return result, rows.Err()
}
