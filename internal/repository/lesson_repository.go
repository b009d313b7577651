package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nokhba/academy-backend/internal/model"
)

// LessonRepository handles lesson data access.
// Questions live in a jsonb column; pgx marshals them transparently.
type LessonRepository struct {
	pool *pgxpool.Pool
}

// NewLessonRepository creates a new LessonRepository.
func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

// GetByID retrieves a lesson by its UUID, questions included.
func (r *LessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	l := &model.Lesson{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, url, youtube_id, duration_minutes, grade, study_type, questions, created_at
		 FROM lessons WHERE id = $1`, id,
	).Scan(&l.ID, &l.Title, &l.URL, &l.YouTubeID, &l.DurationMinutes, &l.Grade, &l.StudyType, &l.Questions, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListByAudience returns lessons matching a student's grade and study type,
// oldest first so the catalogue reads in teaching order.
func (r *LessonRepository) ListByAudience(ctx context.Context, grade model.Grade, studyType model.StudyType) ([]model.Lesson, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, url, youtube_id, duration_minutes, grade, study_type, questions, created_at
		 FROM lessons WHERE grade = $1 AND study_type = $2
		 ORDER BY created_at ASC`, grade, studyType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.YouTubeID, &l.DurationMinutes, &l.Grade, &l.StudyType, &l.Questions, &l.CreatedAt); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// ListPaginated retrieves lessons for the admin catalogue with an optional
// grade filter.
func (r *LessonRepository) ListPaginated(ctx context.Context, grade string, limit, offset int) ([]model.Lesson, int, error) {
	// 1. Get total count
	countQuery := `SELECT COUNT(*) FROM lessons`
	var countArgs []interface{}
	if grade != "" {
		countQuery += ` WHERE grade = $1`
		countArgs = append(countArgs, grade)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// 2. Get paginated data
	query := `SELECT id, title, url, youtube_id, duration_minutes, grade, study_type, questions, created_at FROM lessons`
	var args []interface{}
	argIdx := 1

	if grade != "" {
		query += ` WHERE grade = $1`
		args = append(args, grade)
		argIdx++
	}

	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.YouTubeID, &l.DurationMinutes, &l.Grade, &l.StudyType, &l.Questions, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		lessons = append(lessons, l)
	}
	return lessons, total, rows.Err()
}

// ListAll returns every lesson. Used for cache prewarming on startup.
func (r *LessonRepository) ListAll(ctx context.Context) ([]model.Lesson, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, url, youtube_id, duration_minutes, grade, study_type, questions, created_at
		 FROM lessons ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.YouTubeID, &l.DurationMinutes, &l.Grade, &l.StudyType, &l.Questions, &l.CreatedAt); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// Create inserts a new lesson with its embedded question set.
func (r *LessonRepository) Create(ctx context.Context, l *model.Lesson) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lessons (title, url, youtube_id, duration_minutes, grade, study_type, questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		l.Title, l.URL, l.YouTubeID, l.DurationMinutes, l.Grade, l.StudyType, l.Questions,
	).Scan(&l.ID, &l.CreatedAt)
}

// Delete removes a lesson by ID. Progress rows cascade.
func (r *LessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	return err
}
