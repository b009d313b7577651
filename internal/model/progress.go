package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgressStatus is the verdict of the most recent graded attempt.
type ProgressStatus string

const (
	ProgressStatusPass ProgressStatus = "Pass"
	ProgressStatusFail ProgressStatus = "Fail"
)

// Progress is the durable verdict for a (student, lesson) pair.
// At most one row exists per pair; regrading overwrites it, except that a
// recorded Pass is never downgraded.
type Progress struct {
	StudentID int            `json:"student_id"`
	LessonID  uuid.UUID      `json:"lesson_id"`
	Status    ProgressStatus `json:"status"`
	Score     int            `json:"score"`
	Total     int            `json:"total"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Passed reports whether this record unlocks the lesson.
func (p *Progress) Passed() bool {
	return p != nil && p.Status == ProgressStatusPass
}
