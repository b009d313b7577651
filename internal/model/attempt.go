package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates quiz attempt states.
type AttemptStatus string

const (
	AttemptStatusActive    AttemptStatus = "ACTIVE"
	AttemptStatusSubmitted AttemptStatus = "SUBMITTED"
	AttemptStatusAbandoned AttemptStatus = "ABANDONED"
)

// QuizAttempt is one timed pass through a lesson's questions by one student.
// At most one ACTIVE attempt exists per (student, lesson).
type QuizAttempt struct {
	ID          uuid.UUID     `json:"id"`
	LessonID    uuid.UUID     `json:"lesson_id"`
	StudentID   int           `json:"student_id"`
	StartedAt   time.Time     `json:"started_at"`
	Deadline    time.Time     `json:"deadline"`
	Status      AttemptStatus `json:"status"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
}

// SelectAnswerRequest records one option selection on the active attempt.
// OptionIndex uses -1 internally as the unanswered sentinel; clients may only
// submit real selections.
type SelectAnswerRequest struct {
	QuestionIndex int `json:"question_index" binding:"min=0"`
	OptionIndex   int `json:"option_index" binding:"min=0,max=3"`
}

// QuizStateResponse restores an in-flight attempt after a page reload.
type QuizStateResponse struct {
	LessonID         uuid.UUID `json:"lesson_id"`
	Answers          []int     `json:"answers"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Complete         bool      `json:"complete"`
}

// SubmitResultResponse is returned once an attempt is graded.
type SubmitResultResponse struct {
	Score  int  `json:"score"`
	Total  int  `json:"total"`
	Passed bool `json:"passed"`
	// GuardianLink is the prebuilt WhatsApp hand-off, present only when the
	// attempt failed and a guardian phone is on file.
	GuardianLink string `json:"guardian_link,omitempty"`
}
