package model

import (
	"time"

	"github.com/google/uuid"
)

// OptionCount is the fixed number of choices per question.
const OptionCount = 4

// Question is a single multiple-choice question embedded in a lesson.
// Immutable once the lesson is authored.
type Question struct {
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// Lesson represents a video lecture gated behind its quiz.
type Lesson struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	YouTubeID       string     `json:"youtube_id"`
	DurationMinutes int        `json:"duration_minutes"`
	Grade           Grade      `json:"grade"`
	StudyType       StudyType  `json:"study_type"`
	Questions       []Question `json:"questions"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateLessonRequest is the admin payload for authoring a lesson with its quiz.
type CreateLessonRequest struct {
	Title           string            `json:"title" binding:"required,min=2,max=255"`
	URL             string            `json:"url" binding:"required,url,max=500"`
	DurationMinutes int               `json:"duration_minutes" binding:"required,min=1,max=480"`
	Grade           Grade             `json:"grade" binding:"required,oneof='الصف الأول الثانوي' 'الصف الثاني الثانوي' 'الصف الثالث الثانوي'"`
	StudyType       StudyType         `json:"study_type" binding:"required,oneof=سنتر اونلاين"`
	Questions       []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// QuestionRequest is one authored question inside CreateLessonRequest.
type QuestionRequest struct {
	Prompt       string   `json:"question" binding:"required,min=1,max=2000"`
	Options      []string `json:"options" binding:"required,len=4"`
	CorrectIndex int      `json:"correct_index" binding:"min=0,max=3"`
}

// QuestionForStudent is a question without the correct index, sent to students.
type QuestionForStudent struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// LessonPayload is the Redis-cached quiz paper served to students
// (no correct answers).
type LessonPayload struct {
	LessonID        uuid.UUID            `json:"lesson_id"`
	Title           string               `json:"title"`
	DurationMinutes int                  `json:"duration_minutes"`
	Questions       []QuestionForStudent `json:"questions"`
}

// GatedLesson is a lesson as listed for a student: the playable media
// reference is withheld until the quiz is passed.
type GatedLesson struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	DurationMinutes int       `json:"duration_minutes"`
	Grade           Grade     `json:"grade"`
	StudyType       StudyType `json:"study_type"`
	QuestionCount   int       `json:"question_count"`
	Unlocked        bool      `json:"unlocked"`
	// YouTubeID and EmbedURL are populated only when Unlocked.
	YouTubeID string    `json:"youtube_id,omitempty"`
	EmbedURL  string    `json:"embed_url,omitempty"`
	Progress  *Progress `json:"progress,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
