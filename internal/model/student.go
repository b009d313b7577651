package model

import "time"

// Grade represents the student's school year.
type Grade string

const (
	GradeFirstSecondary  Grade = "الصف الأول الثانوي"
	GradeSecondSecondary Grade = "الصف الثاني الثانوي"
	GradeThirdSecondary  Grade = "الصف الثالث الثانوي"
)

// StudyType distinguishes in-person (center) from online students.
type StudyType string

const (
	StudyTypeCenter StudyType = "سنتر"
	StudyTypeOnline StudyType = "اونلاين"
)

// Student represents a student account.
type Student struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	// ParentPhone is the guardian contact used for failure notifications.
	// May be empty; stored as entered (usually local "01xxxxxxxxx" format).
	ParentPhone   string    `json:"parent_phone"`
	Grade         Grade     `json:"grade"`
	StudyType     StudyType `json:"study_type"`
	WalletBalance int       `json:"wallet_balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SignupRequest is the payload for student registration.
type SignupRequest struct {
	Name        string    `json:"name" binding:"required,min=2,max=100"`
	Email       string    `json:"email" binding:"required,email,max=255"`
	Password    string    `json:"password" binding:"required,min=6,max=128"`
	ParentPhone string    `json:"parent_phone" binding:"required,min=7,max=20"`
	Grade       Grade     `json:"grade" binding:"required,oneof='الصف الأول الثانوي' 'الصف الثاني الثانوي' 'الصف الثالث الثانوي'"`
	StudyType   StudyType `json:"study_type" binding:"required,oneof=سنتر اونلاين"`
}

// LoginRequest is the payload for student and admin authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}
