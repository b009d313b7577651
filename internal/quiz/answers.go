package quiz

import "errors"

// Unanswered is the sentinel for a question with no selection yet.
// It never equals a valid option index, so grading counts it as wrong.
const Unanswered = -1

var (
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrOptionOutOfRange   = errors.New("option index out of range")
)

// AnswerSet holds one selected option index per question for a single attempt.
type AnswerSet []int

// NewAnswerSet creates an answer set with every question unanswered.
func NewAnswerSet(questionCount int) AnswerSet {
	s := make(AnswerSet, questionCount)
	for i := range s {
		s[i] = Unanswered
	}
	return s
}

// Select records the option for a question, overwriting any prior selection.
func (s AnswerSet) Select(questionIndex, optionIndex, optionCount int) error {
	if questionIndex < 0 || questionIndex >= len(s) {
		return ErrQuestionOutOfRange
	}
	if optionIndex < 0 || optionIndex >= optionCount {
		return ErrOptionOutOfRange
	}
	s[questionIndex] = optionIndex
	return nil
}

// Complete reports whether every question has a selection.
// It gates manual submission only; a timeout submits regardless.
func (s AnswerSet) Complete() bool {
	for _, a := range s {
		if a == Unanswered {
			return false
		}
	}
	return true
}
