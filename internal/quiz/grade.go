// Package quiz implements the grading core: answer bookkeeping for a timed
// attempt and the pass/fail verdict derived from it.
package quiz

// Result is the outcome of grading one attempt. It is derived, never stored
// directly; regrading the same inputs reproduces the identical result.
type Result struct {
	Score  int
	Total  int
	Passed bool
}

// PassThreshold returns the minimum correct answers required to pass:
// half the questions, rounded up. 3 questions need 2; 4 questions need 2.
func PassThreshold(total int) int {
	return (total + 1) / 2
}

// Grade scores an answer set against the correct indices.
// A question counts as correct iff the selected index equals its correct
// index; the unanswered sentinel never matches, so it scores as wrong.
func Grade(correct []int, answers AnswerSet) Result {
	score := 0
	for i, want := range correct {
		if i < len(answers) && answers[i] == want {
			score++
		}
	}
	return Result{
		Score:  score,
		Total:  len(correct),
		Passed: score >= PassThreshold(len(correct)),
	}
}
