package quiz

import "testing"

func TestPassThreshold(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{10, 5},
		{11, 6},
	}
	for _, c := range cases {
		if got := PassThreshold(c.total); got != c.want {
			t.Errorf("PassThreshold(%d) = %d, want %d", c.total, got, c.want)
		}
	}
}

func TestGrade(t *testing.T) {
	cases := []struct {
		name    string
		correct []int
		answers AnswerSet
		score   int
		passed  bool
	}{
		{
			name:    "all correct",
			correct: []int{0, 1, 2},
			answers: AnswerSet{0, 1, 2},
			score:   3,
			passed:  true,
		},
		{
			name:    "all wrong",
			correct: []int{0, 1, 2},
			answers: AnswerSet{1, 2, 3},
			score:   0,
			passed:  false,
		},
		{
			name:    "exactly at threshold",
			correct: []int{0, 1, 2, 3},
			answers: AnswerSet{0, 1, 0, 0},
			score:   2,
			passed:  true,
		},
		{
			name:    "one below threshold",
			correct: []int{0, 1, 2, 3, 0},
			answers: AnswerSet{0, 1, 0, 0, 1},
			score:   2,
			passed:  false,
		},
		{
			name:    "unanswered counts as wrong",
			correct: []int{0, 1, 2},
			answers: AnswerSet{0, Unanswered, Unanswered},
			score:   1,
			passed:  false,
		},
		{
			name:    "fully unanswered",
			correct: []int{0, 1, 2},
			answers: NewAnswerSet(3),
			score:   0,
			passed:  false,
		},
		{
			name:    "single question pass",
			correct: []int{2},
			answers: AnswerSet{2},
			score:   1,
			passed:  true,
		},
		{
			name:    "single question fail",
			correct: []int{2},
			answers: AnswerSet{0},
			score:   0,
			passed:  false,
		},
		{
			name:    "short answer set scores missing as wrong",
			correct: []int{0, 1, 2},
			answers: AnswerSet{0},
			score:   1,
			passed:  false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Grade(c.correct, c.answers)
			if got.Score != c.score {
				t.Errorf("score = %d, want %d", got.Score, c.score)
			}
			if got.Total != len(c.correct) {
				t.Errorf("total = %d, want %d", got.Total, len(c.correct))
			}
			if got.Passed != c.passed {
				t.Errorf("passed = %v, want %v", got.Passed, c.passed)
			}
		})
	}
}

func TestGradeDeterministic(t *testing.T) {
	correct := []int{0, 3, 1, 2}
	answers := AnswerSet{0, 3, 2, Unanswered}
	first := Grade(correct, answers)
	for i := 0; i < 5; i++ {
		if got := Grade(correct, answers); got != first {
			t.Fatalf("regrade produced %+v, first run was %+v", got, first)
		}
	}
}
