package quiz

import "testing"

func TestNewAnswerSet(t *testing.T) {
	s := NewAnswerSet(4)
	if len(s) != 4 {
		t.Fatalf("len = %d, want 4", len(s))
	}
	for i, a := range s {
		if a != Unanswered {
			t.Errorf("answer %d = %d, want sentinel %d", i, a, Unanswered)
		}
	}
	if s.Complete() {
		t.Error("fresh answer set reported complete")
	}
}

func TestAnswerSetSelect(t *testing.T) {
	s := NewAnswerSet(3)

	if err := s.Select(0, 2, 4); err != nil {
		t.Fatalf("select: %v", err)
	}
	if s[0] != 2 {
		t.Errorf("answer 0 = %d, want 2", s[0])
	}

	// Re-selection overwrites.
	if err := s.Select(0, 1, 4); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if s[0] != 1 {
		t.Errorf("answer 0 after reselect = %d, want 1", s[0])
	}

	if err := s.Select(3, 0, 4); err != ErrQuestionOutOfRange {
		t.Errorf("question overflow: got %v, want ErrQuestionOutOfRange", err)
	}
	if err := s.Select(-1, 0, 4); err != ErrQuestionOutOfRange {
		t.Errorf("negative question: got %v, want ErrQuestionOutOfRange", err)
	}
	if err := s.Select(1, 4, 4); err != ErrOptionOutOfRange {
		t.Errorf("option overflow: got %v, want ErrOptionOutOfRange", err)
	}
	if err := s.Select(1, -1, 4); err != ErrOptionOutOfRange {
		t.Errorf("negative option: got %v, want ErrOptionOutOfRange", err)
	}
}

func TestAnswerSetComplete(t *testing.T) {
	s := NewAnswerSet(2)
	if s.Complete() {
		t.Error("empty set complete")
	}
	s.Select(0, 1, 4)
	if s.Complete() {
		t.Error("partial set complete")
	}
	s.Select(1, 0, 4)
	if !s.Complete() {
		t.Error("full set not complete")
	}
}
