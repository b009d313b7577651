package service

import "testing"

func TestBuildContentsFreshConversationOpensWithUserTurn(t *testing.T) {
	contents := buildContents(nil, "اشرح لي الدرس الأول")

	if len(contents) != 1 {
		t.Fatalf("contents len = %d, want 1", len(contents))
	}
	if contents[0].Role != "user" {
		t.Errorf("first role = %q, want user", contents[0].Role)
	}
	if contents[0].Parts[0].Text != "اشرح لي الدرس الأول" {
		t.Errorf("first text = %q", contents[0].Parts[0].Text)
	}
}

func TestBuildContentsExcludesGreeting(t *testing.T) {
	history := []ChatMessage{
		{Role: "user", Text: "ما هي الذرة؟"},
		{Role: "model", Text: "الذرة هي أصغر وحدة في العنصر."},
	}

	contents := buildContents(history, "وما هو الجزيء؟")

	if len(contents) != 3 {
		t.Fatalf("contents len = %d, want 3", len(contents))
	}
	for i, c := range contents {
		if len(c.Parts) == 1 && c.Parts[0].Text == AssistantGreeting {
			t.Errorf("contents[%d] carries the synthetic greeting", i)
		}
	}
	if contents[0].Role != "user" {
		t.Errorf("first role = %q, want user", contents[0].Role)
	}
	last := contents[len(contents)-1]
	if last.Role != "user" || last.Parts[0].Text != "وما هو الجزيء؟" {
		t.Errorf("last turn = %+v, want the new question as a user turn", last)
	}
}

func TestBuildContentsPreservesTurnOrder(t *testing.T) {
	history := []ChatMessage{
		{Role: "user", Text: "سؤال أول"},
		{Role: "model", Text: "جواب أول"},
		{Role: "user", Text: "سؤال ثانٍ"},
		{Role: "model", Text: "جواب ثانٍ"},
	}

	contents := buildContents(history, "سؤال ثالث")

	wantRoles := []string{"user", "model", "user", "model", "user"}
	if len(contents) != len(wantRoles) {
		t.Fatalf("contents len = %d, want %d", len(contents), len(wantRoles))
	}
	for i, role := range wantRoles {
		if contents[i].Role != role {
			t.Errorf("contents[%d].Role = %q, want %q", i, contents[i].Role, role)
		}
	}
}
