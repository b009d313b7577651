package notify

import (
	"net/url"
	"strings"
	"testing"
)

func TestShouldNotify(t *testing.T) {
	cases := []struct {
		name   string
		passed bool
		phone  string
		want   bool
	}{
		{"fail with phone", false, "01222652380", true},
		{"pass with phone", true, "01222652380", false},
		{"fail without phone", false, "", false},
		{"fail with blank phone", false, "   ", false},
		{"pass without phone", true, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ShouldNotify(c.passed, c.phone); got != c.want {
				t.Errorf("ShouldNotify(%v, %q) = %v, want %v", c.passed, c.phone, got, c.want)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"01222652380", "201222652380"},
		{"201222652380", "201222652380"},
		{"  01001234567 ", "201001234567"},
		{"15551234567", "15551234567"},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in, "2"); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildFailureMessage(t *testing.T) {
	msg := BuildFailureMessage(FailureReport{
		StudentName: "أحمد محمد",
		LessonTitle: "الدرس الأول",
		Score:       1,
		Total:       3,
	})
	for _, want := range []string{"أحمد محمد", "الدرس الأول", "1 من 3", "🚨"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("201222652380", "تنبيه: نتيجة 1 من 3")
	if !strings.HasPrefix(link, "https://wa.me/201222652380?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got := u.Query().Get("text"); got != "تنبيه: نتيجة 1 من 3" {
		t.Errorf("decoded text = %q", got)
	}
}

func TestGuardianLink(t *testing.T) {
	report := FailureReport{StudentName: "سارة", LessonTitle: "الكيمياء", Score: 0, Total: 4}

	if link := GuardianLink(true, "01222652380", "2", report); link != "" {
		t.Errorf("pass produced a link: %s", link)
	}
	if link := GuardianLink(false, "", "2", report); link != "" {
		t.Errorf("missing phone produced a link: %s", link)
	}

	link := GuardianLink(false, "01222652380", "2", report)
	if !strings.HasPrefix(link, "https://wa.me/201222652380?text=") {
		t.Errorf("unexpected link: %s", link)
	}
}
