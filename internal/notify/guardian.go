// Package notify builds the guardian WhatsApp hand-off produced when a
// student fails a quiz. It only constructs links and messages; delivery is
// the client's click, never a server-side send.
package notify

import (
	"fmt"
	"net/url"
	"strings"
)

// FailureReport carries everything the guardian message template needs.
type FailureReport struct {
	StudentName string
	LessonTitle string
	Score       int
	Total       int
}

// ShouldNotify reports whether a graded attempt warrants a guardian link.
// Only failures with a phone on file produce one.
func ShouldNotify(passed bool, guardianPhone string) bool {
	return !passed && strings.TrimSpace(guardianPhone) != ""
}

// NormalizePhone converts a locally formatted guardian number into the
// international form wa.me expects. A leading "0" is replaced by the country
// prefix; numbers already in international form pass through unchanged.
func NormalizePhone(phone, countryPrefix string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "0") {
		return countryPrefix + phone
	}
	return phone
}

// BuildFailureMessage renders the Arabic guardian notification.
func BuildFailureMessage(r FailureReport) string {
	return fmt.Sprintf(
		"🚨 تنبيه من المنصة:\nالطالب %s لم يجتز اختبار درس \"%s\".\nالنتيجة: %d من %d.\nيرجى المتابعة معه.",
		r.StudentName, r.LessonTitle, r.Score, r.Total,
	)
}

// WhatsAppLink builds the click-to-chat URL for a normalized phone number.
func WhatsAppLink(normalizedPhone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", normalizedPhone, url.QueryEscape(message))
}

// GuardianLink is the one-call composition used after grading: it returns
// the full wa.me URL, or "" when no notification is due.
func GuardianLink(passed bool, guardianPhone, countryPrefix string, r FailureReport) string {
	if !ShouldNotify(passed, guardianPhone) {
		return ""
	}
	return WhatsAppLink(NormalizePhone(guardianPhone, countryPrefix), BuildFailureMessage(r))
}
