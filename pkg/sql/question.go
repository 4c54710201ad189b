package sql

import (
	"regexp"

	libinjection "github.com/corazawaf/libinjection-go"
)

// ReasonWriteIntent marks a question rejected before any generation call.
const ReasonWriteIntent = "write-intent question"

// questionKeywords are the write-intent words that short-circuit the
// pipeline when found in the natural-language question itself. This is
// the cheapest rejection path: no generation call is made.
var questionKeywords = regexp.MustCompile(
	`(?i)\b(drop|delete|update|insert|alter|create|truncate)\b`)

// ScreenQuestion rejects questions carrying obvious write intent.
func ScreenQuestion(question string) Verdict {
	if questionKeywords.MatchString(question) {
		return Verdict{
			Blocked: true,
			Reason:  ReasonWriteIntent,
			Message: "The AI assistant is limited to read-only access. Write operations such as CREATE, UPDATE, DELETE, or ALTER are not allowed; please use the admin dashboard for changes.",
		}
	}
	return allow
}

// InjectionCheckResult describes an SQL injection pattern detected in a
// question by libinjection.
type InjectionCheckResult struct {
	Fingerprint string // libinjection fingerprint of the detected pattern
	Question    string // the text that triggered detection
}

// CheckQuestionForInjection runs libinjection's SQLi detector over the
// question. Questions are natural language and should never fingerprint
// as SQL; a hit indicates an attempt to smuggle a payload past the
// generator and is reported for audit alongside the rejection.
func CheckQuestionForInjection(question string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(question)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		Fingerprint: string(fingerprint),
		Question:    question,
	}
}
