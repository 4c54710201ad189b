// Package audit provides security audit logging for the query
// assistant. The generator is non-deterministic, so every candidate and
// every verdict is logged in structured JSON with enough context
// (user, role, reason, offending text) to be reviewable after the fact.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/logging"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventQuestionRejected is logged when the natural-language question
	// itself is rejected before any generation call.
	EventQuestionRejected SecurityEventType = "question_rejected"
	// EventInjectionAttempt is logged when libinjection fingerprints an
	// SQL injection pattern inside a question.
	EventInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventCandidateRejected is logged when a generated candidate fails
	// the syntax guard or the role policy filter.
	EventCandidateRejected SecurityEventType = "candidate_rejected"
	// EventQueryExecuted is logged for candidates that passed every guard
	// and were executed, with pre- and post-filter row counts.
	EventQueryExecuted SecurityEventType = "query_executed"
)

// SecurityEvent represents an auditable event with all relevant context.
type SecurityEvent struct {
	Timestamp   time.Time         `json:"timestamp"`
	EventType   SecurityEventType `json:"event_type"`
	RequestID   uuid.UUID         `json:"request_id"`
	Username    string            `json:"username"`
	Role        string            `json:"role"`
	Question    string            `json:"question,omitempty"`
	SQL         string            `json:"sql,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	RawRows     int               `json:"raw_rows,omitempty"`
	FilteredRows int              `json:"filtered_rows,omitempty"`
	Severity    string            `json:"severity"` // info, warning, critical
}

// SecurityAuditor logs security events in structured JSON.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated
// logger namespace for easy filtering in log pipelines.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogQuestionRejected records a question blocked before generation.
func (a *SecurityAuditor) LogQuestionRejected(requestID uuid.UUID, username, role, question, reason string) {
	a.emit(SecurityEvent{
		EventType: EventQuestionRejected,
		RequestID: requestID,
		Username:  username,
		Role:      role,
		Question:  logging.SanitizeQuery(question),
		Reason:    reason,
		Severity:  "warning",
	})
}

// LogInjectionAttempt records an SQL injection fingerprint found in a
// question. Logged at critical severity for immediate alerting.
func (a *SecurityAuditor) LogInjectionAttempt(requestID uuid.UUID, username, role, question, fingerprint string) {
	a.emit(SecurityEvent{
		EventType:   EventInjectionAttempt,
		RequestID:   requestID,
		Username:    username,
		Role:        role,
		Question:    logging.SanitizeQuery(question),
		Fingerprint: fingerprint,
		Severity:    "critical",
	})
}

// LogCandidateRejected records a generated candidate that failed a guard.
// The offending SQL is included verbatim for after-the-fact review.
func (a *SecurityAuditor) LogCandidateRejected(requestID uuid.UUID, username, role, sql, reason string) {
	a.emit(SecurityEvent{
		EventType: EventCandidateRejected,
		RequestID: requestID,
		Username:  username,
		Role:      role,
		SQL:       sql,
		Reason:    reason,
		Severity:  "warning",
	})
}

// LogQueryExecuted records a vetted, executed query with row counts
// before and after the post-execution row filter.
func (a *SecurityAuditor) LogQueryExecuted(requestID uuid.UUID, username, role, sql string, rawRows, filteredRows int) {
	a.emit(SecurityEvent{
		EventType:    EventQueryExecuted,
		RequestID:    requestID,
		Username:     username,
		Role:         role,
		SQL:          sql,
		RawRows:      rawRows,
		FilteredRows: filteredRows,
		Severity:     "info",
	})
}

func (a *SecurityAuditor) emit(event SecurityEvent) {
	event.Timestamp = time.Now().UTC()

	// Serialize event to JSON for log pipeline ingestion.
	// Ignoring error as marshaling known types should never fail.
	eventJSON, _ := json.Marshal(event)

	fields := []zap.Field{
		zap.String("event_json", string(eventJSON)),
		zap.String("request_id", event.RequestID.String()),
		zap.String("username", event.Username),
		zap.String("role", event.Role),
		zap.String("severity", event.Severity),
	}

	switch event.Severity {
	case "critical":
		a.logger.Error(string(event.EventType), fields...)
	case "warning":
		a.logger.Warn(string(event.EventType), fields...)
	default:
		a.logger.Info(string(event.EventType), fields...)
	}
}
