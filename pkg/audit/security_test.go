package audit

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSecurityAuditor_LogCandidateRejected(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	auditor := NewSecurityAuditor(zap.New(core))

	requestID := uuid.New()
	auditor.LogCandidateRejected(requestID, "S101", "student",
		"SELECT password FROM login_credentials", "sensitive table")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, string(EventCandidateRejected), entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "S101", fields["username"])
	assert.Equal(t, "student", fields["role"])

	var event SecurityEvent
	require.NoError(t, json.Unmarshal([]byte(fields["event_json"].(string)), &event))
	assert.Equal(t, EventCandidateRejected, event.EventType)
	assert.Equal(t, "SELECT password FROM login_credentials", event.SQL)
	assert.Equal(t, "sensitive table", event.Reason)
	assert.Equal(t, requestID, event.RequestID)
}

func TestSecurityAuditor_LogInjectionAttemptIsCritical(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	auditor := NewSecurityAuditor(zap.New(core))

	auditor.LogInjectionAttempt(uuid.New(), "attacker", "student", "' OR 1=1 --", "s&1c")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.ErrorLevel, logs.All()[0].Level)
}

func TestSecurityAuditor_LogQueryExecuted(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	auditor := NewSecurityAuditor(zap.New(core))

	auditor.LogQueryExecuted(uuid.New(), "admin", "admin", "SELECT * FROM student", 12, 12)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.InfoLevel, entry.Level)

	var event SecurityEvent
	require.NoError(t, json.Unmarshal([]byte(entry.ContextMap()["event_json"].(string)), &event))
	assert.Equal(t, 12, event.RawRows)
	assert.Equal(t, 12, event.FilteredRows)
}
