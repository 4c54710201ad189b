package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenQuestion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		blocked bool
	}{
		{
			name:    "benign question",
			input:   "What courses am I taking this semester?",
			blocked: false,
		},
		{
			name:    "delete intent",
			input:   "delete my enrollment in CS101",
			blocked: true,
		},
		{
			name:    "drop uppercase",
			input:   "DROP the student table",
			blocked: true,
		},
		{
			name:    "keyword as substring passes",
			input:   "show me updated grades for my courses",
			blocked: false,
		},
		{
			name:    "created as substring passes",
			input:   "which departments were created recently is not a thing, show departments",
			blocked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ScreenQuestion(tt.input)
			assert.Equal(t, tt.blocked, v.Blocked)
			if tt.blocked {
				assert.Equal(t, ReasonWriteIntent, v.Reason)
			}
		})
	}
}

func TestCheckQuestionForInjection(t *testing.T) {
	assert.Nil(t, CheckQuestionForInjection("who is my advisor?"))

	result := CheckQuestionForInjection("' OR 1=1 --")
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Fingerprint)
}
