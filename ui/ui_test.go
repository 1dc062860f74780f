package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiresConfirmation(t *testing.T) {
	assert.True(t, RequiresConfirmation(OpDeleteList))
	assert.True(t, RequiresConfirmation(OpDeleteTask))
	assert.True(t, RequiresConfirmation(OpRemoveCollaborator))
	assert.False(t, RequiresConfirmation(Operation("create-task")), "non destructive operations need no confirmation")
}

func TestStdioConfirmer(t *testing.T) {
	var tts = []struct {
		answer   string
		expected bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
	}

	for _, tt := range tts {
		out := bytes.Buffer{}
		confirmer := &StdioConfirmer{In: strings.NewReader(tt.answer), Out: &out}
		assert.Equal(t, tt.expected, confirmer.Confirm("Delete?"), "answer %q", tt.answer)
		assert.Contains(t, out.String(), "Delete?", "prompt should be written out")
	}
}

func TestRecordingAlerter(t *testing.T) {
	alerter := &RecordingAlerter{}
	alerter.Successf("created %s", "x")
	alerter.Errorf("failed %d", 42)

	assert.Equal(t, []string{"created x"}, alerter.Successes)
	assert.Equal(t, []string{"failed 42"}, alerter.Errors)
}
