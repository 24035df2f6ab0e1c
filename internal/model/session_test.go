package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    SessionStatus
		to      SessionStatus
		allowed bool
	}{
		{"scheduled to confirmed", SessionStatusScheduled, SessionStatusConfirmed, true},
		{"scheduled to cancelled", SessionStatusScheduled, SessionStatusCancelled, true},
		{"scheduled to no_show", SessionStatusScheduled, SessionStatusNoShow, true},
		{"scheduled to in_progress skips confirmation", SessionStatusScheduled, SessionStatusInProgress, false},
		{"scheduled to completed skips the flow", SessionStatusScheduled, SessionStatusCompleted, false},
		{"confirmed to in_progress", SessionStatusConfirmed, SessionStatusInProgress, true},
		{"confirmed to cancelled", SessionStatusConfirmed, SessionStatusCancelled, true},
		{"confirmed back to scheduled", SessionStatusConfirmed, SessionStatusScheduled, false},
		{"in_progress to completed", SessionStatusInProgress, SessionStatusCompleted, true},
		{"in_progress to cancelled", SessionStatusInProgress, SessionStatusCancelled, true},
		{"in_progress to no_show", SessionStatusInProgress, SessionStatusNoShow, true},
		{"completed is terminal", SessionStatusCompleted, SessionStatusCancelled, false},
		{"cancelled is terminal", SessionStatusCancelled, SessionStatusScheduled, false},
		{"no_show is terminal", SessionStatusNoShow, SessionStatusConfirmed, false},
		{"same state is not a transition", SessionStatusConfirmed, SessionStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestSessionStatusTerminal(t *testing.T) {
	assert.False(t, SessionStatusScheduled.Terminal())
	assert.False(t, SessionStatusConfirmed.Terminal())
	assert.False(t, SessionStatusInProgress.Terminal())
	assert.True(t, SessionStatusCompleted.Terminal())
	assert.True(t, SessionStatusCancelled.Terminal())
	assert.True(t, SessionStatusNoShow.Terminal())
}

func TestSessionStatusValid(t *testing.T) {
	assert.True(t, SessionStatusInProgress.Valid())
	assert.False(t, SessionStatus("paused").Valid())
	assert.False(t, SessionStatus("").Valid())
}
