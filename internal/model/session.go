package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusConfirmed  SessionStatus = "confirmed"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
	SessionStatusNoShow     SessionStatus = "no_show"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusScheduled, SessionStatusConfirmed, SessionStatusInProgress,
		SessionStatusCompleted, SessionStatusCancelled, SessionStatusNoShow:
		return true
	}
	return false
}

// Terminal states close the session: actual_end is stamped and no further
// transition is allowed.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionStatusCompleted, SessionStatusCancelled, SessionStatusNoShow:
		return true
	}
	return false
}

// transitions is the lifecycle table: forward-only, with cancelled and
// no_show reachable from every non-terminal state.
var transitions = map[SessionStatus][]SessionStatus{
	SessionStatusScheduled:  {SessionStatusConfirmed, SessionStatusCancelled, SessionStatusNoShow},
	SessionStatusConfirmed:  {SessionStatusInProgress, SessionStatusCancelled, SessionStatusNoShow},
	SessionStatusInProgress: {SessionStatusCompleted, SessionStatusCancelled, SessionStatusNoShow},
}

// CanTransition reports whether to is reachable from from in one step.
func CanTransition(from, to SessionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SessionEntry is one append-only row of the session lifecycle log. Entries
// are never updated; each state change inserts a new row carrying forward
// the previous one's timing and charge.
type SessionEntry struct {
	ID              int64           `db:"id" json:"id"`
	AppointmentID   int64           `db:"appointment_id" json:"appointment_id"`
	SequenceNumber  int             `db:"sequence_number" json:"sequence_number"`
	ScheduledAt     time.Time       `db:"scheduled_at" json:"scheduled_at"`
	ActualStart     *time.Time      `db:"actual_start" json:"actual_start,omitempty"`
	ActualEnd       *time.Time      `db:"actual_end" json:"actual_end,omitempty"`
	DurationMinutes *int            `db:"duration_minutes" json:"duration_minutes,omitempty"`
	ChargedAmount   decimal.Decimal `db:"charged_amount" json:"charged_amount"`
	Status          SessionStatus   `db:"status" json:"status"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

type SessionFilters struct {
	AppointmentID *int64
	Status        *SessionStatus
	ArtistID      *int64
	ClientID      *int64
}

type AppendSessionRequest struct {
	AppointmentID  int64           `json:"appointment_id" validate:"required"`
	SequenceNumber int             `json:"sequence_number" validate:"required,gte=1"`
	NewState       SessionStatus   `json:"new_state" validate:"required"`
	ChargeDelta    decimal.Decimal `json:"charge_delta"`
	Notes          string          `json:"notes"`
}
