package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusInProgress, AppointmentStatusCompleted,
		AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is the anchor entity of the booking lifecycle. Status is a
// denormalized copy of the latest session entry's state; the orchestrator
// updates both in the same transaction and nothing else writes it.
type Appointment struct {
	ID               int64             `db:"id" json:"id"`
	ClientID         int64             `db:"client_id" json:"client_id"`
	ArtistID         int64             `db:"artist_id" json:"artist_id"`
	ScheduledAt      time.Time         `db:"scheduled_at" json:"scheduled_at"`
	EstimatedMinutes *int              `db:"estimated_minutes" json:"estimated_minutes,omitempty"`
	EstimatedTotal   decimal.Decimal   `db:"estimated_total" json:"estimated_total"`
	Status           AppointmentStatus `db:"status" json:"status"`
	Notes            *string           `db:"notes" json:"notes,omitempty"`
	CreatedBy        int64             `db:"created_by" json:"created_by"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
}

type CreateAppointmentRequest struct {
	ClientID         int64           `json:"client_id" validate:"required"`
	ArtistID         int64           `json:"artist_id" validate:"required"`
	ScheduledAt      time.Time       `json:"scheduled_at" validate:"required"`
	EstimatedMinutes *int            `json:"estimated_minutes"`
	EstimatedTotal   decimal.Decimal `json:"estimated_total"`
	Notes            string          `json:"notes" validate:"max=1000"`
	CreatedBy        int64           `json:"created_by" validate:"required"`
}

// MaterialLine is one consumption request within AdvanceToInProgress.
type MaterialLine struct {
	MaterialID int64           `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
}

// AppointmentPatch is a sparse update: only non-nil fields are applied,
// each through an explicit column allow-list.
type AppointmentPatch struct {
	ScheduledAt      *time.Time         `json:"scheduled_at"`
	EstimatedMinutes *int               `json:"estimated_minutes"`
	EstimatedTotal   *decimal.Decimal   `json:"estimated_total"`
	Status           *AppointmentStatus `json:"status"`
	Notes            *string            `json:"notes"`
	CancelReason     *string            `json:"cancel_reason"`
	Materials        []MaterialLine     `json:"materials,omitempty"`
	ActorID          *int64             `json:"actor_id"`
}

// Empty reports whether the patch carries no field changes at all.
func (p *AppointmentPatch) Empty() bool {
	return p.ScheduledAt == nil && p.EstimatedMinutes == nil &&
		p.EstimatedTotal == nil && p.Status == nil && p.Notes == nil &&
		len(p.Materials) == 0
}

type AppointmentFilters struct {
	ClientID *int64
	ArtistID *int64
	Status   *AppointmentStatus
}
