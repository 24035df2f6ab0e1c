package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Lifecycle event types written to the outbox.
const (
	EventAppointmentCreated    = "appointment.created"
	EventAppointmentConfirmed  = "appointment.confirmed"
	EventAppointmentInProgress = "appointment.in_progress"
	EventAppointmentCompleted  = "appointment.completed"
	EventAppointmentCancelled  = "appointment.cancelled"
	EventStockLow              = "inventory.stock_low"
)

// OutboxEvent is written in the same transaction as the state change it
// describes and published to the broker by the background processor.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}
