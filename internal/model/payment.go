package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment is one charge row. Cancellation after payment appends a
// compensating refund row with the amount negated; paid rows are never
// deleted or rewritten.
type Payment struct {
	ID            int64           `db:"id" json:"id"`
	ClientID      int64           `db:"client_id" json:"client_id"`
	AppointmentID int64           `db:"appointment_id" json:"appointment_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Method        PaymentMethod   `db:"method" json:"method"`
	Status        PaymentStatus   `db:"status" json:"status"`
	PaidAt        time.Time       `db:"paid_at" json:"paid_at"`
	Reference     *string         `db:"reference" json:"reference,omitempty"`
	Notes         *string         `db:"notes" json:"notes,omitempty"`
	CreatedBy     int64           `db:"created_by" json:"created_by"`
}

type CreatePaymentRequest struct {
	AppointmentID int64         `json:"appointment_id" validate:"required"`
	Method        PaymentMethod `json:"method" validate:"required"`
	Reference     string        `json:"reference"`
	Notes         string        `json:"notes"`
	CreatedBy     int64         `json:"created_by" validate:"required"`
}
