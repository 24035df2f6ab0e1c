package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Design is a catalog entry in the studio's portfolio.
type Design struct {
	ID          int64           `db:"id" json:"id"`
	CategoryID  int64           `db:"category_id" json:"category_id"`
	Title       string          `db:"title" json:"title"`
	Description *string         `db:"description" json:"description,omitempty"`
	ImageURL    *string         `db:"image_url" json:"image_url,omitempty"`
	Complexity  *int            `db:"complexity" json:"complexity,omitempty"`
	BasePrice   decimal.Decimal `db:"base_price" json:"base_price"`
	CreatedBy   *int64          `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// DesignView joins in the category name for catalog reads.
type DesignView struct {
	Design
	CategoryName string `db:"category_name" json:"category_name"`
}

// AppointmentDesign links a design into an appointment; inserting one
// confirms the appointment.
type AppointmentDesign struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointment_id"`
	DesignID      int64     `db:"design_id" json:"design_id"`
	Quantity      int       `db:"quantity" json:"quantity"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type AssignDesignRequest struct {
	DesignID int64  `json:"design_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
	Notes    string `json:"notes"`
}
