package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentSummary is the four-table join behind the printable appointment
// report: appointment, client, artist and the artist's user identity.
type AppointmentSummary struct {
	AppointmentID   int64             `db:"appointment_id" json:"appointment_id"`
	ScheduledAt     time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status          AppointmentStatus `db:"status" json:"status"`
	EstimatedTotal  decimal.Decimal   `db:"estimated_total" json:"estimated_total"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
	ClientFirstName string            `db:"client_first_name" json:"client_first_name"`
	ClientLastName  *string           `db:"client_last_name" json:"client_last_name,omitempty"`
	ClientEmail     *string           `db:"client_email" json:"client_email,omitempty"`
	ArtistFirstName string            `db:"artist_first_name" json:"artist_first_name"`
	ArtistLastName  string            `db:"artist_last_name" json:"artist_last_name"`
	ArtistSpecialty *string           `db:"artist_specialty" json:"artist_specialty,omitempty"`
}

// SupplierReport aggregates purchase volume per supplier.
type SupplierReport struct {
	Supplier     string          `db:"supplier" json:"supplier"`
	ProductCount int64           `db:"product_count" json:"product_count"`
	UnitsBought  decimal.Decimal `db:"units_bought" json:"units_bought"`
	LastPurchase *time.Time      `db:"last_purchase" json:"last_purchase,omitempty"`
}
