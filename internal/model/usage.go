package model

import (
	"github.com/shopspring/decimal"
)

// MaterialUsage records, per session and material, the quantity consumed and
// the unit cost captured at consumption time. The cost is a snapshot so
// historical cost reports are immune to later price changes.
type MaterialUsage struct {
	ID         int64           `db:"id" json:"id"`
	SessionID  int64           `db:"session_id" json:"session_id"`
	MaterialID int64           `db:"material_id" json:"material_id"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	UnitCost   decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	Subtotal   decimal.Decimal `db:"subtotal" json:"subtotal"`
	Notes      *string         `db:"notes" json:"notes,omitempty"`
}

// MaterialUsageView joins in material display fields for read endpoints.
type MaterialUsageView struct {
	MaterialUsage
	MaterialName string `db:"material_name" json:"material_name"`
	MaterialCode string `db:"material_code" json:"material_code"`
	Unit         string `db:"unit" json:"unit"`
}

type UsageFilters struct {
	SessionID  *int64
	MaterialID *int64
}

type RecordUsageRequest struct {
	SessionID   int64           `json:"session_id" validate:"required"`
	MaterialID  int64           `json:"material_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Notes       string          `json:"notes"`
	PerformedBy int64           `json:"performed_by" validate:"required"`
}
