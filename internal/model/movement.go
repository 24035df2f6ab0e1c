package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementKind string

const (
	MovementKindPurchase    MovementKind = "purchase"
	MovementKindConsumption MovementKind = "consumption"
	MovementKindAdjustment  MovementKind = "adjustment"
)

func (k MovementKind) Valid() bool {
	switch k {
	case MovementKindPurchase, MovementKindConsumption, MovementKindAdjustment:
		return true
	}
	return false
}

// Signed returns the signed effect of a movement of this kind on on-hand
// stock: purchases and adjustments add, consumptions subtract.
func (k MovementKind) Signed(quantity decimal.Decimal) decimal.Decimal {
	if k == MovementKindConsumption {
		return quantity.Neg()
	}
	return quantity
}

// InventoryMovement is one append-only ledger row. Rows are never updated or
// deleted; on-hand is always derivable by replaying them.
type InventoryMovement struct {
	ID          int64           `db:"id" json:"id"`
	MaterialID  int64           `db:"material_id" json:"material_id"`
	Kind        MovementKind    `db:"kind" json:"kind"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	PurchaseID  *int64          `db:"purchase_id" json:"purchase_id,omitempty"`
	SessionID   *int64          `db:"session_id" json:"session_id,omitempty"`
	PerformedBy int64           `db:"performed_by" json:"performed_by"`
	Notes       *string         `db:"notes" json:"notes,omitempty"`
	MovedAt     time.Time       `db:"moved_at" json:"moved_at"`
}

// MovementView joins in the material and actor names for read endpoints.
type MovementView struct {
	InventoryMovement
	MaterialName    string  `db:"material_name" json:"material_name"`
	PerformedByName *string `db:"performed_by_name" json:"performed_by_name,omitempty"`
}

type MovementFilters struct {
	MaterialID *int64
	Kind       *MovementKind
	PurchaseID *int64
	SessionID  *int64
}

// Empty reports whether no filter criterion was supplied.
func (f *MovementFilters) Empty() bool {
	return f.MaterialID == nil && f.Kind == nil && f.PurchaseID == nil && f.SessionID == nil
}
