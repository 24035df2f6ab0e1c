package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material is a consumable inventory item. OnHand is a materialized counter:
// it always equals the signed sum of the material's ledger movements and is
// updated atomically with every ledger insert.
type Material struct {
	ID                int64            `db:"id" json:"id"`
	Code              string           `db:"code" json:"code"`
	Name              string           `db:"name" json:"name"`
	Description       *string          `db:"description" json:"description,omitempty"`
	Unit              string           `db:"unit" json:"unit"`
	OnHand            decimal.Decimal  `db:"on_hand" json:"on_hand"`
	ReorderThreshold  decimal.Decimal  `db:"reorder_threshold" json:"reorder_threshold"`
	UnitCost          decimal.Decimal  `db:"unit_cost" json:"unit_cost"`
	LastPurchasePrice *decimal.Decimal `db:"last_purchase_price" json:"last_purchase_price,omitempty"`
	LastSupplierID    *int64           `db:"last_supplier_id" json:"last_supplier_id,omitempty"`
	Active            bool             `db:"active" json:"active"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
}

type CreateMaterialRequest struct {
	Code             string          `json:"code" validate:"required"`
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description"`
	Unit             string          `json:"unit"`
	OnHand           decimal.Decimal `json:"on_hand"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

type MaterialPatch struct {
	Code             *string          `json:"code"`
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	Unit             *string          `json:"unit"`
	ReorderThreshold *decimal.Decimal `json:"reorder_threshold"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	Active           *bool            `json:"active"`
}

func (p *MaterialPatch) Empty() bool {
	return p.Code == nil && p.Name == nil && p.Description == nil &&
		p.Unit == nil && p.ReorderThreshold == nil && p.UnitCost == nil &&
		p.Active == nil
}
