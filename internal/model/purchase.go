package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is an order header. Receiving it is what moves stock: each line
// becomes a purchase ledger movement and the material's on-hand and last
// purchase price are updated in the same transaction.
type Purchase struct {
	ID            int64           `db:"id" json:"id"`
	SupplierID    int64           `db:"supplier_id" json:"supplier_id"`
	PurchasedAt   time.Time       `db:"purchased_at" json:"purchased_at"`
	InvoiceNumber *string         `db:"invoice_number" json:"invoice_number,omitempty"`
	Total         decimal.Decimal `db:"total" json:"total"`
	Received      bool            `db:"received" json:"received"`
	Notes         *string         `db:"notes" json:"notes,omitempty"`
	CreatedBy     int64           `db:"created_by" json:"created_by"`
}

// PurchaseView joins in supplier and creator names for list endpoints.
type PurchaseView struct {
	Purchase
	SupplierName  string  `db:"supplier_name" json:"supplier_name"`
	CreatedByName *string `db:"created_by_name" json:"created_by_name,omitempty"`
}

type PurchaseLine struct {
	ID         int64           `db:"id" json:"id"`
	PurchaseID int64           `db:"purchase_id" json:"purchase_id"`
	MaterialID int64           `db:"material_id" json:"material_id"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal   decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// PurchaseLineView joins in material display fields.
type PurchaseLineView struct {
	PurchaseLine
	MaterialName string `db:"material_name" json:"material_name"`
	MaterialCode string `db:"material_code" json:"material_code"`
}

// PurchaseDetail is a header with its lines, the shape of the get endpoint.
type PurchaseDetail struct {
	PurchaseView
	Lines []*PurchaseLineView `json:"lines"`
}

type PurchaseLineRequest struct {
	MaterialID int64           `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price" validate:"required"`
}

type CreatePurchaseRequest struct {
	SupplierID    int64                 `json:"supplier_id" validate:"required"`
	InvoiceNumber string                `json:"invoice_number"`
	Notes         string                `json:"notes"`
	CreatedBy     int64                 `json:"created_by" validate:"required"`
	Lines         []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type ReceivePurchaseRequest struct {
	ReceivedBy int64 `json:"received_by" validate:"required"`
}
