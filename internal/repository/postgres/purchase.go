package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

func (r *purchaseRepository) Create(ctx context.Context, q sqlx.ExtContext, purchase *model.Purchase) error {
	query := `
		INSERT INTO purchases (
			supplier_id, purchased_at, invoice_number, total, received,
			notes, created_by
		) VALUES ($1, $2, $3, $4, false, $5, $6)
		RETURNING id
	`
	purchase.PurchasedAt = time.Now()

	err := sqlx.GetContext(ctx, q, &purchase.ID, query,
		purchase.SupplierID,
		purchase.PurchasedAt,
		purchase.InvoiceNumber,
		purchase.Total,
		purchase.Notes,
		purchase.CreatedBy,
	)
	if err != nil {
		return apperrors.FromStore("purchase", err)
	}
	return nil
}

func (r *purchaseRepository) InsertLine(ctx context.Context, q sqlx.ExtContext, line *model.PurchaseLine) error {
	// subtotal is a generated column; RETURNING hands it back for totalling.
	query := `
		INSERT INTO purchase_lines (purchase_id, material_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, subtotal
	`
	row := q.QueryRowxContext(ctx, query,
		line.PurchaseID,
		line.MaterialID,
		line.Quantity,
		line.UnitPrice,
	)
	if err := row.Scan(&line.ID, &line.Subtotal); err != nil {
		return apperrors.FromStore("purchase line", err)
	}
	return nil
}

func (r *purchaseRepository) UpdateTotal(ctx context.Context, q sqlx.ExtContext, id int64, total decimal.Decimal) error {
	if _, err := q.ExecContext(ctx, `UPDATE purchases SET total = $1 WHERE id = $2`, total, id); err != nil {
		return apperrors.FromStore("purchase", err)
	}
	return nil
}

func (r *purchaseRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Purchase, error) {
	query := `
		SELECT id, supplier_id, purchased_at, invoice_number, total,
			   received, notes, created_by
		FROM purchases
		WHERE id = $1
		FOR UPDATE
	`
	var purchase model.Purchase
	if err := tx.GetContext(ctx, &purchase, query, id); err != nil {
		return nil, apperrors.FromStore("purchase", err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) Lines(ctx context.Context, q sqlx.ExtContext, purchaseID int64) ([]*model.PurchaseLine, error) {
	q = ext(q, r.db)
	query := `
		SELECT id, purchase_id, material_id, quantity, unit_price, subtotal
		FROM purchase_lines
		WHERE purchase_id = $1
		ORDER BY id
	`
	var lines []*model.PurchaseLine
	if err := sqlx.SelectContext(ctx, q, &lines, query, purchaseID); err != nil {
		return nil, apperrors.FromStore("purchase lines", err)
	}
	return lines, nil
}

func (r *purchaseRepository) MarkReceived(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, err := q.ExecContext(ctx, `UPDATE purchases SET received = true WHERE id = $1`, id); err != nil {
		return apperrors.FromStore("purchase", err)
	}
	return nil
}

func (r *purchaseRepository) List(ctx context.Context) ([]*model.PurchaseView, error) {
	query := `
		SELECT p.id, p.supplier_id, p.purchased_at, p.invoice_number,
			   p.total, p.received, p.notes, p.created_by,
			   s.name AS supplier_name,
			   u.username AS created_by_name
		FROM purchases p
		JOIN suppliers s ON p.supplier_id = s.id
		LEFT JOIN users u ON p.created_by = u.id
		ORDER BY p.purchased_at DESC
	`
	var purchases []*model.PurchaseView
	if err := r.db.SelectContext(ctx, &purchases, query); err != nil {
		return nil, apperrors.FromStore("purchases", err)
	}
	return purchases, nil
}

func (r *purchaseRepository) Get(ctx context.Context, id int64) (*model.PurchaseDetail, error) {
	headerQuery := `
		SELECT p.id, p.supplier_id, p.purchased_at, p.invoice_number,
			   p.total, p.received, p.notes, p.created_by,
			   s.name AS supplier_name,
			   u.username AS created_by_name
		FROM purchases p
		JOIN suppliers s ON p.supplier_id = s.id
		LEFT JOIN users u ON p.created_by = u.id
		WHERE p.id = $1
	`
	var detail model.PurchaseDetail
	if err := r.db.GetContext(ctx, &detail.PurchaseView, headerQuery, id); err != nil {
		return nil, apperrors.FromStore("purchase", err)
	}

	linesQuery := `
		SELECT pl.id, pl.purchase_id, pl.material_id, pl.quantity,
			   pl.unit_price, pl.subtotal,
			   m.name AS material_name, m.code AS material_code
		FROM purchase_lines pl
		JOIN materials m ON pl.material_id = m.id
		WHERE pl.purchase_id = $1
		ORDER BY pl.id
	`
	if err := r.db.SelectContext(ctx, &detail.Lines, linesQuery, id); err != nil {
		return nil, apperrors.FromStore("purchase lines", err)
	}
	return &detail, nil
}
