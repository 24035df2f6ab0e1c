package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

// Insert appends one ledger row. The ledger is append-only: there are no
// update or delete methods on this repository.
func (r *movementRepository) Insert(ctx context.Context, q sqlx.ExtContext, movement *model.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (
			material_id, kind, quantity, purchase_id, session_id,
			performed_by, notes, moved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	movement.MovedAt = time.Now()

	err := sqlx.GetContext(ctx, q, &movement.ID, query,
		movement.MaterialID,
		movement.Kind,
		movement.Quantity,
		movement.PurchaseID,
		movement.SessionID,
		movement.PerformedBy,
		movement.Notes,
		movement.MovedAt,
	)
	if err != nil {
		return apperrors.FromStore("inventory movement", err)
	}
	return nil
}

func (r *movementRepository) List(ctx context.Context, filters *model.MovementFilters) ([]*model.MovementView, error) {
	query := `
		SELECT mi.id, mi.material_id, mi.kind, mi.quantity, mi.purchase_id,
			   mi.session_id, mi.performed_by, mi.notes, mi.moved_at,
			   m.name AS material_name,
			   u.username AS performed_by_name
		FROM inventory_movements mi
		JOIN materials m ON mi.material_id = m.id
		LEFT JOIN users u ON mi.performed_by = u.id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.MaterialID != nil {
			query += fmt.Sprintf(" AND mi.material_id = $%d", argCount)
			args = append(args, *filters.MaterialID)
			argCount++
		}
		if filters.Kind != nil {
			query += fmt.Sprintf(" AND mi.kind = $%d", argCount)
			args = append(args, *filters.Kind)
			argCount++
		}
		if filters.PurchaseID != nil {
			query += fmt.Sprintf(" AND mi.purchase_id = $%d", argCount)
			args = append(args, *filters.PurchaseID)
			argCount++
		}
		if filters.SessionID != nil {
			query += fmt.Sprintf(" AND mi.session_id = $%d", argCount)
			args = append(args, *filters.SessionID)
			argCount++
		}
	}

	query += " ORDER BY mi.moved_at DESC"

	var movements []*model.MovementView
	if err := r.db.SelectContext(ctx, &movements, query, args...); err != nil {
		return nil, apperrors.FromStore("inventory movements", err)
	}
	return movements, nil
}

// ReplayOnHand derives on-hand stock from the full ledger: purchases and
// adjustments count positive, consumptions negative. Audit use only.
func (r *movementRepository) ReplayOnHand(ctx context.Context, materialID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN kind = 'consumption' THEN -quantity ELSE quantity END
		), 0)
		FROM inventory_movements
		WHERE material_id = $1
	`
	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query, materialID); err != nil {
		return decimal.Zero, apperrors.FromStore("inventory movements", err)
	}
	return total, nil
}
