package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

func (r *usageRepository) Insert(ctx context.Context, q sqlx.ExtContext, usage *model.MaterialUsage) error {
	// subtotal is a generated column; RETURNING hands it back.
	query := `
		INSERT INTO session_materials (
			session_id, material_id, quantity, unit_cost, notes
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, subtotal
	`
	row := q.QueryRowxContext(ctx, query,
		usage.SessionID,
		usage.MaterialID,
		usage.Quantity,
		usage.UnitCost,
		usage.Notes,
	)
	if err := row.Scan(&usage.ID, &usage.Subtotal); err != nil {
		return apperrors.FromStore("session material", err)
	}
	return nil
}

func (r *usageRepository) List(ctx context.Context, filters *model.UsageFilters) ([]*model.MaterialUsageView, error) {
	query := `
		SELECT ms.id, ms.session_id, ms.material_id, ms.quantity,
			   ms.unit_cost, ms.subtotal, ms.notes,
			   m.name AS material_name, m.code AS material_code, m.unit
		FROM session_materials ms
		JOIN materials m ON ms.material_id = m.id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.SessionID != nil {
			query += fmt.Sprintf(" AND ms.session_id = $%d", argCount)
			args = append(args, *filters.SessionID)
			argCount++
		}
		if filters.MaterialID != nil {
			query += fmt.Sprintf(" AND ms.material_id = $%d", argCount)
			args = append(args, *filters.MaterialID)
			argCount++
		}
	}

	query += " ORDER BY ms.id DESC"

	var usages []*model.MaterialUsageView
	if err := r.db.SelectContext(ctx, &usages, query, args...); err != nil {
		return nil, apperrors.FromStore("session materials", err)
	}
	return usages, nil
}

func (r *usageRepository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.MaterialUsageView, error) {
	query := `
		SELECT ms.id, ms.session_id, ms.material_id, ms.quantity,
			   ms.unit_cost, ms.subtotal, ms.notes,
			   m.name AS material_name, m.code AS material_code, m.unit
		FROM session_materials ms
		JOIN sessions s ON ms.session_id = s.id
		JOIN materials m ON ms.material_id = m.id
		WHERE s.appointment_id = $1
		ORDER BY ms.session_id, ms.id
	`
	var usages []*model.MaterialUsageView
	if err := r.db.SelectContext(ctx, &usages, query, appointmentID); err != nil {
		return nil, apperrors.FromStore("session materials", err)
	}
	return usages, nil
}
