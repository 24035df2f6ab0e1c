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

const materialColumns = `
	id, code, name, description, unit, on_hand, reorder_threshold,
	unit_cost, last_purchase_price, last_supplier_id, active, created_at
`

func (r *materialRepository) Create(ctx context.Context, material *model.Material) error {
	query := `
		INSERT INTO materials (
			code, name, description, unit, on_hand, reorder_threshold,
			unit_cost, active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8)
		RETURNING id
	`
	material.Active = true
	material.CreatedAt = time.Now()

	err := r.db.GetContext(ctx, &material.ID, query,
		material.Code,
		material.Name,
		material.Description,
		material.Unit,
		material.OnHand,
		material.ReorderThreshold,
		material.UnitCost,
		material.CreatedAt,
	)
	if err != nil {
		return apperrors.FromStore("material", err)
	}
	return nil
}

func (r *materialRepository) Get(ctx context.Context, id int64) (*model.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	var material model.Material
	if err := r.db.GetContext(ctx, &material, query, id); err != nil {
		return nil, apperrors.FromStore("material", err)
	}
	return &material, nil
}

func (r *materialRepository) GetByCode(ctx context.Context, code string) (*model.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE code = $1`
	var material model.Material
	if err := r.db.GetContext(ctx, &material, query, code); err != nil {
		return nil, apperrors.FromStore("material", err)
	}
	return &material, nil
}

// GetForUpdate reads the material under a row lock. Every stock check before
// a consumption must go through here so two writers cannot both pass the
// sufficiency check on the same material.
func (r *materialRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 FOR UPDATE`
	var material model.Material
	if err := tx.GetContext(ctx, &material, query, id); err != nil {
		return nil, apperrors.FromStore("material", err)
	}
	return &material, nil
}

func (r *materialRepository) List(ctx context.Context) ([]*model.Material, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM materials
		WHERE active = true
		ORDER BY name ASC
	`
	var materials []*model.Material
	if err := r.db.SelectContext(ctx, &materials, query); err != nil {
		return nil, apperrors.FromStore("materials", err)
	}
	return materials, nil
}

func (r *materialRepository) LowStock(ctx context.Context) ([]*model.Material, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM materials
		WHERE active = true AND on_hand <= reorder_threshold
		ORDER BY on_hand ASC
	`
	var materials []*model.Material
	if err := r.db.SelectContext(ctx, &materials, query); err != nil {
		return nil, apperrors.FromStore("materials", err)
	}
	return materials, nil
}

func (r *materialRepository) ApplyPatch(ctx context.Context, id int64, patch *model.MaterialPatch) (*model.Material, error) {
	sets := []string{}
	args := []interface{}{}
	argCount := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if patch.Code != nil {
		add("code", *patch.Code)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Unit != nil {
		add("unit", *patch.Unit)
	}
	if patch.ReorderThreshold != nil {
		add("reorder_threshold", *patch.ReorderThreshold)
	}
	if patch.UnitCost != nil {
		add("unit_cost", *patch.UnitCost)
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}

	if len(sets) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	query := "UPDATE materials SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(" WHERE id = $%d RETURNING ", argCount) + materialColumns
	args = append(args, id)

	var material model.Material
	if err := r.db.GetContext(ctx, &material, query, args...); err != nil {
		return nil, apperrors.FromStore("material", err)
	}
	return &material, nil
}

func (r *materialRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE materials SET active = false WHERE id = $1`, id)
	if err != nil {
		return apperrors.FromStore("material", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Internal(err)
	}
	if rows == 0 {
		return apperrors.NotFound("material", nil)
	}
	return nil
}

// AdjustOnHand moves the materialized counter by delta. Callers must hold
// the row lock from GetForUpdate when delta is negative.
func (r *materialRepository) AdjustOnHand(ctx context.Context, q sqlx.ExtContext, id int64, delta decimal.Decimal) error {
	query := `
		UPDATE materials
		SET on_hand = on_hand + $1
		WHERE id = $2
	`
	result, err := q.ExecContext(ctx, query, delta, id)
	if err != nil {
		return apperrors.FromStore("material", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Internal(err)
	}
	if rows == 0 {
		return apperrors.NotFound("material", nil)
	}
	return nil
}

func (r *materialRepository) SetLastPurchase(ctx context.Context, q sqlx.ExtContext, id int64, price decimal.Decimal, supplierID *int64) error {
	query := `
		UPDATE materials
		SET last_purchase_price = $1,
			last_supplier_id = COALESCE($2, last_supplier_id)
		WHERE id = $3
	`
	if _, err := q.ExecContext(ctx, query, price, supplierID, id); err != nil {
		return apperrors.FromStore("material", err)
	}
	return nil
}
