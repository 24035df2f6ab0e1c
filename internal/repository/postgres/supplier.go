package postgres

import (
	"context"
	"fmt"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

const supplierColumns = `id, name, contact, email, phone, address, active`

func (r *supplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact, email, phone, address, active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id
	`
	supplier.Active = true

	err := r.db.GetContext(ctx, &supplier.ID, query,
		supplier.Name,
		supplier.Contact,
		supplier.Email,
		supplier.Phone,
		supplier.Address,
	)
	if err != nil {
		return apperrors.FromStore("supplier", err)
	}
	return nil
}

func (r *supplierRepository) Get(ctx context.Context, id int64) (*model.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	var supplier model.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, id); err != nil {
		return nil, apperrors.FromStore("supplier", err)
	}
	return &supplier, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]*model.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE active = true ORDER BY name ASC`
	var suppliers []*model.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, apperrors.FromStore("suppliers", err)
	}
	return suppliers, nil
}

func (r *supplierRepository) ApplyPatch(ctx context.Context, id int64, patch *model.SupplierPatch) (*model.Supplier, error) {
	sets := []string{}
	args := []interface{}{}
	argCount := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Contact != nil {
		add("contact", *patch.Contact)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}

	if len(sets) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	query := "UPDATE suppliers SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(" WHERE id = $%d RETURNING ", argCount) + supplierColumns
	args = append(args, id)

	var supplier model.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, args...); err != nil {
		return nil, apperrors.FromStore("supplier", err)
	}
	return &supplier, nil
}

func (r *supplierRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE suppliers SET active = false WHERE id = $1`, id)
	if err != nil {
		return apperrors.FromStore("supplier", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Internal(err)
	}
	if rows == 0 {
		return apperrors.NotFound("supplier", nil)
	}
	return nil
}
