package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

const designViewColumns = `
	d.id, d.category_id, d.title, d.description, d.image_url, d.complexity,
	d.base_price, d.created_by, d.created_at, c.name AS category_name
`

func (r *designRepository) Get(ctx context.Context, id int64) (*model.DesignView, error) {
	query := `
		SELECT ` + designViewColumns + `
		FROM designs d
		JOIN design_categories c ON d.category_id = c.id
		WHERE d.id = $1
	`
	var design model.DesignView
	if err := r.db.GetContext(ctx, &design, query, id); err != nil {
		return nil, apperrors.FromStore("design", err)
	}
	return &design, nil
}

func (r *designRepository) List(ctx context.Context) ([]*model.DesignView, error) {
	query := `
		SELECT ` + designViewColumns + `
		FROM designs d
		JOIN design_categories c ON d.category_id = c.id
		ORDER BY d.created_at DESC
	`
	var designs []*model.DesignView
	if err := r.db.SelectContext(ctx, &designs, query); err != nil {
		return nil, apperrors.FromStore("designs", err)
	}
	return designs, nil
}

func (r *designRepository) Assign(ctx context.Context, q sqlx.ExtContext, link *model.AppointmentDesign) error {
	query := `
		INSERT INTO appointment_designs (
			appointment_id, design_id, quantity, notes, created_at
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	link.CreatedAt = time.Now()

	err := sqlx.GetContext(ctx, q, &link.ID, query,
		link.AppointmentID,
		link.DesignID,
		link.Quantity,
		link.Notes,
		link.CreatedAt,
	)
	if err != nil {
		return apperrors.FromStore("appointment design", err)
	}
	return nil
}

func (r *designRepository) ListAssignments(ctx context.Context) ([]*model.AppointmentDesign, error) {
	query := `
		SELECT id, appointment_id, design_id, quantity, notes, created_at
		FROM appointment_designs
		ORDER BY created_at DESC
	`
	var links []*model.AppointmentDesign
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, apperrors.FromStore("appointment designs", err)
	}
	return links, nil
}
