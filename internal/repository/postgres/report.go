package postgres

import (
	"context"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

func (r *reportRepository) AppointmentSummary(ctx context.Context, appointmentID int64) (*model.AppointmentSummary, error) {
	query := `
		SELECT a.id AS appointment_id,
			   a.scheduled_at,
			   a.status,
			   a.estimated_total,
			   a.notes,
			   c.first_name AS client_first_name,
			   c.last_name  AS client_last_name,
			   c.email      AS client_email,
			   u.first_name AS artist_first_name,
			   u.last_name  AS artist_last_name,
			   ar.specialties AS artist_specialty
		FROM appointments a
		JOIN clients c ON a.client_id = c.id
		JOIN artists ar ON a.artist_id = ar.id
		JOIN users u ON ar.user_id = u.id
		WHERE a.id = $1
	`
	var summary model.AppointmentSummary
	if err := r.db.GetContext(ctx, &summary, query, appointmentID); err != nil {
		return nil, apperrors.FromStore("appointment summary", err)
	}
	return &summary, nil
}

func (r *reportRepository) SupplierReport(ctx context.Context) ([]*model.SupplierReport, error) {
	query := `
		SELECT s.name AS supplier,
			   COUNT(DISTINCT pl.material_id) AS product_count,
			   COALESCE(SUM(pl.quantity), 0)  AS units_bought,
			   MAX(p.purchased_at)            AS last_purchase
		FROM suppliers s
		LEFT JOIN purchases p ON p.supplier_id = s.id
		LEFT JOIN purchase_lines pl ON pl.purchase_id = p.id
		WHERE s.active
		GROUP BY s.name
		ORDER BY s.name
	`
	var rows []*model.SupplierReport
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperrors.FromStore("supplier report", err)
	}
	return rows, nil
}
