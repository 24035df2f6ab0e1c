package postgres

import (
	"context"
	"database/sql"
	goerrors "errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

func (r *paymentRepository) Insert(ctx context.Context, q sqlx.ExtContext, payment *model.Payment) error {
	query := `
		INSERT INTO payments (
			client_id, appointment_id, amount, method, status,
			paid_at, reference, notes, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	payment.PaidAt = time.Now()

	err := sqlx.GetContext(ctx, q, &payment.ID, query,
		payment.ClientID,
		payment.AppointmentID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.PaidAt,
		payment.Reference,
		payment.Notes,
		payment.CreatedBy,
	)
	if err != nil {
		return apperrors.FromStore("payment", err)
	}
	return nil
}

// FindPaid returns the paid payment for an appointment, or nil when none
// exists. Refund rows are excluded.
func (r *paymentRepository) FindPaid(ctx context.Context, q sqlx.ExtContext, appointmentID int64) (*model.Payment, error) {
	q = ext(q, r.db)
	query := `
		SELECT id, client_id, appointment_id, amount, method, status,
			   paid_at, reference, notes, created_by
		FROM payments
		WHERE appointment_id = $1 AND status = 'paid'
		ORDER BY paid_at DESC
		LIMIT 1
	`
	var payment model.Payment
	err := sqlx.GetContext(ctx, q, &payment, query, appointmentID)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.FromStore("payment", err)
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context) ([]*model.Payment, error) {
	query := `
		SELECT id, client_id, appointment_id, amount, method, status,
			   paid_at, reference, notes, created_by
		FROM payments
		ORDER BY paid_at DESC
	`
	var payments []*model.Payment
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, apperrors.FromStore("payments", err)
	}
	return payments, nil
}
