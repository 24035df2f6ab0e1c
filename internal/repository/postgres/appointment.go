package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

func (r *appointmentRepository) Create(ctx context.Context, q sqlx.ExtContext, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			client_id, artist_id, scheduled_at, estimated_minutes,
			estimated_total, status, notes, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	appointment.CreatedAt = time.Now()

	err := sqlx.GetContext(ctx, q, &appointment.ID, query,
		appointment.ClientID,
		appointment.ArtistID,
		appointment.ScheduledAt,
		appointment.EstimatedMinutes,
		appointment.EstimatedTotal,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedBy,
		appointment.CreatedAt,
	)
	if err != nil {
		return apperrors.FromStore("appointment", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Appointment, error) {
	q = ext(q, r.db)
	query := `
		SELECT id, client_id, artist_id, scheduled_at, estimated_minutes,
			   estimated_total, status, notes, created_by, created_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	if err := sqlx.GetContext(ctx, q, &appointment, query, id); err != nil {
		return nil, apperrors.FromStore("appointment", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, client_id, artist_id, scheduled_at, estimated_minutes,
			   estimated_total, status, notes, created_by, created_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.ClientID != nil {
			query += fmt.Sprintf(" AND client_id = $%d", argCount)
			args = append(args, *filters.ClientID)
			argCount++
		}
		if filters.ArtistID != nil {
			query += fmt.Sprintf(" AND artist_id = $%d", argCount)
			args = append(args, *filters.ArtistID)
			argCount++
		}
		if filters.Status != nil {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, *filters.Status)
			argCount++
		}
	}

	query += " ORDER BY scheduled_at DESC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, apperrors.FromStore("appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, q sqlx.ExtContext, id int64, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1
		WHERE id = $2
	`
	result, err := q.ExecContext(ctx, query, status, id)
	if err != nil {
		return apperrors.FromStore("appointment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Internal(err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

// ApplyPatch updates only the supplied fields. Columns come from a fixed
// allow-list, never from request input.
func (r *appointmentRepository) ApplyPatch(ctx context.Context, q sqlx.ExtContext, id int64, patch *model.AppointmentPatch) error {
	sets := []string{}
	args := []interface{}{}
	argCount := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if patch.ScheduledAt != nil {
		add("scheduled_at", *patch.ScheduledAt)
	}
	if patch.EstimatedMinutes != nil {
		add("estimated_minutes", *patch.EstimatedMinutes)
	}
	if patch.EstimatedTotal != nil {
		add("estimated_total", *patch.EstimatedTotal)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}

	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE appointments SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(" WHERE id = $%d", argCount)
	args = append(args, id)

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.FromStore("appointment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Internal(err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}
