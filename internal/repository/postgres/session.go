package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

const sessionColumns = `
	id, appointment_id, sequence_number, scheduled_at, actual_start,
	actual_end, duration_minutes, charged_amount, status, notes, created_at
`

// Insert appends one lifecycle log row. Rows are never updated afterwards.
func (r *sessionRepository) Insert(ctx context.Context, q sqlx.ExtContext, entry *model.SessionEntry) error {
	query := `
		INSERT INTO sessions (
			appointment_id, sequence_number, scheduled_at, actual_start,
			actual_end, duration_minutes, charged_amount, status, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	entry.CreatedAt = time.Now()

	err := sqlx.GetContext(ctx, q, &entry.ID, query,
		entry.AppointmentID,
		entry.SequenceNumber,
		entry.ScheduledAt,
		entry.ActualStart,
		entry.ActualEnd,
		entry.DurationMinutes,
		entry.ChargedAmount,
		entry.Status,
		entry.Notes,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.FromStore("session", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, q sqlx.ExtContext, id int64) (*model.SessionEntry, error) {
	q = ext(q, r.db)
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	var entry model.SessionEntry
	if err := sqlx.GetContext(ctx, q, &entry, query, id); err != nil {
		return nil, apperrors.FromStore("session", err)
	}
	return &entry, nil
}

func (r *sessionRepository) Latest(ctx context.Context, q sqlx.ExtContext, appointmentID int64) (*model.SessionEntry, error) {
	q = ext(q, r.db)
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE appointment_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var entry model.SessionEntry
	if err := sqlx.GetContext(ctx, q, &entry, query, appointmentID); err != nil {
		return nil, apperrors.FromStore("session", err)
	}
	return &entry, nil
}

func (r *sessionRepository) LatestForSequence(ctx context.Context, q sqlx.ExtContext, appointmentID int64, sequence int) (*model.SessionEntry, error) {
	q = ext(q, r.db)
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE appointment_id = $1 AND sequence_number = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var entry model.SessionEntry
	if err := sqlx.GetContext(ctx, q, &entry, query, appointmentID, sequence); err != nil {
		return nil, apperrors.FromStore("session", err)
	}
	return &entry, nil
}

func (r *sessionRepository) History(ctx context.Context, appointmentID int64) ([]*model.SessionEntry, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE appointment_id = $1
		ORDER BY sequence_number ASC, created_at ASC
	`
	var entries []*model.SessionEntry
	if err := r.db.SelectContext(ctx, &entries, query, appointmentID); err != nil {
		return nil, apperrors.FromStore("sessions", err)
	}
	return entries, nil
}

func (r *sessionRepository) List(ctx context.Context, limit int) ([]*model.SessionEntry, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		ORDER BY scheduled_at DESC
		LIMIT $1
	`
	var entries []*model.SessionEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, apperrors.FromStore("sessions", err)
	}
	return entries, nil
}

func (r *sessionRepository) Search(ctx context.Context, filters *model.SessionFilters) ([]*model.SessionEntry, error) {
	query := `
		SELECT s.id, s.appointment_id, s.sequence_number, s.scheduled_at,
			   s.actual_start, s.actual_end, s.duration_minutes,
			   s.charged_amount, s.status, s.notes, s.created_at
		FROM sessions s
		JOIN appointments a ON s.appointment_id = a.id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.AppointmentID != nil {
		query += fmt.Sprintf(" AND s.appointment_id = $%d", argCount)
		args = append(args, *filters.AppointmentID)
		argCount++
	}
	if filters.Status != nil {
		query += fmt.Sprintf(" AND s.status = $%d", argCount)
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.ArtistID != nil {
		query += fmt.Sprintf(" AND a.artist_id = $%d", argCount)
		args = append(args, *filters.ArtistID)
		argCount++
	}
	if filters.ClientID != nil {
		query += fmt.Sprintf(" AND a.client_id = $%d", argCount)
		args = append(args, *filters.ClientID)
		argCount++
	}

	query += " ORDER BY s.created_at DESC"

	var entries []*model.SessionEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, apperrors.FromStore("sessions", err)
	}
	return entries, nil
}
