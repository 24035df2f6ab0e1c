package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

func (r *outboxRepository) Insert(ctx context.Context, q sqlx.ExtContext, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, 0, $5)
	`
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()

	_, err := q.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.FromStore("outbox event", err)
	}
	return nil
}

// FetchPending returns events awaiting delivery: pending ones plus failed
// ones with retries left. The select runs on the pool, so rows are not
// claimed across polls; delivery is at-least-once and a concurrent
// processor may pick up the same rows.
func (r *outboxRepository) FetchPending(ctx context.Context, limit, maxAttempts int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message, retry_count,
			   created_at, processed_at
		FROM outbox_events
		WHERE status = $1 OR (status = $2 AND retry_count < $3)
		ORDER BY created_at
		LIMIT $4
	`
	var events []*model.OutboxEvent
	if err := r.db.SelectContext(ctx, &events, query, model.OutboxStatusPending, model.OutboxStatusFailed, maxAttempts, limit); err != nil {
		return nil, apperrors.FromStore("outbox events", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processed_at = $2, error_message = NULL
		WHERE id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, time.Now(), id); err != nil {
		return apperrors.FromStore("outbox event", err)
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, errMsg string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, error_message = $2, retry_count = retry_count + 1
		WHERE id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, model.OutboxStatusFailed, errMsg, id); err != nil {
		return apperrors.FromStore("outbox event", err)
	}
	return nil
}
