package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
)

// Emitter writes domain events to the transactional outbox. Emit is always
// called with the caller's transaction so the event commits or rolls back
// with the state change it describes.
type Emitter struct {
	outbox repository.OutboxRepository
}

func NewEmitter(outbox repository.OutboxRepository) *Emitter {
	return &Emitter{outbox: outbox}
}

func (e *Emitter) Emit(ctx context.Context, q sqlx.ExtContext, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return e.outbox.Insert(ctx, q, &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   body,
	})
}
