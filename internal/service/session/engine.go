package session

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
	"github.com/WeroML/back-bd-tattoo2/pkg/metrics"
)

// Engine owns the session lifecycle log. Every state change appends a new
// entry carrying forward the previous one's timing and charge, and updates
// the owning appointment's denormalized status in the same transaction.
type Engine struct {
	tx           repository.TxManager
	sessions     repository.SessionRepository
	appointments repository.AppointmentRepository
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewEngine(tx repository.TxManager, sessions repository.SessionRepository, appointments repository.AppointmentRepository, m *metrics.Metrics, l *logger.Logger) *Engine {
	return &Engine{
		tx:           tx,
		sessions:     sessions,
		appointments: appointments,
		metrics:      m,
		logger:       l,
	}
}

// appointmentStatusFor maps a session state onto the appointment's own
// status enum. no_show has no appointment-level counterpart and closes the
// appointment as cancelled.
func appointmentStatusFor(s model.SessionStatus) model.AppointmentStatus {
	if s == model.SessionStatusNoShow {
		return model.AppointmentStatusCancelled
	}
	return model.AppointmentStatus(s)
}

// Start opens a sequence with its initial scheduled entry. Used by the
// orchestrator inside the appointment-creation transaction.
func (e *Engine) Start(ctx context.Context, q sqlx.ExtContext, appointmentID int64, sequence int, scheduledAt time.Time) (*model.SessionEntry, error) {
	entry := &model.SessionEntry{
		AppointmentID:  appointmentID,
		SequenceNumber: sequence,
		ScheduledAt:    scheduledAt,
		Status:         model.SessionStatusScheduled,
	}
	if err := e.sessions.Insert(ctx, q, entry); err != nil {
		return nil, err
	}
	e.metrics.LifecycleTransitions.WithLabelValues(string(entry.Status)).Inc()
	return entry, nil
}

// AppendInTx validates and applies one lifecycle transition within the
// caller's transaction, returning the new log entry.
func (e *Engine) AppendInTx(ctx context.Context, q sqlx.ExtContext, req *model.AppendSessionRequest) (*model.SessionEntry, error) {
	if !req.NewState.Valid() {
		return nil, apperrors.Validation("unknown session state: " + string(req.NewState))
	}

	prev, err := e.sessions.LatestForSequence(ctx, q, req.AppointmentID, req.SequenceNumber)
	if err != nil {
		return nil, err
	}
	if prev.Status.Terminal() {
		return nil, apperrors.InvalidTransition(string(prev.Status), string(req.NewState))
	}
	if !model.CanTransition(prev.Status, req.NewState) {
		return nil, apperrors.InvalidTransition(string(prev.Status), string(req.NewState))
	}

	entry := carryForward(prev, req)
	if err := e.sessions.Insert(ctx, q, entry); err != nil {
		return nil, err
	}
	if err := e.appointments.UpdateStatus(ctx, q, req.AppointmentID, appointmentStatusFor(entry.Status)); err != nil {
		return nil, err
	}

	e.metrics.LifecycleTransitions.WithLabelValues(string(entry.Status)).Inc()
	e.logger.Debug("session transition",
		"appointment_id", req.AppointmentID,
		"from", string(prev.Status),
		"to", string(entry.Status),
	)
	return entry, nil
}

// Append runs one transition in its own transaction. This is the direct
// write path of the sessions endpoint; orchestrated flows use AppendInTx.
func (e *Engine) Append(ctx context.Context, req *model.AppendSessionRequest) (*model.SessionEntry, error) {
	var entry *model.SessionEntry
	err := e.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		var txErr error
		entry, txErr = e.AppendInTx(ctx, tx, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// carryForward builds the next log entry from the previous one. Timing and
// accumulated charge roll forward; the transition itself stamps actual_start
// on entering in_progress and actual_end on reaching a terminal state.
func carryForward(prev *model.SessionEntry, req *model.AppendSessionRequest) *model.SessionEntry {
	now := time.Now()

	entry := &model.SessionEntry{
		AppointmentID:   prev.AppointmentID,
		SequenceNumber:  prev.SequenceNumber,
		ScheduledAt:     prev.ScheduledAt,
		ActualStart:     prev.ActualStart,
		DurationMinutes: prev.DurationMinutes,
		ChargedAmount:   prev.ChargedAmount.Add(req.ChargeDelta),
		Status:          req.NewState,
		Notes:           prev.Notes,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		entry.Notes = &notes
	}
	if req.NewState == model.SessionStatusInProgress && entry.ActualStart == nil {
		entry.ActualStart = &now
	}
	if req.NewState.Terminal() {
		entry.ActualEnd = &now
		if entry.ActualStart != nil {
			minutes := int(now.Sub(*entry.ActualStart).Minutes())
			entry.DurationMinutes = &minutes
		}
	}
	return entry
}

func (e *Engine) Get(ctx context.Context, id int64) (*model.SessionEntry, error) {
	return e.sessions.Get(ctx, nil, id)
}

// LatestInTx returns the newest log entry for an appointment within the
// caller's transaction.
func (e *Engine) LatestInTx(ctx context.Context, q sqlx.ExtContext, appointmentID int64) (*model.SessionEntry, error) {
	return e.sessions.Latest(ctx, q, appointmentID)
}

// History returns the full append-only log for an appointment, oldest first.
func (e *Engine) History(ctx context.Context, appointmentID int64) ([]*model.SessionEntry, error) {
	return e.sessions.History(ctx, appointmentID)
}

func (e *Engine) List(ctx context.Context, limit int) ([]*model.SessionEntry, error) {
	return e.sessions.List(ctx, limit)
}

func (e *Engine) Search(ctx context.Context, filters *model.SessionFilters) ([]*model.SessionEntry, error) {
	return e.sessions.Search(ctx, filters)
}
