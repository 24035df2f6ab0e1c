package appointment

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
	"github.com/WeroML/back-bd-tattoo2/internal/service/event"
	"github.com/WeroML/back-bd-tattoo2/internal/service/inventory"
	"github.com/WeroML/back-bd-tattoo2/internal/service/session"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
)

// Service orchestrates the appointment lifecycle. Each operation runs as one
// transaction spanning the appointment row, the session log, the inventory
// ledger and the payment table, so a failure in any step leaves no partial
// state behind.
type Service struct {
	tx           repository.TxManager
	appointments repository.AppointmentRepository
	designs      repository.DesignRepository
	payments     repository.PaymentRepository
	engine       *session.Engine
	inventory    *inventory.Service
	emitter      *event.Emitter
	logger       *logger.Logger
}

func NewService(
	tx repository.TxManager,
	appointments repository.AppointmentRepository,
	designs repository.DesignRepository,
	payments repository.PaymentRepository,
	engine *session.Engine,
	inv *inventory.Service,
	emitter *event.Emitter,
	l *logger.Logger,
) *Service {
	return &Service{
		tx:           tx,
		appointments: appointments,
		designs:      designs,
		payments:     payments,
		engine:       engine,
		inventory:    inv,
		emitter:      emitter,
		logger:       l,
	}
}

type lifecyclePayload struct {
	AppointmentID int64  `json:"appointment_id"`
	Status        string `json:"status"`
	ActorID       int64  `json:"actor_id,omitempty"`
}

// Create books an appointment and opens its session log with a scheduled
// entry, both in one transaction.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.EstimatedTotal.Sign() < 0 {
		return nil, apperrors.Validation("estimated total must not be negative")
	}

	appointment := &model.Appointment{
		ClientID:         req.ClientID,
		ArtistID:         req.ArtistID,
		ScheduledAt:      req.ScheduledAt,
		EstimatedMinutes: req.EstimatedMinutes,
		EstimatedTotal:   req.EstimatedTotal,
		Status:           model.AppointmentStatusScheduled,
		CreatedBy:        req.CreatedBy,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		appointment.Notes = &notes
	}

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.appointments.Create(ctx, tx, appointment); err != nil {
			return err
		}
		if _, err := s.engine.Start(ctx, tx, appointment.ID, 1, appointment.ScheduledAt); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, model.EventAppointmentCreated, lifecyclePayload{
			AppointmentID: appointment.ID,
			Status:        string(appointment.Status),
			ActorID:       req.CreatedBy,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment created",
		"appointment_id", appointment.ID,
		"client_id", appointment.ClientID,
		"artist_id", appointment.ArtistID,
	)
	return appointment, nil
}

// AssignDesign links a catalog design into the appointment and confirms it:
// the session log gains a confirmed entry and the denormalized status moves
// with it.
func (s *Service) AssignDesign(ctx context.Context, appointmentID int64, req *model.AssignDesignRequest) (*model.AppointmentDesign, error) {
	link := &model.AppointmentDesign{
		AppointmentID: appointmentID,
		DesignID:      req.DesignID,
		Quantity:      req.Quantity,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		link.Notes = &notes
	}

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.appointments.Get(ctx, tx, appointmentID); err != nil {
			return err
		}
		if err := s.designs.Assign(ctx, tx, link); err != nil {
			return err
		}
		if _, err := s.engine.AppendInTx(ctx, tx, &model.AppendSessionRequest{
			AppointmentID:  appointmentID,
			SequenceNumber: 1,
			NewState:       model.SessionStatusConfirmed,
		}); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, model.EventAppointmentConfirmed, lifecyclePayload{
			AppointmentID: appointmentID,
			Status:        string(model.AppointmentStatusConfirmed),
		})
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// AdvanceRequest starts the work on a confirmed appointment. Materials are
// consumed through the inventory ledger; actor identity is mandatory.
type AdvanceRequest struct {
	Materials []model.MaterialLine `json:"materials"`
	ActorID   int64                `json:"actor_id" validate:"required"`
	Notes     string               `json:"notes"`
}

// AdvanceToInProgress transitions the appointment to in_progress and books
// the supplied material consumptions against the new session entry. The
// transition and every consumption commit together or not at all.
func (s *Service) AdvanceToInProgress(ctx context.Context, appointmentID int64, req *AdvanceRequest) (*model.SessionEntry, error) {
	if req.ActorID == 0 {
		return nil, apperrors.Validation("acting user is required")
	}

	var entry *model.SessionEntry
	var materialCost decimal.Decimal
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		entry, err = s.engine.AppendInTx(ctx, tx, &model.AppendSessionRequest{
			AppointmentID:  appointmentID,
			SequenceNumber: 1,
			NewState:       model.SessionStatusInProgress,
			Notes:          req.Notes,
		})
		if err != nil {
			return err
		}
		if _, materialCost, err = s.inventory.ConsumeInTx(ctx, tx, entry.ID, req.Materials, req.ActorID); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, model.EventAppointmentInProgress, lifecyclePayload{
			AppointmentID: appointmentID,
			Status:        string(model.AppointmentStatusInProgress),
			ActorID:       req.ActorID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment started",
		"appointment_id", appointmentID,
		"material_cost", materialCost.String(),
	)
	return entry, nil
}

// CompleteWithPayment closes the appointment: a terminal completed entry in
// the session log plus exactly one paid payment row. The charged amount is
// the appointment's estimated total at completion time.
func (s *Service) CompleteWithPayment(ctx context.Context, appointmentID int64, req *model.CreatePaymentRequest) (*model.Payment, error) {
	if !req.Method.Valid() {
		return nil, apperrors.Validation("unknown payment method: " + string(req.Method))
	}
	if req.CreatedBy == 0 {
		return nil, apperrors.Validation("acting user is required")
	}

	var payment *model.Payment
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		appointment, err := s.appointments.Get(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		existing, err := s.payments.FindPaid(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.Conflict("appointment is already paid")
		}

		if _, err := s.engine.AppendInTx(ctx, tx, &model.AppendSessionRequest{
			AppointmentID:  appointmentID,
			SequenceNumber: 1,
			NewState:       model.SessionStatusCompleted,
			ChargeDelta:    appointment.EstimatedTotal,
		}); err != nil {
			return err
		}

		payment = &model.Payment{
			ClientID:      appointment.ClientID,
			AppointmentID: appointmentID,
			Amount:        appointment.EstimatedTotal,
			Method:        req.Method,
			Status:        model.PaymentStatusPaid,
			CreatedBy:     req.CreatedBy,
		}
		if ref := strings.TrimSpace(req.Reference); ref != "" {
			payment.Reference = &ref
		}
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			payment.Notes = &notes
		}
		if err := s.payments.Insert(ctx, tx, payment); err != nil {
			return err
		}

		return s.emitter.Emit(ctx, tx, model.EventAppointmentCompleted, lifecyclePayload{
			AppointmentID: appointmentID,
			Status:        string(model.AppointmentStatusCompleted),
			ActorID:       req.CreatedBy,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment completed",
		"appointment_id", appointmentID,
		"amount", payment.Amount.String(),
	)
	return payment, nil
}

// CancelRequest cancels an appointment; a reason is kept in the session log.
type CancelRequest struct {
	Reason  string `json:"reason"`
	ActorID int64  `json:"actor_id" validate:"required"`
}

// Cancel closes the appointment as cancelled. When a payment has already
// been taken, one compensating refund row is appended with the amount
// negated; the original paid row is never touched.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *CancelRequest) error {
	if req.ActorID == 0 {
		return apperrors.Validation("acting user is required")
	}

	return s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.engine.AppendInTx(ctx, tx, &model.AppendSessionRequest{
			AppointmentID:  appointmentID,
			SequenceNumber: 1,
			NewState:       model.SessionStatusCancelled,
			Notes:          req.Reason,
		}); err != nil {
			return err
		}

		paid, err := s.payments.FindPaid(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if paid != nil {
			refund := &model.Payment{
				ClientID:      paid.ClientID,
				AppointmentID: appointmentID,
				Amount:        paid.Amount.Neg(),
				Method:        paid.Method,
				Status:        model.PaymentStatusRefunded,
				Reference:     paid.Reference,
				CreatedBy:     req.ActorID,
			}
			if err := s.payments.Insert(ctx, tx, refund); err != nil {
				return err
			}
			s.logger.Info("payment refunded",
				"appointment_id", appointmentID,
				"amount", refund.Amount.String(),
			)
		}

		return s.emitter.Emit(ctx, tx, model.EventAppointmentCancelled, lifecyclePayload{
			AppointmentID: appointmentID,
			Status:        string(model.AppointmentStatusCancelled),
			ActorID:       req.ActorID,
		})
	})
}

// Update applies a sparse patch. Field edits go through the column
// allow-list; a status change is never written directly and instead
// delegates to the corresponding lifecycle operation within the same call.
func (s *Service) Update(ctx context.Context, appointmentID int64, patch *model.AppointmentPatch) (*model.Appointment, error) {
	if patch.ActorID == nil || *patch.ActorID == 0 {
		return nil, apperrors.Validation("acting user is required")
	}
	if patch.Empty() {
		return nil, apperrors.Validation("no updatable fields supplied")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.Validation("unknown appointment status: " + string(*patch.Status))
	}

	actor := *patch.ActorID
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.appointments.ApplyPatch(ctx, tx, appointmentID, patch); err != nil {
			return err
		}
		if patch.Status != nil {
			return s.applyStatusChange(ctx, tx, appointmentID, patch, actor)
		}
		if len(patch.Materials) > 0 {
			return s.consumeForCurrentEntry(ctx, tx, appointmentID, patch.Materials, actor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.appointments.Get(ctx, nil, appointmentID)
}

// consumeForCurrentEntry books a materials-only patch against the open
// session entry. Without a status change there is no new entry to attach
// the usage to, so the appointment must already be in progress.
func (s *Service) consumeForCurrentEntry(ctx context.Context, tx *sqlx.Tx, appointmentID int64, lines []model.MaterialLine, actor int64) error {
	entry, err := s.engine.LatestInTx(ctx, tx, appointmentID)
	if err != nil {
		return err
	}
	if entry.Status != model.SessionStatusInProgress {
		return apperrors.Validation("materials can only be recorded while the appointment is in progress")
	}
	_, _, err = s.inventory.ConsumeInTx(ctx, tx, entry.ID, lines, actor)
	return err
}

// applyStatusChange routes a patched status through the lifecycle engine so
// the session log and denormalized status stay in lockstep.
func (s *Service) applyStatusChange(ctx context.Context, tx *sqlx.Tx, appointmentID int64, patch *model.AppointmentPatch, actor int64) error {
	switch *patch.Status {
	case model.AppointmentStatusConfirmed:
		if _, err := s.engine.AppendInTx(ctx, tx, &model.AppendSessionRequest{
			AppointmentID:  appointmentID,
			SequenceNumber: 1,
			NewState:       model.SessionStatusConfirmed,
		}); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, model.EventAppointmentConfirmed, lifecyclePayload{
			AppointmentID: appointmentID,
			Status:        string(model.AppointmentStatusConfirmed),
			ActorID:       actor,
		})

	case model.AppointmentStatusInProgress:
		entry, err := s.engine.AppendInTx(ctx, tx, &model.AppendSessionRequest{
			AppointmentID:  appointmentID,
			SequenceNumber: 1,
			NewState:       model.SessionStatusInProgress,
		})
		if err != nil {
			return err
		}
		if _, _, err := s.inventory.ConsumeInTx(ctx, tx, entry.ID, patch.Materials, actor); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, model.EventAppointmentInProgress, lifecyclePayload{
			AppointmentID: appointmentID,
			Status:        string(model.AppointmentStatusInProgress),
			ActorID:       actor,
		})

	case model.AppointmentStatusCancelled:
		req := &model.AppendSessionRequest{
			AppointmentID:  appointmentID,
			SequenceNumber: 1,
			NewState:       model.SessionStatusCancelled,
		}
		if patch.CancelReason != nil {
			req.Notes = *patch.CancelReason
		}
		if _, err := s.engine.AppendInTx(ctx, tx, req); err != nil {
			return err
		}

		paid, err := s.payments.FindPaid(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if paid != nil {
			refund := &model.Payment{
				ClientID:      paid.ClientID,
				AppointmentID: appointmentID,
				Amount:        paid.Amount.Neg(),
				Method:        paid.Method,
				Status:        model.PaymentStatusRefunded,
				Reference:     paid.Reference,
				CreatedBy:     actor,
			}
			if err := s.payments.Insert(ctx, tx, refund); err != nil {
				return err
			}
		}
		return s.emitter.Emit(ctx, tx, model.EventAppointmentCancelled, lifecyclePayload{
			AppointmentID: appointmentID,
			Status:        string(model.AppointmentStatusCancelled),
			ActorID:       actor,
		})

	case model.AppointmentStatusCompleted:
		return apperrors.Validation("completion requires a payment; use the completion endpoint")

	default:
		return apperrors.InvalidTransition("", string(*patch.Status))
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.appointments.Get(ctx, nil, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, filters)
}

// Payments lists all payment rows, refunds included.
func (s *Service) Payments(ctx context.Context) ([]*model.Payment, error) {
	return s.payments.List(ctx)
}

// MaterialCosts lists the consumption booked across the appointment's
// sessions, unit-cost snapshots included.
func (s *Service) MaterialCosts(ctx context.Context, appointmentID int64) ([]*model.MaterialUsageView, error) {
	if _, err := s.appointments.Get(ctx, nil, appointmentID); err != nil {
		return nil, err
	}
	return s.inventory.UsageByAppointment(ctx, appointmentID)
}

// History exposes the appointment's full session log.
func (s *Service) History(ctx context.Context, appointmentID int64) ([]*model.SessionEntry, error) {
	if _, err := s.appointments.Get(ctx, nil, appointmentID); err != nil {
		return nil, err
	}
	return s.engine.History(ctx, appointmentID)
}
