package appointment

import (
	"context"
	goerrors "errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/service/event"
	"github.com/WeroML/back-bd-tattoo2/internal/service/inventory"
	"github.com/WeroML/back-bd-tattoo2/internal/service/servicetest"
	"github.com/WeroML/back-bd-tattoo2/internal/service/session"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
	"github.com/WeroML/back-bd-tattoo2/pkg/metrics"
)

var (
	testMetrics = metrics.NewMetrics("test", "appointment")
	testLogger  = logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard, TimeFormat: time.RFC3339})
)

type fixture struct {
	svc          *Service
	appointments *servicetest.AppointmentRepo
	sessions     *servicetest.SessionRepo
	materials    *servicetest.MaterialRepo
	movements    *servicetest.MovementRepo
	usages       *servicetest.UsageRepo
	payments     *servicetest.PaymentRepo
	designs      *servicetest.DesignRepo
	outbox       *servicetest.OutboxRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		appointments: servicetest.NewAppointmentRepo(),
		sessions:     servicetest.NewSessionRepo(),
		materials:    servicetest.NewMaterialRepo(),
		movements:    servicetest.NewMovementRepo(),
		usages:       servicetest.NewUsageRepo(),
		payments:     servicetest.NewPaymentRepo(),
		designs:      servicetest.NewDesignRepo(),
		outbox:       servicetest.NewOutboxRepo(),
	}
	tx := &servicetest.TxManager{}
	emitter := event.NewEmitter(f.outbox)
	engine := session.NewEngine(tx, f.sessions, f.appointments, testMetrics, testLogger)
	inv := inventory.NewService(tx, f.materials, f.movements, f.usages, f.sessions, emitter, testMetrics, testLogger)
	f.svc = NewService(tx, f.appointments, f.designs, f.payments, engine, inv, emitter, testLogger)
	return f
}

func (f *fixture) create(t *testing.T, total int64) *model.Appointment {
	t.Helper()
	appointment, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ClientID:       1,
		ArtistID:       2,
		ScheduledAt:    time.Now().Add(48 * time.Hour),
		EstimatedTotal: decimal.NewFromInt(total),
		CreatedBy:      3,
	})
	require.NoError(t, err)
	return appointment
}

func (f *fixture) confirm(t *testing.T, appointmentID int64) {
	t.Helper()
	f.designs.Designs[1] = &model.DesignView{Design: model.Design{ID: 1, Title: "koi"}}
	_, err := f.svc.AssignDesign(context.Background(), appointmentID, &model.AssignDesignRequest{DesignID: 1, Quantity: 1})
	require.NoError(t, err)
}

func (f *fixture) start(t *testing.T, appointmentID int64, materials []model.MaterialLine) {
	t.Helper()
	_, err := f.svc.AdvanceToInProgress(context.Background(), appointmentID, &AdvanceRequest{
		Materials: materials,
		ActorID:   3,
	})
	require.NoError(t, err)
}

func TestCreateOpensSessionLog(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)

	assert.Equal(t, model.AppointmentStatusScheduled, appointment.Status)

	history, err := f.svc.History(context.Background(), appointment.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.SessionStatusScheduled, history[0].Status)
	assert.Equal(t, 1, history[0].SequenceNumber)

	assert.Equal(t, []string{model.EventAppointmentCreated}, f.outbox.EventTypes())
}

func TestCreateRejectsNegativeTotal(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ClientID:       1,
		ArtistID:       2,
		ScheduledAt:    time.Now(),
		EstimatedTotal: decimal.NewFromInt(-10),
		CreatedBy:      3,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAssignDesignConfirms(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)
	f.confirm(t, appointment.ID)

	stored, err := f.svc.Get(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, stored.Status)
	require.Len(t, f.designs.Assignments, 1)
	assert.Equal(t, appointment.ID, f.designs.Assignments[0].AppointmentID)
}

func TestAdvanceToInProgressConsumesMaterials(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)
	f.confirm(t, appointment.ID)

	inkID := f.materials.Add(&model.Material{
		Code: "INK-BLK", Name: "black ink", Unit: "ml",
		OnHand:           decimal.NewFromInt(100),
		ReorderThreshold: decimal.NewFromInt(10),
		UnitCost:         decimal.NewFromInt(3),
		Active:           true,
	})

	f.start(t, appointment.ID, []model.MaterialLine{{MaterialID: inkID, Quantity: decimal.NewFromInt(15)}})

	stored, err := f.svc.Get(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusInProgress, stored.Status)

	material, err := f.materials.Get(context.Background(), inkID)
	require.NoError(t, err)
	assert.True(t, material.OnHand.Equal(decimal.NewFromInt(85)))

	// Consumption is booked against the in_progress session entry.
	require.Len(t, f.usages.Usages, 1)
	latest, err := f.sessions.Latest(context.Background(), nil, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, f.usages.Usages[0].SessionID)
}

func TestAdvanceToInProgressRequiresActor(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)
	f.confirm(t, appointment.ID)

	_, err := f.svc.AdvanceToInProgress(context.Background(), appointment.ID, &AdvanceRequest{})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAdvanceToInProgressInsufficientStock(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)
	f.confirm(t, appointment.ID)

	inkID := f.materials.Add(&model.Material{
		Code: "INK-BLK", Name: "black ink", Unit: "ml",
		OnHand:           decimal.NewFromInt(2),
		ReorderThreshold: decimal.NewFromInt(1),
		UnitCost:         decimal.NewFromInt(3),
		Active:           true,
	})

	_, err := f.svc.AdvanceToInProgress(context.Background(), appointment.ID, &AdvanceRequest{
		Materials: []model.MaterialLine{{MaterialID: inkID, Quantity: decimal.NewFromInt(9)}},
		ActorID:   3,
	})

	var stockErr *apperrors.InsufficientStockError
	require.True(t, goerrors.As(err, &stockErr))
	assert.Equal(t, inkID, stockErr.MaterialID)
	assert.True(t, stockErr.Deficit.Equal(decimal.NewFromInt(7)))
	assert.Empty(t, f.movements.Movements)
}

func TestAdvanceFromScheduledRejected(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)

	_, err := f.svc.AdvanceToInProgress(context.Background(), appointment.ID, &AdvanceRequest{ActorID: 3})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))
}

func TestCompleteWithPayment(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 450)
	f.confirm(t, appointment.ID)
	f.start(t, appointment.ID, nil)

	payment, err := f.svc.CompleteWithPayment(context.Background(), appointment.ID, &model.CreatePaymentRequest{
		Method:    model.PaymentMethodCard,
		Reference: "AUTH-123",
		CreatedBy: 3,
	})
	require.NoError(t, err)

	// The charge is always the estimated total captured on the appointment.
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, model.PaymentStatusPaid, payment.Status)
	assert.Equal(t, appointment.ClientID, payment.ClientID)

	stored, err := f.svc.Get(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, stored.Status)

	latest, err := f.sessions.Latest(context.Background(), nil, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCompleted, latest.Status)
	assert.True(t, latest.ChargedAmount.Equal(decimal.NewFromInt(450)))
}

func TestCompleteTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 450)
	f.confirm(t, appointment.ID)
	f.start(t, appointment.ID, nil)

	_, err := f.svc.CompleteWithPayment(context.Background(), appointment.ID, &model.CreatePaymentRequest{
		Method:    model.PaymentMethodCash,
		CreatedBy: 3,
	})
	require.NoError(t, err)

	_, err = f.svc.CompleteWithPayment(context.Background(), appointment.ID, &model.CreatePaymentRequest{
		Method:    model.PaymentMethodCash,
		CreatedBy: 3,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Len(t, f.payments.Payments, 1)
}

func TestCompleteRejectsUnknownMethod(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 450)

	_, err := f.svc.CompleteWithPayment(context.Background(), appointment.ID, &model.CreatePaymentRequest{
		Method:    model.PaymentMethod("check"),
		CreatedBy: 3,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCancelBeforePayment(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)

	err := f.svc.Cancel(context.Background(), appointment.ID, &CancelRequest{Reason: "client moved away", ActorID: 3})
	require.NoError(t, err)

	stored, err := f.svc.Get(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, stored.Status)
	assert.Empty(t, f.payments.Payments)

	latest, err := f.sessions.Latest(context.Background(), nil, appointment.ID)
	require.NoError(t, err)
	require.NotNil(t, latest.Notes)
	assert.Equal(t, "client moved away", *latest.Notes)
}

func TestCancelAfterPaymentRefundsOnce(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 500)
	f.confirm(t, appointment.ID)
	f.start(t, appointment.ID, nil)

	_, err := f.svc.CompleteWithPayment(context.Background(), appointment.ID, &model.CreatePaymentRequest{
		Method:    model.PaymentMethodTransfer,
		Reference: "TX-55",
		CreatedBy: 3,
	})
	require.NoError(t, err)

	err = f.svc.Cancel(context.Background(), appointment.ID, &CancelRequest{Reason: "dispute", ActorID: 4})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))

	// completed is terminal, so the refund path is only reachable through a
	// cancel that raced the completion; drive it directly.
	f2 := newFixture(t)
	appointment2 := f2.create(t, 500)
	f2.confirm(t, appointment2.ID)
	f2.start(t, appointment2.ID, nil)
	f2.payments.Payments = append(f2.payments.Payments, &model.Payment{
		ID: 1, ClientID: 1, AppointmentID: appointment2.ID,
		Amount: decimal.NewFromInt(500), Method: model.PaymentMethodTransfer,
		Status: model.PaymentStatusPaid, CreatedBy: 3,
	})
	f2.payments.NextID = 2

	require.NoError(t, f2.svc.Cancel(context.Background(), appointment2.ID, &CancelRequest{Reason: "dispute", ActorID: 4}))

	require.Len(t, f2.payments.Payments, 2)
	original := f2.payments.Payments[0]
	refund := f2.payments.Payments[1]
	assert.Equal(t, model.PaymentStatusPaid, original.Status)
	assert.True(t, original.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, model.PaymentStatusRefunded, refund.Status)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(-500)))
	assert.Equal(t, original.Method, refund.Method)
	assert.Equal(t, int64(4), refund.CreatedBy)
}

func TestUpdateFields(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)

	actor := int64(3)
	newTotal := decimal.NewFromInt(350)
	notes := "added a second sleeve element"
	updated, err := f.svc.Update(context.Background(), appointment.ID, &model.AppointmentPatch{
		EstimatedTotal: &newTotal,
		Notes:          &notes,
		ActorID:        &actor,
	})
	require.NoError(t, err)

	assert.True(t, updated.EstimatedTotal.Equal(newTotal))
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	assert.Equal(t, model.AppointmentStatusScheduled, updated.Status)
}

func TestUpdateStatusDelegatesToLifecycle(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)

	actor := int64(3)
	status := model.AppointmentStatusConfirmed
	updated, err := f.svc.Update(context.Background(), appointment.ID, &model.AppointmentPatch{
		Status:  &status,
		ActorID: &actor,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)

	// The status change went through the log, not a direct column write.
	history, err := f.svc.History(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestUpdateMaterialsOnlyConsumesStock(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)
	f.confirm(t, appointment.ID)
	f.start(t, appointment.ID, nil)

	inkID := f.materials.Add(&model.Material{
		Code: "INK-BLK", Name: "black ink", Unit: "ml",
		OnHand:           decimal.NewFromInt(100),
		ReorderThreshold: decimal.NewFromInt(10),
		UnitCost:         decimal.NewFromInt(3),
		Active:           true,
	})

	actor := int64(3)
	_, err := f.svc.Update(context.Background(), appointment.ID, &model.AppointmentPatch{
		Materials: []model.MaterialLine{{MaterialID: inkID, Quantity: decimal.NewFromInt(5)}},
		ActorID:   &actor,
	})
	require.NoError(t, err)

	material, err := f.materials.Get(context.Background(), inkID)
	require.NoError(t, err)
	assert.True(t, material.OnHand.Equal(decimal.NewFromInt(95)))

	require.Len(t, f.movements.Movements, 1)
	assert.Equal(t, model.MovementKindConsumption, f.movements.Movements[0].Kind)

	// The usage hangs off the open in_progress entry.
	latest, err := f.sessions.Latest(context.Background(), nil, appointment.ID)
	require.NoError(t, err)
	require.Len(t, f.usages.Usages, 1)
	assert.Equal(t, latest.ID, f.usages.Usages[0].SessionID)
}

func TestUpdateMaterialsRejectedBeforeStart(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)

	inkID := f.materials.Add(&model.Material{
		Code: "INK-BLK", Name: "black ink", Unit: "ml",
		OnHand:           decimal.NewFromInt(100),
		ReorderThreshold: decimal.NewFromInt(10),
		UnitCost:         decimal.NewFromInt(3),
		Active:           true,
	})

	actor := int64(3)
	_, err := f.svc.Update(context.Background(), appointment.ID, &model.AppointmentPatch{
		Materials: []model.MaterialLine{{MaterialID: inkID, Quantity: decimal.NewFromInt(5)}},
		ActorID:   &actor,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	material, err := f.materials.Get(context.Background(), inkID)
	require.NoError(t, err)
	assert.True(t, material.OnHand.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, f.movements.Movements)
	assert.Empty(t, f.usages.Usages)
}

func TestUpdateRejectsDirectCompletion(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)

	actor := int64(3)
	status := model.AppointmentStatusCompleted
	_, err := f.svc.Update(context.Background(), appointment.ID, &model.AppointmentPatch{
		Status:  &status,
		ActorID: &actor,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestUpdateRequiresActor(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)

	notes := "x"
	_, err := f.svc.Update(context.Background(), appointment.ID, &model.AppointmentPatch{Notes: &notes})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestUpdateEmptyPatch(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)

	actor := int64(3)
	_, err := f.svc.Update(context.Background(), appointment.ID, &model.AppointmentPatch{ActorID: &actor})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestHistoryUnknownAppointment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.History(context.Background(), 99)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestLifecycleEventsEmitted(t *testing.T) {
	f := newFixture(t)
	appointment := f.create(t, 300)
	f.confirm(t, appointment.ID)
	f.start(t, appointment.ID, nil)
	_, err := f.svc.CompleteWithPayment(context.Background(), appointment.ID, &model.CreatePaymentRequest{
		Method:    model.PaymentMethodCash,
		CreatedBy: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		model.EventAppointmentCreated,
		model.EventAppointmentConfirmed,
		model.EventAppointmentInProgress,
		model.EventAppointmentCompleted,
	}, f.outbox.EventTypes())
}
