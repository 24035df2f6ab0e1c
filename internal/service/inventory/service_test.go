package inventory

import (
	"context"
	goerrors "errors"
	"io"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/service/event"
	"github.com/WeroML/back-bd-tattoo2/internal/service/servicetest"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
	"github.com/WeroML/back-bd-tattoo2/pkg/metrics"
)

var (
	testMetrics = metrics.NewMetrics("test", "inventory")
	testLogger  = logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard, TimeFormat: time.RFC3339})
)

type fixture struct {
	svc       *Service
	materials *servicetest.MaterialRepo
	movements *servicetest.MovementRepo
	usages    *servicetest.UsageRepo
	sessions  *servicetest.SessionRepo
	outbox    *servicetest.OutboxRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	materials := servicetest.NewMaterialRepo()
	movements := servicetest.NewMovementRepo()
	usages := servicetest.NewUsageRepo()
	sessions := servicetest.NewSessionRepo()
	outbox := servicetest.NewOutboxRepo()
	svc := NewService(&servicetest.TxManager{}, materials, movements, usages, sessions,
		event.NewEmitter(outbox), testMetrics, testLogger)
	return &fixture{svc: svc, materials: materials, movements: movements, usages: usages, sessions: sessions, outbox: outbox}
}

func (f *fixture) seedMaterial(code string, onHand, threshold, unitCost int64) int64 {
	return f.materials.Add(&model.Material{
		Code:             code,
		Name:             code,
		Unit:             "unit",
		OnHand:           decimal.NewFromInt(onHand),
		ReorderThreshold: decimal.NewFromInt(threshold),
		UnitCost:         decimal.NewFromInt(unitCost),
		Active:           true,
	})
}

func TestConsumeWritesLedgerAndUsage(t *testing.T) {
	f := newFixture(t)
	inkID := f.seedMaterial("INK-BLK", 100, 10, 3)
	needleID := f.seedMaterial("NDL-RL3", 50, 5, 2)

	lines := []model.MaterialLine{
		{MaterialID: needleID, Quantity: decimal.NewFromInt(4)},
		{MaterialID: inkID, Quantity: decimal.NewFromInt(10)},
	}
	usages, cost, err := f.svc.ConsumeInTx(context.Background(), nil, 1, lines, 9)
	require.NoError(t, err)

	// 10*3 + 4*2
	assert.True(t, cost.Equal(decimal.NewFromInt(38)))
	require.Len(t, usages, 2)

	ink, err := f.materials.Get(context.Background(), inkID)
	require.NoError(t, err)
	assert.True(t, ink.OnHand.Equal(decimal.NewFromInt(90)))

	needle, err := f.materials.Get(context.Background(), needleID)
	require.NoError(t, err)
	assert.True(t, needle.OnHand.Equal(decimal.NewFromInt(46)))

	// One consumption row per line, and the replayed ledger matches.
	require.Len(t, f.movements.Movements, 2)
	for _, movement := range f.movements.Movements {
		assert.Equal(t, model.MovementKindConsumption, movement.Kind)
		assert.Equal(t, int64(9), movement.PerformedBy)
		require.NotNil(t, movement.SessionID)
		assert.Equal(t, int64(1), *movement.SessionID)
	}

	check, err := f.svc.VerifyLedger(context.Background(), inkID)
	require.NoError(t, err)
	assert.False(t, check.Consistent) // seeded stock has no opening movement
	assert.True(t, check.Replayed.Equal(decimal.NewFromInt(-10)))
}

func TestConsumeSnapshotsUnitCost(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-RED", 20, 2, 5)

	usages, _, err := f.svc.ConsumeInTx(context.Background(), nil, 1,
		[]model.MaterialLine{{MaterialID: id, Quantity: decimal.NewFromInt(2)}}, 9)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.True(t, usages[0].UnitCost.Equal(decimal.NewFromInt(5)))
	assert.True(t, usages[0].Subtotal.Equal(decimal.NewFromInt(10)))
}

func TestConsumeInsufficientStock(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-BLK", 3, 1, 3)

	_, _, err := f.svc.ConsumeInTx(context.Background(), nil, 1,
		[]model.MaterialLine{{MaterialID: id, Quantity: decimal.NewFromInt(8)}}, 9)

	var stockErr *apperrors.InsufficientStockError
	require.True(t, goerrors.As(err, &stockErr))
	assert.Equal(t, id, stockErr.MaterialID)
	assert.True(t, stockErr.Deficit.Equal(decimal.NewFromInt(5)))

	// Rejected before any write: no movement, no usage, stock untouched.
	assert.Empty(t, f.movements.Movements)
	assert.Empty(t, f.usages.Usages)
	material, err := f.materials.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, material.OnHand.Equal(decimal.NewFromInt(3)))
}

func TestConsumeLaterLineFailureRollsBackEarlierLines(t *testing.T) {
	f := newFixture(t)
	inkID := f.seedMaterial("INK-BLK", 100, 10, 3)
	needleID := f.seedMaterial("NDL-RL3", 2, 1, 2)

	// Lines process in material-id order, so the ink line succeeds and
	// writes its movement before the needle line comes up short.
	tx := &servicetest.TxManager{Repos: []servicetest.Restorer{f.materials, f.movements, f.usages, f.outbox}}
	err := tx.WithTx(context.Background(), func(sqlTx *sqlx.Tx) error {
		_, _, consumeErr := f.svc.ConsumeInTx(context.Background(), sqlTx, 1, []model.MaterialLine{
			{MaterialID: inkID, Quantity: decimal.NewFromInt(95)},
			{MaterialID: needleID, Quantity: decimal.NewFromInt(9)},
		}, 9)
		return consumeErr
	})

	var stockErr *apperrors.InsufficientStockError
	require.True(t, goerrors.As(err, &stockErr))
	assert.Equal(t, needleID, stockErr.MaterialID)
	assert.True(t, stockErr.Deficit.Equal(decimal.NewFromInt(7)))

	// All-or-nothing: the ink line's writes rolled back with the batch.
	ink, err := f.materials.Get(context.Background(), inkID)
	require.NoError(t, err)
	assert.True(t, ink.OnHand.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, f.movements.Movements)
	assert.Empty(t, f.usages.Usages)
	assert.Empty(t, f.outbox.Events)
}

func TestConsumeRejectsInactiveMaterial(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-OLD", 50, 5, 3)
	require.NoError(t, f.materials.Deactivate(context.Background(), id))

	_, _, err := f.svc.ConsumeInTx(context.Background(), nil, 1,
		[]model.MaterialLine{{MaterialID: id, Quantity: decimal.NewFromInt(1)}}, 9)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestConsumeRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-BLK", 50, 5, 3)

	_, _, err := f.svc.ConsumeInTx(context.Background(), nil, 1,
		[]model.MaterialLine{{MaterialID: id, Quantity: decimal.NewFromInt(-1)}}, 9)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestConsumeRequiresActor(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-BLK", 50, 5, 3)

	_, _, err := f.svc.ConsumeInTx(context.Background(), nil, 1,
		[]model.MaterialLine{{MaterialID: id, Quantity: decimal.NewFromInt(1)}}, 0)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestConsumeEmitsLowStockEvent(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-BLK", 12, 10, 3)

	_, _, err := f.svc.ConsumeInTx(context.Background(), nil, 1,
		[]model.MaterialLine{{MaterialID: id, Quantity: decimal.NewFromInt(5)}}, 9)
	require.NoError(t, err)

	require.Len(t, f.outbox.Events, 1)
	assert.Equal(t, model.EventStockLow, f.outbox.Events[0].EventType)
	assert.JSONEq(t, `{"material_id":1,"code":"INK-BLK","name":"INK-BLK","on_hand":"7","threshold":"10"}`,
		string(f.outbox.Events[0].Payload))
}

func TestConsumeAboveThresholdEmitsNothing(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-BLK", 100, 10, 3)

	_, _, err := f.svc.ConsumeInTx(context.Background(), nil, 1,
		[]model.MaterialLine{{MaterialID: id, Quantity: decimal.NewFromInt(5)}}, 9)
	require.NoError(t, err)
	assert.Empty(t, f.outbox.Events)
}

func TestRecordAdjustment(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-BLK", 10, 2, 3)

	movement, err := f.svc.RecordAdjustment(context.Background(), id, decimal.NewFromInt(-4), 9, "  spilled bottle  ")
	require.NoError(t, err)
	assert.Equal(t, model.MovementKindAdjustment, movement.Kind)
	require.NotNil(t, movement.Notes)
	assert.Equal(t, "spilled bottle", *movement.Notes)

	material, err := f.materials.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, material.OnHand.Equal(decimal.NewFromInt(6)))
}

func TestRecordAdjustmentCannotDriveStockNegative(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-BLK", 10, 2, 3)

	_, err := f.svc.RecordAdjustment(context.Background(), id, decimal.NewFromInt(-12), 9, "")

	var stockErr *apperrors.InsufficientStockError
	require.True(t, goerrors.As(err, &stockErr))
	assert.True(t, stockErr.Deficit.Equal(decimal.NewFromInt(2)))
	assert.Empty(t, f.movements.Movements)
}

func TestRecordAdjustmentRejectsZeroQuantity(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("INK-BLK", 10, 2, 3)

	_, err := f.svc.RecordAdjustment(context.Background(), id, decimal.Zero, 9, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRecordUsage(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("GLV-NTR", 30, 5, 1)

	entry := &model.SessionEntry{AppointmentID: 1, SequenceNumber: 1, Status: model.SessionStatusInProgress}
	require.NoError(t, f.sessions.Insert(context.Background(), nil, entry))

	usage, err := f.svc.RecordUsage(context.Background(), &model.RecordUsageRequest{
		SessionID:   entry.ID,
		MaterialID:  id,
		Quantity:    decimal.NewFromInt(2),
		Notes:       "extra gloves",
		PerformedBy: 9,
	})
	require.NoError(t, err)
	assert.True(t, usage.Subtotal.Equal(decimal.NewFromInt(2)))
	require.NotNil(t, usage.Notes)
	assert.Equal(t, "extra gloves", *usage.Notes)

	material, err := f.materials.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, material.OnHand.Equal(decimal.NewFromInt(28)))
}

func TestRecordUsageUnknownSession(t *testing.T) {
	f := newFixture(t)
	id := f.seedMaterial("GLV-NTR", 30, 5, 1)

	_, err := f.svc.RecordUsage(context.Background(), &model.RecordUsageRequest{
		SessionID:   99,
		MaterialID:  id,
		Quantity:    decimal.NewFromInt(2),
		PerformedBy: 9,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
