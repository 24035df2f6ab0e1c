package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
	"github.com/WeroML/back-bd-tattoo2/internal/service/event"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
	"github.com/WeroML/back-bd-tattoo2/pkg/metrics"
)

// Service owns the inventory ledger. Every stock change is one append-only
// movement row plus an atomic adjustment of the material's on-hand counter,
// both inside the caller's transaction.
type Service struct {
	tx        repository.TxManager
	materials repository.MaterialRepository
	movements repository.MovementRepository
	usages    repository.UsageRepository
	sessions  repository.SessionRepository
	emitter   *event.Emitter
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(
	tx repository.TxManager,
	materials repository.MaterialRepository,
	movements repository.MovementRepository,
	usages repository.UsageRepository,
	sessions repository.SessionRepository,
	emitter *event.Emitter,
	m *metrics.Metrics,
	l *logger.Logger,
) *Service {
	return &Service{
		tx:        tx,
		materials: materials,
		movements: movements,
		usages:    usages,
		sessions:  sessions,
		emitter:   emitter,
		metrics:   m,
		logger:    l,
	}
}

type lowStockPayload struct {
	MaterialID int64           `json:"material_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Threshold  decimal.Decimal `json:"threshold"`
}

// ConsumeInTx applies a set of consumption lines against locked stock. The
// whole set passes or the whole set fails: the first insufficient material
// aborts with the deficit and the caller's transaction rolls back, leaving
// every counter untouched.
func (s *Service) ConsumeInTx(ctx context.Context, tx *sqlx.Tx, sessionID int64, lines []model.MaterialLine, performedBy int64) ([]*model.MaterialUsage, decimal.Decimal, error) {
	totalCost := decimal.Zero
	if len(lines) == 0 {
		return nil, totalCost, nil
	}
	if performedBy == 0 {
		return nil, totalCost, apperrors.Validation("performing user is required for stock movements")
	}

	// Lock rows in material-id order so concurrent consumers cannot
	// deadlock against each other.
	ordered := make([]model.MaterialLine, len(lines))
	copy(ordered, lines)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].MaterialID < ordered[j].MaterialID })

	usages := make([]*model.MaterialUsage, 0, len(ordered))
	for _, line := range ordered {
		if line.Quantity.Sign() <= 0 {
			return nil, totalCost, apperrors.Validation("consumption quantity must be positive")
		}

		material, err := s.materials.GetForUpdate(ctx, tx, line.MaterialID)
		if err != nil {
			return nil, totalCost, err
		}
		if !material.Active {
			return nil, totalCost, apperrors.Validation("material " + material.Code + " is inactive")
		}
		if material.OnHand.LessThan(line.Quantity) {
			s.metrics.StockRejections.Inc()
			deficit := line.Quantity.Sub(material.OnHand)
			return nil, totalCost, apperrors.InsufficientStock(material.ID, deficit)
		}

		if err := s.applyMovementInTx(ctx, tx, material, &model.InventoryMovement{
			MaterialID:  material.ID,
			Kind:        model.MovementKindConsumption,
			Quantity:    line.Quantity,
			SessionID:   &sessionID,
			PerformedBy: performedBy,
		}); err != nil {
			return nil, totalCost, err
		}

		usage := &model.MaterialUsage{
			SessionID:  sessionID,
			MaterialID: material.ID,
			Quantity:   line.Quantity,
			UnitCost:   material.UnitCost,
		}
		if err := s.usages.Insert(ctx, tx, usage); err != nil {
			return nil, totalCost, err
		}
		usages = append(usages, usage)
		totalCost = totalCost.Add(usage.Subtotal)
	}
	return usages, totalCost, nil
}

// ReceiveLineInTx books one received purchase line: a purchase movement plus
// the material's last-price snapshot.
func (s *Service) ReceiveLineInTx(ctx context.Context, tx *sqlx.Tx, line *model.PurchaseLine, supplierID int64, performedBy int64) error {
	material, err := s.materials.GetForUpdate(ctx, tx, line.MaterialID)
	if err != nil {
		return err
	}
	if err := s.applyMovementInTx(ctx, tx, material, &model.InventoryMovement{
		MaterialID:  material.ID,
		Kind:        model.MovementKindPurchase,
		Quantity:    line.Quantity,
		PurchaseID:  &line.PurchaseID,
		PerformedBy: performedBy,
	}); err != nil {
		return err
	}
	return s.materials.SetLastPurchase(ctx, tx, material.ID, line.UnitPrice, &supplierID)
}

// applyMovementInTx writes the ledger row and moves the on-hand counter by
// the movement's signed quantity. The material row must already be locked.
func (s *Service) applyMovementInTx(ctx context.Context, tx *sqlx.Tx, material *model.Material, movement *model.InventoryMovement) error {
	if err := s.movements.Insert(ctx, tx, movement); err != nil {
		return err
	}
	delta := movement.Kind.Signed(movement.Quantity)
	if err := s.materials.AdjustOnHand(ctx, tx, material.ID, delta); err != nil {
		return err
	}

	after := material.OnHand.Add(delta)
	if delta.Sign() < 0 && after.LessThanOrEqual(material.ReorderThreshold) {
		if err := s.emitter.Emit(ctx, tx, model.EventStockLow, lowStockPayload{
			MaterialID: material.ID,
			Code:       material.Code,
			Name:       material.Name,
			OnHand:     after,
			Threshold:  material.ReorderThreshold,
		}); err != nil {
			return err
		}
	}
	return nil
}

// RecordAdjustment books a manual stock correction in its own transaction.
func (s *Service) RecordAdjustment(ctx context.Context, materialID int64, quantity decimal.Decimal, performedBy int64, notes string) (*model.InventoryMovement, error) {
	if performedBy == 0 {
		return nil, apperrors.Validation("performing user is required for stock movements")
	}
	if quantity.Sign() == 0 {
		return nil, apperrors.Validation("adjustment quantity must be non-zero")
	}

	movement := &model.InventoryMovement{
		MaterialID:  materialID,
		Kind:        model.MovementKindAdjustment,
		Quantity:    quantity,
		PerformedBy: performedBy,
	}
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		movement.Notes = &trimmed
	}

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		material, err := s.materials.GetForUpdate(ctx, tx, materialID)
		if err != nil {
			return err
		}
		if material.OnHand.Add(quantity).Sign() < 0 {
			deficit := quantity.Neg().Sub(material.OnHand)
			s.metrics.StockRejections.Inc()
			return apperrors.InsufficientStock(material.ID, deficit)
		}
		return s.applyMovementInTx(ctx, tx, material, movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// RecordUsage books a single out-of-band consumption against an existing
// session entry, the direct write path of the session-materials endpoint.
func (s *Service) RecordUsage(ctx context.Context, req *model.RecordUsageRequest) (*model.MaterialUsage, error) {
	if req.PerformedBy == 0 {
		return nil, apperrors.Validation("performing user is required for stock movements")
	}
	if req.Quantity.Sign() <= 0 {
		return nil, apperrors.Validation("consumption quantity must be positive")
	}

	var usage *model.MaterialUsage
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.sessions.Get(ctx, tx, req.SessionID); err != nil {
			return err
		}
		material, err := s.materials.GetForUpdate(ctx, tx, req.MaterialID)
		if err != nil {
			return err
		}
		if !material.Active {
			return apperrors.Validation("material " + material.Code + " is inactive")
		}
		if material.OnHand.LessThan(req.Quantity) {
			s.metrics.StockRejections.Inc()
			return apperrors.InsufficientStock(material.ID, req.Quantity.Sub(material.OnHand))
		}

		if err := s.applyMovementInTx(ctx, tx, material, &model.InventoryMovement{
			MaterialID:  material.ID,
			Kind:        model.MovementKindConsumption,
			Quantity:    req.Quantity,
			SessionID:   &req.SessionID,
			PerformedBy: req.PerformedBy,
		}); err != nil {
			return err
		}

		usage = &model.MaterialUsage{
			SessionID:  req.SessionID,
			MaterialID: material.ID,
			Quantity:   req.Quantity,
			UnitCost:   material.UnitCost,
		}
		if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
			usage.Notes = &trimmed
		}
		return s.usages.Insert(ctx, tx, usage)
	})
	if err != nil {
		return nil, err
	}
	return usage, nil
}

func (s *Service) ListMovements(ctx context.Context, filters *model.MovementFilters) ([]*model.MovementView, error) {
	return s.movements.List(ctx, filters)
}

func (s *Service) ListUsage(ctx context.Context, filters *model.UsageFilters) ([]*model.MaterialUsageView, error) {
	return s.usages.List(ctx, filters)
}

func (s *Service) UsageByAppointment(ctx context.Context, appointmentID int64) ([]*model.MaterialUsageView, error) {
	return s.usages.ListByAppointment(ctx, appointmentID)
}

// LedgerCheck replays a material's full ledger and compares the result with
// the materialized counter. Audit tooling only.
type LedgerCheck struct {
	MaterialID int64           `json:"material_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Replayed   decimal.Decimal `json:"replayed"`
	Consistent bool            `json:"consistent"`
}

func (s *Service) VerifyLedger(ctx context.Context, materialID int64) (*LedgerCheck, error) {
	material, err := s.materials.Get(ctx, materialID)
	if err != nil {
		return nil, err
	}
	replayed, err := s.movements.ReplayOnHand(ctx, materialID)
	if err != nil {
		return nil, err
	}
	check := &LedgerCheck{
		MaterialID: materialID,
		OnHand:     material.OnHand,
		Replayed:   replayed,
		Consistent: material.OnHand.Equal(replayed),
	}
	if !check.Consistent {
		s.logger.Warn("ledger drift detected",
			"material_id", materialID,
			"on_hand", material.OnHand.String(),
			"replayed", replayed.String(),
		)
	}
	return check, nil
}
