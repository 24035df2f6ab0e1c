package material

import (
	"context"
	"strings"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

type Service struct {
	materials repository.MaterialRepository
}

func NewService(materials repository.MaterialRepository) *Service {
	return &Service{materials: materials}
}

func (s *Service) Create(ctx context.Context, req *model.CreateMaterialRequest) (*model.Material, error) {
	if req.OnHand.Sign() < 0 {
		return nil, apperrors.Validation("initial stock must not be negative")
	}
	if req.UnitCost.Sign() < 0 {
		return nil, apperrors.Validation("unit cost must not be negative")
	}

	material := &model.Material{
		Code:             strings.TrimSpace(req.Code),
		Name:             strings.TrimSpace(req.Name),
		Unit:             strings.TrimSpace(req.Unit),
		OnHand:           req.OnHand,
		ReorderThreshold: req.ReorderThreshold,
		UnitCost:         req.UnitCost,
		Active:           true,
	}
	if material.Unit == "" {
		material.Unit = "unit"
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		material.Description = &desc
	}

	if err := s.materials.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Material, error) {
	return s.materials.Get(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*model.Material, error) {
	return s.materials.GetByCode(ctx, code)
}

func (s *Service) List(ctx context.Context) ([]*model.Material, error) {
	return s.materials.List(ctx)
}

// LowStock lists materials at or below their reorder threshold.
func (s *Service) LowStock(ctx context.Context) ([]*model.Material, error) {
	return s.materials.LowStock(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, patch *model.MaterialPatch) (*model.Material, error) {
	if patch.Empty() {
		return nil, apperrors.Validation("no updatable fields supplied")
	}
	return s.materials.ApplyPatch(ctx, id, patch)
}

// Deactivate retires a material from future movements without touching its
// ledger history.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.materials.Deactivate(ctx, id)
}
