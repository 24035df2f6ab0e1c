package supplier

import (
	"context"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

type Service struct {
	suppliers repository.SupplierRepository
}

func NewService(suppliers repository.SupplierRepository) *Service {
	return &Service{suppliers: suppliers}
}

func (s *Service) Create(ctx context.Context, supplier *model.Supplier) (*model.Supplier, error) {
	if supplier.Name == "" {
		return nil, apperrors.Validation("supplier name is required")
	}
	supplier.Active = true
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Supplier, error) {
	return s.suppliers.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, patch *model.SupplierPatch) (*model.Supplier, error) {
	if patch.Empty() {
		return nil, apperrors.Validation("no updatable fields supplied")
	}
	return s.suppliers.ApplyPatch(ctx, id, patch)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.suppliers.Deactivate(ctx, id)
}
