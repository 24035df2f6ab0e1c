package design

import (
	"context"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
)

// Service reads the design catalog. Linking a design into an appointment is
// a lifecycle operation and lives with the orchestrator.
type Service struct {
	designs repository.DesignRepository
}

func NewService(designs repository.DesignRepository) *Service {
	return &Service{designs: designs}
}

func (s *Service) Get(ctx context.Context, id int64) (*model.DesignView, error) {
	return s.designs.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.DesignView, error) {
	return s.designs.List(ctx)
}

func (s *Service) ListAssignments(ctx context.Context) ([]*model.AppointmentDesign, error) {
	return s.designs.ListAssignments(ctx)
}
