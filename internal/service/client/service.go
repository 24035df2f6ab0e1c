package client

import (
	"context"
	"strings"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

type Service struct {
	clients repository.ClientRepository
}

func NewService(clients repository.ClientRepository) *Service {
	return &Service{clients: clients}
}

func (s *Service) Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	client := &model.Client{
		FirstName: strings.TrimSpace(req.FirstName),
	}
	if client.FirstName == "" {
		return nil, apperrors.Validation("first name is required")
	}
	setOptional(&client.LastName, req.LastName)
	setOptional(&client.Email, req.Email)
	setOptional(&client.Phone, req.Phone)
	setOptional(&client.Allergies, req.Allergies)
	setOptional(&client.MedicalNotes, req.MedicalNotes)
	client.BirthDate = req.BirthDate

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Client, error) {
	return s.clients.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Client, error) {
	return s.clients.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, patch *model.ClientPatch) (*model.Client, error) {
	if patch.Empty() {
		return nil, apperrors.Validation("no updatable fields supplied")
	}
	return s.clients.ApplyPatch(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.clients.Delete(ctx, id)
}

func setOptional(dst **string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = &trimmed
	}
}
