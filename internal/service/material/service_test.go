package material

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/service/servicetest"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

func TestCreateDefaultsUnit(t *testing.T) {
	svc := NewService(servicetest.NewMaterialRepo())

	created, err := svc.Create(context.Background(), &model.CreateMaterialRequest{
		Code:     "  INK-BLK ",
		Name:     "black ink",
		OnHand:   decimal.NewFromInt(100),
		UnitCost: decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	assert.Equal(t, "INK-BLK", created.Code)
	assert.Equal(t, "unit", created.Unit)
	assert.True(t, created.Active)
}

func TestCreateRejectsNegatives(t *testing.T) {
	svc := NewService(servicetest.NewMaterialRepo())

	_, err := svc.Create(context.Background(), &model.CreateMaterialRequest{
		Code: "INK-BLK", Name: "black ink", OnHand: decimal.NewFromInt(-1),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.Create(context.Background(), &model.CreateMaterialRequest{
		Code: "INK-BLK", Name: "black ink", UnitCost: decimal.NewFromInt(-3),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	repo := servicetest.NewMaterialRepo()
	id := repo.Add(&model.Material{Code: "INK-BLK", Name: "black ink", Unit: "ml", Active: true})
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), id, &model.MaterialPatch{})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	name := "black ink XL"
	updated, err := svc.Update(context.Background(), id, &model.MaterialPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "black ink XL", updated.Name)
}
