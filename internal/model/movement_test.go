package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMovementKindSigned(t *testing.T) {
	qty := decimal.NewFromInt(5)

	assert.True(t, MovementKindPurchase.Signed(qty).Equal(decimal.NewFromInt(5)))
	assert.True(t, MovementKindAdjustment.Signed(qty).Equal(decimal.NewFromInt(5)))
	assert.True(t, MovementKindConsumption.Signed(qty).Equal(decimal.NewFromInt(-5)))
}

func TestMovementKindValid(t *testing.T) {
	assert.True(t, MovementKindPurchase.Valid())
	assert.True(t, MovementKindConsumption.Valid())
	assert.True(t, MovementKindAdjustment.Valid())
	assert.False(t, MovementKind("transfer").Valid())
}

func TestMovementFiltersEmpty(t *testing.T) {
	assert.True(t, (&MovementFilters{}).Empty())

	id := int64(3)
	assert.False(t, (&MovementFilters{MaterialID: &id}).Empty())
}
