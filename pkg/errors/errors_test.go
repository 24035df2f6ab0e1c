package errors

import (
	"database/sql"
	goerrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrValidation, http.StatusBadRequest},
		{ErrForeignKey, http.StatusBadRequest},
		{ErrInvalidTransition, http.StatusBadRequest},
		{ErrInsufficientStock, http.StatusConflict},
		{ErrDuplicate, http.StatusConflict},
		{ErrConflict, http.StatusConflict},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		err := &AppError{Code: tt.code}
		assert.Equal(t, tt.status, err.HTTPStatus())
	}
}

func TestFromStore(t *testing.T) {
	assert.NoError(t, FromStore("client", nil))

	err := FromStore("client", sql.ErrNoRows)
	var appErr *AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, ErrNotFound, appErr.Code)
	assert.Equal(t, "client not found", appErr.Message)

	err = FromStore("appointment", &pq.Error{Code: "23503"})
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, ErrForeignKey, appErr.Code)

	err = FromStore("material", &pq.Error{Code: "23505"})
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, ErrDuplicate, appErr.Code)

	err = FromStore("session", &pq.Error{Code: "22P02"})
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, ErrValidation, appErr.Code)

	err = FromStore("session", fmt.Errorf("connection reset"))
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, ErrInternal, appErr.Code)
}

func TestFromStoreWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("get client: %w", sql.ErrNoRows)

	var appErr *AppError
	require.True(t, goerrors.As(FromStore("client", wrapped), &appErr))
	assert.Equal(t, ErrNotFound, appErr.Code)
}

func TestInsufficientStockError(t *testing.T) {
	err := InsufficientStock(7, decimal.NewFromInt(3))

	assert.Equal(t, http.StatusConflict, err.HTTPStatus())
	assert.Equal(t, int64(7), err.MaterialID)
	assert.True(t, err.Deficit.Equal(decimal.NewFromInt(3)))

	// The embedded AppError must be reachable through the unwrap chain so
	// generic handlers can classify it.
	var appErr *AppError
	require.True(t, goerrors.As(error(err), &appErr))
	assert.Equal(t, ErrInsufficientStock, appErr.Code)

	var stockErr *InsufficientStockError
	wrapped := fmt.Errorf("consume: %w", err)
	require.True(t, goerrors.As(wrapped, &stockErr))
	assert.Equal(t, int64(7), stockErr.MaterialID)
}

func TestIs(t *testing.T) {
	assert.True(t, Is(NotFound("client", nil), ErrNotFound))
	assert.True(t, Is(fmt.Errorf("outer: %w", Conflict("busy")), ErrConflict))
	assert.False(t, Is(fmt.Errorf("plain"), ErrConflict))
	assert.False(t, Is(nil, ErrNotFound))
}
