package httputil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, rec
}

func TestRespondWithErrorInsufficientStock(t *testing.T) {
	c, rec := testContext(t)

	RespondWithError(c, errors.InsufficientStock(7, decimal.NewFromInt(3)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t,
		`{"error":"InsufficientStock","detail":"material 7 is short by 3","material":7,"deficit":"3"}`,
		rec.Body.String())
}

func TestRespondWithErrorWrappedInsufficientStock(t *testing.T) {
	c, rec := testContext(t)

	wrapped := fmt.Errorf("start appointment: %w", errors.InsufficientStock(2, decimal.NewFromInt(1)))
	RespondWithError(c, wrapped)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"InsufficientStock"`)
}

func TestRespondWithErrorAppError(t *testing.T) {
	c, rec := testContext(t)

	RespondWithError(c, errors.NotFound("appointment", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"appointment not found"}`, rec.Body.String())
}

func TestRespondWithErrorInternalHidesCause(t *testing.T) {
	c, rec := testContext(t)

	RespondWithError(c, errors.Internal(fmt.Errorf("password=hunter2 leaked")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestParamID(t *testing.T) {
	c, _ := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "12"}}

	id, err := ParamID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, err = ParamID(c, "id")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, err = ParamID(c, "id")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}
