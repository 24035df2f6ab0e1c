package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Route registration only stores handler values, so zero-value handlers are
// enough to assert the surface.
func TestRegisteredRoutes(t *testing.T) {
	r := New(nil, Handlers{}, Config{})

	registered := make(map[string]bool)
	for _, route := range r.Engine().Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"GET /health/live",
		"GET /health/ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/appointments",
		"GET /api/v1/appointments/:id",
		"PUT /api/v1/appointments/:id",
		"PATCH /api/v1/appointments/:id",
		"POST /api/v1/appointments/:id/start",
		"POST /api/v1/appointments/:id/complete",
		"POST /api/v1/appointments/:id/cancel",
		"GET /api/v1/appointments/:id/history",
		"GET /api/v1/appointments/:id/materials",
		"POST /api/v1/payments",
		"GET /api/v1/payments",
		"POST /api/v1/sessions",
		"POST /api/v1/sessions/:id/materials",
		"GET /api/v1/materials/low-stock",
		"GET /api/v1/materials/code/:code",
		"POST /api/v1/materials/:id/adjustments",
		"GET /api/v1/materials/:id/ledger",
		"GET /api/v1/movements",
		"POST /api/v1/purchases/:id/receive",
		"GET /api/v1/reports/appointments/:id",
		"GET /api/v1/reports/suppliers",
	}
	for _, route := range want {
		assert.True(t, registered[route], route)
	}
}
