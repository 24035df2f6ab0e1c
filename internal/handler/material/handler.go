package material

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/service/inventory"
	"github.com/WeroML/back-bd-tattoo2/internal/service/material"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/httputil"
	"github.com/WeroML/back-bd-tattoo2/pkg/validator"
)

type Handler struct {
	service   *material.Service
	inventory *inventory.Service
	validator *validator.Validator
}

func NewHandler(service *material.Service, inv *inventory.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, inventory: inv, validator: v}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		httputil.RespondWithError(c, apperrors.Validation("invalid code"))
		return
	}

	found, err := h.service.GetByCode(c.Request.Context(), code)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) List(c *gin.Context) {
	materials, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, materials)
}

func (h *Handler) LowStock(c *gin.Context) {
	materials, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, materials)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var patch model.MaterialPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &patch)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"id": id, "active": false})
}

type adjustmentRequest struct {
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	PerformedBy int64           `json:"performed_by" validate:"required"`
	Notes       string          `json:"notes"`
}

// Adjust books a manual stock correction through the ledger.
func (h *Handler) Adjust(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req adjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	movement, err := h.inventory.RecordAdjustment(c.Request.Context(), id, req.Quantity, req.PerformedBy, req.Notes)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, movement)
}

// Movements lists ledger rows, optionally filtered.
func (h *Handler) Movements(c *gin.Context) {
	filters := &model.MovementFilters{}
	if v := c.Query("material_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid material_id"))
			return
		}
		filters.MaterialID = &id
	}
	if v := c.Query("kind"); v != "" {
		kind := model.MovementKind(v)
		if !kind.Valid() {
			httputil.RespondWithError(c, apperrors.Validation("invalid movement kind"))
			return
		}
		filters.Kind = &kind
	}
	if v := c.Query("purchase_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid purchase_id"))
			return
		}
		filters.PurchaseID = &id
	}
	if v := c.Query("session_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid session_id"))
			return
		}
		filters.SessionID = &id
	}

	movements, err := h.inventory.ListMovements(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, movements)
}

// VerifyLedger replays a material's ledger against its on-hand counter.
func (h *Handler) VerifyLedger(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	check, err := h.inventory.VerifyLedger(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, check)
}
