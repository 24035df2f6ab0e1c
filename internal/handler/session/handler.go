package session

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/service/inventory"
	"github.com/WeroML/back-bd-tattoo2/internal/service/session"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/httputil"
	"github.com/WeroML/back-bd-tattoo2/pkg/validator"
)

type Handler struct {
	engine    *session.Engine
	inventory *inventory.Service
	validator *validator.Validator
}

func NewHandler(engine *session.Engine, inv *inventory.Service, v *validator.Validator) *Handler {
	return &Handler{engine: engine, inventory: inv, validator: v}
}

// Append records one lifecycle transition as a new log entry.
func (h *Handler) Append(c *gin.Context) {
	var req model.AppendSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	entry, err := h.engine.Append(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, entry)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	entry, err := h.engine.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, entry)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.SessionFilters{}
	hasFilter := false

	if v := c.Query("appointment_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid appointment_id"))
			return
		}
		filters.AppointmentID = &id
		hasFilter = true
	}
	if v := c.Query("artist_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid artist_id"))
			return
		}
		filters.ArtistID = &id
		hasFilter = true
	}
	if v := c.Query("client_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid client_id"))
			return
		}
		filters.ClientID = &id
		hasFilter = true
	}
	if v := c.Query("status"); v != "" {
		status := model.SessionStatus(v)
		if !status.Valid() {
			httputil.RespondWithError(c, apperrors.Validation("invalid status"))
			return
		}
		filters.Status = &status
		hasFilter = true
	}

	var entries []*model.SessionEntry
	var err error
	if hasFilter {
		entries, err = h.engine.Search(c.Request.Context(), filters)
	} else {
		limit := 100
		if v := c.Query("limit"); v != "" {
			if parsed, perr := strconv.Atoi(v); perr == nil && parsed > 0 {
				limit = parsed
			}
		}
		entries, err = h.engine.List(c.Request.Context(), limit)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, entries)
}

// RecordMaterial books a consumption against an existing session entry.
func (h *Handler) RecordMaterial(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}
	req.SessionID = id
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	usage, err := h.inventory.RecordUsage(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, usage)
}

// ListMaterials returns the consumptions booked against one session entry.
func (h *Handler) ListMaterials(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	usages, err := h.inventory.ListUsage(c.Request.Context(), &model.UsageFilters{SessionID: &id})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, usages)
}
