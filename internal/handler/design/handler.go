package design

import (
	"github.com/gin-gonic/gin"

	"github.com/WeroML/back-bd-tattoo2/internal/service/design"
	"github.com/WeroML/back-bd-tattoo2/pkg/httputil"
)

type Handler struct {
	service *design.Service
}

func NewHandler(service *design.Service) *Handler {
	return &Handler{service: service}
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

func (h *Handler) List(c *gin.Context) {
	designs, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, designs)
}

func (h *Handler) ListAssignments(c *gin.Context) {
	links, err := h.service.ListAssignments(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, links)
}
