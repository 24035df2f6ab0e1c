package report

import (
	"github.com/gin-gonic/gin"

	"github.com/WeroML/back-bd-tattoo2/internal/service/report"
	"github.com/WeroML/back-bd-tattoo2/pkg/httputil"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) AppointmentSummary(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	summary, err := h.service.AppointmentSummary(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, summary)
}

func (h *Handler) Suppliers(c *gin.Context) {
	rows, err := h.service.SupplierReport(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rows)
}
