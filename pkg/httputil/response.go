package httputil

import (
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error    string           `json:"error"`
	Detail   string           `json:"detail,omitempty"`
	Material *int64           `json:"material,omitempty"`
	Deficit  *decimal.Decimal `json:"deficit,omitempty"`
}

// RespondWithError translates an application error into its HTTP response.
// Internal errors are logged with their cause and surfaced with a generic
// message only.
func RespondWithError(c *gin.Context, err error) {
	var stockErr *errors.InsufficientStockError
	if goerrors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, ErrorBody{
			Error:    "InsufficientStock",
			Detail:   stockErr.Detail,
			Material: &stockErr.MaterialID,
			Deficit:  &stockErr.Deficit,
		})
		return
	}

	var appErr *errors.AppError
	if goerrors.As(err, &appErr) {
		body := ErrorBody{Error: appErr.Message, Detail: appErr.Detail}
		if appErr.Code == errors.ErrInternal {
			log.Error().Err(appErr.Err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("internal error")
			body.Detail = ""
		}
		c.JSON(appErr.HTTPStatus(), body)
		return
	}

	log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("unclassified error")
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: "internal server error"})
}

// ParamID parses a numeric path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Validation("invalid " + name)
	}
	return id, nil
}

// RespondWithSuccess sends data with a 200.
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondWithCreated sends data with a 201.
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}
