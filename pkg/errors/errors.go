package errors

import (
	"database/sql"
	goerrors "errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrForeignKey
	ErrInvalidTransition
	ErrInsufficientStock
	ErrDuplicate
	ErrConflict
	ErrUnauthorized
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to an HTTP status code.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation, ErrForeignKey, ErrInvalidTransition:
		return http.StatusBadRequest
	case ErrInsufficientStock, ErrDuplicate, ErrConflict:
		return http.StatusConflict
	case ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// InsufficientStockError carries the material and deficit of a rejected
// consumption so handlers can surface them to the caller.
type InsufficientStockError struct {
	AppError
	MaterialID int64           `json:"material_id"`
	Deficit    decimal.Decimal `json:"deficit"`
}

func (e *InsufficientStockError) Unwrap() error {
	return &e.AppError
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func ForeignKey(message string, err error) *AppError {
	return &AppError{
		Code:    ErrForeignKey,
		Message: message,
		Err:     err,
	}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:    ErrInvalidTransition,
		Message: fmt.Sprintf("invalid lifecycle transition from %q to %q", from, to),
	}
}

func InsufficientStock(materialID int64, deficit decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		AppError: AppError{
			Code:    ErrInsufficientStock,
			Message: "insufficient stock",
			Detail:  fmt.Sprintf("material %d is short by %s", materialID, deficit.String()),
		},
		MaterialID: materialID,
		Deficit:    deficit,
	}
}

func Duplicate(message string, err error) *AppError {
	return &AppError{
		Code:    ErrDuplicate,
		Message: message,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Postgres SQLSTATE codes the store surfaces for business-rule violations.
const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
	pqInvalidTextEnum     = "22P02"
	pqUndefinedFunction   = "42883"
)

// FromStore classifies a raw database error into the application taxonomy.
// sql.ErrNoRows becomes a NotFound for the given resource; pq constraint
// violations map to their 4xx-class equivalents; everything else is internal.
func FromStore(resource string, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.Is(err, sql.ErrNoRows) {
		return NotFound(resource, err)
	}
	var pqErr *pq.Error
	if goerrors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqForeignKeyViolation:
			return ForeignKey(fmt.Sprintf("referenced entity for %s does not exist", resource), err)
		case pqUniqueViolation:
			return Duplicate(fmt.Sprintf("%s already exists", resource), err)
		case pqInvalidTextEnum, pqUndefinedFunction:
			return Validation(fmt.Sprintf("invalid enum value for %s", resource))
		}
	}
	return Internal(err)
}

// Is reports whether err carries the given application error code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if goerrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
