// Package apperror is the error type every API response is built from.
// Codes are stable and machine-readable; messages are for people.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeValidation = "VALIDATION_ERROR"

	// 422: a request that is well-formed but breaks a sales rule
	CodeBusinessRule    = "BUSINESS_RULE_VIOLATION"
	CodeDocumentPosted  = "DOCUMENT_ALREADY_POSTED"
	CodeJournalNotSale  = "JOURNAL_NOT_SALE"
	CodeCompanyMismatch = "COMPANY_MISMATCH"
	CodeMoveTypeNotSale = "MOVE_TYPE_NOT_SALE"

	CodeMailTemplateMissing = "MAIL_TEMPLATE_MISSING"
	CodeMailDelivery        = "MAIL_DELIVERY_FAILED"

	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"

	CodeConflict               = "CONFLICT"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeDuplicate              = "DUPLICATE_ENTRY"
	CodeIdempotency            = "IDEMPOTENCY_CONFLICT"
)

// AppError carries a code, a message, optional details and the HTTP status
// the error middleware answers with.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`

	// Err is logged, never serialized
	Err error `json:"-"`
}

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail sets details[key] and returns e for chaining.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause attaches the underlying error, which is logged but never
// serialized.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// NewValidation is a 400 for malformed or invalid input.
func NewValidation(message string) *AppError {
	return newError(http.StatusBadRequest, CodeValidation, message)
}

// NewNotFound is a 404 naming the entity and the looked up key.
func NewNotFound(entity string, key any) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, entity+" not found").
		WithDetail("entity", entity).
		WithDetail("id", key)
}

// NewBusinessRule is a 422 with a specific code.
func NewBusinessRule(code, message string) *AppError {
	return newError(http.StatusUnprocessableEntity, code, message)
}

// NewMailTemplateMissing is returned by strict sends when the sale type
// carries no template for the requested message.
func NewMailTemplateMissing(model string, recordID any) *AppError {
	return newError(http.StatusConflict, CodeMailTemplateMissing, "No email template configured for this document type").
		WithDetail("model", model).
		WithDetail("id", recordID)
}

// NewMailDelivery wraps a gateway failure surfaced to the caller.
func NewMailDelivery(templateID string, err error) *AppError {
	return newError(http.StatusBadGateway, CodeMailDelivery, "Email could not be delivered").
		WithDetail("template_id", templateID).
		WithCause(err)
}

// NewConcurrentModification reports a lost optimistic lock.
func NewConcurrentModification(entity string, key any) *AppError {
	return newError(http.StatusConflict, CodeConcurrentModification,
		"Record was modified by another user. Please refresh and try again.").
		WithDetail("entity", entity).
		WithDetail("id", key)
}

// NewInternal hides err behind a generic 500.
func NewInternal(err error) *AppError {
	return newError(http.StatusInternalServerError, CodeInternal, "Internal server error").WithCause(err)
}

func NewUnauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func NewForbidden(message string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, message)
}

// NewIdempotencyConflict: the key is held by a request still running.
func NewIdempotencyConflict(key string) *AppError {
	return newError(http.StatusConflict, CodeIdempotency, "Operation already in progress or completed").
		WithDetail("idempotency_key", key)
}

// NewIdempotencyMismatch: the key was first used by a different request.
func NewIdempotencyMismatch(key string) *AppError {
	return newError(http.StatusConflict, CodeIdempotency, "Idempotency key mismatch").
		WithDetail("idempotency_key", key)
}

func NewConflict(message string) *AppError {
	return newError(http.StatusConflict, CodeConflict, message)
}

// NewDuplicate reports a unique constraint on field.
func NewDuplicate(entity, field, value string) *AppError {
	return newError(http.StatusConflict, CodeDuplicate, fmt.Sprintf("%s with this %s already exists", entity, field)).
		WithDetail("entity", entity).
		WithDetail("field", field).
		WithDetail("value", value)
}

// AsAppError finds an AppError in the chain of err.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAppError reports whether err wraps an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// HasCode reports whether err wraps an AppError with code.
func HasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// GetHTTPStatus is the response status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

func IsMailDelivery(err error) bool { return HasCode(err, CodeMailDelivery) }

func IsConcurrentModification(err error) bool { return HasCode(err, CodeConcurrentModification) }
