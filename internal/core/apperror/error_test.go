package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsAppError_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("confirm order: %w", NewBusinessRule(CodeCompanyMismatch, "journal belongs to another company"))

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, CodeCompanyMismatch, appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(err))
	assert.True(t, HasCode(err, CodeCompanyMismatch))
	assert.False(t, IsNotFound(err))
}

func TestNewInternal_HidesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error", err.Message)
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestNewNotFound_Details(t *testing.T) {
	err := NewNotFound("sale_type", "ST-1")

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "sale_type not found", err.Message)
	assert.Equal(t, map[string]any{"entity": "sale_type", "id": "ST-1"}, err.Details)
}

func TestWithCause(t *testing.T) {
	cause := errors.New("unexpected end of template")
	err := NewValidation("invalid template").WithDetail("field", "body").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "body", err.Details["field"])
	assert.Contains(t, err.Error(), "caused by: unexpected end of template")
}
