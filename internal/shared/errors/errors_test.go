package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{"forbidden", NewForbiddenError("nope"), ErrorTypeForbidden, http.StatusForbidden},
		{"unauthorized", NewUnauthorizedError("who"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"rate limited", NewRateLimitError("slow down"), ErrorTypeRateLimited, http.StatusTooManyRequests},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestAppError_DetailsJoined(t *testing.T) {
	err := NewValidationError("Validation failed", "title is required", "severity is required")
	assert.Equal(t, "title is required; severity is required", err.Details)
	assert.Contains(t, err.Error(), "validation_error")
}

func TestGetAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewNotFoundError("issue not found"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsForbiddenError(wrapped))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(fmt.Errorf("Error 1062: Duplicate entry 'x' for key 'uk'")))
	assert.True(t, IsDuplicateError(fmt.Errorf("UNIQUE constraint failed: issues.anonymous_token")))
	assert.True(t, IsDuplicateError(fmt.Errorf(`pq: duplicate key value violates unique constraint "uk"`)))
	assert.False(t, IsDuplicateError(fmt.Errorf("connection refused")))
	assert.False(t, IsDuplicateError(nil))
}
