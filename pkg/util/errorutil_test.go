package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorCarriesField(t *testing.T) {
	err := NewValidationError("status", "unknown status", map[string]any{"value": "archived"})

	require.ErrorIs(t, err, ErrValidation)
	de := ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "status", de.Details["field"])
	assert.Equal(t, "archived", de.Details["value"])
}

func TestAuthorizationErrorIsGeneric(t *testing.T) {
	err := NewAuthorizationError()

	require.ErrorIs(t, err, ErrAuthorization)
	de := ToDomainError(err)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	assert.Empty(t, de.Details)
	assert.True(t, HasCode(err, "FORBIDDEN"))
}

func TestToDomainErrorMapping(t *testing.T) {
	t.Run("wrapped domain error is preserved", func(t *testing.T) {
		err := fmt.Errorf("load: %w", NewNotFound("complaint", nil))
		de := ToDomainError(err)
		assert.Equal(t, "NOT_FOUND", de.Code)
	})

	t.Run("bare not found sentinel maps to 404", func(t *testing.T) {
		de := ToDomainError(fmt.Errorf("query: %w", ErrNotFound))
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	})

	t.Run("unknown errors become internal", func(t *testing.T) {
		de := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", de.Code)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})
}
