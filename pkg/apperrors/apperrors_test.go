package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{name: "bad request", err: BadRequest("nope"), status: http.StatusBadRequest},
		{name: "unauthorized", err: Unauthorized("nope"), status: http.StatusUnauthorized},
		{name: "forbidden", err: Forbidden("nope"), status: http.StatusForbidden},
		{name: "not found", err: NotFound("nope"), status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, "nope", tt.err.Message)
			assert.True(t, Is(tt.err, tt.status))
		})
	}
}

func TestFrom(t *testing.T) {
	t.Run("passes app errors through", func(t *testing.T) {
		original := NotFound("User not found")
		assert.Equal(t, original, From(original))
	})

	t.Run("finds wrapped app errors", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup: %w", Forbidden("denied"))
		assert.Equal(t, http.StatusForbidden, From(wrapped).Status)
	})

	t.Run("masks unknown errors", func(t *testing.T) {
		appErr := From(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, appErr.Status)
		assert.Equal(t, "Something went wrong", appErr.Message)
	})
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal("save failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save failed: boom", err.Error())
}
