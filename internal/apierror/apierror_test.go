package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		status int
	}{
		{"validation", NewValidation("missing field"), http.StatusBadRequest},
		{"conflict", NewConflict("duplicate"), http.StatusConflict},
		{"not found", NewNotFound("gone"), http.StatusNotFound},
		{"unauthorized", NewUnauthorized("denied"), http.StatusUnauthorized},
		{"upload", NewUpload("upload failed"), http.StatusBadRequest},
		{"internal", NewInternal("broke"), http.StatusInternalServerError},
		{"invalid refresh token", NewInvalidRefreshToken(), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.err.Message, tt.err.Error())
		})
	}
}

func TestErrorsAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewConflict("duplicate"))

	var apiErr *APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestInvalidRefreshToken_OpaqueMessage(t *testing.T) {
	// All refresh failures share one surface.
	assert.Equal(t, "invalid refresh token", NewInvalidRefreshToken().Message)
}
