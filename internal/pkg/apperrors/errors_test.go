package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		target error
	}{
		{"not found", NewResourceNotFoundError("Application not found"), ErrResourceNotFound},
		{"forbidden", NewForbiddenError("Access denied"), ErrPermissionDenied},
		{"conflict", NewConflictError("already approved"), ErrConflict},
		{"validation", NewValidationError("bad plan", nil), ErrValidationFailed},
		{"too large", NewPayloadTooLargeError("too big"), ErrPayloadTooLarge},
		{"external", NewExternalServiceError("Database", "boom"), ErrExternalService},
		{"config", NewConfigurationError("missing secret"), ErrConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			assert.True(t, errors.Is(wrapped, tc.target))
		})
	}
}

func TestExternalServiceErrorMessage(t *testing.T) {
	err := NewExternalServiceError("Netcash", "timeout")
	assert.Equal(t, "Netcash error: timeout", err.Error())
	assert.Equal(t, "Netcash", DetailsOf(err)["service"])
}

func TestIsMatchesAnyOfList(t *testing.T) {
	err := NewForbiddenError("nope")
	assert.True(t, Is(err, ErrResourceNotFound, ErrConflict, ErrPermissionDenied))
	assert.False(t, Is(err, ErrResourceNotFound, ErrConflict))
}

func TestMessageOfPrefersStatusMsg(t *testing.T) {
	err := NewCustomError(ErrBadRequest, "internal detail").WithStatusMsg("Please retry")
	assert.Equal(t, "Please retry", MessageOf(err))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
}
