package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesOnKind(t *testing.T) {
	err := Conflict("email already registered")

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), ErrConflict))
}

func TestIsMatchesMessageWhenSet(t *testing.T) {
	assert.True(t, errors.Is(&Error{Kind: KindAuth, Message: "invalid credentials"}, ErrInvalidCredentials))
	assert.False(t, errors.Is(&Error{Kind: KindAuth, Message: "other"}, ErrInvalidCredentials))
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable(cause)

	assert.Equal(t, KindUnavailable, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errors.New("boom"), want: ""},
		{name: "forbidden", err: Forbidden("no"), want: KindForbidden},
		{name: "wrapped", err: fmt.Errorf("x: %w", NotFound("gone")), want: KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
