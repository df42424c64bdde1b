package client

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthError_IsMatchesKind(t *testing.T) {
	err := NewAuthError(IncompleteVerification, "Incomplete 2FA response", nil)

	assert.ErrorIs(t, err, ErrIncompleteVerification)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrRemoteFailure)
}

func TestAuthError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("ceremony: %w", NewAuthError(RemoteFailure, "", ErrUnavailable))

	assert.ErrorIs(t, err, ErrRemoteFailure)
	assert.ErrorIs(t, err, ErrUnavailable)

	var ae *AuthError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, RemoteFailure, ae.Kind)
}

func TestAuthError_MessageIsVerbatim(t *testing.T) {
	assert.Equal(t, "Login failed", NewAuthError(RemoteFailure, "Login failed", nil).Error())
	assert.Equal(t, "identity provider unavailable", NewAuthError(RemoteFailure, "", ErrUnavailable).Error())
	assert.Equal(t, "registration failed", (&AuthError{Kind: RegistrationFailed}).Error())
}

func TestAuthErrorKind_String(t *testing.T) {
	assert.Equal(t, "invalid credentials", InvalidCredentials.String())
	assert.Equal(t, "auth error kind 42", AuthErrorKind(42).String())
}
