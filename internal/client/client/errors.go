package client

import (
	"errors"
	"fmt"
)

// AuthErrorKind classifies identity provider failures.
type AuthErrorKind int

const (
	InvalidCredentials AuthErrorKind = iota + 1
	RegistrationFailed
	IncompleteVerification
	RemoteFailure
)

func (k AuthErrorKind) String() string {
	switch k {
	case InvalidCredentials:
		return "invalid credentials"
	case RegistrationFailed:
		return "registration failed"
	case IncompleteVerification:
		return "incomplete verification"
	case RemoteFailure:
		return "remote failure"
	default:
		return fmt.Sprintf("auth error kind %d", int(k))
	}
}

// AuthError is returned by every IdentityProvider operation.
// Msg is shown to the user verbatim.
type AuthError struct {
	Kind AuthErrorKind
	Msg  string
	Err  error
}

func NewAuthError(kind AuthErrorKind, msg string, err error) *AuthError {
	return &AuthError{Kind: kind, Msg: msg, Err: err}
}

func (e *AuthError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches the kind sentinels below.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrInvalidCredentials     = &AuthError{Kind: InvalidCredentials}
	ErrRegistrationFailed     = &AuthError{Kind: RegistrationFailed}
	ErrIncompleteVerification = &AuthError{Kind: IncompleteVerification}
	ErrRemoteFailure          = &AuthError{Kind: RemoteFailure}
)

var (
	ErrUnavailable  = errors.New("identity provider unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSingleFactorLogin is returned when the provider accepted the
	// password without asking for the two-factor step. No token is issued
	// on that path, so the ceremony cannot complete here.
	ErrSingleFactorLogin = errors.New("provider did not request two-factor verification")
)
