package client

import "context"

// TwoFactorResult is what the provider returns once both one-time codes
// have been accepted.
type TwoFactorResult struct {
	Token    string
	Username string
}

// IdentityProvider is the remote identity backend.
type IdentityProvider interface {
	// Login checks the password and reports whether the provider requires
	// the two-factor step. The provider may send codes out of band.
	Login(ctx context.Context, email, password string) (bool, error)
	Register(ctx context.Context, username, email, phone string) error
	CompleteTwoFactor(ctx context.Context, email, emailOtp, smsOtp string) (TwoFactorResult, error)
	// IsFirstUser always reaches the provider; it reports false when the
	// provider gives no answer.
	IsFirstUser(ctx context.Context, email string) (bool, error)
}
