package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var devValidateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

type devUser struct {
	username string
	phone    string
	password string
	// TOTP secrets standing in for the email and SMS channels.
	emailSecret string
	smsSecret   string
	logins      int
}

// DevProvider is an in-memory IdentityProvider. Registration does not carry
// a password, so the first Login for an account sets it. Codes returns the
// one-time codes a real provider would deliver by email and SMS.
type DevProvider struct {
	mu         sync.Mutex
	issuer     string
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
	users      map[string]*devUser
	pending    map[string]struct{}
}

type DevOption func(*DevProvider)

func WithDevClock(now func() time.Time) DevOption {
	return func(p *DevProvider) { p.now = now }
}

func WithDevTokenTTL(ttl time.Duration) DevOption {
	return func(p *DevProvider) { p.tokenTTL = ttl }
}

func NewDevProvider(issuer string, signingKey []byte, opts ...DevOption) *DevProvider {
	p := &DevProvider{
		issuer:     issuer,
		signingKey: signingKey,
		tokenTTL:   time.Hour,
		now:        time.Now,
		users:      make(map[string]*devUser),
		pending:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *DevProvider) newSecret(account string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: p.issuer, AccountName: account})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

func (p *DevProvider) Register(ctx context.Context, username, email, phone string) error {
	if err := ctx.Err(); err != nil {
		return NewAuthError(RemoteFailure, "", err)
	}
	if username == "" || email == "" || phone == "" {
		return NewAuthError(RegistrationFailed, "Registration failed", nil)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[email]; exists {
		return NewAuthError(RegistrationFailed, "email already registered", nil)
	}

	emailSecret, err := p.newSecret(email)
	if err != nil {
		return NewAuthError(RegistrationFailed, "", err)
	}
	smsSecret, err := p.newSecret(phone)
	if err != nil {
		return NewAuthError(RegistrationFailed, "", err)
	}

	p.users[email] = &devUser{username: username, phone: phone, emailSecret: emailSecret, smsSecret: smsSecret}
	return nil
}

func (p *DevProvider) Login(ctx context.Context, email, password string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, NewAuthError(RemoteFailure, "", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[email]
	if !ok || password == "" {
		return false, NewAuthError(InvalidCredentials, "Incorrect username or password.", nil)
	}
	if u.password == "" {
		u.password = password
	}
	if u.password != password {
		return false, NewAuthError(InvalidCredentials, "Incorrect username or password.", nil)
	}

	p.pending[email] = struct{}{}
	return true, nil
}

// Codes returns the current email and SMS codes for email.
func (p *DevProvider) Codes(email string) (emailOtp, smsOtp string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[email]
	if !ok {
		return "", "", fmt.Errorf("unknown account %q", email)
	}
	now := p.now()
	if emailOtp, err = totp.GenerateCodeCustom(u.emailSecret, now, devValidateOpts); err != nil {
		return "", "", err
	}
	if smsOtp, err = totp.GenerateCodeCustom(u.smsSecret, now, devValidateOpts); err != nil {
		return "", "", err
	}
	return emailOtp, smsOtp, nil
}

func (p *DevProvider) CompleteTwoFactor(ctx context.Context, email, emailOtp, smsOtp string) (TwoFactorResult, error) {
	if err := ctx.Err(); err != nil {
		return TwoFactorResult{}, NewAuthError(RemoteFailure, "", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[email]
	if _, waiting := p.pending[email]; !ok || !waiting {
		return TwoFactorResult{}, NewAuthError(RemoteFailure, "No verification pending for this account", nil)
	}

	now := p.now()
	emailOK, _ := totp.ValidateCustom(emailOtp, u.emailSecret, now, devValidateOpts)
	smsOK, _ := totp.ValidateCustom(smsOtp, u.smsSecret, now, devValidateOpts)
	if !emailOK || !smsOK {
		return TwoFactorResult{}, NewAuthError(InvalidCredentials, "Invalid verification code", nil)
	}

	claims := jwt.RegisteredClaims{
		Issuer:    p.issuer,
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return TwoFactorResult{}, NewAuthError(RemoteFailure, "", err)
	}

	delete(p.pending, email)
	u.logins++
	return TwoFactorResult{Token: token, Username: u.username}, nil
}

// IsFirstUser reports true until the account has completed a second login.
func (p *DevProvider) IsFirstUser(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, NewAuthError(RemoteFailure, "", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[email]
	if !ok {
		return false, nil
	}
	return u.logins <= 1, nil
}
