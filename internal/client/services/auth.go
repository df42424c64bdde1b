// Package services contains the client's use-case layer.
// This file defines the authentication orchestrator: the two-step login
// ceremony (password, then two-factor codes), registration, and the
// first-login check, each recorded in the audit log.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/ingeniuz/internal/client/audit"
	"github.com/dmitrijs2005/ingeniuz/internal/client/client"
	"github.com/dmitrijs2005/ingeniuz/internal/client/credstore"
	"github.com/dmitrijs2005/ingeniuz/internal/client/metrics"
	"github.com/dmitrijs2005/ingeniuz/internal/client/models"
	"github.com/dmitrijs2005/ingeniuz/internal/logging"
)

// State is the orchestrator's position in the login ceremony.
type State string

const (
	StateIdle          State = "IDLE"
	StateAwaiting2FA   State = "AWAITING_2FA"
	StateAuthenticated State = "AUTHENTICATED"
	StateFailed        State = "FAILED"
)

// Operation names used in audit contexts and metrics.
const (
	opLogin       = "login"
	opRegister    = "register"
	opTwoFactor   = "completeTwoFactor"
	opIsFirstUser = "isFirstUser"
)

// AuthService drives the login ceremony for the CLI.
//
// Contract:
//   - Login: check the password; true means the two-factor step follows.
//     Nothing is persisted yet.
//   - CompleteTwoFactor: submit both codes and persist the session in one
//     atomic write.
//   - Register: create an account on the provider.
//   - IsFirstUser: fresh provider query; never changes State.
//   - Reset: abandon the active attempt.
//
// Errors from the provider and the credential store are returned unchanged.
// Audit failures are logged and counted, never returned.
type AuthService interface {
	Login(ctx context.Context, email, password string) (bool, error)
	CompleteTwoFactor(ctx context.Context, email, emailOtp, smsOtp string) (*models.Identity, error)
	Register(ctx context.Context, username, email, phone string) error
	IsFirstUser(ctx context.Context, email string) (bool, error)
	State() State
	Attempt() (models.LoginAttempt, bool)
	Reset()
}

// AuditAppender is the part of the audit log the orchestrator writes to.
type AuditAppender interface {
	Append(ctx context.Context, e audit.Entry) error
}

// AuthDeps are the collaborators of the orchestrator. Logger, Metrics and Now
// are optional.
type AuthDeps struct {
	Provider    client.IdentityProvider
	Credentials credstore.CredentialStore
	Audit       AuditAppender
	Logger      logging.Logger
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

type authService struct {
	provider client.IdentityProvider
	creds    credstore.CredentialStore
	audit    AuditAppender
	log      logging.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu      sync.Mutex
	state   State
	attempt *models.LoginAttempt
}

// NewAuthService constructs an AuthService in the IDLE state.
func NewAuthService(deps AuthDeps) AuthService {
	s := &authService{
		provider: deps.Provider,
		creds:    deps.Credentials,
		audit:    deps.Audit,
		log:      deps.Logger,
		metrics:  deps.Metrics,
		now:      deps.Now,
		state:    StateIdle,
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (a *authService) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Attempt returns a copy of the active login attempt, if any.
func (a *authService) Attempt() (models.LoginAttempt, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.attempt == nil {
		return models.LoginAttempt{}, false
	}
	return *a.attempt, true
}

func (a *authService) Reset() {
	a.transition(StateIdle, nil)
}

func (a *authService) transition(to State, attempt *models.LoginAttempt) {
	a.mu.Lock()
	a.state = to
	a.attempt = attempt
	a.mu.Unlock()
	a.metrics.Transition(string(to))
}

// record appends an audit entry. A failed write is reported and dropped so it
// never replaces the outcome of the call being recorded.
func (a *authService) record(ctx context.Context, level audit.Level, msg, userID string, c audit.Context) {
	if a.audit == nil {
		return
	}
	err := a.audit.Append(ctx, audit.Entry{
		Timestamp: a.now().UTC(),
		Level:     level,
		Message:   msg,
		UserID:    userID,
		Context:   c,
	})
	if err != nil {
		a.metrics.AuditWriteFailed()
		a.log.Error(ctx, "audit write failed", "message", msg, "error", err)
	}
}

func (a *authService) fail(ctx context.Context, op, msg string, err error) {
	a.record(ctx, audit.LevelError, msg, "", audit.FailureContext{Action: op, Error: err.Error()})
	a.metrics.Step(op, metrics.OutcomeFailure)
	a.transition(StateFailed, nil)
}

func (a *authService) Login(ctx context.Context, email, password string) (bool, error) {
	a.transition(StateIdle, &models.LoginAttempt{Email: email, Password: password, Step: models.StepCredentials})

	a.record(ctx, audit.LevelInfo, "Login attempt for email: "+email, "", audit.ActionContext{Action: opLogin})
	a.metrics.Step(opLogin, metrics.OutcomeAttempt)

	requiresMFA, err := a.provider.Login(ctx, email, password)
	if err != nil {
		a.fail(ctx, opLogin, "Login failed for email: "+email, err)
		return false, err
	}

	if !requiresMFA {
		a.record(ctx, audit.LevelWarn, "Login for email: "+email+" did not request two-factor verification", "",
			audit.FailureContext{Action: opLogin, Error: client.ErrSingleFactorLogin.Error()})
		a.metrics.Step(opLogin, metrics.OutcomeFailure)
		a.transition(StateIdle, nil)
		return false, client.ErrSingleFactorLogin
	}

	a.record(ctx, audit.LevelInfo, fmt.Sprintf("Login successful for email: %s, MFA required: %t", email, requiresMFA), "", nil)
	a.metrics.Step(opLogin, metrics.OutcomeSuccess)
	a.transition(StateAwaiting2FA, &models.LoginAttempt{Email: email, Password: password, Step: models.StepTwoFactor})
	return true, nil
}

// CompleteTwoFactor persists authToken, userName, userEmail, current_email
// and token_<email> together. On any failure none of them change.
func (a *authService) CompleteTwoFactor(ctx context.Context, email, emailOtp, smsOtp string) (*models.Identity, error) {
	a.record(ctx, audit.LevelInfo, "2FA attempt for email: "+email, "", audit.ActionContext{Action: opTwoFactor})
	a.metrics.Step(opTwoFactor, metrics.OutcomeAttempt)

	failMsg := "2FA failed for email: " + email

	res, err := a.provider.CompleteTwoFactor(ctx, email, emailOtp, smsOtp)
	if err != nil {
		a.fail(ctx, opTwoFactor, failMsg, err)
		return nil, err
	}
	if res.Token == "" || res.Username == "" {
		err := client.NewAuthError(client.IncompleteVerification, "Incomplete 2FA response", nil)
		a.fail(ctx, opTwoFactor, failMsg, err)
		return nil, err
	}

	err = a.creds.SetAll(ctx, map[string]any{
		credstore.KeyAuthToken:       res.Token,
		credstore.KeyUserName:        res.Username,
		credstore.KeyUserEmail:       email,
		credstore.KeyCurrentEmail:    email,
		credstore.TokenKeyFor(email): res.Token,
	})
	if err != nil {
		a.fail(ctx, opTwoFactor, failMsg, err)
		return nil, err
	}

	a.record(ctx, audit.LevelInfo, "2FA completed successfully for email: "+email, res.Username, nil)
	a.metrics.Step(opTwoFactor, metrics.OutcomeSuccess)
	a.transition(StateAuthenticated, nil)

	return &models.Identity{Email: email, Username: res.Username, Token: res.Token}, nil
}

func (a *authService) Register(ctx context.Context, username, email, phone string) error {
	a.record(ctx, audit.LevelInfo, "Register attempt for email: "+email, "", audit.ActionContext{Action: opRegister})
	a.metrics.Step(opRegister, metrics.OutcomeAttempt)

	if err := a.provider.Register(ctx, username, email, phone); err != nil {
		a.fail(ctx, opRegister, "Registration failed for email: "+email, err)
		return err
	}

	a.record(ctx, audit.LevelInfo, "Registration successful for email: "+email, "", nil)
	a.metrics.Step(opRegister, metrics.OutcomeSuccess)
	return nil
}

func (a *authService) IsFirstUser(ctx context.Context, email string) (bool, error) {
	a.record(ctx, audit.LevelDebug, "Checking if first user for email: "+email, "", nil)
	a.metrics.Step(opIsFirstUser, metrics.OutcomeAttempt)

	first, err := a.provider.IsFirstUser(ctx, email)
	if err != nil {
		a.metrics.Step(opIsFirstUser, metrics.OutcomeFailure)
		a.log.Warn(ctx, "first user check failed", "email", email, "error", err)
		return false, err
	}
	a.metrics.Step(opIsFirstUser, metrics.OutcomeSuccess)
	return first, nil
}
