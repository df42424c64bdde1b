package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type capturedRequest struct {
	Operation string
	Variables map[string]any
	Header    http.Header
}

type recorder struct {
	mu   sync.Mutex
	reqs []capturedRequest
}

func (r *recorder) add(c capturedRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, c)
}

func (r *recorder) all() []capturedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]capturedRequest(nil), r.reqs...)
}

// newProvider starts a fake GraphQL endpoint. respond returns the status
// code and raw JSON body for a given operation.
func newProvider(t *testing.T, respond func(op string) (int, string)) (*GraphQLClient, *recorder, *int32) {
	t.Helper()
	var (
		rec  = &recorder{}
		hits int32
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.add(capturedRequest{Operation: req.OperationName, Variables: req.Variables, Header: r.Header.Clone()})

		code, body := respond(req.OperationName)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewGraphQLClient(srv.URL, srv.Client()), rec, &hits
}

func ok(body string) func(string) (int, string) {
	return func(string) (int, string) { return http.StatusOK, body }
}

// ---- Login ----

func TestGraphQLLogin_RequiresMFA(t *testing.T) {
	c, captured, _ := newProvider(t, ok(`{"data":{"login":{"success":true,"requiresMFA":true}}}`))

	requires, err := c.Login(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)
	assert.True(t, requires)

	reqs := captured.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Login", reqs[0].Operation)
	assert.Equal(t, "a@x.com", reqs[0].Variables["email"])
	assert.Equal(t, "pw1", reqs[0].Variables["password"])
}

func TestGraphQLLogin_MissingMFAFlagMeansFalse(t *testing.T) {
	c, _, _ := newProvider(t, ok(`{"data":{"login":{"success":true}}}`))

	requires, err := c.Login(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)
	assert.False(t, requires)
}

func TestGraphQLLogin_SuccessFalseIsRemoteFailure(t *testing.T) {
	for _, body := range []string{
		`{"data":{"login":{"success":false,"requiresMFA":true}}}`,
		`{"data":{"login":null}}`,
		`{"data":null}`,
	} {
		c, _, _ := newProvider(t, ok(body))
		_, err := c.Login(context.Background(), "a@x.com", "pw1")
		require.ErrorIs(t, err, ErrRemoteFailure, body)
		assert.Equal(t, "Login failed", err.Error())
	}
}

func TestGraphQLLogin_GraphQLErrorIsInvalidCredentials(t *testing.T) {
	c, _, _ := newProvider(t, ok(`{"data":null,"errors":[{"message":"Incorrect username or password."}]}`))

	_, err := c.Login(context.Background(), "a@x.com", "bad")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Incorrect username or password.", err.Error())
}

func TestGraphQLLogin_UnauthorizedStatus(t *testing.T) {
	c, _, _ := newProvider(t, func(string) (int, string) { return http.StatusUnauthorized, `{}` })

	_, err := c.Login(context.Background(), "a@x.com", "bad")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestGraphQLLogin_ServerUnavailable(t *testing.T) {
	c, _, _ := newProvider(t, func(string) (int, string) { return http.StatusServiceUnavailable, `` })

	_, err := c.Login(context.Background(), "a@x.com", "pw")
	require.ErrorIs(t, err, ErrRemoteFailure)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGraphQLLogin_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewGraphQLClient(url, &http.Client{Timeout: time.Second})
	_, err := c.Login(context.Background(), "a@x.com", "pw")
	require.ErrorIs(t, err, ErrRemoteFailure)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGraphQLLogin_MalformedBody(t *testing.T) {
	c, _, _ := newProvider(t, ok(`not json`))

	_, err := c.Login(context.Background(), "a@x.com", "pw")
	require.ErrorIs(t, err, ErrRemoteFailure)
}

// ---- Register ----

func TestGraphQLRegister_Success(t *testing.T) {
	c, captured, _ := newProvider(t, ok(`{"data":{"register":{"id":"u-1","email":"b@x.com"}}}`))

	require.NoError(t, c.Register(context.Background(), "bob", "b@x.com", "555-0100"))
	vars := captured.all()[0].Variables
	assert.Equal(t, "bob", vars["username"])
	assert.Equal(t, "b@x.com", vars["email"])
	assert.Equal(t, "555-0100", vars["phone"])
}

func TestGraphQLRegister_NoIDIsRegistrationFailed(t *testing.T) {
	for _, body := range []string{
		`{"data":{"register":{"id":"","email":"b@x.com"}}}`,
		`{"data":{"register":null}}`,
	} {
		c, _, _ := newProvider(t, ok(body))
		err := c.Register(context.Background(), "bob", "b@x.com", "555-0100")
		require.ErrorIs(t, err, ErrRegistrationFailed, body)
		assert.Equal(t, "Registration failed", err.Error())
	}
}

func TestGraphQLRegister_GraphQLError(t *testing.T) {
	c, _, _ := newProvider(t, ok(`{"errors":[{"message":"email already registered"}]}`))

	err := c.Register(context.Background(), "bob", "b@x.com", "555-0100")
	require.ErrorIs(t, err, ErrRegistrationFailed)
	assert.Equal(t, "email already registered", err.Error())
}

// ---- CompleteTwoFactor ----

func TestGraphQLCompleteTwoFactor_Success(t *testing.T) {
	c, captured, _ := newProvider(t, ok(`{"data":{"completeTwoFactor":{"token":"tok1","username":"alice"}}}`))

	res, err := c.CompleteTwoFactor(context.Background(), "a@x.com", "111111", "222222")
	require.NoError(t, err)
	assert.Equal(t, TwoFactorResult{Token: "tok1", Username: "alice"}, res)

	vars := captured.all()[0].Variables
	assert.Equal(t, "111111", vars["emailOtp"])
	assert.Equal(t, "222222", vars["smsOtp"])
}

func TestGraphQLCompleteTwoFactor_MissingFieldsIsIncomplete(t *testing.T) {
	for _, body := range []string{
		`{"data":{"completeTwoFactor":{"token":null,"username":"alice"}}}`,
		`{"data":{"completeTwoFactor":{"token":"tok1","username":""}}}`,
		`{"data":{"completeTwoFactor":{"token":"tok1"}}}`,
		`{"data":{"completeTwoFactor":null}}`,
	} {
		c, _, _ := newProvider(t, ok(body))
		_, err := c.CompleteTwoFactor(context.Background(), "a@x.com", "111111", "222222")
		require.ErrorIs(t, err, ErrIncompleteVerification, body)
		assert.Equal(t, "Incomplete 2FA response", err.Error())
	}
}

func TestGraphQLCompleteTwoFactor_GraphQLError(t *testing.T) {
	c, _, _ := newProvider(t, ok(`{"errors":[{"message":"Invalid code"}]}`))

	_, err := c.CompleteTwoFactor(context.Background(), "a@x.com", "000000", "000000")
	require.ErrorIs(t, err, ErrRemoteFailure)
	assert.Equal(t, "Invalid code", err.Error())
}

// ---- IsFirstUser ----

func TestGraphQLIsFirstUser_AlwaysHitsProviderWithNoCache(t *testing.T) {
	c, captured, hits := newProvider(t, ok(`{"data":{"getIsFirstLogin":true}}`))

	for i := 0; i < 2; i++ {
		first, err := c.IsFirstUser(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.True(t, first)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
	for _, r := range captured.all() {
		assert.Equal(t, "GetIsFirstLogin", r.Operation)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
	}
}

func TestGraphQLIsFirstUser_DefaultsToFalse(t *testing.T) {
	for _, body := range []string{
		`{"data":{"getIsFirstLogin":null}}`,
		`{"data":{}}`,
		`{"data":null}`,
	} {
		c, _, _ := newProvider(t, ok(body))
		first, err := c.IsFirstUser(context.Background(), "a@x.com")
		require.NoError(t, err, body)
		assert.False(t, first, body)
	}
}

func TestGraphQLIsFirstUser_TransportErrorPropagates(t *testing.T) {
	c, _, _ := newProvider(t, func(string) (int, string) { return http.StatusBadGateway, `` })

	_, err := c.IsFirstUser(context.Background(), "a@x.com")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGraphQL_ContextCanceled(t *testing.T) {
	c, _, _ := newProvider(t, ok(`{"data":{"getIsFirstLogin":true}}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.IsFirstUser(ctx, "a@x.com")
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, ErrUnavailable)
}
