package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	loginMutation = `mutation Login($email: String!, $password: String!) {
  login(email: $email, password: $password) {
    success
    requiresMFA
  }
}`

	registerMutation = `mutation RegisterUser($username: String!, $email: String!, $phone: String!) {
  register(username: $username, email: $email, phone: $phone) {
    id
    email
  }
}`

	completeTwoFactorMutation = `mutation CompleteTwoFactor($email: String!, $emailOtp: String!, $smsOtp: String!) {
  completeTwoFactor(email: $email, emailOtp: $emailOtp, smsOtp: $smsOtp) {
    token
    username
  }
}`

	isFirstUserQuery = `query GetIsFirstLogin($email: String!) {
  getIsFirstLogin(email: $email)
}`
)

// maxResponseSize caps how much of a provider response is read.
const maxResponseSize = 1 << 20

// GraphQLClient talks to the identity provider's GraphQL endpoint.
// Header injection (bearer token) is the job of the http.Client's transport.
type GraphQLClient struct {
	endpoint string
	http     *http.Client
}

// NewGraphQLClient builds a client for endpoint. A nil httpClient means
// http.DefaultClient.
func NewGraphQLClient(endpoint string, httpClient *http.Client) *GraphQLClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GraphQLClient{endpoint: endpoint, http: httpClient}
}

type gqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type requestOption func(*http.Request)

// networkOnly asks every cache between us and the provider to revalidate.
func networkOnly(r *http.Request) {
	r.Header.Set("Cache-Control", "no-cache")
	r.Header.Set("Pragma", "no-cache")
}

// do executes one operation. Transport problems come back as err; GraphQL
// level errors come back as gerrs with out left partially decoded.
func (c *GraphQLClient) do(ctx context.Context, operation, query string, vars map[string]any, out any, opts ...requestOption) (gerrs []gqlError, err error) {
	body, err := json.Marshal(gqlRequest{Query: query, OperationName: operation, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	if err := c.mapStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, c.mapError(err)
	}

	var gr gqlResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", operation, err)
	}
	if len(gr.Data) > 0 && string(gr.Data) != "null" {
		if err := json.Unmarshal(gr.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s data: %w", operation, err)
		}
	}
	return gr.Errors, nil
}

func (c *GraphQLClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (c *GraphQLClient) mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: http status %d", ErrUnavailable, code)
	default:
		return fmt.Errorf("unexpected http status %d", code)
	}
}

// credentialFailure turns a transport error into an AuthError, treating a
// rejected request as bad credentials.
func credentialFailure(err error) *AuthError {
	if errors.Is(err, ErrUnauthorized) {
		return NewAuthError(InvalidCredentials, "", err)
	}
	return NewAuthError(RemoteFailure, "", err)
}

func (c *GraphQLClient) Login(ctx context.Context, email, password string) (bool, error) {
	var data struct {
		Login *struct {
			Success     bool  `json:"success"`
			RequiresMFA *bool `json:"requiresMFA"`
		} `json:"login"`
	}

	gerrs, err := c.do(ctx, "Login", loginMutation, map[string]any{"email": email, "password": password}, &data)
	if err != nil {
		return false, credentialFailure(err)
	}
	if len(gerrs) > 0 {
		return false, NewAuthError(InvalidCredentials, gerrs[0].Message, nil)
	}
	if data.Login == nil || !data.Login.Success {
		return false, NewAuthError(RemoteFailure, "Login failed", nil)
	}
	return data.Login.RequiresMFA != nil && *data.Login.RequiresMFA, nil
}

func (c *GraphQLClient) Register(ctx context.Context, username, email, phone string) error {
	var data struct {
		Register *struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"register"`
	}

	vars := map[string]any{"username": username, "email": email, "phone": phone}
	gerrs, err := c.do(ctx, "RegisterUser", registerMutation, vars, &data)
	if err != nil {
		return NewAuthError(RemoteFailure, "", err)
	}
	if len(gerrs) > 0 {
		return NewAuthError(RegistrationFailed, gerrs[0].Message, nil)
	}
	if data.Register == nil || data.Register.ID == "" {
		return NewAuthError(RegistrationFailed, "Registration failed", nil)
	}
	return nil
}

func (c *GraphQLClient) CompleteTwoFactor(ctx context.Context, email, emailOtp, smsOtp string) (TwoFactorResult, error) {
	var data struct {
		CompleteTwoFactor *struct {
			Token    *string `json:"token"`
			Username *string `json:"username"`
		} `json:"completeTwoFactor"`
	}

	vars := map[string]any{"email": email, "emailOtp": emailOtp, "smsOtp": smsOtp}
	gerrs, err := c.do(ctx, "CompleteTwoFactor", completeTwoFactorMutation, vars, &data)
	if err != nil {
		return TwoFactorResult{}, credentialFailure(err)
	}
	if len(gerrs) > 0 {
		return TwoFactorResult{}, NewAuthError(RemoteFailure, gerrs[0].Message, nil)
	}

	r := data.CompleteTwoFactor
	if r == nil || r.Token == nil || *r.Token == "" || r.Username == nil || *r.Username == "" {
		return TwoFactorResult{}, NewAuthError(IncompleteVerification, "Incomplete 2FA response", nil)
	}
	return TwoFactorResult{Token: *r.Token, Username: *r.Username}, nil
}

func (c *GraphQLClient) IsFirstUser(ctx context.Context, email string) (bool, error) {
	var data struct {
		GetIsFirstLogin *bool `json:"getIsFirstLogin"`
	}

	gerrs, err := c.do(ctx, "GetIsFirstLogin", isFirstUserQuery, map[string]any{"email": email}, &data, networkOnly)
	if err != nil {
		return false, NewAuthError(RemoteFailure, "", err)
	}
	if len(gerrs) > 0 {
		return false, NewAuthError(RemoteFailure, gerrs[0].Message, nil)
	}
	if data.GetIsFirstLogin == nil {
		return false, nil
	}
	return *data.GetIsFirstLogin, nil
}
