// Package session exposes the persisted identity to the rest of the client
// and attaches the bearer token to outgoing HTTP and gRPC calls.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ingeniuz/internal/client/credstore"
	"github.com/dmitrijs2005/ingeniuz/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const authorizationKey = "authorization"

type Session struct {
	creds credstore.CredentialStore
}

func New(creds credstore.CredentialStore) *Session {
	return &Session{creds: creds}
}

// optional reads key and maps a miss to "".
func (s *Session) optional(ctx context.Context, key string) (string, error) {
	v, err := s.creds.GetString(ctx, key)
	if errors.Is(err, credstore.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// CurrentIdentity returns nil when any of email, username or token is
// missing. Store failures are returned as errors, not as "no identity".
func (s *Session) CurrentIdentity(ctx context.Context) (*models.Identity, error) {
	var id models.Identity
	for key, dst := range map[string]*string{
		credstore.KeyUserEmail: &id.Email,
		credstore.KeyUserName:  &id.Username,
		credstore.KeyAuthToken: &id.Token,
	} {
		v, err := s.optional(ctx, key)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	if !id.Complete() {
		return nil, nil
	}
	return &id, nil
}

// Token returns the bearer token or "" when logged out.
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.optional(ctx, credstore.KeyAuthToken)
}

// AttachAuthHeader sets Authorization on req when a token exists and leaves
// req untouched otherwise.
func (s *Session) AttachAuthHeader(ctx context.Context, req *http.Request) error {
	token, err := s.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// Logout removes the session token. Email and username stay behind as
// profile hints. Calling it again is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	email, err := s.optional(ctx, credstore.KeyCurrentEmail)
	if err != nil {
		return err
	}
	if err := s.creds.Delete(ctx, credstore.KeyAuthToken); err != nil {
		return err
	}
	if email != "" {
		if err := s.creds.Delete(ctx, credstore.TokenKeyFor(email)); err != nil {
			return err
		}
	}
	return nil
}

// TokenExpiry reads the exp claim without verifying the signature. ok is
// false for opaque tokens, tokens without exp, and when logged out.
func (s *Session) TokenExpiry(ctx context.Context) (exp time.Time, ok bool, err error) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return time.Time{}, false, err
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, nil
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

// Transport wraps base so every request carries the current token.
func (s *Session) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{session: s, base: base}
}

type authTransport struct {
	session *Session
	base    http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.session.Token(req.Context())
	if err != nil {
		return nil, err
	}

	// Clone request and add auth header if we have a token
	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(req)
}

// UnaryClientInterceptor adds the token to outgoing gRPC metadata.
func (s *Session) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		token, err := s.Token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, authorizationKey, "Bearer "+token)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
