// Package credstore is the durable, encrypted key/value store holding the
// session token and profile hints.
package credstore

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/dmitrijs2005/ingeniuz/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/ingeniuz/internal/cryptox"
	"github.com/dmitrijs2005/ingeniuz/internal/dbx"
)

// Well-known keys.
const (
	KeyAuthToken    = "authToken"
	KeyUserEmail    = "userEmail"
	KeyUserName     = "userName"
	KeyCurrentEmail = "current_email"
)

// TokenKeyFor is the per-account token key.
func TokenKeyFor(email string) string {
	return "token_" + email
}

// CredentialStore is what the orchestrator and the session consume.
type CredentialStore interface {
	Set(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, dst any) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	// SetAll writes every pair or none of them.
	SetAll(ctx context.Context, values map[string]any) error
}

type Store struct {
	db     *sql.DB
	sealer cryptox.Sealer
}

func New(db *sql.DB, sealer cryptox.Sealer) *Store {
	return &Store{db: db, sealer: sealer}
}

func (s *Store) repo(db dbx.DBTX) secrets.Repository {
	return secrets.NewSQLiteRepository(db, s.sealer)
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := encode(value)
	if err != nil {
		return &StorageError{Kind: SerializationFailure, Op: "set", Key: key, Err: err}
	}
	if err := s.repo(s.db).Set(ctx, key, raw); err != nil {
		return &StorageError{Kind: Unavailable, Op: "set", Key: key, Err: err}
	}
	return nil
}

// Get decodes the value under key into dst. A miss returns ErrNotFound.
func (s *Store) Get(ctx context.Context, key string, dst any) error {
	raw, err := s.repo(s.db).Get(ctx, key)
	if err != nil {
		return classify("get", key, err)
	}
	if err := decode(raw, dst); err != nil {
		return &StorageError{Kind: SerializationFailure, Op: "get", Key: key, Err: err}
	}
	return nil
}

func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	var v string
	if err := s.Get(ctx, key, &v); err != nil {
		return "", err
	}
	return v, nil
}

// Delete is idempotent.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.repo(s.db).Delete(ctx, key); err != nil {
		return &StorageError{Kind: Unavailable, Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *Store) SetAll(ctx context.Context, values map[string]any) error {
	keys := make([]string, 0, len(values))
	encoded := make(map[string][]byte, len(values))
	for k, v := range values {
		raw, err := encode(v)
		if err != nil {
			return &StorageError{Kind: SerializationFailure, Op: "set", Key: k, Err: err}
		}
		keys = append(keys, k)
		encoded[k] = raw
	}
	sort.Strings(keys)

	var failed string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		for _, k := range keys {
			if err := repo.Set(ctx, k, encoded[k]); err != nil {
				failed = k
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &StorageError{Kind: Unavailable, Op: "set all", Key: failed, Err: err}
	}
	return nil
}

func classify(op, key string, err error) error {
	switch {
	case errors.Is(err, secrets.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, secrets.ErrCorrupt):
		return &StorageError{Kind: SerializationFailure, Op: op, Key: key, Err: err}
	default:
		return &StorageError{Kind: Unavailable, Op: op, Key: key, Err: err}
	}
}
