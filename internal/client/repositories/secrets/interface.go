// Package secrets persists small values in the local credentials table,
// sealed at rest.
package secrets

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the key has no stored value.
	ErrNotFound = errors.New("secret not found")
	// ErrCorrupt means a stored value exists but cannot be opened.
	ErrCorrupt = errors.New("secret cannot be decrypted")
)

type Repository interface {
	// Get returns ErrNotFound on a miss; every other error means the store
	// itself failed.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
