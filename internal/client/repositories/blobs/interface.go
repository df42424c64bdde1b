// Package blobs stores whole serialized documents under a fixed key. The
// audit log keeps its entire collection in one blob.
package blobs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob not found")

type Repository interface {
	// Load returns ErrNotFound when nothing was stored under key.
	Load(ctx context.Context, key string) ([]byte, error)
	// Store replaces the blob under key.
	Store(ctx context.Context, key string, data []byte) error
}
