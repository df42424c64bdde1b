package blobs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ingeniuz/internal/cryptox"
)

// Encrypted seals blobs before handing them to the wrapped repository.
type Encrypted struct {
	inner  Repository
	sealer cryptox.Sealer
}

func NewEncrypted(inner Repository, sealer cryptox.Sealer) *Encrypted {
	return &Encrypted{inner: inner, sealer: sealer}
}

func (e *Encrypted) Load(ctx context.Context, key string) ([]byte, error) {
	sealed, err := e.inner.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	data, err := e.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("open blob[%s]: %w", key, err)
	}
	return data, nil
}

func (e *Encrypted) Store(ctx context.Context, key string, data []byte) error {
	sealed, err := e.sealer.Seal(data)
	if err != nil {
		return fmt.Errorf("seal blob[%s]: %w", key, err)
	}
	return e.inner.Store(ctx, key, sealed)
}
