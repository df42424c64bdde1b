package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ingeniuz/internal/client/repositories/blobs"
	"github.com/dmitrijs2005/ingeniuz/internal/cryptox"
)

// SaltKey is the blob under which the key-derivation salt is kept.
const SaltKey = "device_salt"

const saltSize = 32

// DeviceSealer derives the at-rest sealer from secret and a per-database
// salt, creating the salt on first use.
func DeviceSealer(ctx context.Context, repo blobs.Repository, secret []byte) (*cryptox.AESGCM, error) {
	salt, err := repo.Load(ctx, SaltKey)
	if errors.Is(err, blobs.ErrNotFound) {
		salt = make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		if err := repo.Store(ctx, SaltKey, salt); err != nil {
			return nil, fmt.Errorf("store salt: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("load salt: %w", err)
	}

	return cryptox.NewAESGCM(cryptox.DeriveKey(secret, salt))
}
