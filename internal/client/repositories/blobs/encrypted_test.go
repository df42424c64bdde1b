package blobs

import (
	"bytes"
	"context"
	"testing"

	"github.com/dmitrijs2005/ingeniuz/internal/cryptox"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	data map[string][]byte
}

func newMemRepo() *memRepo { return &memRepo{data: map[string][]byte{}} }

func (m *memRepo) Load(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *memRepo) Store(_ context.Context, key string, data []byte) error {
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func sealer(t *testing.T, b byte) cryptox.Sealer {
	t.Helper()
	s, err := cryptox.NewAESGCM(bytes.Repeat([]byte{b}, cryptox.KeySize))
	require.NoError(t, err)
	return s
}

func TestEncrypted_RoundTripAndCiphertextAtRest(t *testing.T) {
	inner := newMemRepo()
	e := NewEncrypted(inner, sealer(t, 7))
	ctx := context.Background()

	require.NoError(t, e.Store(ctx, "app_logs", []byte(`[{"message":"hi"}]`)))
	require.NotContains(t, string(inner.data["app_logs"]), "hi")

	got, err := e.Load(ctx, "app_logs")
	require.NoError(t, err)
	require.Equal(t, `[{"message":"hi"}]`, string(got))
}

func TestEncrypted_MissPassesThrough(t *testing.T) {
	e := NewEncrypted(newMemRepo(), sealer(t, 7))

	_, err := e.Load(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEncrypted_WrongKey(t *testing.T) {
	inner := newMemRepo()
	ctx := context.Background()
	require.NoError(t, NewEncrypted(inner, sealer(t, 1)).Store(ctx, "k", []byte("v")))

	_, err := NewEncrypted(inner, sealer(t, 2)).Load(ctx, "k")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}
