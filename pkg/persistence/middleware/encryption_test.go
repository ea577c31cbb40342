package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"
	"time"

	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/persistence/middleware"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func snapshot(id string) *domain.Suspension {
	return &domain.Suspension{
		ExecutionID:    id,
		ConversationID: "bakery",
		NodeID:         "ask",
		Presentation:   domain.Presentation{Kind: domain.PresentChoice, Text: "Fresh bread?"},
		History:        []string{"start", "ask"},
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
		Meta:           map[string]string{"player": "ana"},
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunSuspensionStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.Chain(underlying,
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, snapshot("x1")))

	stored, err := underlying.Load(ctx, "x1")
	require.NoError(t, err)
	assert.Equal(t, "x1", stored.ExecutionID)
	assert.Empty(t, stored.ConversationID)
	assert.Empty(t, stored.History)
	assert.NotContains(t, stored.Meta, "player")
	assert.Contains(t, stored.Meta, middleware.MetaEncrypted)

	loaded, err := secure.Load(ctx, "x1")
	require.NoError(t, err)
	assert.Equal(t, "bakery", loaded.ConversationID)
	assert.Equal(t, "Fresh bread?", loaded.Presentation.Text)
	assert.Equal(t, "ana", loaded.Meta["player"])
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, snapshot("rotation")))

	newStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := newStore.Load(ctx, "rotation")
	require.NoError(t, err, "fallback key opens old snapshots")
	loaded.NodeID = "thanks"
	require.NoError(t, newStore.Save(ctx, loaded))

	_, err = oldStore.Load(ctx, "rotation")
	assert.Error(t, err, "the old key cannot open snapshots sealed with the new one")
}

func TestEncryptionMiddleware_RejectsPlainSnapshots(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, snapshot("plain")))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "plain")
	assert.ErrorContains(t, err, "missing encrypted data envelope")

	_, err = secure.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSuspensionNotFound)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", base64.StdEncoding.EncodeToString(key), false},
		{"not base64", "%%%", true},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := middleware.ParseKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, key, got)
		})
	}
}
