package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/toria/pkg/adapters/memory"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/persistence/middleware"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, next ports.HistoryStore, active []byte, fallback ...[]byte) ports.HistoryStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
	require.NoError(t, err)
	return mw(next)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunHistoryStoreContract(t, encrypted(t, memory.NewHistoryStore(), generateKey(t)))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewHistoryStore()
	secure := encrypted(t, underlying, generateKey(t))

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, secure.Append(ctx, "u1_general", domain.NewHumanMessage("my-secret-sauce", now)))

	raw, err := underlying.Load(ctx, "u1_general")
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.True(t, strings.HasPrefix(raw[0].Content, "enc:v1:"))
	assert.NotContains(t, raw[0].Content, "secret")
	assert.Equal(t, domain.RoleHuman, raw[0].Role, "role stays in clear")

	loaded, err := secure.Load(ctx, "u1_general")
	require.NoError(t, err)
	assert.Equal(t, "my-secret-sauce", loaded[0].Content)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewHistoryStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	oldStore := encrypted(t, underlying, oldKey)
	require.NoError(t, oldStore.Append(ctx, "k", domain.NewHumanMessage("encrypted-with-old-key", time.Now())))

	newStore := encrypted(t, underlying, newKey, oldKey)
	require.NoError(t, newStore.Append(ctx, "k", domain.NewAssistantMessage("encrypted-with-new-key", time.Now())))

	loaded, err := newStore.Load(ctx, "k")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "encrypted-with-old-key", loaded[0].Content)
	assert.Equal(t, "encrypted-with-new-key", loaded[1].Content)

	_, err = oldStore.Load(ctx, "k")
	assert.Error(t, err, "old key alone cannot read new-key messages")
}

func TestEncryptionMiddleware_RejectsPlaintext(t *testing.T) {
	underlying := memory.NewHistoryStore()
	ctx := context.Background()
	require.NoError(t, underlying.Append(ctx, "k", domain.NewHumanMessage("plain", time.Now())))

	_, err := encrypted(t, underlying, generateKey(t)).Load(ctx, "k")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.Error(t, err)
}
