package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
)

// envelopePrefix marks message content sealed by this middleware.
const envelopePrefix = "enc:v1:"

// ErrNotEncrypted is returned when a stored message lacks the envelope.
var ErrNotEncrypted = errors.New("message is missing encrypted envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new messages.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.HistoryStore
	config EncryptionConfig
}

// NewEncryptionMiddleware seals message content with AES-GCM before it reaches the store.
// Role and timestamp stay in clear so the thread remains ordered and inspectable.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(config.ActiveKey))
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Append(ctx context.Context, threadKey string, msgs ...domain.Message) error {
	sealed := make([]domain.Message, len(msgs))
	for i, msg := range msgs {
		ciphertext, err := encrypt([]byte(msg.Content), m.config.ActiveKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt message: %w", err)
		}
		msg.Content = envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext)
		sealed[i] = msg
	}
	return m.next.Append(ctx, threadKey, sealed...)
}

func (m *encryptionMiddleware) Load(ctx context.Context, threadKey string) ([]domain.Message, error) {
	msgs, err := m.next.Load(ctx, threadKey)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Message, len(msgs))
	for i, msg := range msgs {
		encoded, ok := strings.CutPrefix(msg.Content, envelopePrefix)
		if !ok {
			// Fail secure: a plaintext entry means the store was written around us.
			return nil, fmt.Errorf("%s[%d]: %w", threadKey, i, ErrNotEncrypted)
		}
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
		}
		plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt message: %w", err)
		}
		msg.Content = string(plain)
		out[i] = msg
	}
	return out, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, threadKey string) error {
	return m.next.Delete(ctx, threadKey)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	for _, key := range append([][]byte{activeKey}, fallbackKeys...) {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
