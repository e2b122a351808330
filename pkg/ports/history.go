package ports

import (
	"context"
	"time"

	"github.com/aretw0/toria/pkg/domain"
)

// HistoryStore defines the interface for persisting conversation history.
// History is append-only: implementations must never reorder or rewrite entries.
type HistoryStore interface {
	// Load retrieves the full history for a thread key.
	// Returns domain.ErrSessionNotFound if the thread has never been written.
	Load(ctx context.Context, threadKey string) ([]domain.Message, error)

	// Append adds messages to the end of the thread, creating it if needed.
	Append(ctx context.Context, threadKey string, msgs ...domain.Message) error

	// Delete removes the thread.
	Delete(ctx context.Context, threadKey string) error

	// List returns the known thread keys.
	List(ctx context.Context) ([]string, error)
}

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes turns on the same thread key across replicas.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The lock expires after ttl even if UnlockFunc is never called.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
