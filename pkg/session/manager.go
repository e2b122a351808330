package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/toria/internal/logging"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed thread lock survives a crashed holder.
const DefaultLockTTL = 60 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates thread access, ensuring turns on one thread key run one at a time.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.HistoryStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active locks by thread key

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new thread Manager backed by the given history store.
func NewManager(store ports.HistoryStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// activeLocks reports how many thread keys currently hold a lock entry.
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// History returns the thread history, or an empty history for a new thread.
func (m *Manager) History(ctx context.Context, key string) ([]domain.Message, error) {
	var history []domain.Message
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		history, err = m.load(ctx, key)
		return err
	})
	return history, err
}

// Append adds messages to the thread.
func (m *Manager) Append(ctx context.Context, key string, msgs ...domain.Message) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Append(ctx, key, msgs...)
	})
}

// Turn runs fn with the current history while holding the thread lock, then
// appends whatever messages fn returns. Nothing is appended when fn fails.
func (m *Manager) Turn(ctx context.Context, key string, fn func(ctx context.Context, history []domain.Message) ([]domain.Message, error)) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		history, err := m.load(ctx, key)
		if err != nil {
			return err
		}

		added, err := fn(ctx, history)
		if err != nil {
			return err
		}
		if len(added) == 0 {
			return nil
		}
		if err := m.store.Append(ctx, key, added...); err != nil {
			return fmt.Errorf("failed to append history for %s: %w", key, err)
		}
		return nil
	})
}

// Delete removes the thread from the store.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying history store.
func (m *Manager) Store() ports.HistoryStore {
	return m.store
}

// WithLock executes a function while holding the lock for the thread key.
// It is not reentrant: fn must not call other locking Manager methods for the same key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release with a fresh context so a cancelled turn still frees the key.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := unlock(releaseCtx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"thread_key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) load(ctx context.Context, key string) ([]domain.Message, error) {
	history, err := m.store.Load(ctx, key)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", key, err)
	}
	return history, nil
}
