package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/toria/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// farFuture is the index score of threads that never expire (2100-01-01).
const farFuture = 4102444800

// HistoryStore implements ports.HistoryStore using Redis.
// Each thread is a list of JSON messages; a sorted set indexes the thread keys.
type HistoryStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the HistoryStore.
type Option func(*HistoryStore)

// WithTTL sets the expiration for threads, refreshed on every append.
func WithTTL(ttl time.Duration) Option {
	return func(s *HistoryStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for threads.
func WithPrefix(prefix string) Option {
	return func(s *HistoryStore) {
		s.prefix = prefix
	}
}

// New creates a new Redis history store with options.
func New(address, password string, db int, opts ...Option) *HistoryStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis history store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *HistoryStore {
	store := &HistoryStore{
		client: client,
		prefix: "toria:thread:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *HistoryStore) Client() *backend.Client {
	return s.client
}

func (s *HistoryStore) key(threadKey string) string {
	return s.prefix + threadKey
}

func (s *HistoryStore) indexKey() string {
	return s.prefix + "index"
}

// Append pushes messages to the thread list.
func (s *HistoryStore) Append(ctx context.Context, threadKey string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		values = append(values, data)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.key(threadKey), values...)

	score := float64(farFuture)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(threadKey), s.ttl)
		score = float64(time.Now().Add(s.ttl).Unix())
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: threadKey,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// Load retrieves the whole thread.
func (s *HistoryStore) Load(ctx context.Context, threadKey string) ([]domain.Message, error) {
	raw, err := s.client.LRange(ctx, s.key(threadKey), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}
	if len(raw) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	msgs := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var m domain.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Delete removes the thread.
func (s *HistoryStore) Delete(ctx context.Context, threadKey string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(threadKey))
	pipe.ZRem(ctx, s.indexKey(), threadKey)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the thread keys that have not expired.
func (s *HistoryStore) List(ctx context.Context) ([]string, error) {
	// Lazy cleanup: drop expired threads from the index.
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired threads: %w", err)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return keys, nil
}

// Ping checks connectivity.
func (s *HistoryStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *HistoryStore) Close() error {
	return s.client.Close()
}
