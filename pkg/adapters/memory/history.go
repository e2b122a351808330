package memory

import (
	"context"
	"sync"

	"github.com/aretw0/toria/pkg/domain"
)

// HistoryStore implements ports.HistoryStore in memory.
// Safe for concurrent use.
type HistoryStore struct {
	data map[string][]domain.Message
	mu   sync.RWMutex
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		data: make(map[string][]domain.Message),
	}
}

// Load returns a copy of the thread so callers can't mutate the store.
func (s *HistoryStore) Load(ctx context.Context, threadKey string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.data[threadKey]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return append([]domain.Message(nil), msgs...), nil
}

// Append adds messages to the end of the thread.
func (s *HistoryStore) Append(ctx context.Context, threadKey string, msgs ...domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[threadKey] = append(s.data[threadKey], msgs...)
	return nil
}

// Delete removes the thread.
func (s *HistoryStore) Delete(ctx context.Context, threadKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, threadKey)
	return nil
}

// List returns the known thread keys.
func (s *HistoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}
