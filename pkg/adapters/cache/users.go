// Package cache decorates stores with in-process caching.
package cache

import (
	"context"
	"time"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultPreferenceTTL is how long cached preferences stay fresh.
const DefaultPreferenceTTL = 5 * time.Minute

// UserStore caches preference lookups of the wrapped store.
// Only hits are cached; a missing user is looked up again next time.
type UserStore struct {
	next  ports.UserStore
	cache *gocache.Cache
}

var _ ports.UserStore = (*UserStore)(nil)

// NewUserStore wraps next with a preference cache.
// A non-positive ttl uses DefaultPreferenceTTL.
func NewUserStore(next ports.UserStore, ttl time.Duration) *UserStore {
	if ttl <= 0 {
		ttl = DefaultPreferenceTTL
	}
	return &UserStore{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// GetPreferences serves from cache when possible.
func (s *UserStore) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	if v, ok := s.cache.Get(userID); ok {
		return v.(domain.Preferences), nil
	}

	prefs, err := s.next.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(userID, prefs)
	return prefs, nil
}

// CreateUser writes through and drops any cached preferences.
func (s *UserStore) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.next.CreateUser(ctx, user); err != nil {
		return err
	}
	s.cache.Delete(user.ID)
	return nil
}

// GetUser is not cached.
func (s *UserStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.next.GetUser(ctx, userID)
}

// Invalidate drops the cached preferences of a user.
func (s *UserStore) Invalidate(userID string) {
	s.cache.Delete(userID)
}
