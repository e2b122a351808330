// Package discovery serves the reels feed: short travel videos filtered by
// city and type, with upvotes and per-user bookmarks.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/toria/internal/logging"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// reelNamespace makes generated reel IDs stable across restarts.
var reelNamespace = uuid.MustParse("6f1c9a52-3b7e-4c2d-9f0a-2d8e5b7c4a10")

// Query filters the feed. Zero values mean "any".
type Query struct {
	Location string
	Type     domain.ReelType
	Limit    int
}

// Service wraps a ReelStore with seeding and feed generation.
type Service struct {
	store  ports.ReelStore
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the time source used for new records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a discovery service.
func NewService(store ports.ReelStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed inserts the sample reels when the store is empty.
func (s *Service) Seed(ctx context.Context) error {
	n, err := s.store.CountReels(ctx)
	if err != nil {
		return fmt.Errorf("count reels: %w", err)
	}
	if n > 0 {
		return nil
	}

	if err := s.store.InsertReels(ctx, SampleReels(s.now().UTC())...); err != nil {
		return fmt.Errorf("seed reels: %w", err)
	}
	s.logger.Info("Seeded sample reels", "count", len(sampleReels))
	return nil
}

// Feed returns reels matching q. A city with no stored content gets a
// generated feed so the discovery screen is never empty.
func (s *Service) Feed(ctx context.Context, q Query) ([]domain.Reel, error) {
	limit := ClampLimit(q.Limit)

	reels, err := s.store.ListReels(ctx, q.Location, q.Type, limit)
	if err != nil {
		return nil, fmt.Errorf("list reels: %w", err)
	}
	if len(reels) > 0 || strings.TrimSpace(q.Location) == "" {
		return reels, nil
	}

	generated := lo.Filter(CityReels(q.Location, MaxLimit, s.now().UTC()), func(r domain.Reel, _ int) bool {
		return q.Type == "" || r.Type == q.Type
	})
	if len(generated) > limit {
		generated = generated[:limit]
	}
	return generated, nil
}

// Upvote increments a reel's upvotes. Unknown reels yield domain.ErrNotFound.
func (s *Service) Upvote(ctx context.Context, reelID string) error {
	return s.store.UpvoteReel(ctx, reelID)
}

// Save bookmarks a reel for a user. It reports false when already saved.
func (s *Service) Save(ctx context.Context, userID, reelID string) (bool, error) {
	saved, err := s.store.SaveReel(ctx, &domain.SavedReel{
		ID:      uuid.NewString(),
		UserID:  userID,
		ReelID:  reelID,
		SavedAt: s.now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("save reel: %w", err)
	}
	return saved, nil
}

// Saved returns the reels a user bookmarked.
func (s *Service) Saved(ctx context.Context, userID string) ([]domain.Reel, error) {
	return s.store.ListSavedReels(ctx, userID)
}

// ClampLimit applies DefaultLimit and MaxLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
