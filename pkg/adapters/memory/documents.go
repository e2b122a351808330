package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/samber/lo"
)

// DocumentStore implements ports.DocumentStore in memory.
// It mirrors the collections of the Mongo store: users, day_plans, reels,
// saved_reels and notifications. Safe for concurrent use.
type DocumentStore struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	dayPlans      map[string]domain.Itinerary
	reels         []domain.Reel
	savedReels    []domain.SavedReel
	notifications []domain.Notification
	now           func() time.Time
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		users:    make(map[string]domain.User),
		dayPlans: make(map[string]domain.Itinerary),
		now:      time.Now,
	}
}

// Ping always succeeds.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return nil
}

// CreateUser stores a user, replacing any user with the same ID.
func (s *DocumentStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

// GetUser returns the user with the given ID.
func (s *DocumentStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

// GetPreferences returns the preferences of a user.
func (s *DocumentStore) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Preferences == nil {
		return domain.Preferences{}, nil
	}
	return u.Preferences, nil
}

// CreateDayPlan stores a day plan.
func (s *DocumentStore) CreateDayPlan(ctx context.Context, plan *domain.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dayPlans[plan.ID] = *plan
	return nil
}

// GetItinerary returns the day plan with the given ID when it belongs to userID.
func (s *DocumentStore) GetItinerary(ctx context.Context, itineraryID, userID string) (*domain.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.dayPlans[itineraryID]
	if !ok || plan.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &plan, nil
}

// ListDayPlans returns the plans of a user ordered by date.
func (s *DocumentStore) ListDayPlans(ctx context.Context, userID string) ([]domain.Itinerary, error) {
	return s.filterPlans(func(p domain.Itinerary) bool {
		return p.UserID == userID
	}, 0), nil
}

// ListDayPlansByStatus returns the plans of a user with the given status.
func (s *DocumentStore) ListDayPlansByStatus(ctx context.Context, userID string, status domain.PlanStatus) ([]domain.Itinerary, error) {
	return s.filterPlans(func(p domain.Itinerary) bool {
		return p.UserID == userID && p.Status == status
	}, 0), nil
}

// UpdateDayPlanStatus changes the status of a plan.
func (s *DocumentStore) UpdateDayPlanStatus(ctx context.Context, planID string, status domain.PlanStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.dayPlans[planID]
	if !ok {
		return domain.ErrNotFound
	}
	plan.Status = status
	plan.UpdatedAt = s.now().UTC()
	s.dayPlans[planID] = plan
	return nil
}

// ListUpcomingTrips returns upcoming plans of any user dated within [from, to].
func (s *DocumentStore) ListUpcomingTrips(ctx context.Context, from, to time.Time, limit int) ([]domain.Itinerary, error) {
	return s.filterPlans(func(p domain.Itinerary) bool {
		return p.Status == domain.PlanUpcoming && !p.Date.Before(from) && !p.Date.After(to)
	}, limit), nil
}

func (s *DocumentStore) filterPlans(keep func(domain.Itinerary) bool, limit int) []domain.Itinerary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := lo.Filter(lo.Values(s.dayPlans), func(p domain.Itinerary, _ int) bool {
		return keep(p)
	})
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Date.Equal(plans[j].Date) {
			return plans[i].ID < plans[j].ID
		}
		return plans[i].Date.Before(plans[j].Date)
	})
	if limit > 0 && len(plans) > limit {
		plans = plans[:limit]
	}
	return plans
}

// ListReels filters reels by location substring and type.
func (s *DocumentStore) ListReels(ctx context.Context, location string, reelType domain.ReelType, limit int) ([]domain.Reel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	location = strings.ToLower(location)
	reels := lo.Filter(s.reels, func(r domain.Reel, _ int) bool {
		if location != "" && !strings.Contains(strings.ToLower(r.Location), location) {
			return false
		}
		return reelType == "" || r.Type == reelType
	})
	if limit > 0 && len(reels) > limit {
		reels = reels[:limit]
	}
	return reels, nil
}

// InsertReels appends reels to the feed.
func (s *DocumentStore) InsertReels(ctx context.Context, reels ...domain.Reel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reels = append(s.reels, reels...)
	return nil
}

// CountReels returns the number of stored reels.
func (s *DocumentStore) CountReels(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.reels)), nil
}

// UpvoteReel increments the upvote counter of a reel.
func (s *DocumentStore) UpvoteReel(ctx context.Context, reelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(s.reels, func(r domain.Reel) bool { return r.ID == reelID })
	if !ok {
		return domain.ErrNotFound
	}
	s.reels[idx].Upvotes++
	return nil
}

// SaveReel bookmarks a reel for a user once.
func (s *DocumentStore) SaveReel(ctx context.Context, saved *domain.SavedReel) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lo.ContainsBy(s.savedReels, func(sr domain.SavedReel) bool {
		return sr.UserID == saved.UserID && sr.ReelID == saved.ReelID
	}) {
		return false, nil
	}
	s.savedReels = append(s.savedReels, *saved)

	if _, idx, ok := lo.FindIndexOf(s.reels, func(r domain.Reel) bool { return r.ID == saved.ReelID }); ok {
		s.reels[idx].Saves++
	}
	return true, nil
}

// ListSavedReels returns the reels a user bookmarked.
func (s *DocumentStore) ListSavedReels(ctx context.Context, userID string) ([]domain.Reel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := lo.FilterMap(s.savedReels, func(sr domain.SavedReel, _ int) (string, bool) {
		return sr.ReelID, sr.UserID == userID
	})
	return lo.Filter(s.reels, func(r domain.Reel, _ int) bool {
		return lo.Contains(ids, r.ID)
	}), nil
}

// InsertNotification stores a notification record.
func (s *DocumentStore) InsertNotification(ctx context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, *n)
	return nil
}

// HasTripNotification reports whether a notice of kind exists for the trip.
func (s *DocumentStore) HasTripNotification(ctx context.Context, userID, tripID, kind string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.ContainsBy(s.notifications, func(n domain.Notification) bool {
		return n.UserID == userID && n.Data["trip_id"] == tripID && n.Data["type"] == kind
	}), nil
}

// ListNotifications returns the newest notifications of a user first.
func (s *DocumentStore) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := lo.Filter(s.notifications, func(n domain.Notification, _ int) bool {
		return n.UserID == userID
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].SentAt.After(list[j].SentAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
