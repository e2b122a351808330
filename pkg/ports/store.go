package ports

import (
	"context"
	"time"

	"github.com/aretw0/toria/pkg/domain"
)

// PreferenceStore loads stored user preferences.
type PreferenceStore interface {
	// GetPreferences returns domain.ErrNotFound if the user does not exist.
	GetPreferences(ctx context.Context, userID string) (domain.Preferences, error)
}

// ItineraryStore loads a single itinerary filtered by owner.
type ItineraryStore interface {
	// GetItinerary returns domain.ErrNotFound if no itinerary with that ID belongs to userID.
	GetItinerary(ctx context.Context, itineraryID, userID string) (*domain.Itinerary, error)
}

// UserStore persists travellers.
type UserStore interface {
	PreferenceStore
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// DayPlanStore persists day plans.
type DayPlanStore interface {
	ItineraryStore
	CreateDayPlan(ctx context.Context, plan *domain.Itinerary) error
	ListDayPlans(ctx context.Context, userID string) ([]domain.Itinerary, error)
	ListDayPlansByStatus(ctx context.Context, userID string, status domain.PlanStatus) ([]domain.Itinerary, error)
	// UpdateDayPlanStatus returns domain.ErrNotFound for an unknown plan.
	UpdateDayPlanStatus(ctx context.Context, planID string, status domain.PlanStatus) error
	// ListUpcomingTrips returns upcoming plans dated within [from, to].
	ListUpcomingTrips(ctx context.Context, from, to time.Time, limit int) ([]domain.Itinerary, error)
}

// ReelStore persists discovery content and interactions with it.
type ReelStore interface {
	// ListReels filters by a case-insensitive location substring and an exact type.
	// Empty filters match everything.
	ListReels(ctx context.Context, location string, reelType domain.ReelType, limit int) ([]domain.Reel, error)
	InsertReels(ctx context.Context, reels ...domain.Reel) error
	CountReels(ctx context.Context) (int64, error)
	// UpvoteReel returns domain.ErrNotFound for an unknown reel.
	UpvoteReel(ctx context.Context, reelID string) error
	// SaveReel bookmarks a reel and bumps its save counter.
	// It reports false when the user had already saved it.
	SaveReel(ctx context.Context, saved *domain.SavedReel) (bool, error)
	ListSavedReels(ctx context.Context, userID string) ([]domain.Reel, error)
}

// NotificationStore persists notification records.
type NotificationStore interface {
	InsertNotification(ctx context.Context, n *domain.Notification) error
	// ListNotifications returns the newest notifications first.
	ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	// HasTripNotification reports whether a notice of kind was already
	// recorded for the user's trip (matched on data.trip_id and data.type).
	HasTripNotification(ctx context.Context, userID, tripID, kind string) (bool, error)
}

// DocumentStore is the full document-store surface used by the HTTP layer.
type DocumentStore interface {
	UserStore
	DayPlanStore
	ReelStore
	NotificationStore
	Ping(ctx context.Context) error
}
