package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
)

// Loader fetches the data a turn is personalized with.
type Loader struct {
	preferences ports.PreferenceStore
	itineraries ports.ItineraryStore
}

// NewLoader creates a Loader. Either store may be nil, in which case
// the corresponding data is always reported as absent.
func NewLoader(preferences ports.PreferenceStore, itineraries ports.ItineraryStore) *Loader {
	return &Loader{
		preferences: preferences,
		itineraries: itineraries,
	}
}

// Preferences returns the stored preferences of userID.
func (l *Loader) Preferences(ctx context.Context, userID string) (domain.Preferences, error) {
	if l.preferences == nil {
		return nil, domain.ErrNotFound
	}
	prefs, err := l.preferences.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences for %s: %w", userID, err)
	}
	return prefs, nil
}

// Itinerary returns the itinerary with the given ID if, and only if, it belongs to userID.
func (l *Loader) Itinerary(ctx context.Context, itineraryID, userID string) (*domain.Itinerary, error) {
	if l.itineraries == nil {
		return nil, domain.ErrNotFound
	}
	it, err := l.itineraries.GetItinerary(ctx, itineraryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load itinerary %s: %w", itineraryID, err)
	}
	if it == nil || it.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return it, nil
}
