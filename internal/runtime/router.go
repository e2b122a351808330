package runtime

import (
	"context"
	"errors"

	"github.com/aretw0/toria/pkg/domain"
)

// Fallback reasons reported through domain.FallbackEvent.
const (
	ReasonPreferences = "preferences"
	ReasonItinerary   = "itinerary"
	ReasonGeneration  = "generation"
	ReasonEmptyReply  = "empty_reply"
	ReasonPipeline    = "pipeline"
)

// Degradation records a fetch failure that was swallowed during routing.
type Degradation struct {
	Reason string
	Err    error
}

// Routed is the context gathered for one turn.
type Routed struct {
	Mode        domain.Mode
	Preferences domain.Preferences
	Itinerary   *domain.Itinerary

	// Degraded lists the failures that were downgraded to "no data".
	// Plain absence (domain.ErrNotFound) is not a degradation.
	Degraded []Degradation
}

// Router classifies a turn and hydrates it via the Loader.
type Router struct {
	loader *Loader
}

// NewRouter creates a Router.
func NewRouter(loader *Loader) *Router {
	return &Router{loader: loader}
}

// Route normalizes mode and loads preferences and the optional itinerary.
// It never fails: every fetch error yields empty preferences or a nil itinerary.
func (r *Router) Route(ctx context.Context, userID string, mode domain.Mode, itineraryID *string) Routed {
	routed := Routed{
		Mode:        domain.ParseMode(string(mode)),
		Preferences: domain.Preferences{},
	}

	prefs, err := r.loader.Preferences(ctx, userID)
	switch {
	case err == nil && prefs != nil:
		routed.Preferences = prefs
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		routed.Degraded = append(routed.Degraded, Degradation{Reason: ReasonPreferences, Err: err})
	}

	if itineraryID == nil || *itineraryID == "" {
		return routed
	}

	it, err := r.loader.Itinerary(ctx, *itineraryID, userID)
	switch {
	case err == nil:
		routed.Itinerary = it
	case !errors.Is(err, domain.ErrNotFound):
		routed.Degraded = append(routed.Degraded, Degradation{Reason: ReasonItinerary, Err: err})
	}

	return routed
}
