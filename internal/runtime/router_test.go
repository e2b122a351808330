package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/toria/internal/runtime"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leakyStore ignores the owner filter, returning any itinerary by ID.
type leakyStore struct{ it *domain.Itinerary }

func (s leakyStore) GetItinerary(ctx context.Context, id, userID string) (*domain.Itinerary, error) {
	return s.it, nil
}

func TestRouter_Route(t *testing.T) {
	store := &fakeStore{
		prefs:       map[string]domain.Preferences{"u1": {"diet": "vegetarian"}},
		itineraries: map[string]*domain.Itinerary{"it1": sampleItinerary()},
	}
	router := runtime.NewRouter(runtime.NewLoader(store, store))
	ctx := context.Background()

	t.Run("hydrates preferences and itinerary", func(t *testing.T) {
		routed := router.Route(ctx, "u1", domain.ModeStartMyDay, ptr("it1"))
		assert.Equal(t, domain.ModeStartMyDay, routed.Mode)
		assert.Equal(t, "vegetarian", routed.Preferences["diet"])
		require.NotNil(t, routed.Itinerary)
		assert.Equal(t, "it1", routed.Itinerary.ID)
		assert.Empty(t, routed.Degraded)
	})

	t.Run("unknown user gets empty preferences", func(t *testing.T) {
		routed := router.Route(ctx, "nobody", domain.ModeGeneral, nil)
		assert.NotNil(t, routed.Preferences)
		assert.Empty(t, routed.Preferences)
		assert.Nil(t, routed.Itinerary)
		assert.Empty(t, routed.Degraded, "absence is not a failure")
	})

	t.Run("unknown mode normalizes to general", func(t *testing.T) {
		routed := router.Route(ctx, "u1", "bogus", nil)
		assert.Equal(t, domain.ModeGeneral, routed.Mode)
	})

	t.Run("empty itinerary id is ignored", func(t *testing.T) {
		routed := router.Route(ctx, "u1", domain.ModeProfileDayPlans, ptr(""))
		assert.Nil(t, routed.Itinerary)
	})
}

func TestRouter_SwallowsFetchErrors(t *testing.T) {
	cause := errors.New("socket closed")
	store := &fakeStore{err: cause}
	router := runtime.NewRouter(runtime.NewLoader(store, store))

	routed := router.Route(context.Background(), "u1", domain.ModeStartMyDay, ptr("it1"))

	assert.Empty(t, routed.Preferences)
	assert.Nil(t, routed.Itinerary)
	require.Len(t, routed.Degraded, 2)
	assert.Equal(t, runtime.ReasonPreferences, routed.Degraded[0].Reason)
	assert.ErrorIs(t, routed.Degraded[0].Err, cause)
	assert.Equal(t, runtime.ReasonItinerary, routed.Degraded[1].Reason)
}

func TestLoader_EnforcesOwnership(t *testing.T) {
	loader := runtime.NewLoader(nil, leakyStore{it: sampleItinerary()})

	it, err := loader.Itinerary(context.Background(), "it1", "intruder")
	assert.Nil(t, it)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	it, err = loader.Itinerary(context.Background(), "it1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", it.UserID)
}

func TestLoader_NilStores(t *testing.T) {
	loader := runtime.NewLoader(nil, nil)

	_, err := loader.Preferences(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = loader.Itinerary(context.Background(), "it1", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
