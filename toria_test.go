package toria_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/toria"
	"github.com/aretw0/toria/pkg/adapters/llm"
	"github.com/aretw0/toria/pkg/adapters/memory"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &domain.User{
		ID:          "u1",
		DisplayName: "Asha",
		Preferences: domain.Preferences{"diet": "vegetarian"},
	}))
	require.NoError(t, store.CreateDayPlan(ctx, &domain.Itinerary{
		ID:     "it1",
		UserID: "u1",
		Title:  "Pink City Day",
		City:   "Jaipur",
		Status: domain.PlanCurrent,
		Stops:  []domain.Stop{{ID: "s1", Name: "Amber Fort"}},
	}))
	return store
}

func TestNew_RequiresGenerator(t *testing.T) {
	_, err := toria.New(nil, nil, nil)
	assert.Error(t, err)
}

type recordingLocker struct {
	ttls []time.Duration
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.ttls = append(l.ttls, ttl)
	return func(context.Context) error { return nil }, nil
}

func TestNew_LockerNeedsGeneratorTimeout(t *testing.T) {
	_, err := toria.New(nil, nil, llm.NewEcho(),
		toria.WithLocker(&recordingLocker{}),
		toria.WithGeneratorTimeout(0),
	)
	assert.ErrorIs(t, err, toria.ErrUnboundedLock)

	_, err = toria.New(nil, nil, llm.NewEcho(), toria.WithGeneratorTimeout(0))
	assert.NoError(t, err, "an unbounded timeout is fine without a distributed lock")
}

func TestNew_LockOutlivesGeneratorTimeout(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		timeout time.Duration
		want    time.Duration
	}{
		{timeout: 30 * time.Second, want: 60 * time.Second},
		{timeout: 2 * time.Minute, want: 2*time.Minute + 15*time.Second},
	} {
		locker := &recordingLocker{}
		a, err := toria.New(nil, nil, llm.NewEcho(),
			toria.WithLocker(locker),
			toria.WithGeneratorTimeout(tc.timeout),
		)
		require.NoError(t, err)

		a.GeneralTravelChat(ctx, "u1", "hi")
		require.NotEmpty(t, locker.ttls)
		assert.Equal(t, tc.want, locker.ttls[0], tc.timeout)
		assert.Greater(t, locker.ttls[0], tc.timeout)
	}
}

func TestAssistant_GeneralTravelChat(t *testing.T) {
	store := seededStore(t)
	a, err := toria.New(store, store, llm.NewEcho())
	require.NoError(t, err)

	resp := a.GeneralTravelChat(context.Background(), "u1", "Best chai in Jaipur?")

	assert.Contains(t, resp.Message, "Best chai in Jaipur?")
	assert.Empty(t, resp.Actions)
	assert.Equal(t, domain.ModeGeneral, resp.Context.Mode)
	assert.Equal(t, "u1", resp.Context.UserID)
	assert.Nil(t, resp.Context.ItineraryID)
}

func TestAssistant_ChatFromStartMyDay(t *testing.T) {
	store := seededStore(t)
	a, err := toria.New(store, store, llm.NewEcho())
	require.NoError(t, err)

	t.Run("Requires Itinerary", func(t *testing.T) {
		_, err := a.ChatFromStartMyDay(context.Background(), "u1", "hi", "")
		assert.ErrorIs(t, err, domain.ErrItineraryRequired)

		_, err = a.History(context.Background(), "u1", domain.ModeStartMyDay)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "rejected calls must not touch history")
	})

	t.Run("With Itinerary", func(t *testing.T) {
		resp, err := a.ChatFromStartMyDay(context.Background(), "u1", "What's next?", "it1")
		require.NoError(t, err)

		require.Len(t, resp.Actions, 3)
		assert.Equal(t, domain.ActionNearbySuggestions, resp.Actions[0].Type)
		assert.Equal(t, domain.ActionCheckDone, resp.Actions[1].Type)
		assert.Equal(t, domain.ActionGetDirections, resp.Actions[2].Type)
		require.NotNil(t, resp.Context.ItineraryID)
		assert.Equal(t, "it1", *resp.Context.ItineraryID)
	})
}

func TestAssistant_ChatFromProfileDayPlans(t *testing.T) {
	store := seededStore(t)
	a, err := toria.New(store, store, llm.NewEcho())
	require.NoError(t, err)

	resp := a.ChatFromProfileDayPlans(context.Background(), "u1", "Plan something new", nil)

	require.Len(t, resp.Actions, 2)
	assert.Equal(t, domain.ActionCreateNewPlan, resp.Actions[0].Type)
	assert.Equal(t, domain.ActionModifyExisting, resp.Actions[1].Type)
	assert.Nil(t, resp.Actions[1].Payload["itinerary_id"])
}

func TestAssistant_HistoryIsPerMode(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	history := memory.NewHistoryStore()
	a, err := toria.New(nil, nil, llm.NewEcho(),
		toria.WithHistoryStore(history),
		toria.WithClock(func() time.Time { return at }),
	)
	require.NoError(t, err)

	ctx := context.Background()
	a.GeneralTravelChat(ctx, "u1", "one")
	a.GeneralTravelChat(ctx, "u1", "two")
	a.ChatFromProfileDayPlans(ctx, "u1", "three", nil)

	general, err := a.History(ctx, "u1", domain.ModeGeneral)
	require.NoError(t, err)
	assert.Len(t, general, 4)
	assert.True(t, at.Equal(general[0].CreatedAt))

	profile, err := a.History(ctx, "u1", domain.ModeProfileDayPlans)
	require.NoError(t, err)
	assert.Len(t, profile, 2)

	keys, err := history.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1_general", "u1_profile_dayplans"}, keys)
}

func TestAssistant_GeneratorFailureFallsBack(t *testing.T) {
	failing := ports.GeneratorFunc(func(ctx context.Context, _ string, _ []domain.Message) (string, error) {
		return "", domain.ErrGeneration
	})
	var reasons []string
	a, err := toria.New(nil, nil, failing, toria.WithLifecycleHooks(domain.LifecycleHooks{
		OnFallback: func(_ context.Context, e *domain.FallbackEvent) {
			reasons = append(reasons, e.Reason)
		},
	}))
	require.NoError(t, err)

	resp := a.GeneralTravelChat(context.Background(), "u1", "hello")

	assert.Equal(t, "I'm having trouble answering right now. Could you try asking again?", resp.Message)
	assert.Empty(t, resp.Context.Error)
	assert.Contains(t, reasons, "generation")
}
