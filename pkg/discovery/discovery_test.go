package discovery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/toria/pkg/adapters/memory"
	"github.com/aretw0/toria/pkg/discovery"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*discovery.Service, *memory.DocumentStore) {
	t.Helper()
	store := memory.NewDocumentStore()
	svc := discovery.NewService(store, discovery.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, svc.Seed(context.Background()))
	return svc, store
}

func TestSeed_OnlyWhenEmpty(t *testing.T) {
	svc, store := newService(t)
	require.NoError(t, svc.Seed(context.Background()))

	n, err := store.CountReels(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestSampleReels_StableIDs(t *testing.T) {
	a := discovery.SampleReels(fixedNow)
	b := discovery.SampleReels(fixedNow.Add(time.Hour))
	require.Len(t, a, 3)
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.NotEmpty(t, a[i].EmbedCode)
	}
}

func TestFeed(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	t.Run("Stored Location Is Case Insensitive", func(t *testing.T) {
		reels, err := svc.Feed(ctx, discovery.Query{Location: "delhi"})
		require.NoError(t, err)
		require.Len(t, reels, 1)
		assert.Equal(t, "Amazing Street Food in Delhi", reels[0].Title)
	})

	t.Run("Type Filter", func(t *testing.T) {
		reels, err := svc.Feed(ctx, discovery.Query{Type: domain.ReelFood})
		require.NoError(t, err)
		assert.Len(t, reels, 2)
	})

	t.Run("Unknown City Gets Generated Feed", func(t *testing.T) {
		reels, err := svc.Feed(ctx, discovery.Query{Location: "Jaipur", Type: domain.ReelPlace, Limit: 5})
		require.NoError(t, err)
		require.Len(t, reels, 5)
		for _, r := range reels {
			assert.Equal(t, "Jaipur", r.Location)
			assert.Equal(t, domain.ReelPlace, r.Type)
		}

		again, err := svc.Feed(ctx, discovery.Query{Location: "Jaipur", Type: domain.ReelPlace, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, reels[0].ID, again[0].ID)
	})

	t.Run("Default Limit", func(t *testing.T) {
		reels, err := svc.Feed(ctx, discovery.Query{Location: "Goa"})
		require.NoError(t, err)
		assert.Len(t, reels, discovery.DefaultLimit)
	})
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, discovery.DefaultLimit, discovery.ClampLimit(0))
	assert.Equal(t, discovery.DefaultLimit, discovery.ClampLimit(-3))
	assert.Equal(t, 7, discovery.ClampLimit(7))
	assert.Equal(t, discovery.MaxLimit, discovery.ClampLimit(500))
}

func TestUpvoteAndSave(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	reels, err := svc.Feed(ctx, discovery.Query{Location: "Mumbai"})
	require.NoError(t, err)
	require.Len(t, reels, 1)
	id := reels[0].ID

	require.NoError(t, svc.Upvote(ctx, id))
	assert.True(t, errors.Is(svc.Upvote(ctx, "missing"), domain.ErrNotFound))

	saved, err := svc.Save(ctx, "u1", id)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.Save(ctx, "u1", id)
	require.NoError(t, err)
	assert.False(t, saved, "second save is a no-op")

	list, err := svc.Saved(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 90, list[0].Upvotes)
	assert.Equal(t, 33, list[0].Saves)
}
