package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/toria/pkg/adapters/cache"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	args := m.Called(ctx, userID)
	prefs, _ := args.Get(0).(domain.Preferences)
	return prefs, args.Error(1)
}

func (m *mockUsers) CreateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUsers) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func TestUserStore_CachesHits(t *testing.T) {
	next := new(mockUsers)
	ctx := context.Background()
	next.On("GetPreferences", ctx, "u1").Return(domain.Preferences{"diet": "vegan"}, nil).Once()

	store := cache.NewUserStore(next, time.Minute)

	for i := 0; i < 3; i++ {
		prefs, err := store.GetPreferences(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "vegan", prefs["diet"])
	}
	next.AssertNumberOfCalls(t, "GetPreferences", 1)
}

func TestUserStore_DoesNotCacheMisses(t *testing.T) {
	next := new(mockUsers)
	ctx := context.Background()
	next.On("GetPreferences", ctx, "ghost").Return(nil, domain.ErrNotFound).Twice()

	store := cache.NewUserStore(next, time.Minute)

	_, err := store.GetPreferences(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetPreferences(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	next.AssertExpectations(t)
}

func TestUserStore_CreateInvalidates(t *testing.T) {
	next := new(mockUsers)
	ctx := context.Background()
	user := &domain.User{ID: "u1"}
	next.On("GetPreferences", ctx, "u1").Return(domain.Preferences{"diet": "vegan"}, nil).Once()
	next.On("CreateUser", ctx, user).Return(nil).Once()
	next.On("GetPreferences", ctx, "u1").Return(domain.Preferences{"diet": "jain"}, nil).Once()

	store := cache.NewUserStore(next, time.Minute)

	_, err := store.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, user))

	prefs, err := store.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "jain", prefs["diet"])
	next.AssertExpectations(t)
}
