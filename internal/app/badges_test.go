package app_test

import (
	"sync"
	"testing"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestBadgeMutations(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	newBackend := func() *fakeBackend {
		backend := newFakeBackend()
		backend.badges = []domain.Badge{
			{ID: 1, Name: "Rookie", Category: domain.BadgeCategoryCommemorative, Grade: domain.BadgeGradeBronze},
			{ID: 2, Name: "Iron Man", Category: domain.BadgeCategoryConsecutiveParticipation, Grade: domain.BadgeGradeGold},
		}
		return backend
	}

	names := func(badges []domain.Badge) []string {
		names := make([]string, 0, len(badges))
		for _, badge := range badges {
			names = append(names, badge.Name)
		}
		return names
	}

	t.Run("renaming a badge updates the subscribed list", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)

		var mu sync.Mutex
		var latest cache.Snapshot[[]domain.Badge]
		sub := cache.SubscribeQuery(ctx, client, app.BadgesQuery(backend), func(s cache.Snapshot[[]domain.Badge]) {
			mu.Lock()
			defer mu.Unlock()
			latest = s
		})
		defer sub.Unsubscribe()
		client.Wait()

		mu.Lock()
		require.Equal(t, []string{"Rookie", "Iron Man"}, names(latest.Data))
		mu.Unlock()

		updateBadge := app.BuildUpdateBadge(client, backend)
		badge, err := updateBadge(ctx, 1, domain.BadgeUpdate{Name: ptr("Veteran")})
		require.NoError(t, err)
		require.Equal(t, "Veteran", badge.Name)

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, []string{"Veteran", "Iron Man"}, names(latest.Data))
		require.Equal(t, cache.StatusSuccess, latest.Status)
		require.False(t, latest.Stale)
		require.Equal(t, 2, backend.callCount("ListBadges"))
	})

	t.Run("unobserved list is refetched on next read", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)
		query := app.BadgesQuery(backend)

		_, err := cache.FetchQuery(ctx, client, query)
		require.NoError(t, err)

		_, err = app.BuildCreateBadge(client, backend)(ctx, domain.BadgeDraft{
			Name:     "Legend",
			Category: domain.BadgeCategorySpecialEvent,
			Grade:    domain.BadgeGradeLegendary,
		})
		require.NoError(t, err)
		require.Equal(t, 1, backend.callCount("ListBadges"))

		badges, err := cache.FetchQuery(ctx, client, query)
		require.NoError(t, err)
		require.Equal(t, []string{"Rookie", "Iron Man", "Legend"}, names(badges))
		require.Equal(t, 2, backend.callCount("ListBadges"))
	})

	t.Run("delete drops the badge detail", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)

		_, err := cache.FetchQuery(ctx, client, app.BadgeQuery(backend, 2))
		require.NoError(t, err)
		_, err = cache.FetchQuery(ctx, client, app.BadgesQuery(backend))
		require.NoError(t, err)

		require.NoError(t, app.BuildDeleteBadge(client, backend)(ctx, 2))

		_, ok := client.Get(app.BadgeKey(2))
		require.False(t, ok)
		entry, ok := client.Get(app.BadgesKey())
		require.True(t, ok)
		require.True(t, entry.Stale)
	})

	t.Run("failed mutation leaves the cache", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)
		_, err := cache.FetchQuery(ctx, client, app.BadgesQuery(backend))
		require.NoError(t, err)

		backend.fail(assert.AnError)
		_, err = app.BuildActivateBadge(client, backend)(ctx, 1)
		require.ErrorIs(t, err, assert.AnError)

		entry, ok := client.Get(app.BadgesKey())
		require.True(t, ok)
		require.False(t, entry.Stale)
	})

	t.Run("grant refreshes the member", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		backend.members[3] = domain.Member{ID: 3, Name: "Minji"}
		client := newCacheClient(t)
		_, err := cache.FetchQuery(ctx, client, app.MemberQuery(backend, 3))
		require.NoError(t, err)

		require.NoError(t, app.BuildGrantBadge(client, backend)(ctx, 1, 3))

		entry, ok := client.Get(app.MemberKey(3))
		require.True(t, ok)
		require.True(t, entry.Stale)
	})
}
