package app_test

import (
	"testing"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	newBackend := func() *fakeBackend {
		backend := newFakeBackend()
		backend.badges = []domain.Badge{{ID: 1, Name: "Rookie"}}
		backend.session = domain.Session{
			AccessToken: "at",
			User:        domain.Member{ID: 3, Name: "Minji", Role: domain.RoleAdmin},
		}
		return backend
	}

	t.Run("login installs the token and starts from an empty cache", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)
		_, err := cache.FetchQuery(ctx, client, app.BadgesQuery(backend))
		require.NoError(t, err)

		session := app.NewSession(client, backend)
		require.False(t, session.LoggedIn())

		require.NoError(t, session.SendCode(ctx, "minji@example.com"))
		require.NoError(t, session.VerifyCode(ctx, "minji@example.com", "123456"))
		current, err := session.Login(ctx, "minji@example.com", "123456")
		require.NoError(t, err)
		require.Equal(t, "Minji", current.User.Name)

		require.True(t, session.LoggedIn())
		require.Equal(t, 0, client.Store().Len())

		stored, ok := session.Current()
		require.True(t, ok)
		require.Equal(t, current, stored)
	})

	t.Run("failed login keeps the old state", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)
		_, err := cache.FetchQuery(ctx, client, app.BadgesQuery(backend))
		require.NoError(t, err)
		session := app.NewSession(client, backend)

		backend.fail(assert.AnError)
		_, err = session.Login(ctx, "minji@example.com", "000000")
		require.ErrorIs(t, err, assert.AnError)

		require.False(t, session.LoggedIn())
		require.Equal(t, 1, client.Store().Len())
		_, ok := session.Current()
		require.False(t, ok)
	})

	t.Run("logout clears token and cache", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)
		session := app.NewSession(client, backend)
		_, err := session.Login(ctx, "minji@example.com", "123456")
		require.NoError(t, err)
		_, err = cache.FetchQuery(ctx, client, app.BadgesQuery(backend))
		require.NoError(t, err)

		session.Logout(ctx)

		require.False(t, session.LoggedIn())
		require.Equal(t, 0, client.Store().Len())
		_, ok := session.Current()
		require.False(t, ok)
	})

	t.Run("rejected token logs out", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)
		session := app.NewSession(client, backend)
		session.Resume("from-env")
		require.True(t, session.LoggedIn())

		var updates []cache.Snapshot[[]domain.Badge]
		sub := cache.SubscribeQuery(ctx, client, app.BadgesQuery(backend), func(s cache.Snapshot[[]domain.Badge]) {
			updates = append(updates, s)
		})
		defer sub.Unsubscribe()
		client.Wait()

		backend.rejectToken(ctx)

		require.False(t, session.LoggedIn())
		_, ok := sub.Current()
		require.False(t, ok)
		last := updates[len(updates)-1]
		require.Equal(t, cache.StatusIdle, last.Status)
		require.Nil(t, last.Data)
	})
}
