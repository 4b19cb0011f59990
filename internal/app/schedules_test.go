package app_test

import (
	"testing"
	"time"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestSchedules(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	newBackend := func() *fakeBackend {
		backend := newFakeBackend()
		backend.schedules[1] = domain.Schedule{
			ID:       1,
			DateTime: time.Date(2026, time.March, 20, 19, 0, 0, 0, time.UTC),
			Location: "Mangwon",
			Status:   domain.ScheduleStatusProposed,
		}
		backend.schedules[2] = domain.Schedule{
			ID:       2,
			DateTime: time.Date(2026, time.March, 27, 19, 0, 0, 0, time.UTC),
			Location: "Hapjeong",
			Status:   domain.ScheduleStatusFirstVoteInProgress,
		}
		return backend
	}

	t.Run("all schedules span a year ahead", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)

		schedules, err := cache.FetchQuery(ctx, client, app.SchedulesByStatusQuery(backend, "", nowFunc))
		require.NoError(t, err)
		require.Len(t, schedules, 2)
		require.Equal(t, "1970-01-01", backend.rangeFrom)
		require.Equal(t, "2027-03-14", backend.rangeTo)
		require.Equal(t, 0, backend.callCount("ListSchedulesByStatus"))
	})

	t.Run("filtered by status", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)

		schedules, err := cache.FetchQuery(ctx, client, app.SchedulesByStatusQuery(backend, domain.ScheduleStatusFirstVoteInProgress, nowFunc))
		require.NoError(t, err)
		require.Len(t, schedules, 1)
		require.Equal(t, "Hapjeong", schedules[0].Location)
	})

	t.Run("confirming refreshes detail and lists", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)

		detailSub := cache.SubscribeQuery(ctx, client, app.ScheduleQuery(backend, 2), func(cache.Snapshot[domain.Schedule]) {})
		defer detailSub.Unsubscribe()
		votingSub := cache.SubscribeQuery(ctx, client, app.ActiveFirstVoteSchedulesQuery(backend), func(cache.Snapshot[[]domain.Schedule]) {})
		defer votingSub.Unsubscribe()
		_, err := cache.FetchQuery(ctx, client, app.ConfirmedSchedulesQuery(backend))
		require.NoError(t, err)
		client.Wait()

		_, err = app.BuildCloseFirstVote(client, backend)(ctx, 2)
		require.NoError(t, err)
		schedule, err := app.BuildConfirmSchedule(client, backend)(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, domain.ScheduleStatusConfirmed, schedule.Status)

		detail, ok := cache.PeekQuery(client, app.ScheduleQuery(backend, 2))
		require.True(t, ok)
		require.Equal(t, domain.ScheduleStatusConfirmed, detail.Data.Status)
		require.False(t, detail.Stale)

		voting, ok := cache.PeekQuery(client, app.ActiveFirstVoteSchedulesQuery(backend))
		require.True(t, ok)
		require.Empty(t, voting.Data)

		// Not observed, so only marked
		confirmed, ok := client.Get(app.ConfirmedSchedulesKey())
		require.True(t, ok)
		require.True(t, confirmed.Stale)
	})

	t.Run("delete removes the detail", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)

		_, err := cache.FetchQuery(ctx, client, app.ScheduleQuery(backend, 1))
		require.NoError(t, err)
		_, err = cache.FetchQuery(ctx, client, app.ParticipationRateQuery(backend, 1))
		require.NoError(t, err)
		_, err = cache.FetchQuery(ctx, client, app.SchedulesByStatusQuery(backend, "", nowFunc))
		require.NoError(t, err)

		require.NoError(t, app.BuildDeleteSchedule(client, backend)(ctx, 1))

		_, ok := client.Get(app.ScheduleKey(1))
		require.False(t, ok)
		_, ok = client.Get(app.ParticipationRateKey(1))
		require.False(t, ok)
		list, ok := client.Get(app.SchedulesByStatusKey(""))
		require.True(t, ok)
		require.True(t, list.Stale)
	})

	t.Run("create invalidates lists only", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)

		_, err := cache.FetchQuery(ctx, client, app.ScheduleQuery(backend, 1))
		require.NoError(t, err)
		_, err = cache.FetchQuery(ctx, client, app.SchedulesByStatusQuery(backend, domain.ScheduleStatusProposed, nowFunc))
		require.NoError(t, err)

		_, err = app.BuildCreateSchedule(client, backend)(ctx, domain.ScheduleDraft{
			DateTime:          time.Date(2026, time.April, 3, 19, 0, 0, 0, time.UTC),
			Location:          "Sangam",
			MinParticipants:   10,
			FirstVoteDeadline: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		detail, _ := client.Get(app.ScheduleKey(1))
		require.False(t, detail.Stale)
		list, _ := client.Get(app.SchedulesByStatusKey(domain.ScheduleStatusProposed))
		require.True(t, list.Stale)

		proposed, err := cache.FetchQuery(ctx, client, app.SchedulesByStatusQuery(backend, domain.ScheduleStatusProposed, nowFunc))
		require.NoError(t, err)
		require.Len(t, proposed, 2)
	})

	t.Run("cancel", func(t *testing.T) {
		t.Parallel()

		backend := newBackend()
		client := newCacheClient(t)
		_, err := cache.FetchQuery(ctx, client, app.ScheduleQuery(backend, 1))
		require.NoError(t, err)

		schedule, err := app.BuildCancelSchedule(client, backend)(ctx, 1, "Rain")
		require.NoError(t, err)
		require.Equal(t, domain.ScheduleStatusCancelled, schedule.Status)

		detail, _ := client.Get(app.ScheduleKey(1))
		require.True(t, detail.Stale)
	})
}
