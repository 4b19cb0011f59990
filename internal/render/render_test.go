package render_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/futsalhub/clubadmin/internal/domain"
	"github.com/futsalhub/clubadmin/internal/render"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var now = time.Date(2026, time.March, 14, 19, 30, 0, 0, time.UTC)

func newRenderer() (*render.Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return render.New(&buf, false, time.UTC), &buf
}

func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("rows", func(t *testing.T) {
		t.Parallel()

		r, buf := newRenderer()
		require.NoError(t, r.Badges([]domain.Badge{
			{ID: 1, Name: "Rookie", Category: domain.BadgeCategoryCommemorative, Grade: domain.BadgeGradeBronze, Active: true},
			{ID: 2, Name: "Iron Man", Category: domain.BadgeCategoryConsecutiveParticipation, Grade: domain.BadgeGradeGold},
		}))

		out := buf.String()
		require.NotContains(t, out, "\x1b[", "no escape codes without colour")
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		// Top border, header, separator, two rows, bottom border
		require.Len(t, lines, 6)
		require.Contains(t, lines[1], "Name")
		require.Contains(t, lines[3], "Rookie")
		require.Contains(t, lines[3], "yes")
		require.Contains(t, lines[4], "Iron Man")
		require.Contains(t, lines[4], "CONSECUTIVE_PARTICIPATION")
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		r, buf := newRenderer()
		require.NoError(t, r.Schedules(nil))
		require.Equal(t, "(none)\n", buf.String())
	})

	t.Run("page footer", func(t *testing.T) {
		t.Parallel()

		r, buf := newRenderer()
		require.NoError(t, r.Members(domain.Page[domain.Member]{
			Items:         []domain.Member{{ID: 3, Name: "Minji", MaskedEmail: "mi***@example.com"}},
			TotalElements: 41,
			TotalPages:    3,
			Number:        1,
		}))
		require.Contains(t, buf.String(), "mi***@example.com")
		require.True(t, strings.HasSuffix(buf.String(), "page 2 of 3, 41 total\n"))
	})

	t.Run("invite key states", func(t *testing.T) {
		t.Parallel()

		r, buf := newRenderer()
		usedAt := now.Add(-time.Hour)
		require.NoError(t, r.InviteKeys([]domain.InviteKey{
			{Value: "AAAA", ExpiresAt: now.Add(time.Hour)},
			{Value: "BBBB", ExpiresAt: now.Add(time.Hour), Used: true, UsedAt: &usedAt},
			{Value: "CCCC", ExpiresAt: now.Add(-time.Hour)},
		}, now))

		lines := strings.Split(buf.String(), "\n")
		require.Contains(t, lines[3], "active")
		require.Contains(t, lines[4], "used")
		require.Contains(t, lines[4], "2026-03-14 18:30")
		require.Contains(t, lines[5], "expired")
	})
}

func TestDetailViews(t *testing.T) {
	t.Parallel()

	t.Run("schedule", func(t *testing.T) {
		t.Parallel()

		r, buf := newRenderer()
		reason := "Rain"
		rate := 0.625
		require.NoError(t, r.Schedule(domain.Schedule{
			ID:                 9,
			DateTime:           time.Date(2026, time.March, 20, 19, 0, 0, 0, time.UTC),
			Location:           "Mangwon",
			Status:             domain.ScheduleStatusCancelled,
			MinParticipants:    10,
			CancellationReason: &reason,
			CancelledBy:        &domain.Member{Name: "Minji"},
		}, &rate))

		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		require.Equal(t, 9, decoded["id"])
		require.Equal(t, "2026-03-20 19:00", decoded["dateTime"])
		require.Equal(t, "CANCELLED", decoded["status"])
		require.Equal(t, "62.5%", decoded["firstVoteParticipation"])
		require.Equal(t, "Rain", decoded["cancellationReason"])
		require.Equal(t, "Minji", decoded["cancelledBy"])
		require.NotContains(t, decoded, "memo")
		require.NotContains(t, decoded, "cancelledAt")
	})

	t.Run("settlement with history", func(t *testing.T) {
		t.Parallel()

		r, buf := newRenderer()
		require.NoError(t, r.Settlement(
			domain.Settlement{ID: 4, ScheduleID: 9, TotalCost: 120000, Status: "PENDING"},
			[]domain.SettlementEvent{{"action": "CREATED"}},
		))

		var decoded struct {
			TotalCost int64            `yaml:"totalCost"`
			CreatedAt string           `yaml:"createdAt"`
			History   []map[string]any `yaml:"history"`
		}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		require.EqualValues(t, 120000, decoded.TotalCost)
		require.Equal(t, "-", decoded.CreatedAt)
		require.Equal(t, []map[string]any{{"action": "CREATED"}}, decoded.History)
	})

	t.Run("times use the configured location", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := render.New(&buf, false, time.FixedZone("KST", 9*60*60))
		require.NoError(t, r.Member(domain.Member{ID: 3, CreatedAt: time.Date(2025, time.September, 1, 1, 0, 0, 0, time.UTC)}))
		require.Contains(t, buf.String(), "joined: 2025-09-01 10:00")
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	r, buf := newRenderer()
	r.Update(`["badges"]`, "success", true, true, 7, nil)
	r.Update(`["badges"]`, "error", false, false, 8, errors.New("backend unavailable"))

	require.Equal(t,
		"#7 [\"badges\"] success stale fetching\n#8 [\"badges\"] error: backend unavailable\n",
		buf.String(),
	)
}
