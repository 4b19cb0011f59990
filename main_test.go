package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/futsalhub/clubadmin/internal/adapters/backend"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/logging"
	"github.com/futsalhub/clubadmin/internal/render"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 14, 19, 30, 0, 0, time.UTC)

// clubBackend serves a tiny in-memory club over the HttpClient interface.
type clubBackend struct {
	mu        sync.Mutex
	badgeName string
	requests  []string
}

func envelope(data string) string {
	return `{"success":true,"message":"ok","data":` + data + `,"timestamp":"2026-03-14T19:30:00"}`
}

func (b *clubBackend) badgeJSON() string {
	return fmt.Sprintf(`{"id":1,"name":%q,"description":"","category":"COMMEMORATIVE","grade":"GOLD","active":true,"createdAt":"2025-09-01T10:00:00"}`, b.badgeName)
}

func (b *clubBackend) Do(req *http.Request) (*http.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	route := req.Method + " " + req.URL.Path
	b.requests = append(b.requests, route)

	status, body := http.StatusOK, ""
	switch route {
	case "GET /api/badges":
		body = envelope("[" + b.badgeJSON() + "]")
	case "PUT /api/badges/1":
		var update struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
			return nil, err
		}
		b.badgeName = update.Name
		body = envelope(b.badgeJSON())
	case "GET /api/admin/users/count":
		body = envelope("42")
	default:
		status, body = http.StatusNotFound, `{"success":false,"message":"no route"}`
	}

	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}, nil
}

func (b *clubBackend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == route {
			n++
		}
	}
	return n
}

func newTestConsole(t *testing.T, stdin string) (*console, *clubBackend, *bytes.Buffer) {
	t.Helper()

	club := &clubBackend{badgeName: "Rookie"}
	backendClient, err := backend.NewClient(
		club,
		"https://api.example.test",
		backend.WithLocation(time.UTC),
		backend.WithNowFunc(func() time.Time { return fixedNow }),
		backend.WithAccessToken("token"),
	)
	require.NoError(t, err)

	cacheClient, err := cache.New(cache.WithNowFunc(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	var out bytes.Buffer
	con := newConsole(
		backendClient,
		cacheClient,
		render.New(&out, false, time.UTC),
		strings.NewReader(stdin),
		&out,
		func() time.Time { return fixedNow },
	)
	return con, club, &out
}

func testContext(t *testing.T) context.Context {
	return logging.AddToContext(t.Context(), logging.New(io.Discard, slog.LevelError))
}

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		line    string
		args    []string
		wantErr bool
	}{
		{line: "badges list", args: []string{"badges", "list"}},
		{line: "  badges\t list  ", args: []string{"badges", "list"}},
		{line: `notices create --title "Kick-off moved" --content 'Starts at 8'`, args: []string{"notices", "create", "--title", "Kick-off moved", "--content", "Starts at 8"}},
		{line: `gallery describe 3 9 "the \"final\" goal"`, args: []string{"gallery", "describe", "3", "9", `the "final" goal`}},
		{line: `gallery describe 3 9 ''`, args: []string{"gallery", "describe", "3", "9", ""}},
		{line: `schedules cancel 4 --reason rain\ again`, args: []string{"schedules", "cancel", "4", "--reason", "rain again"}},
		{line: `notices create --title "open`, wantErr: true},
		{line: `badges list \`, wantErr: true},
		{line: `badges list | grep Gold`, wantErr: true},
		{line: `notices create --title 'a; b' --content "x > y"`, args: []string{"notices", "create", "--title", "a; b", "--content", "x > y"}},
	} {
		t.Run(tc.line, func(t *testing.T) {
			t.Parallel()

			args, err := splitArgs(tc.line)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.args, args)
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		args    []string
		command string
		wantErr bool
	}{
		{args: []string{"dashboard"}, command: "dashboard"},
		{args: []string{"badges"}, command: "badges list"},
		{args: []string{"badges", "create", "--name", "MVP", "--category", "SPECIAL_EVENT", "--grade", "GOLD"}, command: "badges create"},
		{args: []string{"badges", "create", "--name", "MVP", "--category", "SKILL", "--grade", "GOLD"}, wantErr: true},
		{args: []string{"schedules", "list", "--status", "CONFIRMED"}, command: "schedules list"},
		{args: []string{"schedules", "list", "--status", "LATE"}, wantErr: true},
		{args: []string{"schedules", "start-vote", "12"}, command: "schedules start-vote <id>"},
		{args: []string{"schedules", "cancel", "12"}, wantErr: true},
		{args: []string{"members", "cohort", "3", "false"}, command: "members cohort <id> <current>"},
		{args: []string{"invite-keys", "list", "--filter", "expired"}, command: "invite-keys list"},
		{args: []string{"settlements", "calculate", "4", "--total", "120000", "--account", "110-123", "--holder", "Kim", "--bank", "Shinhan"}, command: "settlements calculate <schedule-id>"},
		{args: []string{"watch", "badges", "--count", "2"}, command: "watch <resource>"},
		{args: []string{"watch", "weather"}, wantErr: true},
	} {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			t.Parallel()

			var cli CLI
			parser, err := kong.New(&cli, cliVars())
			require.NoError(t, err)

			kctx, err := parser.Parse(tc.args)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.command, kctx.Command())
		})
	}
}

func TestShell(t *testing.T) {
	t.Parallel()

	t.Run("repeated reads share one fetch", func(t *testing.T) {
		t.Parallel()

		con, club, out := newTestConsole(t, "badges list\nbadges\nexit\n")
		require.NoError(t, (&ShellCmd{}).Run(testContext(t), con))

		require.Equal(t, 1, club.count("GET /api/badges"))
		require.Equal(t, 2, strings.Count(out.String(), "Rookie"))
	})

	t.Run("a mutation marks the list stale and the next read refetches", func(t *testing.T) {
		t.Parallel()

		input := strings.Join([]string{
			"badges list",
			"badges update 1 --name Veteran",
			"badges list",
		}, "\n")
		con, club, out := newTestConsole(t, input)
		require.NoError(t, (&ShellCmd{}).Run(testContext(t), con))

		output := out.String()
		require.Contains(t, output, "Updated badge 1")
		require.Contains(t, output, `["badges"] success stale`)
		require.Contains(t, output, "Veteran")
		require.Equal(t, 2, club.count("GET /api/badges"))
		require.Equal(t, 1, club.count("PUT /api/badges/1"))
	})

	t.Run("errors and help keep the shell running", func(t *testing.T) {
		t.Parallel()

		con, club, out := newTestConsole(t, "badges frobnicate\nschedules --help\nbadges show 9\nbadges list\n")
		require.NoError(t, (&ShellCmd{}).Run(testContext(t), con))

		output := out.String()
		require.Contains(t, output, "error: ")
		require.Contains(t, output, "start-vote")
		require.Equal(t, 1, club.count("GET /api/badges/9"))
		require.Equal(t, 1, club.count("GET /api/badges"))
	})

	t.Run("logout clears the cache", func(t *testing.T) {
		t.Parallel()

		con, club, out := newTestConsole(t, "badges list\nlogout\n")
		require.NoError(t, (&ShellCmd{}).Run(testContext(t), con))

		require.Contains(t, out.String(), `["badges"] removed`)
		require.Equal(t, 0, con.cache.Store().Len())
		require.False(t, con.session.LoggedIn())
		require.Equal(t, 1, club.count("GET /api/badges"))
	})
}

func TestWatch(t *testing.T) {
	t.Parallel()

	con, club, out := newTestConsole(t, "")
	cmd := &WatchCmd{Resource: "member-count", Interval: time.Hour, Count: 2}
	require.NoError(t, cmd.Run(testContext(t), con))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `["admin","users","count"] loading`)
	require.Contains(t, lines[1], `["admin","users","count"] success`)
	require.Equal(t, 1, club.count("GET /api/admin/users/count"))

	entry, ok := con.cache.Get(cache.NewKey("admin", "users", "count"))
	require.True(t, ok)
	require.Equal(t, 42, entry.Data)
	require.Equal(t, 0, entry.ObserverCount)
}

func TestRun(t *testing.T) {
	for key, value := range map[string]string{
		"CLUBADMIN_BASE_URL":     "",
		"CLUBADMIN_ACCESS_TOKEN": "",
		"CLUBADMIN_OTEL_ENABLED": "false",
		"SENTRY_DSN":             "",
	} {
		t.Setenv(key, value)
	}

	parse := func(t *testing.T, args ...string) *kong.Context {
		t.Helper()

		var cli CLI
		parser, err := kong.New(&cli, kong.Name("clubadmin"), cliVars())
		require.NoError(t, err)
		kctx, err := parser.Parse(args)
		require.NoError(t, err)
		return kctx
	}

	t.Run("success exits zero", func(t *testing.T) {
		t.Setenv("CLUBADMIN_ENVIRONMENT", "development")
		require.Equal(t, 0, run(parse(t, "logout"), false))
	})

	t.Run("a failing command returns instead of exiting", func(t *testing.T) {
		t.Setenv("CLUBADMIN_ENVIRONMENT", "development")
		require.Equal(t, 1, run(parse(t, "schedules", "list", "--from", "2026-03-01"), false))
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Setenv("CLUBADMIN_ENVIRONMENT", "mars")
		require.Equal(t, 1, run(parse(t, "logout"), true))
	})
}
