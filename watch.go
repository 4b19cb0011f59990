package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/render"
)

type WatchCmd struct {
	Resource string        `arg:"" enum:"badges,schedules,notices,invite-keys,active-invite-keys,invite-key-stats,members,member-count,settlements" help:"One of ${enum}."`
	Interval time.Duration `default:"30s" help:"Refetch this often."`
	Count    int           `help:"Stop after this many updates. Zero watches until interrupted."`
}

// updatePrinter prints snapshots as they arrive. Observers can be called from
// several goroutines, so printing is serialized.
type updatePrinter struct {
	out   *render.Renderer
	limit int

	mu   sync.Mutex
	seen int
	done chan struct{}
}

func printUpdates[T any](p *updatePrinter) func(cache.Snapshot[T]) {
	return func(s cache.Snapshot[T]) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.limit > 0 && p.seen >= p.limit {
			return
		}
		p.out.Update(s.Key.String(), s.Status.String(), s.Stale, s.Fetching, s.Version, s.Err)
		p.seen++
		if p.limit > 0 && p.seen == p.limit {
			close(p.done)
		}
	}
}

func watchQuery[T any](ctx context.Context, con *console, q cache.Query[T], p *updatePrinter) *cache.Subscription {
	return cache.SubscribeQuery(ctx, con.cache, q, printUpdates[T](p))
}

func (c *WatchCmd) subscribe(ctx context.Context, con *console, p *updatePrinter) (*cache.Subscription, error) {
	switch c.Resource {
	case "badges":
		return watchQuery(ctx, con, app.BadgesQuery(con.backend), p), nil
	case "schedules":
		return watchQuery(ctx, con, app.SchedulesByStatusQuery(con.backend, "", con.nowFunc), p), nil
	case "notices":
		return watchQuery(ctx, con, app.NoticesQuery(con.backend, 0), p), nil
	case "invite-keys":
		return watchQuery(ctx, con, app.InviteKeysQuery(con.backend), p), nil
	case "active-invite-keys":
		return watchQuery(ctx, con, app.ActiveInviteKeysQuery(con.backend), p), nil
	case "invite-key-stats":
		return watchQuery(ctx, con, app.InviteKeyStatsQuery(con.backend), p), nil
	case "members":
		return watchQuery(ctx, con, app.MembersQuery(con.backend, 0, ""), p), nil
	case "member-count":
		return watchQuery(ctx, con, app.MemberCountQuery(con.backend), p), nil
	case "settlements":
		return watchQuery(ctx, con, app.SettlementsQuery(con.backend, 0, ""), p), nil
	}
	return nil, fmt.Errorf("cannot watch %q", c.Resource)
}

func (c *WatchCmd) Run(ctx context.Context, con *console) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	p := &updatePrinter{out: con.out, limit: c.Count, done: make(chan struct{})}
	sub, err := c.subscribe(ctx, con, p)
	if err != nil {
		return err
	}
	defer func() {
		sub.Unsubscribe()
		con.cache.Wait()
	}()

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.done:
			return nil
		case <-ticker.C:
			con.cache.Invalidate(ctx, sub.Key())
		}
	}
}
