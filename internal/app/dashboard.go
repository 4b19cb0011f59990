package app

import (
	"context"
	"fmt"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
	"golang.org/x/sync/errgroup"
)

type dashboardProvider interface {
	CountMembers(ctx context.Context) (int, error)
	ListActiveFirstVoteSchedules(ctx context.Context) ([]domain.Schedule, error)
	InviteKeyStats(ctx context.Context) (domain.InviteKeyStats, error)
}

type GetDashboard func(ctx context.Context) (domain.Dashboard, error)

// BuildGetDashboard reads the three dashboard figures through the cache, so
// they are shared with the member, schedule and invite key views.
func BuildGetDashboard(client *cache.Client, provider dashboardProvider) GetDashboard {
	countQuery := cache.Query[int]{Key: MemberCountKey(), Load: provider.CountMembers}
	votingQuery := cache.Query[[]domain.Schedule]{Key: ActiveFirstVoteSchedulesKey(), Load: provider.ListActiveFirstVoteSchedules}
	statsQuery := cache.Query[domain.InviteKeyStats]{Key: InviteKeyStatsKey(), Load: provider.InviteKeyStats}

	return func(ctx context.Context) (domain.Dashboard, error) {
		var dashboard domain.Dashboard

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			count, err := cache.FetchQuery(gctx, client, countQuery)
			if err != nil {
				return fmt.Errorf("member count: %w", err)
			}
			dashboard.MemberCount = count
			return nil
		})
		g.Go(func() error {
			schedules, err := cache.FetchQuery(gctx, client, votingQuery)
			if err != nil {
				return fmt.Errorf("active first votes: %w", err)
			}
			dashboard.ActiveFirstVoteSchedules = len(schedules)
			return nil
		})
		g.Go(func() error {
			stats, err := cache.FetchQuery(gctx, client, statsQuery)
			if err != nil {
				return fmt.Errorf("invite key stats: %w", err)
			}
			dashboard.InviteKeys = stats
			return nil
		})

		if err := g.Wait(); err != nil {
			return domain.Dashboard{}, fmt.Errorf("could not load dashboard: %w", err)
		}
		return dashboard, nil
	}
}
