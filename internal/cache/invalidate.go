package cache

import (
	"context"

	"github.com/futsalhub/clubadmin/internal/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// Invalidate marks every entry under one of prefixes as stale.
//
// Observed entries are refetched with their last loader and Invalidate
// returns once those refetches have settled. Unobserved entries are fetched
// again the next time someone asks for them. Entries with a fetch in flight
// get one more fetch after it completes.
func (c *Client) Invalidate(ctx context.Context, prefixes ...Key) {
	if len(prefixes) == 0 {
		return
	}

	matched, targets := c.store.markStale(prefixes)

	prefixStrings := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		prefixStrings = append(prefixStrings, prefix.String())
	}
	logging.FromContext(ctx).InfoContext(
		ctx,
		"Invalidated cache entries",
		"prefixes", prefixStrings,
		"matched", matched,
		"refetching", len(targets),
	)
	c.metrics.invalidationCount.Add(ctx, int64(matched), metric.WithAttributes(
		attribute.Int("refetching", len(targets)),
	))

	var group errgroup.Group
	for _, target := range targets {
		group.Go(func() error {
			// Failures are stored on the entry and reach its observers
			_, _ = c.Fetch(ctx, target.key, target.loader, ForceRefresh())
			return nil
		})
	}
	_ = group.Wait()
}
