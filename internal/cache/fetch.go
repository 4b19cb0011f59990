package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/futsalhub/clubadmin/internal/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type fetchOptions struct {
	forceRefresh bool
}

type FetchOption func(*fetchOptions)

// ForceRefresh makes Fetch call the loader even when the entry is fresh.
// A fetch already in flight for the key is still joined.
func ForceRefresh() FetchOption {
	return func(o *fetchOptions) {
		o.forceRefresh = true
	}
}

// Fetch returns the data for key, calling loader only when needed.
//
// A fresh successful entry is served from the cache. Concurrent fetches for
// the same key share a single loader call. A nil loader reuses the loader of
// the previous fetch for key.
//
// The loader runs detached from ctx: cancelling ctx only stops the wait, the
// result is still applied to the cache.
func (c *Client) Fetch(ctx context.Context, key Key, loader Loader, opts ...FetchOption) (any, error) {
	options := fetchOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	logger := logging.FromContext(ctx).With(slog.String("cacheKey", key.String()))

	if !options.forceRefresh {
		if entry, ok := c.store.Get(key); ok && entry.fresh() {
			logger.DebugContext(ctx, "Fetching resource", "cache", "hit")
			c.metrics.recordFetch(ctx, key, "hit")
			return entry.Data, nil
		}
	}

	if loader == nil {
		loader = c.store.loaderFor(key)
		if loader == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoLoader, key)
		}
	}

	resultChan := c.flights.DoChan(key.String(), func() (any, error) {
		return c.load(ctx, key, loader, options.forceRefresh)
	})

	select {
	case result := <-resultChan:
		if result.Shared {
			c.metrics.recordFetch(ctx, key, "shared")
		}
		return result.Val, result.Err
	case <-ctx.Done():
		logger.InfoContext(ctx, "Stopped waiting for fetch", "error", ctx.Err())
		return nil, ctx.Err()
	}
}

func (c *Client) load(ctx context.Context, key Key, loader Loader, force bool) (any, error) {
	ctx = context.WithoutCancel(ctx)
	logger := logging.FromContext(ctx).With(slog.String("cacheKey", key.String()))

	ticket, cached, served := c.store.beginFetch(key, loader, force)
	if served {
		// Another flight filled the entry between our freshness check and now
		logger.DebugContext(ctx, "Fetching resource", "cache", "hit")
		c.metrics.recordFetch(ctx, key, "hit")
		return cached.Data, nil
	}

	logger.InfoContext(ctx, "Fetching resource", "cache", "miss", "force", force)
	c.metrics.recordFetch(ctx, key, "load")

	ctx, span := c.tracer.Start(ctx, "Cache.load", trace.WithAttributes(
		attribute.String("cache.key", key.String()),
		attribute.String("cache.kind", key.Kind()),
	))
	defer span.End()

	start := c.nowFunc()
	data, err := callLoader(ctx, loader)
	finishedAt := c.nowFunc()
	c.metrics.recordLoad(ctx, key, finishedAt.Sub(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "Loader failed", "error", err.Error())
		data = nil
	}

	applied, refetch := c.store.finishFetch(key, ticket, data, err, finishedAt)
	if !applied {
		logger.InfoContext(ctx, "Dropped result for removed entry")
		if c.store.orphaned(key) {
			// A subscriber joined this flight after the removal
			c.flights.Forget(key.String())
			logger.InfoContext(ctx, "Removed entry is observed, refetching")
			c.background(ctx, func(ctx context.Context) {
				_, _ = c.Fetch(ctx, key, loader)
			})
		}
	}
	if refetch {
		// Let the follow-up start a new flight instead of joining this one
		c.flights.Forget(key.String())
		logger.InfoContext(ctx, "Entry invalidated during fetch, refetching")
		c.background(ctx, func(ctx context.Context) {
			_, _ = c.Fetch(ctx, key, loader, ForceRefresh())
		})
	}

	return data, err
}

func callLoader(ctx context.Context, loader Loader) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: %v", ErrLoaderPanicked, r)
		}
	}()
	return loader(ctx)
}
