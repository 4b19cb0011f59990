package cache

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type cacheMetricsCollection struct {
	fetchCount        metric.Int64Counter
	loaderDuration    metric.Float64Histogram
	invalidationCount metric.Int64Counter
}

func setupCacheMetrics(meter metric.Meter) (cacheMetricsCollection, error) {
	fetchCount, err := meter.Int64Counter(
		"cache/fetch_count",
		metric.WithDescription("Fetches by outcome (hit, load, shared)"),
	)
	if err != nil {
		return cacheMetricsCollection{}, fmt.Errorf("failed to create fetch count metric: %w", err)
	}

	loaderDuration, err := meter.Float64Histogram(
		"cache/loader_duration_seconds",
		metric.WithDescription("Time spent in loaders"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return cacheMetricsCollection{}, fmt.Errorf("failed to create loader duration metric: %w", err)
	}

	invalidationCount, err := meter.Int64Counter(
		"cache/invalidation_count",
		metric.WithDescription("Entries marked stale by invalidation"),
	)
	if err != nil {
		return cacheMetricsCollection{}, fmt.Errorf("failed to create invalidation count metric: %w", err)
	}

	return cacheMetricsCollection{
		fetchCount:        fetchCount,
		loaderDuration:    loaderDuration,
		invalidationCount: invalidationCount,
	}, nil
}

func (m cacheMetricsCollection) recordFetch(ctx context.Context, key Key, outcome string) {
	m.fetchCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", key.Kind()),
		attribute.String("outcome", outcome),
	))
}

func (m cacheMetricsCollection) recordLoad(ctx context.Context, key Key, duration time.Duration, err error) {
	m.loaderDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("kind", key.Kind()),
		attribute.Bool("success", err == nil),
	))
}
