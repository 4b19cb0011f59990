package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNoLoader       = errors.New("no loader registered for key")
	ErrLoaderPanicked = errors.New("loader panicked")
	ErrTypeMismatch   = errors.New("cached data has unexpected type")
)

// Client is the resource cache of one session. Create it at startup, pass it
// to whatever reads or mutates remote resources, and Clear it on logout.
type Client struct {
	store   *Store
	flights singleflight.Group
	pending sync.WaitGroup

	nowFunc func() time.Time
	metrics cacheMetricsCollection
	tracer  trace.Tracer
}

type Option func(*Client)

func WithNowFunc(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = nowFunc
	}
}

func New(opts ...Option) (*Client, error) {
	const name = "clubadmin/cache"

	metrics, err := setupCacheMetrics(otel.Meter(name))
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	c := &Client{
		store:   NewStore(),
		nowFunc: time.Now,
		metrics: metrics,
		tracer:  otel.Tracer(name),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Store() *Store {
	return c.store
}

// Get returns the current entry for key without fetching.
func (c *Client) Get(key Key) (Entry, bool) {
	return c.store.Get(key)
}

// Delete drops the entry for key. A fetch still running for key is not
// cancelled, but its result is discarded and later fetches don't join it.
func (c *Client) Delete(key Key) {
	c.store.Delete(key)
	c.flights.Forget(key.String())
}

// Clear drops every cached entry. Fetches still running are not cancelled,
// but their results are discarded and later fetches don't join them.
func (c *Client) Clear() {
	for _, key := range c.store.Clear() {
		c.flights.Forget(key.String())
	}
}

// Wait blocks until fetches started in the background (by subscriptions and
// follow-up refetches) have completed.
func (c *Client) Wait() {
	c.pending.Wait()
}

func (c *Client) background(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		fn(ctx)
	}()
}
