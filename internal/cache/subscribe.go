package cache

import (
	"context"
	"sync"

	"github.com/futsalhub/clubadmin/internal/logging"
)

// Subscription is a live interest in one key.
type Subscription struct {
	client *Client
	key    Key
	id     uint64
	once   sync.Once
}

// Subscribe registers onUpdate for every change to key's entry and starts a
// background fetch when the entry is missing, has never loaded, or is stale.
//
// onUpdate runs synchronously on the goroutine that applied the change; it
// must not wait on a Fetch of the same key.
func (c *Client) Subscribe(ctx context.Context, key Key, loader Loader, onUpdate Observer) *Subscription {
	id, entry, exists := c.store.observe(key, onUpdate)

	if !exists || entry.Status == StatusIdle || entry.Stale {
		logging.FromContext(ctx).DebugContext(ctx, "Subscribed to missing or stale entry", "cacheKey", key.String())
		c.background(ctx, func(ctx context.Context) {
			_, _ = c.Fetch(ctx, key, loader)
		})
	}

	return &Subscription{
		client: c,
		key:    key,
		id:     id,
	}
}

func (s *Subscription) Key() Key {
	return s.key
}

// Current returns the entry as it is right now.
func (s *Subscription) Current() (Entry, bool) {
	return s.client.store.Get(s.key)
}

// Unsubscribe stops updates. The cached entry is kept. Calling it more than
// once has no effect.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.client.store.unobserve(s.key, s.id)
	})
}
