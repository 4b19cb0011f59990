package cache

import (
	"context"
	"fmt"

	"github.com/futsalhub/clubadmin/internal/logging"
)

// Mutation describes one write against the backend and the cached keys it
// makes outdated.
type Mutation[T any] struct {
	Action func(ctx context.Context) (T, error)

	// Prefixes of the keys to invalidate after a successful Action
	Invalidates []Key
	// Exact keys to drop after a successful Action, e.g. the detail view of a
	// deleted resource
	Removes []Key
}

// Mutate runs m.Action and, when it succeeds, removes and invalidates the
// described keys. Nothing is invalidated when the action fails.
func Mutate[T any](ctx context.Context, c *Client, m Mutation[T]) (T, error) {
	result, err := m.Action(ctx)
	if err != nil {
		logging.FromContext(ctx).InfoContext(ctx, "Mutation failed, cache left untouched", "error", err.Error())
		var empty T
		return empty, fmt.Errorf("mutation failed: %w", err)
	}

	for _, key := range m.Removes {
		c.Delete(key)
	}
	c.Invalidate(ctx, m.Invalidates...)

	return result, nil
}
