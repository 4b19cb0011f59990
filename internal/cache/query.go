package cache

import (
	"context"
	"fmt"
	"time"
)

// Query pairs a key with a typed loader.
type Query[T any] struct {
	Key  Key
	Load func(ctx context.Context) (T, error)
}

func (q Query[T]) loader() Loader {
	return func(ctx context.Context) (any, error) {
		return q.Load(ctx)
	}
}

// Snapshot is the typed view of an Entry.
type Snapshot[T any] struct {
	Key         Key
	Data        T
	Err         error
	Status      Status
	Stale       bool
	Fetching    bool
	LastUpdated time.Time
	Version     uint64
}

func snapshotOf[T any](entry Entry) (Snapshot[T], error) {
	snapshot := Snapshot[T]{
		Key:         entry.Key,
		Err:         entry.Err,
		Status:      entry.Status,
		Stale:       entry.Stale,
		Fetching:    entry.Fetching,
		LastUpdated: entry.LastUpdated,
		Version:     entry.Version,
	}
	data, err := typed[T](entry.Key, entry.Data)
	if err != nil {
		return snapshot, err
	}
	snapshot.Data = data
	return snapshot, nil
}

func typed[T any](key Key, data any) (T, error) {
	var empty T
	if data == nil {
		return empty, nil
	}
	value, ok := data.(T)
	if !ok {
		return empty, fmt.Errorf("%w: got %T for %s", ErrTypeMismatch, data, key)
	}
	return value, nil
}

// FetchQuery is the typed form of Client.Fetch.
func FetchQuery[T any](ctx context.Context, c *Client, q Query[T], opts ...FetchOption) (T, error) {
	data, err := c.Fetch(ctx, q.Key, q.loader(), opts...)
	if err != nil {
		var empty T
		return empty, err
	}
	return typed[T](q.Key, data)
}

// SubscribeQuery is the typed form of Client.Subscribe. A cached value of the
// wrong type is reported through Snapshot.Err.
func SubscribeQuery[T any](ctx context.Context, c *Client, q Query[T], onUpdate func(Snapshot[T])) *Subscription {
	return c.Subscribe(ctx, q.Key, q.loader(), func(entry Entry) {
		snapshot, err := snapshotOf[T](entry)
		if err != nil {
			snapshot.Err = err
		}
		onUpdate(snapshot)
	})
}

// PeekQuery returns the typed entry for q without fetching.
func PeekQuery[T any](c *Client, q Query[T]) (Snapshot[T], bool) {
	entry, ok := c.store.Get(q.Key)
	if !ok {
		return Snapshot[T]{}, false
	}
	snapshot, err := snapshotOf[T](entry)
	if err != nil {
		snapshot.Err = err
	}
	return snapshot, true
}
