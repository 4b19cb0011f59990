package app

import (
	"context"

	"github.com/futsalhub/clubadmin/internal/cache"
)

func mutate[T any](
	ctx context.Context,
	client *cache.Client,
	action func(ctx context.Context) (T, error),
	invalidates []cache.Key,
	removes ...cache.Key,
) (T, error) {
	return cache.Mutate(ctx, client, cache.Mutation[T]{
		Action:      action,
		Invalidates: invalidates,
		Removes:     removes,
	})
}

// mutateVoid is mutate for actions whose response carries no data.
func mutateVoid(
	ctx context.Context,
	client *cache.Client,
	action func(ctx context.Context) error,
	invalidates []cache.Key,
	removes ...cache.Key,
) error {
	_, err := mutate(ctx, client, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, action(ctx)
	}, invalidates, removes...)
	return err
}
