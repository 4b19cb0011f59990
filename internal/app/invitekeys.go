package app

import (
	"context"
	"fmt"
	"time"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type inviteKeyProvider interface {
	ListInviteKeys(ctx context.Context) ([]domain.InviteKey, error)
	ListActiveInviteKeys(ctx context.Context) ([]domain.InviteKey, error)
	InviteKeyStats(ctx context.Context) (domain.InviteKeyStats, error)
	CreateInviteKey(ctx context.Context) (string, error)
	ExpireInviteKey(ctx context.Context, key string) error
	DeleteInviteKey(ctx context.Context, key string) error
}

func InviteKeysQuery(provider inviteKeyProvider) cache.Query[[]domain.InviteKey] {
	return cache.Query[[]domain.InviteKey]{
		Key:  InviteKeysKey(),
		Load: provider.ListInviteKeys,
	}
}

// ActiveInviteKeysQuery asks the backend for the usable keys only.
func ActiveInviteKeysQuery(provider inviteKeyProvider) cache.Query[[]domain.InviteKey] {
	return cache.Query[[]domain.InviteKey]{
		Key:  ActiveInviteKeysKey(),
		Load: provider.ListActiveInviteKeys,
	}
}

func InviteKeyStatsQuery(provider inviteKeyProvider) cache.Query[domain.InviteKeyStats] {
	return cache.Query[domain.InviteKeyStats]{
		Key:  InviteKeyStatsKey(),
		Load: provider.InviteKeyStats,
	}
}

// ListInviteKeys filters the cached key list locally; every filter shares a
// single fetch.
type ListInviteKeys func(ctx context.Context, filter domain.InviteKeyFilter) ([]domain.InviteKey, error)

func BuildListInviteKeys(client *cache.Client, provider inviteKeyProvider, nowFunc func() time.Time) ListInviteKeys {
	query := InviteKeysQuery(provider)
	return func(ctx context.Context, filter domain.InviteKeyFilter) ([]domain.InviteKey, error) {
		keys, err := cache.FetchQuery(ctx, client, query)
		if err != nil {
			return nil, fmt.Errorf("could not list invite keys: %w", err)
		}
		return domain.FilterInviteKeys(keys, filter, nowFunc()), nil
	}
}

type CreateInviteKey func(ctx context.Context) (string, error)
type ExpireInviteKey func(ctx context.Context, key string) error
type DeleteInviteKey func(ctx context.Context, key string) error

var inviteKeyInvalidates = []cache.Key{InviteKeysPrefix}

func BuildCreateInviteKey(client *cache.Client, provider inviteKeyProvider) CreateInviteKey {
	return func(ctx context.Context) (string, error) {
		key, err := mutate(ctx, client, provider.CreateInviteKey, inviteKeyInvalidates)
		if err != nil {
			return "", fmt.Errorf("could not create invite key: %w", err)
		}
		return key, nil
	}
}

func BuildExpireInviteKey(client *cache.Client, provider inviteKeyProvider) ExpireInviteKey {
	return func(ctx context.Context, key string) error {
		err := mutateVoid(ctx, client, func(ctx context.Context) error {
			return provider.ExpireInviteKey(ctx, key)
		}, inviteKeyInvalidates)
		if err != nil {
			return fmt.Errorf("could not expire invite key: %w", err)
		}
		return nil
	}
}

func BuildDeleteInviteKey(client *cache.Client, provider inviteKeyProvider) DeleteInviteKey {
	return func(ctx context.Context, key string) error {
		err := mutateVoid(ctx, client, func(ctx context.Context) error {
			return provider.DeleteInviteKey(ctx, key)
		}, inviteKeyInvalidates)
		if err != nil {
			return fmt.Errorf("could not delete invite key: %w", err)
		}
		return nil
	}
}
