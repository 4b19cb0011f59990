package app

import (
	"context"
	"fmt"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type badgeProvider interface {
	ListBadges(ctx context.Context) ([]domain.Badge, error)
	GetBadge(ctx context.Context, badgeID int64) (domain.Badge, error)
	CreateBadge(ctx context.Context, draft domain.BadgeDraft) (domain.Badge, error)
	UpdateBadge(ctx context.Context, badgeID int64, update domain.BadgeUpdate) (domain.Badge, error)
	DeleteBadge(ctx context.Context, badgeID int64) error
	ActivateBadge(ctx context.Context, badgeID int64) (domain.Badge, error)
	GrantBadge(ctx context.Context, badgeID, userID int64) error
}

func BadgesQuery(provider badgeProvider) cache.Query[[]domain.Badge] {
	return cache.Query[[]domain.Badge]{
		Key:  BadgesKey(),
		Load: provider.ListBadges,
	}
}

func BadgeQuery(provider badgeProvider, badgeID int64) cache.Query[domain.Badge] {
	return cache.Query[domain.Badge]{
		Key: BadgeKey(badgeID),
		Load: func(ctx context.Context) (domain.Badge, error) {
			return provider.GetBadge(ctx, badgeID)
		},
	}
}

type CreateBadge func(ctx context.Context, draft domain.BadgeDraft) (domain.Badge, error)
type UpdateBadge func(ctx context.Context, badgeID int64, update domain.BadgeUpdate) (domain.Badge, error)
type DeleteBadge func(ctx context.Context, badgeID int64) error
type ActivateBadge func(ctx context.Context, badgeID int64) (domain.Badge, error)
type GrantBadge func(ctx context.Context, badgeID, userID int64) error

var badgeInvalidates = []cache.Key{BadgesPrefix}

func BuildCreateBadge(client *cache.Client, provider badgeProvider) CreateBadge {
	return func(ctx context.Context, draft domain.BadgeDraft) (domain.Badge, error) {
		badge, err := mutate(ctx, client, func(ctx context.Context) (domain.Badge, error) {
			return provider.CreateBadge(ctx, draft)
		}, badgeInvalidates)
		if err != nil {
			return domain.Badge{}, fmt.Errorf("could not create badge: %w", err)
		}
		return badge, nil
	}
}

func BuildUpdateBadge(client *cache.Client, provider badgeProvider) UpdateBadge {
	return func(ctx context.Context, badgeID int64, update domain.BadgeUpdate) (domain.Badge, error) {
		badge, err := mutate(ctx, client, func(ctx context.Context) (domain.Badge, error) {
			return provider.UpdateBadge(ctx, badgeID, update)
		}, badgeInvalidates)
		if err != nil {
			return domain.Badge{}, fmt.Errorf("could not update badge %d: %w", badgeID, err)
		}
		return badge, nil
	}
}

func BuildDeleteBadge(client *cache.Client, provider badgeProvider) DeleteBadge {
	return func(ctx context.Context, badgeID int64) error {
		err := mutateVoid(ctx, client, func(ctx context.Context) error {
			return provider.DeleteBadge(ctx, badgeID)
		}, badgeInvalidates, BadgeKey(badgeID))
		if err != nil {
			return fmt.Errorf("could not delete badge %d: %w", badgeID, err)
		}
		return nil
	}
}

func BuildActivateBadge(client *cache.Client, provider badgeProvider) ActivateBadge {
	return func(ctx context.Context, badgeID int64) (domain.Badge, error) {
		badge, err := mutate(ctx, client, func(ctx context.Context) (domain.Badge, error) {
			return provider.ActivateBadge(ctx, badgeID)
		}, badgeInvalidates)
		if err != nil {
			return domain.Badge{}, fmt.Errorf("could not activate badge %d: %w", badgeID, err)
		}
		return badge, nil
	}
}

// The member's detail view lists their badges, so it is refreshed too.
func BuildGrantBadge(client *cache.Client, provider badgeProvider) GrantBadge {
	return func(ctx context.Context, badgeID, userID int64) error {
		err := mutateVoid(ctx, client, func(ctx context.Context) error {
			return provider.GrantBadge(ctx, badgeID, userID)
		}, []cache.Key{BadgesPrefix, MemberKey(userID)})
		if err != nil {
			return fmt.Errorf("could not grant badge %d to member %d: %w", badgeID, userID, err)
		}
		return nil
	}
}
