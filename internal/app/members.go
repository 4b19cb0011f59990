package app

import (
	"context"
	"fmt"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type memberProvider interface {
	ListMembers(ctx context.Context, page, size int, search string) (domain.Page[domain.Member], error)
	GetMember(ctx context.Context, userID int64) (domain.Member, error)
	CountMembers(ctx context.Context) (int, error)

	UpdateMember(ctx context.Context, userID int64, update domain.MemberUpdate) (domain.Member, error)
	SetFutsalLevel(ctx context.Context, userID int64, level domain.FutsalLevel) (domain.Member, error)
	SetCurrentCohort(ctx context.Context, userID int64, isCurrentCohort bool) (domain.Member, error)
	SetRole(ctx context.Context, userID int64, role domain.Role) (domain.Member, error)
}

const MembersPageSize = 20

func MembersQuery(provider memberProvider, page int, search string) cache.Query[domain.Page[domain.Member]] {
	return cache.Query[domain.Page[domain.Member]]{
		Key: MembersKey(page, search),
		Load: func(ctx context.Context) (domain.Page[domain.Member], error) {
			return provider.ListMembers(ctx, page, MembersPageSize, search)
		},
	}
}

func MemberQuery(provider memberProvider, userID int64) cache.Query[domain.Member] {
	return cache.Query[domain.Member]{
		Key: MemberKey(userID),
		Load: func(ctx context.Context) (domain.Member, error) {
			return provider.GetMember(ctx, userID)
		},
	}
}

func MemberCountQuery(provider memberProvider) cache.Query[int] {
	return cache.Query[int]{
		Key:  MemberCountKey(),
		Load: provider.CountMembers,
	}
}

// EditMember applies one change to a member and returns the updated member.
type EditMember func(ctx context.Context, userID int64, edit func(ctx context.Context) (domain.Member, error)) (domain.Member, error)

func memberInvalidates(userID int64) []cache.Key {
	return []cache.Key{MemberKey(userID), MembersPrefix}
}

func BuildEditMember(client *cache.Client) EditMember {
	return func(ctx context.Context, userID int64, edit func(ctx context.Context) (domain.Member, error)) (domain.Member, error) {
		member, err := mutate(ctx, client, edit, memberInvalidates(userID))
		if err != nil {
			return domain.Member{}, fmt.Errorf("could not edit member %d: %w", userID, err)
		}
		return member, nil
	}
}

type UpdateMember func(ctx context.Context, userID int64, update domain.MemberUpdate) (domain.Member, error)
type SetFutsalLevel func(ctx context.Context, userID int64, level domain.FutsalLevel) (domain.Member, error)
type SetCurrentCohort func(ctx context.Context, userID int64, isCurrentCohort bool) (domain.Member, error)
type SetRole func(ctx context.Context, userID int64, role domain.Role) (domain.Member, error)

func BuildUpdateMember(client *cache.Client, provider memberProvider) UpdateMember {
	edit := BuildEditMember(client)
	return func(ctx context.Context, userID int64, update domain.MemberUpdate) (domain.Member, error) {
		return edit(ctx, userID, func(ctx context.Context) (domain.Member, error) {
			return provider.UpdateMember(ctx, userID, update)
		})
	}
}

func BuildSetFutsalLevel(client *cache.Client, provider memberProvider) SetFutsalLevel {
	edit := BuildEditMember(client)
	return func(ctx context.Context, userID int64, level domain.FutsalLevel) (domain.Member, error) {
		return edit(ctx, userID, func(ctx context.Context) (domain.Member, error) {
			return provider.SetFutsalLevel(ctx, userID, level)
		})
	}
}

func BuildSetCurrentCohort(client *cache.Client, provider memberProvider) SetCurrentCohort {
	edit := BuildEditMember(client)
	return func(ctx context.Context, userID int64, isCurrentCohort bool) (domain.Member, error) {
		return edit(ctx, userID, func(ctx context.Context) (domain.Member, error) {
			return provider.SetCurrentCohort(ctx, userID, isCurrentCohort)
		})
	}
}

func BuildSetRole(client *cache.Client, provider memberProvider) SetRole {
	edit := BuildEditMember(client)
	return func(ctx context.Context, userID int64, role domain.Role) (domain.Member, error) {
		return edit(ctx, userID, func(ctx context.Context) (domain.Member, error) {
			return provider.SetRole(ctx, userID, role)
		})
	}
}
