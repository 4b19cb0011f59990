package app

import (
	"context"
	"fmt"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type noticeProvider interface {
	ListNotices(ctx context.Context, page, size int) (domain.Page[domain.Notice], error)
	GetNotice(ctx context.Context, noticeID int64) (domain.Notice, error)
	CreateNotice(ctx context.Context, draft domain.NoticeDraft) (domain.Notice, error)
	UpdateNotice(ctx context.Context, noticeID int64, update domain.NoticeUpdate) (domain.Notice, error)
	DeleteNotice(ctx context.Context, noticeID int64) error
	ToggleNoticeStatus(ctx context.Context, noticeID int64) (domain.Notice, error)
}

const NoticesPageSize = 10

func NoticesQuery(provider noticeProvider, page int) cache.Query[domain.Page[domain.Notice]] {
	return cache.Query[domain.Page[domain.Notice]]{
		Key: NoticesKey(page),
		Load: func(ctx context.Context) (domain.Page[domain.Notice], error) {
			return provider.ListNotices(ctx, page, NoticesPageSize)
		},
	}
}

func NoticeQuery(provider noticeProvider, noticeID int64) cache.Query[domain.Notice] {
	return cache.Query[domain.Notice]{
		Key: NoticeKey(noticeID),
		Load: func(ctx context.Context) (domain.Notice, error) {
			return provider.GetNotice(ctx, noticeID)
		},
	}
}

type CreateNotice func(ctx context.Context, draft domain.NoticeDraft) (domain.Notice, error)
type UpdateNotice func(ctx context.Context, noticeID int64, update domain.NoticeUpdate) (domain.Notice, error)
type DeleteNotice func(ctx context.Context, noticeID int64) error
type ToggleNoticeStatus func(ctx context.Context, noticeID int64) (domain.Notice, error)

var noticeInvalidates = []cache.Key{NoticesPrefix}

func BuildCreateNotice(client *cache.Client, provider noticeProvider) CreateNotice {
	return func(ctx context.Context, draft domain.NoticeDraft) (domain.Notice, error) {
		notice, err := mutate(ctx, client, func(ctx context.Context) (domain.Notice, error) {
			return provider.CreateNotice(ctx, draft)
		}, noticeInvalidates)
		if err != nil {
			return domain.Notice{}, fmt.Errorf("could not create notice: %w", err)
		}
		return notice, nil
	}
}

func BuildUpdateNotice(client *cache.Client, provider noticeProvider) UpdateNotice {
	return func(ctx context.Context, noticeID int64, update domain.NoticeUpdate) (domain.Notice, error) {
		notice, err := mutate(ctx, client, func(ctx context.Context) (domain.Notice, error) {
			return provider.UpdateNotice(ctx, noticeID, update)
		}, noticeInvalidates)
		if err != nil {
			return domain.Notice{}, fmt.Errorf("could not update notice %d: %w", noticeID, err)
		}
		return notice, nil
	}
}

func BuildDeleteNotice(client *cache.Client, provider noticeProvider) DeleteNotice {
	return func(ctx context.Context, noticeID int64) error {
		err := mutateVoid(ctx, client, func(ctx context.Context) error {
			return provider.DeleteNotice(ctx, noticeID)
		}, noticeInvalidates, NoticeKey(noticeID))
		if err != nil {
			return fmt.Errorf("could not delete notice %d: %w", noticeID, err)
		}
		return nil
	}
}

func BuildToggleNoticeStatus(client *cache.Client, provider noticeProvider) ToggleNoticeStatus {
	return func(ctx context.Context, noticeID int64) (domain.Notice, error) {
		notice, err := mutate(ctx, client, func(ctx context.Context) (domain.Notice, error) {
			return provider.ToggleNoticeStatus(ctx, noticeID)
		}, noticeInvalidates)
		if err != nil {
			return domain.Notice{}, fmt.Errorf("could not toggle notice %d: %w", noticeID, err)
		}
		return notice, nil
	}
}
