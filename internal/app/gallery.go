package app

import (
	"context"
	"fmt"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type galleryProvider interface {
	ListPhotos(ctx context.Context, scheduleID int64) ([]domain.Photo, error)
	ListPhotosPaged(ctx context.Context, scheduleID int64, page, size int) (domain.Page[domain.Photo], error)
	UploadPhoto(ctx context.Context, upload domain.PhotoUpload) (domain.Photo, error)
	DeletePhoto(ctx context.Context, photoID int64) error
	UpdatePhotoDescription(ctx context.Context, photoID int64, description string) (domain.Photo, error)
}

const GalleryPageSize = 20

func PhotosQuery(provider galleryProvider, scheduleID int64) cache.Query[[]domain.Photo] {
	return cache.Query[[]domain.Photo]{
		Key: GalleryKey(scheduleID),
		Load: func(ctx context.Context) ([]domain.Photo, error) {
			return provider.ListPhotos(ctx, scheduleID)
		},
	}
}

func PhotosPageQuery(provider galleryProvider, scheduleID int64, page int) cache.Query[domain.Page[domain.Photo]] {
	return cache.Query[domain.Page[domain.Photo]]{
		Key: GalleryPageKey(scheduleID, page),
		Load: func(ctx context.Context) (domain.Page[domain.Photo], error) {
			return provider.ListPhotosPaged(ctx, scheduleID, page, GalleryPageSize)
		},
	}
}

type UploadPhoto func(ctx context.Context, upload domain.PhotoUpload) (domain.Photo, error)

// Photo ids don't identify their schedule, so the caller passes it along to
// pick the gallery to refresh.
type DeletePhoto func(ctx context.Context, scheduleID, photoID int64) error
type UpdatePhotoDescription func(ctx context.Context, scheduleID, photoID int64, description string) (domain.Photo, error)

func BuildUploadPhoto(client *cache.Client, provider galleryProvider) UploadPhoto {
	return func(ctx context.Context, upload domain.PhotoUpload) (domain.Photo, error) {
		photo, err := mutate(ctx, client, func(ctx context.Context) (domain.Photo, error) {
			return provider.UploadPhoto(ctx, upload)
		}, []cache.Key{GalleryKey(upload.ScheduleID)})
		if err != nil {
			return domain.Photo{}, fmt.Errorf("could not upload photo: %w", err)
		}
		return photo, nil
	}
}

func BuildDeletePhoto(client *cache.Client, provider galleryProvider) DeletePhoto {
	return func(ctx context.Context, scheduleID, photoID int64) error {
		err := mutateVoid(ctx, client, func(ctx context.Context) error {
			return provider.DeletePhoto(ctx, photoID)
		}, []cache.Key{GalleryKey(scheduleID)})
		if err != nil {
			return fmt.Errorf("could not delete photo %d: %w", photoID, err)
		}
		return nil
	}
}

func BuildUpdatePhotoDescription(client *cache.Client, provider galleryProvider) UpdatePhotoDescription {
	return func(ctx context.Context, scheduleID, photoID int64, description string) (domain.Photo, error) {
		photo, err := mutate(ctx, client, func(ctx context.Context) (domain.Photo, error) {
			return provider.UpdatePhotoDescription(ctx, photoID, description)
		}, []cache.Key{GalleryKey(scheduleID)})
		if err != nil {
			return domain.Photo{}, fmt.Errorf("could not update photo %d: %w", photoID, err)
		}
		return photo, nil
	}
}
