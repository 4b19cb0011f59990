package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/futsalhub/clubadmin/internal/domain"
)

type photoWire struct {
	ID           int64   `json:"id"`
	ScheduleID   int64   `json:"scheduleId"`
	ImageURL     string  `json:"imageUrl"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	Description  *string `json:"description"`
	UploaderID   int64   `json:"uploaderId"`
	CreatedAt    string  `json:"createdAt"`
}

func (tc timeCodec) photo(w photoWire) (domain.Photo, error) {
	createdAt, err := tc.parse(w.CreatedAt)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("photo %d createdAt: %w", w.ID, err)
	}
	return domain.Photo{
		ID:           w.ID,
		ScheduleID:   w.ScheduleID,
		ImageURL:     w.ImageURL,
		ThumbnailURL: w.ThumbnailURL,
		Description:  w.Description,
		UploaderID:   w.UploaderID,
		CreatedAt:    createdAt,
	}, nil
}

func (c *Client) ListPhotos(ctx context.Context, scheduleID int64) ([]domain.Photo, error) {
	photos, err := list[photoWire](ctx, c, "Backend.ListPhotos", idPath("/api/gallery/schedule/%d", scheduleID), nil)
	if err != nil {
		return nil, err
	}
	return convertAll(photos, c.times.photo)
}

func (c *Client) ListPhotosPaged(ctx context.Context, scheduleID int64, page, size int) (domain.Page[domain.Photo], error) {
	photos, err := get[pageWire[photoWire]](ctx, c, "Backend.ListPhotosPaged", idPath("/api/gallery/schedule/%d/paged", scheduleID), pageQuery(page, size))
	if err != nil {
		return domain.Page[domain.Photo]{}, err
	}
	return convertPage(photos, c.times.photo)
}

// UploadPhoto sends the image as multipart/form-data with the fields "file"
// and "scheduleId".
func (c *Client) UploadPhoto(ctx context.Context, upload domain.PhotoUpload) (domain.Photo, error) {
	if len(upload.Content) == 0 {
		return domain.Photo{}, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	file, err := writer.CreateFormFile("file", filepath.Base(upload.Filename))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("failed to create upload form: %w", err)
	}
	if _, err := file.Write(upload.Content); err != nil {
		return domain.Photo{}, fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.WriteField("scheduleId", strconv.FormatInt(upload.ScheduleID, 10)); err != nil {
		return domain.Photo{}, fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return domain.Photo{}, fmt.Errorf("failed to finish upload form: %w", err)
	}

	photo, err := fetch[photoWire](ctx, c, request{
		operation:   "Backend.UploadPhoto",
		method:      http.MethodPost,
		path:        "/api/gallery/upload",
		body:        body.Bytes(),
		contentType: writer.FormDataContentType(),
	})
	if err != nil {
		return domain.Photo{}, err
	}
	return c.times.photo(photo)
}

func (c *Client) DeletePhoto(ctx context.Context, photoID int64) error {
	return c.exec(ctx, "Backend.DeletePhoto", http.MethodDelete, idPath("/api/gallery/%d", photoID), nil)
}

func (c *Client) UpdatePhotoDescription(ctx context.Context, photoID int64, description string) (domain.Photo, error) {
	body := struct {
		Description string `json:"description"`
	}{Description: description}
	photo, err := send[photoWire](ctx, c, "Backend.UpdatePhotoDescription", http.MethodPut, idPath("/api/gallery/%d/description", photoID), body)
	if err != nil {
		return domain.Photo{}, err
	}
	return c.times.photo(photo)
}
