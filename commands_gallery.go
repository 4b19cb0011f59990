package main

import (
	"context"
	"fmt"
	"os"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type GalleryCmd struct {
	List     GalleryListCmd     `cmd:"" help:"List the photos of a schedule."`
	Upload   GalleryUploadCmd   `cmd:"" help:"Upload a photo to a schedule."`
	Delete   GalleryDeleteCmd   `cmd:"" help:"Delete a photo."`
	Describe GalleryDescribeCmd `cmd:"" help:"Set a photo's description."`
}

type GalleryListCmd struct {
	ScheduleID int64 `arg:"" help:"Schedule id."`
	Page       int   `help:"Page to show, starting at 1. All photos when unset."`
	Refresh    bool  `help:"Ignore cached data."`
}

func (c *GalleryListCmd) Run(ctx context.Context, con *console) error {
	if c.Page > 0 {
		page, err := cache.FetchQuery(ctx, con.cache, app.PhotosPageQuery(con.backend, c.ScheduleID, c.Page-1), fetchOptions(c.Refresh)...)
		if err != nil {
			return err
		}
		return con.out.Photos(page.Items)
	}

	photos, err := cache.FetchQuery(ctx, con.cache, app.PhotosQuery(con.backend, c.ScheduleID), fetchOptions(c.Refresh)...)
	if err != nil {
		return err
	}
	return con.out.Photos(photos)
}

type GalleryUploadCmd struct {
	ScheduleID int64  `arg:"" help:"Schedule id."`
	File       string `arg:"" type:"existingfile" help:"Image to upload."`
}

func (c *GalleryUploadCmd) Run(ctx context.Context, con *console) error {
	content, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", c.File, err)
	}
	photo, err := con.uploadPhoto(ctx, domain.PhotoUpload{
		ScheduleID: c.ScheduleID,
		Filename:   c.File,
		Content:    content,
	})
	if err != nil {
		return err
	}
	con.out.Success("Uploaded photo %d", photo.ID)
	return nil
}

type GalleryDeleteCmd struct {
	ScheduleID int64 `arg:"" help:"Schedule the photo belongs to."`
	PhotoID    int64 `arg:"" help:"Photo id."`
}

func (c *GalleryDeleteCmd) Run(ctx context.Context, con *console) error {
	if err := con.deletePhoto(ctx, c.ScheduleID, c.PhotoID); err != nil {
		return err
	}
	con.out.Success("Deleted photo %d", c.PhotoID)
	return nil
}

type GalleryDescribeCmd struct {
	ScheduleID  int64  `arg:"" help:"Schedule the photo belongs to."`
	PhotoID     int64  `arg:"" help:"Photo id."`
	Description string `arg:"" help:"New description."`
}

func (c *GalleryDescribeCmd) Run(ctx context.Context, con *console) error {
	if _, err := con.updatePhotoDescription(ctx, c.ScheduleID, c.PhotoID, c.Description); err != nil {
		return err
	}
	con.out.Success("Updated photo %d", c.PhotoID)
	return nil
}
