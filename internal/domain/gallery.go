package domain

import "time"

type Photo struct {
	ID           int64
	ScheduleID   int64
	ImageURL     string
	ThumbnailURL *string
	Description  *string
	UploaderID   int64
	CreatedAt    time.Time
}

type PhotoUpload struct {
	ScheduleID int64
	Filename   string
	Content    []byte
}
