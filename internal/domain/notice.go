package domain

import "time"

type Notice struct {
	ID         int64
	Title      string
	Content    string
	Importance string
	Status     string
	AuthorID   int64
	AuthorName *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type NoticeDraft struct {
	Title      string
	Content    string
	Importance string
}

// NoticeUpdate changes the fields that are set.
type NoticeUpdate struct {
	Title      *string
	Content    *string
	Importance *string
}
