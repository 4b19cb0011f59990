package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futsalhub/clubadmin/internal/domain"
)

type noticeWire struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Importance string  `json:"importance"`
	Status     string  `json:"status"`
	AuthorID   int64   `json:"authorId"`
	AuthorName *string `json:"authorName"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

func (tc timeCodec) notice(w noticeWire) (domain.Notice, error) {
	createdAt, err := tc.parse(w.CreatedAt)
	if err != nil {
		return domain.Notice{}, fmt.Errorf("notice %d createdAt: %w", w.ID, err)
	}
	updatedAt, err := tc.parse(w.UpdatedAt)
	if err != nil {
		return domain.Notice{}, fmt.Errorf("notice %d updatedAt: %w", w.ID, err)
	}
	return domain.Notice{
		ID:         w.ID,
		Title:      w.Title,
		Content:    w.Content,
		Importance: w.Importance,
		Status:     w.Status,
		AuthorID:   w.AuthorID,
		AuthorName: w.AuthorName,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

type noticeCreateRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Importance string `json:"importance"`
}

type noticeUpdateRequest struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	Importance *string `json:"importance,omitempty"`
}

func (c *Client) notice(ctx context.Context, operation, method, path string, payload any) (domain.Notice, error) {
	notice, err := send[noticeWire](ctx, c, operation, method, path, payload)
	if err != nil {
		return domain.Notice{}, err
	}
	return c.times.notice(notice)
}

func (c *Client) ListNotices(ctx context.Context, page, size int) (domain.Page[domain.Notice], error) {
	notices, err := get[pageWire[noticeWire]](ctx, c, "Backend.ListNotices", "/api/notices/paged", pageQuery(page, size))
	if err != nil {
		return domain.Page[domain.Notice]{}, err
	}
	return convertPage(notices, c.times.notice)
}

func (c *Client) GetNotice(ctx context.Context, noticeID int64) (domain.Notice, error) {
	return c.notice(ctx, "Backend.GetNotice", http.MethodGet, idPath("/api/notices/%d", noticeID), nil)
}

func (c *Client) CreateNotice(ctx context.Context, draft domain.NoticeDraft) (domain.Notice, error) {
	if draft.Title == "" || draft.Content == "" {
		return domain.Notice{}, fmt.Errorf("%w: notice title and content are required", domain.ErrInvalidInput)
	}
	return c.notice(ctx, "Backend.CreateNotice", http.MethodPost, "/api/notices", noticeCreateRequest{
		Title:      draft.Title,
		Content:    draft.Content,
		Importance: draft.Importance,
	})
}

func (c *Client) UpdateNotice(ctx context.Context, noticeID int64, update domain.NoticeUpdate) (domain.Notice, error) {
	return c.notice(ctx, "Backend.UpdateNotice", http.MethodPut, idPath("/api/notices/%d", noticeID), noticeUpdateRequest{
		Title:      update.Title,
		Content:    update.Content,
		Importance: update.Importance,
	})
}

func (c *Client) DeleteNotice(ctx context.Context, noticeID int64) error {
	return c.exec(ctx, "Backend.DeleteNotice", http.MethodDelete, idPath("/api/notices/%d", noticeID), nil)
}

func (c *Client) ToggleNoticeStatus(ctx context.Context, noticeID int64) (domain.Notice, error) {
	return c.notice(ctx, "Backend.ToggleNoticeStatus", http.MethodPut, idPath("/api/notices/%d/toggle-status", noticeID), nil)
}
