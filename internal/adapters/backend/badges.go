package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futsalhub/clubadmin/internal/domain"
)

type badgeWire struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Grade       string  `json:"grade"`
	ImageURL    *string `json:"imageUrl"`
	Active      bool    `json:"active"`
	CreatedAt   string  `json:"createdAt"`
}

func (tc timeCodec) badge(w badgeWire) (domain.Badge, error) {
	createdAt, err := tc.parse(w.CreatedAt)
	if err != nil {
		return domain.Badge{}, fmt.Errorf("badge %d createdAt: %w", w.ID, err)
	}
	return domain.Badge{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Category:    domain.BadgeCategory(w.Category),
		Grade:       domain.BadgeGrade(w.Grade),
		ImageURL:    w.ImageURL,
		Active:      w.Active,
		CreatedAt:   createdAt,
	}, nil
}

type badgeCreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Grade       string  `json:"grade"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

type badgeUpdateRequest struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Category    *domain.BadgeCategory `json:"category,omitempty"`
	Grade       *domain.BadgeGrade    `json:"grade,omitempty"`
	ImageURL    *string               `json:"imageUrl,omitempty"`
	Active      *bool                 `json:"active,omitempty"`
}

func (c *Client) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	badges, err := list[badgeWire](ctx, c, "Backend.ListBadges", "/api/badges", nil)
	if err != nil {
		return nil, err
	}
	return convertAll(badges, c.times.badge)
}

func (c *Client) GetBadge(ctx context.Context, badgeID int64) (domain.Badge, error) {
	badge, err := get[badgeWire](ctx, c, "Backend.GetBadge", idPath("/api/badges/%d", badgeID), nil)
	if err != nil {
		return domain.Badge{}, err
	}
	return c.times.badge(badge)
}

func (c *Client) CreateBadge(ctx context.Context, draft domain.BadgeDraft) (domain.Badge, error) {
	if err := draft.Validate(); err != nil {
		return domain.Badge{}, err
	}
	badge, err := send[badgeWire](ctx, c, "Backend.CreateBadge", http.MethodPost, "/api/badges", badgeCreateRequest{
		Name:        draft.Name,
		Description: draft.Description,
		Category:    string(draft.Category),
		Grade:       string(draft.Grade),
		ImageURL:    draft.ImageURL,
	})
	if err != nil {
		return domain.Badge{}, err
	}
	return c.times.badge(badge)
}

func (c *Client) UpdateBadge(ctx context.Context, badgeID int64, update domain.BadgeUpdate) (domain.Badge, error) {
	badge, err := send[badgeWire](ctx, c, "Backend.UpdateBadge", http.MethodPut, idPath("/api/badges/%d", badgeID), badgeUpdateRequest{
		Name:        update.Name,
		Description: update.Description,
		Category:    update.Category,
		Grade:       update.Grade,
		ImageURL:    update.ImageURL,
		Active:      update.Active,
	})
	if err != nil {
		return domain.Badge{}, err
	}
	return c.times.badge(badge)
}

func (c *Client) DeleteBadge(ctx context.Context, badgeID int64) error {
	return c.exec(ctx, "Backend.DeleteBadge", http.MethodDelete, idPath("/api/badges/%d", badgeID), nil)
}

func (c *Client) ActivateBadge(ctx context.Context, badgeID int64) (domain.Badge, error) {
	badge, err := send[badgeWire](ctx, c, "Backend.ActivateBadge", http.MethodPost, idPath("/api/badges/%d/activate", badgeID), nil)
	if err != nil {
		return domain.Badge{}, err
	}
	return c.times.badge(badge)
}

func (c *Client) GrantBadge(ctx context.Context, badgeID, userID int64) error {
	return c.exec(ctx, "Backend.GrantBadge", http.MethodPost, idPath("/api/badges/%d/grant/%d", badgeID, userID), nil)
}
