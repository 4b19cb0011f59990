package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/futsalhub/clubadmin/internal/domain"
)

// Older backend builds name the fields differently; both spellings are read.
type inviteKeyWire struct {
	KeyValue  string  `json:"keyValue"`
	Key       string  `json:"key"`
	ExpiredAt string  `json:"expiredAt"`
	ExpiresAt string  `json:"expiresAt"`
	Used      *bool   `json:"used"`
	IsUsed    *bool   `json:"isUsed"`
	UsedAt    *string `json:"usedAt"`
	CreatedAt string  `json:"createdAt"`
}

func (tc timeCodec) inviteKey(w inviteKeyWire) (domain.InviteKey, error) {
	value := w.KeyValue
	if value == "" {
		value = w.Key
	}
	if value == "" {
		return domain.InviteKey{}, fmt.Errorf("%w: invite key without a value", errMissingField)
	}

	expires := w.ExpiredAt
	if expires == "" {
		expires = w.ExpiresAt
	}
	expiresAt, err := tc.parse(expires)
	if err != nil {
		return domain.InviteKey{}, fmt.Errorf("invite key expiry: %w", err)
	}
	usedAt, err := tc.parseOptional(w.UsedAt)
	if err != nil {
		return domain.InviteKey{}, fmt.Errorf("invite key usedAt: %w", err)
	}
	var createdAt time.Time
	if w.CreatedAt != "" {
		createdAt, err = tc.parse(w.CreatedAt)
		if err != nil {
			return domain.InviteKey{}, fmt.Errorf("invite key createdAt: %w", err)
		}
	}

	used := false
	switch {
	case w.Used != nil:
		used = *w.Used
	case w.IsUsed != nil:
		used = *w.IsUsed
	}

	return domain.InviteKey{
		Value:     value,
		ExpiresAt: expiresAt,
		Used:      used,
		UsedAt:    usedAt,
		CreatedAt: createdAt,
	}, nil
}

type inviteKeyStatsWire struct {
	Active  int `json:"active"`
	Used    int `json:"used"`
	Expired int `json:"expired"`
}

func keyPath(format, key string) string {
	return fmt.Sprintf(format, url.PathEscape(key))
}

func (c *Client) inviteKeys(ctx context.Context, operation, path string) ([]domain.InviteKey, error) {
	keys, err := list[inviteKeyWire](ctx, c, operation, path, nil)
	if err != nil {
		return nil, err
	}
	return convertAll(keys, c.times.inviteKey)
}

func (c *Client) ListInviteKeys(ctx context.Context) ([]domain.InviteKey, error) {
	return c.inviteKeys(ctx, "Backend.ListInviteKeys", "/api/admin/invite-keys")
}

func (c *Client) ListActiveInviteKeys(ctx context.Context) ([]domain.InviteKey, error) {
	return c.inviteKeys(ctx, "Backend.ListActiveInviteKeys", "/api/admin/invite-keys/active")
}

// InviteKeyStats returns zero counts for fields the backend leaves out.
func (c *Client) InviteKeyStats(ctx context.Context) (domain.InviteKeyStats, error) {
	stats, err := get[inviteKeyStatsWire](ctx, c, "Backend.InviteKeyStats", "/api/admin/invite-keys/stats", nil)
	if err != nil {
		return domain.InviteKeyStats{}, err
	}
	return domain.InviteKeyStats{
		Active:  stats.Active,
		Used:    stats.Used,
		Expired: stats.Expired,
	}, nil
}

// CreateInviteKey returns the value of the new key.
func (c *Client) CreateInviteKey(ctx context.Context) (string, error) {
	return send[string](ctx, c, "Backend.CreateInviteKey", http.MethodPost, "/api/admin/invite-keys", nil)
}

func (c *Client) ExpireInviteKey(ctx context.Context, key string) error {
	return c.exec(ctx, "Backend.ExpireInviteKey", http.MethodPut, keyPath("/api/admin/invite-keys/%s/expire", key), nil)
}

func (c *Client) DeleteInviteKey(ctx context.Context, key string) error {
	return c.exec(ctx, "Backend.DeleteInviteKey", http.MethodDelete, keyPath("/api/admin/invite-keys/%s", key), nil)
}
