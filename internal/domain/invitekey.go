package domain

import (
	"fmt"
	"time"
)

type InviteKey struct {
	Value     string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (k InviteKey) Active(now time.Time) bool {
	return !k.Used && k.ExpiresAt.After(now)
}

func (k InviteKey) Expired(now time.Time) bool {
	return !k.Used && !k.ExpiresAt.After(now)
}

type InviteKeyStats struct {
	Active  int
	Used    int
	Expired int
}

type InviteKeyFilter string

const (
	InviteKeyFilterAll     InviteKeyFilter = "all"
	InviteKeyFilterActive  InviteKeyFilter = "active"
	InviteKeyFilterUsed    InviteKeyFilter = "used"
	InviteKeyFilterExpired InviteKeyFilter = "expired"
)

func ParseInviteKeyFilter(s string) (InviteKeyFilter, error) {
	switch InviteKeyFilter(s) {
	case InviteKeyFilterAll, InviteKeyFilterActive, InviteKeyFilterUsed, InviteKeyFilterExpired:
		return InviteKeyFilter(s), nil
	case "":
		return InviteKeyFilterAll, nil
	}
	return "", fmt.Errorf("%w: unknown invite key filter %q", ErrInvalidInput, s)
}

func (f InviteKeyFilter) Matches(key InviteKey, now time.Time) bool {
	switch f {
	case InviteKeyFilterActive:
		return key.Active(now)
	case InviteKeyFilterUsed:
		return key.Used
	case InviteKeyFilterExpired:
		return key.Expired(now)
	}
	return true
}

// FilterInviteKeys keeps the order of keys.
func FilterInviteKeys(keys []InviteKey, filter InviteKeyFilter, now time.Time) []InviteKey {
	filtered := make([]InviteKey, 0, len(keys))
	for _, key := range keys {
		if filter.Matches(key, now) {
			filtered = append(filtered, key)
		}
	}
	return filtered
}
