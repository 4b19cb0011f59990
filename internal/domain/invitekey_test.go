package domain_test

import (
	"testing"
	"time"

	"github.com/futsalhub/clubadmin/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestFilterInviteKeys(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	usedAt := now.Add(-time.Hour)

	active := domain.InviteKey{Value: "active", ExpiresAt: now.Add(24 * time.Hour)}
	used := domain.InviteKey{Value: "used", ExpiresAt: now.Add(24 * time.Hour), Used: true, UsedAt: &usedAt}
	expired := domain.InviteKey{Value: "expired", ExpiresAt: now.Add(-time.Minute)}
	expiresNow := domain.InviteKey{Value: "expires-now", ExpiresAt: now}
	usedAndExpired := domain.InviteKey{Value: "used-expired", ExpiresAt: now.Add(-time.Minute), Used: true}

	keys := []domain.InviteKey{active, used, expired, expiresNow, usedAndExpired}

	cases := []struct {
		filter domain.InviteKeyFilter
		want   []string
	}{
		{filter: domain.InviteKeyFilterAll, want: []string{"active", "used", "expired", "expires-now", "used-expired"}},
		{filter: domain.InviteKeyFilterActive, want: []string{"active"}},
		{filter: domain.InviteKeyFilterUsed, want: []string{"used", "used-expired"}},
		{filter: domain.InviteKeyFilterExpired, want: []string{"expired", "expires-now"}},
	}

	for _, c := range cases {
		t.Run(string(c.filter), func(t *testing.T) {
			t.Parallel()

			filtered := domain.FilterInviteKeys(keys, c.filter, now)
			values := make([]string, 0, len(filtered))
			for _, key := range filtered {
				values = append(values, key.Value)
			}
			require.Equal(t, c.want, values)
		})
	}
}

func TestParseInviteKeyFilter(t *testing.T) {
	t.Parallel()

	filter, err := domain.ParseInviteKeyFilter("")
	require.NoError(t, err)
	require.Equal(t, domain.InviteKeyFilterAll, filter)

	filter, err = domain.ParseInviteKeyFilter("expired")
	require.NoError(t, err)
	require.Equal(t, domain.InviteKeyFilterExpired, filter)

	_, err = domain.ParseInviteKeyFilter("archived")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
