package app

import (
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

// Prefixes shared by several keys. Invalidating one of these marks every key
// below it stale.
var (
	SchedulesPrefix   = cache.NewKey("schedules")
	BadgesPrefix      = cache.NewKey("badges")
	NoticesPrefix     = cache.NewKey("notices")
	InviteKeysPrefix  = cache.NewKey("admin", "invite-keys")
	MembersPrefix     = cache.NewKey("admin", "users")
	SettlementsPrefix = cache.NewKey("admin", "settlements")
)

// SchedulesByStatusKey uses "all" for the empty status.
func SchedulesByStatusKey(status domain.ScheduleStatus) cache.Key {
	if status == "" {
		return SchedulesPrefix.Append("status", "all")
	}
	return SchedulesPrefix.Append("status", string(status))
}

func ActiveFirstVoteSchedulesKey() cache.Key {
	return SchedulesPrefix.Append("active-first-vote")
}

func ConfirmedSchedulesKey() cache.Key {
	return SchedulesPrefix.Append("confirmed")
}

func SchedulesInRangeKey(from, to string) cache.Key {
	return cache.Normalize("schedules", map[string]any{"from": from, "to": to})
}

func ScheduleKey(scheduleID int64) cache.Key {
	return cache.NewKey("schedule", scheduleID)
}

func ParticipationRateKey(scheduleID int64) cache.Key {
	return ScheduleKey(scheduleID).Append("participation-rate")
}

func BadgesKey() cache.Key {
	return BadgesPrefix
}

func BadgeKey(badgeID int64) cache.Key {
	return BadgesPrefix.Append(badgeID)
}

func NoticesKey(page int) cache.Key {
	return NoticesPrefix.Append("paged", page)
}

func NoticeKey(noticeID int64) cache.Key {
	return NoticesPrefix.Append("detail", noticeID)
}

func InviteKeysKey() cache.Key {
	return InviteKeysPrefix
}

func ActiveInviteKeysKey() cache.Key {
	return InviteKeysPrefix.Append("active")
}

func InviteKeyStatsKey() cache.Key {
	return InviteKeysPrefix.Append("stats")
}

func MembersKey(page int, search string) cache.Key {
	return MembersPrefix.Append("paged", page, search)
}

func MemberCountKey() cache.Key {
	return MembersPrefix.Append("count")
}

func MemberKey(userID int64) cache.Key {
	return cache.NewKey("member", userID)
}

func GalleryKey(scheduleID int64) cache.Key {
	return cache.NewKey("gallery", scheduleID)
}

func GalleryPageKey(scheduleID int64, page int) cache.Key {
	return GalleryKey(scheduleID).Append("paged", page)
}

func SettlementsKey(page int, status string) cache.Key {
	return SettlementsPrefix.Append(page, status)
}

func SettlementKey(settlementID int64) cache.Key {
	return cache.NewKey("settlement", settlementID)
}

func SettlementHistoryKey(settlementID int64) cache.Key {
	return SettlementKey(settlementID).Append("history")
}
