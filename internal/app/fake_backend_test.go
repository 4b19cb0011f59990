package app_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 14, 19, 30, 0, 0, time.UTC)

func nowFunc() time.Time {
	return fixedNow
}

func newCacheClient(t *testing.T) *cache.Client {
	t.Helper()
	client, err := cache.New(cache.WithNowFunc(nowFunc))
	require.NoError(t, err)
	return client
}

// fakeBackend is an in-memory stand-in for the backend client. Every read is
// counted by method name.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int
	err   error

	badges     []domain.Badge
	schedules  map[int64]domain.Schedule
	members    map[int64]domain.Member
	inviteKeys []domain.InviteKey
	stats      domain.InviteKeyStats

	rangeFrom, rangeTo string

	token          string
	onUnauthorized []func(ctx context.Context)
	session        domain.Session
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:     map[string]int{},
		schedules: map[int64]domain.Schedule{},
		members:   map[int64]domain.Member{},
	}
}

func (b *fakeBackend) record(method string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[method]++
	return b.err
}

func (b *fakeBackend) callCount(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

func (b *fakeBackend) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// Badges

func (b *fakeBackend) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	if err := b.record("ListBadges"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.badges), nil
}

func (b *fakeBackend) badgeIndex(badgeID int64) (int, error) {
	for i, badge := range b.badges {
		if badge.ID == badgeID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: badge %d", domain.ErrNotFound, badgeID)
}

func (b *fakeBackend) GetBadge(ctx context.Context, badgeID int64) (domain.Badge, error) {
	if err := b.record("GetBadge"); err != nil {
		return domain.Badge{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i, err := b.badgeIndex(badgeID)
	if err != nil {
		return domain.Badge{}, err
	}
	return b.badges[i], nil
}

func (b *fakeBackend) CreateBadge(ctx context.Context, draft domain.BadgeDraft) (domain.Badge, error) {
	if err := b.record("CreateBadge"); err != nil {
		return domain.Badge{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	badge := domain.Badge{
		ID:       int64(len(b.badges) + 1),
		Name:     draft.Name,
		Category: draft.Category,
		Grade:    draft.Grade,
	}
	b.badges = append(b.badges, badge)
	return badge, nil
}

func (b *fakeBackend) UpdateBadge(ctx context.Context, badgeID int64, update domain.BadgeUpdate) (domain.Badge, error) {
	if err := b.record("UpdateBadge"); err != nil {
		return domain.Badge{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i, err := b.badgeIndex(badgeID)
	if err != nil {
		return domain.Badge{}, err
	}
	if update.Name != nil {
		b.badges[i].Name = *update.Name
	}
	return b.badges[i], nil
}

func (b *fakeBackend) DeleteBadge(ctx context.Context, badgeID int64) error {
	if err := b.record("DeleteBadge"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i, err := b.badgeIndex(badgeID)
	if err != nil {
		return err
	}
	b.badges = slices.Delete(b.badges, i, i+1)
	return nil
}

func (b *fakeBackend) ActivateBadge(ctx context.Context, badgeID int64) (domain.Badge, error) {
	if err := b.record("ActivateBadge"); err != nil {
		return domain.Badge{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i, err := b.badgeIndex(badgeID)
	if err != nil {
		return domain.Badge{}, err
	}
	b.badges[i].Active = true
	return b.badges[i], nil
}

func (b *fakeBackend) GrantBadge(ctx context.Context, badgeID, userID int64) error {
	return b.record("GrantBadge")
}

// Schedules

func (b *fakeBackend) sortedSchedules(keep func(domain.Schedule) bool) []domain.Schedule {
	b.mu.Lock()
	defer b.mu.Unlock()
	schedules := []domain.Schedule{}
	for _, schedule := range b.schedules {
		if keep(schedule) {
			schedules = append(schedules, schedule)
		}
	}
	slices.SortFunc(schedules, func(a, b domain.Schedule) int {
		return a.DateTime.Compare(b.DateTime)
	})
	return schedules
}

func (b *fakeBackend) ListSchedulesByStatus(ctx context.Context, status domain.ScheduleStatus) ([]domain.Schedule, error) {
	if err := b.record("ListSchedulesByStatus"); err != nil {
		return nil, err
	}
	return b.sortedSchedules(func(s domain.Schedule) bool { return s.Status == status }), nil
}

func (b *fakeBackend) ListActiveFirstVoteSchedules(ctx context.Context) ([]domain.Schedule, error) {
	if err := b.record("ListActiveFirstVoteSchedules"); err != nil {
		return nil, err
	}
	return b.sortedSchedules(func(s domain.Schedule) bool {
		return s.Status == domain.ScheduleStatusFirstVoteInProgress
	}), nil
}

func (b *fakeBackend) ListConfirmedSchedules(ctx context.Context) ([]domain.Schedule, error) {
	if err := b.record("ListConfirmedSchedules"); err != nil {
		return nil, err
	}
	return b.sortedSchedules(func(s domain.Schedule) bool { return s.Status == domain.ScheduleStatusConfirmed }), nil
}

func (b *fakeBackend) ListSchedulesInRange(ctx context.Context, from, to string) ([]domain.Schedule, error) {
	if err := b.record("ListSchedulesInRange"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.rangeFrom, b.rangeTo = from, to
	b.mu.Unlock()
	return b.sortedSchedules(func(domain.Schedule) bool { return true }), nil
}

func (b *fakeBackend) GetSchedule(ctx context.Context, scheduleID int64) (domain.Schedule, error) {
	if err := b.record("GetSchedule"); err != nil {
		return domain.Schedule{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	schedule, ok := b.schedules[scheduleID]
	if !ok {
		return domain.Schedule{}, fmt.Errorf("%w: schedule %d", domain.ErrNotFound, scheduleID)
	}
	return schedule, nil
}

func (b *fakeBackend) GetFirstVoteParticipationRate(ctx context.Context, scheduleID int64) (float64, error) {
	if err := b.record("GetFirstVoteParticipationRate"); err != nil {
		return 0, err
	}
	return 0.5, nil
}

func (b *fakeBackend) CreateSchedule(ctx context.Context, draft domain.ScheduleDraft) (domain.Schedule, error) {
	if err := b.record("CreateSchedule"); err != nil {
		return domain.Schedule{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	schedule := domain.Schedule{
		ID:       int64(len(b.schedules) + 1),
		DateTime: draft.DateTime,
		Location: draft.Location,
		Status:   domain.ScheduleStatusProposed,
	}
	b.schedules[schedule.ID] = schedule
	return schedule, nil
}

func (b *fakeBackend) setStatus(method string, scheduleID int64, status domain.ScheduleStatus) (domain.Schedule, error) {
	if err := b.record(method); err != nil {
		return domain.Schedule{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	schedule, ok := b.schedules[scheduleID]
	if !ok {
		return domain.Schedule{}, fmt.Errorf("%w: schedule %d", domain.ErrNotFound, scheduleID)
	}
	schedule.Status = status
	b.schedules[scheduleID] = schedule
	return schedule, nil
}

func (b *fakeBackend) UpdateSchedule(ctx context.Context, scheduleID int64, update domain.ScheduleUpdate) (domain.Schedule, error) {
	if err := b.record("UpdateSchedule"); err != nil {
		return domain.Schedule{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	schedule := b.schedules[scheduleID]
	if update.Location != nil {
		schedule.Location = *update.Location
	}
	b.schedules[scheduleID] = schedule
	return schedule, nil
}

func (b *fakeBackend) DeleteSchedule(ctx context.Context, scheduleID int64) error {
	if err := b.record("DeleteSchedule"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.schedules, scheduleID)
	return nil
}

func (b *fakeBackend) StartFirstVote(ctx context.Context, scheduleID int64) (domain.Schedule, error) {
	return b.setStatus("StartFirstVote", scheduleID, domain.ScheduleStatusFirstVoteInProgress)
}

func (b *fakeBackend) CloseFirstVote(ctx context.Context, scheduleID int64) (domain.Schedule, error) {
	return b.setStatus("CloseFirstVote", scheduleID, domain.ScheduleStatusFirstVoteCompleted)
}

func (b *fakeBackend) ConfirmSchedule(ctx context.Context, scheduleID int64) (domain.Schedule, error) {
	return b.setStatus("ConfirmSchedule", scheduleID, domain.ScheduleStatusConfirmed)
}

func (b *fakeBackend) CancelSchedule(ctx context.Context, scheduleID int64, reason string) (domain.Schedule, error) {
	return b.setStatus("CancelSchedule", scheduleID, domain.ScheduleStatusCancelled)
}

// Members

func (b *fakeBackend) ListMembers(ctx context.Context, page, size int, search string) (domain.Page[domain.Member], error) {
	if err := b.record("ListMembers"); err != nil {
		return domain.Page[domain.Member]{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	members := []domain.Member{}
	for _, member := range b.members {
		members = append(members, member)
	}
	slices.SortFunc(members, func(a, b domain.Member) int { return int(a.ID - b.ID) })
	return domain.Page[domain.Member]{Items: members, TotalElements: len(members), TotalPages: 1, Size: size, Number: page}, nil
}

func (b *fakeBackend) GetMember(ctx context.Context, userID int64) (domain.Member, error) {
	if err := b.record("GetMember"); err != nil {
		return domain.Member{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.members[userID], nil
}

func (b *fakeBackend) CountMembers(ctx context.Context) (int, error) {
	if err := b.record("CountMembers"); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.members), nil
}

func (b *fakeBackend) editMember(method string, userID int64, edit func(*domain.Member)) (domain.Member, error) {
	if err := b.record(method); err != nil {
		return domain.Member{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	member := b.members[userID]
	edit(&member)
	b.members[userID] = member
	return member, nil
}

func (b *fakeBackend) UpdateMember(ctx context.Context, userID int64, update domain.MemberUpdate) (domain.Member, error) {
	return b.editMember("UpdateMember", userID, func(m *domain.Member) {
		if update.Name != nil {
			m.Name = *update.Name
		}
	})
}

func (b *fakeBackend) SetFutsalLevel(ctx context.Context, userID int64, level domain.FutsalLevel) (domain.Member, error) {
	return b.editMember("SetFutsalLevel", userID, func(m *domain.Member) { m.FutsalLevel = level })
}

func (b *fakeBackend) SetCurrentCohort(ctx context.Context, userID int64, isCurrentCohort bool) (domain.Member, error) {
	return b.editMember("SetCurrentCohort", userID, func(m *domain.Member) { m.IsCurrentCohort = isCurrentCohort })
}

func (b *fakeBackend) SetRole(ctx context.Context, userID int64, role domain.Role) (domain.Member, error) {
	return b.editMember("SetRole", userID, func(m *domain.Member) { m.Role = role })
}

// Invite keys

func (b *fakeBackend) ListInviteKeys(ctx context.Context) ([]domain.InviteKey, error) {
	if err := b.record("ListInviteKeys"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.inviteKeys), nil
}

func (b *fakeBackend) ListActiveInviteKeys(ctx context.Context) ([]domain.InviteKey, error) {
	if err := b.record("ListActiveInviteKeys"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return domain.FilterInviteKeys(b.inviteKeys, domain.InviteKeyFilterActive, fixedNow), nil
}

func (b *fakeBackend) InviteKeyStats(ctx context.Context) (domain.InviteKeyStats, error) {
	if err := b.record("InviteKeyStats"); err != nil {
		return domain.InviteKeyStats{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats, nil
}

func (b *fakeBackend) CreateInviteKey(ctx context.Context) (string, error) {
	if err := b.record("CreateInviteKey"); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	value := fmt.Sprintf("KEY-%d", len(b.inviteKeys)+1)
	b.inviteKeys = append(b.inviteKeys, domain.InviteKey{Value: value, ExpiresAt: fixedNow.Add(7 * 24 * time.Hour)})
	return value, nil
}

func (b *fakeBackend) ExpireInviteKey(ctx context.Context, key string) error {
	if err := b.record("ExpireInviteKey"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.inviteKeys {
		if b.inviteKeys[i].Value == key {
			b.inviteKeys[i].ExpiresAt = fixedNow.Add(-time.Minute)
		}
	}
	return nil
}

func (b *fakeBackend) DeleteInviteKey(ctx context.Context, key string) error {
	if err := b.record("DeleteInviteKey"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inviteKeys = slices.DeleteFunc(b.inviteKeys, func(k domain.InviteKey) bool { return k.Value == key })
	return nil
}

// Auth

func (b *fakeBackend) SendLoginCode(ctx context.Context, email string) error {
	return b.record("SendLoginCode")
}

func (b *fakeBackend) VerifyLoginCode(ctx context.Context, email, code string) error {
	return b.record("VerifyLoginCode")
}

func (b *fakeBackend) Login(ctx context.Context, email, code string) (domain.Session, error) {
	if err := b.record("Login"); err != nil {
		return domain.Session{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session, nil
}

func (b *fakeBackend) SetAccessToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

func (b *fakeBackend) HasAccessToken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token != ""
}

func (b *fakeBackend) OnUnauthorized(fn func(ctx context.Context)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onUnauthorized = append(b.onUnauthorized, fn)
}

// rejectToken behaves like the backend answering 401.
func (b *fakeBackend) rejectToken(ctx context.Context) {
	b.mu.Lock()
	hooks := slices.Clone(b.onUnauthorized)
	b.mu.Unlock()
	for _, hook := range hooks {
		hook(ctx)
	}
}

// Notices, gallery and settlements only count calls and echo ids back.

func (b *fakeBackend) ListNotices(ctx context.Context, page, size int) (domain.Page[domain.Notice], error) {
	if err := b.record("ListNotices"); err != nil {
		return domain.Page[domain.Notice]{}, err
	}
	return domain.Page[domain.Notice]{Items: []domain.Notice{}, Size: size, Number: page}, nil
}

func (b *fakeBackend) GetNotice(ctx context.Context, noticeID int64) (domain.Notice, error) {
	if err := b.record("GetNotice"); err != nil {
		return domain.Notice{}, err
	}
	return domain.Notice{ID: noticeID}, nil
}

func (b *fakeBackend) CreateNotice(ctx context.Context, draft domain.NoticeDraft) (domain.Notice, error) {
	if err := b.record("CreateNotice"); err != nil {
		return domain.Notice{}, err
	}
	return domain.Notice{ID: 1, Title: draft.Title}, nil
}

func (b *fakeBackend) UpdateNotice(ctx context.Context, noticeID int64, update domain.NoticeUpdate) (domain.Notice, error) {
	if err := b.record("UpdateNotice"); err != nil {
		return domain.Notice{}, err
	}
	return domain.Notice{ID: noticeID}, nil
}

func (b *fakeBackend) DeleteNotice(ctx context.Context, noticeID int64) error {
	return b.record("DeleteNotice")
}

func (b *fakeBackend) ToggleNoticeStatus(ctx context.Context, noticeID int64) (domain.Notice, error) {
	if err := b.record("ToggleNoticeStatus"); err != nil {
		return domain.Notice{}, err
	}
	return domain.Notice{ID: noticeID}, nil
}

func (b *fakeBackend) ListPhotos(ctx context.Context, scheduleID int64) ([]domain.Photo, error) {
	if err := b.record("ListPhotos"); err != nil {
		return nil, err
	}
	return []domain.Photo{{ID: 1, ScheduleID: scheduleID}}, nil
}

func (b *fakeBackend) ListPhotosPaged(ctx context.Context, scheduleID int64, page, size int) (domain.Page[domain.Photo], error) {
	if err := b.record("ListPhotosPaged"); err != nil {
		return domain.Page[domain.Photo]{}, err
	}
	return domain.Page[domain.Photo]{Items: []domain.Photo{{ID: 1, ScheduleID: scheduleID}}, Size: size, Number: page}, nil
}

func (b *fakeBackend) UploadPhoto(ctx context.Context, upload domain.PhotoUpload) (domain.Photo, error) {
	if err := b.record("UploadPhoto"); err != nil {
		return domain.Photo{}, err
	}
	return domain.Photo{ID: 2, ScheduleID: upload.ScheduleID}, nil
}

func (b *fakeBackend) DeletePhoto(ctx context.Context, photoID int64) error {
	return b.record("DeletePhoto")
}

func (b *fakeBackend) UpdatePhotoDescription(ctx context.Context, photoID int64, description string) (domain.Photo, error) {
	if err := b.record("UpdatePhotoDescription"); err != nil {
		return domain.Photo{}, err
	}
	return domain.Photo{ID: photoID, Description: &description}, nil
}

func (b *fakeBackend) ListSettlements(ctx context.Context, page, size int, status string) (domain.Page[domain.Settlement], error) {
	if err := b.record("ListSettlements"); err != nil {
		return domain.Page[domain.Settlement]{}, err
	}
	return domain.Page[domain.Settlement]{Items: []domain.Settlement{{ID: 4, Status: status}}, Size: size, Number: page}, nil
}

func (b *fakeBackend) GetSettlement(ctx context.Context, settlementID int64) (domain.Settlement, error) {
	if err := b.record("GetSettlement"); err != nil {
		return domain.Settlement{}, err
	}
	return domain.Settlement{ID: settlementID}, nil
}

func (b *fakeBackend) SettlementHistory(ctx context.Context, settlementID int64) ([]domain.SettlementEvent, error) {
	if err := b.record("SettlementHistory"); err != nil {
		return nil, err
	}
	return []domain.SettlementEvent{{"action": "CREATED"}}, nil
}

func (b *fakeBackend) CalculateSettlement(ctx context.Context, scheduleID int64, terms domain.SettlementTerms) (domain.Settlement, error) {
	if err := b.record("CalculateSettlement"); err != nil {
		return domain.Settlement{}, err
	}
	return domain.Settlement{ID: 5, ScheduleID: scheduleID, TotalCost: terms.TotalCost}, nil
}

func (b *fakeBackend) UpdateSettlement(ctx context.Context, settlementID int64, terms domain.SettlementTerms) error {
	return b.record("UpdateSettlement")
}

func (b *fakeBackend) ResendSettlement(ctx context.Context, settlementID int64) error {
	return b.record("ResendSettlement")
}
