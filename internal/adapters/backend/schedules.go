package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/futsalhub/clubadmin/internal/domain"
)

type scheduleWire struct {
	ID                   int64       `json:"id"`
	DateTime             string      `json:"dateTime"`
	Location             string      `json:"location"`
	MinParticipants      int         `json:"minParticipants"`
	FirstVoteDeadline    string      `json:"firstVoteDeadline"`
	Status               string      `json:"status"`
	Memo                 *string     `json:"memo"`
	GeneralMemberAllowed bool        `json:"generalMemberAllowed"`
	CancellationReason   *string     `json:"cancellationReason"`
	CancelledAt          *string     `json:"cancelledAt"`
	CancelledByAdmin     *memberWire `json:"cancelledByAdmin"`
	CreatedAt            string      `json:"createdAt"`
	UpdatedAt            string      `json:"updatedAt"`
}

func (tc timeCodec) schedule(w scheduleWire) (domain.Schedule, error) {
	wrap := func(field string, err error) (domain.Schedule, error) {
		return domain.Schedule{}, fmt.Errorf("schedule %d %s: %w", w.ID, field, err)
	}

	dateTime, err := tc.parse(w.DateTime)
	if err != nil {
		return wrap("dateTime", err)
	}
	deadline, err := tc.parse(w.FirstVoteDeadline)
	if err != nil {
		return wrap("firstVoteDeadline", err)
	}
	cancelledAt, err := tc.parseOptional(w.CancelledAt)
	if err != nil {
		return wrap("cancelledAt", err)
	}
	createdAt, err := tc.parse(w.CreatedAt)
	if err != nil {
		return wrap("createdAt", err)
	}
	updatedAt, err := tc.parse(w.UpdatedAt)
	if err != nil {
		return wrap("updatedAt", err)
	}

	var cancelledBy *domain.Member
	if w.CancelledByAdmin != nil {
		admin, err := tc.member(*w.CancelledByAdmin)
		if err != nil {
			return wrap("cancelledByAdmin", err)
		}
		cancelledBy = &admin
	}

	return domain.Schedule{
		ID:                   w.ID,
		DateTime:             dateTime,
		Location:             w.Location,
		MinParticipants:      w.MinParticipants,
		FirstVoteDeadline:    deadline,
		Status:               domain.ScheduleStatus(w.Status),
		Memo:                 w.Memo,
		GeneralMemberAllowed: w.GeneralMemberAllowed,
		CancellationReason:   w.CancellationReason,
		CancelledAt:          cancelledAt,
		CancelledBy:          cancelledBy,
		CreatedAt:            createdAt,
		UpdatedAt:            updatedAt,
	}, nil
}

type scheduleCreateRequest struct {
	DateTime             string  `json:"dateTime"`
	Location             string  `json:"location"`
	MinParticipants      int     `json:"minParticipants"`
	FirstVoteDeadline    string  `json:"firstVoteDeadline"`
	Memo                 *string `json:"memo,omitempty"`
	GeneralMemberAllowed bool    `json:"generalMemberAllowed"`
}

type scheduleUpdateRequest struct {
	DateTime             *string `json:"dateTime,omitempty"`
	Location             *string `json:"location,omitempty"`
	MinParticipants      *int    `json:"minParticipants,omitempty"`
	FirstVoteDeadline    *string `json:"firstVoteDeadline,omitempty"`
	Memo                 *string `json:"memo,omitempty"`
	GeneralMemberAllowed *bool   `json:"generalMemberAllowed,omitempty"`
}

type scheduleCancelRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

func (c *Client) schedules(ctx context.Context, operation, path string, query url.Values) ([]domain.Schedule, error) {
	schedules, err := list[scheduleWire](ctx, c, operation, path, query)
	if err != nil {
		return nil, err
	}
	return convertAll(schedules, c.times.schedule)
}

func (c *Client) schedule(ctx context.Context, operation, method, path string, payload any) (domain.Schedule, error) {
	schedule, err := send[scheduleWire](ctx, c, operation, method, path, payload)
	if err != nil {
		return domain.Schedule{}, err
	}
	return c.times.schedule(schedule)
}

func (c *Client) ListSchedulesByStatus(ctx context.Context, status domain.ScheduleStatus) ([]domain.Schedule, error) {
	return c.schedules(ctx, "Backend.ListSchedulesByStatus", "/api/schedules/status/"+url.PathEscape(string(status)), nil)
}

func (c *Client) ListActiveFirstVoteSchedules(ctx context.Context) ([]domain.Schedule, error) {
	return c.schedules(ctx, "Backend.ListActiveFirstVoteSchedules", "/api/schedules/active-first-vote", nil)
}

func (c *Client) ListConfirmedSchedules(ctx context.Context) ([]domain.Schedule, error) {
	return c.schedules(ctx, "Backend.ListConfirmedSchedules", "/api/schedules/confirmed", nil)
}

// ListSchedulesInRange takes dates ("2026-03-01") or date-times
// ("2026-03-01T18:00:00"). Bare dates cover the whole day.
func (c *Client) ListSchedulesInRange(ctx context.Context, from, to string) ([]domain.Schedule, error) {
	startDate, err := c.times.rangeBound(from, false)
	if err != nil {
		return nil, err
	}
	endDate, err := c.times.rangeBound(to, true)
	if err != nil {
		return nil, err
	}
	query := url.Values{
		"startDate": {startDate},
		"endDate":   {endDate},
	}
	return c.schedules(ctx, "Backend.ListSchedulesInRange", "/api/schedules/date-range", query)
}

func (c *Client) GetSchedule(ctx context.Context, scheduleID int64) (domain.Schedule, error) {
	return c.schedule(ctx, "Backend.GetSchedule", http.MethodGet, idPath("/api/schedules/%d", scheduleID), nil)
}

func (c *Client) CreateSchedule(ctx context.Context, draft domain.ScheduleDraft) (domain.Schedule, error) {
	if err := draft.Validate(); err != nil {
		return domain.Schedule{}, err
	}
	return c.schedule(ctx, "Backend.CreateSchedule", http.MethodPost, "/api/schedules", scheduleCreateRequest{
		DateTime:             c.times.format(draft.DateTime),
		Location:             draft.Location,
		MinParticipants:      draft.MinParticipants,
		FirstVoteDeadline:    c.times.format(draft.FirstVoteDeadline),
		Memo:                 draft.Memo,
		GeneralMemberAllowed: draft.GeneralMemberAllowed,
	})
}

func (c *Client) UpdateSchedule(ctx context.Context, scheduleID int64, update domain.ScheduleUpdate) (domain.Schedule, error) {
	body := scheduleUpdateRequest{
		Location:             update.Location,
		MinParticipants:      update.MinParticipants,
		Memo:                 update.Memo,
		GeneralMemberAllowed: update.GeneralMemberAllowed,
	}
	if update.DateTime != nil {
		formatted := c.times.format(*update.DateTime)
		body.DateTime = &formatted
	}
	if update.FirstVoteDeadline != nil {
		formatted := c.times.format(*update.FirstVoteDeadline)
		body.FirstVoteDeadline = &formatted
	}
	return c.schedule(ctx, "Backend.UpdateSchedule", http.MethodPut, idPath("/api/schedules/%d", scheduleID), body)
}

func (c *Client) DeleteSchedule(ctx context.Context, scheduleID int64) error {
	return c.exec(ctx, "Backend.DeleteSchedule", http.MethodDelete, idPath("/api/schedules/%d", scheduleID), nil)
}

func (c *Client) StartFirstVote(ctx context.Context, scheduleID int64) (domain.Schedule, error) {
	return c.schedule(ctx, "Backend.StartFirstVote", http.MethodPost, idPath("/api/schedules/%d/start-first-vote", scheduleID), nil)
}

func (c *Client) CloseFirstVote(ctx context.Context, scheduleID int64) (domain.Schedule, error) {
	return c.schedule(ctx, "Backend.CloseFirstVote", http.MethodPost, idPath("/api/schedules/%d/close-first-vote", scheduleID), nil)
}

func (c *Client) ConfirmSchedule(ctx context.Context, scheduleID int64) (domain.Schedule, error) {
	return c.schedule(ctx, "Backend.ConfirmSchedule", http.MethodPost, idPath("/api/schedules/%d/confirm", scheduleID), nil)
}

func (c *Client) CancelSchedule(ctx context.Context, scheduleID int64, reason string) (domain.Schedule, error) {
	if reason == "" {
		return domain.Schedule{}, fmt.Errorf("%w: a cancellation reason is required", domain.ErrInvalidInput)
	}
	return c.schedule(ctx, "Backend.CancelSchedule", http.MethodPost, idPath("/api/schedules/%d/cancel", scheduleID), scheduleCancelRequest{
		CancellationReason: reason,
	})
}

// GetFirstVoteParticipationRate returns the share of members who voted, as
// reported by the backend.
func (c *Client) GetFirstVoteParticipationRate(ctx context.Context, scheduleID int64) (float64, error) {
	return get[float64](ctx, c, "Backend.GetFirstVoteParticipationRate", idPath("/api/schedules/%d/first-vote-participation-rate", scheduleID), nil)
}
