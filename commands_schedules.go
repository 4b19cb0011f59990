package main

import (
	"context"
	"errors"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type SchedulesCmd struct {
	List      SchedulesListCmd      `cmd:"" default:"withargs" help:"List schedules."`
	Show      SchedulesShowCmd      `cmd:"" help:"Show one schedule."`
	Create    SchedulesCreateCmd    `cmd:"" help:"Propose a match."`
	Update    SchedulesUpdateCmd    `cmd:"" help:"Change a proposed match."`
	StartVote SchedulesStartVoteCmd `cmd:"" name:"start-vote" help:"Open the first vote."`
	CloseVote SchedulesCloseVoteCmd `cmd:"" name:"close-vote" help:"Close the first vote."`
	Confirm   SchedulesConfirmCmd   `cmd:"" help:"Confirm a match."`
	Cancel    SchedulesCancelCmd    `cmd:"" help:"Cancel a match."`
	Delete    SchedulesDeleteCmd    `cmd:"" help:"Delete a schedule."`
}

type SchedulesListCmd struct {
	Status     string `help:"Only schedules in this status." enum:"${schedule_statuses}" default:"ALL"`
	ActiveVote bool   `name:"active-vote" help:"Only schedules whose first vote is open."`
	Confirmed  bool   `help:"Only confirmed schedules."`
	From       string `help:"Start of a date range, YYYY-MM-DD or a date-time."`
	To         string `help:"End of a date range, YYYY-MM-DD or a date-time."`
	Refresh    bool   `help:"Ignore cached data."`
}

func (c *SchedulesListCmd) query(con *console) (cache.Query[[]domain.Schedule], error) {
	switch {
	case c.From != "" || c.To != "":
		if c.From == "" || c.To == "" {
			return cache.Query[[]domain.Schedule]{}, errors.New("--from and --to go together")
		}
		return app.SchedulesInRangeQuery(con.backend, c.From, c.To), nil
	case c.ActiveVote:
		return app.ActiveFirstVoteSchedulesQuery(con.backend), nil
	case c.Confirmed:
		return app.ConfirmedSchedulesQuery(con.backend), nil
	}

	var status domain.ScheduleStatus
	if c.Status != "ALL" {
		parsed, err := domain.ParseScheduleStatus(c.Status)
		if err != nil {
			return cache.Query[[]domain.Schedule]{}, err
		}
		status = parsed
	}
	return app.SchedulesByStatusQuery(con.backend, status, con.nowFunc), nil
}

func (c *SchedulesListCmd) Run(ctx context.Context, con *console) error {
	query, err := c.query(con)
	if err != nil {
		return err
	}
	schedules, err := cache.FetchQuery(ctx, con.cache, query, fetchOptions(c.Refresh)...)
	if err != nil {
		return err
	}
	return con.out.Schedules(schedules)
}

type SchedulesShowCmd struct {
	ID int64 `arg:"" help:"Schedule id."`
}

func (c *SchedulesShowCmd) Run(ctx context.Context, con *console) error {
	schedule, err := cache.FetchQuery(ctx, con.cache, app.ScheduleQuery(con.backend, c.ID))
	if err != nil {
		return err
	}

	var rate *float64
	if schedule.Status == domain.ScheduleStatusFirstVoteInProgress || schedule.Status == domain.ScheduleStatusFirstVoteCompleted {
		participation, err := cache.FetchQuery(ctx, con.cache, app.ParticipationRateQuery(con.backend, c.ID))
		if err != nil {
			return err
		}
		rate = &participation
	}
	return con.out.Schedule(schedule, rate)
}

type SchedulesCreateCmd struct {
	At              string `required:"" help:"Kick-off, YYYY-MM-DD HH:MM local time."`
	Location        string `required:"" help:"Venue."`
	MinParticipants int    `name:"min" default:"10" help:"Players needed for the match to go ahead."`
	Deadline        string `required:"" help:"First vote deadline, YYYY-MM-DD HH:MM local time."`
	Memo            string `help:"Note shown to members."`
	General         bool   `help:"Allow general members to join."`
}

func (c *SchedulesCreateCmd) Run(ctx context.Context, con *console) error {
	at, err := parseInputTime(c.At)
	if err != nil {
		return err
	}
	deadline, err := parseInputTime(c.Deadline)
	if err != nil {
		return err
	}

	schedule, err := con.createSchedule(ctx, domain.ScheduleDraft{
		DateTime:             at,
		Location:             c.Location,
		MinParticipants:      c.MinParticipants,
		FirstVoteDeadline:    deadline,
		Memo:                 optionalString(c.Memo),
		GeneralMemberAllowed: c.General,
	})
	if err != nil {
		return err
	}
	con.out.Success("Proposed schedule %d", schedule.ID)
	return nil
}

type SchedulesUpdateCmd struct {
	ID              int64   `arg:"" help:"Schedule id."`
	At              string  `help:"New kick-off."`
	Location        *string `help:"New venue."`
	MinParticipants *int    `name:"min" help:"New minimum."`
	Deadline        string  `help:"New first vote deadline."`
	Memo            *string `help:"New note."`
	General         *bool   `help:"Allow general members to join."`
}

func (c *SchedulesUpdateCmd) Run(ctx context.Context, con *console) error {
	at, err := parseOptionalInputTime(c.At)
	if err != nil {
		return err
	}
	deadline, err := parseOptionalInputTime(c.Deadline)
	if err != nil {
		return err
	}

	schedule, err := con.updateSchedule(ctx, c.ID, domain.ScheduleUpdate{
		DateTime:             at,
		Location:             c.Location,
		MinParticipants:      c.MinParticipants,
		FirstVoteDeadline:    deadline,
		Memo:                 c.Memo,
		GeneralMemberAllowed: c.General,
	})
	if err != nil {
		return err
	}
	con.out.Success("Updated schedule %d", schedule.ID)
	return nil
}

type SchedulesStartVoteCmd struct {
	ID int64 `arg:"" help:"Schedule id."`
}

func (c *SchedulesStartVoteCmd) Run(ctx context.Context, con *console) error {
	return transition(ctx, con, con.startFirstVote, c.ID, "First vote opened for schedule %d")
}

type SchedulesCloseVoteCmd struct {
	ID int64 `arg:"" help:"Schedule id."`
}

func (c *SchedulesCloseVoteCmd) Run(ctx context.Context, con *console) error {
	return transition(ctx, con, con.closeFirstVote, c.ID, "First vote closed for schedule %d")
}

type SchedulesConfirmCmd struct {
	ID int64 `arg:"" help:"Schedule id."`
}

func (c *SchedulesConfirmCmd) Run(ctx context.Context, con *console) error {
	return transition(ctx, con, con.confirm, c.ID, "Confirmed schedule %d")
}

func transition(ctx context.Context, con *console, run app.TransitionSchedule, scheduleID int64, done string) error {
	if _, err := run(ctx, scheduleID); err != nil {
		return err
	}
	con.out.Success(done, scheduleID)
	return nil
}

type SchedulesCancelCmd struct {
	ID     int64  `arg:"" help:"Schedule id."`
	Reason string `required:"" help:"Shown to members."`
}

func (c *SchedulesCancelCmd) Run(ctx context.Context, con *console) error {
	if _, err := con.cancelSchedule(ctx, c.ID, c.Reason); err != nil {
		return err
	}
	con.out.Success("Cancelled schedule %d", c.ID)
	return nil
}

type SchedulesDeleteCmd struct {
	ID int64 `arg:"" help:"Schedule id."`
}

func (c *SchedulesDeleteCmd) Run(ctx context.Context, con *console) error {
	if err := con.deleteSchedule(ctx, c.ID); err != nil {
		return err
	}
	con.out.Success("Deleted schedule %d", c.ID)
	return nil
}
