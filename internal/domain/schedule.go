package domain

import (
	"fmt"
	"time"
)

type ScheduleStatus string

const (
	ScheduleStatusProposed            ScheduleStatus = "PROPOSED"
	ScheduleStatusFirstVoteInProgress ScheduleStatus = "FIRST_VOTE_IN_PROGRESS"
	ScheduleStatusFirstVoteCompleted  ScheduleStatus = "FIRST_VOTE_COMPLETED"
	ScheduleStatusConfirmed           ScheduleStatus = "CONFIRMED"
	ScheduleStatusCancelled           ScheduleStatus = "CANCELLED"
)

func ParseScheduleStatus(s string) (ScheduleStatus, error) {
	switch ScheduleStatus(s) {
	case ScheduleStatusProposed,
		ScheduleStatusFirstVoteInProgress,
		ScheduleStatusFirstVoteCompleted,
		ScheduleStatusConfirmed,
		ScheduleStatusCancelled:
		return ScheduleStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown schedule status %q", ErrInvalidInput, s)
}

type Schedule struct {
	ID                   int64
	DateTime             time.Time
	Location             string
	MinParticipants      int
	FirstVoteDeadline    time.Time
	Status               ScheduleStatus
	Memo                 *string
	GeneralMemberAllowed bool

	CancellationReason *string
	CancelledAt        *time.Time
	CancelledBy        *Member

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ScheduleDraft struct {
	DateTime             time.Time
	Location             string
	MinParticipants      int
	FirstVoteDeadline    time.Time
	Memo                 *string
	GeneralMemberAllowed bool
}

func (d ScheduleDraft) Validate() error {
	if d.Location == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if d.MinParticipants <= 0 {
		return fmt.Errorf("%w: minimum participants must be positive", ErrInvalidInput)
	}
	if !d.FirstVoteDeadline.Before(d.DateTime) {
		return fmt.Errorf("%w: first vote deadline must be before the match", ErrInvalidInput)
	}
	return nil
}

// ScheduleUpdate changes the fields that are set.
type ScheduleUpdate struct {
	DateTime             *time.Time
	Location             *string
	MinParticipants      *int
	FirstVoteDeadline    *time.Time
	Memo                 *string
	GeneralMemberAllowed *bool
}
