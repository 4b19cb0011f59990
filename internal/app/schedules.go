package app

import (
	"context"
	"fmt"
	"time"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type scheduleProvider interface {
	ListSchedulesByStatus(ctx context.Context, status domain.ScheduleStatus) ([]domain.Schedule, error)
	ListActiveFirstVoteSchedules(ctx context.Context) ([]domain.Schedule, error)
	ListConfirmedSchedules(ctx context.Context) ([]domain.Schedule, error)
	ListSchedulesInRange(ctx context.Context, from, to string) ([]domain.Schedule, error)
	GetSchedule(ctx context.Context, scheduleID int64) (domain.Schedule, error)
	GetFirstVoteParticipationRate(ctx context.Context, scheduleID int64) (float64, error)

	CreateSchedule(ctx context.Context, draft domain.ScheduleDraft) (domain.Schedule, error)
	UpdateSchedule(ctx context.Context, scheduleID int64, update domain.ScheduleUpdate) (domain.Schedule, error)
	DeleteSchedule(ctx context.Context, scheduleID int64) error
	StartFirstVote(ctx context.Context, scheduleID int64) (domain.Schedule, error)
	CloseFirstVote(ctx context.Context, scheduleID int64) (domain.Schedule, error)
	ConfirmSchedule(ctx context.Context, scheduleID int64) (domain.Schedule, error)
	CancelSchedule(ctx context.Context, scheduleID int64, reason string) (domain.Schedule, error)
}

// SchedulesByStatusQuery lists every schedule up to a year ahead when status
// is empty.
func SchedulesByStatusQuery(
	provider scheduleProvider,
	status domain.ScheduleStatus,
	nowFunc func() time.Time,
) cache.Query[[]domain.Schedule] {
	return cache.Query[[]domain.Schedule]{
		Key: SchedulesByStatusKey(status),
		Load: func(ctx context.Context) ([]domain.Schedule, error) {
			if status != "" {
				return provider.ListSchedulesByStatus(ctx, status)
			}
			const dateLayout = "2006-01-02"
			from := time.Unix(0, 0).UTC().Format(dateLayout)
			to := nowFunc().AddDate(1, 0, 0).UTC().Format(dateLayout)
			return provider.ListSchedulesInRange(ctx, from, to)
		},
	}
}

func ActiveFirstVoteSchedulesQuery(provider scheduleProvider) cache.Query[[]domain.Schedule] {
	return cache.Query[[]domain.Schedule]{
		Key:  ActiveFirstVoteSchedulesKey(),
		Load: provider.ListActiveFirstVoteSchedules,
	}
}

func ConfirmedSchedulesQuery(provider scheduleProvider) cache.Query[[]domain.Schedule] {
	return cache.Query[[]domain.Schedule]{
		Key:  ConfirmedSchedulesKey(),
		Load: provider.ListConfirmedSchedules,
	}
}

func SchedulesInRangeQuery(provider scheduleProvider, from, to string) cache.Query[[]domain.Schedule] {
	return cache.Query[[]domain.Schedule]{
		Key: SchedulesInRangeKey(from, to),
		Load: func(ctx context.Context) ([]domain.Schedule, error) {
			return provider.ListSchedulesInRange(ctx, from, to)
		},
	}
}

func ScheduleQuery(provider scheduleProvider, scheduleID int64) cache.Query[domain.Schedule] {
	return cache.Query[domain.Schedule]{
		Key: ScheduleKey(scheduleID),
		Load: func(ctx context.Context) (domain.Schedule, error) {
			return provider.GetSchedule(ctx, scheduleID)
		},
	}
}

func ParticipationRateQuery(provider scheduleProvider, scheduleID int64) cache.Query[float64] {
	return cache.Query[float64]{
		Key: ParticipationRateKey(scheduleID),
		Load: func(ctx context.Context) (float64, error) {
			return provider.GetFirstVoteParticipationRate(ctx, scheduleID)
		},
	}
}

type CreateSchedule func(ctx context.Context, draft domain.ScheduleDraft) (domain.Schedule, error)
type UpdateSchedule func(ctx context.Context, scheduleID int64, update domain.ScheduleUpdate) (domain.Schedule, error)
type DeleteSchedule func(ctx context.Context, scheduleID int64) error

// TransitionSchedule moves a schedule through its voting workflow.
type TransitionSchedule func(ctx context.Context, scheduleID int64) (domain.Schedule, error)
type CancelSchedule func(ctx context.Context, scheduleID int64, reason string) (domain.Schedule, error)

func scheduleInvalidates(scheduleID int64) []cache.Key {
	return []cache.Key{ScheduleKey(scheduleID), SchedulesPrefix}
}

func BuildCreateSchedule(client *cache.Client, provider scheduleProvider) CreateSchedule {
	return func(ctx context.Context, draft domain.ScheduleDraft) (domain.Schedule, error) {
		schedule, err := mutate(ctx, client, func(ctx context.Context) (domain.Schedule, error) {
			return provider.CreateSchedule(ctx, draft)
		}, []cache.Key{SchedulesPrefix})
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("could not create schedule: %w", err)
		}
		return schedule, nil
	}
}

func BuildUpdateSchedule(client *cache.Client, provider scheduleProvider) UpdateSchedule {
	return func(ctx context.Context, scheduleID int64, update domain.ScheduleUpdate) (domain.Schedule, error) {
		schedule, err := mutate(ctx, client, func(ctx context.Context) (domain.Schedule, error) {
			return provider.UpdateSchedule(ctx, scheduleID, update)
		}, scheduleInvalidates(scheduleID))
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("could not update schedule %d: %w", scheduleID, err)
		}
		return schedule, nil
	}
}

// BuildDeleteSchedule drops the schedule's own entries instead of refetching
// a resource that no longer exists.
func BuildDeleteSchedule(client *cache.Client, provider scheduleProvider) DeleteSchedule {
	return func(ctx context.Context, scheduleID int64) error {
		err := mutateVoid(ctx, client, func(ctx context.Context) error {
			return provider.DeleteSchedule(ctx, scheduleID)
		}, []cache.Key{SchedulesPrefix}, ScheduleKey(scheduleID), ParticipationRateKey(scheduleID))
		if err != nil {
			return fmt.Errorf("could not delete schedule %d: %w", scheduleID, err)
		}
		return nil
	}
}

func buildTransition(
	client *cache.Client,
	name string,
	transition func(ctx context.Context, scheduleID int64) (domain.Schedule, error),
) TransitionSchedule {
	return func(ctx context.Context, scheduleID int64) (domain.Schedule, error) {
		schedule, err := mutate(ctx, client, func(ctx context.Context) (domain.Schedule, error) {
			return transition(ctx, scheduleID)
		}, scheduleInvalidates(scheduleID))
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("could not %s schedule %d: %w", name, scheduleID, err)
		}
		return schedule, nil
	}
}

func BuildStartFirstVote(client *cache.Client, provider scheduleProvider) TransitionSchedule {
	return buildTransition(client, "start first vote for", provider.StartFirstVote)
}

func BuildCloseFirstVote(client *cache.Client, provider scheduleProvider) TransitionSchedule {
	return buildTransition(client, "close first vote for", provider.CloseFirstVote)
}

func BuildConfirmSchedule(client *cache.Client, provider scheduleProvider) TransitionSchedule {
	return buildTransition(client, "confirm", provider.ConfirmSchedule)
}

func BuildCancelSchedule(client *cache.Client, provider scheduleProvider) CancelSchedule {
	return func(ctx context.Context, scheduleID int64, reason string) (domain.Schedule, error) {
		schedule, err := mutate(ctx, client, func(ctx context.Context) (domain.Schedule, error) {
			return provider.CancelSchedule(ctx, scheduleID, reason)
		}, scheduleInvalidates(scheduleID))
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("could not cancel schedule %d: %w", scheduleID, err)
		}
		return schedule, nil
	}
}
