package app

import (
	"context"
	"fmt"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type settlementProvider interface {
	ListSettlements(ctx context.Context, page, size int, status string) (domain.Page[domain.Settlement], error)
	GetSettlement(ctx context.Context, settlementID int64) (domain.Settlement, error)
	SettlementHistory(ctx context.Context, settlementID int64) ([]domain.SettlementEvent, error)
	CalculateSettlement(ctx context.Context, scheduleID int64, terms domain.SettlementTerms) (domain.Settlement, error)
	UpdateSettlement(ctx context.Context, settlementID int64, terms domain.SettlementTerms) error
	ResendSettlement(ctx context.Context, settlementID int64) error
}

const SettlementsPageSize = 20

func SettlementsQuery(provider settlementProvider, page int, status string) cache.Query[domain.Page[domain.Settlement]] {
	return cache.Query[domain.Page[domain.Settlement]]{
		Key: SettlementsKey(page, status),
		Load: func(ctx context.Context) (domain.Page[domain.Settlement], error) {
			return provider.ListSettlements(ctx, page, SettlementsPageSize, status)
		},
	}
}

func SettlementQuery(provider settlementProvider, settlementID int64) cache.Query[domain.Settlement] {
	return cache.Query[domain.Settlement]{
		Key: SettlementKey(settlementID),
		Load: func(ctx context.Context) (domain.Settlement, error) {
			return provider.GetSettlement(ctx, settlementID)
		},
	}
}

func SettlementHistoryQuery(provider settlementProvider, settlementID int64) cache.Query[[]domain.SettlementEvent] {
	return cache.Query[[]domain.SettlementEvent]{
		Key: SettlementHistoryKey(settlementID),
		Load: func(ctx context.Context) ([]domain.SettlementEvent, error) {
			return provider.SettlementHistory(ctx, settlementID)
		},
	}
}

type CalculateSettlement func(ctx context.Context, scheduleID int64, terms domain.SettlementTerms) (domain.Settlement, error)
type UpdateSettlement func(ctx context.Context, settlementID int64, terms domain.SettlementTerms) error
type ResendSettlement func(ctx context.Context, settlementID int64) error

func settlementInvalidates(settlementID int64) []cache.Key {
	return []cache.Key{SettlementKey(settlementID), SettlementsPrefix}
}

func BuildCalculateSettlement(client *cache.Client, provider settlementProvider) CalculateSettlement {
	return func(ctx context.Context, scheduleID int64, terms domain.SettlementTerms) (domain.Settlement, error) {
		settlement, err := mutate(ctx, client, func(ctx context.Context) (domain.Settlement, error) {
			return provider.CalculateSettlement(ctx, scheduleID, terms)
		}, []cache.Key{SettlementsPrefix})
		if err != nil {
			return domain.Settlement{}, fmt.Errorf("could not calculate settlement for schedule %d: %w", scheduleID, err)
		}
		return settlement, nil
	}
}

func BuildUpdateSettlement(client *cache.Client, provider settlementProvider) UpdateSettlement {
	return func(ctx context.Context, settlementID int64, terms domain.SettlementTerms) error {
		err := mutateVoid(ctx, client, func(ctx context.Context) error {
			return provider.UpdateSettlement(ctx, settlementID, terms)
		}, settlementInvalidates(settlementID))
		if err != nil {
			return fmt.Errorf("could not update settlement %d: %w", settlementID, err)
		}
		return nil
	}
}

func BuildResendSettlement(client *cache.Client, provider settlementProvider) ResendSettlement {
	return func(ctx context.Context, settlementID int64) error {
		err := mutateVoid(ctx, client, func(ctx context.Context) error {
			return provider.ResendSettlement(ctx, settlementID)
		}, settlementInvalidates(settlementID))
		if err != nil {
			return fmt.Errorf("could not resend settlement %d: %w", settlementID, err)
		}
		return nil
	}
}
