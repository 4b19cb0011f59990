package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futsalhub/clubadmin/internal/domain"
)

type settlementWire struct {
	ID            int64  `json:"id"`
	ScheduleID    int64  `json:"scheduleId"`
	TotalCost     int64  `json:"totalCost"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
	BankName      string `json:"bankName"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

func (tc timeCodec) settlement(w settlementWire) (domain.Settlement, error) {
	createdAt, err := tc.parse(w.CreatedAt)
	if err != nil {
		return domain.Settlement{}, fmt.Errorf("settlement %d createdAt: %w", w.ID, err)
	}
	return domain.Settlement{
		ID:            w.ID,
		ScheduleID:    w.ScheduleID,
		TotalCost:     w.TotalCost,
		AccountNumber: w.AccountNumber,
		AccountHolder: w.AccountHolder,
		BankName:      w.BankName,
		Status:        w.Status,
		CreatedAt:     createdAt,
	}, nil
}

type settlementTermsRequest struct {
	TotalCost     int64  `json:"totalCost"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
	BankName      string `json:"bankName"`
}

func termsRequest(terms domain.SettlementTerms) settlementTermsRequest {
	return settlementTermsRequest{
		TotalCost:     terms.TotalCost,
		AccountNumber: terms.AccountNumber,
		AccountHolder: terms.AccountHolder,
		BankName:      terms.BankName,
	}
}

// ListSettlements returns one page of settlements, optionally only those
// with the given status.
func (c *Client) ListSettlements(ctx context.Context, page, size int, status string) (domain.Page[domain.Settlement], error) {
	query := pageQuery(page, size)
	if status != "" {
		query.Set("status", status)
	}
	settlements, err := get[pageWire[settlementWire]](ctx, c, "Backend.ListSettlements", "/api/admin/settlements", query)
	if err != nil {
		return domain.Page[domain.Settlement]{}, err
	}
	return convertPage(settlements, c.times.settlement)
}

func (c *Client) GetSettlement(ctx context.Context, settlementID int64) (domain.Settlement, error) {
	settlement, err := get[settlementWire](ctx, c, "Backend.GetSettlement", idPath("/api/admin/settlements/%d", settlementID), nil)
	if err != nil {
		return domain.Settlement{}, err
	}
	return c.times.settlement(settlement)
}

func (c *Client) CalculateSettlement(ctx context.Context, scheduleID int64, terms domain.SettlementTerms) (domain.Settlement, error) {
	if err := terms.Validate(); err != nil {
		return domain.Settlement{}, err
	}
	settlement, err := send[settlementWire](ctx, c, "Backend.CalculateSettlement", http.MethodPost, idPath("/api/admin/settlements/%d/calculate", scheduleID), termsRequest(terms))
	if err != nil {
		return domain.Settlement{}, err
	}
	return c.times.settlement(settlement)
}

func (c *Client) UpdateSettlement(ctx context.Context, settlementID int64, terms domain.SettlementTerms) error {
	if err := terms.Validate(); err != nil {
		return err
	}
	return c.exec(ctx, "Backend.UpdateSettlement", http.MethodPut, idPath("/api/admin/settlements/%d", settlementID), termsRequest(terms))
}

func (c *Client) ResendSettlement(ctx context.Context, settlementID int64) error {
	return c.exec(ctx, "Backend.ResendSettlement", http.MethodPost, idPath("/api/admin/settlements/%d/resend", settlementID), nil)
}

func (c *Client) SettlementHistory(ctx context.Context, settlementID int64) ([]domain.SettlementEvent, error) {
	return list[domain.SettlementEvent](ctx, c, "Backend.SettlementHistory", idPath("/api/admin/settlements/%d/history", settlementID), nil)
}
