package domain

import (
	"fmt"
	"time"
)

type Settlement struct {
	ID            int64
	ScheduleID    int64
	TotalCost     int64
	AccountNumber string
	AccountHolder string
	BankName      string
	Status        string
	CreatedAt     time.Time
}

// SettlementTerms are the payment details used both to calculate and to
// update a settlement.
type SettlementTerms struct {
	TotalCost     int64
	AccountNumber string
	AccountHolder string
	BankName      string
}

func (t SettlementTerms) Validate() error {
	if t.TotalCost <= 0 {
		return fmt.Errorf("%w: total cost must be positive", ErrInvalidInput)
	}
	if t.AccountNumber == "" || t.AccountHolder == "" || t.BankName == "" {
		return fmt.Errorf("%w: account details are required", ErrInvalidInput)
	}
	return nil
}

// SettlementEvent is one entry of a settlement's history. The backend doesn't
// document its shape, so the raw fields are kept.
type SettlementEvent map[string]any
