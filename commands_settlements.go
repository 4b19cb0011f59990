package main

import (
	"context"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
	"golang.org/x/sync/errgroup"
)

type SettlementsCmd struct {
	List      SettlementsListCmd      `cmd:"" default:"withargs" help:"List settlements."`
	Show      SettlementsShowCmd      `cmd:"" help:"Show a settlement and its history."`
	Calculate SettlementsCalculateCmd `cmd:"" help:"Split a match's cost between its participants."`
	Update    SettlementsUpdateCmd    `cmd:"" help:"Change a settlement's terms."`
	Resend    SettlementsResendCmd    `cmd:"" help:"Send the payment request again."`
}

type SettlementsListCmd struct {
	Page    int    `default:"1" help:"Page to show, starting at 1."`
	Status  string `help:"Only settlements in this status."`
	Refresh bool   `help:"Ignore cached data."`
}

func (c *SettlementsListCmd) Run(ctx context.Context, con *console) error {
	query := app.SettlementsQuery(con.backend, max(c.Page-1, 0), c.Status)
	page, err := cache.FetchQuery(ctx, con.cache, query, fetchOptions(c.Refresh)...)
	if err != nil {
		return err
	}
	return con.out.Settlements(page)
}

type SettlementsShowCmd struct {
	ID int64 `arg:"" help:"Settlement id."`
}

func (c *SettlementsShowCmd) Run(ctx context.Context, con *console) error {
	var settlement domain.Settlement
	var history []domain.SettlementEvent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settlement, err = cache.FetchQuery(gctx, con.cache, app.SettlementQuery(con.backend, c.ID))
		return err
	})
	g.Go(func() error {
		var err error
		history, err = cache.FetchQuery(gctx, con.cache, app.SettlementHistoryQuery(con.backend, c.ID))
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return con.out.Settlement(settlement, history)
}

type settlementTerms struct {
	TotalCost     int64  `name:"total" required:"" help:"Total cost of the match."`
	AccountNumber string `name:"account" required:"" help:"Account to pay into."`
	AccountHolder string `name:"holder" required:"" help:"Name on the account."`
	BankName      string `name:"bank" required:"" help:"Bank of the account."`
}

func (t settlementTerms) terms() domain.SettlementTerms {
	return domain.SettlementTerms{
		TotalCost:     t.TotalCost,
		AccountNumber: t.AccountNumber,
		AccountHolder: t.AccountHolder,
		BankName:      t.BankName,
	}
}

type SettlementsCalculateCmd struct {
	ScheduleID int64 `arg:"" help:"Schedule to settle."`

	settlementTerms
}

func (c *SettlementsCalculateCmd) Run(ctx context.Context, con *console) error {
	settlement, err := con.calculateSettlement(ctx, c.ScheduleID, c.terms())
	if err != nil {
		return err
	}
	con.out.Success("Created settlement %d", settlement.ID)
	return nil
}

type SettlementsUpdateCmd struct {
	ID int64 `arg:"" help:"Settlement id."`

	settlementTerms
}

func (c *SettlementsUpdateCmd) Run(ctx context.Context, con *console) error {
	if err := con.updateSettlement(ctx, c.ID, c.terms()); err != nil {
		return err
	}
	con.out.Success("Updated settlement %d", c.ID)
	return nil
}

type SettlementsResendCmd struct {
	ID int64 `arg:"" help:"Settlement id."`
}

func (c *SettlementsResendCmd) Run(ctx context.Context, con *console) error {
	if err := con.resendSettlement(ctx, c.ID); err != nil {
		return err
	}
	con.out.Success("Resent settlement %d", c.ID)
	return nil
}
