package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

const (
	badgeCategories = "COHORT_PARTICIPATION,CONSECUTIVE_PARTICIPATION,COMMEMORATIVE,LEVEL_UPGRADE,SPECIAL_EVENT"
	badgeGrades     = "BRONZE,SILVER,GOLD,PLATINUM,DIAMOND,LEGENDARY"
)

type BadgesCmd struct {
	List     BadgesListCmd     `cmd:"" default:"withargs" help:"List badges."`
	Show     BadgesShowCmd     `cmd:"" help:"Show one badge."`
	Create   BadgesCreateCmd   `cmd:"" help:"Create a badge."`
	Update   BadgesUpdateCmd   `cmd:"" help:"Change a badge."`
	Delete   BadgesDeleteCmd   `cmd:"" help:"Delete a badge."`
	Activate BadgesActivateCmd `cmd:"" help:"Activate a badge."`
	Grant    BadgesGrantCmd    `cmd:"" help:"Grant a badge to a member."`
}

type BadgesListCmd struct {
	Refresh bool `help:"Ignore cached data."`
}

func (c *BadgesListCmd) Run(ctx context.Context, con *console) error {
	badges, err := cache.FetchQuery(ctx, con.cache, app.BadgesQuery(con.backend), fetchOptions(c.Refresh)...)
	if err != nil {
		return err
	}
	return con.out.Badges(badges)
}

type BadgesShowCmd struct {
	ID int64 `arg:"" help:"Badge id."`
}

func (c *BadgesShowCmd) Run(ctx context.Context, con *console) error {
	badge, err := cache.FetchQuery(ctx, con.cache, app.BadgeQuery(con.backend, c.ID))
	if err != nil {
		return err
	}
	return con.out.Badge(badge)
}

type BadgesCreateCmd struct {
	Name        string `required:"" help:"Badge name."`
	Description string `help:"What the badge is awarded for."`
	Category    string `required:"" enum:"${badge_categories}" help:"One of ${enum}."`
	Grade       string `required:"" enum:"${badge_grades}" help:"One of ${enum}."`
	ImageURL    string `name:"image-url" help:"Badge image."`
}

func (c *BadgesCreateCmd) Run(ctx context.Context, con *console) error {
	badge, err := con.createBadge(ctx, domain.BadgeDraft{
		Name:        c.Name,
		Description: c.Description,
		Category:    domain.BadgeCategory(c.Category),
		Grade:       domain.BadgeGrade(c.Grade),
		ImageURL:    optionalString(c.ImageURL),
	})
	if err != nil {
		return err
	}
	con.out.Success("Created badge %d", badge.ID)
	return con.out.Badge(badge)
}

type BadgesUpdateCmd struct {
	ID          int64   `arg:"" help:"Badge id."`
	Name        *string `help:"New name."`
	Description *string `help:"New description."`
	Category    string  `help:"New category, one of ${badge_categories}."`
	Grade       string  `help:"New grade, one of ${badge_grades}."`
	ImageURL    *string `name:"image-url" help:"New image."`
	Active      *bool   `help:"Activate or deactivate."`
}

func (c *BadgesUpdateCmd) Run(ctx context.Context, con *console) error {
	update := domain.BadgeUpdate{
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Active:      c.Active,
	}
	if c.Category != "" {
		if !oneOf(badgeCategories, c.Category) {
			return fmt.Errorf("%w: unknown badge category %q", domain.ErrInvalidInput, c.Category)
		}
		category := domain.BadgeCategory(c.Category)
		update.Category = &category
	}
	if c.Grade != "" {
		if !oneOf(badgeGrades, c.Grade) {
			return fmt.Errorf("%w: unknown badge grade %q", domain.ErrInvalidInput, c.Grade)
		}
		grade := domain.BadgeGrade(c.Grade)
		update.Grade = &grade
	}

	badge, err := con.updateBadge(ctx, c.ID, update)
	if err != nil {
		return err
	}
	con.out.Success("Updated badge %d", badge.ID)
	return nil
}

type BadgesDeleteCmd struct {
	ID int64 `arg:"" help:"Badge id."`
}

func (c *BadgesDeleteCmd) Run(ctx context.Context, con *console) error {
	if err := con.deleteBadge(ctx, c.ID); err != nil {
		return err
	}
	con.out.Success("Deleted badge %d", c.ID)
	return nil
}

type BadgesActivateCmd struct {
	ID int64 `arg:"" help:"Badge id."`
}

func (c *BadgesActivateCmd) Run(ctx context.Context, con *console) error {
	if _, err := con.activateBadge(ctx, c.ID); err != nil {
		return err
	}
	con.out.Success("Activated badge %d", c.ID)
	return nil
}

type BadgesGrantCmd struct {
	ID     int64 `arg:"" help:"Badge id."`
	UserID int64 `arg:"" help:"Member id."`
}

func (c *BadgesGrantCmd) Run(ctx context.Context, con *console) error {
	if err := con.grantBadge(ctx, c.ID, c.UserID); err != nil {
		return err
	}
	con.out.Success("Granted badge %d to member %d", c.ID, c.UserID)
	return nil
}

func fetchOptions(refresh bool) []cache.FetchOption {
	if refresh {
		return []cache.FetchOption{cache.ForceRefresh()}
	}
	return nil
}

func oneOf(values, value string) bool {
	return slices.Contains(strings.Split(values, ","), value)
}
