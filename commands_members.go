package main

import (
	"context"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type MembersCmd struct {
	List   MembersListCmd   `cmd:"" default:"withargs" help:"List members."`
	Show   MembersShowCmd   `cmd:"" help:"Show one member."`
	Update MembersUpdateCmd `cmd:"" help:"Change a member's profile."`
	Level  MembersLevelCmd  `cmd:"" help:"Set a member's futsal level."`
	Role   MembersRoleCmd   `cmd:"" help:"Set a member's role."`
	Cohort MembersCohortCmd `cmd:"" help:"Mark a member as in or out of the current cohort."`
}

type MembersListCmd struct {
	Page    int    `default:"1" help:"Page to show, starting at 1."`
	Search  string `help:"Only members whose name contains this."`
	Refresh bool   `help:"Ignore cached data."`
}

func (c *MembersListCmd) Run(ctx context.Context, con *console) error {
	query := app.MembersQuery(con.backend, max(c.Page-1, 0), c.Search)
	page, err := cache.FetchQuery(ctx, con.cache, query, fetchOptions(c.Refresh)...)
	if err != nil {
		return err
	}
	return con.out.Members(page)
}

type MembersShowCmd struct {
	ID int64 `arg:"" help:"Member id."`
}

func (c *MembersShowCmd) Run(ctx context.Context, con *console) error {
	member, err := cache.FetchQuery(ctx, con.cache, app.MemberQuery(con.backend, c.ID))
	if err != nil {
		return err
	}
	return con.out.Member(member)
}

type MembersUpdateCmd struct {
	ID        int64   `arg:"" help:"Member id."`
	Name      *string `help:"New name."`
	Gender    string  `enum:"${genders}" default:"UNCHANGED" help:"New gender, one of ${enum}."`
	Residence *string `help:"New residence."`
	Cohort    *string `help:"New cohort."`
}

func (c *MembersUpdateCmd) Run(ctx context.Context, con *console) error {
	update := domain.MemberUpdate{
		Name:      c.Name,
		Residence: c.Residence,
		Cohort:    c.Cohort,
	}
	if c.Gender != "UNCHANGED" {
		gender := domain.Gender(c.Gender)
		update.Gender = &gender
	}

	member, err := con.updateMember(ctx, c.ID, update)
	if err != nil {
		return err
	}
	con.out.Success("Updated member %d", member.ID)
	return nil
}

type MembersLevelCmd struct {
	ID    int64  `arg:"" help:"Member id."`
	Level string `arg:"" help:"ROOKIE, PLAYMAKER, STRIKER, MAESTRO or LEGEND."`
}

func (c *MembersLevelCmd) Run(ctx context.Context, con *console) error {
	level, err := domain.ParseFutsalLevel(c.Level)
	if err != nil {
		return err
	}
	member, err := con.setFutsalLevel(ctx, c.ID, level)
	if err != nil {
		return err
	}
	con.out.Success("%s is now %s", member.Name, member.FutsalLevel)
	return nil
}

type MembersRoleCmd struct {
	ID   int64  `arg:"" help:"Member id."`
	Role string `arg:"" help:"MEMBER or ADMIN."`
}

func (c *MembersRoleCmd) Run(ctx context.Context, con *console) error {
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return err
	}
	member, err := con.setRole(ctx, c.ID, role)
	if err != nil {
		return err
	}
	con.out.Success("%s is now %s", member.Name, member.Role)
	return nil
}

type MembersCohortCmd struct {
	ID      int64 `arg:"" help:"Member id."`
	Current bool  `arg:"" help:"true or false."`
}

func (c *MembersCohortCmd) Run(ctx context.Context, con *console) error {
	member, err := con.setCurrentCohort(ctx, c.ID, c.Current)
	if err != nil {
		return err
	}
	if member.IsCurrentCohort {
		con.out.Success("%s is in the current cohort", member.Name)
	} else {
		con.out.Success("%s is not in the current cohort", member.Name)
	}
	return nil
}
