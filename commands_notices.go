package main

import (
	"context"

	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
)

type NoticesCmd struct {
	List   NoticesListCmd   `cmd:"" default:"withargs" help:"List notices."`
	Show   NoticesShowCmd   `cmd:"" help:"Show one notice."`
	Create NoticesCreateCmd `cmd:"" help:"Post a notice."`
	Update NoticesUpdateCmd `cmd:"" help:"Edit a notice."`
	Toggle NoticesToggleCmd `cmd:"" help:"Publish or hide a notice."`
	Delete NoticesDeleteCmd `cmd:"" help:"Delete a notice."`
}

type NoticesListCmd struct {
	Page    int  `default:"1" help:"Page to show, starting at 1."`
	Refresh bool `help:"Ignore cached data."`
}

func (c *NoticesListCmd) Run(ctx context.Context, con *console) error {
	page, err := cache.FetchQuery(ctx, con.cache, app.NoticesQuery(con.backend, max(c.Page-1, 0)), fetchOptions(c.Refresh)...)
	if err != nil {
		return err
	}
	return con.out.Notices(page)
}

type NoticesShowCmd struct {
	ID int64 `arg:"" help:"Notice id."`
}

func (c *NoticesShowCmd) Run(ctx context.Context, con *console) error {
	notice, err := cache.FetchQuery(ctx, con.cache, app.NoticeQuery(con.backend, c.ID))
	if err != nil {
		return err
	}
	return con.out.Notice(notice)
}

type NoticesCreateCmd struct {
	Title      string `required:"" help:"Headline."`
	Content    string `required:"" help:"Body text."`
	Importance string `enum:"LOW,NORMAL,HIGH" default:"NORMAL" help:"One of ${enum}."`
}

func (c *NoticesCreateCmd) Run(ctx context.Context, con *console) error {
	notice, err := con.createNotice(ctx, domain.NoticeDraft{
		Title:      c.Title,
		Content:    c.Content,
		Importance: c.Importance,
	})
	if err != nil {
		return err
	}
	con.out.Success("Posted notice %d", notice.ID)
	return nil
}

type NoticesUpdateCmd struct {
	ID         int64   `arg:"" help:"Notice id."`
	Title      *string `help:"New headline."`
	Content    *string `help:"New body text."`
	Importance *string `help:"LOW, NORMAL or HIGH."`
}

func (c *NoticesUpdateCmd) Run(ctx context.Context, con *console) error {
	notice, err := con.updateNotice(ctx, c.ID, domain.NoticeUpdate{
		Title:      c.Title,
		Content:    c.Content,
		Importance: c.Importance,
	})
	if err != nil {
		return err
	}
	con.out.Success("Updated notice %d", notice.ID)
	return nil
}

type NoticesToggleCmd struct {
	ID int64 `arg:"" help:"Notice id."`
}

func (c *NoticesToggleCmd) Run(ctx context.Context, con *console) error {
	notice, err := con.toggleNoticeStatus(ctx, c.ID)
	if err != nil {
		return err
	}
	con.out.Success("Notice %d is now %s", notice.ID, notice.Status)
	return nil
}

type NoticesDeleteCmd struct {
	ID int64 `arg:"" help:"Notice id."`
}

func (c *NoticesDeleteCmd) Run(ctx context.Context, con *console) error {
	if err := con.deleteNotice(ctx, c.ID); err != nil {
		return err
	}
	con.out.Success("Deleted notice %d", c.ID)
	return nil
}
