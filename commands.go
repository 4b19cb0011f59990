package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/futsalhub/clubadmin/internal/domain"
)

// CLI is the top-level command structure of clubadmin.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Debug   bool             `help:"Log debug output to stderr."`

	Commands

	Shell ShellCmd `cmd:"" help:"Run commands line by line against one shared cache."`
	Watch WatchCmd `cmd:"" help:"Print every change to a cached resource."`
}

// Commands are the commands available both from the command line and inside
// a shell.
type Commands struct {
	Login       LoginCmd       `cmd:"" help:"Log in with a code sent by email."`
	Logout      LogoutCmd      `cmd:"" help:"Forget the session and everything cached for it."`
	Dashboard   DashboardCmd   `cmd:"" help:"Show club figures."`
	Badges      BadgesCmd      `cmd:"" help:"Manage badges."`
	Schedules   SchedulesCmd   `cmd:"" help:"Manage match schedules."`
	Members     MembersCmd     `cmd:"" help:"Manage members."`
	Notices     NoticesCmd     `cmd:"" help:"Manage notices."`
	InviteKeys  InviteKeysCmd  `cmd:"" name:"invite-keys" help:"Manage invite keys."`
	Gallery     GalleryCmd     `cmd:"" help:"Manage schedule photos."`
	Settlements SettlementsCmd `cmd:"" help:"Manage match fee settlements."`
}

// Times on the command line are local wall-clock times.
const inputTimeLayout = "2006-01-02 15:04"

func parseInputTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(inputTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected %q, got %q", domain.ErrInvalidInput, inputTimeLayout, value)
	}
	return t, nil
}

func parseOptionalInputTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseInputTime(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

type LoginCmd struct {
	Send   LoginSendCmd   `cmd:"" help:"Email a login code."`
	Verify LoginVerifyCmd `cmd:"" help:"Check a login code without logging in."`
	Token  LoginTokenCmd  `cmd:"" help:"Exchange a login code for a session token."`
}

type LoginSendCmd struct {
	Email string `arg:"" help:"Admin email address."`
}

func (c *LoginSendCmd) Run(ctx context.Context, con *console) error {
	if err := con.session.SendCode(ctx, c.Email); err != nil {
		return err
	}
	con.out.Success("Login code sent to %s", c.Email)
	return nil
}

type LoginVerifyCmd struct {
	Email string `arg:"" help:"Admin email address."`
	Code  string `arg:"" help:"Code from the email."`
}

func (c *LoginVerifyCmd) Run(ctx context.Context, con *console) error {
	if err := con.session.VerifyCode(ctx, c.Email, c.Code); err != nil {
		return err
	}
	con.out.Success("Code is valid")
	return nil
}

type LoginTokenCmd struct {
	Email string `arg:"" help:"Admin email address."`
	Code  string `arg:"" help:"Code from the email."`
}

func (c *LoginTokenCmd) Run(ctx context.Context, con *console) error {
	session, err := con.session.Login(ctx, c.Email, c.Code)
	if err != nil {
		return err
	}
	con.out.Success("Logged in as %s (%s), token expires %s",
		session.User.Name, session.User.Role, session.ExpiresAt.Local().Format(inputTimeLayout))
	con.out.Println("CLUBADMIN_ACCESS_TOKEN=" + session.AccessToken)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, con *console) error {
	con.session.Logout(ctx)
	con.out.Success("Logged out")
	return nil
}

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx context.Context, con *console) error {
	dashboard, err := con.getDashboard(ctx)
	if err != nil {
		return err
	}
	return con.out.Dashboard(dashboard)
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
