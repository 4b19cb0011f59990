package main

import (
	"context"

	"github.com/futsalhub/clubadmin/internal/domain"
)

type InviteKeysCmd struct {
	List   InviteKeysListCmd   `cmd:"" default:"withargs" help:"List invite keys."`
	Create InviteKeysCreateCmd `cmd:"" help:"Issue a new invite key."`
	Expire InviteKeysExpireCmd `cmd:"" help:"Expire an invite key now."`
	Delete InviteKeysDeleteCmd `cmd:"" help:"Delete an invite key."`
}

type InviteKeysListCmd struct {
	Filter string `enum:"all,active,used,expired" default:"all" help:"One of ${enum}."`
}

func (c *InviteKeysListCmd) Run(ctx context.Context, con *console) error {
	filter, err := domain.ParseInviteKeyFilter(c.Filter)
	if err != nil {
		return err
	}
	keys, err := con.listInviteKeys(ctx, filter)
	if err != nil {
		return err
	}
	return con.out.InviteKeys(keys, con.nowFunc())
}

type InviteKeysCreateCmd struct{}

func (c *InviteKeysCreateCmd) Run(ctx context.Context, con *console) error {
	key, err := con.createInviteKey(ctx)
	if err != nil {
		return err
	}
	con.out.Success("Created invite key")
	con.out.Println(key)
	return nil
}

type InviteKeysExpireCmd struct {
	Key string `arg:"" help:"Invite key."`
}

func (c *InviteKeysExpireCmd) Run(ctx context.Context, con *console) error {
	if err := con.expireInviteKey(ctx, c.Key); err != nil {
		return err
	}
	con.out.Success("Expired invite key %s", c.Key)
	return nil
}

type InviteKeysDeleteCmd struct {
	Key string `arg:"" help:"Invite key."`
}

func (c *InviteKeysDeleteCmd) Run(ctx context.Context, con *console) error {
	if err := con.deleteInviteKey(ctx, c.Key); err != nil {
		return err
	}
	con.out.Success("Deleted invite key %s", c.Key)
	return nil
}
