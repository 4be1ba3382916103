package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/texman/texman/internal/catalog"
	"github.com/texman/texman/internal/profile"
	"github.com/texman/texman/internal/update"
)

func cmdUpdate(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	active, err := profile.Active(env.Layout)
	if err != nil {
		return err
	}
	if active == "" {
		return fmt.Errorf("texman: no active profile; run 'texman install' or 'texman profile switch' first")
	}

	idx, err := catalog.Load(ctx, env.Layout)
	if err != nil {
		return err
	}

	u := &update.Updater{Layout: env.Layout, Index: idx, Store: env.Store}
	return u.Run(ctx, active)
}
