package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/texman/texman/internal/profile"
	"github.com/texman/texman/internal/query"
)

func cmdList(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	active, err := profile.Active(env.Layout)
	if err != nil {
		return err
	}
	if active == "" {
		return fmt.Errorf("texman: no active profile")
	}

	rows, err := query.List(ctx, env.Store, active)
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Printf("%s\tr%s\n", r.Name, r.Revision)
	}
	return nil
}
