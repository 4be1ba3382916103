package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/texman/texman/internal/backup"
	"github.com/texman/texman/internal/profile"
)

func cmdRestore(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: texman restore <name>")
	}
	name := fs.Arg(0)

	active, err := profile.Active(env.Layout)
	if err != nil {
		return err
	}
	if active == "" {
		return fmt.Errorf("texman: no active profile")
	}
	if err := backup.Restore(ctx, env.Layout, env.Store, active, name); err != nil {
		return err
	}
	fmt.Printf("restored backup %q into profile %q\n", name, active)
	return nil
}
