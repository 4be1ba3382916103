package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/texman/texman/internal/profile"
	"github.com/texman/texman/internal/texmanhome"
)

func cmdRemove(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: texman remove <package>")
	}
	name := fs.Arg(0)

	active, err := profile.Active(env.Layout)
	if err != nil {
		return err
	}
	if active == "" {
		return fmt.Errorf("texman: no active profile")
	}

	revision, ok, err := env.Store.Get(ctx, active, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("texman: %s is not installed in profile %q", name, active)
	}

	storePath := texmanhome.StorePath(env.Layout.ProfileDir(active), name, revision)
	if err := os.RemoveAll(storePath); err != nil {
		return fmt.Errorf("removing %s: %w", storePath, err)
	}
	if err := env.Store.Remove(ctx, active, name); err != nil {
		return err
	}
	fmt.Printf("removed %s from profile %q\n", name, active)
	return nil
}
