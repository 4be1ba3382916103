package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/texman/texman/internal/catalog"
	"github.com/texman/texman/internal/fetch"
	"github.com/texman/texman/internal/install"
	"github.com/texman/texman/internal/profile"
	"github.com/texman/texman/internal/resolver"
)

func cmdInstall(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	profileName := fs.String("profile", "default", "profile to install into")
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() == 0 {
			break
		}
		pos, args = append(pos, fs.Arg(0)), fs.Args()[1:]
	}
	if len(pos) != 1 {
		return fmt.Errorf("usage: texman install <package> [--profile <name>]")
	}
	name := pos[0]

	if err := profile.EnsureActive(ctx, env.Layout, *profileName); err != nil {
		return err
	}

	idx, err := catalog.Load(ctx, env.Layout)
	if err != nil {
		return err
	}
	plan, err := resolver.Resolve(idx, name)
	if err != nil {
		return err
	}
	fmt.Printf("install plan: %d package(s)\n", len(plan))

	staged, err := fetch.Plan(ctx, nil, env.Layout.Root, plan, nil)
	if err != nil {
		return err
	}
	profileDir := env.Layout.ProfileDir(*profileName)
	if err := install.Run(ctx, env.Store, *profileName, profileDir, staged); err != nil {
		return err
	}
	fmt.Printf("installed %s into profile %q\n", name, *profileName)
	return nil
}
