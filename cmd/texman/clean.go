package main

import (
	"context"
	"flag"

	"github.com/texman/texman/internal/query"
)

func cmdClean(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	removeBackups := fs.Bool("backups", false, "also remove all backups")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return query.Clean(ctx, env.Layout, env.Store, *removeBackups)
}
