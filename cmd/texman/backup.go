package main

import (
	"context"
	"fmt"

	"github.com/texman/texman/internal/backup"
	"github.com/texman/texman/internal/profile"
)

func cmdBackup(ctx context.Context, env *environment, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: texman backup {create <name> | list | remove <name>}")
	}
	action, rest := args[0], args[1:]

	switch action {
	case "create":
		if len(rest) != 1 {
			return fmt.Errorf("usage: texman backup create <name>")
		}
		active, err := profile.Active(env.Layout)
		if err != nil {
			return err
		}
		if active == "" {
			return fmt.Errorf("texman: no active profile")
		}
		if err := backup.Create(ctx, env.Layout, env.Store, active, rest[0]); err != nil {
			return err
		}
		fmt.Printf("created backup %q\n", rest[0])
		return nil
	case "list":
		summaries, err := backup.List(ctx, env.Store)
		if err != nil {
			return err
		}
		for _, b := range summaries {
			fmt.Printf("%s\t%d package(s)\tcreated %d\n", b.Name, b.Packages, b.CreatedAt)
		}
		return nil
	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("usage: texman backup remove <name>")
		}
		if err := backup.Remove(ctx, env.Layout, env.Store, rest[0]); err != nil {
			return err
		}
		fmt.Printf("removed backup %q\n", rest[0])
		return nil
	default:
		return fmt.Errorf("texman: unknown backup action %q", action)
	}
}
