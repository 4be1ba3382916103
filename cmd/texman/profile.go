package main

import (
	"context"
	"fmt"

	"github.com/texman/texman/internal/profile"
)

func cmdProfile(ctx context.Context, env *environment, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: texman profile {create <name> | switch <name> | list | remove <name>}")
	}
	action, rest := args[0], args[1:]

	switch action {
	case "create":
		if len(rest) != 1 {
			return fmt.Errorf("usage: texman profile create <name>")
		}
		if err := profile.Create(env.Layout, rest[0]); err != nil {
			return err
		}
		fmt.Printf("created profile %q\n", rest[0])
		return nil
	case "switch":
		if len(rest) != 1 {
			return fmt.Errorf("usage: texman profile switch <name>")
		}
		if err := profile.Switch(ctx, env.Layout, rest[0]); err != nil {
			return err
		}
		fmt.Printf("switched to profile %q\n", rest[0])
		return nil
	case "list":
		infos, err := profile.List(env.Layout)
		if err != nil {
			return err
		}
		for _, p := range infos {
			marker := " "
			if p.Active {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, p.Name)
		}
		return nil
	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("usage: texman profile remove <name>")
		}
		if err := profile.Remove(ctx, env.Layout, env.Store, rest[0]); err != nil {
			return err
		}
		fmt.Printf("removed profile %q\n", rest[0])
		return nil
	default:
		return fmt.Errorf("texman: unknown profile action %q", action)
	}
}
