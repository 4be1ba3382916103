package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/texman/texman/internal/catalog"
	"github.com/texman/texman/internal/query"
)

func cmdInfo(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: texman info <package>")
	}
	name := fs.Arg(0)

	idx, err := catalog.Load(ctx, env.Layout)
	if err != nil {
		return err
	}
	pkg, err := query.Info(idx, name)
	if err != nil {
		return err
	}

	fmt.Printf("name: %s\n", pkg.Name)
	fmt.Printf("revision: %s\n", pkg.Revision)
	fmt.Printf("url: %s\n", pkg.URL)
	if pkg.Description != "" {
		fmt.Printf("description: %s\n", pkg.Description)
	}
	if len(pkg.Depends) > 0 {
		fmt.Printf("depends: %v\n", pkg.Depends)
	}
	if pkg.LongDesc != "" {
		fmt.Printf("%s\n", pkg.LongDesc)
	}
	return nil
}
