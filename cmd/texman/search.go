package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/texman/texman/internal/catalog"
	"github.com/texman/texman/internal/query"
)

func cmdSearch(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	description := fs.Bool("description", false, "also match short descriptions")
	depends := fs.Bool("depends", false, "also match dependency names")
	longdesc := fs.Bool("longdesc", false, "also match long descriptions")
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
		return fmt.Errorf("usage: texman search <term> [--description] [--depends] [--longdesc]")
	}
	term := pos[0]

	idx, err := catalog.Load(ctx, env.Layout)
	if err != nil {
		return err
	}
	results := query.Search(idx, term, query.SearchFlags{
		Description: *description,
		Depends:     *depends,
		LongDesc:    *longdesc,
	})
	for _, pkg := range results {
		fmt.Printf("%s\t%s\n", pkg.Name, pkg.Description)
	}
	return nil
}
