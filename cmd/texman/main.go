// Command texman is a package manager for the TeX Live distribution.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/texman/texman/internal/store"
	"github.com/texman/texman/internal/texmanhome"
)

// subcmd is one top-level subcommand. args excludes the subcommand name
// itself.
type subcmd func(ctx context.Context, env *environment, args []string) error

// environment bundles the resources every subcommand needs: the root
// layout and an open handle to the state store.
type environment struct {
	Layout texmanhome.Layout
	Store  *store.Store
}

var subcommands = map[string]subcmd{
	"install": cmdInstall,
	"update":  cmdUpdate,
	"list":    cmdList,
	"remove":  cmdRemove,
	"info":    cmdInfo,
	"search":  cmdSearch,
	"backup":  cmdBackup,
	"restore": cmdRestore,
	"clean":   cmdClean,
	"profile": cmdProfile,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fs := flag.NewFlagSet("texman", flag.ContinueOnError)
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintln(out, "Usage: texman <command> [arguments]")
		fmt.Fprintln(out, "\nCommands:")
		for _, name := range []string{"install", "update", "list", "remove", "info", "search", "backup", "restore", "clean", "profile"} {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}
	if err := fs.Parse(args); err != nil {
		return 99
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 99
	}

	name := fs.Arg(0)
	cmd, ok := subcommands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "texman: unknown command %q\n", name)
		fs.Usage()
		return 99
	}

	env, err := newEnvironment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "texman: %v\n", err)
		return 1
	}
	defer env.Store.Close()

	if err := cmd(ctx, env, fs.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "texman: %v\n", err)
		return 1
	}
	return 0
}

func newEnvironment() (*environment, error) {
	root, err := texmanhome.Root()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	layout := texmanhome.NewLayout(root)
	if err := layout.Ensure(); err != nil {
		return nil, fmt.Errorf("preparing root %s: %w", root, err)
	}
	st, err := store.Open(layout.SQLite)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}
	return &environment{Layout: layout, Store: st}, nil
}
