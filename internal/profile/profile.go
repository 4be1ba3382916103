// Package profile implements the profile manager: creating, switching
// between, listing, and removing named profiles, and maintaining the
// active-profile symlink.
package profile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/texman/texman"
	"github.com/texman/texman/internal/texmanhome"
)

// Store is the subset of the state store the profile manager needs.
type Store interface {
	RemoveProfile(ctx context.Context, profile string) error
}

// Info describes one profile for "profile list".
type Info struct {
	Name   string
	Active bool
}

// Create makes the named profile's directory. Idempotent.
func Create(layout texmanhome.Layout, name string) error {
	dir := layout.ProfileDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return texman.IO(dir, err)
	}
	return nil
}

// Switch requires the named profile to exist, then repoints R/active at
// it.
func Switch(ctx context.Context, layout texmanhome.Layout, name string) error {
	dir := layout.ProfileDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return texman.ProfileMissing(name)
	} else if err != nil {
		return texman.IO(dir, err)
	}
	if err := os.Remove(layout.Active); err != nil && !os.IsNotExist(err) {
		return texman.IO(layout.Active, err)
	}
	if err := os.Symlink(dir, layout.Active); err != nil {
		return texman.IO(layout.Active, err)
	}
	slog.InfoContext(ctx, "switched active profile", "profile", name)
	return nil
}

// Active returns the name of the active profile, or "" if no pointer
// exists yet.
func Active(layout texmanhome.Layout) (string, error) {
	target, err := os.Readlink(layout.Active)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", texman.IO(layout.Active, err)
	}
	return filepath.Base(target), nil
}

// EnsureActive creates name if absent and, if no active pointer exists
// yet, sets it active. This is what "install" needs to pick a default
// profile on first use.
func EnsureActive(ctx context.Context, layout texmanhome.Layout, name string) error {
	if err := Create(layout, name); err != nil {
		return err
	}
	active, err := Active(layout)
	if err != nil {
		return err
	}
	if active == "" {
		return Switch(ctx, layout, name)
	}
	return nil
}

// List enumerates profiles under R/profiles, marking the active one.
func List(layout texmanhome.Layout) ([]Info, error) {
	entries, err := os.ReadDir(layout.Profiles)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, texman.IO(layout.Profiles, err)
	}
	active, err := Active(layout)
	if err != nil {
		return nil, err
	}

	var out []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		out = append(out, Info{Name: e.Name(), Active: e.Name() == active})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Remove deletes the named profile's directory tree and its
// installed-packages rows. It refuses to remove the active profile.
func Remove(ctx context.Context, layout texmanhome.Layout, st Store, name string) error {
	active, err := Active(layout)
	if err != nil {
		return err
	}
	if name == active {
		return texman.ProfileInUse(name)
	}
	dir := layout.ProfileDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return texman.ProfileMissing(name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return texman.IO(dir, err)
	}
	if err := st.RemoveProfile(ctx, name); err != nil {
		return err
	}
	slog.InfoContext(ctx, "removed profile", "profile", name)
	return nil
}
