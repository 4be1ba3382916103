// Package query implements the query operations: the read-only list,
// info, and search, and clean, which deletes staging archives and,
// optionally, backups.
package query

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/texman/texman"
	"github.com/texman/texman/internal/store"
	"github.com/texman/texman/internal/texmanhome"
)

// Lister is the subset of the state store "list" needs.
type Lister interface {
	List(ctx context.Context, profile string) ([]store.InstalledPackage, error)
}

// List returns installed packages of profile, ordered by name.
func List(ctx context.Context, st Lister, profile string) ([]store.InstalledPackage, error) {
	return st.List(ctx, profile)
}

// Info returns the catalog metadata for name.
func Info(idx texman.Index, name string) (*texman.Package, error) {
	pkg, ok := idx[name]
	if !ok {
		return nil, texman.PackageNotFound(name)
	}
	return pkg, nil
}

// SearchFlags selects which additional fields participate in a search,
// beyond the name, which is always matched.
type SearchFlags struct {
	Description bool
	LongDesc    bool
	Depends     bool
}

// Search returns every package in idx matching term case-insensitively
// against name, and, per flags, description/longdesc/depends. An empty
// result is not an error.
func Search(idx texman.Index, term string, flags SearchFlags) []*texman.Package {
	needle := strings.ToLower(term)
	var out []*texman.Package
	for _, pkg := range idx {
		if matches(pkg, needle, flags) {
			out = append(out, pkg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func matches(pkg *texman.Package, needle string, flags SearchFlags) bool {
	if strings.Contains(strings.ToLower(pkg.Name), needle) {
		return true
	}
	if flags.Description && strings.Contains(strings.ToLower(pkg.Description), needle) {
		return true
	}
	if flags.LongDesc && strings.Contains(strings.ToLower(pkg.LongDesc), needle) {
		return true
	}
	if flags.Depends {
		for _, d := range pkg.Depends {
			if strings.Contains(strings.ToLower(d), needle) {
				return true
			}
		}
	}
	return false
}

// BackupRemover is the subset of the state store "clean --backups" needs.
type BackupRemover interface {
	TruncateBackups(ctx context.Context) error
}

// Clean deletes every top-level staging archive (".xz" extension) under
// the root, and, if removeBackups, also deletes R/backups and truncates
// the backups table.
func Clean(ctx context.Context, layout texmanhome.Layout, st BackupRemover, removeBackups bool) error {
	entries, err := os.ReadDir(layout.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return texman.IO(layout.Root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".xz" {
			p := filepath.Join(layout.Root, e.Name())
			if err := os.Remove(p); err != nil {
				return texman.IO(p, err)
			}
		}
	}

	if !removeBackups {
		return nil
	}
	if err := os.RemoveAll(layout.Backups); err != nil {
		return texman.IO(layout.Backups, err)
	}
	return st.TruncateBackups(ctx)
}
