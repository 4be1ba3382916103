// Package update implements the cross-cutting update path: for every
// package installed in the active profile, fetch and install whatever
// newer revision the catalog carries.
package update

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/texman/texman"
	"github.com/texman/texman/internal/fetch"
	"github.com/texman/texman/internal/install"
	"github.com/texman/texman/internal/store"
	"github.com/texman/texman/internal/texmanhome"
)

// Store is the subset of the state store update needs.
type Store interface {
	List(ctx context.Context, profile string) ([]store.InstalledPackage, error)
	Upsert(ctx context.Context, profile, name, revision string) error
}

// Updater bundles the dependencies Run needs; kept as a struct (rather
// than a long parameter list) so cmd/texman can wire it once per command.
//
// The previous revision is looked up from the store before the upsert,
// and that package's old store directory is removed once the new
// revision is extracted, when the two paths differ.
type Updater struct {
	Client *http.Client
	Layout texmanhome.Layout
	Index  texman.Index
	Store  Store
}

// Run updates every installed package of profile with a strictly newer
// catalog revision.
func (u *Updater) Run(ctx context.Context, profile string) error {
	rows, err := u.Store.List(ctx, profile)
	if err != nil {
		return err
	}

	profileDir := u.Layout.ProfileDir(profile)

	var plan []*texman.Package
	oldRevision := make(map[string]string)
	for _, row := range rows {
		catalogPkg, ok := u.Index[row.Name]
		if !ok {
			continue
		}
		cur, err := strconv.Atoi(row.Revision)
		if err != nil {
			return texman.RevisionFormat(row.Name, row.Revision)
		}
		next, err := strconv.Atoi(catalogPkg.Revision)
		if err != nil {
			return texman.RevisionFormat(row.Name, catalogPkg.Revision)
		}
		if next <= cur {
			continue
		}
		plan = append(plan, catalogPkg)
		oldRevision[row.Name] = row.Revision
	}
	if len(plan) == 0 {
		slog.InfoContext(ctx, "no updates available", "profile", profile)
		return nil
	}

	staged, err := fetch.Plan(ctx, u.Client, u.Layout.Root, plan, nil)
	if err != nil {
		return err
	}

	for _, r := range staged {
		pkg := r.Package
		storePath := texmanhome.StorePath(profileDir, pkg.Name, pkg.Revision)
		if err := os.MkdirAll(storePath, 0o755); err != nil {
			return texman.IO(storePath, err)
		}
		if err := install.ExtractOne(r.Path, storePath); err != nil {
			return texman.ExtractFailure(pkg.Name, err)
		}
		if err := os.Remove(r.Path); err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "failed to remove staging file", "path", r.Path, "error", err)
		}
		if err := u.Store.Upsert(ctx, profile, pkg.Name, pkg.Revision); err != nil {
			return err
		}

		if old, ok := oldRevision[pkg.Name]; ok && old != pkg.Revision {
			oldPath := texmanhome.StorePath(profileDir, pkg.Name, old)
			if err := os.RemoveAll(oldPath); err != nil {
				slog.WarnContext(ctx, "failed to remove superseded package directory", "path", oldPath, "error", err)
			}
		}
		slog.InfoContext(ctx, "updated", "package", pkg.Name, "revision", pkg.Revision)
	}
	return nil
}
