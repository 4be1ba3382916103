// Package install implements the installer: it decompresses and untars
// a staged archive into a package's store path, one plan entry at a
// time, and records the result in the state store.
package install

import (
	"archive/tar"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/texman/texman"
	"github.com/texman/texman/internal/fetch"
	"github.com/texman/texman/internal/texmanhome"
)

// Store is the subset of the state store the installer needs, kept
// narrow so installer tests can fake it.
type Store interface {
	Upsert(ctx context.Context, profile, name, revision string) error
}

// Run extracts each staged result in order into profileDir, upserting the
// installed-packages row after each successful extraction.
//
// Order matters: extraction is sequential even though staging was
// concurrent, because a package may shadow files belonging to one of its
// dependencies, and dependency order (guaranteed by the resolver)
// requires dependencies to land first.
func Run(ctx context.Context, st Store, profile, profileDir string, staged []fetch.Result) error {
	for _, r := range staged {
		pkg := r.Package
		storePath := texmanhome.StorePath(profileDir, pkg.Name, pkg.Revision)
		slog.InfoContext(ctx, "installing", "package", pkg.Name, "revision", pkg.Revision, "path", storePath)

		if err := os.MkdirAll(storePath, 0o755); err != nil {
			return texman.IO(storePath, err)
		}
		if err := ExtractOne(r.Path, storePath); err != nil {
			return texman.ExtractFailure(pkg.Name, err)
		}
		if err := os.Remove(r.Path); err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "failed to remove staging file", "path", r.Path, "error", err)
		}
		if err := st.Upsert(ctx, profile, pkg.Name, pkg.Revision); err != nil {
			return err
		}
		slog.DebugContext(ctx, "installed", "package", pkg.Name, "revision", pkg.Revision)
	}
	return nil
}

// ExtractOne decompresses the xz-compressed tar stream at stagingPath
// into dest. Extraction errors leave whatever was already written in dest
// in place, deliberately, to aid diagnosis.
func ExtractOne(stagingPath, dest string) error {
	f, err := os.Open(stagingPath)
	if err != nil {
		return err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return err
	}
	tr := tar.NewReader(xr)

	for {
		h, err := tr.Next()
		switch err {
		case nil:
		case io.EOF:
			return nil
		default:
			return err
		}

		target := filepath.Join(dest, filepath.Clean(filepath.FromSlash(h.Name)))
		if !isWithin(dest, target) {
			return &texman.Error{Kind: texman.ErrInvalid, Op: "extract", Message: "archive entry escapes destination: " + h.Name}
		}

		switch h.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(h.Mode&0o777))
			if err != nil {
				return err
			}
			_, err = io.Copy(out, tr)
			cerr := out.Close()
			if err != nil {
				return err
			}
			if cerr != nil {
				return cerr
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			_ = os.Remove(target)
			if err := os.Symlink(h.Linkname, target); err != nil {
				return err
			}
		default:
			// Ignore device files, fifos, and other exotic entry types.
		}
	}
}

// isWithin reports whether target is dest or a descendant of dest,
// guarding against path traversal via "../" entries in the archive.
func isWithin(dest, target string) bool {
	rel, err := filepath.Rel(dest, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
