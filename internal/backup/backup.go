// Package backup implements the backup/restore manager: snapshotting and
// restoring a profile's directory tree together with its
// installed-packages rows.
package backup

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/texman/texman"
	"github.com/texman/texman/internal/store"
	"github.com/texman/texman/internal/texmanhome"
)

// Store is the subset of the state store the backup manager needs.
type Store interface {
	List(ctx context.Context, profile string) ([]store.InstalledPackage, error)
	InsertBackupRows(ctx context.Context, backupName, profile string, installed []store.InstalledPackage, createdAt int64) error
	BackupRows(ctx context.Context, backupName string) ([]store.BackupRow, error)
	RemoveProfile(ctx context.Context, profile string) error
	Upsert(ctx context.Context, profile, name, revision string) error
	ListBackups(ctx context.Context) ([]store.BackupSummary, error)
	RemoveBackup(ctx context.Context, backupName string) error
}

// Create snapshots the active profile's tree to R/backups/<name> and
// records one backups row per installed-packages row of that profile.
//
// The tree is copied into a uuid-named staging directory beside dstDir
// and renamed into place only once the copy completes, so a concurrent
// reader (restore, or another backup create) never observes a
// partially-written backup at the canonical path.
func Create(ctx context.Context, layout texmanhome.Layout, st Store, activeProfile, name string) error {
	srcDir := layout.ProfileDir(activeProfile)
	dstDir := layout.BackupDir(name)
	stagingDir := filepath.Join(layout.Backups, ".staging-"+uuid.NewString())

	slog.InfoContext(ctx, "creating backup", "name", name, "profile", activeProfile)
	if err := copyTree(srcDir, stagingDir); err != nil {
		os.RemoveAll(stagingDir)
		return texman.IO(stagingDir, err)
	}
	if err := os.RemoveAll(dstDir); err != nil {
		os.RemoveAll(stagingDir)
		return texman.IO(dstDir, err)
	}
	if err := os.Rename(stagingDir, dstDir); err != nil {
		os.RemoveAll(stagingDir)
		return texman.IO(dstDir, err)
	}

	installed, err := st.List(ctx, activeProfile)
	if err != nil {
		return err
	}
	if err := st.InsertBackupRows(ctx, name, activeProfile, installed, time.Now().Unix()); err != nil {
		return err
	}
	slog.DebugContext(ctx, "backup created", "name", name, "packages", len(installed))
	return nil
}

// Restore requires the named backup to exist, replaces the active
// profile's directory contents with the backup's tree, and replaces the
// active profile's installed-packages rows with the ones recorded at
// backup time.
//
// Existence is keyed on the backup's directory, not its rows: a backup
// taken of a profile with no installed packages has a directory but no
// backups rows (InsertBackupRows is a no-op for an empty package list),
// and that is still a valid, restorable backup.
func Restore(ctx context.Context, layout texmanhome.Layout, st Store, activeProfile, name string) error {
	srcDir := layout.BackupDir(name)
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return texman.BackupMissing(name)
	} else if err != nil {
		return texman.IO(srcDir, err)
	}

	dstDir := layout.ProfileDir(activeProfile)
	slog.InfoContext(ctx, "restoring backup", "name", name, "profile", activeProfile)
	if err := clearDir(dstDir); err != nil {
		return texman.IO(dstDir, err)
	}
	if err := copyTree(srcDir, dstDir); err != nil {
		return texman.IO(dstDir, err)
	}

	if err := st.RemoveProfile(ctx, activeProfile); err != nil {
		return err
	}
	rows, err := st.BackupRows(ctx, name)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := st.Upsert(ctx, activeProfile, r.Name, r.Revision); err != nil {
			return err
		}
	}
	slog.DebugContext(ctx, "backup restored", "name", name, "packages", len(rows))
	return nil
}

// List reports (name, min(created_at), package count) for every backup,
// ordered by name.
func List(ctx context.Context, st Store) ([]store.BackupSummary, error) {
	return st.ListBackups(ctx)
}

// Remove deletes a backup's directory tree and its rows. Existence is
// keyed on the directory, the same as Restore, since a backup of an
// empty profile has no rows to check.
func Remove(ctx context.Context, layout texmanhome.Layout, st Store, name string) error {
	dir := layout.BackupDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return texman.BackupMissing(name)
	} else if err != nil {
		return texman.IO(dir, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return texman.IO(dir, err)
	}
	return st.RemoveBackup(ctx, name)
}

// copyTree recursively copies src into dst, preserving the file vs
// directory distinction of each entry.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(dst, 0o755)
		}
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst, info)
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		s := filepath.Join(src, e.Name())
		d := filepath.Join(dst, e.Name())
		if e.Type()&os.ModeSymlink != 0 {
			target, err := os.Readlink(s)
			if err != nil {
				return err
			}
			if err := os.Symlink(target, d); err != nil {
				return err
			}
			continue
		}
		if e.IsDir() {
			if err := copyTree(s, d); err != nil {
				return err
			}
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return err
		}
		if err := copyFile(s, d, fi); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// clearDir removes every entry inside dir, leaving dir itself in place.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(dir, 0o755)
		}
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
