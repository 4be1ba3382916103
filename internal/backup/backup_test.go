package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/texman/texman"
	"github.com/texman/texman/internal/store"
	"github.com/texman/texman/internal/texmanhome"
)

// fakeStore is an in-memory stand-in for the state store, enough to
// exercise the backup/restore round trip without a real database.
type fakeStore struct {
	installed map[string]map[string]string // profile -> name -> revision
	backups   map[string][]store.BackupRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		installed: make(map[string]map[string]string),
		backups:   make(map[string][]store.BackupRow),
	}
}

func (f *fakeStore) List(ctx context.Context, profile string) ([]store.InstalledPackage, error) {
	var out []store.InstalledPackage
	for name, rev := range f.installed[profile] {
		out = append(out, store.InstalledPackage{Profile: profile, Name: name, Revision: rev})
	}
	return out, nil
}

func (f *fakeStore) InsertBackupRows(ctx context.Context, backupName, profile string, installed []store.InstalledPackage, createdAt int64) error {
	for _, p := range installed {
		f.backups[backupName] = append(f.backups[backupName], store.BackupRow{
			BackupName: backupName, Profile: profile, Name: p.Name, Revision: p.Revision, CreatedAt: createdAt,
		})
	}
	return nil
}

func (f *fakeStore) BackupRows(ctx context.Context, backupName string) ([]store.BackupRow, error) {
	return f.backups[backupName], nil
}

func (f *fakeStore) RemoveProfile(ctx context.Context, profile string) error {
	delete(f.installed, profile)
	return nil
}

func (f *fakeStore) Upsert(ctx context.Context, profile, name, revision string) error {
	if f.installed[profile] == nil {
		f.installed[profile] = make(map[string]string)
	}
	f.installed[profile][name] = revision
	return nil
}

func (f *fakeStore) ListBackups(ctx context.Context) ([]store.BackupSummary, error) {
	var out []store.BackupSummary
	for name, rows := range f.backups {
		if len(rows) == 0 {
			continue
		}
		out = append(out, store.BackupSummary{Name: name, CreatedAt: rows[0].CreatedAt, Packages: len(rows)})
	}
	return out, nil
}

func (f *fakeStore) RemoveBackup(ctx context.Context, backupName string) error {
	delete(f.backups, backupName)
	return nil
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	layout := texmanhome.NewLayout(root)
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}

	profileDir := layout.ProfileDir("default")
	pkgDir := filepath.Join(profileDir, "foo-r1")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "file.tex"), []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	st := newFakeStore()
	if err := st.Upsert(context.Background(), "default", "foo", "1"); err != nil {
		t.Fatal(err)
	}

	if err := Create(context.Background(), layout, st, "default", "snap"); err != nil {
		t.Fatal(err)
	}

	// Simulate removal of foo.
	if err := os.RemoveAll(pkgDir); err != nil {
		t.Fatal(err)
	}
	delete(st.installed["default"], "foo")

	if err := Restore(context.Background(), layout, st, "default", "snap"); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(pkgDir, "file.tex")); err != nil {
		t.Fatalf("expected restored file, got error: %v", err)
	}
	if rev := st.installed["default"]["foo"]; rev != "1" {
		t.Fatalf("installed revision = %q, want %q", rev, "1")
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	root := t.TempDir()
	layout := texmanhome.NewLayout(root)
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	st := newFakeStore()
	err := Restore(context.Background(), layout, st, "default", "ghost")
	var terr *texman.Error
	if !errors.As(err, &terr) || terr.Kind != texman.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestRestoreEmptyProfileBackup covers a backup taken of a profile with
// no installed packages: InsertBackupRows writes no rows for it, so its
// existence must be keyed on the backup directory, not the backups table.
func TestRestoreEmptyProfileBackup(t *testing.T) {
	root := t.TempDir()
	layout := texmanhome.NewLayout(root)
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	st := newFakeStore()

	if err := Create(context.Background(), layout, st, "default", "empty-snap"); err != nil {
		t.Fatal(err)
	}
	if err := Restore(context.Background(), layout, st, "default", "empty-snap"); err != nil {
		t.Fatalf("expected restore of an empty-profile backup to succeed, got: %v", err)
	}
	if err := Remove(context.Background(), layout, st, "empty-snap"); err != nil {
		t.Fatalf("expected remove of an empty-profile backup to succeed, got: %v", err)
	}
}
