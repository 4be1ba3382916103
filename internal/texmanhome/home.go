// Package texmanhome resolves the root directory texman stores its state
// under, and the fixed layout beneath it.
package texmanhome

import (
	"os"
	"path/filepath"
)

// Root returns the root directory R, defaulting to <home>/.texman.
//
// TEXMAN_ROOT overrides the default; it exists so tests can sandbox a root
// per test case without touching the real home directory, the same escape
// hatch the reference corpus uses to parameterize storage roots in tests.
func Root() (string, error) {
	if r := os.Getenv("TEXMAN_ROOT"); r != "" {
		return r, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".texman"), nil
}

// Layout is the set of paths under a root R.
type Layout struct {
	Root          string
	DBDir         string
	CatalogText   string
	CatalogBinary string
	SQLite        string
	Profiles      string
	Backups       string
	Active        string
}

// NewLayout derives a Layout from root.
func NewLayout(root string) Layout {
	dbDir := filepath.Join(root, "db")
	return Layout{
		Root:          root,
		DBDir:         dbDir,
		CatalogText:   filepath.Join(dbDir, "tlpdb.txt"),
		CatalogBinary: filepath.Join(dbDir, "tlpdb.bin"),
		SQLite:        filepath.Join(dbDir, "texman.sqlite"),
		Profiles:      filepath.Join(root, "profiles"),
		Backups:       filepath.Join(root, "backups"),
		Active:        filepath.Join(root, "active"),
	}
}

// ProfileDir returns the directory of the named profile.
func (l Layout) ProfileDir(name string) string {
	return filepath.Join(l.Profiles, name)
}

// BackupDir returns the directory of the named backup.
func (l Layout) BackupDir(name string) string {
	return filepath.Join(l.Backups, name)
}

// StorePath returns the install directory of one package within a profile
// directory.
func StorePath(profileDir, name, revision string) string {
	return filepath.Join(profileDir, name+"-r"+revision)
}

// Ensure creates the root, db, profiles, and backups directories.
func (l Layout) Ensure() error {
	for _, d := range []string{l.Root, l.DBDir, l.Profiles, l.Backups} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}
