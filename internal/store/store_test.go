package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "texman.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Error(err)
		}
	})
	return s
}

func TestUpsertInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Upsert(ctx, "default", "foo", "1"); err != nil {
		t.Fatal(err)
	}
	rev, ok, err := s.Get(ctx, "default", "foo")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || rev != "1" {
		t.Fatalf("got (%q, %v), want (1, true)", rev, ok)
	}

	if err := s.Upsert(ctx, "default", "foo", "2"); err != nil {
		t.Fatal(err)
	}
	rev, ok, err = s.Get(ctx, "default", "foo")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || rev != "2" {
		t.Fatalf("got (%q, %v), want (2, true)", rev, ok)
	}
}

func TestGetMissingReportsNotOK(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, ok, err := s.Get(ctx, "default", "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected ok=false for missing package")
	}
}

func TestListOrderedByName(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Upsert(ctx, "default", name, "1"); err != nil {
			t.Fatal(err)
		}
	}
	// A package in another profile must not appear.
	if err := s.Upsert(ctx, "other", "gamma", "1"); err != nil {
		t.Fatal(err)
	}

	got, err := s.List(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	want := []string{"alpha", "mid", "zeta"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveAndRemoveProfile(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.Upsert(ctx, "default", "foo", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, "default", "bar", "1"); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(ctx, "default", "foo"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "default", "foo"); ok {
		t.Fatal("expected foo removed")
	}

	if err := s.RemoveProfile(ctx, "default"); err != nil {
		t.Fatal(err)
	}
	got, err := s.List(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty after RemoveProfile", got)
	}
}

func TestBackupRowsAndSummaries(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	installed := []InstalledPackage{
		{Profile: "default", Name: "foo", Revision: "1"},
		{Profile: "default", Name: "bar", Revision: "3"},
	}
	if err := s.InsertBackupRows(ctx, "snap", "default", installed, 1000); err != nil {
		t.Fatal(err)
	}

	exists, err := s.BackupExists(ctx, "snap")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("expected snap to exist")
	}

	rows, err := s.BackupRows(ctx, "snap")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Name != "bar" || rows[1].Name != "foo" {
		t.Fatalf("got %+v, want ordered [bar foo]", rows)
	}

	summaries, err := s.ListBackups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].Name != "snap" || summaries[0].Packages != 2 {
		t.Fatalf("got %+v", summaries)
	}

	if err := s.RemoveBackup(ctx, "snap"); err != nil {
		t.Fatal(err)
	}
	if exists, err := s.BackupExists(ctx, "snap"); err != nil || exists {
		t.Fatalf("expected snap removed, exists=%v err=%v", exists, err)
	}
}

func TestTruncateBackups(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	installed := []InstalledPackage{{Profile: "default", Name: "foo", Revision: "1"}}
	if err := s.InsertBackupRows(ctx, "snap1", "default", installed, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertBackupRows(ctx, "snap2", "default", installed, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.TruncateBackups(ctx); err != nil {
		t.Fatal(err)
	}
	summaries, err := s.ListBackups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 0 {
		t.Fatalf("got %v, want none after truncate", summaries)
	}
}

func TestInsertBackupRowsEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.InsertBackupRows(ctx, "empty", "default", nil, 1); err != nil {
		t.Fatal(err)
	}
	exists, err := s.BackupExists(ctx, "empty")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("expected no rows inserted for an empty package list")
	}
}
