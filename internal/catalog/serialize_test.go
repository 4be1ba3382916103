package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/texman/texman"
	"github.com/texman/texman/internal/texmanhome"
)

func TestSaveAndLoadBinaryRoundTrip(t *testing.T) {
	root := t.TempDir()
	layout := texmanhome.NewLayout(root)
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}

	idx := texman.Index{
		"foo": {Name: "foo", Revision: "1", Depends: []string{"bar"}},
		"bar": {Name: "bar", Revision: "2"},
	}
	if err := SaveBinary(context.Background(), layout, idx); err != nil {
		t.Fatal(err)
	}

	got, err := LoadBinary(layout)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got["foo"].Revision != "1" || got["bar"].Revision != "2" {
		t.Fatalf("got %+v", got)
	}
	if len(got["foo"].Depends) != 1 || got["foo"].Depends[0] != "bar" {
		t.Fatalf("got depends %v", got["foo"].Depends)
	}
}

func TestLoadBinaryMissingFileIsError(t *testing.T) {
	root := t.TempDir()
	layout := texmanhome.NewLayout(root)
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBinary(layout); err == nil {
		t.Fatal("expected an error when no binary cache exists")
	}
}

func TestLoadBinaryCorruptFileIsError(t *testing.T) {
	root := t.TempDir()
	layout := texmanhome.NewLayout(root)
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(layout.CatalogBinary, []byte("not a gob stream"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBinary(layout); err == nil {
		t.Fatal("expected an error decoding a corrupt cache")
	}
}

func TestLoadFallsBackWhenTextCacheIsStale(t *testing.T) {
	root := t.TempDir()
	layout := texmanhome.NewLayout(root)
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}

	idx := texman.Index{"foo": {Name: "foo", Revision: "1"}}
	if err := SaveBinary(context.Background(), layout, idx); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(layout.CatalogText, []byte("name foo\nrevision 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(layout.CatalogText, stale, stale); err != nil {
		t.Fatal(err)
	}

	// Load should treat the stale text cache as a cache miss and attempt
	// a real fetch, which fails fast against an unreachable host rather
	// than silently reusing the stale binary cache.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Load(ctx, layout)
	if err == nil {
		t.Fatal("expected Load to attempt a re-fetch rather than reuse a stale binary cache")
	}
}
