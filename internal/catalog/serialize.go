package catalog

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"os"
	"time"

	"github.com/texman/texman"
	"github.com/texman/texman/internal/texmanhome"
)

// SaveBinary writes idx to layout.CatalogBinary as a gob-encoded blob. It
// is called only after a successful parse of the text that currently
// lives at layout.CatalogText, so the binary cache never gets ahead of
// the text it was parsed from.
func SaveBinary(ctx context.Context, layout texmanhome.Layout, idx texman.Index) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(idx); err != nil {
		return err
	}
	if err := writeAtomic(layout.CatalogBinary, buf.Bytes()); err != nil {
		return texman.IO(layout.CatalogBinary, err)
	}
	slog.DebugContext(ctx, "cached parsed index", "path", layout.CatalogBinary, "packages", len(idx))
	return nil
}

// LoadBinary deserializes the index cached by SaveBinary. Any error here
// (missing file, incompatible format) is a cache miss: the caller should
// fall back to reading and reparsing the text form.
func LoadBinary(layout texmanhome.Layout) (texman.Index, error) {
	b, err := os.ReadFile(layout.CatalogBinary)
	if err != nil {
		return nil, err
	}
	var idx texman.Index
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// Load returns the package index, using the binary cache when the text
// cache is fresh and the binary form exists and deserializes cleanly;
// otherwise it fetches/reads the text form, parses it, and refreshes the
// binary cache.
func Load(ctx context.Context, layout texmanhome.Layout) (texman.Index, error) {
	if fi, err := os.Stat(layout.CatalogText); err == nil && time.Since(fi.ModTime()) < freshness {
		if idx, err := LoadBinary(layout); err == nil {
			slog.DebugContext(ctx, "using cached parsed index", "path", layout.CatalogBinary)
			return idx, nil
		}
	}

	text, err := Fetch(ctx, nil, layout)
	if err != nil {
		return nil, err
	}
	idx, err := Parse(ctx, text)
	if err != nil {
		return nil, texman.CatalogParse(err)
	}
	if err := SaveBinary(ctx, layout, idx); err != nil {
		slog.WarnContext(ctx, "failed to cache parsed index", "error", err)
	}
	return idx, nil
}
