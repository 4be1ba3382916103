package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"github.com/texman/texman"
	"github.com/texman/texman/internal/texmanhome"
)

// freshness is how long the on-disk text cache may be served without a
// re-fetch.
const freshness = 24 * time.Hour

// Fetch returns the TLPDB catalog text, honoring the on-disk cache: if
// the cache file exists and is fresh, its contents are returned
// unparsed; otherwise the catalog is fetched over HTTP and the body is
// written atomically to the cache before being returned.
func Fetch(ctx context.Context, client *http.Client, layout texmanhome.Layout) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if fi, err := os.Stat(layout.CatalogText); err == nil {
		if time.Since(fi.ModTime()) < freshness {
			slog.DebugContext(ctx, "using cached catalog", "path", layout.CatalogText)
			b, err := os.ReadFile(layout.CatalogText)
			if err != nil {
				return "", texman.IO(layout.CatalogText, err)
			}
			return string(b), nil
		}
	}

	slog.InfoContext(ctx, "fetching catalog", "url", texman.CatalogURL)
	body, err := fetchBody(ctx, client, texman.CatalogURL)
	if err != nil {
		return "", texman.CatalogFetch(err)
	}
	if !utf8.Valid(body) {
		return "", texman.CatalogEncoding()
	}
	if err := writeAtomic(layout.CatalogText, body); err != nil {
		return "", texman.IO(layout.CatalogText, err)
	}
	slog.DebugContext(ctx, "cached catalog", "path", layout.CatalogText, "bytes", len(body))
	return string(body), nil
}

func fetchBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: constructing request: %w", err)
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: unexpected status: %s", res.Status)
	}
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading body: %w", err)
	}
	return b, nil
}

// writeAtomic writes b to path by writing a sibling temp file and
// renaming it into place, so a reader never observes a partial cache
// file.
func writeAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
