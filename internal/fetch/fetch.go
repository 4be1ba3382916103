// Package fetch implements the archive fetcher: it selects the right
// platform archive for a package, downloads it chunk by chunk into a
// staging file under the root, and advances an opaque progress observer
// as bytes arrive.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/texman/texman"
)

const chunkSize = 32 * 1024

// Progress is advanced by chunk length as an archive downloads. A nil
// *http.Response content-length hint means SetTotal is called with -1.
type Progress interface {
	SetTotal(total int64)
	Advance(n int64)
}

// noopProgress discards progress updates.
type noopProgress struct{}

func (noopProgress) SetTotal(int64) {}
func (noopProgress) Advance(int64)  {}

// NoopProgress is a [Progress] that discards updates.
var NoopProgress Progress = noopProgress{}

// maxConcurrency bounds how many archives are fetched at once.
const maxConcurrency = 4

// One fetches a single package's archive to <root>/<archive> and returns
// the staging path. On failure the partial file is left in place,
// reclaimable by clean.
func One(ctx context.Context, client *http.Client, root string, pkg *texman.Package, prog Progress) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if prog == nil {
		prog = NoopProgress
	}
	archive := SelectArchive(pkg)
	url := texman.ArchiveURL(archive)
	stagingPath := root + string(os.PathSeparator) + archive

	slog.InfoContext(ctx, "fetching archive", "package", pkg.Name, "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", texman.ArchiveFetch(pkg.Name, url, err)
	}
	res, err := client.Do(req)
	if err != nil {
		return "", texman.ArchiveFetch(pkg.Name, url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", texman.ArchiveFetch(pkg.Name, url, fmt.Errorf("unexpected status: %s", res.Status))
	}

	if res.ContentLength > 0 {
		prog.SetTotal(res.ContentLength)
	} else {
		prog.SetTotal(-1)
	}

	f, err := os.Create(stagingPath)
	if err != nil {
		return "", texman.ArchiveFetch(pkg.Name, url, err)
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	for {
		n, rerr := res.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return "", texman.ArchiveFetch(pkg.Name, url, werr)
			}
			prog.Advance(int64(n))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", texman.ArchiveFetch(pkg.Name, url, rerr)
		}
	}

	slog.DebugContext(ctx, "fetched archive", "package", pkg.Name, "path", stagingPath)
	return stagingPath, nil
}

// Result pairs a plan entry with the staging path its archive was fetched
// to.
type Result struct {
	Package *texman.Package
	Path    string
}

// Plan fetches every entry in plan concurrently, bounded by
// maxConcurrency. Fetches may complete in any order; the returned slice
// preserves plan's order regardless. A progressFor callback, if non-nil,
// supplies a per-entry [Progress]; it may be called concurrently.
func Plan(ctx context.Context, client *http.Client, root string, plan []*texman.Package, progressFor func(*texman.Package) Progress) ([]Result, error) {
	results := make([]Result, len(plan))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, pkg := range plan {
		i, pkg := i, pkg
		g.Go(func() error {
			var prog Progress
			if progressFor != nil {
				prog = progressFor(pkg)
			}
			path, err := One(gctx, client, root, pkg, prog)
			if err != nil {
				return err
			}
			results[i] = Result{Package: pkg, Path: path}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
