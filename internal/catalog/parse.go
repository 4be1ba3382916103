package catalog

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/texman/texman"
)

// mode tracks which directive's continuation lines are currently being
// accumulated within a block.
type mode int

const (
	modeNone mode = iota
	modeLongdesc
	modeRunfiles
	modeBinfiles
)

// Parse parses TLPDB text into a package [texman.Index].
//
// Packages are separated by blank lines. A bare "name" line immediately
// following a still-open block also closes it, so a malformed catalog
// missing the separating blank line between two entries is still parsed
// correctly.
//
// Parsing is parallelized over blocks via an errgroup, since each block
// is independent; the final merge is sequential so that "last name wins"
// on duplicates is deterministic in source order.
func Parse(ctx context.Context, text string) (texman.Index, error) {
	blocks := splitBlocks(text)
	parsed := make([]*texman.Package, len(blocks))

	g, _ := errgroup.WithContext(ctx)
	for i, block := range blocks {
		i, block := i, block
		g.Go(func() error {
			parsed[i] = parseBlock(block)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := make(texman.Index, len(parsed))
	for _, pkg := range parsed {
		if pkg == nil || pkg.Name == "" {
			continue
		}
		idx[pkg.Name] = pkg
	}
	return idx, nil
}

// splitBlocks groups the lines of text into per-package blocks.
func splitBlocks(text string) [][]string {
	lines := strings.Split(text, "\n")
	var blocks [][]string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, cur)
			cur = nil
		}
	}
	for _, line := range lines {
		if strings.TrimRight(line, "\r") == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "name ") && len(cur) > 0 {
			flush()
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}

// parseBlock parses one package block. It returns nil if the block never
// establishes a non-empty name.
func parseBlock(lines []string) *texman.Package {
	var pkg *texman.Package
	m := modeNone

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "name "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "name "))
			if name == "" {
				m = modeNone
				continue
			}
			pkg = &texman.Package{Name: name, URL: texman.ArchiveURL(name + ".tar.xz")}
			m = modeNone
		case pkg == nil:
			// No name established yet; ignore stray directives.
			continue
		case strings.HasPrefix(line, "revision "):
			pkg.Revision = strings.TrimSpace(strings.TrimPrefix(line, "revision "))
			m = modeNone
		case strings.HasPrefix(line, "depends "):
			rest := strings.TrimPrefix(line, "depends ")
			for _, d := range strings.Split(rest, ",") {
				d = strings.TrimSpace(d)
				if d != "" {
					pkg.Depends = append(pkg.Depends, d)
				}
			}
			m = modeNone
		case strings.HasPrefix(line, "shortdesc "):
			pkg.Description = strings.TrimPrefix(line, "shortdesc ")
			m = modeNone
		case strings.HasPrefix(line, "longdesc "):
			pkg.LongDesc = strings.TrimPrefix(line, "longdesc ")
			m = modeLongdesc
		case line == "runfiles":
			m = modeRunfiles
		case line == "binfiles":
			m = modeBinfiles
		case strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"):
			switch m {
			case modeLongdesc:
				pkg.LongDesc += "\n" + strings.TrimSpace(line)
			case modeRunfiles:
				pkg.Runfiles = append(pkg.Runfiles, strings.TrimSpace(line))
			case modeBinfiles:
				pkg.Binfiles = append(pkg.Binfiles, strings.TrimSpace(line))
			}
		default:
			// Unrecognized directive; ignored, and it closes any open
			// continuation block.
			m = modeNone
		}
	}
	return pkg
}
