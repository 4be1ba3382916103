// Package texman implements a package manager for the TeX Live
// distribution: it fetches the upstream TLPDB catalog, resolves
// transitive dependencies, and installs archives into per-user profiles.
package texman

// Package is one TLPDB catalog record.
//
// A Package is produced by a single parse and is never mutated after
// insertion into an [Index].
type Package struct {
	// Name is the package's unique identifier.
	Name string
	// Revision is an opaque version token. When it parses as a decimal
	// integer it is comparable as such; otherwise it is treated as
	// unknown.
	Revision string
	// URL is the default archive URL, <mirror>/archive/<name>.tar.xz
	// unless overridden by platform-specific binfile/runfile selection.
	URL string
	// Depends is the ordered, deduplicated-by-the-resolver list of
	// dependency package names.
	Depends []string
	// Runfiles and Binfiles are package-relative file paths, used to
	// choose a per-platform archive.
	Runfiles []string
	Binfiles []string
	// Description is the short, single-line description.
	Description string
	// LongDesc is the (possibly multi-line) long description.
	LongDesc string
}

// Index is the package catalog: name to [Package]. Key order is
// unspecified.
type Index map[string]*Package

// Mirror is the CTAN mirror this texman instance talks to.
//
// Deliberately a single constant: texman talks to exactly one mirror, and
// the command surface has no flag to change it.
const Mirror = "http://mirror.ctan.org/systems/texlive/tlnet"

// CatalogURL is the upstream TLPDB catalog location.
const CatalogURL = Mirror + "/tlpkg/texlive.tlpdb"

// ArchiveURL returns the default archive URL for archive under Mirror.
func ArchiveURL(archive string) string {
	return Mirror + "/archive/" + archive
}
