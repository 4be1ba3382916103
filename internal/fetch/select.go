package fetch

import (
	"runtime"
	"strings"

	"github.com/texman/texman"
)

// platformSuffix derives the host's platform suffix, e.g. "x86_64-linux".
// An unrecognized GOARCH/GOOS pair yields "", which falls back to the
// default archive.
func platformSuffix() string {
	var arch string
	switch runtime.GOARCH {
	case "amd64":
		arch = "x86_64"
	case "386":
		arch = "i386"
	case "arm64":
		arch = "aarch64"
	default:
		return ""
	}
	switch runtime.GOOS {
	case "linux", "darwin", "windows", "freebsd":
		return arch + "-" + runtime.GOOS
	default:
		return ""
	}
}

// SelectArchive picks the archive file name to download for pkg, in
// order: a platform-specific binfile, then the plain runfile archive,
// then the default <name>.tar.xz.
func SelectArchive(pkg *texman.Package) string {
	suffix := platformSuffix()
	if suffix != "" {
		want := pkg.Name + "." + suffix + ".tar.xz"
		for _, f := range pkg.Binfiles {
			if strings.HasSuffix(f, want) {
				return want
			}
		}
	}
	want := pkg.Name + ".tar.xz"
	for _, f := range pkg.Runfiles {
		if strings.HasSuffix(f, want) {
			return want
		}
	}
	return want
}
