package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDirName is the directory under the system temp dir that dev runs write into.
const DevDirName = "jot-dev"

// IsDevRun reports whether the binary was produced by `go run` or `go test`.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return isDevExecutable(exe, os.TempDir())
}

// isDevExecutable recognizes test binaries by suffix and `go run` binaries by the
// go-build work directory they are linked into.
func isDevExecutable(exe, tempDir string) bool {
	base := strings.ToLower(filepath.Base(exe))
	if strings.HasSuffix(base, ".test") || strings.HasSuffix(base, ".test.exe") {
		return true
	}
	if !within(tempDir, exe) {
		return false
	}
	rel, _ := filepath.Rel(tempDir, exe)
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return strings.HasPrefix(first, "go-build")
}

// within reports whether path lies inside dir (or is dir).
func within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ResolveDataPath determines where file-based adapters keep their data.
//
// Without forceTemp the path is returned as given. With it, a path already under the
// system temp dir is kept, and anything else is re-rooted under <tmp>/jot-dev so a dev
// run never touches real notes. A file path (such as a bbolt database) keeps its parent
// directory name so two projects do not share one sandboxed file.
func ResolveDataPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if userPath != "" && within(os.TempDir(), clean) {
		return clean
	}
	return filepath.Join(os.TempDir(), DevDirName, sandboxName(clean))
}

func sandboxName(clean string) string {
	base := filepath.Base(clean)
	if base == "." || base == string(filepath.Separator) || base == ".." {
		return "default"
	}
	if filepath.Ext(base) == "" || strings.HasPrefix(base, ".") {
		return base
	}

	parent := filepath.Base(filepath.Dir(clean))
	if parent == "." || parent == string(filepath.Separator) || parent == ".." {
		parent = "default"
	}
	return filepath.Join(parent, base)
}
