package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DataDir is the hidden directory holding local data under a root.
	DataDir = ".jot"
	// ConfigFile is the optional configuration file at a root.
	ConfigFile = "jot.yaml"
)

// ErrRootNotFound is returned by FindRoot when no marker exists up to the filesystem root.
var ErrRootNotFound = errors.New("root not found")

// FindRoot looks upwards from startDir for a directory holding a .jot directory
// or a jot.yaml file, and returns its absolute path. A .jot file or a jot.yaml
// directory is not a marker.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for dir := abs; ; {
		if isDir(filepath.Join(dir, DataDir)) || isRegular(filepath.Join(dir, ConfigFile)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", ErrRootNotFound, abs)
		}
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
