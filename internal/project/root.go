package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ConfigName is the per-project configuration file.
const ConfigName = "remap.toml"

// FindRemapToml returns the nearest remap.toml at or above startDir.
// ok is false when the walk reaches the filesystem root without one.
func FindRemapToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for ; ; dir = filepath.Dir(dir) {
		path = filepath.Join(dir, ConfigName)
		switch _, err := os.Stat(path); {
		case err == nil:
			return path, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", path, err)
		}
		if filepath.Dir(dir) == dir {
			return "", false, nil
		}
	}
}

// FindProjectRoot is the directory holding the nearest remap.toml.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	path, ok, err := FindRemapToml(startDir)
	if !ok {
		return "", false, err
	}
	return filepath.Dir(path), true, nil
}
