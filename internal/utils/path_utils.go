package utils

import (
	"path/filepath"
)

// ResolveRelative joins path onto baseDir unless path is already absolute
// or baseDir is empty.
func ResolveRelative(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
