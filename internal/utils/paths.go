// internal/utils/paths.go

package utils

import (
	"os"
	"path/filepath"
)

// VersionsFileName marks the tools root directory.
const VersionsFileName = "versions.json"

// FindRoot returns the tools root: dir itself when it holds versions.json,
// its parent when that does, otherwise dir.
func FindRoot(dir string) string {
	if fileExists(filepath.Join(dir, VersionsFileName)) {
		return dir
	}
	parent := filepath.Dir(dir)
	if fileExists(filepath.Join(parent, VersionsFileName)) {
		return parent
	}
	return dir
}

// Resolve joins p onto root unless p is already absolute.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
