// Package project validates the on-disk project layout and manages per
// project cast records.
package project

import (
	"os"
	"path/filepath"

	"github.com/voxengine/voxengine/internal/voxerr"
	"github.com/voxengine/voxengine/internal/xfs"
)

// Directories every project must contain.
var requiredDirs = []string{"cast", "script", "renders"}

// ManifestFile is the project manifest name.
const ManifestFile = "project.json"

// Validate checks the project layout: the required directories and the
// manifest must all exist.
func Validate(projectPath string) error {
	info, err := os.Stat(projectPath)
	if err != nil || !info.IsDir() {
		return voxerr.InvalidInput("project not found: %s", projectPath)
	}

	for _, dir := range requiredDirs {
		if info, err := os.Stat(filepath.Join(projectPath, dir)); err != nil || !info.IsDir() {
			return voxerr.InvalidInput("missing required directory %q in %s", dir, projectPath)
		}
	}

	if !xfs.FileExists(filepath.Join(projectPath, ManifestFile)) {
		return voxerr.InvalidInput("missing %s in %s", ManifestFile, projectPath)
	}

	return nil
}

// Scaffold creates the required layout and an empty manifest, for tests and
// the quickstart path.
func Scaffold(projectPath string) error {
	for _, dir := range requiredDirs {
		if err := xfs.EnsureDir(filepath.Join(projectPath, dir)); err != nil {
			return err
		}
	}

	manifest := filepath.Join(projectPath, ManifestFile)
	if xfs.FileExists(manifest) {
		return nil
	}

	return os.WriteFile(manifest, []byte("{}\n"), 0o644)
}
