package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/voxengine/voxengine/internal/voxerr"
	"github.com/voxengine/voxengine/internal/xfs"
)

// Model file extensions recognized in the models directory.
var modelExtensions = map[string]bool{
	".onnx": true,
	".bin":  true,
	".pt":   true,
}

// ModelInfo describes a discovered voice model. Recomputed on every call;
// never persisted.
type ModelInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// DiscoverModels scans the models directory for files with a recognized
// extension, sorted by name.
func (e *Engine) DiscoverModels() ([]ModelInfo, error) {
	entries, err := os.ReadDir(e.cfg.ModelsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ModelInfo{}, nil
		}
		return nil, voxerr.Internal("failed to scan models directory", err)
	}

	models := make([]ModelInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !modelExtensions[ext] {
			continue
		}

		models = append(models, ModelInfo{
			Name: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path: filepath.Join(e.cfg.ModelsDir, entry.Name()),
		})
	}

	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })

	return models, nil
}

// AddModel copies a model file into the models directory. An existing model
// with the resulting name is never overwritten.
func (e *Engine) AddModel(sourcePath, name string) (string, error) {
	if !xfs.FileExists(sourcePath) {
		return "", voxerr.InvalidInput("model file not found: %s", sourcePath)
	}

	destName := name
	if destName == "" {
		destName = filepath.Base(sourcePath)
	} else if filepath.Ext(destName) == "" {
		destName += filepath.Ext(sourcePath)
	}

	destPath := filepath.Join(e.cfg.ModelsDir, destName)
	if _, err := os.Stat(destPath); err == nil {
		return "", voxerr.InvalidInput("model %q already exists at %s", destName, destPath)
	}

	if err := xfs.EnsureDir(e.cfg.ModelsDir); err != nil {
		return "", voxerr.Internal("failed to prepare models directory", err)
	}

	if err := copyFile(sourcePath, destPath); err != nil {
		return "", voxerr.Internal("failed to copy model", err)
	}

	e.log.Info("Model added", "source", sourcePath, "dest", destPath)

	return destPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finalize model copy: %w", err)
	}

	return nil
}
