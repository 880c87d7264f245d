package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigPath returns the default path for the VoxEngine config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "voxengine", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "voxengine")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "voxengine")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "voxengine")
		}
		return filepath.Join(home, ".config", "voxengine")
	}
}

// DefaultCachePath returns the default path for generated audio and metadata.
func DefaultCachePath() string {
	return filepath.Join(defaultCacheRoot(), "voxengine")
}

// DefaultModelsPath returns the default path for the voice models directory.
func DefaultModelsPath() string {
	return filepath.Join(defaultCacheRoot(), "voxengine", "models")
}

func defaultCacheRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local")
	case "darwin":
		return filepath.Join(home, "Library", "Caches")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return xdg
		}
		return filepath.Join(home, ".cache")
	}
}
