// Package config holds the engine configuration: storage directories,
// backend defaults, and server binding.
package config

import (
	"os"
	"time"

	"github.com/voxengine/voxengine/internal/envvar"
	"github.com/voxengine/voxengine/internal/xfs"
)

// Config holds the main configuration for the application.
type Config struct {
	CacheDir       string       `json:"cache_dir,omitempty"      yaml:"cache_dir,omitempty"`
	ModelsDir      string       `json:"models_dir,omitempty"     yaml:"models_dir,omitempty"`
	DefaultBackend string       `json:"default_backend"          yaml:"default_backend"`
	Server         ServerConfig `json:"server,omitempty"         yaml:"server,omitempty"`
	Workers        int          `json:"workers,omitempty"        yaml:"workers,omitempty"`
	AdapterTimeout int          `json:"adapter_timeout_seconds,omitempty" yaml:"adapter_timeout_seconds,omitempty"`
}

// ServerConfig holds the HTTP server binding.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`
}

// Default returns the built-in configuration with environment overrides
// applied.
func Default() *Config {
	cfg := &Config{
		CacheDir:       DefaultCachePath(),
		ModelsDir:      DefaultModelsPath(),
		DefaultBackend: "piper",
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 7341,
		},
		Workers:        4,
		AdapterTimeout: 60,
	}
	cfg.applyEnv()

	return cfg
}

// applyEnv applies VOXENGINE_* environment overrides.
// Precedence: environment variable > config file > built-in default.
func (c *Config) applyEnv() {
	if p := os.Getenv(envvar.VoxEngineCacheDir); p != "" {
		c.CacheDir = xfs.ExpandTilde(p)
	}
	if p := os.Getenv(envvar.VoxEngineModelsDir); p != "" {
		c.ModelsDir = xfs.ExpandTilde(p)
	}
}

// AdapterTimeoutDuration returns the bound on a single external adapter
// invocation.
func (c *Config) AdapterTimeoutDuration() time.Duration {
	if c.AdapterTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.AdapterTimeout) * time.Second
}
