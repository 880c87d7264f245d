package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/voxengine/voxengine/internal/xfs"
)

//go:embed voxengine.schema.json
var schemaJSON string

// LoadAndValidate loads the YAML config at path, validates it against the
// embedded schema, and merges it over the built-in defaults. Environment
// overrides are applied last.
func LoadAndValidate(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	schema, err := jsonschema.CompileString("voxengine.schema.json", schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into Config struct: %w", err)
	}

	cfg.CacheDir = xfs.ExpandTilde(cfg.CacheDir)
	cfg.ModelsDir = xfs.ExpandTilde(cfg.ModelsDir)
	cfg.applyEnv()

	return cfg, nil
}
