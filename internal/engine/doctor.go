package engine

import (
	"fmt"

	"github.com/voxengine/voxengine/internal/adapter"
)

// Diagnostics is the doctor payload: a read-only aggregation of engine
// state with suggested next steps.
type Diagnostics struct {
	Version     string               `json:"version"`
	CacheDir    string               `json:"cache_dir"`
	ModelsDir   string               `json:"models_dir"`
	Models      []ModelInfo          `json:"models"`
	TTSBackends []adapter.Descriptor `json:"tts_backends"`
	NextSteps   []string             `json:"next_steps"`
}

// Doctor reports engine health and adapter availability. No side effects.
func (e *Engine) Doctor() (*Diagnostics, error) {
	models, err := e.DiscoverModels()
	if err != nil {
		return nil, err
	}

	backends := e.registry.List()

	var nextSteps []string
	if len(models) == 0 {
		nextSteps = append(nextSteps,
			"Add a voice model with 'voxengine models add --path /path/to/model.onnx'")
	}
	for _, b := range backends {
		if b.NeedsExecutable && !b.ExecutableFound {
			nextSteps = append(nextSteps,
				fmt.Sprintf("Install the %s executable to enable the %q backend", b.Name, b.Name))
		}
	}
	nextSteps = append(nextSteps,
		"Smoke test with 'voxengine tts speak \"hello\" --backend beep'")

	return &Diagnostics{
		Version:     Version,
		CacheDir:    e.cfg.CacheDir,
		ModelsDir:   e.cfg.ModelsDir,
		Models:      models,
		TTSBackends: backends,
		NextSteps:   nextSteps,
	}, nil
}
