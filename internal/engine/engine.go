// Package engine implements the synthesis orchestration pipeline: input
// validation, policy gating, adapter resolution, output-path and model
// resolution, synthesis, and metadata persistence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/voxengine/voxengine/internal/adapter"
	"github.com/voxengine/voxengine/internal/config"
	"github.com/voxengine/voxengine/internal/policy"
	"github.com/voxengine/voxengine/internal/voxerr"
	"github.com/voxengine/voxengine/internal/xfs"
)

// Version is the engine version reported in /health, doctor output, and
// metadata sidecars.
const Version = "0.4.0"

// Profiles accepted after lowercase normalization.
var supportedProfiles = map[string]bool{
	"screenreader": true,
	"narration":    true,
	"dialogue":     true,
}

// Output formats accepted.
var supportedFormats = map[string]bool{
	"wav": true,
}

// SpeakRequest is a single synthesis call.
type SpeakRequest struct {
	Text       string
	Backend    string
	OutputPath string
	ModelPath  string
	Voice      string
	Profile    string
	Format     string
}

// Result is the normalized outcome of a successful synthesis. The audio file
// and metadata sidecar both exist on disk when a Result is returned.
type Result struct {
	Backend         string   `json:"backend"`
	AudioPath       string   `json:"audio_path"`
	MetaPath        string   `json:"meta_path"`
	Voice           string   `json:"voice_id,omitempty"`
	Profile         string   `json:"profile,omitempty"`
	DurationSeconds *float64 `json:"duration_s,omitempty"`
	SampleRate      int      `json:"sample_rate"`
	Warnings        []string `json:"warnings"`
}

// Engine owns the configuration and the adapter registry. Construct one per
// process (or per test) and pass it by reference; there is no ambient
// instance.
type Engine struct {
	cfg        *config.Config
	registry   *adapter.Registry
	gate       *policy.Gate
	log        *slog.Logger
	attestPath string
}

// New creates an engine, preparing the cache and models directories and
// seeding the attestation file.
func New(cfg *config.Config, registry *adapter.Registry, gate *policy.Gate, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}

	if err := xfs.EnsureDir(cfg.CacheDir); err != nil {
		return nil, err
	}
	if err := xfs.EnsureDir(cfg.ModelsDir); err != nil {
		return nil, err
	}

	attestPath, err := policy.EnsureAttestation(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare attestation file: %w", err)
	}

	log.Info("Engine initialized",
		"version", Version,
		"cache_dir", cfg.CacheDir,
		"models_dir", cfg.ModelsDir)

	return &Engine{
		cfg:        cfg,
		registry:   registry,
		gate:       gate,
		log:        log,
		attestPath: attestPath,
	}, nil
}

// Registry exposes the adapter registry for read-only inspection.
func (e *Engine) Registry() *adapter.Registry {
	return e.registry
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Synthesize runs the full pipeline and returns a normalized result. Every
// failure is classified per the voxerr taxonomy.
func (e *Engine) Synthesize(ctx context.Context, req SpeakRequest) (*Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, voxerr.InvalidInput("text must not be empty")
	}

	format := strings.ToLower(req.Format)
	if format == "" {
		format = "wav"
	}
	if !supportedFormats[format] {
		return nil, voxerr.InvalidInput("unsupported output format %q (supported: wav)", format)
	}

	profile, err := normalizeProfile(req.Profile)
	if err != nil {
		return nil, err
	}

	backend := req.Backend
	if backend == "" {
		backend = e.cfg.DefaultBackend
	}

	// The gate runs before any adapter or filesystem work.
	decision := e.gate.Evaluate(policy.Request{
		Text:     text,
		Backend:  backend,
		Voice:    req.Voice,
		Attested: policy.IsAttested(e.attestPath),
	})
	if !decision.Allowed {
		return nil, voxerr.PolicyDenied(decision.Reason)
	}

	adp, err := e.registry.Resolve(backend)
	if err != nil {
		return nil, err
	}

	outPath := e.resolveOutputPath(req.OutputPath, format)

	modelPath := req.ModelPath
	if modelPath == "" && adapter.RequiresModel(adp) {
		modelPath, err = e.autoSelectModel(backend)
		if err != nil {
			return nil, err
		}
	}

	audio, err := adp.Speak(ctx, adapter.Request{
		Text:       text,
		OutputPath: outPath,
		ModelPath:  modelPath,
		Voice:      req.Voice,
		Profile:    profile,
		Format:     format,
	})
	if err != nil {
		return nil, translate(err)
	}

	metaPath := metadataPath(audio.Path)
	meta := newMetadata(text, backend, req.Voice, profile, audio, metaPath)
	if err := writeMetadata(metaPath, meta); err != nil {
		// Roll back the audio file so a success never leaves an orphan.
		if rmErr := os.Remove(audio.Path); rmErr != nil {
			e.log.Warn("Failed to remove audio after metadata write failure",
				"audio_path", audio.Path, "error", rmErr)
		}
		return nil, voxerr.Internal("failed to write metadata sidecar", err)
	}

	warnings := audio.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	e.log.Info("Synthesis complete",
		"backend", backend,
		"audio_path", audio.Path,
		"sample_rate", audio.SampleRate)

	return &Result{
		Backend:         backend,
		AudioPath:       audio.Path,
		MetaPath:        metaPath,
		Voice:           req.Voice,
		Profile:         profile,
		DurationSeconds: audio.DurationSeconds,
		SampleRate:      audio.SampleRate,
		Warnings:        warnings,
	}, nil
}

// resolveOutputPath picks the audio destination. Without a caller-supplied
// path a random unique token under the cache directory avoids collisions
// between concurrent writers.
func (e *Engine) resolveOutputPath(outPath, format string) string {
	if outPath == "" {
		return filepath.Join(e.cfg.CacheDir, fmt.Sprintf("tts-%s.%s", uuid.NewString(), format))
	}

	ext := filepath.Ext(outPath)
	return strings.TrimSuffix(outPath, ext) + "." + format
}

// autoSelectModel scans the models directory for model-driven backends.
// Exactly one discovered model is auto-selected; zero or several refuse.
func (e *Engine) autoSelectModel(backend string) (string, error) {
	models, err := e.DiscoverModels()
	if err != nil {
		return "", err
	}

	switch len(models) {
	case 0:
		return "", voxerr.MissingDependency(
			"no voice models found in %s. Add one with 'voxengine models add --path /path/to/model.onnx'",
			e.cfg.ModelsDir)
	case 1:
		e.log.Debug("Auto-selected model", "backend", backend, "model", models[0].Path)
		return models[0].Path, nil
	default:
		names := make([]string, len(models))
		for i, m := range models {
			names[i] = m.Name
		}
		return "", voxerr.InvalidInput(
			"multiple voice models found (%s); pass --model to choose one",
			strings.Join(names, ", "))
	}
}

func normalizeProfile(profile string) (string, error) {
	if profile == "" {
		return "", nil
	}

	normalized := strings.ToLower(profile)
	if !supportedProfiles[normalized] {
		return "", voxerr.InvalidInput(
			"unknown profile %q (supported: screenreader, narration, dialogue)", profile)
	}

	return normalized, nil
}

// translate maps adapter failures into the shared taxonomy. Classified
// errors pass through; anything else is internal.
func translate(err error) error {
	var ve *voxerr.Error
	if errors.As(err, &ve) {
		return err
	}

	return voxerr.Internal("synthesis failed", err)
}
