package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/voxengine/voxengine/internal/adapter"
)

// Metadata is the JSON sidecar persisted next to each audio file. Written
// once per successful synthesis; never updated.
type Metadata struct {
	EngineVersion   string   `json:"engine_version"`
	CreatedAt       string   `json:"created_at"`
	Text            string   `json:"text"`
	Backend         string   `json:"backend"`
	Voice           string   `json:"voice,omitempty"`
	Profile         string   `json:"profile,omitempty"`
	AudioPath       string   `json:"audio_path"`
	MetaPath        string   `json:"meta_path"`
	DurationSeconds *float64 `json:"duration_s,omitempty"`
	SampleRate      int      `json:"sample_rate"`
	Warnings        []string `json:"warnings"`
}

// metadataPath derives the sidecar path: adjacent file, same stem, .json.
func metadataPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return strings.TrimSuffix(audioPath, ext) + ".json"
}

func newMetadata(text, backend, voice, profile string, audio *adapter.Audio, metaPath string) *Metadata {
	warnings := audio.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &Metadata{
		EngineVersion:   Version,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		Text:            text,
		Backend:         backend,
		Voice:           voice,
		Profile:         profile,
		AudioPath:       audio.Path,
		MetaPath:        metaPath,
		DurationSeconds: audio.DurationSeconds,
		SampleRate:      audio.SampleRate,
		Warnings:        warnings,
	}
}

func writeMetadata(path string, meta *Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// ReadMetadata loads a metadata sidecar from disk.
func ReadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("invalid metadata file: %w", err)
	}

	return &meta, nil
}
