// Package beep is a minimal always-available TTS backend that writes a short
// tone. It is the smoke-test path for the synthesis pipeline: no external
// process, no model.
package beep

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/voxengine/voxengine/internal/adapter"
	"github.com/voxengine/voxengine/internal/voxerr"
)

// Name is the registry key for this backend.
const Name = "beep"

// Adapter generates a simple WAV tone for validation.
type Adapter struct {
	freqHz     float64
	durationS  float64
	sampleRate int
}

// New creates the tone generator with its default parameters
// (440 Hz, 0.5 s, 16 kHz).
func New() *Adapter {
	return &Adapter{
		freqHz:     440.0,
		durationS:  0.5,
		sampleRate: 16000,
	}
}

// Describe returns the backend self-report. Beep is always available.
func (a *Adapter) Describe() adapter.Descriptor {
	return adapter.Descriptor{
		Name:            Name,
		Kind:            adapter.KindTTS,
		Offline:         true,
		NeedsExecutable: false,
		ExecutableFound: true,
		Available:       true,
		Notes:           "Built-in tone generator for smoke tests.",
	}
}

// Speak writes a fixed-length tone to req.OutputPath. The text is ignored
// beyond validation, which the engine has already performed.
func (a *Adapter) Speak(_ context.Context, req adapter.Request) (*adapter.Audio, error) {
	if req.Format != "wav" {
		return nil, voxerr.InvalidInput("beep backend only supports wav output")
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := a.writeTone(req.OutputPath); err != nil {
		return nil, fmt.Errorf("failed to write tone: %w", err)
	}

	var warnings []string
	if req.Voice != "" {
		warnings = append(warnings, fmt.Sprintf("beep backend ignores voice %q", req.Voice))
	}

	duration := a.durationS
	return &adapter.Audio{
		Path:            req.OutputPath,
		SampleRate:      a.sampleRate,
		DurationSeconds: &duration,
		Warnings:        warnings,
	}, nil
}

func (a *Adapter) writeTone(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	numSamples := int(a.durationS * float64(a.sampleRate))
	w := bufio.NewWriter(f)

	if err := writeWAVHeader(w, numSamples*2, a.sampleRate); err != nil {
		return err
	}

	const amplitude = 32767
	for i := range numSamples {
		sample := int16(amplitude * math.Sin(2*math.Pi*a.freqHz*float64(i)/float64(a.sampleRate)))
		if err := binary.Write(w, binary.LittleEndian, sample); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	return f.Sync()
}

// writeWAVHeader writes a minimal 44-byte WAV header for 16-bit mono PCM.
func writeWAVHeader(w io.Writer, dataSize, sampleRate int) error {
	totalSize := 36 + dataSize

	// RIFF header
	if _, err := w.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(totalSize)); err != nil {
		return err
	}
	if _, err := w.Write([]byte("WAVE")); err != nil {
		return err
	}

	// fmt sub-chunk
	if _, err := w.Write([]byte("fmt ")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(16)); err != nil { // sub-chunk size
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(1)); err != nil { // PCM format
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(1)); err != nil { // mono
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(sampleRate)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(sampleRate*2)); err != nil { // byte rate
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(2)); err != nil { // block align
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(16)); err != nil { // bits per sample
		return err
	}

	// data sub-chunk
	if _, err := w.Write([]byte("data")); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint32(dataSize))
}
