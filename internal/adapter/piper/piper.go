// Package piper wraps the piper TTS executable as a synthesis backend.
package piper

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/voxengine/voxengine/internal/adapter"
	"github.com/voxengine/voxengine/internal/voxerr"
)

// Name is the registry key for this backend.
const Name = "piper"

// Adapter runs the piper binary for each synthesis call.
type Adapter struct {
	binaryPath string
	lookupErr  error
	timeout    time.Duration
	runner     adapter.CommandRunner
}

// Options configure the piper adapter.
type Options struct {
	// BinaryName is the executable looked up on PATH. Defaults to "piper".
	BinaryName string

	// Timeout bounds a single synthesis invocation.
	Timeout time.Duration

	// Runner overrides the command runner (tests).
	Runner adapter.CommandRunner
}

// New creates the piper adapter. Construction succeeds even when the binary
// is absent; the descriptor reports availability and Speak fails with an
// actionable error.
func New(opts Options) *Adapter {
	name := opts.BinaryName
	if name == "" {
		name = "piper"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	var runner adapter.CommandRunner = adapter.ExecCommandRunner{}
	if opts.Runner != nil {
		runner = opts.Runner
	}

	path, err := exec.LookPath(name)
	return &Adapter{
		binaryPath: path,
		lookupErr:  err,
		timeout:    timeout,
		runner:     runner,
	}
}

// Describe returns the backend self-report.
func (a *Adapter) Describe() adapter.Descriptor {
	found := a.lookupErr == nil
	notes := "Local neural TTS via the piper executable."
	if !found {
		notes = "Install piper and ensure it is on PATH."
	}

	return adapter.Descriptor{
		Name:            Name,
		Kind:            adapter.KindTTS,
		Offline:         true,
		NeedsExecutable: true,
		ExecutableFound: found,
		Available:       found,
		Notes:           notes,
	}
}

// RequiresModel reports that piper always needs a voice model file.
func (a *Adapter) RequiresModel() bool {
	return true
}

// Speak synthesizes req.Text by piping it to the piper binary.
func (a *Adapter) Speak(ctx context.Context, req adapter.Request) (*adapter.Audio, error) {
	if req.Format != "wav" {
		return nil, voxerr.InvalidInput("piper backend only supports wav output")
	}
	if a.lookupErr != nil {
		return nil, voxerr.MissingDependency(
			"piper executable not found on PATH. Install piper or choose another backend")
	}
	if req.ModelPath == "" {
		return nil, voxerr.InvalidInput("piper requires a voice model (.onnx)")
	}

	executor := adapter.NewExecutorWithRunner(a.binaryPath, a.timeout, a.runner)
	args := a.buildArgs(req)

	_, stderr, err := executor.Execute(ctx, args, strings.NewReader(req.Text))
	if err != nil {
		return nil, fmt.Errorf("piper execution failed: %w\nstderr: %s", err, stderr)
	}

	info, err := readWAVInfo(req.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("piper produced an unreadable output file: %w", err)
	}

	return &adapter.Audio{
		Path:            req.OutputPath,
		SampleRate:      info.sampleRate,
		DurationSeconds: info.duration,
		Warnings:        nil,
	}, nil
}

// buildArgs builds the piper command line.
func (a *Adapter) buildArgs(req adapter.Request) []string {
	args := []string{
		"--model", req.ModelPath,
		"--output_file", req.OutputPath,
	}

	if req.Voice != "" {
		args = append(args, "--speaker", req.Voice)
	}

	return args
}
