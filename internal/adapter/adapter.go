// Package adapter defines the capability contract for speech-synthesis
// backends and the registry that resolves them by name.
package adapter

import "context"

// KindTTS is the only adapter kind currently supported.
const KindTTS = "tts"

// Descriptor is a backend's self-reported identity and availability.
type Descriptor struct {
	Name            string `json:"name"`
	Kind            string `json:"type"`
	Offline         bool   `json:"offline"`
	NeedsExecutable bool   `json:"needs_executable"`
	ExecutableFound bool   `json:"executable_found"`
	Available       bool   `json:"available"`
	Notes           string `json:"notes"`
}

// Request encapsulates a single synthesis call. The engine validates and
// normalizes fields before the adapter sees them.
type Request struct {
	// Text to synthesize. Never empty.
	Text string

	// OutputPath is the resolved audio destination. The extension already
	// matches Format.
	OutputPath string

	// ModelPath is the voice model file, empty for model-free backends.
	ModelPath string

	// Voice is an optional backend-specific speaker identifier.
	Voice string

	// Profile is the normalized accessibility profile, or empty.
	Profile string

	// Format is the requested audio format (currently always "wav").
	Format string
}

// Audio is the render result returned by an adapter.
type Audio struct {
	Path            string
	SampleRate      int
	DurationSeconds *float64
	Warnings        []string
}

// Adapter is the uniform backend contract.
type Adapter interface {
	// Describe returns the backend's self-report.
	Describe() Descriptor

	// Speak synthesizes req.Text into req.OutputPath.
	Speak(ctx context.Context, req Request) (*Audio, error)
}

// ModelBound is an optional interface for backends that load a voice model
// file. The engine auto-selects a model for these when none is supplied.
type ModelBound interface {
	Adapter

	// RequiresModel reports whether Speak needs a model path.
	RequiresModel() bool
}

// RequiresModel reports whether the adapter needs a model path resolved
// before Speak.
func RequiresModel(a Adapter) bool {
	mb, ok := a.(ModelBound)
	return ok && mb.RequiresModel()
}
