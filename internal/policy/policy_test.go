package policy

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateAllowsAllRequests(t *testing.T) {
	gate := NewGate()

	decision := gate.Evaluate(Request{
		Text:    "hello",
		Backend: "beep",
	})

	assert.True(t, decision.Allowed)
	assert.NotEmpty(t, decision.Reason)
}

func TestGateIsSafeForConcurrentUse(t *testing.T) {
	gate := NewGate()

	done := make(chan struct{})
	for range 10 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				gate.Evaluate(Request{Text: "x", Backend: "beep"})
			}
		}()
	}
	for range 10 {
		<-done
	}
}

func TestEnsureAttestationSeedsFile(t *testing.T) {
	cacheDir := t.TempDir()

	path, err := EnsureAttestation(cacheDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheDir, AttestFile), path)
	assert.False(t, IsAttested(path))

	// Idempotent: a second call leaves the file alone.
	again, err := EnsureAttestation(cacheDir)
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestSetAttestedRoundTrip(t *testing.T) {
	path, err := EnsureAttestation(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, SetAttested(path, true))
	assert.True(t, IsAttested(path))

	require.NoError(t, SetAttested(path, false))
	assert.False(t, IsAttested(path))
}

func TestIsAttestedMissingFile(t *testing.T) {
	assert.False(t, IsAttested(filepath.Join(t.TempDir(), "missing.json")))
}
