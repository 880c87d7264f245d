package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxengine/voxengine/internal/voxerr"
)

func TestValidateRejectsMissingProject(t *testing.T) {
	err := Validate(filepath.Join(t.TempDir(), "nope"))

	assert.Equal(t, voxerr.KindInvalidInput, voxerr.KindOf(err))
	assert.Contains(t, err.Error(), "project not found")
}

func TestValidateRejectsIncompleteLayout(t *testing.T) {
	projectPath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectPath, "cast"), 0o755))

	err := Validate(projectPath)

	assert.Equal(t, voxerr.KindInvalidInput, voxerr.KindOf(err))
	assert.Contains(t, err.Error(), "script")
}

func TestValidateRequiresManifest(t *testing.T) {
	projectPath := t.TempDir()
	for _, dir := range []string{"cast", "script", "renders"} {
		require.NoError(t, os.MkdirAll(filepath.Join(projectPath, dir), 0o755))
	}

	err := Validate(projectPath)

	assert.Equal(t, voxerr.KindInvalidInput, voxerr.KindOf(err))
	assert.Contains(t, err.Error(), ManifestFile)
}

func TestScaffoldProducesValidProject(t *testing.T) {
	projectPath := filepath.Join(t.TempDir(), "myproject")

	require.NoError(t, Scaffold(projectPath))
	assert.NoError(t, Validate(projectPath))

	// Scaffolding an existing project leaves the manifest alone.
	manifest := filepath.Join(projectPath, ManifestFile)
	require.NoError(t, os.WriteFile(manifest, []byte(`{"name":"kept"}`), 0o644))
	require.NoError(t, Scaffold(projectPath))

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept")
}

func TestRegisterAndLoadVoice(t *testing.T) {
	projectPath := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, Scaffold(projectPath))

	refWAV := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(refWAV, []byte("RIFF"), 0o644))

	m := NewCastManager()
	voiceID, err := m.Register(projectPath, "Alex Reed", refWAV, map[string]string{
		"signed": "2026-08-01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, voiceID)

	ref, err := m.LoadVoiceRef(projectPath, voiceID)
	require.NoError(t, err)
	assert.Equal(t, voiceID, ref.VoiceID)
	assert.Equal(t, "Alex Reed", ref.ActorName)
	assert.Equal(t, refWAV, ref.ReferenceWAV)
	assert.Equal(t, "2026-08-01", ref.Consent["signed"])
	assert.NotEmpty(t, ref.CreatedAt)
}

func TestRegisterValidation(t *testing.T) {
	projectPath := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, Scaffold(projectPath))

	refWAV := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(refWAV, []byte("RIFF"), 0o644))

	m := NewCastManager()

	_, err := m.Register(filepath.Join(t.TempDir(), "nope"), "Alex", refWAV, nil)
	assert.Equal(t, voxerr.KindInvalidInput, voxerr.KindOf(err))

	_, err = m.Register(projectPath, "", refWAV, nil)
	assert.Equal(t, voxerr.KindInvalidInput, voxerr.KindOf(err))

	_, err = m.Register(projectPath, "Alex", filepath.Join(t.TempDir(), "ghost.wav"), nil)
	assert.Equal(t, voxerr.KindInvalidInput, voxerr.KindOf(err))
}

func TestLoadVoiceRefUnknownID(t *testing.T) {
	projectPath := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, Scaffold(projectPath))

	_, err := NewCastManager().LoadVoiceRef(projectPath, "no-such-voice")

	assert.Equal(t, voxerr.KindInvalidInput, voxerr.KindOf(err))
	assert.Contains(t, err.Error(), "no-such-voice")
}
