package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/voxengine/voxengine/internal/voxerr"
	"github.com/voxengine/voxengine/internal/xfs"
)

// VoiceRef is a registered cast voice: an actor name bound to a reference
// recording, stored as one JSON file per voice under cast/.
type VoiceRef struct {
	VoiceID      string            `json:"voice_id"`
	ActorName    string            `json:"actor_name"`
	ReferenceWAV string            `json:"reference_wav"`
	Consent      map[string]string `json:"consent,omitempty"`
	CreatedAt    string            `json:"created_at"`
}

// CastManager reads and writes cast records for a project.
type CastManager struct{}

// NewCastManager creates a cast manager.
func NewCastManager() *CastManager {
	return &CastManager{}
}

// Register records a new voice for the project and returns its id.
func (m *CastManager) Register(projectPath, actorName, referenceWAV string, consent map[string]string) (string, error) {
	if err := Validate(projectPath); err != nil {
		return "", err
	}
	if actorName == "" {
		return "", voxerr.InvalidInput("actor name must not be empty")
	}
	if !xfs.FileExists(referenceWAV) {
		return "", voxerr.InvalidInput("reference recording not found: %s", referenceWAV)
	}

	ref := VoiceRef{
		VoiceID:      uuid.NewString(),
		ActorName:    actorName,
		ReferenceWAV: referenceWAV,
		Consent:      consent,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(ref, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal voice record: %w", err)
	}

	path := m.voicePath(projectPath, ref.VoiceID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", voxerr.Internal("failed to write voice record", err)
	}

	return ref.VoiceID, nil
}

// LoadVoiceRef loads a registered voice by id.
func (m *CastManager) LoadVoiceRef(projectPath, voiceID string) (*VoiceRef, error) {
	data, err := os.ReadFile(m.voicePath(projectPath, voiceID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, voxerr.InvalidInput("unknown voice %q in project %s", voiceID, projectPath)
		}
		return nil, voxerr.Internal("failed to read voice record", err)
	}

	var ref VoiceRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, voxerr.Internal("invalid voice record", err)
	}

	return &ref, nil
}

func (m *CastManager) voicePath(projectPath, voiceID string) string {
	return filepath.Join(projectPath, "cast", voiceID+".json")
}
