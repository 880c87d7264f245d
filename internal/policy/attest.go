package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voxengine/voxengine/internal/xfs"
)

// AttestFile is the attestation file name inside the cache directory.
const AttestFile = "user_attestation.json"

type attestation struct {
	Attested bool   `json:"attested"`
	Notes    string `json:"notes"`
}

// EnsureAttestation seeds the attestation file in cacheDir if it does not
// exist and returns its path.
func EnsureAttestation(cacheDir string) (string, error) {
	if err := xfs.EnsureDir(cacheDir); err != nil {
		return "", err
	}

	path := filepath.Join(cacheDir, AttestFile)
	if xfs.FileExists(path) {
		return path, nil
	}

	doc := attestation{
		Attested: false,
		Notes:    "Set attested=true after showing the user the local-use responsibility notice.",
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal attestation: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write attestation file: %w", err)
	}

	return path, nil
}

// IsAttested reads the attested flag. A missing or unreadable file counts
// as not attested.
func IsAttested(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var doc attestation
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}

	return doc.Attested
}

// SetAttested rewrites the attestation file with the given flag.
func SetAttested(path string, value bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read attestation file: %w", err)
	}

	var doc attestation
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid attestation file: %w", err)
	}

	doc.Attested = value

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal attestation: %w", err)
	}

	return os.WriteFile(path, out, 0o644)
}
