// Package storage provides atomic file operations for JSON data in ~/.ghm/
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppDir returns the path to ~/.ghm/, creating it if needed
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".ghm")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return dir, nil
}

// SaveJSON atomically writes data as JSON to the specified path.
func SaveJSON(path string, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return SaveBytes(path, jsonData)
}

// SaveBytes atomically writes data to the specified path.
// It ensures the parent directory exists, writes to a temp file,
// then renames to the final path for atomic operation. Callers that
// already hold serialized bytes use this directly instead of paying
// for a second encode.
func SaveBytes(path string, data []byte) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}

// LoadJSON reads JSON from the specified path into dest.
// Returns os.ErrNotExist if file doesn't exist (caller should handle).
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}
