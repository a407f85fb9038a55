// Package manifest records what a build consumed and produced.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
)

// FileName is the manifest file inside the state directory.
const FileName = "manifest.json"

// BuildManifest represents a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Inputs    Inputs    `json:"inputs"`
	Outputs   Outputs   `json:"outputs"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
	Warnings  int       `json:"warnings"`
}

// Inputs captures all inputs to the build.
type Inputs struct {
	Content    []ContentInput `json:"content"`
	ConfigHash string         `json:"config_hash"`
	Git        *GitInput      `json:"git,omitempty"`
}

// ContentInput summarizes one loaded content type.
type ContentInput struct {
	Type    string `json:"type"`
	Records int    `json:"records"`
	Hash    string `json:"hash"`
}

// GitInput is the state of the project repository at build time.
type GitInput struct {
	Commit string `json:"commit"`
	Branch string `json:"branch,omitempty"`
}

// Outputs captures all outputs from the build.
type Outputs struct {
	Directory   string       `json:"directory"`
	Pages       []PageOutput `json:"pages"`
	NotFound    string       `json:"not_found,omitempty"`
	StaticFiles int          `json:"static_files"`
	LinkIssues  int          `json:"link_issues"`
}

// PageOutput is one rendered page.
type PageOutput struct {
	Template string `json:"template"`
	Output   string `json:"output"`
	Size     int    `json:"size"`
	SHA256   string `json:"sha256"`
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// InputHash computes a deterministic hash of the manifest's inputs. Two
// builds with the same input hash render the same output tree.
func (m *BuildManifest) InputHash() (string, error) {
	data, err := json.Marshal(m.Inputs)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Write stores m as stateDir/manifest.json, replacing any previous manifest.
func Write(stateDir string, m *BuildManifest) (string, error) {
	data, err := m.ToJSON()
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "encode manifest").Build()
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "create state directory").
			WithContext("path", stateDir).Build()
	}

	path := filepath.Join(stateDir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "write manifest").
			WithContext("path", tmp).Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", errors.WrapError(err, errors.CategoryFileSystem, "replace manifest").
			WithContext("path", path).Build()
	}
	return path, nil
}

// Read loads stateDir/manifest.json.
func Read(stateDir string) (*BuildManifest, error) {
	path := filepath.Join(stateDir, FileName)
	// #nosec G304 -- path is inside the configured state directory.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read manifest").
			WithContext("path", path).Build()
	}
	return FromJSON(data)
}
