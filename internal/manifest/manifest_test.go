package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *BuildManifest {
	return &BuildManifest{
		ID:        "build-123",
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Version:   "dev",
		Inputs: Inputs{
			Content: []ContentInput{
				{Type: "projects", Records: 2, Hash: "aaa"},
				{Type: "education", Records: 1, Hash: "bbb"},
			},
			ConfigHash: "config-hash-123",
			Git:        &GitInput{Commit: "abc123", Branch: "main"},
		},
		Outputs: Outputs{
			Directory: "docs",
			Pages: []PageOutput{
				{Template: "home.html", Output: "index.html", Size: 10, SHA256: "ccc"},
			},
			NotFound: "404.html",
		},
		Status:   "success",
		Duration: 5000,
	}
}

func TestManifestSerialization(t *testing.T) {
	m := sample()

	jsonData, err := m.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	restored, err := FromJSON(jsonData)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if restored.ID != m.ID {
		t.Errorf("expected ID %s, got %s", m.ID, restored.ID)
	}
	if len(restored.Inputs.Content) != 2 {
		t.Errorf("expected 2 content inputs, got %d", len(restored.Inputs.Content))
	}
	if restored.Inputs.Git == nil || restored.Inputs.Git.Commit != "abc123" {
		t.Errorf("git input not restored: %+v", restored.Inputs.Git)
	}
}

func TestInputHash(t *testing.T) {
	a := sample()
	b := sample()
	b.ID = "another-build"
	b.Timestamp = time.Now()
	b.Duration = 1

	ha, err := a.InputHash()
	require.NoError(t, err)
	hb, err := b.InputHash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb, "identity and timing do not affect the input hash")

	b.Inputs.Content[0].Hash = "changed"
	hb, err = b.InputHash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(dir, sample())
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.NoFileExists(t, path+".tmp")

	got, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "build-123", got.ID)
	assert.Equal(t, "404.html", got.Outputs.NotFound)

	_, err = Read(t.TempDir())
	assert.Error(t, err)
}
