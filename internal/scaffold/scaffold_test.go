package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
)

func TestFiles(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)
	assert.Contains(t, files, "app/templates/base.html")
	assert.Contains(t, files, "app/static/css/site.css")
	assert.Contains(t, files, "data/projects/example-project.json")
	for _, page := range config.Default().Pages {
		assert.Contains(t, files, "app/templates/"+page.Template)
	}
}

func TestWrite(t *testing.T) {
	root := t.TempDir()

	written, err := Write(root, false)
	require.NoError(t, err)
	assert.Contains(t, written, config.DefaultFileName)
	assert.FileExists(t, filepath.Join(root, "app", "templates", "home.html"))

	cfg, err := config.Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, config.Default().Pages, cfg.Pages)
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	css := filepath.Join(root, "app", "static", "css", "site.css")
	require.NoError(t, os.MkdirAll(filepath.Dir(css), 0o755))
	require.NoError(t, os.WriteFile(css, []byte("mine"), 0o644))

	_, err := Write(root, false)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(root, "app", "templates", "home.html"))

	data, err := os.ReadFile(css)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))

	_, err = Write(root, true)
	require.NoError(t, err)
	data, err = os.ReadFile(css)
	require.NoError(t, err)
	assert.NotEqual(t, "mine", string(data))
}
