package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
	"git.home.luguber.info/inful/portfoliobuilder/internal/history"
)

// runCLI parses args like the real binary and runs the selected command,
// returning everything printed to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	cli.SetLogOutput(io.Discard)
	parser, err := kong.New(cli,
		kong.Name("portfoliobuilder"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Stdout: &out})
	return out.String(), err
}

func initProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	out, err := runCLI(t, "init", "--root", root)
	require.NoError(t, err)
	require.Contains(t, out, "Initialized successfully")
	return root
}

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func TestInit_WritesStarterProject(t *testing.T) {
	root := t.TempDir()
	out, err := runCLI(t, "init", "--root", root)
	require.NoError(t, err)

	assert.Contains(t, out, "  + "+config.DefaultFileName)
	assert.FileExists(t, filepath.Join(root, config.DefaultFileName))
	assert.FileExists(t, filepath.Join(root, "app", "templates", "home.html"))
	assert.FileExists(t, filepath.Join(root, "data", "projects", "example-project.json"))
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	root := initProject(t)

	out, err := runCLI(t, "init", "--root", root)
	require.Error(t, err)
	assert.Contains(t, out, "Initialization failed")

	_, err = runCLI(t, "init", "--root", root, "--force")
	require.NoError(t, err)
}

func TestBuild_ConsoleSummary(t *testing.T) {
	root := initProject(t)

	out, err := runCLI(t, "build", "--root", root)
	require.NoError(t, err)

	assert.Contains(t, out, "[build] loaded 1 projects record(s)")
	assert.Contains(t, out, "  - Example Project (data/projects/example-project.json)")
	assert.Contains(t, out, "[build] loaded 1 education record(s)")
	assert.Contains(t, out, "Built static site to ./docs")
	assert.NotContains(t, out, "[warn]")

	assert.FileExists(t, filepath.Join(root, "docs", "index.html"))
	assert.FileExists(t, filepath.Join(root, "docs", "404.html"))
	assert.FileExists(t, filepath.Join(root, config.DefaultStateDir, history.FileName))
}

func TestBuild_MalformedContentWarns(t *testing.T) {
	root := initProject(t)
	writeFile(t, root, "data/projects/broken.json", `{"title": `)

	out, err := runCLI(t, "build", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "[warn] skipping data/projects/broken.json")
	assert.Contains(t, out, "[build] loaded 1 projects record(s)")
	assert.Contains(t, out, "Built static site to")
}

func TestBuild_MissingTemplateFails(t *testing.T) {
	root := initProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "app", "templates", "projects.html")))

	out, err := runCLI(t, "build", "--root", root)
	require.Error(t, err)
	assert.NotContains(t, out, "Built static site to")
}

func TestBuild_StrictLinks(t *testing.T) {
	root := initProject(t)
	writeFile(t, root, "app/templates/contact.html",
		`{{ template "base.html" . }}{{ define "content" }}<a href="{{ url_for "pages.blog" }}">Blog</a>{{ end }}`)

	out, err := runCLI(t, "build", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "[links] ")

	_, err = runCLI(t, "build", "--root", root, "--strict-links")
	require.Error(t, err)
}

func TestBuild_NoHistory(t *testing.T) {
	root := initProject(t)

	_, err := runCLI(t, "build", "--root", root, "--no-history")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(root, config.DefaultStateDir, history.FileName))
}

func TestBuild_MetricsFile(t *testing.T) {
	root := initProject(t)
	metricsPath := filepath.Join(t.TempDir(), "portfolio.prom")

	_, err := runCLI(t, "build", "--root", root, "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "portfoliobuilder_build_duration_seconds")
	assert.Contains(t, string(data), `portfoliobuilder_content_records{content_type="projects"} 1`)
}

func TestBuild_ExplicitConfigMustExist(t *testing.T) {
	root := initProject(t)

	_, err := runCLI(t, "--config", "missing.yaml", "build", "--root", root)
	require.Error(t, err)
}

func TestHistory(t *testing.T) {
	root := initProject(t)

	out, err := runCLI(t, "history", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "No builds recorded")

	for range 2 {
		_, err = runCLI(t, "build", "--root", root)
		require.NoError(t, err)
	}

	out, err = runCLI(t, "history", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "education=1 projects=1")
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("success")))

	out, err = runCLI(t, "history", "--root", root, "-n", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("success")))
}

func TestVerify(t *testing.T) {
	root := initProject(t)
	_, err := runCLI(t, "build", "--root", root)
	require.NoError(t, err)

	out, err := runCLI(t, "verify", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "0 issue(s)")

	writeFile(t, root, "docs/extra.html", `<a href="missing.html">gone</a>`)
	out, err = runCLI(t, "verify", "--root", root)
	require.Error(t, err)
	assert.Contains(t, out, "[links] ")
	assert.Contains(t, out, "1 issue(s)")
}

func TestVerify_MissingOutput(t *testing.T) {
	root := initProject(t)
	_, err := runCLI(t, "verify", "--root", root)
	require.Error(t, err)
}

func TestWatchOptions(t *testing.T) {
	root := initProject(t)
	cfg, err := config.Load(root, "")
	require.NoError(t, err)

	opts := WatchOptions(cfg, time.Minute)
	assert.Contains(t, opts.Dirs, cfg.TemplateDir())
	assert.Contains(t, opts.Dirs, filepath.Join(root, "data", "projects"))
	assert.Contains(t, opts.Dirs, filepath.Join(root, "app", "static"))
	assert.ElementsMatch(t, []string{cfg.OutputDir(), cfg.StateDir()}, opts.Exclude)
	assert.Equal(t, time.Minute, opts.Interval)
}

func TestDisplayPath(t *testing.T) {
	cfg := &config.Config{Root: "/srv/site"}
	assert.Equal(t, "./docs", displayPath(cfg, "/srv/site/docs"))
	assert.Equal(t, "/tmp/out", displayPath(cfg, "/tmp/out"))
}
