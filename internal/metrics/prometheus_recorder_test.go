package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_pages", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render_pages", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.SetRecordsLoaded("projects", 3)
	pr.AddContentWarnings("projects", 0)
	pr.SetPagesRendered(4)
	pr.SetLinkIssues(1)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "portfoliobuilder_content_records")
	assert.Contains(t, names, "portfoliobuilder_content_warnings_total")
	assert.Contains(t, names, "portfoliobuilder_pages_rendered")
	assert.Contains(t, names, "portfoliobuilder_build_outcomes_total")
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.SetRecordsLoaded("education", 2)
	pr.SetPagesRendered(4)

	path := filepath.Join(t.TempDir(), "textfile", "portfoliobuilder.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `portfoliobuilder_content_records{content_type="education"} 2`)
	assert.Contains(t, string(data), "portfoliobuilder_pages_rendered 4")
}

func TestNilPrometheusRecorder(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveBuildDuration(time.Second)
		pr.SetPagesRendered(1)
		pr.IncBuildOutcome(BuildOutcomeFailed)
	})
}
