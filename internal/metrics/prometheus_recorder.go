package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfoliobuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	stageResults    *prom.CounterVec
	buildOutcome    *prom.CounterVec
	recordsLoaded   *prom.GaugeVec
	contentWarnings *prom.CounterVec
	pagesRendered   prom.Gauge
	linkIssues      prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		recordsLoaded: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "content_records",
			Help:      "Records loaded by content type in the last build",
		}, []string{"content_type"}),
		contentWarnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "content_warnings_total",
			Help:      "Content files skipped or loaded with a warning",
		}, []string{"content_type"}),
		pagesRendered: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_rendered",
			Help:      "Pages written by the last build",
		}),
		linkIssues: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "link_issues",
			Help:      "Broken or empty links found by the last build",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.recordsLoaded, pr.contentWarnings, pr.pagesRendered, pr.linkIssues)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetRecordsLoaded(contentType string, n int) {
	if p == nil {
		return
	}
	p.recordsLoaded.WithLabelValues(contentType).Set(float64(n))
}

func (p *PrometheusRecorder) AddContentWarnings(contentType string, n int) {
	if p == nil {
		return
	}
	// Touch the series so zero counts are exported too.
	p.contentWarnings.WithLabelValues(contentType).Add(float64(n))
}

func (p *PrometheusRecorder) SetPagesRendered(n int) {
	if p == nil {
		return
	}
	p.pagesRendered.Set(float64(n))
}

func (p *PrometheusRecorder) SetLinkIssues(n int) {
	if p == nil {
		return
	}
	p.linkIssues.Set(float64(n))
}
