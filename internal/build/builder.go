package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
	"git.home.luguber.info/inful/portfoliobuilder/internal/content"
	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/git"
	"git.home.luguber.info/inful/portfoliobuilder/internal/history"
	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
	"git.home.luguber.info/inful/portfoliobuilder/internal/metrics"
	"git.home.luguber.info/inful/portfoliobuilder/internal/observability"
)

// HistoryRecorder persists finished builds.
type HistoryRecorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Builder runs builds for one configuration. A Builder is not safe for
// concurrent use; callers serialize builds.
type Builder struct {
	cfg      *config.Config
	version  string
	recorder metrics.Recorder
	history  HistoryRecorder
	newID    func() string
	now      func() time.Time
}

// New returns a Builder for cfg with metrics and history disabled.
func New(cfg *config.Config) *Builder {
	return &Builder{
		cfg:      cfg,
		version:  "dev",
		recorder: metrics.NoopRecorder{},
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	return b
}

// WithHistory records every finished build in h.
func (b *Builder) WithHistory(h HistoryRecorder) *Builder {
	b.history = h
	return b
}

// WithVersion sets the tool version written to the manifest.
func (b *Builder) WithVersion(v string) *Builder {
	b.version = v
	return b
}

// State carries mutable state across stages.
type State struct {
	Config      *config.Config
	Report      *Report
	Collections *content.Collections
	Head        git.HeadInfo

	version  string
	recorder metrics.Recorder
	now      func() time.Time
}

// Stages returns the stage list for the configuration.
func (b *Builder) Stages() []StageDef {
	return []StageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageLoadContent, stageLoadContent},
		{StageRenderPages, stageRenderPages},
		{StageNotFoundPage, stageNotFoundPage},
		{StageVerifyLinks, stageVerifyLinks},
		{StageWriteManifest, stageWriteManifest},
	}
}

// Run executes one build. The report is returned also when the build
// fails; err is the fatal stage error.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	if b.cfg == nil {
		return nil, errors.ConfigError("config required").Build()
	}
	// Callers may adjust a loaded config; check it again before anything is wiped.
	if err := config.Validate(b.cfg); err != nil {
		return nil, err
	}

	report := newReport(b.newID(), b.now())
	ctx = observability.WithBuildID(ctx, report.BuildID)
	observability.InfoContext(ctx, "Starting build",
		logfields.Path(b.cfg.Root),
		slog.String("output", b.cfg.OutputDir()))

	bs := &State{
		Config:   b.cfg,
		Report:   report,
		version:  b.version,
		recorder: b.recorder,
		now:      b.now,
	}

	err := runStages(ctx, bs, b.Stages())
	report.End = b.now()
	report.deriveOutcome()

	b.observe(report)
	b.recordHistory(ctx, report, err)

	if err != nil {
		observability.ErrorContext(ctx, "Build failed",
			logfields.Duration(report.Duration()),
			logfields.Error(err))
		return report, err
	}
	observability.InfoContext(ctx, "Build finished",
		slog.String("outcome", string(report.Outcome)),
		logfields.Duration(report.Duration()))
	return report, nil
}

func (b *Builder) observe(r *Report) {
	b.recorder.ObserveBuildDuration(r.Duration())
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(r.Outcome))
	for name, kind := range r.StageErrorKinds {
		b.recorder.IncStageResult(string(name), resultLabel(kind))
	}
	for name := range r.StageDurations {
		if _, failed := r.StageErrorKinds[name]; !failed {
			b.recorder.IncStageResult(string(name), metrics.ResultSuccess)
		}
	}

	warnings := make(map[string]int, len(r.Content))
	for _, c := range r.Content {
		b.recorder.SetRecordsLoaded(c.Type, len(c.Records))
		warnings[c.Type] = 0
	}
	for _, w := range r.ContentWarnings {
		warnings[w.ContentType]++
	}
	for ct, n := range warnings {
		b.recorder.AddContentWarnings(ct, n)
	}
	b.recorder.SetPagesRendered(len(r.Pages))
	b.recorder.SetLinkIssues(r.LinkIssues())
}

func resultLabel(kind StageErrorKind) metrics.ResultLabel {
	switch kind {
	case StageErrorWarning:
		return metrics.ResultWarning
	case StageErrorCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFatal
	}
}

func (b *Builder) recordHistory(ctx context.Context, r *Report, buildErr error) {
	if b.history == nil {
		return
	}
	e := history.Entry{
		BuildID:    r.BuildID,
		StartedAt:  r.Start,
		Duration:   r.Duration(),
		Outcome:    string(r.Outcome),
		Pages:      len(r.Pages),
		Records:    r.Records(),
		Warnings:   len(r.ContentWarnings),
		LinkIssues: r.LinkIssues(),
		Commit:     r.Commit,
	}
	if buildErr != nil {
		e.Error = buildErr.Error()
	}
	// History must not fail a build, and a canceled ctx must not lose the entry.
	if err := b.history.Record(context.WithoutCancel(ctx), e); err != nil {
		observability.WarnContext(ctx, "Failed to record build history", logfields.Error(err))
	}
}
