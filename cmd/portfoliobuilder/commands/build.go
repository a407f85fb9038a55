package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/portfoliobuilder/internal/build"
	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
	"git.home.luguber.info/inful/portfoliobuilder/internal/history"
	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
	"git.home.luguber.info/inful/portfoliobuilder/internal/metrics"
	"git.home.luguber.info/inful/portfoliobuilder/internal/version"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	ProjectFlags `embed:""`

	StrictLinks bool   `name:"strict-links" help:"Fail the build on broken links instead of warning"`
	NoHistory   bool   `name:"no-history" help:"Do not record the build in the history database"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(b.Root)
	if err != nil {
		return err
	}
	b.apply(cfg)

	ctx, stop := signalContext()
	defer stop()

	_, err = RunBuild(ctx, cfg, BuildOptions{MetricsFile: b.MetricsFile}, g.stdout())
	return err
}

func (b *BuildCmd) apply(cfg *config.Config) {
	if b.StrictLinks {
		cfg.Links.Verify = true
		cfg.Links.Strict = true
	}
	if b.NoHistory {
		cfg.State.History = false
	}
}

// BuildOptions holds per-invocation settings that are not part of the configuration.
type BuildOptions struct {
	MetricsFile string
}

// RunBuild runs one build and prints the console summary to out.
func RunBuild(ctx context.Context, cfg *config.Config, opts BuildOptions, out io.Writer) (*build.Report, error) {
	builder := build.New(cfg).WithVersion(version.Version)

	var reg *prom.Registry
	if opts.MetricsFile != "" {
		reg = prom.NewRegistry()
		builder.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	if cfg.State.History {
		store, err := openHistory(cfg)
		if err != nil {
			slog.Warn("Build history disabled", logfields.Error(err))
		} else {
			defer func() { _ = store.Close() }()
			builder.WithHistory(store)
		}
	}

	report, err := builder.Run(ctx)
	if report != nil {
		printReport(out, report)
	}

	if reg != nil {
		if werr := metrics.WriteTextfile(opts.MetricsFile, reg); werr != nil {
			slog.Warn("Failed to write metrics", logfields.Path(opts.MetricsFile), logfields.Error(werr))
		}
	}

	if err != nil {
		return report, err
	}
	_, _ = fmt.Fprintf(out, "Built static site to %s\n", displayPath(cfg, cfg.OutputDir()))
	return report, nil
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	return history.Open(filepath.Join(cfg.StateDir(), history.FileName))
}

func printReport(out io.Writer, r *build.Report) {
	for _, w := range r.ContentWarnings {
		_, _ = fmt.Fprintf(out, "[warn] %s\n", w.Error())
	}
	for _, c := range r.Content {
		_, _ = fmt.Fprintf(out, "[build] loaded %d %s record(s)\n", len(c.Records), c.Type)
		for _, rec := range c.Records {
			_, _ = fmt.Fprintf(out, "  - %s (%s)\n", rec.Title, rec.File)
		}
	}
	if r.Links != nil {
		for _, issue := range r.Links.Issues {
			_, _ = fmt.Fprintf(out, "[links] %s\n", issue.String())
		}
	}
}
