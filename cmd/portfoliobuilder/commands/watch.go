package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
	"git.home.luguber.info/inful/portfoliobuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	ProjectFlags `embed:""`

	Interval    time.Duration `help:"Also rebuild on this interval (0 disables)" default:"0s"`
	StrictLinks bool          `name:"strict-links" help:"Treat broken links as build failures"`
	NoHistory   bool          `name:"no-history" help:"Do not record builds in the history database"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(w.Root)
	if err != nil {
		return err
	}
	(&BuildCmd{StrictLinks: w.StrictLinks, NoHistory: w.NoHistory}).apply(cfg)

	ctx, stop := signalContext()
	defer stop()

	out := g.stdout()
	slog.Info("Watching project", slog.String("root", cfg.Root), slog.Duration("interval", w.Interval))
	return watch.Run(ctx, WatchOptions(cfg, w.Interval), func(ctx context.Context, _ watch.Reason) error {
		_, err := RunBuild(ctx, cfg, BuildOptions{}, out)
		return err
	})
}

// WatchOptions watches every input directory of cfg and excludes the
// directories a build writes to.
func WatchOptions(cfg *config.Config, interval time.Duration) watch.Options {
	dirs := []string{cfg.TemplateDir()}
	for _, ct := range cfg.Content {
		dirs = append(dirs, cfg.AbsAll(ct.Roots)...)
	}
	dirs = append(dirs, cfg.AbsAll(cfg.Paths.Static)...)
	dirs = append(dirs, cfg.AbsAll(cfg.Paths.Data)...)
	return watch.Options{
		Dirs:     dirs,
		Exclude:  []string{cfg.OutputDir(), cfg.StateDir()},
		Debounce: watch.DefaultDebounce,
		Interval: interval,
	}
}
