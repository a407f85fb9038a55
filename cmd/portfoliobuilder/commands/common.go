package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
)

// Global context passed to subcommands. A nil Stdout falls back to the
// process stdout.
type Global struct {
	Stdout io.Writer
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: <root>/portfolio.yaml if present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"withargs" help:"Build the static site (default command)"`
	Watch   WatchCmd   `cmd:"" help:"Build, then rebuild whenever templates, content or assets change"`
	Init    InitCmd    `cmd:"" help:"Create a starter project with templates, sample content and portfolio.yaml"`
	History HistoryCmd `cmd:"" help:"Show recent builds"`
	Verify  VerifyCmd  `cmd:"" help:"Check links in an already built site"`

	logOut io.Writer
}

// ProjectFlags locates the project every relative path is resolved against.
type ProjectFlags struct {
	Root string `short:"r" help:"Project root directory" default:"." type:"path"`
}

// AfterApply runs after flag parsing; setup logging once. Commands that load
// a configuration reconfigure it from the logging section.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.ResolveLogLevel(config.LogLevelInfo, c.Verbose)
	slog.SetDefault(config.NewLogger(c.logWriter(), level, config.LogFormatText))
	return nil
}

// SetLogOutput redirects log output, which goes to stderr by default.
func (c *CLI) SetLogOutput(w io.Writer) { c.logOut = w }

func (c *CLI) logWriter() io.Writer {
	if c.logOut == nil {
		return os.Stderr
	}
	return c.logOut
}

// loadConfig loads the project configuration and applies its logging section.
func (c *CLI) loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(root, c.Config)
	if err != nil {
		return nil, err
	}
	level := config.ResolveLogLevel(cfg.Logging.Level, c.Verbose)
	slog.SetDefault(config.NewLogger(c.logWriter(), level, config.NormalizeLogFormat(string(cfg.Logging.Format))))
	return cfg, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// displayPath shows p relative to the project root when it lies inside it.
func displayPath(cfg *config.Config, p string) string {
	rel, err := filepath.Rel(cfg.Root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return "./" + filepath.ToSlash(rel)
}
