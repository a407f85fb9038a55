package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/portfoliobuilder/cmd/portfoliobuilder/commands"
	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("portfoliobuilder"),
		kong.Description("Build a static portfolio site from JSON content and HTML templates."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := ctx.Run(&commands.Global{}); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
