package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	ProjectFlags `embed:""`

	Force bool `help:"Overwrite existing files"`
}

func (i *InitCmd) Run(g *Global, _ *CLI) error {
	root, err := filepath.Abs(i.Root)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "resolve project root").
			WithContext("root", i.Root).Build()
	}

	out := g.stdout()
	_, _ = fmt.Fprintf(out, "Initializing portfolio in %s\n", root)
	written, err := scaffold.Write(root, i.Force)
	for _, f := range written {
		_, _ = fmt.Fprintf(out, "  + %s\n", f)
	}
	if err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(out, "Initialized successfully; run 'portfoliobuilder build' to build the site")
	return nil
}
