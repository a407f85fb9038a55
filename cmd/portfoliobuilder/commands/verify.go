package commands

import (
	"fmt"

	"git.home.luguber.info/inful/portfoliobuilder/internal/linkverify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	ProjectFlags `embed:""`

	Dir string `short:"d" help:"Site directory to check (default: configured output)" type:"path"`
}

func (v *VerifyCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(v.Root)
	if err != nil {
		return err
	}
	dir := v.Dir
	if dir == "" {
		dir = cfg.OutputDir()
	}

	report, err := linkverify.VerifySite(dir)
	if err != nil {
		return err
	}
	out := g.stdout()
	for _, issue := range report.Issues {
		_, _ = fmt.Fprintf(out, "[links] %s\n", issue.String())
	}
	_, _ = fmt.Fprintf(out, "Checked %d links on %d pages, %d issue(s)\n", report.Checked, report.Pages, len(report.Issues))
	return report.Err()
}
