package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/portfoliobuilder/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	ProjectFlags `embed:""`

	Limit int `short:"n" help:"Number of builds to show" default:"10"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(h.Root)
	if err != nil {
		return err
	}
	out := g.stdout()

	path := filepath.Join(cfg.StateDir(), history.FileName)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		_, _ = fmt.Fprintln(out, "No builds recorded")
		return nil
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tOUTCOME\tDURATION\tPAGES\tRECORDS\tWARNINGS\tLINKS\tCOMMIT\tBUILD")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%d\t%s\t%s\n",
			e.StartedAt.Local().Format(time.DateTime),
			e.Outcome,
			e.Duration.Truncate(time.Millisecond),
			e.Pages,
			formatRecords(e.Records),
			e.Warnings,
			e.LinkIssues,
			shortCommit(e.Commit),
			e.BuildID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, e := range entries {
		if e.Error != "" {
			_, _ = fmt.Fprintf(out, "%s: %s\n", e.BuildID, e.Error)
		}
	}
	return nil
}

func formatRecords(records map[string]int) string {
	if len(records) == 0 {
		return "-"
	}
	types := make([]string, 0, len(records))
	for t := range records {
		types = append(types, t)
	}
	sort.Strings(types)
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s=%d", t, records[t]))
	}
	return strings.Join(parts, " ")
}

func shortCommit(c string) string {
	if c == "" {
		return "-"
	}
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
