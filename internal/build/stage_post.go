package build

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/portfoliobuilder/internal/linkverify"
	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
	"git.home.luguber.info/inful/portfoliobuilder/internal/manifest"
	"git.home.luguber.info/inful/portfoliobuilder/internal/observability"
)

// stageVerifyLinks checks the rendered site for empty and dangling links.
// Issues are warnings unless links.strict is set.
func stageVerifyLinks(ctx context.Context, bs *State) error {
	if !bs.Config.Links.Verify {
		return nil
	}
	report, err := linkverify.VerifySite(bs.Config.OutputDir())
	if err != nil {
		return newFatalStageError(StageVerifyLinks, fmt.Errorf("%w: %w", ErrLinks, err))
	}
	bs.Report.Links = report

	for _, issue := range report.Issues {
		observability.WarnContext(ctx, "Broken link",
			logfields.Page(issue.Page),
			logfields.URL(issue.Link.URL),
			slog.String("kind", string(issue.Kind)))
	}
	if linkErr := report.Err(); linkErr != nil {
		if bs.Config.Links.Strict {
			return newFatalStageError(StageVerifyLinks, fmt.Errorf("%w: %w", ErrLinks, linkErr))
		}
		return newWarnStageError(StageVerifyLinks, fmt.Errorf("%w: %w", ErrLinks, linkErr))
	}
	return nil
}

// stageWriteManifest records inputs and outputs in the state directory.
func stageWriteManifest(ctx context.Context, bs *State) error {
	if !bs.Config.State.Manifest {
		return nil
	}
	m, err := buildManifest(bs)
	if err != nil {
		return newFatalStageError(StageWriteManifest, fmt.Errorf("%w: %w", ErrState, err))
	}
	path, err := manifest.Write(bs.Config.StateDir(), m)
	if err != nil {
		return newFatalStageError(StageWriteManifest, fmt.Errorf("%w: %w", ErrState, err))
	}
	bs.Report.ManifestPath = path
	observability.DebugContext(ctx, "Wrote build manifest", logfields.Path(path))
	return nil
}

func buildManifest(bs *State) (*manifest.BuildManifest, error) {
	r := bs.Report
	cfgJSON, err := json.Marshal(bs.Config)
	if err != nil {
		return nil, fmt.Errorf("hash config: %w", err)
	}

	m := &manifest.BuildManifest{
		ID:        r.BuildID,
		Timestamp: r.Start.UTC(),
		Version:   bs.version,
		Inputs: manifest.Inputs{
			ConfigHash: fmt.Sprintf("%x", sha256.Sum256(cfgJSON)),
		},
		Outputs: manifest.Outputs{
			Directory:   bs.Config.Paths.Output,
			NotFound:    r.NotFound,
			StaticFiles: r.StaticFiles,
			LinkIssues:  r.LinkIssues(),
		},
		Status:   string(StatusSuccess),
		Warnings: len(r.Warnings) + len(r.ContentWarnings),
	}
	if len(r.Warnings) > 0 {
		m.Status = string(StatusWarning)
	}
	if !bs.Head.IsZero() {
		m.Inputs.Git = &manifest.GitInput{Commit: bs.Head.Commit, Branch: bs.Head.Branch}
	}
	for _, c := range r.Content {
		m.Inputs.Content = append(m.Inputs.Content, manifest.ContentInput{Type: c.Type, Records: len(c.Records), Hash: c.Hash})
	}
	for _, p := range r.Pages {
		m.Outputs.Pages = append(m.Outputs.Pages, manifest.PageOutput{
			Template: p.Template, Output: p.Output, Size: p.Size, SHA256: p.SHA256,
		})
	}
	m.Duration = bs.now().Sub(r.Start).Milliseconds()
	return m, nil
}
