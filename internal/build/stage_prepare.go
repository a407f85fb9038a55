package build

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
	"git.home.luguber.info/inful/portfoliobuilder/internal/observability"
	"git.home.luguber.info/inful/portfoliobuilder/internal/output"
)

// stagePrepareOutput wipes the output directory and merges static and data
// directories into it.
func stagePrepareOutput(ctx context.Context, bs *State) error {
	cfg := bs.Config
	sum, err := output.Prepare(cfg.OutputDir(), cfg.AbsAll(cfg.Paths.Static), cfg.AbsAll(cfg.Paths.Data))
	if err != nil {
		return newFatalStageError(StagePrepareOutput, fmt.Errorf("%w: %w", ErrOutput, err))
	}
	bs.Report.StaticFiles = sum.Files
	observability.DebugContext(ctx, "Prepared output directory",
		logfields.Path(cfg.OutputDir()),
		logfields.Count(sum.Files))
	return nil
}
