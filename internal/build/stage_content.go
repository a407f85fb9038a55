package build

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/portfoliobuilder/internal/content"
	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
	"git.home.luguber.info/inful/portfoliobuilder/internal/observability"
)

// stageLoadContent loads every configured content type. Per-file problems
// are collected as warnings; only directory-level failures are fatal.
func stageLoadContent(ctx context.Context, bs *State) error {
	loader := content.NewLoader(bs.Config.Root).WithLogger(slog.Default().With(logfields.BuildID(observability.GetContext(ctx).BuildID)))
	cols, err := loader.LoadTypes(bs.Config.Content)
	if err != nil {
		return newFatalStageError(StageLoadContent, fmt.Errorf("%w: %w", ErrContent, err))
	}
	bs.Collections = cols
	bs.Report.ContentWarnings = cols.Warnings

	for _, name := range cols.Types {
		set := cols.Sets[name]
		hash, err := content.Hash(set)
		if err != nil {
			return newFatalStageError(StageLoadContent, fmt.Errorf("%w: hash %s: %w", ErrContent, name, err))
		}
		summary := ContentSummary{Type: name, Hash: hash, Records: make([]RecordSummary, 0, len(set))}
		for _, rec := range set {
			summary.Records = append(summary.Records, RecordSummary{Title: rec.Title(), File: rec.Source()})
		}
		bs.Report.Content = append(bs.Report.Content, summary)
		observability.DebugContext(ctx, "Loaded content", logfields.ContentType(name), logfields.Count(len(set)))
	}

	if len(cols.Warnings) > 0 {
		skipped := errors.ContentError("content files skipped").
			WithContext("files", len(cols.Warnings)).
			Warning().Build()
		return newWarnStageError(StageLoadContent, fmt.Errorf("%w: %w", ErrContent, skipped))
	}
	return nil
}
