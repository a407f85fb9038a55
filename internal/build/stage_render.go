package build

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/portfoliobuilder/internal/content"
	"git.home.luguber.info/inful/portfoliobuilder/internal/git"
	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
	"git.home.luguber.info/inful/portfoliobuilder/internal/markdown"
	"git.home.luguber.info/inful/portfoliobuilder/internal/observability"
	"git.home.luguber.info/inful/portfoliobuilder/internal/render"
)

// stageRenderPages renders every configured page into the output directory.
func stageRenderPages(ctx context.Context, bs *State) error {
	cfg := bs.Config

	head, err := git.ReadHead(cfg.Root)
	if err != nil {
		observability.WarnContext(ctx, "Could not read git HEAD, build stamp left empty", logfields.Error(err))
	}
	bs.Head = head
	bs.Report.Commit = head.Commit

	base := map[string]any{
		render.SiteKey:  cfg.Site,
		render.BuildKey: head,
	}
	sets := map[string]content.Set{}
	if bs.Collections != nil {
		sets = bs.Collections.Sets
	}
	specs := render.PageSpecs(cfg.Pages, base, sets)

	funcs := render.Funcs(render.NewURLResolver(cfg.Routes), markdown.NewRenderer())
	env, err := render.NewEnvironment(cfg.TemplateDir(), render.Templates(specs), funcs)
	if err != nil {
		return newFatalStageError(StageRenderPages, fmt.Errorf("%w: %w", ErrRender, err))
	}

	pages, err := render.RenderPages(env, cfg.OutputDir(), specs)
	bs.Report.Pages = pages
	if err != nil {
		return newFatalStageError(StageRenderPages, fmt.Errorf("%w: %w", ErrRender, err))
	}
	observability.DebugContext(ctx, "Rendered pages", logfields.Count(len(pages)))
	return nil
}

// stageNotFoundPage copies the index page to the not-found page.
func stageNotFoundPage(ctx context.Context, bs *State) error {
	nf := bs.Config.NotFound
	if !nf.Enabled {
		return nil
	}
	written, err := render.WriteNotFound(bs.Config.OutputDir(), nf.Index, nf.Output)
	if err != nil {
		return newFatalStageError(StageNotFoundPage, fmt.Errorf("%w: %w", ErrRender, err))
	}
	if written {
		bs.Report.NotFound = nf.Output
	} else {
		observability.DebugContext(ctx, "Index page missing, no not-found page written", logfields.Page(nf.Index))
	}
	return nil
}
