package render

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
	"git.home.luguber.info/inful/portfoliobuilder/internal/content"
	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
)

// Context keys present for every page.
const (
	SiteKey  = "site"
	BuildKey = "build"
	PageKey  = "page"
)

// PageSpec is one template rendered to one output file with its context.
type PageSpec struct {
	Template string
	Output   string
	Context  map[string]any
}

// PageInfo is exposed to templates as `page`.
type PageInfo struct {
	Template string
	Output   string
}

// Page is the result of rendering one PageSpec.
type Page struct {
	Template string
	Output   string
	Path     string
	Size     int
	SHA256   string
}

// PageSpecs builds the specs for pages. Each context holds base plus the
// content sets the page names; a type with no records yields an empty set.
func PageSpecs(pages []config.Page, base map[string]any, sets map[string]content.Set) []PageSpec {
	specs := make([]PageSpec, 0, len(pages))
	for _, p := range pages {
		ctx := make(map[string]any, len(base)+len(p.Content)+1)
		for k, v := range base {
			ctx[k] = v
		}
		for _, name := range p.Content {
			set := sets[name]
			if set == nil {
				set = content.Set{}
			}
			ctx[name] = set
		}
		ctx[PageKey] = PageInfo{Template: p.Template, Output: p.Output}
		specs = append(specs, PageSpec{Template: p.Template, Output: p.Output, Context: ctx})
	}
	return specs
}

// Templates lists the template names of specs.
func Templates(specs []PageSpec) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Template)
	}
	return out
}

// RenderPages renders specs in order into outDir. Parent directories are
// created and existing files overwritten. The first failure aborts.
func RenderPages(env *Environment, outDir string, specs []PageSpec) ([]Page, error) {
	pages := make([]Page, 0, len(specs))
	for _, spec := range specs {
		out, err := env.Render(spec.Template, spec.Context)
		if err != nil {
			return pages, err
		}

		path := filepath.Join(outDir, filepath.FromSlash(spec.Output))
		if err := writeFile(path, out); err != nil {
			return pages, err
		}

		sum := sha256.Sum256(out)
		pages = append(pages, Page{
			Template: spec.Template,
			Output:   spec.Output,
			Path:     path,
			Size:     len(out),
			SHA256:   hex.EncodeToString(sum[:]),
		})
		slog.Debug("Rendered page", logfields.Template(spec.Template), logfields.Page(spec.Output))
	}
	return pages, nil
}

// WriteNotFound copies outDir/index byte for byte to outDir/notFound.
// It reports false without error when the index page does not exist.
func WriteNotFound(outDir, index, notFound string) (bool, error) {
	src := filepath.Join(outDir, filepath.FromSlash(index))
	// #nosec G304 -- src is below the output directory.
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		slog.Debug("No index page, skipping not-found copy", logfields.Path(src))
		return false, nil
	}
	if err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "read index page").
			WithContext("path", src).Build()
	}
	if err := writeFile(filepath.Join(outDir, filepath.FromSlash(notFound)), data); err != nil {
		return false, err
	}
	return true, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create page directory").
			WithContext("path", path).Build()
	}
	// #nosec G306 -- published pages are world-readable.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write page").
			WithContext("path", path).Build()
	}
	return nil
}
