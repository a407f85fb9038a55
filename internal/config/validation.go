package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/util/sets"
)

// Validate checks cross-field constraints of a normalized configuration.
func Validate(cfg *Config) error {
	if err := validatePaths(cfg); err != nil {
		return err
	}
	types, err := validateContent(cfg)
	if err != nil {
		return err
	}
	return validatePages(cfg, types)
}

func validatePaths(cfg *Config) error {
	if cfg.Paths.Templates == "" {
		return errors.ValidationError("paths.templates must be set").Build()
	}
	if cfg.Paths.Output == "" {
		return errors.ValidationError("paths.output must be set").Build()
	}

	// The output directory is wiped on every build; refuse anything that
	// would take the project root or a source directory with it, and any
	// source that would copy the output into itself.
	out := cfg.OutputDir()
	if contains(out, cfg.Root) {
		return errors.ValidationError("paths.output must be a subdirectory of the project root").
			WithContext("output", out).Build()
	}
	for _, src := range sourceDirs(cfg) {
		if overlaps(out, src.path) {
			return errors.ValidationError("paths.output must not overlap a source directory").
				WithContext("output", out).
				WithContext("field", src.field).
				WithContext("path", src.path).Build()
		}
	}
	return nil
}

type sourceDir struct {
	field string
	path  string
}

// sourceDirs lists every directory a build reads from or keeps state in.
func sourceDirs(cfg *Config) []sourceDir {
	dirs := []sourceDir{{"paths.templates", cfg.TemplateDir()}}
	for _, p := range cfg.AbsAll(cfg.Paths.Static) {
		dirs = append(dirs, sourceDir{"paths.static", p})
	}
	for _, p := range cfg.AbsAll(cfg.Paths.Data) {
		dirs = append(dirs, sourceDir{"paths.data", p})
	}
	for _, ct := range cfg.Content {
		for _, p := range cfg.AbsAll(ct.Roots) {
			dirs = append(dirs, sourceDir{"content." + ct.Name + ".roots", p})
		}
	}
	if cfg.State.Directory != "" {
		dirs = append(dirs, sourceDir{"state.directory", cfg.StateDir()})
	}
	return dirs
}

// overlaps reports whether either directory contains the other.
func overlaps(a, b string) bool {
	return contains(a, b) || contains(b, a)
}

func validateContent(cfg *Config) (sets.Set[string], error) {
	names := sets.New[string]()
	for i, ct := range cfg.Content {
		if ct.Name == "" {
			return nil, errors.ValidationError("content type name must be set").
				WithContext("index", i).Build()
		}
		if ct.Name == "site" || ct.Name == "build" || ct.Name == "page" {
			return nil, errors.ValidationError("content type name is reserved").
				WithContext("name", ct.Name).Build()
		}
		if !names.AddNew(ct.Name) {
			return nil, errors.ValidationError("duplicate content type").
				WithContext("name", ct.Name).Build()
		}
	}
	return names, nil
}

func validatePages(cfg *Config, types sets.Set[string]) error {
	outputs := sets.New[string]()
	for i, p := range cfg.Pages {
		if p.Template == "" || p.Output == "" {
			return errors.ValidationError("page template and output must be set").
				WithContext("index", i).Build()
		}
		if filepath.IsAbs(p.Output) || strings.HasPrefix(p.Output, "..") {
			return errors.ValidationError("page output must be relative to the output directory").
				WithContext("output", p.Output).Build()
		}
		if !outputs.AddNew(p.Output) {
			return errors.ValidationError("duplicate page output").
				WithContext("output", p.Output).Build()
		}
		for _, name := range p.Content {
			if !types.Has(name) {
				return errors.ValidationError("page references unknown content type").
					WithContext("page", p.Template).
					WithContext("content_type", name).Build()
			}
		}
	}
	if cfg.NotFound.Enabled && cfg.NotFound.Index == cfg.NotFound.Output {
		return errors.ValidationError("not_found.output must differ from not_found.index").Build()
	}
	return nil
}

// contains reports whether dir is parent or equal to path.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
