package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
)

// normalize cleans user supplied values in place after YAML decoding.
func (c *Config) normalize() error {
	level, err := logLevelNormalizer.NormalizeWithError(string(c.Logging.Level))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid logging.level").Fatal().Build()
	}
	c.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeWithError(string(c.Logging.Format))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid logging.format").Fatal().Build()
	}
	c.Logging.Format = format

	c.Paths.Templates = cleanPath(c.Paths.Templates)
	c.Paths.Output = cleanPath(c.Paths.Output)
	c.Paths.Static = cleanPaths(c.Paths.Static)
	c.Paths.Data = cleanPaths(c.Paths.Data)
	for i := range c.Content {
		c.Content[i].Name = strings.TrimSpace(c.Content[i].Name)
		c.Content[i].Roots = cleanPaths(c.Content[i].Roots)
	}
	for i := range c.Pages {
		c.Pages[i].Template = strings.TrimSpace(c.Pages[i].Template)
		c.Pages[i].Output = filepath.ToSlash(cleanPath(c.Pages[i].Output))
	}
	if c.State.Directory == "" {
		c.State.Directory = DefaultStateDir
	}
	if c.NotFound.Index == "" {
		c.NotFound.Index = "index.html"
	}
	if c.NotFound.Output == "" {
		c.NotFound.Output = "404.html"
	}
	c.Site.BaseURL = strings.TrimSpace(c.Site.BaseURL)
	return nil
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return filepath.Clean(filepath.FromSlash(p))
}

func cleanPaths(ps []string) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if p = cleanPath(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
