package render

import (
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/portfoliobuilder/internal/content"
	"git.home.luguber.info/inful/portfoliobuilder/internal/markdown"
)

// Funcs returns the template helpers available to every page.
func Funcs(urls *URLResolver, md *markdown.Renderer) template.FuncMap {
	return template.FuncMap{
		"url_for":   urls.URLFor,
		"static":    urls.Static,
		"markdown":  md.Template,
		"titlecase": titlecase,
		"field":     field,
		"join":      strings.Join,
	}
}

// titlecase builds a caser per call; cases.Caser is stateful.
func titlecase(s string) string {
	return cases.Title(language.English).String(s)
}

// field returns rec[key], or def when the key is missing, null or "".
func field(rec any, key string, def any) (any, error) {
	var m map[string]any
	switch r := rec.(type) {
	case content.Record:
		m = r
	case map[string]any:
		m = r
	case nil:
		return def, nil
	default:
		return nil, fmt.Errorf("field: expected a record, got %T", rec)
	}
	v, ok := m[key]
	if !ok || v == nil {
		return def, nil
	}
	if s, isString := v.(string); isString && s == "" {
		return def, nil
	}
	return v, nil
}
