package render

import (
	"bytes"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/util/sets"
)

const templateExt = ".html"

// Environment holds the parsed shared templates of a template root.
type Environment struct {
	dir    string
	shared *template.Template
	names  []string
}

// NewEnvironment parses every shared template under dir. pageTemplates
// names the page templates (slash-separated, relative to dir), which are
// parsed per page instead.
func NewEnvironment(dir string, pageTemplates []string, funcs template.FuncMap) (*Environment, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "template directory not readable").
			WithContext("path", dir).Build()
	}
	if !info.IsDir() {
		return nil, errors.TemplateError("template path is not a directory").
			WithContext("path", dir).Build()
	}

	pages := sets.New(pageTemplates...)
	env := &Environment{dir: dir, shared: template.New("").Funcs(funcs)}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), templateExt) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if pages.Has(name) {
			return nil
		}
		if err := parseInto(env.shared, name, path); err != nil {
			return err
		}
		env.names = append(env.names, name)
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryTemplate, "scan template directory").
			WithContext("path", dir).Build()
	}
	return env, nil
}

// Shared lists the shared template names in walk order.
func (e *Environment) Shared() []string {
	return append([]string(nil), e.names...)
}

// Render executes page template name with data and returns the output.
// Nothing is returned on error, so callers never write partial pages.
func (e *Environment) Render(name string, data any) ([]byte, error) {
	t, err := e.shared.Clone()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "clone shared templates").Build()
	}

	path := filepath.Join(e.dir, filepath.FromSlash(name))
	if err := parseInto(t, name, path); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "render template").
			WithContext("template", name).Build()
	}
	return buf.Bytes(), nil
}

func parseInto(t *template.Template, name, path string) error {
	// #nosec G304 -- path is below the configured template root.
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.TemplateError("template not found").
				WithContext("template", name).
				WithContext("path", path).Build()
		}
		return errors.WrapError(err, errors.CategoryTemplate, "read template").
			WithContext("template", name).Build()
	}
	if _, err := t.New(name).Parse(string(src)); err != nil {
		return errors.WrapError(err, errors.CategoryTemplate, "parse template").
			WithContext("template", name).Build()
	}
	return nil
}
