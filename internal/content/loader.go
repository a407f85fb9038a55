package content

import (
	"cmp"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
	"git.home.luguber.info/inful/portfoliobuilder/internal/util/sets"
)

const filePattern = "*.json"

// Warning describes a content file that was skipped or loaded with a caveat.
type Warning struct {
	ContentType string
	File        string // project-relative path
	Err         error
	Skipped     bool
}

func (w Warning) Error() string {
	if w.Skipped {
		return "skipping " + w.File + ": " + w.Err.Error()
	}
	return w.File + ": " + w.Err.Error()
}

// Result is the outcome of loading one content type.
type Result struct {
	Set      Set
	Warnings []Warning
}

// Loader loads records relative to a project root.
type Loader struct {
	projectRoot string
	logger      *slog.Logger
}

// NewLoader returns a Loader tagging records with paths relative to projectRoot.
func NewLoader(projectRoot string) *Loader {
	return &Loader{projectRoot: projectRoot, logger: slog.Default()}
}

// WithLogger replaces the logger used for warnings.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	l.logger = logger
	return l
}

// Load is shorthand for NewLoader(projectRoot).Load("", roots).
func Load(projectRoot string, roots []string) (*Result, error) {
	return NewLoader(projectRoot).Load("", roots)
}

type candidate struct {
	record Record
	order  float64
}

// Load scans roots in order and returns the ordered, deduplicated record set.
// contentType only labels warnings and log lines.
func (l *Loader) Load(contentType string, roots []string) (*Result, error) {
	res := &Result{Set: Set{}}
	seen := sets.New[string]()
	var loaded []candidate

	warn := func(file string, err error) {
		w := Warning{ContentType: contentType, File: file, Err: err, Skipped: true}
		res.Warnings = append(res.Warnings, w)
		l.logger.Warn("Skipping content file",
			logfields.ContentType(contentType),
			logfields.File(file),
			logfields.Error(err))
	}

	for _, root := range roots {
		files, err := l.scanRoot(root)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			rel := l.relative(path)

			resolved, err := resolve(path)
			if err != nil {
				warn(rel, err)
				continue
			}
			if seen.Has(resolved) {
				l.logger.Debug("Skipping duplicate content file",
					logfields.ContentType(contentType),
					logfields.File(rel),
					logfields.Path(resolved))
				continue
			}

			data, err := os.ReadFile(path)
			if err != nil {
				warn(rel, err)
				continue
			}
			rec, err := Parse(data)
			if err != nil {
				warn(rel, err)
				continue
			}
			rec[SourceField] = rel

			order, _, err := rec.Order()
			if err != nil {
				l.logger.Warn("Ignoring invalid order",
					logfields.ContentType(contentType),
					logfields.File(rel),
					logfields.Error(err))
				res.Warnings = append(res.Warnings, Warning{ContentType: contentType, File: rel, Err: err})
			}

			seen.Add(resolved)
			loaded = append(loaded, candidate{record: rec, order: order})
		}
	}

	slices.SortStableFunc(loaded, func(a, b candidate) int {
		return cmp.Compare(a.order, b.order)
	})
	for _, c := range loaded {
		res.Set = append(res.Set, c.record)
	}
	return res, nil
}

// scanRoot lists candidate files under root in lexical walk order.
// A missing root yields no files; a root that is not a directory is skipped
// with a warning.
func (l *Loader) scanRoot(root string) ([]string, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		l.logger.Debug("Content root does not exist, skipping", logfields.Path(root))
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "stat content root").
			WithContext("root", root).Build()
	}
	if !info.IsDir() {
		l.logger.Warn("Content root is not a directory, skipping", logfields.Path(root))
		return nil, nil
	}

	// Walk the resolved root so a symlinked root is descended, but report
	// paths under the root as configured.
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "resolve content root").
			WithContext("root", root).Build()
	}

	var files []string
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(filePattern, d.Name()); !ok {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if target, err := os.Stat(path); err == nil && target.IsDir() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.Join(root, rel))
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "walk content root").
			WithContext("root", root).Build()
	}
	return files, nil
}

func (l *Loader) relative(path string) string {
	rel, err := filepath.Rel(l.projectRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func resolve(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// Collections holds the loaded sets of every configured content type.
type Collections struct {
	Types    []string
	Sets     map[string]Set
	Warnings []Warning
}

// LoadTypes loads every content type in declaration order. Relative roots
// are resolved against the project root.
func (l *Loader) LoadTypes(types []config.ContentType) (*Collections, error) {
	out := &Collections{Sets: make(map[string]Set, len(types))}
	for _, ct := range types {
		roots := make([]string, 0, len(ct.Roots))
		for _, r := range ct.Roots {
			if !filepath.IsAbs(r) {
				r = filepath.Join(l.projectRoot, r)
			}
			roots = append(roots, r)
		}
		res, err := l.Load(ct.Name, roots)
		if err != nil {
			return nil, err
		}
		out.Types = append(out.Types, ct.Name)
		out.Sets[ct.Name] = res.Set
		out.Warnings = append(out.Warnings, res.Warnings...)
	}
	return out, nil
}

// Count returns the total number of records across all types.
func (c *Collections) Count() int {
	n := 0
	for _, s := range c.Sets {
		n += len(s)
	}
	return n
}
