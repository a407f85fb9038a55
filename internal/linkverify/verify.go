package linkverify

import (
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
)

// IssueKind classifies a broken link.
type IssueKind string

const (
	IssueEmpty   IssueKind = "empty"
	IssueMissing IssueKind = "missing"
	IssueEscapes IssueKind = "escapes_output"
	IssueInvalid IssueKind = "invalid"
)

// Issue is one broken link on one page.
type Issue struct {
	Page string // slash-separated, relative to the output directory
	Link Link
	Kind IssueKind
}

func (i Issue) String() string {
	return i.Page + ": " + string(i.Kind) + " " + i.Link.Tag + "[" + i.Link.Attribute + "]=" + `"` + i.Link.URL + `"`
}

// Report is the result of verifying a site.
type Report struct {
	Pages   int
	Links   int
	Checked int
	Issues  []Issue
}

// OK reports whether no issues were found.
func (r *Report) OK() bool { return len(r.Issues) == 0 }

// Err summarizes the issues as a classified error, or returns nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return errors.NewError(errors.CategoryLinks, "broken links in output").
		WithContext("issues", len(r.Issues)).
		WithContext("first", r.Issues[0].String()).
		Build()
}

// VerifySite checks every *.html file under outDir.
func VerifySite(outDir string) (*Report, error) {
	info, err := os.Stat(outDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "output directory not readable").
			WithContext("path", outDir).Build()
	}
	if !info.IsDir() {
		return nil, errors.FileSystemError("output path is not a directory").
			WithContext("path", outDir).Build()
	}

	report := &Report{}
	err = filepath.WalkDir(outDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(outDir, p)
		if err != nil {
			return err
		}
		return verifyPage(outDir, filepath.ToSlash(rel), report)
	})
	if err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "walk output directory").
			WithContext("path", outDir).Build()
	}
	return report, nil
}

func verifyPage(outDir, page string, report *Report) error {
	links, err := ExtractLinks(filepath.Join(outDir, filepath.FromSlash(page)))
	if err != nil {
		return err
	}
	report.Pages++
	report.Links += len(links)

	for _, link := range links {
		if !ShouldVerifyLink(link) {
			continue
		}
		report.Checked++
		if kind, bad := check(outDir, page, link.URL); bad {
			issue := Issue{Page: page, Link: *link, Kind: kind}
			report.Issues = append(report.Issues, issue)
			slog.Debug("Broken link", logfields.Page(page), logfields.URL(link.URL), slog.String("kind", string(kind)))
		}
	}
	return nil
}

// check resolves target against page and reports why it is broken.
func check(outDir, page, target string) (IssueKind, bool) {
	if target == "" {
		return IssueEmpty, true
	}
	u, err := url.Parse(target)
	if err != nil {
		return IssueInvalid, true
	}
	if u.Path == "" {
		// Query or fragment only: refers to the page itself.
		return "", false
	}

	var resolved string
	if strings.HasPrefix(u.Path, "/") {
		resolved = path.Clean(strings.TrimPrefix(u.Path, "/"))
	} else {
		resolved = path.Join(path.Dir(page), u.Path)
	}
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return IssueEscapes, true
	}

	full := filepath.Join(outDir, filepath.FromSlash(resolved))
	info, err := os.Stat(full)
	if err != nil {
		return IssueMissing, true
	}
	if info.IsDir() {
		if _, err := os.Stat(filepath.Join(full, "index.html")); err != nil {
			return IssueMissing, true
		}
	}
	return "", false
}
