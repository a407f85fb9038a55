package linkverify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func TestExtractLinksFromReader(t *testing.T) {
	links, err := ExtractLinksFromReader(strings.NewReader(`<html><head>
<link rel="stylesheet" href="static/site.css"><script src="static/app.js"></script></head>
<body><a href="projects.html">Projects <b>all</b></a><a>no href</a><a href="">empty</a>
<img src="static/me.png" alt="Me"><div data-href="x"></div></body></html>`))
	require.NoError(t, err)

	require.Len(t, links, 5)
	assert.Equal(t, Link{URL: "static/site.css", Text: "stylesheet", Tag: "link", Attribute: "href"}, *links[0])
	assert.Equal(t, "script", links[1].Tag)
	assert.Equal(t, "Projectsall", links[2].Text)
	assert.Equal(t, "", links[3].URL)
	assert.Equal(t, "Me", links[4].Text)
}

func TestShouldVerifyLink(t *testing.T) {
	cases := map[string]bool{
		"":                         true,
		"projects.html":            true,
		"/static/site.css":         true,
		"#top":                     false,
		"mailto:me@example.com":    false,
		"tel:+4712345678":          false,
		"javascript:void(0)":       false,
		"data:image/png;base64,AA": false,
		"https://example.com/x":    false,
		"//cdn.example.com/x.js":   false,
	}
	for url, want := range cases {
		assert.Equal(t, want, ShouldVerifyLink(&Link{URL: url}), url)
	}
}

func TestVerifySite(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html": `<a href="projects.html">ok</a>
<a href="projects.html#top">ok with fragment</a>
<a href="">empty</a>
<a href="blog.html">missing</a>
<a href="https://example.com">external</a>
<a href="#contact">fragment</a>
<link rel="stylesheet" href="static/css/site.css">
<img src="/static/img/me.png">
<a href="work/">dir with index</a>
<a href="../outside.html">escapes</a>`,
		"projects.html":       `<a href="index.html">home</a>`,
		"work/index.html":     `<a href="../index.html">up</a><img src="">`,
		"static/css/site.css": "body{}",
		"static/img/me.png":   "png",
		"static/notes/x.txt":  "x",
	})

	report, err := VerifySite(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Pages)
	kinds := map[string]IssueKind{}
	for _, issue := range report.Issues {
		kinds[issue.Page+" "+issue.Link.URL] = issue.Kind
	}
	assert.Equal(t, map[string]IssueKind{
		"index.html ":                IssueEmpty,
		"index.html blog.html":       IssueMissing,
		"index.html ../outside.html": IssueEscapes,
		"work/index.html ":           IssueEmpty,
	}, kinds)
	assert.False(t, report.OK())

	err = report.Err()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryLinks))
}

func TestVerifySite_Clean(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html":   `<a href="contact.html">c</a>`,
		"contact.html": `<a href="mailto:me@example.com">mail</a>`,
	})
	report, err := VerifySite(dir)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
	assert.Equal(t, 1, report.Checked)
}

func TestVerifySite_MissingDirectory(t *testing.T) {
	_, err := VerifySite(filepath.Join(t.TempDir(), "docs"))
	require.Error(t, err)
}
