package content

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
)

func writeJSON(t *testing.T, root, rel, body string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func quietLoader(root string) *Loader {
	return NewLoader(root).WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestLoad_SortsByOrder(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "data/projects/a.json", `{"title":"A","order":2}`)
	writeJSON(t, root, "data/projects/b.json", `{"title":"B","order":1}`)

	res, err := quietLoader(root).Load("projects", []string{filepath.Join(root, "data", "projects")})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, res.Set.Titles())
	assert.Empty(t, res.Warnings)
}

func TestLoad_MissingOrderSortsLastAndStable(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "items")
	writeJSON(t, root, "items/a.json", `{"title":"a","order":5}`)
	writeJSON(t, root, "items/b.json", `{"title":"b"}`)
	writeJSON(t, root, "items/c.json", `{"title":"c"}`)
	writeJSON(t, root, "items/d.json", `{"title":"d","order":1}`)
	writeJSON(t, root, "items/e.json", `{"title":"e","order":5}`)
	writeJSON(t, root, "items/f.json", `{"title":"f","order":-3.5}`)

	res, err := quietLoader(root).Load("items", []string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "d", "a", "e", "b", "c"}, res.Set.Titles())
}

func TestLoad_SourceFieldIsProjectRelative(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "app/data/projects/nested/deep/x.json", `{"title":"X","_file":"spoofed"}`)

	res, err := quietLoader(root).Load("projects", []string{filepath.Join(root, "app", "data", "projects")})
	require.NoError(t, err)
	require.Len(t, res.Set, 1)
	assert.Equal(t, "app/data/projects/nested/deep/x.json", res.Set[0].Source())
}

func TestLoad_SameNameDifferentRootsBothKept(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "data/projects/x.json", `{"title":"base"}`)
	writeJSON(t, root, "app/data/projects/x.json", `{"title":"app"}`)

	res, err := quietLoader(root).Load("projects", []string{
		filepath.Join(root, "data", "projects"),
		filepath.Join(root, "app", "data", "projects"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "app"}, res.Set.Titles())
}

func TestLoad_OverlappingRootsCountOnce(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "data/projects/p.json", `{"title":"P"}`)
	writeJSON(t, root, "data/site.json", `{"title":"S"}`)

	res, err := quietLoader(root).Load("projects", []string{
		filepath.Join(root, "data"),
		filepath.Join(root, "data", "projects"),
		filepath.Join(root, "data"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"P", "S"}, res.Set.Titles())
	assert.Equal(t, "data/projects/p.json", res.Set[0].Source())
}

func TestLoad_SymlinkDuplicateFirstRootWins(t *testing.T) {
	root := t.TempDir()
	target := writeJSON(t, root, "base/a.json", `{"title":"A"}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "override"), 0o755))
	if err := os.Symlink(target, filepath.Join(root, "override", "link.json")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	base := filepath.Join(root, "base")
	override := filepath.Join(root, "override")

	res, err := quietLoader(root).Load("projects", []string{base, override})
	require.NoError(t, err)
	require.Len(t, res.Set, 1)
	assert.Equal(t, "base/a.json", res.Set[0].Source())

	res, err = quietLoader(root).Load("projects", []string{override, base})
	require.NoError(t, err)
	require.Len(t, res.Set, 1)
	assert.Equal(t, "override/link.json", res.Set[0].Source())
}

func TestLoad_SymlinkedRootIsDescended(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "real/a.json", `{"title":"A"}`)
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res, err := quietLoader(root).Load("projects", []string{filepath.Join(root, "alias"), filepath.Join(root, "real")})
	require.NoError(t, err)
	require.Len(t, res.Set, 1)
	assert.Equal(t, "alias/a.json", res.Set[0].Source())
}

func TestLoad_MalformedFilesAreSkippedWithWarning(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "projects")
	writeJSON(t, root, "projects/good.json", `{"title":"Good","order":1}`)
	writeJSON(t, root, "projects/truncated.json", `{"title": "X"`)
	writeJSON(t, root, "projects/list.json", `[1,2,3]`)
	writeJSON(t, root, "projects/trailing.json", `{"title":"T"} {"title":"U"}`)
	writeJSON(t, root, "projects/empty.json", ``)
	writeJSON(t, root, "projects/notes.txt", `not json`)

	var logs bytes.Buffer
	loader := NewLoader(root).WithLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	res, err := loader.Load("projects", []string{dir})
	require.NoError(t, err)

	assert.Equal(t, []string{"Good"}, res.Set.Titles())
	require.Len(t, res.Warnings, 4)
	files := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		assert.True(t, w.Skipped)
		assert.Equal(t, "projects", w.ContentType)
		files = append(files, w.File)
	}
	assert.ElementsMatch(t, []string{
		"projects/empty.json",
		"projects/list.json",
		"projects/trailing.json",
		"projects/truncated.json",
	}, files)
	assert.Contains(t, logs.String(), "projects/truncated.json")
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestLoad_InvalidOrderSortsLast(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "p/a.json", `{"title":"A","order":"first"}`)
	writeJSON(t, root, "p/b.json", `{"title":"B","order":3}`)
	writeJSON(t, root, "p/c.json", `{"title":"C","order":null}`)

	res, err := quietLoader(root).Load("p", []string{filepath.Join(root, "p")})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, res.Set.Titles())
	require.Len(t, res.Warnings, 2)
	assert.False(t, res.Warnings[0].Skipped)
}

func TestLoad_EmptyAndMissingRoots(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	writeJSON(t, root, "file-root", `{}`)

	res, err := quietLoader(root).Load("projects", []string{
		filepath.Join(root, "empty"),
		filepath.Join(root, "missing"),
		filepath.Join(root, "file-root"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Set)
	assert.Empty(t, res.Set)
}

func TestLoad_UnreadableDirectoryPropagates(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	writeJSON(t, root, "p/locked/a.json", `{}`)
	locked := filepath.Join(root, "p", "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := quietLoader(root).Load("p", []string{filepath.Join(root, "p")})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryContent))
}

func TestLoadTypes(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "data/projects/a.json", `{"title":"A"}`)
	writeJSON(t, root, "data/education/uni.json", `{"title":"Uni","order":1}`)
	writeJSON(t, root, "data/education/bad.json", `{`)

	cols, err := quietLoader(root).LoadTypes([]config.ContentType{
		{Name: "projects", Roots: []string{"data/projects"}},
		{Name: "education", Roots: []string{"data/education"}},
		{Name: "talks", Roots: []string{"data/talks"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"projects", "education", "talks"}, cols.Types)
	assert.Equal(t, []string{"A"}, cols.Sets["projects"].Titles())
	assert.Equal(t, []string{"Uni"}, cols.Sets["education"].Titles())
	assert.Empty(t, cols.Sets["talks"])
	assert.Equal(t, 2, cols.Count())
	require.Len(t, cols.Warnings, 1)
	assert.Equal(t, "education", cols.Warnings[0].ContentType)
}

func TestParse_KeepsNumbersVerbatim(t *testing.T) {
	rec, err := Parse([]byte(`{"year": 2021, "score": 4.50, "nested": {"n": 1}}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("2021"), rec["year"])
	assert.Equal(t, json.Number("4.50"), rec["score"])

	_, err = Parse([]byte{0xff, 0xfe, '{', '}'})
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	_, err = Parse([]byte(`"just a string"`))
	assert.ErrorIs(t, err, ErrNotObject)
	_, err = Parse([]byte("{}\n\n"))
	assert.NoError(t, err)
}

func TestHash(t *testing.T) {
	a := Set{{"title": "A", SourceField: "a.json"}, {"title": "B", SourceField: "b.json"}}
	b := Set{{SourceField: "a.json", "title": "A"}, {SourceField: "b.json", "title": "B"}}
	c := Set{{"title": "B", SourceField: "b.json"}, {"title": "A", SourceField: "a.json"}}

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	hc, err := Hash(c)
	require.NoError(t, err)
	he, err := Hash(Set{})
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
	assert.NotEqual(t, ha, he)
}
