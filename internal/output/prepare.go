package output

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
)

const (
	// StaticDir is the output subdirectory asset sources are merged into.
	StaticDir = "static"
	// DataDir is the output subdirectory data sources are merged into.
	DataDir = "data"
)

// Summary reports what Prepare copied.
type Summary struct {
	StaticSources []string
	DataSources   []string
	Files         int
}

// Prepare removes outDir, recreates it and merges every existing asset dir
// into outDir/static and every existing data dir into outDir/data. Sources
// are applied in order so later ones overwrite earlier ones per file.
func Prepare(outDir string, assetDirs, dataDirs []string) (*Summary, error) {
	if err := os.RemoveAll(outDir); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "remove output directory").
			WithContext("path", outDir).Build()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("path", outDir).Build()
	}

	sum := &Summary{}
	var err error
	if sum.StaticSources, err = mergeInto(filepath.Join(outDir, StaticDir), assetDirs, sum); err != nil {
		return nil, err
	}
	if sum.DataSources, err = mergeInto(filepath.Join(outDir, DataDir), dataDirs, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func mergeInto(dst string, sources []string, sum *Summary) ([]string, error) {
	var used []string
	for _, src := range sources {
		info, err := os.Stat(src)
		if os.IsNotExist(err) {
			if _, lerr := os.Lstat(src); lerr == nil {
				return used, errors.FileSystemError("source is a broken symlink").
					WithContext("path", src).Build()
			}
			slog.Debug("Source directory missing, skipping", logfields.Path(src))
			continue
		}
		if err != nil {
			return used, errors.WrapError(err, errors.CategoryFileSystem, "stat source directory").
				WithContext("path", src).Build()
		}
		if !info.IsDir() {
			return used, errors.FileSystemError("source exists but is not a directory").
				WithContext("path", src).Build()
		}

		n, err := CopyTree(src, dst)
		if err != nil {
			return used, err
		}
		slog.Debug("Merged directory", logfields.Path(src), slog.String("dest", dst), logfields.Count(n))
		sum.Files += n
		used = append(used, src)
	}
	return used, nil
}
