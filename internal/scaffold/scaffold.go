// Package scaffold writes a starter portfolio project.
package scaffold

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"git.home.luguber.info/inful/portfoliobuilder/internal/config"
	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
)

//go:embed all:files
var starter embed.FS

const starterRoot = "files"

// Files lists the starter files as slash-separated paths relative to the
// project root, excluding the configuration file.
func Files() ([]string, error) {
	var out []string
	err := fs.WalkDir(starter, starterRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := p[len(starterRoot)+1:]
		out = append(out, rel)
		return nil
	})
	return out, err
}

// Write creates the starter project under root: templates for every default
// page, a stylesheet, sample content and portfolio.yaml. Existing files are
// only overwritten when force is set; without force nothing is written if
// any target exists.
func Write(root string, force bool) ([]string, error) {
	files, err := Files()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "list starter files").Build()
	}
	files = append(files, config.DefaultFileName)

	if !force {
		for _, rel := range files {
			target := filepath.Join(root, filepath.FromSlash(rel))
			if _, err := os.Lstat(target); err == nil {
				return nil, errors.ValidationError("file already exists (use --force to overwrite)").
					WithContext("path", target).Build()
			}
		}
	}

	written := make([]string, 0, len(files))
	for _, rel := range files {
		target := filepath.Join(root, filepath.FromSlash(rel))
		if rel == config.DefaultFileName {
			if err := config.Init(target, true); err != nil {
				return written, err
			}
			written = append(written, rel)
			continue
		}

		data, err := starter.ReadFile(path.Join(starterRoot, rel))
		if err != nil {
			return written, errors.WrapError(err, errors.CategoryInternal, "read starter file").
				WithContext("file", rel).Build()
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, errors.WrapError(err, errors.CategoryFileSystem, "create directory").
				WithContext("path", target).Build()
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, errors.WrapError(err, errors.CategoryFileSystem, "write starter file").
				WithContext("path", target).Build()
		}
		written = append(written, rel)
	}
	return written, nil
}
