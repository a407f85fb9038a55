package output

import (
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/portfoliobuilder/internal/util/sets"
)

// CopyTree merges src into dst and returns the number of files written.
// Existing files in dst are overwritten, other files are left alone.
// Symlinks are followed; permission bits and modification times are kept.
func CopyTree(src, dst string) (int, error) {
	return copyDir(src, dst, sets.New[string]())
}

func copyDir(src, dst string, ancestors sets.Set[string]) (int, error) {
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return 0, copyError(err, src, dst)
	}
	if ancestors.Has(resolved) {
		return 0, errors.FileSystemError("symlink cycle").
			WithContext("src", src).Build()
	}
	ancestors.Add(resolved)
	defer ancestors.Remove(resolved)

	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, copyError(err, src, dst)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return 0, copyError(err, src, dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, copyError(err, src, dst)
	}

	copied := 0
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat, not the dir entry type, so linked directories are descended.
		info, err := os.Stat(srcPath)
		if err != nil {
			return copied, copyError(err, srcPath, dstPath)
		}

		switch {
		case info.IsDir():
			n, err := copyDir(srcPath, dstPath, ancestors)
			copied += n
			if err != nil {
				return copied, err
			}
		case info.Mode().IsRegular():
			if err := copyFile(srcPath, dstPath, info); err != nil {
				return copied, copyError(err, srcPath, dstPath)
			}
			copied++
		}
	}

	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return copied, copyError(err, src, dst)
	}
	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return copied, copyError(err, src, dst)
	}
	return copied, nil
}

func copyFile(src, dst string, info os.FileInfo) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()|0o200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func copyError(err error, src, dst string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, "copy failed").
		WithContext("src", src).
		WithContext("dst", dst).
		Build()
}
