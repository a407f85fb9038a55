package git

import (
	stderrors "errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
)

// HeadInfo describes the checked-out commit. It is exposed to templates as
// `build`, so the zero value means "not a git work tree".
type HeadInfo struct {
	Commit      string
	ShortCommit string
	Branch      string
}

// IsZero reports whether no repository was found.
func (h HeadInfo) IsZero() bool { return h.Commit == "" }

// ReadHead returns the HEAD of the repository containing path, searching
// parent directories for .git. A path outside any repository, or a
// repository without commits, yields the zero HeadInfo and no error.
func ReadHead(path string) (HeadInfo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if stderrors.Is(err, git.ErrRepositoryNotExists) {
		return HeadInfo{}, nil
	}
	if err != nil {
		return HeadInfo{}, errors.WrapError(err, errors.CategoryRuntime, "open git repository").
			WithContext("path", path).Build()
	}

	ref, err := repo.Head()
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return HeadInfo{}, nil
	}
	if err != nil {
		return HeadInfo{}, errors.WrapError(err, errors.CategoryRuntime, "resolve HEAD").
			WithContext("path", path).Build()
	}

	commit := ref.Hash().String()
	info := HeadInfo{Commit: commit, ShortCommit: commit[:8]}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, nil
}
