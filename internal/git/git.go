// Package git reads repository metadata and working tree changes through
// go-git so scans work without a git binary on PATH.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Metadata describes the repository a scan ran in. Fields are empty when
// they cannot be determined.
type Metadata struct {
	Repo   string
	Commit string
	Branch string
}

func open(root string) (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
}

// RepoMetadata returns the origin URL, HEAD commit and current branch for
// the repository containing root. Outside a repository every field is empty.
func RepoMetadata(root string) Metadata {
	var md Metadata
	repo, err := open(root)
	if err != nil {
		return md
	}
	if rem, err := repo.Remote("origin"); err == nil {
		if urls := rem.Config().URLs; len(urls) > 0 {
			md.Repo = urls[0]
		}
	}
	head, err := repo.Head()
	if err != nil {
		// unborn branch: HEAD points at a ref with no commits yet
		if ref, rerr := repo.Reference(plumbing.HEAD, false); rerr == nil && ref.Type() == plumbing.SymbolicReference {
			md.Branch = ref.Target().Short()
		}
		return md
	}
	md.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		md.Branch = head.Name().Short()
	} else {
		md.Branch = "HEAD"
	}
	return md
}

// ErrNotRepository is returned when root is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// ChangedFiles lists files under root that differ from HEAD: staged,
// modified or untracked. Deleted files are left out. Paths are absolute and
// sorted.
func ChangedFiles(root string) ([]string, error) {
	repo, err := open(root)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, root)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	st, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	top := wt.Filesystem.Root()
	var out []string
	for rel, fs := range st {
		if fs.Worktree == gogit.Deleted || (fs.Staging == gogit.Deleted && fs.Worktree != gogit.Untracked) {
			continue
		}
		if fs.Worktree == gogit.Unmodified && fs.Staging == gogit.Unmodified {
			continue
		}
		out = append(out, filepath.Join(top, filepath.FromSlash(rel)))
	}
	sort.Strings(out)
	return out, nil
}
