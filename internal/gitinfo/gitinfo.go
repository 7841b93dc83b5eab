// Package gitinfo reads author and repository details that generators can
// use in their templates.
//
// Unlike a shell-out to the git CLI, this package uses go-git, so it works
// on machines without git installed. Every field is best-effort: a missing
// repository or an unset user.name simply leaves the field empty.
package gitinfo

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info holds git details for one directory.
type Info struct {
	// UserName and UserEmail come from user.name and user.email, with the
	// repository config overriding the global one.
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`

	// RepoRoot is the top-level directory of the enclosing repository.
	// Empty outside a repository.
	RepoRoot string `json:"repoRoot,omitempty"`

	// Branch is the short name of the checked-out branch, including an
	// unborn one. Empty on a detached HEAD or outside a repository.
	Branch string `json:"branch,omitempty"`
}

// InRepo reports whether the directory belongs to a git repository.
func (i Info) InRepo() bool {
	return i.RepoRoot != ""
}

// Detect collects git details for dir, walking up to find an enclosing
// repository.
func Detect(dir string) Info {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		// Not inside a repository; fall back to the global identity.
		var info Info
		if cfg, err := config.LoadConfig(config.GlobalScope); err == nil {
			info.UserName = cfg.User.Name
			info.UserEmail = cfg.User.Email
		}
		return info
	}
	return fromRepo(repo)
}

func fromRepo(repo *git.Repository) Info {
	var info Info

	// ConfigScoped merges the global config under the repository config.
	if cfg, err := repo.ConfigScoped(config.GlobalScope); err == nil {
		info.UserName = cfg.User.Name
		info.UserEmail = cfg.User.Email
	}

	if wt, err := repo.Worktree(); err == nil {
		info.RepoRoot = wt.Filesystem.Root()
	}

	info.Branch, _ = headBranch(repo)
	return info
}

// headBranch returns the branch HEAD points at. It reads the symbolic HEAD
// reference directly so that an unborn branch (no commits yet) still
// resolves.
func headBranch(repo *git.Repository) (string, error) {
	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", err
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", errors.New("detached HEAD")
	}
	target := head.Target()
	if !target.IsBranch() {
		return "", errors.New("HEAD does not point at a branch")
	}
	return target.Short(), nil
}
