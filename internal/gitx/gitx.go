// Package gitx classifies a protected tree as plain or git-managed and
// enumerates staged files for the pre-commit check.
package gitx

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
)

// Kind is the working-tree classification.
type Kind int

const (
	// Plain: no version control metadata, or git integration ignored.
	Plain Kind = iota
	// Git: a git repository rooted at the protected directory.
	Git
)

func (k Kind) String() string {
	if k == Git {
		return "git"
	}
	return "plain"
}

// Context is the observed classification of a working tree. Purely
// derived; it is never persisted anywhere.
type Context struct {
	Kind           Kind
	HasHusky       bool
	HooksInstalled bool
}

// IsGit reports whether git-only behaviors (hook install, staged-file
// checks) are available.
func (c Context) IsGit() bool { return c.Kind == Git }

// HuskyDir is the hook directory used by Husky-managed repositories.
const HuskyDir = ".husky"

// Detect classifies root. With ignoreGit set the answer is always
// Plain. Detection is read-only. HooksInstalled is filled in by the
// hooks package, which owns the marker the probe looks for.
func Detect(root string, ignoreGit bool) Context {
	if ignoreGit {
		return Context{Kind: Plain}
	}
	if _, err := git.PlainOpen(root); err != nil {
		return Context{Kind: Plain}
	}

	ctx := Context{Kind: Git}
	if info, err := os.Stat(filepath.Join(root, HuskyDir)); err == nil && info.IsDir() {
		ctx.HasHusky = true
	}
	return ctx
}

// StagedFiles returns the repo-relative paths currently staged for
// commit, sorted. Used by check to reject protected files that are
// about to be committed.
func StagedFiles(root string) ([]string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read git status: %w", err)
	}

	var staged []string
	for path, st := range status {
		switch st.Staging {
		case git.Unmodified, git.Untracked:
		default:
			staged = append(staged, path)
		}
	}
	sort.Strings(staged)
	return staged, nil
}
