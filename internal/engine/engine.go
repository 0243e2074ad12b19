// Package engine derives protection state from the filesystem and
// applies lock/unlock transitions across the matched file set.
package engine

import (
	"errors"
	"path/filepath"

	"github.com/mfenderov/donttouch/internal/gitx"
	"github.com/mfenderov/donttouch/internal/pattern"
	"github.com/mfenderov/donttouch/internal/perm"
	"github.com/mfenderov/donttouch/internal/policy"
)

// ErrNotInitialized is returned when a command other than init runs
// against a tree with no policy document.
var ErrNotInitialized = errors.New("no " + policy.FileName + " found; run 'donttouch init' first")

// Origin records why a file is in the protected set.
type Origin int

const (
	// UserPattern: the file matched a policy pattern.
	UserPattern Origin = iota
	// PolicyFile: the policy document itself, always protected
	// regardless of patterns.
	PolicyFile
)

// FileStatus is the derived per-file protection state.
type FileStatus struct {
	Path   string // relative to the protected root
	Locked bool
	Refs   []pattern.Ref // patterns that matched; empty for the self-protected policy file
	Origin Origin
}

// Snapshot is the protection state derived from policy + filesystem.
// Rebuilt from disk on every call and never cached, so it cannot go
// stale between invocations.
type Snapshot struct {
	Policy *policy.Policy
	Files  []FileStatus
}

// FileOutcome is the per-file result of a lock or unlock batch.
type FileOutcome struct {
	Path    string
	Outcome perm.Outcome
	Err     error
}

// CheckReport lists the violations found by Check.
type CheckReport struct {
	Writable []string
	Staged   []string
}

// Pass reports whether the tree satisfies protection.
func (r *CheckReport) Pass() bool {
	return len(r.Writable) == 0 && len(r.Staged) == 0
}

// Engine runs protection operations against one directory tree.
type Engine struct {
	Root string
}

// Derive rebuilds the protection snapshot: load policy, match
// patterns, probe each file's lock state. The policy document is
// always appended to the matched set when no user pattern covers it.
func (e *Engine) Derive() (*Snapshot, error) {
	pol, err := policy.Load(e.Root)
	if err != nil {
		if errors.Is(err, policy.ErrMissing) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}

	set, err := pattern.Compile(pol.Patterns)
	if err != nil {
		return nil, err
	}
	rels, err := set.Files(e.Root)
	if err != nil {
		return nil, err
	}

	files := make([]FileStatus, 0, len(rels)+1)
	selfMatched := false
	for _, rel := range rels {
		fs := FileStatus{
			Path:   rel,
			Locked: perm.IsLocked(filepath.Join(e.Root, rel)),
			Refs:   set.Matching(rel),
			Origin: UserPattern,
		}
		if rel == policy.FileName {
			fs.Origin = PolicyFile
			selfMatched = true
		}
		files = append(files, fs)
	}
	if !selfMatched {
		files = append(files, FileStatus{
			Path:   policy.FileName,
			Locked: perm.IsLocked(policy.Path(e.Root)),
			Origin: PolicyFile,
		})
	}

	return &Snapshot{Policy: pol, Files: files}, nil
}

// Lock makes every protected file read-only and persists enabled=true.
// Returns an empty outcome set when protection was already enabled and
// every file already locked. Per-file failures are collected; the
// batch never aborts early.
func (e *Engine) Lock() ([]FileOutcome, error) {
	snap, err := e.Derive()
	if err != nil {
		return nil, err
	}

	wasEnabled := snap.Policy.Enabled
	if !wasEnabled {
		// The policy file must be writable to record the flag flip.
		if _, err := perm.Unlock(policy.Path(e.Root)); err != nil {
			return nil, err
		}
		snap.Policy.Enabled = true
		if err := policy.Save(e.Root, snap.Policy); err != nil {
			return nil, err
		}
	}

	outcomes := apply(e.Root, snap.Files, perm.Lock)
	if wasEnabled && allAre(outcomes, perm.AlreadyLocked) {
		return nil, nil
	}
	return outcomes, nil
}

// Unlock restores owner write on every protected file and persists
// enabled=false.
func (e *Engine) Unlock() ([]FileOutcome, error) {
	snap, err := e.Derive()
	if err != nil {
		return nil, err
	}

	outcomes := apply(e.Root, snap.Files, perm.Unlock)

	if snap.Policy.Enabled {
		snap.Policy.Enabled = false
		if err := policy.Save(e.Root, snap.Policy); err != nil {
			return outcomes, err
		}
	}
	return outcomes, nil
}

// Check verifies that every protected file is locked. In git context
// it additionally rejects protected files sitting in the staging area.
func (e *Engine) Check(ctx gitx.Context) (*CheckReport, error) {
	snap, err := e.Derive()
	if err != nil {
		return nil, err
	}

	report := &CheckReport{}
	protected := make(map[string]bool, len(snap.Files))
	for _, f := range snap.Files {
		protected[f.Path] = true
		if !f.Locked {
			report.Writable = append(report.Writable, f.Path)
		}
	}

	if ctx.IsGit() {
		staged, err := gitx.StagedFiles(e.Root)
		if err != nil {
			return nil, err
		}
		for _, s := range staged {
			if protected[s] {
				report.Staged = append(report.Staged, s)
			}
		}
	}
	return report, nil
}

// CheckPush reports whether a push should be blocked. Blocked solely
// by enabled=false; actual file lock state is irrelevant here.
func (e *Engine) CheckPush() (blocked bool, err error) {
	pol, err := policy.Load(e.Root)
	if err != nil {
		if errors.Is(err, policy.ErrMissing) {
			return false, ErrNotInitialized
		}
		return false, err
	}
	return !pol.Enabled, nil
}

// Why returns every policy pattern covering file, with its position in
// the pattern list.
func (e *Engine) Why(file string) ([]pattern.Ref, error) {
	pol, err := policy.Load(e.Root)
	if err != nil {
		if errors.Is(err, policy.ErrMissing) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	set, err := pattern.Compile(pol.Patterns)
	if err != nil {
		return nil, err
	}

	rel := file
	if filepath.IsAbs(file) {
		if r, err := filepath.Rel(e.Root, file); err == nil {
			rel = r
		}
	}
	return set.Matching(filepath.ToSlash(rel)), nil
}

func apply(root string, files []FileStatus, op func(string) (perm.Outcome, error)) []FileOutcome {
	outcomes := make([]FileOutcome, 0, len(files))
	for _, f := range files {
		out, err := op(filepath.Join(root, f.Path))
		outcomes = append(outcomes, FileOutcome{Path: f.Path, Outcome: out, Err: err})
	}
	return outcomes
}

func allAre(outcomes []FileOutcome, want perm.Outcome) bool {
	for _, o := range outcomes {
		if o.Err != nil || o.Outcome != want {
			return false
		}
	}
	return true
}
