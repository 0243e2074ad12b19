// Package guard implements the outside-directory precondition for
// destructive commands: unlocking or disabling protection must never
// be possible from a shell (or agent) working inside the protected
// tree.
package guard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrTargetNotFound is returned when the target path does not resolve
// to an existing directory.
var ErrTargetNotFound = errors.New("target directory not found")

// GuardError reports an attempt to run a destructive command from
// inside (or below) its own target directory.
type GuardError struct {
	Current string
	Target  string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf(
		"this command must be run from outside the target directory\n\n"+
			"  current directory: %s\n"+
			"  target directory:  %s\n\n"+
			"This restriction prevents AI coding agents from disabling protection\n"+
			"while working inside the project.",
		e.Current, e.Target)
}

// AssertOutside fails when cwd is the target directory or any
// descendant of it. Both paths are canonicalized first (symlinks, "."
// and ".." resolved), which is what defeats symlink and relative-path
// tricks. On success it returns the canonical target, suitable as the
// protected root. Pure check: nothing on disk changes.
func AssertOutside(cwd, target string) (string, error) {
	canonTarget, err := canonicalize(target)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve %q: %v", ErrTargetNotFound, target, err)
	}
	canonCwd, err := canonicalize(cwd)
	if err != nil {
		return "", fmt.Errorf("cannot resolve current directory %q: %w", cwd, err)
	}

	if canonCwd == canonTarget || strings.HasPrefix(canonCwd, canonTarget+string(filepath.Separator)) {
		return "", &GuardError{Current: canonCwd, Target: canonTarget}
	}
	return canonTarget, nil
}

func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
