// Package hooks installs and removes the donttouch git hook blocks.
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mfenderov/donttouch/internal/gitx"
	"github.com/mfenderov/donttouch/internal/marker"
)

// Hook names the two hook scripts donttouch manages.
type Hook string

const (
	// PreCommit blocks commits while protected files are writable or staged.
	PreCommit Hook = "pre-commit"
	// PrePush blocks pushes while protection is disabled.
	PrePush Hook = "pre-push"
)

// All lists the managed hooks in install order.
var All = []Hook{PreCommit, PrePush}

// Block delimits the donttouch-owned span inside a hook script.
var Block = marker.Block{
	Start: "# >>> donttouch >>>",
	End:   "# <<< donttouch <<<",
}

const shebang = "#!/bin/sh"

// Body returns the script the hook runs, failing the git operation when
// the corresponding check fails.
func Body(h Hook) string {
	switch h {
	case PrePush:
		return "donttouch check-push || exit 1"
	default:
		return "donttouch check || exit 1"
	}
}

// Manager installs hook blocks for one protected tree.
type Manager struct {
	Root string
	Ctx  gitx.Context
}

// Dir returns the hook directory: Husky's when the repo uses Husky,
// the native git hook directory otherwise.
func (m *Manager) Dir() string {
	if m.Ctx.HasHusky {
		return filepath.Join(m.Root, gitx.HuskyDir)
	}
	return filepath.Join(m.Root, ".git", "hooks")
}

// Install upserts the hook block. A wholly absent script is created
// fresh as an executable shebang wrapper around the block; an existing
// script keeps all of its prior content (lint-staged and friends) and
// gets the block appended.
func (m *Manager) Install(h Hook) (marker.Result, error) {
	path := filepath.Join(m.Dir(), string(h))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(m.Dir(), 0o755); err != nil {
			return marker.NoOp, fmt.Errorf("failed to create hook directory: %w", err)
		}
		content := shebang + "\n\n" + Block.Start + "\n" + Body(h) + "\n" + Block.End + "\n"
		if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
			return marker.NoOp, fmt.Errorf("failed to create %s hook: %w", h, err)
		}
		return marker.Created, nil
	}

	res, err := marker.Upsert(path, Block, Body(h), false)
	if err != nil {
		return res, fmt.Errorf("failed to install %s hook: %w", h, err)
	}
	return res, nil
}

// Remove strips the block from the hook script. When nothing operative
// remains (only the shebang, comments and blank lines), the script is
// deleted; a script that still carries other hook logic is kept.
func (m *Manager) Remove(h Hook) (marker.Result, error) {
	path := filepath.Join(m.Dir(), string(h))

	res, err := marker.Remove(path, Block, false)
	if err != nil {
		return res, fmt.Errorf("failed to remove %s hook: %w", h, err)
	}
	if res != marker.Removed {
		return res, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, nil
	}
	if !operative(string(data)) {
		if err := os.Remove(path); err != nil {
			return res, fmt.Errorf("failed to delete emptied %s hook: %w", h, err)
		}
		return marker.DeletedFile, nil
	}
	return marker.Removed, nil
}

// Installed reports whether any managed hook script carries the block.
// Feeds Context.HooksInstalled.
func Installed(root string, ctx gitx.Context) bool {
	m := &Manager{Root: root, Ctx: ctx}
	for _, h := range All {
		if marker.Contains(filepath.Join(m.Dir(), string(h)), Block) {
			return true
		}
	}
	return false
}

// operative reports whether a script contains anything beyond the
// shebang, comments and whitespace.
func operative(script string) bool {
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return true
	}
	return false
}
