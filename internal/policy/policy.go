// Package policy loads and saves the protection policy document.
package policy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the policy document kept at the root of a protected tree.
const FileName = ".donttouch.toml"

// ErrMissing is returned by Load when no policy document exists at root.
var ErrMissing = errors.New("no " + FileName + " found")

// MalformedError reports a policy document that exists but does not parse.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Policy is the persisted protection policy: an enabled flag plus the
// glob patterns naming the files it covers. Patterns are resolved
// relative to the directory holding the policy document.
type Policy struct {
	Enabled  bool
	Patterns []string
}

// document mirrors the on-disk TOML shape. Enabled is a pointer so a
// missing key can default to true instead of false.
type document struct {
	Protect section `toml:"protect"`
}

type section struct {
	Enabled  *bool    `toml:"enabled"`
	Patterns []string `toml:"patterns"`
}

// Path returns the policy document path for root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the policy document at root. A missing enabled key
// defaults to true and missing patterns default to empty. Unknown keys
// and sections are ignored for forward compatibility.
func Load(root string) (*Policy, error) {
	path := Path(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMissing
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, &MalformedError{Path: path, Err: err}
	}

	p := &Policy{Enabled: true, Patterns: doc.Protect.Patterns}
	if doc.Protect.Enabled != nil {
		p.Enabled = *doc.Protect.Enabled
	}
	return p, nil
}

// Save rewrites the whole policy document at root. A full rewrite, not
// an in-place patch, so stale keys never survive a save.
func Save(root string, p *Policy) error {
	var b strings.Builder
	b.WriteString("# donttouch configuration\n")
	b.WriteString("# Protect files from being modified by AI coding agents and accidental changes.\n")
	b.WriteString("\n[protect]\n")
	fmt.Fprintf(&b, "enabled = %t\n", p.Enabled)
	if len(p.Patterns) == 0 {
		b.WriteString("patterns = []\n")
	} else {
		b.WriteString("patterns = [\n")
		for _, pat := range p.Patterns {
			fmt.Fprintf(&b, "    %q,\n", pat)
		}
		b.WriteString("]\n")
	}

	if err := os.WriteFile(Path(root), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", Path(root), err)
	}
	return nil
}
