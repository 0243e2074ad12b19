// Package pattern resolves the policy's glob patterns against a
// directory tree into a concrete, deterministic file set.
package pattern

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternError reports a glob that does not parse, identifying the
// offending pattern and its 1-based position in the policy list.
type PatternError struct {
	Pattern string
	Line    int
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("bad glob pattern %q (pattern %d)", e.Pattern, e.Line)
}

// Ref points back at a policy pattern by text and 1-based position.
type Ref struct {
	Pattern string
	Line    int
}

// Directories never scanned for protectable files. Matches the skip
// list of the original tool: VCS metadata and build output trees.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"target":       true,
}

// Set is a compiled, ordered pattern list.
type Set struct {
	patterns []string
}

// Compile validates every pattern eagerly. The first unparsable glob
// fails the whole set with a PatternError.
func Compile(patterns []string) (*Set, error) {
	for i, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p, Line: i + 1}
		}
	}
	return &Set{patterns: patterns}, nil
}

// Validate reports whether a single glob parses. Used by the init
// wizard to reject patterns as they are typed.
func Validate(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return &PatternError{Pattern: pattern, Line: 1}
	}
	return nil
}

// Matching returns every pattern in the set that covers rel, a
// slash-separated path relative to the protected root. A pattern that
// names a parent directory of rel covers rel as well.
func (s *Set) Matching(rel string) []Ref {
	var refs []Ref
	for i, p := range s.patterns {
		if matchPath(p, rel) {
			refs = append(refs, Ref{Pattern: p, Line: i + 1})
		}
	}
	return refs
}

// Files walks root and returns the relative paths of every regular
// file covered by the set, deduplicated and in lexicographic order.
// Directories are never returned; symbolic links are neither followed
// nor matched, so a link cannot pull in files from outside root.
func (s *Set) Files(root string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip rather than abort the scan.
			return nil
		}
		if p == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(s.Matching(rel)) > 0 && !seen[rel] {
			seen[rel] = true
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

func matchPath(pattern, rel string) bool {
	if ok, _ := doublestar.Match(pattern, rel); ok {
		return true
	}
	// A pattern naming a directory implicitly protects everything
	// beneath it.
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if ok, _ := doublestar.Match(pattern, dir); ok {
			return true
		}
	}
	return false
}
