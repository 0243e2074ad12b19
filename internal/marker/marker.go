// Package marker edits delimited text blocks inside arbitrary host
// files. One idempotent upsert/remove primitive, shared by git hook
// installation and agent-instruction injection.
package marker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Block identifies a text span by its exact-match delimiter lines.
type Block struct {
	Start string
	End   string
}

// Result reports what an edit did (or, in preview mode, would do).
type Result int

const (
	// Created: the block (and possibly the host file) was written fresh.
	Created Result = iota
	// Updated: delimiters kept, body replaced in place.
	Updated
	// Unchanged: the block already holds exactly this body.
	Unchanged
	// Removed: the block was stripped, the host file kept.
	Removed
	// DeletedFile: removing the block emptied a file this tool owns,
	// so the file itself was deleted.
	DeletedFile
	// NoOp: nothing to do (no file to edit, or no block to remove).
	NoOp
)

func (r Result) String() string {
	switch r {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	case Removed:
		return "removed"
	case DeletedFile:
		return "file deleted"
	case NoOp:
		return "skipped"
	default:
		return "unknown"
	}
}

// Contains reports whether the host file currently holds the block.
func Contains(path string, blk Block) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	_, _, ok := locate(splitLines(string(data)), blk)
	return ok
}

// Upsert installs body into the host file between blk's delimiters.
// An existing block is compared first: identical content is left alone
// (Unchanged), anything else is replaced in place with all content
// outside the span preserved (Updated). A file without the block gets
// it appended (Created). A missing file is created only when
// createIfMissing is set, otherwise the call is a NoOp.
func Upsert(path string, blk Block, body string, createIfMissing bool) (Result, error) {
	res, content, err := planUpsert(path, blk, body, createIfMissing)
	if err != nil || res == Unchanged || res == NoOp {
		return res, err
	}
	if res == Created {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return NoOp, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return NoOp, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return res, nil
}

// Preview computes the same decision as Upsert without touching disk.
func Preview(path string, blk Block, body string, createIfMissing bool) (Result, error) {
	res, _, err := planUpsert(path, blk, body, createIfMissing)
	return res, err
}

func planUpsert(path string, blk Block, body string, createIfMissing bool) (Result, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return NoOp, "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !createIfMissing {
			return NoOp, "", nil
		}
		return Created, render(blk, body) + "\n", nil
	}

	text := string(data)
	lines := splitLines(text)
	start, end, found := locate(lines, blk)
	if !found {
		// Append, separated from any prior content by a blank line.
		out := text
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if out != "" {
			out += "\n"
		}
		return Created, out + render(blk, body) + "\n", nil
	}

	current := strings.Join(lines[start+1:end], "\n")
	if current == body {
		return Unchanged, "", nil
	}

	replaced := append([]string{}, lines[:start+1]...)
	replaced = append(replaced, splitLines(body)...)
	replaced = append(replaced, lines[end:]...)
	return Updated, strings.Join(replaced, "\n"), nil
}

// Remove strips the block from the host file, span and delimiters
// included, along with the single blank separator line Upsert adds.
// When the remainder has no non-whitespace content and deleteWhenEmpty
// is set (the caller created the file), the file itself is deleted.
func Remove(path string, blk Block, deleteWhenEmpty bool) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NoOp, nil
		}
		return NoOp, fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines := splitLines(string(data))
	start, end, found := locate(lines, blk)
	if !found {
		return NoOp, nil
	}

	// Drop one preceding blank line so removal undoes an append exactly.
	if start > 0 && strings.TrimSpace(lines[start-1]) == "" {
		start--
	}
	remaining := append([]string{}, lines[:start]...)
	remaining = append(remaining, lines[end+1:]...)
	out := strings.Join(remaining, "\n")

	if strings.TrimSpace(out) == "" && deleteWhenEmpty {
		if err := os.Remove(path); err != nil {
			return NoOp, fmt.Errorf("failed to delete %s: %w", path, err)
		}
		return DeletedFile, nil
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return NoOp, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return Removed, nil
}

func render(blk Block, body string) string {
	return blk.Start + "\n" + body + "\n" + blk.End
}

// locate finds the first exact-match delimiter pair, returning the
// line indexes of the start and end delimiters.
func locate(lines []string, blk Block) (start, end int, found bool) {
	start = -1
	for i, line := range lines {
		if start < 0 {
			if line == blk.Start {
				start = i
			}
			continue
		}
		if line == blk.End {
			return start, i, true
		}
	}
	return 0, 0, false
}

// splitLines splits without losing track of a trailing newline: a text
// ending in "\n" yields a final empty element, so Join round-trips.
func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
