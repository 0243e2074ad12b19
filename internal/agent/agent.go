// Package agent injects do-not-modify instruction blocks into the
// instruction files of known coding agents.
package agent

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mfenderov/donttouch/internal/marker"
)

// Block delimits the donttouch-owned span inside an instruction file.
var Block = marker.Block{
	Start: "<!-- donttouch:start -->",
	End:   "<!-- donttouch:end -->",
}

// Target is one agent instruction file with its create policy.
type Target struct {
	// Path relative to the protected root.
	Path string
	// CreateIfMissing: write the file when absent. Targets without it
	// only receive the block when the agent's file already exists.
	CreateIfMissing bool
	// Owned: donttouch created this file exclusively, so removal may
	// delete it once the block is its only content.
	Owned bool
}

// Targets is the fixed set of supported agent instruction files.
var Targets = []Target{
	{Path: "CLAUDE.md"},
	{Path: "AGENTS.md"},
	{Path: filepath.Join(".cursor", "rules", "donttouch.mdc"), CreateIfMissing: true, Owned: true},
	{Path: "GEMINI.md"},
	{Path: filepath.Join(".github", "copilot-instructions.md")},
}

// Outcome is the per-target result of an inject or remove pass.
type Outcome struct {
	Target string
	Result marker.Result
	DryRun bool
	Err    error
}

// Injector writes instruction blocks for one protected tree.
type Injector struct {
	Root string
}

// Body renders the instruction block for the given protected patterns.
func Body(patterns []string) string {
	var b strings.Builder
	b.WriteString("## Protected files (donttouch)\n\n")
	b.WriteString("The following patterns are protected and must NOT be modified,\n")
	b.WriteString("deleted, renamed, or have their permissions changed:\n\n")
	if len(patterns) == 0 {
		b.WriteString("- (no patterns configured yet)\n")
	} else {
		for _, p := range patterns {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}
	b.WriteString("\nDo not edit or remove this block; it is managed by `donttouch inject`.")
	return b.String()
}

// Inject upserts the block into every target, honoring each target's
// create policy. In dry-run mode the same decisions are computed but
// nothing is written; outcomes keep the identical shape. Per-target
// failures are collected, never aborting the batch.
func (in *Injector) Inject(patterns []string, dryRun bool) []Outcome {
	body := Body(patterns)
	outcomes := make([]Outcome, 0, len(Targets))
	for _, t := range Targets {
		path := filepath.Join(in.Root, t.Path)
		var (
			res marker.Result
			err error
		)
		if dryRun {
			res, err = marker.Preview(path, Block, body, t.CreateIfMissing)
		} else {
			res, err = marker.Upsert(path, Block, body, t.CreateIfMissing)
		}
		outcomes = append(outcomes, Outcome{Target: t.Path, Result: res, DryRun: dryRun, Err: err})
	}
	return outcomes
}

// Remove strips the block from every target carrying one. Files
// donttouch exclusively created are deleted once emptied; pre-existing
// files are always kept.
func (in *Injector) Remove() []Outcome {
	outcomes := make([]Outcome, 0, len(Targets))
	for _, t := range Targets {
		path := filepath.Join(in.Root, t.Path)
		res, err := marker.Remove(path, Block, t.Owned)
		outcomes = append(outcomes, Outcome{Target: t.Path, Result: res, Err: err})
	}
	return outcomes
}
