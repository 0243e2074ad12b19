package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfenderov/donttouch/internal/agent"
	"github.com/mfenderov/donttouch/internal/engine"
	"github.com/mfenderov/donttouch/internal/hooks"
	"github.com/mfenderov/donttouch/internal/marker"
	"github.com/mfenderov/donttouch/internal/policy"
)

var injectDryRun bool

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Inject do-not-modify instructions into agent files",
	Long: "Upserts a managed block listing the protected patterns into the\n" +
		"instruction files of known coding agents (CLAUDE.md, AGENTS.md,\n" +
		"Cursor rules, GEMINI.md, Copilot). Safe to re-run; an unchanged\n" +
		"block is left alone.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mustAllow(".", engine.CmdInject)

		pol, err := policy.Load(".")
		if err != nil {
			return err
		}

		in := &agent.Injector{Root: "."}
		reportInject(in.Inject(pol.Patterns, injectDryRun))
		return nil
	},
}

func init() {
	injectCmd.Flags().BoolVar(&injectDryRun, "dry-run", false, "show what would change without writing")
}

var removeCmd = &cobra.Command{
	Use:   "remove <target>",
	Short: "Remove donttouch entirely (must run from outside target directory)",
	Long: "Full teardown: unlock every protected file, strip the git hook\n" +
		"blocks and agent instruction blocks, and delete the policy file.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustBeOutside(args[0])
		mustAllow(root, engine.CmdRemove)
		e := &engine.Engine{Root: root}

		// Unlock first so the later deletions can write.
		outcomes, err := e.Unlock()
		if err != nil {
			return err
		}
		failed := 0
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
				logger.Error("Failed to unlock", "path", o.Path, "error", o.Err)
			}
		}

		ctx := detectContext(root)
		if ctx.IsGit() {
			m := &hooks.Manager{Root: root, Ctx: ctx}
			for _, h := range hooks.All {
				if _, err := m.Remove(h); err != nil {
					failed++
					logger.Error("Failed to remove hook", "hook", h, "error", err)
				}
			}
		}

		in := &agent.Injector{Root: root}
		for _, o := range in.Remove() {
			if o.Err != nil {
				failed++
				logger.Error("Failed to clean agent file", "target", o.Target, "error", o.Err)
			}
		}

		if err := os.Remove(policy.Path(root)); err != nil {
			failed++
			logger.Error("Failed to delete policy file", "error", err)
		}

		if failed > 0 {
			logger.Error("Teardown finished with failures", "failed", failed)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("donttouch removed from " + root))
		return nil
	},
}

// reportInject prints per-target inject/remove outcomes. Dry-run
// outcomes carry the same shape, prefixed with "would".
func reportInject(outcomes []agent.Outcome) {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			logger.Error("Failed", "target", o.Target, "error", o.Err)
			continue
		}
		verb := o.Result.String()
		if o.DryRun && o.Result != marker.Unchanged && o.Result != marker.NoOp {
			verb = "would be " + verb
		}
		style := dimStyle
		if o.Result == marker.Created || o.Result == marker.Updated {
			style = successStyle
		}
		fmt.Println("   " + patternStyle.Render(o.Target) + " " + style.Render(verb))
	}
	if failed > 0 {
		logger.Error("Injection finished with failures", "failed", failed)
		os.Exit(1)
	}
}
