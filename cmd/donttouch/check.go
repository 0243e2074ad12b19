package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfenderov/donttouch/internal/engine"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if any protected files are writable (exits non-zero if so)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mustAllow(".", engine.CmdCheck)

		state, err := engine.Resolve(".")
		if err != nil {
			return err
		}
		if state == engine.Disabled {
			fmt.Println(dimStyle.Render("Protection is disabled. Skipping check."))
			return nil
		}

		e := &engine.Engine{Root: "."}
		report, err := e.Check(detectContext("."))
		if err != nil {
			return err
		}
		if report.Pass() {
			fmt.Println(successStyle.Render("All protected files are read-only."))
			return nil
		}

		// Every offending path is listed; nothing is truncated.
		if len(report.Writable) > 0 {
			fmt.Println(writableStyle.Render("Protected files are writable!"))
			for _, p := range report.Writable {
				fmt.Println("   " + p)
			}
		}
		if len(report.Staged) > 0 {
			fmt.Println(writableStyle.Render("Protected files are staged for commit!"))
			for _, p := range report.Staged {
				fmt.Println("   " + p)
			}
		}
		fmt.Println(dimStyle.Render("Run 'donttouch lock' to make them read-only."))
		os.Exit(1)
		return nil
	},
}

var checkPushCmd = &cobra.Command{
	Use:   "check-push",
	Short: "Check whether pushing is allowed (exits non-zero while disabled)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mustAllow(".", engine.CmdCheckPush)
		e := &engine.Engine{Root: "."}

		blocked, err := e.CheckPush()
		if err != nil {
			return err
		}
		if blocked {
			fmt.Println(writableStyle.Render("Push blocked: protection is disabled."))
			fmt.Println(dimStyle.Render("Run 'donttouch enable' first."))
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("Protection enabled. Push allowed."))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List protected files and their current state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mustAllow(".", engine.CmdStatus)
		e := &engine.Engine{Root: "."}

		snap, err := e.Derive()
		if err != nil {
			return err
		}

		if snap.Policy.Enabled {
			fmt.Println(titleStyle.Render("Protection: enabled"))
		} else {
			fmt.Println(titleStyle.Render("Protection: disabled"))
		}

		ctx := detectContext(".")
		line := "Context: " + ctx.Kind.String()
		if ctx.HasHusky {
			line += " (husky)"
		}
		if ctx.HooksInstalled {
			line += " (hooks installed)"
		}
		fmt.Println(dimStyle.Render(line))

		fmt.Println("\nPatterns:")
		if len(snap.Policy.Patterns) == 0 {
			fmt.Println(dimStyle.Render("   (none)"))
		}
		for _, p := range snap.Policy.Patterns {
			fmt.Println("   " + patternStyle.Render(p))
		}

		fmt.Println("\nProtected files:")
		for _, f := range snap.Files {
			state := writableStyle.Render("writable ")
			if f.Locked {
				state = lockedStyle.Render("read-only")
			}
			suffix := ""
			if f.Origin == engine.PolicyFile {
				suffix = dimStyle.Render("  (policy file)")
			}
			fmt.Println("   " + state + "  " + f.Path + suffix)
		}
		return nil
	},
}

var whyCmd = &cobra.Command{
	Use:   "why <file>",
	Short: "Show which patterns protect a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mustAllow(".", engine.CmdWhy)
		e := &engine.Engine{Root: "."}

		refs, err := e.Why(args[0])
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Println(dimStyle.Render(args[0] + " is not protected by any pattern."))
			return nil
		}
		fmt.Println(titleStyle.Render(args[0]) + " is protected by:")
		for _, r := range refs {
			fmt.Printf("   %s %s\n", patternStyle.Render(r.Pattern), dimStyle.Render(fmt.Sprintf("(pattern %d)", r.Line)))
		}
		return nil
	},
}
