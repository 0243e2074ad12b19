package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfenderov/donttouch/internal/engine"
	"github.com/mfenderov/donttouch/internal/perm"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Make all protected files read-only",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mustAllow(".", engine.CmdLock)
		e := &engine.Engine{Root: "."}

		outcomes, err := e.Lock()
		if err != nil {
			return err
		}
		if len(outcomes) == 0 {
			fmt.Println(successStyle.Render("All protected files are already read-only."))
			return nil
		}
		reportBatch(outcomes, perm.NewlyLocked, "Locked")
		return nil
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <target>",
	Short: "Restore write permissions (must run from outside target directory)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustBeOutside(args[0])
		mustAllow(root, engine.CmdUnlock)
		e := &engine.Engine{Root: root}

		outcomes, err := e.Unlock()
		if err != nil {
			return err
		}
		reportBatch(outcomes, perm.NewlyUnlocked, "Unlocked")
		fmt.Println(dimStyle.Render("Protection disabled. Run 'donttouch enable' before you can push."))
		return nil
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Re-enable protection (lock files, resume checks)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mustAllow(".", engine.CmdEnable)
		e := &engine.Engine{Root: "."}

		outcomes, err := e.Lock()
		if err != nil {
			return err
		}
		reportBatch(outcomes, perm.NewlyLocked, "Locked")
		fmt.Println(successStyle.Render("Protection enabled."))
		return nil
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <target>",
	Short: "Disable protection (must run from outside target directory)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustBeOutside(args[0])
		mustAllow(root, engine.CmdDisable)
		e := &engine.Engine{Root: root}

		outcomes, err := e.Unlock()
		if err != nil {
			return err
		}
		reportBatch(outcomes, perm.NewlyUnlocked, "Unlocked")
		fmt.Println(dimStyle.Render("Protection disabled. Run 'donttouch enable' before you can push."))
		return nil
	},
}

// reportBatch prints per-file outcomes and summarizes them. Exits
// non-zero when any file in the batch failed.
func reportBatch(outcomes []engine.FileOutcome, changed perm.Outcome, verb string) {
	var changedCount, alreadyCount, failed int
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			logger.Error("Failed", "path", o.Path, "error", o.Err)
		case o.Outcome == changed:
			changedCount++
			fmt.Println("   " + patternStyle.Render(o.Path))
		default:
			alreadyCount++
		}
	}

	if changedCount > 0 {
		fmt.Println(successStyle.Render(fmt.Sprintf("%s %d file(s).", verb, changedCount)))
	}
	if alreadyCount > 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("(%d already in the right state)", alreadyCount)))
	}
	if failed > 0 {
		logger.Error("Batch finished with failures", "failed", failed)
		os.Exit(1)
	}
}
