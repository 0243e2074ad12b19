package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfenderov/donttouch/internal/agent"
	"github.com/mfenderov/donttouch/internal/engine"
	"github.com/mfenderov/donttouch/internal/hooks"
	"github.com/mfenderov/donttouch/internal/pattern"
	"github.com/mfenderov/donttouch/internal/perm"
	"github.com/mfenderov/donttouch/internal/policy"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize donttouch in the current directory",
	Long: "Walks through setup: collect protection patterns, optionally lock\n" +
		"the matched files, install git hooks, and inject agent instructions.\n" +
		"Each step is committed as it completes; aborting keeps prior steps.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mustAllow(".", engine.CmdInit)
		reader := bufio.NewReader(os.Stdin)

		// Step 1: write an empty policy. Committed immediately so a
		// later abort still leaves a valid config behind.
		pol := &policy.Policy{Enabled: true}
		if err := policy.Save(".", pol); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Created " + policy.FileName))

		// Step 2: collect patterns, validating each as it is typed.
		fmt.Println("\nAdd file patterns to protect (glob syntax, one per line).")
		fmt.Println(dimStyle.Render("Examples: .env, secrets/**, docker-compose.prod.yml"))
		fmt.Println(dimStyle.Render("Press Enter on an empty line when done."))
		for {
			fmt.Print("pattern> ")
			line, err := reader.ReadString('\n')
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				if verr := pattern.Validate(trimmed); verr != nil {
					logger.Warn("Invalid pattern, try again", "pattern", trimmed)
				} else {
					pol.Patterns = append(pol.Patterns, trimmed)
					fmt.Println("   " + successStyle.Render("added ") + patternStyle.Render(trimmed))
				}
			}
			if err == io.EOF || trimmed == "" {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
		}

		if len(pol.Patterns) == 0 {
			fmt.Println(dimStyle.Render("\nNo patterns added. You can edit " + policy.FileName + " later."))
			return nil
		}
		if err := policy.Save(".", pol); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("\nSaved %d pattern(s) to %s", len(pol.Patterns), policy.FileName)))

		// Step 3: optionally lock right away.
		if confirm(reader, "Lock protected files now?") {
			e := &engine.Engine{Root: "."}
			outcomes, err := e.Lock()
			if err != nil {
				return err
			}
			reportBatch(outcomes, perm.NewlyLocked, "Locked")
		} else {
			fmt.Println(dimStyle.Render("Ok. Run 'donttouch lock' when you're ready."))
		}

		// Step 4: git hooks, only when a repository is present.
		ctx := detectContext(".")
		if ctx.IsGit() && confirm(reader, "Install git hooks (pre-commit, pre-push)?") {
			m := &hooks.Manager{Root: ".", Ctx: ctx}
			for _, h := range hooks.All {
				res, err := m.Install(h)
				if err != nil {
					logger.Error("Hook install failed", "hook", h, "error", err)
					continue
				}
				fmt.Println("   " + successStyle.Render(string(h)) + " " + dimStyle.Render(res.String()))
			}
		}

		// Step 5: agent instruction blocks.
		if confirm(reader, "Inject protection instructions into agent files?") {
			in := &agent.Injector{Root: "."}
			reportInject(in.Inject(pol.Patterns, false))
		}

		fmt.Println(successStyle.Render("\nDone."))
		return nil
	},
}

// confirm asks a yes/no question, defaulting to yes. EOF reads as no.
func confirm(reader *bufio.Reader, question string) bool {
	fmt.Print("\n" + question + " [Y/n] ")
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes"
}
