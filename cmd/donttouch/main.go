package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mfenderov/donttouch/internal/engine"
	"github.com/mfenderov/donttouch/internal/gitx"
	"github.com/mfenderov/donttouch/internal/guard"
	"github.com/mfenderov/donttouch/internal/hooks"
)

var (
	ignoreGit bool
	Version   = "dev"
	logger    = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	writableStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))

	patternStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "donttouch",
	Short: "Protect files from AI coding agents and accidental changes",
	Long: titleStyle.Render("donttouch") + " - declarative file protection\n\n" +
		"Locks pattern-matched files read-only and keeps them that way:\n" +
		"protection can only be lifted from outside the protected directory.",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&ignoreGit, "ignoregit", false,
		"ignore git integration (treat directory as plain)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(checkPushCmd)
	rootCmd.AddCommand(whyCmd)
	rootCmd.AddCommand(injectCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		os.Stdout.WriteString(titleStyle.Render("donttouch") + " " + dimStyle.Render(Version) + "\n")
	},
}

// detectContext classifies root, filling in the hook probe the gitx
// package cannot run itself.
func detectContext(root string) gitx.Context {
	ctx := gitx.Detect(root, ignoreGit)
	if ctx.IsGit() {
		ctx.HooksInstalled = hooks.Installed(root, ctx)
	}
	return ctx
}

// mustAllow applies the transition table. Benign refusals (already
// enabled/disabled) succeed with a note; everything else is fatal.
func mustAllow(root string, c engine.Command) {
	state, err := engine.Resolve(root)
	if err != nil {
		logger.Error("Cannot read config", "error", err)
		os.Exit(1)
	}
	if err := engine.Allowed(state, c); err != nil {
		if errors.Is(err, engine.ErrAlreadyEnabled) || errors.Is(err, engine.ErrAlreadyDisabled) {
			logger.Info(err.Error())
			os.Exit(0)
		}
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// mustBeOutside runs the outside-directory guard and returns the
// canonical protected root. Exits before any mutation on failure.
func mustBeOutside(target string) string {
	cwd, err := os.Getwd()
	if err != nil {
		logger.Error("Cannot resolve current directory", "error", err)
		os.Exit(1)
	}
	root, err := guard.AssertOutside(cwd, target)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	return root
}
