package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite - batch text normalizer",
	Long: `Rewrite is a parallel batch text-rewriting tool. It replaces every
occurrence of a configured source string with its target string across a
set of files, skipping user-declared protected regions such as code
fences and math environments, and rewrites each changed file in place.

Rules are read from a statement-based rule file or a YAML ruleset; with
no rule file, a builtin CJK punctuation-normalization ruleset is used.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
