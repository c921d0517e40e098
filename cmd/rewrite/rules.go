package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/rewrite/pkg/rule"
)

var rulesFilePath string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage replacement rules",
	Long:  "Commands for validating and inspecting rule files",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a rule file",
	Long:  "Parse a rule file and report any errors without processing files",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesValidate,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective rules",
	Long:  "Display the replacement and protection rules a run would use",
	RunE:  runRulesList,
}

func init() {
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().StringVar(&rulesFilePath, "rules", "", "Path to a rule file; builtin punctuation rules when unset")
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	cfg, err := rule.NewLoader().Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d replacements, %d deletions, %d protected regions\n",
		args[0], cfg.Replacements.Len(), len(cfg.Deletions), len(cfg.Protected))
	return nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuleConfig(rulesFilePath)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tFROM\tTO")
	cfg.Replacements.Each(func(pattern, replacement []rune) {
		fmt.Fprintf(w, "replace\t%q\t%q\n", string(pattern), string(replacement))
	})
	for pattern := range cfg.Deletions {
		fmt.Fprintf(w, "delete\t%q\t\n", pattern)
	}
	for _, spec := range cfg.Protected {
		if spec.IsLiteral() {
			fmt.Fprintf(w, "protect-content\t%q\t\n", string(spec.StartMarker))
			continue
		}
		fmt.Fprintf(w, "protect\t%q\t%q\n", string(spec.StartMarker), string(spec.EndMarker))
	}
	return w.Flush()
}
