package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/rewrite/pkg/discover"
	"github.com/praetorian-inc/rewrite/pkg/matcher"
	"github.com/praetorian-inc/rewrite/pkg/processor"
	"github.com/praetorian-inc/rewrite/pkg/rule"
	"github.com/praetorian-inc/rewrite/pkg/statusd"
	"github.com/praetorian-inc/rewrite/pkg/store"
	"github.com/praetorian-inc/rewrite/pkg/types"
)

var (
	runRulesPath      string
	runThreads        int
	runPageSize       int
	runMaxFileSize    int64
	runIncludeHidden  bool
	runFollowSymlinks bool
	runFollowIncludes bool
	runReportPath     string
	runStatusAddr     string
)

var runCmd = &cobra.Command{
	Use:   "run <path>...",
	Short: "Rewrite files in place",
	Long:  "Apply the configured replacement rules to files, directories, or glob patterns, rewriting changed files in place",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runRulesPath, "rules", "", "Path to a rule file (statement DSL or YAML); builtin punctuation rules when unset")
	runCmd.Flags().IntVar(&runThreads, "threads", 0, "Maximum worker count (0 = auto from file and CPU count)")
	runCmd.Flags().IntVar(&runPageSize, "page-size", 0, "Target page size in runes (0 = default)")
	runCmd.Flags().Int64Var(&runMaxFileSize, "max-file-size", 10*1024*1024, "Skip files larger than this (bytes, 0 = no limit)")
	runCmd.Flags().BoolVar(&runIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	runCmd.Flags().BoolVar(&runFollowSymlinks, "follow-symlinks", false, "Include symlinked files (symlinked directories are not descended)")
	runCmd.Flags().BoolVar(&runFollowIncludes, "follow-includes", false, `Follow LaTeX \include{...}/\input{...} directives`)
	runCmd.Flags().StringVar(&runReportPath, "report", "", "Record per-file outcomes to a SQLite ledger at this path")
	runCmd.Flags().StringVar(&runStatusAddr, "status-addr", "", "Serve a JSON progress snapshot on this address while running")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Load rules
	cfg, err := loadRuleConfig(runRulesPath)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	// Resolve the file set
	files, err := discover.Discover(context.Background(), args, discover.Options{
		IncludeHidden:  runIncludeHidden,
		FollowSymlinks: runFollowSymlinks,
		MaxFileSize:    runMaxFileSize,
		FollowIncludes: runFollowIncludes,
	})
	if err != nil {
		return fmt.Errorf("resolving targets: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matched %v", args)
	}

	// Create the run ledger
	recorder := store.NewNoop()
	if runReportPath != "" {
		s, err := store.NewSQLite(runReportPath)
		if err != nil {
			return fmt.Errorf("opening report ledger: %w", err)
		}
		defer s.Close()
		recorder = s
	}

	m := matcher.Build(cfg.Replacements, cfg.Deletions)
	proc := processor.New(m, cfg.Protected, runPageSize)

	// Optional live status endpoint
	if runStatusAddr != "" {
		tracker := statusd.NewTracker()
		tracker.BatchStarted(len(files))
		proc.SetObserver(tracker.FileFinished)

		srv := statusd.NewServer(tracker, runStatusAddr)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("starting status server: %w", err)
		}
		defer srv.Close()
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Status endpoint: http://%s/status\n", srv.Addr())
		}
	}

	startTime := time.Now()
	results := proc.Process(files, runThreads)

	runID := startTime.UTC().Format(time.RFC3339Nano)
	for _, res := range results {
		if err := recorder.Record(runID, res); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "recording %s: %v\n", res.FilePath, err)
		}
	}

	printSummary(cmd, results, time.Since(startTime))

	if failed := countFailed(results); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func loadRuleConfig(path string) (*rule.Config, error) {
	loader := rule.NewLoader()
	if path != "" {
		return loader.Load(path)
	}
	return loader.LoadBuiltin()
}

func countFailed(results []types.ProcessingResult) int {
	n := 0
	for _, res := range results {
		if !res.OK {
			n++
		}
	}
	return n
}

func printSummary(cmd *cobra.Command, results []types.ProcessingResult, elapsed time.Duration) {
	if quiet {
		for _, res := range results {
			if !res.OK {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", res.FilePath, res.ErrMsg)
			}
		}
		return
	}

	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	changed := 0
	replacements := 0
	for _, res := range results {
		switch {
		case !res.OK:
			fmt.Fprintf(out, "%s %s: %s\n", red("FAIL"), res.FilePath, res.ErrMsg)
		case res.ReplacementCount > 0:
			changed++
			replacements += res.ReplacementCount
			if verbose {
				fmt.Fprintf(out, "%s %s (%d replacements)\n", green("OK"), res.FilePath, res.ReplacementCount)
			}
		default:
			if verbose {
				fmt.Fprintf(out, "%s %s\n", faint("--"), res.FilePath)
			}
		}
	}

	fmt.Fprintf(out, "%d files processed, %s changed, %s applied in %s\n",
		len(results),
		green(fmt.Sprintf("%d", changed)),
		green(fmt.Sprintf("%d replacements", replacements)),
		elapsed.Round(time.Millisecond),
	)
	if failed := countFailed(results); failed > 0 {
		fmt.Fprintf(out, "%s\n", red(fmt.Sprintf("%d files failed", failed)))
	}
}
