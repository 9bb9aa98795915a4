package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tsolve/internal/fixture"
)

// errFixturesFailed makes the process exit non-zero after the report has
// been printed.
var errFixturesFailed = errors.New("fixtures failed")

var runCmd = &cobra.Command{
	Use:   "run [flags] <fixture.toml|directory>...",
	Short: "Run solver fixtures",
	Long:  `Run every fixture file given or found under the given directories and report the failing cases`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFixtures,
}

func init() {
	runCmd.Flags().String("format", "text", "output format (text|json)")
	runCmd.Flags().IntP("jobs", "j", 0, "max fixtures solved in parallel (0=config or one per file)")
	runCmd.Flags().BoolP("verbose", "v", false, "list passing cases and solver notes")
	runCmd.Flags().Bool("timings", false, "show per-file timings")
	runCmd.Flags().Int("max-diagnostics", 256, "maximum solver notes kept per fixture")
	runCmd.Flags().String("ui", "auto", "progress view for text output (auto|on|off)")
}

// runFixtures executes the run command. It returns errFixturesFailed when a
// fixture could not be loaded or a case failed.
func runFixtures(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = cfg.Workers
	}
	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	opts := fixture.Options{
		Config:         cfg.Solver,
		Workers:        jobs,
		MaxDiagnostics: maxDiagnostics,
	}
	var results []*fixture.Result
	if format == "text" && shouldUseTUI(mode) {
		results, err = runWithUI(cmd.Context(), args, opts)
	} else {
		results, err = fixture.Run(cmd.Context(), args, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = fixture.WriteJSON(out, results)
	} else {
		colored, cerr := useColor(cmd, out)
		if cerr != nil {
			return cerr
		}
		err = fixture.WriteText(out, results, fixture.ReportOptions{Color: colored, Verbose: verbose, Timings: timings})
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !fixture.Summarize(results).OK() {
		cmd.SilenceErrors = true
		return errFixturesFailed
	}
	return nil
}
