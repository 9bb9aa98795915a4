package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tsolve/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "tsolve",
	Short:         "Structural type solver workbench",
	Long:          `tsolve runs type solver fixtures and inspects how type expressions evaluate`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// main executes the root command. Any error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.String("config", "", "path to tsolve.toml (default: nearest one above the working directory)")
	flags.StringArray("set", nil, "override a solver option, e.g. --set strict_null_checks=false (repeatable)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode=ring")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
