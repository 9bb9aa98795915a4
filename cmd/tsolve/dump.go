package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tsolve/internal/fixture"
	"tsolve/internal/types"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <fixture.toml>",
	Short: "Write the interner arena of a solved fixture",
	Long: `Run a fixture and write every type its session interned as a msgpack
snapshot (records of id, kind and rendered text)`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringP("output", "o", "", "snapshot file (default: <fixture>.msgpack)")
	dumpCmd.Flags().Bool("list", false, "print the records instead of writing them")
}

func runDump(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fx, err := fixture.Load(args[0], cfg.Solver)
	if err != nil {
		return err
	}
	res := &fixture.Result{Path: fx.Path}
	prog := fixture.RunFixture(fx, fixture.Options{Config: cfg.Solver}, nil, res)
	if res.Err != nil {
		return res.Err
	}
	snap := prog.Interner.Snapshot(prog.Table)

	if list {
		return listSnapshot(cmd.OutOrStdout(), snap)
	}
	if output == "" {
		output = trimExt(args[0]) + ".msgpack"
	}
	if err := writeSnapshotFile(output, snap); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d types (%d cases, %d failed) to %s\n",
		len(snap.Records), len(res.Cases), res.Failed(), output)
	return nil
}

// writeSnapshotFile writes through a temporary file and renames it into
// place so a failed write never leaves a truncated snapshot.
func writeSnapshotFile(path string, snap *types.Snapshot) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "tsolve-dump-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = types.WriteSnapshot(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	return os.Rename(f.Name(), path)
}

func listSnapshot(out io.Writer, snap *types.Snapshot) error {
	for _, r := range snap.Records {
		if _, err := fmt.Fprintf(out, "%6d  %-14s %s\n", r.ID, r.Kind, r.Text); err != nil {
			return err
		}
	}
	return nil
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}
