package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tsolve/internal/config"
)

// loadConfig reads tsolve.toml (from --config or the nearest one above the
// working directory) and applies --set overrides to its solver options.
func loadConfig(cmd *cobra.Command) (config.File, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.File{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := config.FindFile(".")
		if err != nil {
			return config.File{}, err
		}
		if ok {
			path = found
		}
	}

	cfg := config.DefaultFile()
	if path != "" {
		if cfg, err = config.LoadFile(path); err != nil {
			return config.File{}, err
		}
	}

	sets, err := flags.GetStringArray("set")
	if err != nil {
		return config.File{}, fmt.Errorf("failed to get set flag: %w", err)
	}
	if err := config.ApplyOverrides(&cfg.Solver, sets); err != nil {
		return config.File{}, err
	}
	return cfg, nil
}
