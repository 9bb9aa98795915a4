package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindFile.
const FileName = "tsolve.toml"

// TraceConfig mirrors the tracer flags of the command line.
type TraceConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=off error phase detail debug"`
	Mode   string `toml:"mode" validate:"omitempty,oneof=stream ring both"`
	Output string `toml:"output"`
}

// File is the decoded tsolve.toml.
type File struct {
	Solver  Options     `toml:"solver"`
	Trace   TraceConfig `toml:"trace"`
	Workers int         `toml:"workers" validate:"gte=0,lte=1024"`
}

// DefaultFile returns a File holding default options.
func DefaultFile() File {
	return File{Solver: Default()}
}

// FindFile walks from startDir towards the root looking for tsolve.toml.
func FindFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile decodes path on top of the defaults and validates the result.
// Keys absent from the file keep their default values.
func LoadFile(path string) (File, error) {
	cfg := DefaultFile()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return File{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := ValidateFile(&cfg); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
