package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	opts := Default()
	if err := Validate(&opts); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
	if !opts.StrictNullChecks || opts.NoUncheckedIndexedAccess {
		t.Fatalf("unexpected default flags: %+v", opts)
	}
}

func TestLoadFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	body := "workers = 2\n[solver]\nstrict_null_checks = false\nmax_subtype_depth = 12\n[trace]\nlevel = \"detail\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Solver.StrictNullChecks || cfg.Solver.MaxSubtypeDepth != 12 {
		t.Fatalf("file values not applied: %+v", cfg.Solver)
	}
	if cfg.Solver.MaxEvaluationDepth != DefaultMaxEvaluationDepth || !cfg.Solver.StrictFunctionTypes {
		t.Fatalf("defaults lost: %+v", cfg.Solver)
	}
	if cfg.Workers != 2 || cfg.Trace.Level != "detail" {
		t.Fatalf("unexpected file: %+v", cfg)
	}

	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	found, ok, err := FindFile(sub)
	if err != nil || !ok || found != path {
		t.Fatalf("FindFile = %q, %v, %v", found, ok, err)
	}
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"range":   "[solver]\nmax_subtype_depth = 0\n",
		"unknown": "[solver]\nstrict = true\n",
		"level":   "[trace]\nlevel = \"loud\"\n",
	}
	for name, body := range tests {
		path := filepath.Join(dir, name+".toml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	opts := Default()
	err := ApplyOverrides(&opts, []string{"strict_null_checks=false", " max_template_literal_expansion = 8"})
	if err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}
	if opts.StrictNullChecks || opts.MaxTemplateLiteralExpansion != 8 {
		t.Fatalf("overrides not applied: %+v", opts)
	}
	if opts.MaxSubtypeDepth != DefaultMaxSubtypeDepth {
		t.Fatalf("untouched option changed")
	}
	if err := ApplyOverrides(&opts, []string{"max_iterations=0"}); err == nil || !strings.Contains(err.Error(), "at least") {
		t.Fatalf("expected range error, got %v", err)
	}
	if err := ApplyOverrides(&opts, []string{"nonsense"}); err == nil {
		t.Fatalf("expected syntax error")
	}
}
