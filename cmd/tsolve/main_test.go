package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tsolve/internal/fixture"
	"tsolve/internal/types"
)

const goldenDir = "../../testdata/fixtures"

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with an empty config file so no tsolve.toml above
// the test directory leaks in.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg := filepath.Join(t.TempDir(), "tsolve.toml")
	if err := os.WriteFile(cfg, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg, "--color", "off"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunGoldenFixturesJSON(t *testing.T) {
	out, err := execute(t, "run", "--format", "json", "-j", "2", goldenDir)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	var doc struct {
		Summary fixture.Summary `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Summary.Files == 0 || doc.Summary.Cases == 0 || !doc.Summary.OK() {
		t.Fatalf("summary = %+v", doc.Summary)
	}
}

func TestRunReportsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fail.toml")
	body := "[[assert]]\nname = \"strict nulls\"\nsource = \"null\"\ntarget = \"string\"\nexpect = true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", "--ui", "off", path)
	if !errors.Is(err, errFixturesFailed) {
		t.Fatalf("err = %v, want errFixturesFailed\n%s", err, out)
	}
	if !strings.Contains(out, "FAIL") || !strings.Contains(out, "strict nulls") {
		t.Fatalf("unexpected report:\n%s", out)
	}

	out, err = execute(t, "--set", "strict_null_checks=false", "run", "--ui", "off", path)
	if err != nil {
		t.Fatalf("override did not apply: %v\n%s", err, out)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	if _, err := execute(t, "run", "--format", "xml", goldenDir); err == nil {
		t.Fatalf("expected an error for --format xml")
	}
	if _, err := execute(t, "--set", "max_subtype_depth=0", "run", goldenDir); err == nil {
		t.Fatalf("expected an error for an invalid override")
	}
	if _, err := execute(t, "--trace-level", "loud", "run", goldenDir); err == nil {
		t.Fatalf("expected an error for an unknown trace level")
	}
	if _, err := execute(t, "run", "--ui", "sometimes", goldenDir); err == nil {
		t.Fatalf("expected an error for --ui sometimes")
	}
}

func TestRunWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	out, err := execute(t, "--cpu-profile", cpu, "--mem-profile", mem,
		"run", "--ui", "off", filepath.Join(goldenDir, "basics.toml"))
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	for _, path := range []string{cpu, mem} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
}

func TestInspect(t *testing.T) {
	out, err := execute(t, "inspect", "Partial<{ a: 1 }>")
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, out)
	}
	for _, want := range []string{"type: Partial<{ a: 1 }>", "evaluated: { a?: 1 }", "object-shape"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	fx := filepath.Join(goldenDir, "enum.toml")
	out, err = execute(t, "inspect", "--fixture", fx, "Color.Blue")
	if err != nil {
		t.Fatalf("inspect --fixture: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Color.Blue") {
		t.Errorf("output lacks the member name:\n%s", out)
	}

	if _, err := execute(t, "inspect", "Missing<1>"); err == nil {
		t.Fatalf("expected an error for an unknown name")
	}
}

func TestDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.msgpack")
	out, err := execute(t, "dump", "-o", path, filepath.Join(goldenDir, "basics.toml"))
	if err != nil {
		t.Fatalf("dump: %v\n%s", err, out)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	snap, err := types.ReadSnapshot(f)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(snap.Records) == 0 || !strings.Contains(out, path) {
		t.Fatalf("%d records, output %q", len(snap.Records), out)
	}

	out, err = execute(t, "dump", "--list", filepath.Join(goldenDir, "basics.toml"))
	if err != nil {
		t.Fatalf("dump --list: %v", err)
	}
	if !strings.Contains(out, "string") {
		t.Fatalf("listing lacks builtins:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if payload.Tool != "tsolve" || payload.Version == "" || payload.GitCommit != "" {
		t.Fatalf("payload = %+v", payload)
	}
}
