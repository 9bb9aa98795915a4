package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tsolve/internal/config"
	"tsolve/internal/diag"
)

func codeOf(t *testing.T, err error) diag.Code {
	t.Helper()
	var d diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("error %v carries no diagnostic", err)
	}
	return d.Code
}

func TestDecodeDefaults(t *testing.T) {
	src := `
description = "defaults"

[[decl]]
name = "A"
type = "string"

[[assert]]
source = "A"
target = "string"
expect = true

[[eval]]
type = "A"
expect = "string"
`
	fx, err := Decode("defaults.toml", []byte(src), config.Default())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if fx.Description != "defaults" || fx.Path != "defaults.toml" {
		t.Fatalf("unexpected header: %+v", fx)
	}
	if fx.Decls[0].Kind != KindAlias {
		t.Fatalf("decl kind = %q, want %q", fx.Decls[0].Kind, KindAlias)
	}
	if fx.Asserts[0].Mode != ModeAssignable {
		t.Fatalf("assert mode = %q, want %q", fx.Asserts[0].Mode, ModeAssignable)
	}
	if fx.Cases() != 2 {
		t.Fatalf("Cases() = %d, want 2", fx.Cases())
	}
	if fx.Config != config.Default() {
		t.Fatalf("config changed without [options]: %+v", fx.Config)
	}
}

func TestDecodeOptionsOverrideBase(t *testing.T) {
	src := "[options]\nstrict_null_checks = false\nmax_subtype_depth = 7\n"
	base := config.Default()
	base.NoUncheckedIndexedAccess = true

	fx, err := Decode("opts.toml", []byte(src), base)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if fx.Config.StrictNullChecks || fx.Config.MaxSubtypeDepth != 7 {
		t.Fatalf("options not applied: %+v", fx.Config)
	}
	if !fx.Config.NoUncheckedIndexedAccess || !fx.Config.StrictFunctionTypes {
		t.Fatalf("base values lost: %+v", fx.Config)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"syntax", "[[assert]\n", diag.FixDecode},
		{"unknown key", "[[assert]]\nsource = \"a\"\ntarget = \"b\"\nexpected = true\n", diag.FixDecode},
		{"unknown option", "[options]\nstrict = true\n", diag.FixDecode},
		{"missing target", "[[assert]]\nsource = \"a\"\n", diag.FixDecode},
		{"bad mode", "[[assert]]\nsource = \"a\"\ntarget = \"b\"\nmode = \"equal\"\n", diag.FixDecode},
		{"bad kind", "[[decl]]\nname = \"A\"\ntype = \"string\"\nkind = \"class\"\n", diag.FixDecode},
		{"enum without members", "[[decl]]\nname = \"E\"\nkind = \"enum\"\n", diag.FixDecode},
		{"alias without type", "[[decl]]\nname = \"A\"\n", diag.FixDecode},
		{"eval without expect", "[[eval]]\ntype = \"string\"\n", diag.FixDecode},
		{"option out of range", "[options]\nmax_subtype_depth = 0\n", diag.CfgInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("bad.toml", []byte(tt.src), config.Default())
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got := codeOf(t, err); got != tt.want {
				t.Fatalf("code = %s, want %s (%v)", got.ID(), tt.want.ID(), err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), config.Default())
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got := codeOf(t, err); got != diag.FixRead {
		t.Fatalf("code = %s, want %s", got.ID(), diag.FixRead.ID())
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.toml")
	if err := os.WriteFile(path, []byte("[[eval]]\ntype = \"1\"\nexpect = \"1\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fx, err := Load(path, config.Default())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fx.Path != path || len(fx.Evals) != 1 {
		t.Fatalf("unexpected fixture: %+v", fx)
	}
}
