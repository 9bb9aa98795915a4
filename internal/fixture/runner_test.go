package fixture

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/kr/pretty"

	"tsolve/internal/config"
	"tsolve/internal/diag"
	"tsolve/internal/trace"
)

const goldenDir = "../../testdata/fixtures"

func writeFixture(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGoldenFixtures(t *testing.T) {
	results, err := Run(context.Background(), []string{goldenDir}, Options{Config: config.Default(), Workers: 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("no fixtures under %s", goldenDir)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: %v", r.Path, r.Err)
			continue
		}
		if len(r.Cases) == 0 {
			t.Errorf("%s: no cases", r.Path)
		}
		for _, c := range r.Cases {
			if c.Passed {
				continue
			}
			if c.Err != nil {
				t.Errorf("%s: %s: %v", r.Path, c.Title(), c.Err)
				continue
			}
			t.Errorf("%s: %s: got %s, want %s", r.Path, c.Title(), c.Got, c.Want)
		}
	}
}

const mixedFixture = `
description = "one of each"

[[decl]]
name = "Id"
params = ["T"]
type = "T"

[[assert]]
name = "holds"
source = "1"
target = "number"
expect = true

[[assert]]
name = "wrong expectation"
source = "1"
target = "string"
expect = true

[[eval]]
type = "Id<2>"
expect = "3"

[[eval]]
name = "unreadable"
type = "Id<"
expect = "1"

[[infer]]
signature = "<T>(x: T) => T"
args = ["true"]
expect = { T = "false" }
`

func TestRunFileReportsFailures(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "mixed.toml", mixedFixture)
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	res := RunFile(path, Options{Config: config.Default(), Tracer: ring})
	if res.Err != nil {
		t.Fatalf("RunFile: %v", res.Err)
	}
	if res.Description != "one of each" {
		t.Fatalf("description = %q", res.Description)
	}

	type outcome struct {
		Kind   CaseKind
		Title  string
		Passed bool
		Got    string
		Want   string
		Broken bool
	}
	got := make([]outcome, len(res.Cases))
	for i, c := range res.Cases {
		got[i] = outcome{c.Kind, c.Title(), c.Passed, c.Got, c.Want, c.Err != nil}
	}
	want := []outcome{
		{CaseAssert, "holds", true, "1 <- number: true", "true", false},
		{CaseAssert, "wrong expectation", false, "1 <- string: false", "true", false},
		{CaseEval, "eval #1", false, "2", "3", false},
		{CaseEval, "unreadable", false, "", "", true},
		{CaseInfer, "infer #1", false, "{ T = true }", "{ T = false }", false},
	}
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Fatalf("cases differ:\n%s", strings.Join(diff, "\n"))
	}
	if res.OK() || res.Failed() != 4 {
		t.Fatalf("OK() = %v, Failed() = %d", res.OK(), res.Failed())
	}

	names := make([]string, 0, len(res.Timings.Phases))
	for _, p := range res.Timings.Phases {
		names = append(names, p.Name)
	}
	if diff := pretty.Diff([]string{"load", "declare", "compile", "solve"}, names); len(diff) > 0 {
		t.Fatalf("phases differ: %v", diff)
	}
	if len(ring.Snapshot()) == 0 {
		t.Fatalf("tracer saw no events")
	}

	bag := Diagnostics([]*Result{res})
	if bag.Count(diag.FixAssertFailed) != 1 || bag.Count(diag.FixEvalMismatch) != 2 || bag.Count(diag.FixInferMismatch) != 1 {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(bag.Items()))
	}
}

func TestRunBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a_decode.toml", "[[assert]]\nsource = \"1\"\n")
	writeFixture(t, dir, "b_decl.toml", "[[decl]]\nname = \"A\"\ntype = \"Missing\"\n")
	writeFixture(t, dir, "c_ok.toml", "[[eval]]\ntype = \"1 | 1\"\nexpect = \"1\"\n")
	writeFixture(t, dir, "notes.txt", "not a fixture")

	results, err := Run(context.Background(), []string{dir}, Options{Config: config.Default(), Workers: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Err == nil || results[1].Err == nil || !results[2].OK() {
		t.Fatalf("unexpected outcomes: %# v", pretty.Formatter(results))
	}

	s := Summarize(results)
	if want := (Summary{Files: 3, Broken: 2, Cases: 1, Failed: 0}); s != want {
		t.Fatalf("Summarize = %+v, want %+v", s, want)
	}

	bag := Diagnostics(results)
	items := bag.Items()
	if len(items) != 2 || items[0].Code != diag.FixDecode || items[1].Code != diag.SynUnknownName {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(items))
	}
	if !strings.Contains(items[1].Message, "decl A") {
		t.Fatalf("message lost its context: %q", items[1].Message)
	}
	if items[1].Primary.File != results[1].Path {
		t.Fatalf("diagnostic file = %q", items[1].Primary.File)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evt.Elapsed = 0
	evt.Err = nil
	s.events = append(s.events, evt)
}

func TestRunReportsProgress(t *testing.T) {
	dir := t.TempDir()
	good := writeFixture(t, dir, "good.toml", "[[assert]]\nsource = \"1\"\ntarget = \"number\"\nexpect = true\n")
	bad := writeFixture(t, dir, "bad.toml", "[[assert]\n")

	sink := &recordingSink{}
	if _, err := Run(context.Background(), []string{good, bad}, Options{Config: config.Default(), Workers: 1, Progress: sink}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	byFile := map[string][]Event{}
	for _, evt := range sink.events {
		byFile[evt.File] = append(byFile[evt.File], evt)
	}

	wantGood := []Event{
		{File: good, Status: StatusQueued},
		{File: good, Stage: StageLoad, Status: StatusWorking},
		{File: good, Stage: StageDeclare, Status: StatusWorking},
		{File: good, Stage: StageCompile, Status: StatusWorking},
		{File: good, Stage: StageSolve, Status: StatusWorking},
		{File: good, Status: StatusDone, Cases: 1},
	}
	if diff := pretty.Diff(byFile[good], wantGood); len(diff) > 0 {
		t.Errorf("good file events differ:\n%s", strings.Join(diff, "\n"))
	}
	wantBad := []Event{
		{File: bad, Status: StatusQueued},
		{File: bad, Stage: StageLoad, Status: StatusWorking},
		{File: bad, Status: StatusError},
	}
	if diff := pretty.Diff(byFile[bad], wantBad); len(diff) > 0 {
		t.Errorf("bad file events differ:\n%s", strings.Join(diff, "\n"))
	}
}

func TestRunUsesContextTracer(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "one.toml", "[[assert]]\nsource = \"1\"\ntarget = \"number\"\nexpect = true\n")
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := Run(ctx, []string{path}, Options{Config: config.Default()}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ring.Snapshot()) == 0 {
		t.Fatalf("tracer from the context saw no events")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, []string{goldenDir}, Options{Config: config.Default()}); err == nil {
		t.Fatalf("expected the cancellation to surface")
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "b/one.toml", "")
	b := writeFixture(t, dir, "a/two.toml", "")
	writeFixture(t, dir, "a/skip.json", "")

	files, err := Expand([]string{dir, a})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if diff := pretty.Diff([]string{b, a}, files); len(diff) > 0 {
		t.Fatalf("files differ: %v", diff)
	}
	if _, err := Expand([]string{filepath.Join(dir, "absent")}); err == nil {
		t.Fatalf("expected an error for a missing path")
	}
}

func TestWriteText(t *testing.T) {
	dir := t.TempDir()
	ok := RunFile(writeFixture(t, dir, "ok.toml", "[[eval]]\ntype = \"1\"\nexpect = \"1\"\n"), Options{Config: config.Default()})
	bad := RunFile(writeFixture(t, dir, "bad.toml", "[[assert]]\nname = \"nope\"\nsource = \"1\"\ntarget = \"string\"\nexpect = true\n"), Options{Config: config.Default()})

	var buf bytes.Buffer
	if err := WriteText(&buf, []*Result{ok, bad}, ReportOptions{}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PASS  " + ok.Path, "FAIL  " + bad.Path, "1/1 failed", "fail nope  got 1 <- string: false, want true", "2 files, 2 cases, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("report lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colour codes without Color:\n%s", out)
	}

	buf.Reset()
	if err := WriteText(&buf, []*Result{ok}, ReportOptions{Verbose: true, Timings: true}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if !strings.Contains(buf.String(), "ok   eval #1") || !strings.Contains(buf.String(), " ms") {
		t.Errorf("verbose report:\n%s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	res := RunFile(writeFixture(t, dir, "one.toml", "description = \"json\"\n[[eval]]\ntype = \"1\"\nexpect = \"2\"\n"), Options{Config: config.Default()})

	var buf bytes.Buffer
	if err := WriteJSON(&buf, []*Result{res}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var doc struct {
		Summary Summary `json:"summary"`
		Results []struct {
			Path        string `json:"path"`
			Description string `json:"description"`
			Cases       []struct {
				Kind   string `json:"kind"`
				Passed bool   `json:"passed"`
				Got    string `json:"got"`
				Want   string `json:"want"`
			} `json:"cases"`
		} `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if doc.Summary != (Summary{Files: 1, Cases: 1, Failed: 1}) {
		t.Fatalf("summary = %+v", doc.Summary)
	}
	if len(doc.Results) != 1 || doc.Results[0].Description != "json" || len(doc.Results[0].Cases) != 1 {
		t.Fatalf("results = %# v", pretty.Formatter(doc.Results))
	}
	c := doc.Results[0].Cases[0]
	if c.Kind != "eval" || c.Passed || c.Got != "1" || c.Want != "2" {
		t.Fatalf("case = %+v", c)
	}
}
