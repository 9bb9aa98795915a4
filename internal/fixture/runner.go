package fixture

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"tsolve/internal/config"
	"tsolve/internal/diag"
	"tsolve/internal/observ"
	"tsolve/internal/trace"
)

// Ext is the file extension of fixture files.
const Ext = ".toml"

// Options configure a run.
type Options struct {
	// Config is the base configuration; a fixture's [options] table
	// overrides it.
	Config config.Options
	// Workers bounds the number of fixtures solved at once. Zero means one
	// per file.
	Workers int
	// Tracer receives solver events. When nil, Run uses the tracer carried
	// by its context.
	Tracer trace.Tracer
	// MaxDiagnostics caps the solver notes kept per fixture.
	MaxDiagnostics int
	// Progress, when set, receives an event per stage of every file.
	Progress ProgressSink
}

// Result is the outcome of one fixture file.
type Result struct {
	Path        string
	Description string
	Cases       []Case
	// Diagnostics holds the solver's degradation notes.
	Diagnostics []diag.Diagnostic
	// Err is set when the file could not be loaded or declared; no case ran.
	Err     error
	Timings observ.Report
}

// Failed counts the cases that did not pass.
func (r *Result) Failed() int {
	n := 0
	for _, c := range r.Cases {
		if !c.Passed {
			n++
		}
	}
	return n
}

// OK reports whether the file loaded and every case passed.
func (r *Result) OK() bool { return r.Err == nil && r.Failed() == 0 }

// Expand turns the given files and directories into a sorted list of
// fixture files. Directories are walked recursively.
func Expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() && filepath.Ext(path) == Ext {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", p, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// Run executes every fixture under paths. Each file gets its own interner
// and session, so files run in parallel without sharing solver state.
// Results come back in file order; the error is only set when paths cannot
// be expanded or ctx is cancelled.
func Run(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.FromContext(ctx)
	}
	results := make([]*Result, len(files))
	for _, file := range files {
		emit(opts.Progress, Event{File: file, Status: StatusQueued})
	}
	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = RunFile(file, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunFile loads and executes a single fixture.
func RunFile(path string, opts Options) *Result {
	res := &Result{Path: path}
	timer := observ.NewTimer()
	start := time.Now()
	defer func() {
		res.Timings = timer.Report()
		finish(opts.Progress, res, time.Since(start))
	}()

	var fx *Fixture
	err := measure(timer, opts.Progress, path, StageLoad, func() (err error) {
		fx, err = Load(path, opts.Config)
		return err
	})
	if err != nil {
		res.Err = err
		return res
	}
	res.Description = fx.Description
	RunFixture(fx, opts, timer, res)
	return res
}

// RunFixture executes an already decoded fixture into res and returns the
// program it solved, or nil when the declarations could not be read. timer
// may be nil.
func RunFixture(fx *Fixture, opts Options, timer *observ.Timer, res *Result) *Program {
	var prog *Program
	err := measure(timer, opts.Progress, fx.Path, StageDeclare, func() (err error) {
		prog, err = NewProgram(fx)
		return err
	})
	if err != nil {
		res.Err = err
		return nil
	}

	var checks []check
	step(timer, opts.Progress, fx.Path, StageCompile, func() {
		checks = prog.compile()
	})

	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = 256
	}
	bag := diag.NewBag(maxDiags)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	sess := prog.Start(tracer, reporter)

	step(timer, opts.Progress, fx.Path, StageSolve, func() {
		span := trace.Begin(tracer, trace.ScopeSession, fx.Path, 0)
		res.Cases = make([]Case, 0, len(checks))
		for _, run := range checks {
			res.Cases = append(res.Cases, run(sess))
		}
		span.End(fmt.Sprintf("%d cases", len(checks)))
	})
	bag.Sort()
	res.Diagnostics = bag.Items()
	return prog
}

// measure times fn as a phase of timer and reports the stage to sink.
func measure(timer *observ.Timer, sink ProgressSink, file string, stage Stage, fn func() error) error {
	emit(sink, Event{File: file, Stage: stage, Status: StatusWorking})
	return timer.Measure(string(stage), fn)
}

// step is measure for stages that cannot fail.
func step(timer *observ.Timer, sink ProgressSink, file string, stage Stage, fn func()) {
	emit(sink, Event{File: file, Stage: stage, Status: StatusWorking})
	idx := timer.Begin(string(stage))
	fn()
	timer.End(idx, "")
}
