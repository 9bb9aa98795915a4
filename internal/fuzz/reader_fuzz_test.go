package fuzztests

import (
	"context"
	"testing"
	"time"

	"tsolve/internal/config"
	"tsolve/internal/fixture"
	"tsolve/internal/solver"
	"tsolve/internal/typeexpr"
)

// solveTimeout is the maximum time allowed for reading and solving a single
// input. Taking longer indicates a missing depth or iteration limit.
const solveTimeout = 5 * time.Second

func newProgram(t *testing.T) *fixture.Program {
	t.Helper()
	prog, err := fixture.NewProgram(&fixture.Fixture{Path: "fuzz.toml", Config: config.Default()})
	if err != nil {
		t.Fatalf("prelude does not declare: %v", err)
	}
	return prog
}

// withTimeout runs fn in a goroutine and fails when it does not finish.
func withTimeout(t *testing.T, what string, input string, fn func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), solveTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("%s hang detected: took longer than %v\ninput (%d bytes): %q",
			what, solveTimeout, len(input), truncateForLog(input, 200))
	}
}

func FuzzReaderNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("{ a: string"))          // unclosed object
	f.Add([]byte("T extends U ? X"))      // conditional without false branch
	f.Add([]byte("`${`${`${"))            // unterminated nested templates
	f.Add([]byte("<T extends T>(x: T)")) // arrow without return
	f.Add([]byte("infer X"))              // infer outside a conditional

	f.Fuzz(func(t *testing.T, input []byte) {
		src := clampInput(input)
		prog := newProgram(t)
		var err error
		withTimeout(t, "reader", src, func() {
			_, err = prog.Parse(src)
		})
		if err != nil && !typeexpr.IsSyntaxError(err) {
			t.Fatalf("reader returned a non-syntax error: %v", err)
		}
	})
}

// FuzzSolverBounds evaluates every readable input and checks that the top and
// bottom types stay in place around it.
func FuzzSolverBounds(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("{ next: { next: { next: {} } } }"))
	f.Add([]byte("Partial<Required<Readonly<{ a?: 1; readonly b: 2 }>>>"))

	f.Fuzz(func(t *testing.T, input []byte) {
		src := clampInput(input)
		prog := newProgram(t)
		id, err := prog.Parse(src)
		if err != nil {
			return
		}
		b := prog.Interner.Builtins()
		withTimeout(t, "solver", src, func() {
			s := prog.Start(nil, nil)
			evaluated := s.Evaluate(id)
			if s.IsSubtype(evaluated, b.Unknown, solver.ModeAssignable) != solver.Yes {
				t.Errorf("%s is not assignable to unknown", prog.Label(evaluated))
			}
			if s.IsSubtype(b.Never, id, solver.ModeSubtype) != solver.Yes {
				t.Errorf("never is not a subtype of %s", prog.Label(id))
			}
			if s.IsSubtype(id, id, solver.ModeSubtype) != solver.Yes {
				t.Errorf("%s is not a subtype of itself", prog.Label(id))
			}
		})
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input string, maxLen int) string {
	if len(input) <= maxLen {
		return input
	}
	return input[:maxLen] + "..."
}
