package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	if err := tm.Measure("parse", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("assert", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("error not passed through: %v", err)
	}
	report := tm.Report()
	if len(report.Phases) != 2 || report.Phases[1].Note != "boom" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if s := tm.Summary(); !strings.Contains(s, "parse") || !strings.Contains(s, "// boom") {
		t.Fatalf("summary misses phases:\n%s", s)
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("x")
	tm.End(idx, "")
	if tm.Total() != 0 || len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer recorded something")
	}
}
