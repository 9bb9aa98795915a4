package diag

import "testing"

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(3)
	r := BagReporter{Bag: b}
	ReportWarning(r, SolverDepthExceeded, Span{}, "depth").Emit()
	ReportError(r, FixAssertFailed, Span{File: "b.toml", Line: 2, Col: 1}, "b").Emit()
	ReportError(r, FixAssertFailed, Span{File: "a.toml", Line: 9, Col: 1}, "a").Emit()
	if b.Add(NewError(FixDecode, Span{}, "dropped")) {
		t.Fatalf("bag should be full")
	}
	b.Sort()
	got := b.Items()
	if got[0].Primary.File != "" || got[1].Primary.File != "a.toml" || got[2].Primary.File != "b.toml" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !b.HasErrors() || b.Count(FixAssertFailed) != 2 {
		t.Fatalf("unexpected counts")
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: b})
	for range 5 {
		ReportInfo(r, SolverTemplateCardinality, Span{}, "widened").Emit()
	}
	ReportInfo(r, SolverTemplateCardinality, Span{}, "other").Emit()
	if b.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", b.Len())
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LexUnknownChar:      "LEX1001",
		SynUnexpectedToken:  "SYN2001",
		SolverUnresolvedDef: "SLV3005",
		FixEvalMismatch:     "FIX4005",
		CfgInvalid:          "CFG5001",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	d := NewError(SynExpectType, Span{File: "x", Line: 1, Col: 4}, "boom")
	if got := d.Error(); got != "x:1:4: SYN2003: boom" {
		t.Fatalf("Error() = %q", got)
	}
}
