package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tsolve/internal/diag"
	"tsolve/internal/observ"
)

// ReportOptions control the text report.
type ReportOptions struct {
	Color bool
	// Verbose lists passing cases and solver notes too.
	Verbose bool
	Timings bool
}

// Summary aggregates a run.
type Summary struct {
	Files  uint32 `json:"files"`
	Broken uint32 `json:"broken"`
	Cases  uint32 `json:"cases"`
	Failed uint32 `json:"failed"`
}

// OK reports whether every file loaded and every case passed.
func (s Summary) OK() bool { return s.Broken == 0 && s.Failed == 0 }

func count(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return ^uint32(0)
	}
	return v
}

// Summarize counts files and cases.
func Summarize(results []*Result) Summary {
	var s Summary
	s.Files = count(len(results))
	var cases, failed, broken int
	for _, r := range results {
		if r.Err != nil {
			broken++
			continue
		}
		cases += len(r.Cases)
		failed += r.Failed()
	}
	s.Cases, s.Failed, s.Broken = count(cases), count(failed), count(broken)
	return s
}

type palette struct {
	pass, fail, dim, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		pass: color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		dim:  color.New(color.Faint),
		note: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.pass, p.fail, p.dim, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// padRight pads s to width display columns.
func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// WriteText renders results as an aligned, optionally coloured report.
func WriteText(w io.Writer, results []*Result, opts ReportOptions) error {
	pal := newPalette(opts.Color)
	width := 0
	for _, r := range results {
		width = max(width, runewidth.StringWidth(r.Path))
	}

	var sb strings.Builder
	for _, r := range results {
		status := pal.pass.Sprint("PASS")
		if !r.OK() {
			status = pal.fail.Sprint("FAIL")
		}
		fmt.Fprintf(&sb, "%s  %s", status, padRight(r.Path, width))
		switch {
		case r.Err != nil:
			fmt.Fprintf(&sb, "  %s\n", pal.fail.Sprint(r.Err.Error()))
			continue
		case r.Failed() > 0:
			fmt.Fprintf(&sb, "  %d/%d failed", r.Failed(), len(r.Cases))
		default:
			fmt.Fprintf(&sb, "  %d cases", len(r.Cases))
		}
		if opts.Timings {
			sb.WriteString(pal.dim.Sprintf("  %.3f ms", r.Timings.TotalMS))
		}
		sb.WriteByte('\n')
		writeCases(&sb, r, pal, opts.Verbose)
		if opts.Verbose {
			for _, d := range r.Diagnostics {
				fmt.Fprintf(&sb, "      %s %s\n", pal.note.Sprint(d.Code.ID()), d.Message)
			}
		}
	}

	s := Summarize(results)
	line := fmt.Sprintf("%d files, %d cases, %d failed", s.Files, s.Cases, s.Failed)
	if s.Broken > 0 {
		line += fmt.Sprintf(", %d broken", s.Broken)
	}
	if s.OK() {
		line = pal.pass.Sprint(line)
	} else {
		line = pal.fail.Sprint(line)
	}
	sb.WriteString(line + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeCases(sb *strings.Builder, r *Result, pal palette, verbose bool) {
	width := 0
	for _, c := range r.Cases {
		width = max(width, runewidth.StringWidth(c.Title()))
	}
	for _, c := range r.Cases {
		if c.Passed && !verbose {
			continue
		}
		mark := pal.pass.Sprint("ok  ")
		if !c.Passed {
			mark = pal.fail.Sprint("fail")
		}
		fmt.Fprintf(sb, "      %s %s", mark, padRight(c.Title(), width))
		switch {
		case c.Err != nil:
			fmt.Fprintf(sb, "  %v", c.Err)
		case !c.Passed:
			fmt.Fprintf(sb, "  got %s, want %s", c.Got, c.Want)
		}
		sb.WriteByte('\n')
	}
}

type caseJSON struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Got    string `json:"got,omitempty"`
	Want   string `json:"want,omitempty"`
	Error  string `json:"error,omitempty"`
}

type diagnosticJSON struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type resultJSON struct {
	Path        string           `json:"path"`
	Description string           `json:"description,omitempty"`
	Error       string           `json:"error,omitempty"`
	Cases       []caseJSON       `json:"cases"`
	Diagnostics []diagnosticJSON `json:"diagnostics,omitempty"`
	Timings     observ.Report    `json:"timings"`
}

type reportJSON struct {
	Summary Summary      `json:"summary"`
	Results []resultJSON `json:"results"`
}

// WriteJSON renders results as a single JSON document.
func WriteJSON(w io.Writer, results []*Result) error {
	out := reportJSON{Summary: Summarize(results), Results: make([]resultJSON, 0, len(results))}
	for _, r := range results {
		rj := resultJSON{
			Path:        r.Path,
			Description: r.Description,
			Cases:       make([]caseJSON, 0, len(r.Cases)),
			Timings:     r.Timings,
		}
		if r.Err != nil {
			rj.Error = r.Err.Error()
		}
		for _, c := range r.Cases {
			cj := caseJSON{Kind: c.Kind.String(), Name: c.Title(), Passed: c.Passed, Got: c.Got, Want: c.Want}
			if c.Err != nil {
				cj.Error = c.Err.Error()
			}
			rj.Cases = append(rj.Cases, cj)
		}
		for _, d := range r.Diagnostics {
			rj.Diagnostics = append(rj.Diagnostics, diagnosticJSON{Code: d.Code.ID(), Severity: d.Severity.String(), Message: d.Message})
		}
		out.Results = append(out.Results, rj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Diagnostics collects load errors and failed cases of all results as
// diagnostics, in file order.
func Diagnostics(results []*Result) *diag.Bag {
	bag := diag.NewBag(1 << 12)
	for _, r := range results {
		if r.Err != nil {
			bag.Add(loadDiagnostic(r))
			continue
		}
		for _, c := range r.Cases {
			if !c.Passed {
				bag.Add(c.Diagnostic(r.Path))
			}
		}
	}
	return bag
}

// loadDiagnostic keeps the code and position of the diagnostic wrapped in a
// load error, with the full error chain as message.
func loadDiagnostic(r *Result) diag.Diagnostic {
	var inner diag.Diagnostic
	if !errors.As(r.Err, &inner) {
		return diag.NewError(diag.FixRead, diag.Span{File: r.Path}, r.Err.Error())
	}
	if inner.Primary.File == "" {
		inner.Primary.File = r.Path
	}
	if _, direct := r.Err.(diag.Diagnostic); direct {
		return inner
	}
	inner.Message = r.Err.Error()
	return inner
}
