package diag

import "fmt"

// Span locates a finding in a text input. The zero Span means "no position".
type Span struct {
	File string
	Line uint32
	Col  uint32
}

// IsZero reports whether the span carries no position.
func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	switch {
	case s.IsZero():
		return "-"
	case s.Line == 0:
		return s.File
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

type Note struct {
	Span Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Span
	Notes    []Note
}

func New(sev Severity, code Code, primary Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Error lets a diagnostic travel as an error value through tooling layers.
func (d Diagnostic) Error() string {
	if d.Primary.IsZero() {
		return fmt.Sprintf("%s: %s", d.Code.ID(), d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Primary, d.Code.ID(), d.Message)
}
