package fixture

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"tsolve/internal/diag"
	"tsolve/internal/solver"
	"tsolve/internal/types"
)

// CaseKind tells the three kinds of fixture checks apart.
type CaseKind uint8

const (
	CaseAssert CaseKind = iota + 1
	CaseEval
	CaseInfer
)

func (k CaseKind) String() string {
	switch k {
	case CaseAssert:
		return "assert"
	case CaseEval:
		return "eval"
	case CaseInfer:
		return "infer"
	}
	return "case?"
}

// Case is the outcome of one check.
type Case struct {
	Kind   CaseKind
	Index  int
	Name   string
	Passed bool
	Got    string
	Want   string
	// Err is set when an expression of the case could not be read.
	Err error
}

// Title names the case for reports.
func (c Case) Title() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%s #%d", c.Kind, c.Index+1)
}

// Diagnostic converts a failed case into a diagnostic.
func (c Case) Diagnostic(file string) diag.Diagnostic {
	code := diag.FixAssertFailed
	switch c.Kind {
	case CaseEval:
		code = diag.FixEvalMismatch
	case CaseInfer:
		code = diag.FixInferMismatch
	}
	msg := fmt.Sprintf("%s: got %s, want %s", c.Title(), c.Got, c.Want)
	if c.Err != nil {
		msg = fmt.Sprintf("%s: %v", c.Title(), c.Err)
	}
	return diag.NewError(code, diag.Span{File: file}, msg)
}

// check runs a compiled case against a session.
type check func(s *solver.Session) Case

// compile parses every expression of the fixture's cases. Cases whose
// expressions fail to parse come back as failed checks.
func (p *Program) compile() []check {
	fx := p.Fixture
	checks := make([]check, 0, fx.Cases())
	for i, a := range fx.Asserts {
		checks = append(checks, p.compileAssert(i, a))
	}
	for i, e := range fx.Evals {
		checks = append(checks, p.compileEval(i, e))
	}
	for i, inf := range fx.Infers {
		checks = append(checks, p.compileInfer(i, inf))
	}
	return checks
}

func failed(c Case, err error) check {
	c.Err = err
	return func(*solver.Session) Case { return c }
}

func (p *Program) parseAll(srcs ...string) ([]types.TypeID, error) {
	ids := make([]types.TypeID, len(srcs))
	for i, src := range srcs {
		id, err := p.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", src, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func (p *Program) compileAssert(index int, a Assert) check {
	c := Case{Kind: CaseAssert, Index: index, Name: a.Name}
	ids, err := p.parseAll(a.Source, a.Target)
	if err != nil {
		return failed(c, err)
	}
	mode := solver.ModeAssignable
	if a.Mode == ModeSubtype {
		mode = solver.ModeSubtype
	}
	return func(s *solver.Session) Case {
		got := s.IsSubtype(ids[0], ids[1], mode) == solver.Yes
		c.Passed = got == a.Expect
		c.Got = fmt.Sprintf("%s %s %s: %t", p.Label(ids[0]), relationSymbol(mode), p.Label(ids[1]), got)
		c.Want = fmt.Sprintf("%t", a.Expect)
		return c
	}
}

func relationSymbol(mode solver.Mode) string {
	if mode == solver.ModeSubtype {
		return "<:"
	}
	return "<-"
}

func (p *Program) compileEval(index int, e Eval) check {
	c := Case{Kind: CaseEval, Index: index, Name: e.Name}
	ids, err := p.parseAll(e.Type, e.Expect)
	if err != nil {
		return failed(c, err)
	}
	return func(s *solver.Session) Case {
		got := s.Evaluate(ids[0])
		want := s.Evaluate(ids[1])
		c.Passed = got == want
		c.Got, c.Want = p.Label(got), p.Label(want)
		return c
	}
}

func (p *Program) compileInfer(index int, inf Infer) check {
	c := Case{Kind: CaseInfer, Index: index, Name: inf.Name}
	sig, err := p.Parse(inf.Signature)
	if err != nil {
		return failed(c, fmt.Errorf("signature: %w", err))
	}
	args, err := p.parseAll(inf.Args...)
	if err != nil {
		return failed(c, fmt.Errorf("args: %w", err))
	}
	contextual := types.NoTypeID
	if inf.Contextual != "" {
		if contextual, err = p.Parse(inf.Contextual); err != nil {
			return failed(c, fmt.Errorf("contextual: %w", err))
		}
	}
	ret := types.NoTypeID
	if inf.Return != "" {
		if ret, err = p.Parse(inf.Return); err != nil {
			return failed(c, fmt.Errorf("return: %w", err))
		}
	}

	// Expected bindings are read with the signature's parameters in scope
	// so `expect = { U = "T[]" }` can mention them.
	params := p.signatureParams(sig)
	names := lo.Keys(inf.Expect)
	slices.Sort(names)
	want := make(map[string]types.TypeID, len(names))
	for _, name := range names {
		if _, ok := params[name]; !ok {
			return failed(c, fmt.Errorf("signature has no type parameter %s", name))
		}
		id, err := p.Table.Reader().ParseIn(inf.Expect[name], params)
		if err != nil {
			return failed(c, fmt.Errorf("expect %s: %w", name, err))
		}
		want[name] = id
	}

	return func(s *solver.Session) Case {
		sub := s.Infer(sig, args, contextual)
		var got, exp []string
		c.Passed = true
		for _, name := range names {
			bound := sub[params[name]]
			if !p.same(s, bound, want[name]) {
				c.Passed = false
			}
			got = append(got, name+" = "+p.Label(bound))
			exp = append(exp, name+" = "+p.Label(want[name]))
		}
		if ret != types.NoTypeID {
			result, _ := s.GetTypeOfCall(sig, args, contextual)
			if !p.same(s, result, ret) {
				c.Passed = false
			}
			got = append(got, "return "+p.Label(result))
			exp = append(exp, "return "+p.Label(ret))
		}
		c.Got = "{ " + strings.Join(got, ", ") + " }"
		c.Want = "{ " + strings.Join(exp, ", ") + " }"
		return c
	}
}

// signatureParams maps the type parameter names of a generic signature.
func (p *Program) signatureParams(sig types.TypeID) map[string]types.TypeID {
	fn, ok := p.Interner.FnInfo(sig)
	out := map[string]types.TypeID{}
	if !ok {
		return out
	}
	for _, tp := range fn.TypeParams {
		info, _ := p.Interner.TypeParamInfo(tp)
		out[info.Name] = tp
	}
	return out
}

// same compares two types by identity after evaluation.
func (p *Program) same(s *solver.Session, a, b types.TypeID) bool {
	if a == b {
		return true
	}
	if a == types.NoTypeID || b == types.NoTypeID {
		return false
	}
	return s.Evaluate(a) == s.Evaluate(b)
}
