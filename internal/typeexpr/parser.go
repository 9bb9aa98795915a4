package typeexpr

import (
	"fmt"

	"tsolve/internal/diag"
	"tsolve/internal/types"
)

// parser is a recursive descent parser over a fully lexed expression. The
// token slice allows arbitrary lookahead, which function types and
// constrained `infer` need.
type parser struct {
	r    *Reader
	in   *types.Interner
	b    types.Builtins
	src  string
	toks []Token
	pos  int

	// scopes holds type parameter names visible at the current point,
	// innermost last.
	scopes []map[string]types.TypeID
	// infers collects `infer` declarations of the extends clause being
	// parsed, innermost last.
	infers []*inferScope
	// noCond is set while parsing the extends clause of a conditional,
	// where a bare conditional type is not allowed.
	noCond bool
	depth  int
}

type inferScope struct {
	decl types.DefID
	vars map[string]types.TypeID
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) at(kind TokenKind) bool { return p.peek().Kind == kind }

func (p *parser) atWord(word string) bool {
	tok := p.peek()
	return tok.Kind == Ident && tok.Text == word
}

func (p *parser) accept(kind TokenKind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) acceptWord(word string) bool {
	if p.atWord(word) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(kind TokenKind) Token {
	if !p.at(kind) {
		code := diag.SynUnexpectedToken
		switch kind {
		case RParen, RBracket, RBrace, RAngle:
			code = diag.SynUnclosedDelim
		}
		p.failAt(code, p.peek().Pos, "expected %s, found %s", kind, p.peek())
	}
	return p.advance()
}

func (p *parser) ident() string {
	tok := p.peek()
	if tok.Kind != Ident {
		p.failAt(diag.SynExpectIdentifier, tok.Pos, "expected identifier, found %s", tok)
	}
	p.advance()
	return tok.Text
}

func (p *parser) failAt(code diag.Code, pos int, format string, args ...any) {
	panic(bailout{diag.NewError(code, spanAt(p.r.file, p.src, pos), fmt.Sprintf(format, args...))})
}

func (p *parser) enter() {
	p.depth++
	if p.depth > p.r.maxDepth {
		p.failAt(diag.SynUnexpectedToken, p.peek().Pos, "type expression nests deeper than %d", p.r.maxDepth)
	}
}

func (p *parser) leave() { p.depth-- }

func (p *parser) lookupParam(name string) (types.TypeID, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if id, ok := p.scopes[i][name]; ok {
			return id, true
		}
	}
	return types.NoTypeID, false
}

func (p *parser) pushScope(scope map[string]types.TypeID) { p.scopes = append(p.scopes, scope) }
func (p *parser) popScope()                                { p.scopes = p.scopes[:len(p.scopes)-1] }

// parseType parses a full type: a function type or a conditional.
func (p *parser) parseType() types.TypeID {
	p.enter()
	defer p.leave()
	saved := p.noCond
	p.noCond = false
	defer func() { p.noCond = saved }()
	if p.startsFunctionType() {
		return p.parseFunctionType()
	}
	check := p.parseUnion()
	if !p.atWord("extends") {
		return check
	}
	p.advance()
	return p.parseConditionalRest(check)
}

func (p *parser) parseConditionalRest(check types.TypeID) types.TypeID {
	scope := &inferScope{decl: p.r.fresh(), vars: map[string]types.TypeID{}}
	p.infers = append(p.infers, scope)
	p.noCond = true
	extends := p.parseNonConditional()
	p.noCond = false
	p.infers = p.infers[:len(p.infers)-1]

	p.expect(Question)
	p.pushScope(scope.vars)
	whenTrue := p.parseType()
	p.popScope()
	p.expect(Colon)
	whenFalse := p.parseType()
	return p.in.Conditional(check, extends, whenTrue, whenFalse)
}

// parseNonConditional parses a function type or a union, leaving a
// following `extends` to the caller.
func (p *parser) parseNonConditional() types.TypeID {
	if p.startsFunctionType() {
		p.enter()
		defer p.leave()
		return p.parseFunctionType()
	}
	return p.parseUnion()
}

func (p *parser) parseUnion() types.TypeID {
	p.accept(Pipe)
	first := p.parseIntersection()
	if !p.at(Pipe) {
		return first
	}
	members := []types.TypeID{first}
	for p.accept(Pipe) {
		members = append(members, p.parseIntersection())
	}
	return p.in.Union(members...)
}

func (p *parser) parseIntersection() types.TypeID {
	p.accept(Amp)
	first := p.parseOperator()
	if !p.at(Amp) {
		return first
	}
	members := []types.TypeID{first}
	for p.accept(Amp) {
		members = append(members, p.parseOperator())
	}
	return p.in.Intersection(members...)
}

// parseOperator handles the prefix type operators.
func (p *parser) parseOperator() types.TypeID {
	tok := p.peek()
	if tok.Kind != Ident {
		return p.parsePostfix()
	}
	switch tok.Text {
	case "keyof":
		if !p.operatorFollows() {
			break
		}
		p.advance()
		p.enter()
		defer p.leave()
		return p.in.KeyOf(p.parseOperator())
	case "readonly":
		if !p.operatorFollows() {
			break
		}
		p.advance()
		p.enter()
		defer p.leave()
		return p.makeReadonly(tok.Pos, p.parseOperator())
	case "unique":
		if p.peekAt(1).Kind == Ident && p.peekAt(1).Text == "symbol" {
			p.advance()
			p.advance()
			return p.b.Symbol
		}
	case "infer":
		if p.peekAt(1).Kind == Ident {
			p.advance()
			return p.parseInfer(tok.Pos)
		}
	}
	return p.parsePostfix()
}

// operatorFollows distinguishes `keyof T` from a type named keyof.
func (p *parser) operatorFollows() bool {
	switch p.peekAt(1).Kind {
	case EOF, RParen, RBracket, RBrace, RAngle, Comma, Semi, Colon, Question, Pipe, Amp, Eq, Arrow:
		return false
	}
	return true
}

func (p *parser) makeReadonly(pos int, id types.TypeID) types.TypeID {
	t, _ := p.in.Lookup(id)
	switch t.Kind {
	case types.KindArray:
		return p.in.ReadonlyArray(t.Elem)
	case types.KindTuple:
		info, _ := p.in.TupleInfo(id)
		return p.in.Tuple(info.Elems, true)
	}
	p.failAt(diag.SynUnexpectedToken, pos, "readonly applies only to array and tuple types")
	return types.NoTypeID
}

func (p *parser) parseInfer(pos int) types.TypeID {
	if len(p.infers) == 0 {
		p.failAt(diag.SynUnexpectedToken, pos, "infer is only allowed in the extends clause of a conditional type")
	}
	scope := p.infers[len(p.infers)-1]
	name := p.ident()
	var constraint types.TypeID
	if p.atWord("extends") {
		mark := p.pos
		p.advance()
		wasNoCond := p.noCond
		p.noCond = true
		c := p.parseNonConditional()
		p.noCond = wasNoCond
		// Outside an extends clause `infer U extends X ? A : B` is a
		// conditional whose check type is `infer U`.
		if !wasNoCond && p.at(Question) {
			p.pos = mark
		} else {
			constraint = c
		}
	}
	if id, ok := scope.vars[name]; ok {
		return id
	}
	id := p.in.Infer(types.TypeParamInfo{Name: name, Decl: scope.decl, Constraint: constraint})
	scope.vars[name] = id
	return id
}

// parsePostfix handles `T[]` and `T[K]`.
func (p *parser) parsePostfix() types.TypeID {
	id := p.parsePrimary()
	for p.at(LBracket) {
		p.advance()
		if p.accept(RBracket) {
			id = p.in.Array(id)
			continue
		}
		index := p.parseType()
		p.expect(RBracket)
		id = p.in.IndexedAccess(id, index)
	}
	return id
}
