package typeexpr

import (
	"strconv"

	"tsolve/internal/diag"
	"tsolve/internal/types"
)

func (p *parser) expectWord(word string) {
	if !p.acceptWord(word) {
		p.failAt(diag.SynUnexpectedToken, p.peek().Pos, "expected %s, found %s", word, p.peek())
	}
}

// parseTuple reads `[A, B?, ...C[]]` with optional element labels.
func (p *parser) parseTuple() types.TypeID {
	p.expect(LBracket)
	var elems []types.TupleElement
	for !p.at(RBracket) {
		var el types.TupleElement
		el.Rest = p.accept(Ellipsis)
		if p.at(Ident) && (p.peekAt(1).Kind == Colon || p.peekAt(1).Kind == Question && p.peekAt(2).Kind == Colon) {
			el.Name = p.advance().Text
			el.Optional = p.accept(Question)
			p.expect(Colon)
			el.Type = p.parseType()
		} else {
			el.Type = p.parseType()
			el.Optional = p.accept(Question)
		}
		if el.Rest && el.Optional {
			p.failAt(diag.SynUnexpectedToken, p.peek().Pos, "a rest element cannot be optional")
		}
		elems = append(elems, el)
		if !p.accept(Comma) {
			break
		}
	}
	p.expect(RBracket)
	return p.in.Tuple(elems, false)
}

// startsMapped recognises `{ [K in` with optional readonly modifiers.
func (p *parser) startsMapped() bool {
	i := 1
	if k := p.peekAt(i).Kind; k == Plus || k == Minus {
		i++
	}
	if tok := p.peekAt(i); tok.Kind == Ident && tok.Text == "readonly" {
		i++
	}
	in := p.peekAt(i + 2)
	return p.peekAt(i).Kind == LBracket && p.peekAt(i+1).Kind == Ident && in.Kind == Ident && in.Text == "in"
}

// modifier reads `+word`, `-word` or a bare `word`.
func (p *parser) modifier(word string) types.Modifier {
	mod := types.ModAdd
	if p.accept(Minus) {
		mod = types.ModRemove
	} else {
		p.accept(Plus)
	}
	p.modifierWord(word)
	return mod
}

func (p *parser) modifierWord(word string) {
	if word == "?" {
		p.expect(Question)
		return
	}
	p.expectWord(word)
}

// parseMapped reads `{ readonly [K in C as N]?: T }`.
func (p *parser) parseMapped() types.TypeID {
	p.expect(LBrace)
	info := types.MappedInfo{Readonly: types.ModPreserve, Optional: types.ModPreserve}
	if p.at(Plus) || p.at(Minus) || p.atWord("readonly") {
		info.Readonly = p.modifier("readonly")
	}
	p.expect(LBracket)
	name := p.ident()
	p.expectWord("in")
	constraint := p.parseType()
	info.Param = p.in.TypeParam(types.TypeParamInfo{Name: name, Decl: p.r.fresh(), Constraint: constraint})
	info.Constraint = constraint
	p.pushScope(map[string]types.TypeID{name: info.Param})
	defer p.popScope()
	if p.acceptWord("as") {
		info.NameType = p.parseType()
	}
	p.expect(RBracket)
	if p.at(Plus) || p.at(Minus) || p.at(Question) {
		info.Optional = p.modifier("?")
	}
	info.Template = p.b.Any
	if p.accept(Colon) {
		info.Template = p.parseType()
	}
	if !p.accept(Semi) {
		p.accept(Comma)
	}
	p.expect(RBrace)
	return p.in.Mapped(info)
}

// parseObject reads an object type literal.
func (p *parser) parseObject() types.TypeID {
	p.expect(LBrace)
	var shape types.ObjectShape
	seen := map[string]bool{}
	for !p.at(RBrace) {
		p.parseMember(&shape, seen)
		if !p.accept(Semi) && !p.accept(Comma) {
			break
		}
	}
	p.expect(RBrace)
	return p.in.Object(shape)
}

func (p *parser) startsMemberName(tok Token) bool {
	switch tok.Kind {
	case Ident, String, Number, LBracket:
		return true
	}
	return false
}

func (p *parser) parseMember(shape *types.ObjectShape, seen map[string]bool) {
	readonly := false
	if p.atWord("readonly") && p.startsMemberName(p.peekAt(1)) {
		p.advance()
		readonly = true
	}
	tok := p.peek()
	switch {
	case tok.Kind == LBracket:
		p.parseIndexSignature(shape, readonly)
		return
	case !readonly && (tok.Kind == LParen || tok.Kind == LAngle):
		shape.Calls = append(shape.Calls, p.in.Function(p.parseSignature(Colon)))
		return
	case !readonly && tok.Kind == Ident && tok.Text == "new" && (p.peekAt(1).Kind == LParen || p.peekAt(1).Kind == LAngle):
		p.advance()
		sig := p.parseSignature(Colon)
		sig.Constructor = true
		shape.Constructs = append(shape.Constructs, p.in.Function(sig))
		return
	}

	name := p.memberName()
	if seen[name] {
		p.failAt(diag.SynUnexpectedToken, tok.Pos, "duplicate member %s", name)
	}
	seen[name] = true
	prop := types.PropertyInfo{Name: name, Readonly: readonly, Type: p.b.Any}
	prop.Optional = p.accept(Question)
	switch {
	case p.at(LParen) || p.at(LAngle):
		sig := p.parseSignature(Colon)
		sig.Method = true
		prop.Type = p.in.Function(sig)
		prop.Method = true
	case p.accept(Colon):
		prop.Type = p.parseType()
	}
	shape.Props = append(shape.Props, prop)
}

func (p *parser) memberName() string {
	tok := p.advance()
	switch tok.Kind {
	case Ident, String:
		return tok.Text
	case Number:
		v, err := parseNumber(tok.Text)
		if err != nil {
			p.failAt(diag.LexBadNumber, tok.Pos, "malformed number literal %s", tok.Text)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	p.failAt(diag.SynExpectIdentifier, tok.Pos, "expected member name, found %s", tok)
	return ""
}

// parseIndexSignature reads `[key: string]: T` or `[key: number]: T`.
func (p *parser) parseIndexSignature(shape *types.ObjectShape, readonly bool) {
	open := p.expect(LBracket)
	p.ident()
	p.expect(Colon)
	key := p.parseType()
	p.expect(RBracket)
	p.expect(Colon)
	sig := &types.IndexSignature{Value: p.parseType(), Readonly: readonly}
	switch key {
	case p.b.String:
		if shape.StringIdx != nil {
			p.failAt(diag.SynUnexpectedToken, open.Pos, "duplicate string index signature")
		}
		shape.StringIdx = sig
	case p.b.Number:
		if shape.NumberIdx != nil {
			p.failAt(diag.SynUnexpectedToken, open.Pos, "duplicate number index signature")
		}
		shape.NumberIdx = sig
	default:
		p.failAt(diag.SynExpectType, open.Pos, "index signature key must be string or number")
	}
}
