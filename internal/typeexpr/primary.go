package typeexpr

import (
	"strconv"

	"tsolve/internal/diag"
	"tsolve/internal/types"
)

func (p *parser) keyword(name string) (types.TypeID, bool) {
	switch name {
	case "any":
		return p.b.Any, true
	case "unknown":
		return p.b.Unknown, true
	case "never":
		return p.b.Never, true
	case "void":
		return p.b.Void, true
	case "null":
		return p.b.Null, true
	case "undefined":
		return p.b.Undefined, true
	case "boolean":
		return p.b.Boolean, true
	case "number":
		return p.b.Number, true
	case "string":
		return p.b.String, true
	case "bigint":
		return p.b.BigInt, true
	case "symbol":
		return p.b.Symbol, true
	case "object":
		return p.b.NonPrimitive, true
	case "true":
		return p.b.True, true
	case "false":
		return p.b.False, true
	}
	return types.NoTypeID, false
}

func (p *parser) parsePrimary() types.TypeID {
	tok := p.peek()
	switch tok.Kind {
	case LParen:
		p.advance()
		id := p.parseType()
		p.expect(RParen)
		return id
	case LBracket:
		return p.parseTuple()
	case LBrace:
		if p.startsMapped() {
			return p.parseMapped()
		}
		return p.parseObject()
	case String:
		p.advance()
		return p.in.StringLiteral(tok.Text)
	case NoSubstTemplate:
		p.advance()
		return p.in.StringLiteral(tok.Text)
	case TemplateHead:
		return p.parseTemplate()
	case Number:
		p.advance()
		return p.numberLiteral(tok, false)
	case BigInt:
		p.advance()
		return p.bigintLiteral(tok, false)
	case Minus:
		next := p.peekAt(1)
		switch next.Kind {
		case Number:
			p.advance()
			p.advance()
			return p.numberLiteral(next, true)
		case BigInt:
			p.advance()
			p.advance()
			return p.bigintLiteral(next, true)
		}
	case Ident:
		return p.parseNamed()
	}
	p.failAt(diag.SynExpectType, tok.Pos, "expected a type, found %s", tok)
	return types.NoTypeID
}

func (p *parser) numberLiteral(tok Token, negative bool) types.TypeID {
	v, err := parseNumber(tok.Text)
	if err != nil {
		p.failAt(diag.LexBadNumber, tok.Pos, "malformed number literal %s", tok.Text)
	}
	if negative {
		v = -v
	}
	return p.in.NumberLiteral(v)
}

func (p *parser) bigintLiteral(tok Token, negative bool) types.TypeID {
	digits, ok := parseBigInt(tok.Text)
	if !ok {
		p.failAt(diag.LexBadNumber, tok.Pos, "malformed bigint literal %sn", tok.Text)
	}
	if negative && digits != "0" {
		digits = "-" + digits
	}
	return p.in.BigIntLiteral(digits)
}

// parseTemplate reads `head${T}middle${U}tail`.
func (p *parser) parseTemplate() types.TypeID {
	head := p.advance()
	texts := []string{head.Text}
	var spans []types.TypeID
	for {
		spans = append(spans, p.parseType())
		tok := p.peek()
		switch tok.Kind {
		case TemplateMiddle:
			p.advance()
			texts = append(texts, tok.Text)
		case TemplateTail:
			p.advance()
			texts = append(texts, tok.Text)
			return p.in.Template(texts, spans)
		default:
			p.failAt(diag.SynUnclosedDelim, tok.Pos, "expected } closing template substitution, found %s", tok)
		}
	}
}

// parseNamed resolves keywords, `typeof`, type parameters, builtin generics
// and declared names.
func (p *parser) parseNamed() types.TypeID {
	tok := p.advance()
	if id, ok := p.keyword(tok.Text); ok {
		return id
	}
	if tok.Text == "typeof" && p.at(Ident) {
		return p.parseTypeQuery()
	}
	if id, ok := p.lookupParam(tok.Text); ok {
		if p.at(LAngle) {
			p.failAt(diag.SynTypeArgCount, p.peek().Pos, "type parameter %s is not generic", tok.Text)
		}
		return id
	}
	if p.at(Dot) {
		return p.parseQualified(tok)
	}
	switch tok.Text {
	case "Array", "ReadonlyArray":
		args := p.typeArgs(tok, 1, 1)
		if tok.Text == "Array" {
			return p.in.Array(args[0])
		}
		return p.in.ReadonlyArray(args[0])
	}
	if kind, ok := types.LookupStringIntrinsic(tok.Text); ok {
		if _, shadowed := p.r.env.LookupType(tok.Text); !shadowed {
			args := p.typeArgs(tok, 1, 1)
			return p.in.StringIntrinsic(kind, args[0])
		}
	}
	ref, ok := p.r.env.LookupType(tok.Text)
	if !ok {
		p.failAt(diag.SynUnknownName, tok.Pos, "cannot find name %s", tok.Text)
	}
	return p.reference(tok, ref)
}

func (p *parser) reference(tok Token, ref TypeRef) types.TypeID {
	if !p.at(LAngle) {
		if ref.Params == 0 {
			return p.in.Lazy(ref.Def)
		}
		if ref.Required > 0 {
			p.failAt(diag.SynTypeArgCount, tok.Pos, "generic type %s requires %d type argument(s)", tok.Text, ref.Required)
		}
		return p.in.Application(ref.Def, nil)
	}
	if ref.Params == 0 {
		p.failAt(diag.SynTypeArgCount, p.peek().Pos, "type %s is not generic", tok.Text)
	}
	args := p.typeArgs(tok, ref.Required, ref.Params)
	return p.in.Application(ref.Def, args)
}

// typeArgs parses `<A, B>` and checks the count against [lo, hi].
func (p *parser) typeArgs(name Token, lo, hi int) []types.TypeID {
	open := p.expect(LAngle)
	var args []types.TypeID
	for !p.at(RAngle) {
		args = append(args, p.parseType())
		if !p.accept(Comma) {
			break
		}
	}
	p.expect(RAngle)
	if len(args) < lo || len(args) > hi {
		want := strconv.Itoa(lo)
		if hi != lo {
			want += "-" + strconv.Itoa(hi)
		}
		p.failAt(diag.SynTypeArgCount, open.Pos, "%s expects %s type argument(s), got %d", name.Text, want, len(args))
	}
	return args
}

func (p *parser) parseQualified(head Token) types.TypeID {
	ref, ok := p.r.env.LookupType(head.Text)
	if !ok {
		p.failAt(diag.SynUnknownName, head.Pos, "cannot find namespace %s", head.Text)
	}
	p.expect(Dot)
	member := p.peek()
	name := p.ident()
	id, ok := p.r.env.LookupMember(ref.Def, name)
	if !ok {
		p.failAt(diag.SynUnknownName, member.Pos, "%s has no member %s", head.Text, name)
	}
	return id
}

func (p *parser) parseTypeQuery() types.TypeID {
	tok := p.peek()
	name := p.ident()
	def, ok := p.r.env.LookupValue(name)
	if !ok {
		p.failAt(diag.SynUnknownName, tok.Pos, "cannot find value %s", name)
	}
	return p.in.TypeQuery(def)
}
