package typeexpr

import (
	"tsolve/internal/diag"
	"tsolve/internal/types"
)

// startsFunctionType looks ahead for `<...>(`, `new (` or a parenthesised
// parameter list followed by `=>`.
func (p *parser) startsFunctionType() bool {
	switch tok := p.peek(); {
	case tok.Kind == LAngle:
		return true
	case tok.Kind == Ident && tok.Text == "new":
		next := p.peekAt(1).Kind
		return next == LParen || next == LAngle
	case tok.Kind == Ident && tok.Text == "abstract":
		next := p.peekAt(1)
		return next.Kind == Ident && next.Text == "new"
	case tok.Kind != LParen:
		return false
	}
	switch p.peekAt(1).Kind {
	case RParen, Ellipsis:
		return true
	case Ident:
		switch p.peekAt(2).Kind {
		case Colon, Comma, Question, Eq:
			return true
		case RParen:
			return p.peekAt(3).Kind == Arrow
		}
	}
	return false
}

func (p *parser) parseFunctionType() types.TypeID {
	p.acceptWord("abstract")
	ctor := p.acceptWord("new")
	shape := p.parseSignature(Arrow)
	shape.Constructor = ctor
	return p.in.Function(shape)
}

// parseSignature reads `<T>(params) sep Return`. The type parameters are in
// scope for the parameters and the return type only.
func (p *parser) parseSignature(sep TokenKind) types.FunctionShape {
	var shape types.FunctionShape
	if p.at(LAngle) {
		var scope map[string]types.TypeID
		shape.TypeParams, scope = p.parseTypeParams()
		p.pushScope(scope)
		defer p.popScope()
	}
	shape.Params, shape.This = p.parseParams()
	if sep == Colon && !p.at(Colon) {
		shape.Return = p.b.Any
		return shape
	}
	p.expect(sep)
	shape.Return, shape.Predicate = p.parseReturn()
	return shape
}

func (p *parser) parseTypeParams() ([]types.TypeID, map[string]types.TypeID) {
	p.expect(LAngle)
	decl := p.r.fresh()
	scope := map[string]types.TypeID{}
	var ids []types.TypeID
	p.pushScope(scope)
	defer p.popScope()
	for !p.at(RAngle) {
		isConst := false
		if p.atWord("const") && p.peekAt(1).Kind == Ident {
			p.advance()
			isConst = true
		}
		tok := p.peek()
		name := p.ident()
		if _, dup := scope[name]; dup {
			p.failAt(diag.SynUnexpectedToken, tok.Pos, "duplicate type parameter %s", name)
		}
		id := p.in.TypeParam(types.TypeParamInfo{Name: name, Decl: decl, Const: isConst})
		scope[name] = id
		ids = append(ids, id)
		var constraint, def types.TypeID
		if p.acceptWord("extends") {
			constraint = p.parseType()
		}
		if p.accept(Eq) {
			def = p.parseType()
		}
		p.in.SetTypeParamBounds(id, constraint, def)
		if !p.accept(Comma) {
			break
		}
	}
	p.expect(RAngle)
	if len(ids) == 0 {
		p.failAt(diag.SynExpectIdentifier, p.peek().Pos, "type parameter list cannot be empty")
	}
	return ids, scope
}

// parseParams reads a parameter list. A leading `this: T` parameter is
// returned separately.
func (p *parser) parseParams() ([]types.ParamInfo, types.TypeID) {
	p.expect(LParen)
	var params []types.ParamInfo
	this := types.NoTypeID
	for !p.at(RParen) {
		rest := p.accept(Ellipsis)
		tok := p.peek()
		name := p.ident()
		optional := p.accept(Question)
		typ := p.b.Any
		if p.accept(Colon) {
			typ = p.parseType()
		}
		switch {
		case name == "this" && !rest && len(params) == 0 && this == types.NoTypeID:
			this = typ
		case rest && optional:
			p.failAt(diag.SynUnexpectedToken, tok.Pos, "a rest parameter cannot be optional")
		default:
			if rest {
				typ = p.restType(typ)
			}
			params = append(params, types.ParamInfo{Name: name, Type: typ, Optional: optional, Rest: rest})
		}
		if !p.accept(Comma) {
			break
		}
		if rest {
			p.failAt(diag.SynUnexpectedToken, p.peek().Pos, "a rest parameter must be last")
		}
	}
	p.expect(RParen)
	return params, this
}

// restType widens an unannotated rest parameter to any[].
func (p *parser) restType(typ types.TypeID) types.TypeID {
	if typ == p.b.Any {
		return p.in.Array(p.b.Any)
	}
	return typ
}

// parseReturn reads a return type, including `x is T`, `asserts x is T`
// and `asserts x` predicates.
func (p *parser) parseReturn() (types.TypeID, *types.TypePredicate) {
	tok, next := p.peek(), p.peekAt(1)
	if tok.Kind == Ident && tok.Text == "asserts" && next.Kind == Ident && next.Text != "is" {
		p.advance()
		param := p.ident()
		pred := &types.TypePredicate{Asserts: true, Param: predicateParam(param)}
		if p.acceptWord("is") {
			pred.Type = p.parseType()
		}
		return p.b.Void, pred
	}
	if tok.Kind == Ident && next.Kind == Ident && next.Text == "is" {
		p.advance()
		p.advance()
		pred := &types.TypePredicate{Param: predicateParam(tok.Text), Type: p.parseType()}
		return p.b.Boolean, pred
	}
	return p.parseType(), nil
}

func predicateParam(name string) string {
	if name == "this" {
		return ""
	}
	return name
}
