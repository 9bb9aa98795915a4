package typeexpr

import (
	"errors"
	"fmt"

	"tsolve/internal/diag"
	"tsolve/internal/types"
)

// SyntheticDeclBase is the first DefID the reader hands out to declarations
// it invents: inline generic signatures, mapped type parameters and the
// scopes of `infer` variables. Owners of real declarations must stay below
// it.
const SyntheticDeclBase types.DefID = 1 << 30

const defaultMaxDepth = 256

// Reader turns type expression text into interned types.
type Reader struct {
	in       *types.Interner
	b        types.Builtins
	env      Env
	file     string
	next     types.DefID
	maxDepth int
}

// NewReader creates a reader over in. A nil env resolves no names.
func NewReader(in *types.Interner, env Env) *Reader {
	if env == nil {
		env = (*MapEnv)(nil)
	}
	return &Reader{
		in:       in,
		b:        in.Builtins(),
		env:      env,
		file:     "<expr>",
		next:     SyntheticDeclBase,
		maxDepth: defaultMaxDepth,
	}
}

// SetFile names the source used in diagnostic spans.
func (r *Reader) SetFile(name string) { r.file = name }

// SetMaxDepth bounds the nesting of a single expression.
func (r *Reader) SetMaxDepth(depth int) {
	if depth > 0 {
		r.maxDepth = depth
	}
}

func (r *Reader) fresh() types.DefID {
	r.next++
	return r.next
}

// Type parses src as a complete type expression.
func (r *Reader) Type(src string) (types.TypeID, error) {
	return r.ParseIn(src, nil)
}

// ParseIn parses src with the given type parameters in scope.
func (r *Reader) ParseIn(src string, scope map[string]types.TypeID) (id types.TypeID, err error) {
	p, err := r.newParser(src)
	if err != nil {
		return types.NoTypeID, err
	}
	if len(scope) > 0 {
		p.scopes = append(p.scopes, scope)
	}
	defer p.recover(&err)
	id = p.parseType()
	p.expect(EOF)
	return id, nil
}

// Params interns the type parameters of decl. Each entry has the form
// `[const] Name [extends Constraint] [= Default]`. All names are in scope
// for every constraint and default, so bounds may refer to each other.
func (r *Reader) Params(decl types.DefID, srcs []string) (ids []types.TypeID, err error) {
	parsers := make([]*parser, len(srcs))
	ids = make([]types.TypeID, len(srcs))
	scope := make(map[string]types.TypeID, len(srcs))
	for i, src := range srcs {
		p, err := r.newParser(src)
		if err != nil {
			return nil, err
		}
		name, isConst, err := p.paramHead()
		if err != nil {
			return nil, err
		}
		if _, dup := scope[name]; dup {
			return nil, diag.NewError(diag.SynUnexpectedToken, spanAt(r.file, src, 0),
				fmt.Sprintf("duplicate type parameter %s", name))
		}
		ids[i] = r.in.TypeParam(types.TypeParamInfo{Name: name, Decl: decl, Const: isConst})
		scope[name] = ids[i]
		parsers[i] = p
	}
	for i, p := range parsers {
		p.scopes = append(p.scopes, scope)
		constraint, def, err := p.paramBounds()
		if err != nil {
			return nil, err
		}
		r.in.SetTypeParamBounds(ids[i], constraint, def)
	}
	return ids, nil
}

func (r *Reader) newParser(src string) (*parser, error) {
	toks, err := Lex(r.file, src)
	if err != nil {
		return nil, err
	}
	return &parser{r: r, in: r.in, b: r.b, src: src, toks: toks}, nil
}

// bailout carries a syntax error out of the recursive descent.
type bailout struct{ err error }

func (p *parser) recover(err *error) {
	if e := recover(); e != nil {
		b, ok := e.(bailout)
		if !ok {
			panic(e)
		}
		*err = b.err
	}
}

func (p *parser) paramHead() (name string, isConst bool, err error) {
	defer p.recover(&err)
	if p.peek().Kind == Ident && p.peek().Text == "const" && p.peekAt(1).Kind == Ident {
		p.advance()
		isConst = true
	}
	name = p.ident()
	return name, isConst, nil
}

func (p *parser) paramBounds() (constraint, def types.TypeID, err error) {
	defer p.recover(&err)
	if p.acceptWord("extends") {
		constraint = p.parseType()
	}
	if p.accept(Eq) {
		def = p.parseType()
	}
	p.expect(EOF)
	return constraint, def, nil
}

// IsSyntaxError reports whether err came from the reader.
func IsSyntaxError(err error) bool {
	var d diag.Diagnostic
	if !errors.As(err, &d) {
		return false
	}
	return d.Code >= diag.LexInfo && d.Code < diag.SynInfo+1000
}
