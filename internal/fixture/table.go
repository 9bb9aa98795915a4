package fixture

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"tsolve/internal/diag"
	"tsolve/internal/typeexpr"
	"tsolve/internal/types"
)

type entry struct {
	decl     Decl
	def      types.DefID
	required int
	params   []types.TypeID
	body     types.TypeID
	members  map[string]types.TypeID
}

// Table owns the declarations of one fixture. It resolves declarations for
// the solver, names them for labels and answers name lookups for the type
// expression reader.
type Table struct {
	in      *types.Interner
	file    string
	reader  *typeexpr.Reader
	entries []*entry // indexed by DefID-1
	types   map[string]*entry
	values  map[string]*entry
}

// NewTable creates an empty table whose expressions are read into in.
func NewTable(in *types.Interner, file string) *Table {
	t := &Table{
		in:     in,
		file:   file,
		types:  make(map[string]*entry),
		values: make(map[string]*entry),
	}
	t.reader = typeexpr.NewReader(in, t)
	t.reader.SetFile(file)
	return t
}

// Reader returns the reader that resolves names against the table.
func (t *Table) Reader() *typeexpr.Reader { return t.reader }

// Len reports the number of declarations.
func (t *Table) Len() int { return len(t.entries) }

// Declare registers decls and then reads their parameters and bodies. All
// names are registered before any body is read, so declarations may refer to
// each other in any order.
func (t *Table) Declare(decls []Decl) error {
	added := make([]*entry, 0, len(decls))
	for _, d := range decls {
		ns := t.types
		if d.Kind == KindValue {
			ns = t.values
		}
		if _, dup := ns[d.Name]; dup {
			return t.errorf(diag.FixDuplicateDecl, "duplicate declaration %s", d.Name)
		}
		next, err := safecast.Conv[uint32](len(t.entries) + 1)
		if err != nil || types.DefID(next) >= typeexpr.SyntheticDeclBase {
			return t.errorf(diag.FixBadDecl, "too many declarations")
		}
		required, err := requiredParams(d.Params)
		if err != nil {
			return fmt.Errorf("decl %s: %w", d.Name, err)
		}
		e := &entry{decl: d, def: types.DefID(next), required: required}
		t.entries = append(t.entries, e)
		ns[d.Name] = e
		added = append(added, e)
	}
	for _, e := range added {
		if err := t.read(e); err != nil {
			return fmt.Errorf("decl %s: %w", e.decl.Name, err)
		}
	}
	return nil
}

func (t *Table) errorf(code diag.Code, format string, args ...any) error {
	return diag.NewError(code, diag.Span{File: t.file}, fmt.Sprintf(format, args...))
}

// requiredParams counts the leading parameters without a default.
func requiredParams(srcs []string) (int, error) {
	required := 0
	for _, src := range srcs {
		toks, err := typeexpr.Lex("", src)
		if err != nil {
			return 0, err
		}
		if !hasDefault(toks) {
			required++
		}
	}
	return required, nil
}

func hasDefault(toks []typeexpr.Token) bool {
	depth := 0
	for _, tok := range toks {
		switch tok.Kind {
		case typeexpr.LParen, typeexpr.LBracket, typeexpr.LBrace, typeexpr.LAngle, typeexpr.TemplateHead:
			depth++
		case typeexpr.RParen, typeexpr.RBracket, typeexpr.RBrace, typeexpr.RAngle, typeexpr.TemplateTail:
			depth--
		case typeexpr.Eq:
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func (t *Table) read(e *entry) error {
	d := e.decl
	if d.Kind != KindAlias && len(d.Params) > 0 {
		return t.errorf(diag.FixBadDecl, "%s declaration %s cannot have type parameters", d.Kind, d.Name)
	}
	switch d.Kind {
	case KindEnum:
		return t.readEnum(e)
	case KindValue:
		body, err := t.reader.Type(d.Type)
		if err != nil {
			return err
		}
		e.body = body
		return nil
	}
	params, err := t.reader.Params(e.def, d.Params)
	if err != nil {
		return err
	}
	scope := make(map[string]types.TypeID, len(params))
	for i, p := range params {
		info, _ := t.in.TypeParamInfo(p)
		scope[info.Name] = params[i]
	}
	body, err := t.reader.ParseIn(d.Type, scope)
	if err != nil {
		return err
	}
	e.params, e.body = params, body
	return nil
}

// readEnum builds the members of an enum. Numbering starts at 0 and
// continues from the last numeric initializer.
func (t *Table) readEnum(e *entry) error {
	e.members = make(map[string]types.TypeID, len(e.decl.Members))
	members := make([]types.TypeID, 0, len(e.decl.Members))
	next, numeric := 0.0, true
	for _, m := range e.decl.Members {
		name, init, hasInit := strings.Cut(m, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return t.errorf(diag.FixBadDecl, "enum %s: empty member name", e.decl.Name)
		}
		if _, dup := e.members[name]; dup {
			return t.errorf(diag.FixDuplicateDecl, "enum %s: duplicate member %s", e.decl.Name, name)
		}
		var value types.TypeID
		if hasInit {
			v, err := t.reader.Type(strings.TrimSpace(init))
			if err != nil {
				return err
			}
			lit, ok := t.in.LiteralInfo(v)
			switch {
			case ok && lit.Kind == types.LitNumber:
				next, numeric = lit.Num+1, true
			case ok && lit.Kind == types.LitString:
				numeric = false
			default:
				return t.errorf(diag.FixBadDecl, "enum %s: member %s needs a string or number literal", e.decl.Name, name)
			}
			value = v
		} else {
			if !numeric {
				return t.errorf(diag.FixBadDecl, "enum %s: member %s needs an initializer", e.decl.Name, name)
			}
			value = t.in.NumberLiteral(next)
			next++
		}
		id := t.in.EnumMember(e.def, name, value)
		e.members[name] = id
		members = append(members, id)
	}
	e.body = t.in.Enum(e.def, t.in.Union(members...))
	return nil
}

func (t *Table) entry(def types.DefID) *entry {
	if def == types.NoDefID || int(def) > len(t.entries) {
		return nil
	}
	return t.entries[def-1]
}

// ResolveDef implements solver.Resolver.
func (t *Table) ResolveDef(def types.DefID) (types.TypeID, bool) {
	e := t.entry(def)
	if e == nil || e.body == types.NoTypeID {
		return types.NoTypeID, false
	}
	return e.body, true
}

// DefTypeParams implements solver.Resolver.
func (t *Table) DefTypeParams(def types.DefID) []types.TypeID {
	if e := t.entry(def); e != nil {
		return e.params
	}
	return nil
}

// DefName implements types.DefNamer.
func (t *Table) DefName(def types.DefID) string {
	if e := t.entry(def); e != nil {
		return e.decl.Name
	}
	return ""
}

// LookupType implements typeexpr.Env.
func (t *Table) LookupType(name string) (typeexpr.TypeRef, bool) {
	e, ok := t.types[name]
	if !ok {
		return typeexpr.TypeRef{}, false
	}
	return typeexpr.TypeRef{Def: e.def, Params: len(e.decl.Params), Required: e.required}, true
}

// LookupValue implements typeexpr.Env.
func (t *Table) LookupValue(name string) (types.DefID, bool) {
	e, ok := t.values[name]
	if !ok {
		return types.NoDefID, false
	}
	return e.def, true
}

// LookupMember implements typeexpr.Env.
func (t *Table) LookupMember(def types.DefID, member string) (types.TypeID, bool) {
	e := t.entry(def)
	if e == nil {
		return types.NoTypeID, false
	}
	id, ok := e.members[member]
	return id, ok
}
