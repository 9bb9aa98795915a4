package types

import (
	"strconv"
	"strings"
)

// DefNamer names declarations for printing. The binder (or a fixture table)
// implements it; without one, declarations print as `#<id>`.
type DefNamer interface {
	DefName(def DefID) string
}

// Label returns TypeScript-like text for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return LabelWith(typesIn, nil, id)
}

// LabelWith is Label with declaration names supplied by namer.
func LabelWith(typesIn *Interner, namer DefNamer, id TypeID) string {
	p := printer{in: typesIn, namer: namer}
	return p.label(id, 0)
}

type printer struct {
	in    *Interner
	namer DefNamer
}

const maxLabelDepth = 8

func (p *printer) def(def DefID) string {
	if p.namer != nil {
		if n := p.namer.DefName(def); n != "" {
			return n
		}
	}
	return "#" + strconv.FormatUint(uint64(def), 10)
}

func (p *printer) label(id TypeID, depth int) string {
	if id == NoTypeID || p.in == nil {
		return "?"
	}
	if depth > maxLabelDepth {
		return "..."
	}
	tt, ok := p.in.Lookup(id)
	if !ok {
		return "?"
	}
	in := p.in
	switch tt.Kind {
	case KindAny, KindUnknown, KindNever, KindVoid, KindNull, KindUndefined,
		KindBoolean, KindNumber, KindString, KindBigInt, KindSymbol, KindNonPrimitive:
		return tt.Kind.String()
	case KindLiteral:
		v := in.literals[tt.Payload]
		switch v.Kind {
		case LitString:
			return strconv.Quote(v.Str)
		case LitBigInt:
			return v.Str + "n"
		}
		return v.Text()
	case KindUnion:
		return p.join(in.lists[tt.Payload], " | ", depth, KindIntersection, KindFunction, KindConditional)
	case KindIntersection:
		return p.join(in.lists[tt.Payload], " & ", depth, KindUnion, KindFunction, KindConditional)
	case KindArray:
		elem := p.label(tt.Elem, depth+1)
		switch in.KindOf(tt.Elem) {
		case KindUnion, KindIntersection, KindFunction, KindConditional:
			elem = "(" + elem + ")"
		}
		if tt.Readonly() {
			return "readonly " + elem + "[]"
		}
		return elem + "[]"
	case KindTuple:
		return p.tuple(&in.tuples[tt.Payload], depth)
	case KindObject:
		return p.object(&in.objects[tt.Payload], depth)
	case KindFunction:
		return p.fn(&in.fns[tt.Payload], depth, " => ")
	case KindTypeParam:
		return in.params[tt.Payload].Name
	case KindInfer:
		info := in.params[tt.Payload]
		if info.Constraint != NoTypeID {
			return "infer " + info.Name + " extends " + p.label(info.Constraint, depth+1)
		}
		return "infer " + info.Name
	case KindApplication:
		app := in.apps[tt.Payload]
		return p.def(app.Def) + "<" + p.list(app.Args, depth) + ">"
	case KindConditional:
		c := in.conds[tt.Payload]
		return p.label(c.Check, depth+1) + " extends " + p.label(c.Extends, depth+1) +
			" ? " + p.label(c.True, depth+1) + " : " + p.label(c.False, depth+1)
	case KindMapped:
		return p.mapped(&in.mapped[tt.Payload], depth)
	case KindIndexedAccess:
		return p.label(tt.Elem, depth+1) + "[" + p.label(tt.Aux, depth+1) + "]"
	case KindKeyOf:
		return "keyof " + p.label(tt.Elem, depth+1)
	case KindTemplate:
		t := in.templates[tt.Payload]
		var sb strings.Builder
		sb.WriteByte('`')
		sb.WriteString(t.Texts[0])
		for i, s := range t.Spans {
			sb.WriteString("${")
			sb.WriteString(p.label(s, depth+1))
			sb.WriteByte('}')
			sb.WriteString(t.Texts[i+1])
		}
		sb.WriteByte('`')
		return sb.String()
	case KindStringIntrinsic:
		return StringIntrinsicKind(tt.Payload).String() + "<" + p.label(tt.Elem, depth+1) + ">"
	case KindLazy, KindEnum:
		return p.def(tt.Def())
	case KindTypeQuery:
		return "typeof " + p.def(tt.Def())
	case KindEnumMember:
		return p.def(tt.Def()) + "." + in.EnumMemberName(id)
	}
	return "?"
}

func (p *printer) list(ids []TypeID, depth int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = p.label(id, depth+1)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) join(ids []TypeID, sep string, depth int, paren ...Kind) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		s := p.label(id, depth+1)
		k := p.in.KindOf(id)
		for _, pk := range paren {
			if k == pk {
				s = "(" + s + ")"
				break
			}
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}

func (p *printer) tuple(info *TupleInfo, depth int) string {
	parts := make([]string, len(info.Elems))
	for i, e := range info.Elems {
		var sb strings.Builder
		if e.Rest {
			sb.WriteString("...")
		}
		if e.Name != "" {
			sb.WriteString(e.Name)
			if e.Optional {
				sb.WriteByte('?')
			}
			sb.WriteString(": ")
			sb.WriteString(p.label(e.Type, depth+1))
		} else {
			sb.WriteString(p.label(e.Type, depth+1))
			if e.Optional {
				sb.WriteByte('?')
			}
		}
		parts[i] = sb.String()
	}
	out := "[" + strings.Join(parts, ", ") + "]"
	if info.Readonly {
		return "readonly " + out
	}
	return out
}

func (p *printer) object(o *ObjectShape, depth int) string {
	if o.IsEmpty() {
		if o.Nominal != NoDefID {
			return p.def(o.Nominal)
		}
		return "{}"
	}
	var members []string
	for _, c := range o.Calls {
		if f, ok := p.in.FnInfo(c); ok {
			members = append(members, p.fn(f, depth, ": "))
		}
	}
	for _, c := range o.Constructs {
		if f, ok := p.in.FnInfo(c); ok {
			members = append(members, "new "+p.fn(f, depth, ": "))
		}
	}
	if o.StringIdx != nil {
		members = append(members, index(o.StringIdx, "string", p.label(o.StringIdx.Value, depth+1)))
	}
	if o.NumberIdx != nil {
		members = append(members, index(o.NumberIdx, "number", p.label(o.NumberIdx.Value, depth+1)))
	}
	for _, prop := range o.Props {
		var sb strings.Builder
		switch prop.Visibility {
		case VisPrivate:
			sb.WriteString("private ")
		case VisProtected:
			sb.WriteString("protected ")
		}
		if prop.Readonly {
			sb.WriteString("readonly ")
		}
		sb.WriteString(propertyName(prop.Name))
		if prop.Optional {
			sb.WriteByte('?')
		}
		sb.WriteString(": ")
		sb.WriteString(p.label(prop.Type, depth+1))
		members = append(members, sb.String())
	}
	return "{ " + strings.Join(members, "; ") + " }"
}

func index(sig *IndexSignature, key, value string) string {
	s := "[key: " + key + "]: " + value
	if sig.Readonly {
		return "readonly " + s
	}
	return s
}

func (p *printer) fn(f *FunctionShape, depth int, arrow string) string {
	var sb strings.Builder
	if len(f.TypeParams) > 0 {
		sb.WriteByte('<')
		for i, tp := range f.TypeParams {
			if i > 0 {
				sb.WriteString(", ")
			}
			info, _ := p.in.TypeParamInfo(tp)
			sb.WriteString(info.Name)
			if info.Constraint != NoTypeID {
				sb.WriteString(" extends ")
				sb.WriteString(p.label(info.Constraint, depth+1))
			}
			if info.Default != NoTypeID {
				sb.WriteString(" = ")
				sb.WriteString(p.label(info.Default, depth+1))
			}
		}
		sb.WriteByte('>')
	}
	sb.WriteByte('(')
	first := true
	if f.This != NoTypeID {
		sb.WriteString("this: ")
		sb.WriteString(p.label(f.This, depth+1))
		first = false
	}
	for i, param := range f.Params {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		if param.Rest {
			sb.WriteString("...")
		}
		name := param.Name
		if name == "" {
			name = "arg" + strconv.Itoa(i)
		}
		sb.WriteString(name)
		if param.Optional {
			sb.WriteByte('?')
		}
		sb.WriteString(": ")
		sb.WriteString(p.label(param.Type, depth+1))
	}
	sb.WriteByte(')')
	sb.WriteString(arrow)
	if pred := f.Predicate; pred != nil {
		if pred.Asserts {
			sb.WriteString("asserts ")
		}
		subject := pred.Param
		if subject == "" {
			subject = "this"
		}
		sb.WriteString(subject)
		if pred.Type != NoTypeID {
			sb.WriteString(" is ")
			sb.WriteString(p.label(pred.Type, depth+1))
		}
		return sb.String()
	}
	sb.WriteString(p.label(f.Return, depth+1))
	return sb.String()
}

func (p *printer) mapped(m *MappedInfo, depth int) string {
	var sb strings.Builder
	sb.WriteString("{ ")
	switch m.Readonly {
	case ModAdd:
		sb.WriteString("readonly ")
	case ModRemove:
		sb.WriteString("-readonly ")
	}
	sb.WriteByte('[')
	sb.WriteString(p.label(m.Param, depth+1))
	sb.WriteString(" in ")
	sb.WriteString(p.label(m.Constraint, depth+1))
	if m.NameType != NoTypeID {
		sb.WriteString(" as ")
		sb.WriteString(p.label(m.NameType, depth+1))
	}
	sb.WriteByte(']')
	switch m.Optional {
	case ModAdd:
		sb.WriteByte('?')
	case ModRemove:
		sb.WriteString("-?")
	}
	sb.WriteString(": ")
	sb.WriteString(p.label(m.Template, depth+1))
	sb.WriteString(" }")
	return sb.String()
}

func propertyName(name string) string {
	if name == "" {
		return `""`
	}
	for i, r := range name {
		ok := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ok {
			if IsNumericText(name) {
				return name
			}
			return strconv.Quote(name)
		}
	}
	return name
}
