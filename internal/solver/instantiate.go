package solver

import (
	"slices"
	"strconv"

	"tsolve/internal/diag"
	"tsolve/internal/types"
)

// Substitution maps type parameters (and infer placeholders) to the types
// bound to them.
type Substitution map[types.TypeID]types.TypeID

// Clone returns an independent copy of sub.
func (sub Substitution) Clone() Substitution {
	out := make(Substitution, len(sub)+1)
	for k, v := range sub {
		out[k] = v
	}
	return out
}

// with returns a copy of sub that additionally binds p to t.
func (sub Substitution) with(p, t types.TypeID) Substitution {
	out := sub.Clone()
	out[p] = t
	return out
}

// without returns sub minus the given parameters, or sub itself when none of
// them is bound.
func (sub Substitution) without(params []types.TypeID) Substitution {
	var out Substitution
	for _, p := range params {
		if _, ok := sub[p]; !ok {
			continue
		}
		if out == nil {
			out = sub.Clone()
		}
		delete(out, p)
	}
	if out == nil {
		return sub
	}
	return out
}

// Instantiate applies sub to id. Meta types left without free parameters
// are evaluated on the way.
func (s *Session) Instantiate(id types.TypeID, sub Substitution) types.TypeID {
	end := s.begin("instantiate", id)
	r := s.instantiate(id, sub)
	end(s.Label(r))
	return r
}

func (s *Session) instantiate(id types.TypeID, sub Substitution) types.TypeID {
	// Absent slots, such as a signature without a this type, stay absent.
	if id == types.NoTypeID || len(sub) == 0 || !s.mentions(id, sub) {
		return id
	}
	if s.instDepth >= int(s.opts.MaxInstantiationDepth) {
		s.degrade(diag.SolverInstantiationDepth, "instantiating %s exceeded depth %d",
			s.Label(id), s.opts.MaxInstantiationDepth)
		return s.b.Any
	}
	s.instDepth++
	defer func() { s.instDepth-- }()
	return s.subst(id, sub)
}

// mentions reports whether id refers to any parameter bound by sub.
func (s *Session) mentions(id types.TypeID, sub Substitution) bool {
	for _, v := range s.freeVars(id) {
		if _, ok := sub[v]; ok {
			return true
		}
	}
	for k := range sub {
		if s.in.KindOf(k) == types.KindInfer {
			return s.hasInferVars(id)
		}
	}
	return false
}

func (s *Session) subst(id types.TypeID, sub Substitution) types.TypeID {
	t := s.in.MustLookup(id)
	switch t.Kind {
	case types.KindTypeParam, types.KindInfer:
		if r, ok := sub[id]; ok {
			return r
		}
		return id
	case types.KindUnion:
		return s.in.Union(s.substAll(s.in.Members(id), sub)...)
	case types.KindIntersection:
		return s.in.Intersection(s.substAll(s.in.Members(id), sub)...)
	case types.KindArray:
		elem := s.instantiate(t.Elem, sub)
		if t.Readonly() {
			return s.in.ReadonlyArray(elem)
		}
		return s.in.Array(elem)
	case types.KindTuple:
		info, _ := s.in.TupleInfo(id)
		return s.in.Tuple(s.substElems(info.Elems, sub), info.Readonly)
	case types.KindObject:
		return s.substObject(id, sub)
	case types.KindFunction:
		return s.substFunction(id, sub)
	case types.KindApplication:
		app, _ := s.in.AppInfo(id)
		return s.in.Application(app.Def, s.substAll(app.Args, sub))
	case types.KindConditional:
		return s.substConditional(id, sub)
	case types.KindMapped:
		return s.substMapped(id, sub)
	case types.KindIndexedAccess:
		return s.settle(s.in.IndexedAccess(s.instantiate(t.Elem, sub), s.instantiate(t.Aux, sub)))
	case types.KindKeyOf:
		return s.settle(s.in.KeyOf(s.instantiate(t.Elem, sub)))
	case types.KindStringIntrinsic:
		return s.settle(s.in.StringIntrinsic(types.StringIntrinsicKind(t.Payload), s.instantiate(t.Elem, sub)))
	case types.KindTemplate:
		info, _ := s.in.TemplateInfo(id)
		return s.settle(s.in.Template(info.Texts, s.substAll(info.Spans, sub)))
	}
	return id
}

// settle evaluates a freshly instantiated meta type once nothing generic is
// left in it.
func (s *Session) settle(id types.TypeID) types.TypeID {
	if !s.in.KindOf(id).IsMeta() || s.hasFreeParams(id) || s.hasInferVars(id) {
		return id
	}
	return s.evaluate(id)
}

func (s *Session) substAll(ids []types.TypeID, sub Substitution) []types.TypeID {
	out := make([]types.TypeID, len(ids))
	for i, c := range ids {
		out[i] = s.instantiate(c, sub)
	}
	return out
}

// substElems instantiates tuple elements. A rest element whose type becomes
// a tuple is spread in place.
func (s *Session) substElems(elems []types.TupleElement, sub Substitution) []types.TupleElement {
	out := make([]types.TupleElement, 0, len(elems))
	for _, e := range elems {
		e.Type = s.instantiate(e.Type, sub)
		if e.Rest {
			if inner, ok := s.in.TupleInfo(e.Type); ok {
				out = append(out, inner.Elems...)
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func (s *Session) substObject(id types.TypeID, sub Substitution) types.TypeID {
	o, _ := s.in.ObjectInfo(id)
	shape := types.ObjectShape{
		Props:      slices.Clone(o.Props),
		Calls:      s.substAll(o.Calls, sub),
		Constructs: s.substAll(o.Constructs, sub),
		Nominal:    o.Nominal,
	}
	for i := range shape.Props {
		shape.Props[i].Type = s.instantiate(shape.Props[i].Type, sub)
	}
	if o.StringIdx != nil {
		shape.StringIdx = &types.IndexSignature{Value: s.instantiate(o.StringIdx.Value, sub), Readonly: o.StringIdx.Readonly}
	}
	if o.NumberIdx != nil {
		shape.NumberIdx = &types.IndexSignature{Value: s.instantiate(o.NumberIdx.Value, sub), Readonly: o.NumberIdx.Readonly}
	}
	return s.in.Object(shape)
}

// substFunction instantiates a signature. The signature's own type
// parameters shadow outer bindings.
func (s *Session) substFunction(id types.TypeID, sub Substitution) types.TypeID {
	fn, _ := s.in.FnInfo(id)
	inner := sub.without(fn.TypeParams)
	if len(inner) == 0 {
		return id
	}
	shape := types.FunctionShape{
		TypeParams:  fn.TypeParams,
		Params:      slices.Clone(fn.Params),
		This:        s.instantiate(fn.This, inner),
		Return:      s.instantiate(fn.Return, inner),
		Method:      fn.Method,
		Constructor: fn.Constructor,
	}
	shape.Params = s.spreadParams(shape.Params, inner)
	if fn.Predicate != nil {
		p := *fn.Predicate
		p.Type = s.instantiate(p.Type, inner)
		shape.Predicate = &p
	}
	return s.in.Function(shape)
}

// spreadParams instantiates parameters. A rest parameter whose type becomes
// a tuple expands into positional parameters.
func (s *Session) spreadParams(params []types.ParamInfo, sub Substitution) []types.ParamInfo {
	out := make([]types.ParamInfo, 0, len(params))
	for _, p := range params {
		p.Type = s.instantiate(p.Type, sub)
		if p.Rest {
			if tup, ok := s.in.TupleInfo(p.Type); ok {
				for i, e := range tup.Elems {
					name := e.Name
					if name == "" {
						name = p.Name + "_" + strconv.Itoa(i)
					}
					out = append(out, types.ParamInfo{Name: name, Type: e.Type, Optional: e.Optional, Rest: e.Rest})
				}
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// substConditional instantiates a conditional. A distributive conditional
// whose checked parameter is bound to a union is applied to each member with
// the parameter rebound to that member.
func (s *Session) substConditional(id types.TypeID, sub Substitution) types.TypeID {
	c, _ := s.in.ConditionalInfo(id)
	if c.Distributive && s.in.KindOf(c.Check) == types.KindTypeParam {
		if arg, ok := sub[c.Check]; ok {
			if members, ok := s.distributionMembers(arg); ok {
				out := make([]types.TypeID, 0, len(members))
				for _, m := range members {
					out = append(out, s.subst(id, sub.with(c.Check, m)))
				}
				return s.in.Union(out...)
			}
		}
	}
	r := s.in.ConditionalWith(types.ConditionalInfo{
		Check:        s.instantiate(c.Check, sub),
		Extends:      s.instantiate(c.Extends, sub),
		True:         s.instantiate(c.True, sub),
		False:        s.instantiate(c.False, sub),
		Distributive: c.Distributive,
	})
	if s.hasFreeParams(r) {
		return r
	}
	return s.evaluate(r)
}

// distributionMembers lists what a distributive conditional visits for arg:
// union members, both booleans, or nothing at all for never.
func (s *Session) distributionMembers(arg types.TypeID) ([]types.TypeID, bool) {
	switch s.in.KindOf(arg) {
	case types.KindUnion:
		var out []types.TypeID
		for _, m := range s.in.Members(arg) {
			if m == s.b.Boolean {
				out = append(out, s.b.True, s.b.False)
				continue
			}
			out = append(out, m)
		}
		return out, true
	case types.KindBoolean:
		return []types.TypeID{s.b.True, s.b.False}, true
	case types.KindNever:
		return nil, true
	}
	return nil, false
}

// substMapped instantiates a mapped type. A homomorphic mapped type over a
// parameter bound to an array, tuple, union or primitive is mapped by shape.
func (s *Session) substMapped(id types.TypeID, sub Substitution) types.TypeID {
	m, _ := s.in.MappedInfo(id)
	if p, ok := s.homomorphicParam(m); ok {
		if arg, bound := sub[p]; bound {
			if r, done := s.mapHomomorphic(id, m, p, arg, sub); done {
				return r
			}
		}
	}
	inner := sub.without([]types.TypeID{m.Param})
	info := *m
	if c := s.in.MustLookup(m.Constraint); c.Kind == types.KindKeyOf {
		// Kept unevaluated so the mapped type still sees its source shape.
		info.Constraint = s.in.KeyOf(s.instantiate(c.Elem, sub))
	} else {
		info.Constraint = s.instantiate(m.Constraint, sub)
	}
	info.Template = s.instantiate(m.Template, inner)
	if m.NameType != types.NoTypeID {
		info.NameType = s.instantiate(m.NameType, inner)
	}
	r := s.in.Mapped(info)
	if s.hasFreeParams(r) {
		return r
	}
	return s.evaluate(r)
}

// homomorphicParam returns T when m iterates `keyof T` for a type parameter T.
func (s *Session) homomorphicParam(m *types.MappedInfo) (types.TypeID, bool) {
	c := s.in.MustLookup(m.Constraint)
	if c.Kind != types.KindKeyOf || s.in.KindOf(c.Elem) != types.KindTypeParam {
		return types.NoTypeID, false
	}
	return c.Elem, true
}

func (s *Session) mapHomomorphic(id types.TypeID, m *types.MappedInfo, p, arg types.TypeID, sub Substitution) (types.TypeID, bool) {
	t := s.in.MustLookup(arg)
	switch t.Kind {
	case types.KindUnion:
		out := make([]types.TypeID, 0, len(s.in.Members(arg)))
		for _, member := range s.in.Members(arg) {
			out = append(out, s.subst(id, sub.with(p, member)))
		}
		return s.in.Union(out...), true
	case types.KindArray:
		if m.NameType != types.NoTypeID {
			return types.NoTypeID, false
		}
		elem := s.instantiate(m.Template, sub.with(m.Param, s.b.Number))
		if applyModifier(t.Readonly(), m.Readonly) {
			return s.in.ReadonlyArray(elem), true
		}
		return s.in.Array(elem), true
	case types.KindTuple:
		if m.NameType != types.NoTypeID {
			return types.NoTypeID, false
		}
		info, _ := s.in.TupleInfo(arg)
		elems := make([]types.TupleElement, len(info.Elems))
		for i, e := range info.Elems {
			key := s.in.StringLiteral(strconv.Itoa(i))
			if e.Rest {
				key = s.b.Number
			}
			v := s.instantiate(m.Template, sub.with(m.Param, key))
			if e.Rest {
				v = s.in.Array(v)
			}
			elems[i] = types.TupleElement{
				Type:     v,
				Name:     e.Name,
				Optional: applyModifier(e.Optional, m.Optional) && !e.Rest,
				Rest:     e.Rest,
			}
			if e.Optional {
				elems[i].Type = s.removeUndefined(v)
			}
		}
		return s.in.Tuple(elems, applyModifier(info.Readonly, m.Readonly)), true
	case types.KindAny, types.KindUnknown, types.KindNever:
		return types.NoTypeID, false
	}
	if t.Kind.IsIntrinsic() || t.Kind == types.KindLiteral || t.Kind == types.KindEnumMember ||
		t.Kind == types.KindEnum || t.Kind == types.KindTemplate {
		return arg, true
	}
	return types.NoTypeID, false
}

// applyModifier resolves a `+`/`-` modifier against the source flag.
func applyModifier(flag bool, mod types.Modifier) bool {
	switch mod {
	case types.ModAdd:
		return true
	case types.ModRemove:
		return false
	}
	return flag
}

func (s *Session) removeUndefined(id types.TypeID) types.TypeID {
	return s.in.RemoveFromUnion(id, func(m types.TypeID) bool { return m == s.b.Undefined })
}
