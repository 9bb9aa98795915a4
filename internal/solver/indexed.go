package solver

import (
	"strconv"

	"tsolve/internal/types"
)

// IndexedAccess computes object[index].
func (s *Session) IndexedAccess(object, index types.TypeID) types.TypeID {
	end := s.begin("indexed_access", object, index)
	r := s.evaluate(s.indexedAccess(object, index))
	end(s.Label(r))
	return r
}

// KeyOf computes keyof operand.
func (s *Session) KeyOf(operand types.TypeID) types.TypeID {
	end := s.begin("keyof", operand)
	r := s.evaluate(s.keyOf(operand))
	end(s.Label(r))
	return r
}

// indexedAccess distributes over unions on both sides. A key that is found
// nowhere yields unknown.
func (s *Session) indexedAccess(object, index types.TypeID) types.TypeID {
	obj := s.evaluate(object)
	idx := s.evaluate(index)
	if s.hasFreeParams(obj) || s.hasFreeParams(idx) {
		return s.in.IndexedAccess(obj, idx)
	}
	if s.in.KindOf(idx) == types.KindUnion {
		return s.mapUnion(idx, func(k types.TypeID) types.TypeID { return s.indexedAccess(obj, k) })
	}
	if s.in.KindOf(obj) == types.KindUnion {
		return s.mapUnion(obj, func(o types.TypeID) types.TypeID { return s.indexedAccess(o, idx) })
	}
	if r, ok := s.access(obj, idx); ok {
		return r
	}
	return s.b.Unknown
}

func (s *Session) mapUnion(u types.TypeID, fn func(types.TypeID) types.TypeID) types.TypeID {
	members := s.in.Members(u)
	out := make([]types.TypeID, len(members))
	for i, m := range members {
		out[i] = fn(m)
	}
	return s.in.Union(out...)
}

// access looks up a single key in a single object-like type.
func (s *Session) access(obj, key types.TypeID) (types.TypeID, bool) {
	t := s.in.MustLookup(obj)
	switch t.Kind {
	case types.KindAny:
		return s.b.Any, true
	case types.KindNever:
		return s.b.Never, true
	case types.KindIntersection:
		var found []types.TypeID
		for _, m := range s.in.Members(obj) {
			if r, ok := s.access(m, key); ok {
				found = append(found, r)
			}
		}
		if len(found) == 0 {
			return types.NoTypeID, false
		}
		return s.in.Intersection(found...), true
	case types.KindObject:
		return s.accessObject(obj, key)
	case types.KindArray:
		if s.isLength(key) {
			return s.b.Number, true
		}
		if s.isNumericKey(key) {
			return s.unchecked(t.Elem), true
		}
	case types.KindTuple:
		return s.accessTuple(obj, key)
	case types.KindString, types.KindTemplate, types.KindStringIntrinsic:
		return s.accessString(key)
	case types.KindLiteral:
		if v, _ := s.in.LiteralInfo(obj); v.Kind == types.LitString {
			return s.accessString(key)
		}
	case types.KindEnumMember, types.KindEnum:
		return s.access(t.Elem, key)
	}
	return types.NoTypeID, false
}

func (s *Session) accessString(key types.TypeID) (types.TypeID, bool) {
	if s.isLength(key) {
		return s.b.Number, true
	}
	if s.isNumericKey(key) {
		return s.unchecked(s.b.String), true
	}
	return types.NoTypeID, false
}

func (s *Session) accessObject(obj, key types.TypeID) (types.TypeID, bool) {
	o, _ := s.in.ObjectInfo(obj)
	if lit, ok := s.literalOf(key); ok && (lit.Kind == types.LitString || lit.Kind == types.LitNumber) {
		name := lit.Text()
		if p, found := o.FindProperty(name); found {
			if p.Optional && s.opts.StrictNullChecks {
				return s.in.Union(p.Type, s.b.Undefined), true
			}
			return p.Type, true
		}
		if o.NumberIdx != nil && types.IsNumericText(name) {
			return s.unchecked(o.NumberIdx.Value), true
		}
		if o.StringIdx != nil {
			return s.unchecked(o.StringIdx.Value), true
		}
		return types.NoTypeID, false
	}
	switch s.in.KindOf(key) {
	case types.KindString:
		if o.StringIdx != nil {
			return s.unchecked(o.StringIdx.Value), true
		}
	case types.KindNumber:
		if o.NumberIdx != nil {
			return s.unchecked(o.NumberIdx.Value), true
		}
		if o.StringIdx != nil {
			return s.unchecked(o.StringIdx.Value), true
		}
	}
	return types.NoTypeID, false
}

func (s *Session) accessTuple(obj, key types.TypeID) (types.TypeID, bool) {
	info, _ := s.in.TupleInfo(obj)
	if s.isLength(key) {
		if _, hasRest := s.tupleRest(info); hasRest || s.tupleMin(info) != len(info.Elems) {
			return s.b.Number, true
		}
		return s.in.NumberLiteral(float64(len(info.Elems))), true
	}
	if s.in.KindOf(key) == types.KindNumber {
		all := make([]types.TypeID, 0, len(info.Elems))
		for _, e := range info.Elems {
			all = append(all, s.elemValue(e))
		}
		return s.in.Union(all...), true
	}
	lit, ok := s.literalOf(key)
	if !ok || !s.isNumericKey(key) {
		return types.NoTypeID, false
	}
	i, err := strconv.Atoi(lit.Text())
	if err != nil || i < 0 {
		return types.NoTypeID, false
	}
	if i < len(info.Elems) && !info.Elems[i].Rest {
		e := info.Elems[i]
		if e.Optional && s.opts.StrictNullChecks {
			return s.in.Union(e.Type, s.b.Undefined), true
		}
		return e.Type, true
	}
	if rest, ok := s.tupleRest(info); ok {
		return s.unchecked(rest), true
	}
	return types.NoTypeID, false
}

// elemValue is the type a tuple element contributes when read: the element
// type of a rest spread, or the element itself.
func (s *Session) elemValue(e types.TupleElement) types.TypeID {
	if e.Rest {
		return s.arrayElem(e.Type)
	}
	return e.Type
}

// arrayElem returns the element type of an array, or the union of a tuple's
// elements.
func (s *Session) arrayElem(id types.TypeID) types.TypeID {
	t := s.in.MustLookup(id)
	switch t.Kind {
	case types.KindAny:
		return s.b.Any
	case types.KindArray:
		return t.Elem
	case types.KindTuple:
		info, _ := s.in.TupleInfo(id)
		all := make([]types.TypeID, 0, len(info.Elems))
		for _, e := range info.Elems {
			all = append(all, s.elemValue(e))
		}
		return s.in.Union(all...)
	}
	return s.b.Unknown
}

// unchecked adds undefined to reads through index signatures when
// noUncheckedIndexedAccess is on.
func (s *Session) unchecked(id types.TypeID) types.TypeID {
	if s.opts.NoUncheckedIndexedAccess {
		return s.in.Union(id, s.b.Undefined)
	}
	return id
}

func (s *Session) isLength(key types.TypeID) bool {
	lit, ok := s.literalOf(key)
	return ok && lit.Kind == types.LitString && lit.Str == "length"
}

func (s *Session) isNumericKey(key types.TypeID) bool {
	if s.in.KindOf(key) == types.KindNumber {
		return true
	}
	lit, ok := s.literalOf(key)
	if !ok {
		return false
	}
	return lit.Kind == types.LitNumber || (lit.Kind == types.LitString && types.IsNumericText(lit.Str))
}

// keyOf computes the key set of operand. Keys of a union are the keys every
// member has; keys of an intersection are the keys any member has.
func (s *Session) keyOf(operand types.TypeID) types.TypeID {
	op := s.evaluate(operand)
	if s.hasFreeParams(op) {
		return s.in.KeyOf(op)
	}
	allKeys := func() types.TypeID { return s.in.Union(s.b.String, s.b.Number, s.b.Symbol) }
	t := s.in.MustLookup(op)
	switch t.Kind {
	case types.KindAny, types.KindNever:
		return allKeys()
	case types.KindUnion:
		members := s.in.Members(op)
		keys := make([]types.TypeID, len(members))
		for i, m := range members {
			keys[i] = s.keyOf(m)
		}
		return s.in.Intersection(keys...)
	case types.KindIntersection:
		members := s.in.Members(op)
		keys := make([]types.TypeID, len(members))
		for i, m := range members {
			keys[i] = s.keyOf(m)
		}
		return s.in.Union(keys...)
	case types.KindObject:
		o, _ := s.in.ObjectInfo(op)
		var keys []types.TypeID
		for _, p := range o.Props {
			if p.Visibility != types.VisPublic {
				continue
			}
			keys = append(keys, s.propertyKey(p.Name))
		}
		if o.StringIdx != nil {
			keys = append(keys, s.b.String, s.b.Number)
		}
		if o.NumberIdx != nil {
			keys = append(keys, s.b.Number)
		}
		return s.in.Union(keys...)
	case types.KindArray:
		return s.in.Union(s.b.Number, s.in.StringLiteral("length"))
	case types.KindTuple:
		info, _ := s.in.TupleInfo(op)
		keys := []types.TypeID{s.b.Number, s.in.StringLiteral("length")}
		for i, e := range info.Elems {
			if e.Rest {
				break
			}
			keys = append(keys, s.in.StringLiteral(strconv.Itoa(i)))
		}
		return s.in.Union(keys...)
	case types.KindString, types.KindTemplate, types.KindStringIntrinsic:
		return s.in.Union(s.b.Number, s.in.StringLiteral("length"))
	case types.KindLiteral:
		if v, _ := s.in.LiteralInfo(op); v.Kind == types.LitString {
			return s.in.Union(s.b.Number, s.in.StringLiteral("length"))
		}
	}
	return s.b.Never
}

// propertyKey returns the literal type naming a property: a number literal
// for numeric names, a string literal otherwise.
func (s *Session) propertyKey(name string) types.TypeID {
	if types.IsNumericText(name) {
		if f, err := strconv.ParseFloat(name, 64); err == nil && types.FormatNumber(f) == name {
			return s.in.NumberLiteral(f)
		}
	}
	return s.in.StringLiteral(name)
}
