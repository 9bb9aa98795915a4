package solver

import (
	"tsolve/internal/types"
)

// relateStructured relates two object-like types: arrays, tuples, function
// signatures and object shapes.
func (s *Session) relateStructured(source, target types.TypeID, src, tgt types.Type, mode Mode) bool {
	switch tgt.Kind {
	case types.KindArray, types.KindTuple:
		if src.Kind == types.KindArray || src.Kind == types.KindTuple {
			return s.relateArrayLike(source, target, src, tgt, mode)
		}
		return false
	case types.KindFunction:
		switch src.Kind {
		case types.KindFunction:
			return s.relateSignature(source, target, mode)
		case types.KindObject:
			o, _ := s.in.ObjectInfo(source)
			fn, _ := s.in.FnInfo(target)
			sigs := o.Calls
			if fn.Constructor {
				sigs = o.Constructs
			}
			for _, sig := range sigs {
				if s.related(sig, target, mode) {
					return true
				}
			}
		}
		return false
	case types.KindObject:
		shape, ok := s.apparentShape(source, src)
		if !ok {
			return false
		}
		o, _ := s.in.ObjectInfo(target)
		return s.relateShapes(shape, o, mode)
	}
	return false
}

// apparentShape views an object-like type as an object shape: arrays and
// tuples expose length and a number index, functions their signature.
func (s *Session) apparentShape(id types.TypeID, t types.Type) (*types.ObjectShape, bool) {
	switch t.Kind {
	case types.KindObject:
		return s.in.ObjectInfo(id)
	case types.KindArray, types.KindTuple:
		length, _ := s.access(id, s.in.StringLiteral("length"))
		shape := &types.ObjectShape{
			Props:     []types.PropertyInfo{{Name: "length", Type: length, Readonly: true}},
			NumberIdx: &types.IndexSignature{Value: s.arrayElem(id), Readonly: t.Readonly()},
		}
		if info, ok := s.in.TupleInfo(id); ok {
			shape.NumberIdx.Readonly = info.Readonly
			for i, e := range info.Elems {
				if e.Rest {
					break
				}
				shape.Props = append(shape.Props, types.PropertyInfo{
					Name:     itoa(i),
					Type:     e.Type,
					Optional: e.Optional,
					Readonly: info.Readonly,
				})
			}
			o, _ := s.in.ObjectInfo(s.in.Object(*shape))
			return o, true
		}
		return shape, true
	case types.KindFunction:
		fn, _ := s.in.FnInfo(id)
		shape := &types.ObjectShape{}
		if fn.Constructor {
			shape.Constructs = []types.TypeID{id}
		} else {
			shape.Calls = []types.TypeID{id}
		}
		return shape, true
	}
	return nil, false
}

// relateShapes checks every member the target requires against the source.
func (s *Session) relateShapes(src, tgt *types.ObjectShape, mode Mode) bool {
	for _, tp := range tgt.Props {
		sp, found := src.FindProperty(tp.Name)
		if !found {
			if tp.Optional {
				continue
			}
			return false
		}
		if tp.Visibility != types.VisPublic || sp.Visibility != types.VisPublic {
			if sp.Visibility != tp.Visibility || sp.Parent != tp.Parent {
				return false
			}
		}
		if sp.Optional && !tp.Optional {
			return false
		}
		want := tp.Type
		if tp.Optional && s.opts.StrictNullChecks {
			want = s.in.Union(want, s.b.Undefined)
		}
		if !s.related(sp.Type, want, mode) {
			return false
		}
	}

	if tgt.StringIdx != nil && !s.indexSatisfied(src, tgt.StringIdx.Value, false, mode) {
		return false
	}
	if tgt.NumberIdx != nil && !s.indexSatisfied(src, tgt.NumberIdx.Value, true, mode) {
		return false
	}
	return s.signaturesSatisfied(src.Calls, tgt.Calls, mode) &&
		s.signaturesSatisfied(src.Constructs, tgt.Constructs, mode)
}

// indexSatisfied relates the source to a target index signature: through a
// matching source signature, or else through every property the signature
// would cover.
func (s *Session) indexSatisfied(src *types.ObjectShape, value types.TypeID, numeric bool, mode Mode) bool {
	if numeric && src.NumberIdx != nil {
		return s.related(src.NumberIdx.Value, value, mode)
	}
	if src.StringIdx != nil {
		return s.related(src.StringIdx.Value, value, mode)
	}
	if !numeric && src.NumberIdx != nil && !s.related(src.NumberIdx.Value, value, mode) {
		return false
	}
	for _, p := range src.Props {
		if p.Visibility != types.VisPublic || (numeric && !types.IsNumericText(p.Name)) {
			continue
		}
		if !s.related(p.Type, value, mode) {
			return false
		}
	}
	return true
}

// signaturesSatisfied requires each target signature to be matched by some
// source signature.
func (s *Session) signaturesSatisfied(src, tgt []types.TypeID, mode Mode) bool {
	for _, t := range tgt {
		ok := false
		for _, c := range src {
			if s.related(c, t, mode) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// mergeIntersection combines the object members of an intersection into a
// single shape. Properties present in several members intersect their
// types and stay optional only when optional everywhere.
func (s *Session) mergeIntersection(members []types.TypeID) (types.TypeID, bool) {
	var shapes []*types.ObjectShape
	for _, m := range members {
		r := s.evaluate(m)
		t := s.in.MustLookup(r)
		if t.Kind == types.KindObject || t.Kind == types.KindArray || t.Kind == types.KindTuple || t.Kind == types.KindFunction {
			if shape, ok := s.apparentShape(r, t); ok {
				shapes = append(shapes, shape)
			}
		}
	}
	if len(shapes) < 2 {
		return types.NoTypeID, false
	}
	var merged types.ObjectShape
	at := make(map[string]int)
	for _, sh := range shapes {
		for _, p := range sh.Props {
			i, seen := at[p.Name]
			if !seen {
				at[p.Name] = len(merged.Props)
				merged.Props = append(merged.Props, p)
				continue
			}
			q := &merged.Props[i]
			q.Type = s.in.Intersection(q.Type, p.Type)
			q.Optional = q.Optional && p.Optional
			q.Readonly = q.Readonly && p.Readonly
		}
		merged.StringIdx = mergeIndex(s, merged.StringIdx, sh.StringIdx)
		merged.NumberIdx = mergeIndex(s, merged.NumberIdx, sh.NumberIdx)
		merged.Calls = append(merged.Calls, sh.Calls...)
		merged.Constructs = append(merged.Constructs, sh.Constructs...)
	}
	return s.in.Object(merged), true
}

func mergeIndex(s *Session, a, b *types.IndexSignature) *types.IndexSignature {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return &types.IndexSignature{Value: s.in.Intersection(a.Value, b.Value), Readonly: a.Readonly && b.Readonly}
}
