package types

import "slices"

// domain groups primitive-like types whose values can never overlap with a
// different domain.
type domain uint8

const (
	domNone domain = iota
	domString
	domNumber
	domBigInt
	domBoolean
	domSymbol
	domNull
	domUndefined
	domObject
)

func (in *Interner) domainOf(id TypeID) domain {
	tt := in.types[id]
	switch tt.Kind {
	case KindString, KindTemplate, KindStringIntrinsic:
		return domString
	case KindNumber:
		return domNumber
	case KindBigInt:
		return domBigInt
	case KindBoolean:
		return domBoolean
	case KindSymbol:
		return domSymbol
	case KindNull:
		return domNull
	case KindUndefined:
		return domUndefined
	case KindNonPrimitive, KindObject, KindArray, KindTuple, KindFunction:
		return domObject
	case KindLiteral:
		switch in.literals[tt.Payload].Kind {
		case LitString:
			return domString
		case LitNumber:
			return domNumber
		case LitBigInt:
			return domBigInt
		case LitBoolean:
			return domBoolean
		}
	case KindEnumMember:
		return in.domainOf(tt.Elem)
	}
	return domNone
}

// Intersection interns the intersection of members in canonical form: nested
// intersections are flattened, duplicates and `unknown` removed, `never` and
// `any` dominate, disjoint primitives collapse to `never`, a literal absorbs
// its own primitive, and unions are distributed while the result stays under
// the distribution limit. No members yield `unknown`.
func (in *Interner) Intersection(members ...TypeID) TypeID {
	b := in.builtins
	flat := make([]TypeID, 0, len(members))
	seen := make(map[TypeID]struct{}, len(members))
	var collect func(id TypeID)
	collect = func(id TypeID) {
		tt, ok := in.Lookup(id)
		if !ok {
			return
		}
		if tt.Kind == KindIntersection {
			for _, m := range in.lists[tt.Payload] {
				collect(m)
			}
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		flat = append(flat, id)
	}
	for _, m := range members {
		collect(m)
	}
	if _, ok := seen[b.Never]; ok {
		return b.Never
	}
	if _, ok := seen[b.Any]; ok {
		return b.Any
	}
	flat = slices.DeleteFunc(flat, func(id TypeID) bool { return id == b.Unknown })

	if dist, ok := in.distribute(flat); ok {
		return dist
	}

	var prim domain
	hasObject, hasNullish := false, false
	var unit TypeID
	for _, m := range flat {
		d := in.domainOf(m)
		switch d {
		case domNone:
			continue
		case domObject:
			hasObject = true
			continue
		case domNull, domUndefined:
			hasNullish = true
		}
		if prim != domNone && prim != d {
			return b.Never
		}
		prim = d
		if in.IsUnit(m) {
			if unit != NoTypeID && unit != m {
				return b.Never
			}
			unit = m
		}
	}
	if hasObject && hasNullish {
		return b.Never
	}
	if unit != NoTypeID {
		base := in.LiteralBase(unit)
		flat = slices.DeleteFunc(flat, func(id TypeID) bool {
			return id != unit && (id == base || (in.types[id].Kind.IsIntrinsic() && in.domainOf(id) == prim))
		})
	}

	switch len(flat) {
	case 0:
		return b.Unknown
	case 1:
		return flat[0]
	}
	slices.Sort(flat)
	return in.internList(KindIntersection, flat)
}

// distribute rewrites (A | B) & C into (A & C) | (B & C) when any member is a
// union and the cross product fits the distribution limit.
func (in *Interner) distribute(flat []TypeID) (TypeID, bool) {
	product := 1
	hasUnion := false
	for _, m := range flat {
		if in.types[m].Kind != KindUnion {
			continue
		}
		hasUnion = true
		product *= len(in.lists[in.types[m].Payload])
		if product > in.distributionLimit {
			return NoTypeID, false
		}
	}
	if !hasUnion {
		return NoTypeID, false
	}
	combos := [][]TypeID{nil}
	for _, m := range flat {
		choices := in.Members(m)
		next := make([][]TypeID, 0, len(combos)*len(choices))
		for _, c := range combos {
			for _, choice := range choices {
				combo := make([]TypeID, len(c), len(c)+1)
				copy(combo, c)
				next = append(next, append(combo, choice))
			}
		}
		combos = next
	}
	results := make([]TypeID, 0, len(combos))
	for _, c := range combos {
		results = append(results, in.Intersection(c...))
	}
	return in.Union(results...), true
}
