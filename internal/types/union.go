package types

import (
	"slices"

	"github.com/samber/lo"
)

// Union interns the union of members in canonical form: nested unions are
// flattened, duplicates removed, `never` dropped, `true | false` folded into
// `boolean`, literals absorbed by their primitive, and the remaining members
// sorted by TypeID. A single surviving member is returned as is; no members
// yield `never`.
func (in *Interner) Union(members ...TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	seen := make(map[TypeID]struct{}, len(members))
	var collect func(id TypeID)
	collect = func(id TypeID) {
		tt, ok := in.Lookup(id)
		if !ok {
			return
		}
		if tt.Kind == KindUnion {
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

	b := in.builtins
	if _, ok := seen[b.Any]; ok {
		return b.Any
	}
	if _, ok := seen[b.Unknown]; ok {
		return b.Unknown
	}
	_, hasTrue := seen[b.True]
	_, hasFalse := seen[b.False]
	if hasTrue && hasFalse {
		if _, ok := seen[b.Boolean]; !ok {
			flat = append(flat, b.Boolean)
			seen[b.Boolean] = struct{}{}
		}
	}

	flat = lo.Filter(flat, func(id TypeID, _ int) bool {
		return id != b.Never && !in.absorbedInUnion(id, seen)
	})
	if in.oracle != nil && len(flat) > 1 {
		flat = in.reduceWithOracle(flat)
	}

	switch len(flat) {
	case 0:
		return b.Never
	case 1:
		return flat[0]
	}
	slices.Sort(flat)
	return in.internList(KindUnion, flat)
}

// absorbedInUnion applies literal reduction: a member is dropped when a wider
// member of the same union already covers it.
func (in *Interner) absorbedInUnion(id TypeID, seen map[TypeID]struct{}) bool {
	has := func(t TypeID) bool {
		_, ok := seen[t]
		return ok
	}
	b := in.builtins
	tt := in.types[id]
	switch tt.Kind {
	case KindLiteral:
		return has(in.LiteralBase(id))
	case KindTemplate, KindStringIntrinsic:
		return has(b.String)
	case KindUndefined:
		return has(b.Void)
	case KindEnumMember:
		if e, ok := in.enums[DefID(tt.Payload)]; ok {
			return has(e)
		}
	}
	return false
}

// reduceWithOracle removes unit members that the oracle proves are subtypes
// of an intrinsic member (or, for null and undefined, of any other member).
func (in *Interner) reduceWithOracle(flat []TypeID) []TypeID {
	out := flat[:0:0]
	for _, m := range flat {
		if !in.IsUnit(m) {
			out = append(out, m)
			continue
		}
		nullish := in.types[m].Kind == KindNull || in.types[m].Kind == KindUndefined
		absorbed := false
		for _, w := range flat {
			if w == m || in.IsUnit(w) {
				continue
			}
			if !nullish && !in.types[w].Kind.IsIntrinsic() {
				continue
			}
			if in.oracle.IsSubtypeOf(m, w) {
				absorbed = true
				break
			}
		}
		if !absorbed {
			out = append(out, m)
		}
	}
	return out
}

func (in *Interner) internList(kind Kind, members []TypeID) TypeID {
	var w sigWriter
	w.ids(members)
	slot := in.shapeSlot(tableList, w.String(), func() int {
		return appendSlot(&in.lists, cloneIDs(members))
	})
	return in.Intern(Type{Kind: kind, Payload: slot})
}

// Members returns the members of a union or intersection. Other types yield a
// single-element slice holding id itself.
func (in *Interner) Members(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return nil
	}
	if tt.Kind == KindUnion || tt.Kind == KindIntersection {
		return in.lists[tt.Payload]
	}
	return []TypeID{id}
}

// UnionMembers returns the members of a union TypeID.
func (in *Interner) UnionMembers(id TypeID) ([]TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion {
		return nil, false
	}
	return in.lists[tt.Payload], true
}

// IntersectionMembers returns the members of an intersection TypeID.
func (in *Interner) IntersectionMembers(id TypeID) ([]TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindIntersection {
		return nil, false
	}
	return in.lists[tt.Payload], true
}

// RemoveFromUnion returns id without the members for which drop reports true.
func (in *Interner) RemoveFromUnion(id TypeID, drop func(TypeID) bool) TypeID {
	members := in.Members(id)
	kept := lo.Reject(members, func(m TypeID, _ int) bool { return drop(m) })
	if len(kept) == len(members) {
		return id
	}
	return in.Union(kept...)
}
