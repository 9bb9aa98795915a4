package types

// Children calls fn for every TypeID directly referenced by id. Lazy and
// typeof references are leaves: following them needs a resolver.
func (in *Interner) Children(id TypeID, fn func(TypeID)) {
	tt, ok := in.Lookup(id)
	if !ok {
		return
	}
	each := func(ids []TypeID) {
		for _, c := range ids {
			if c != NoTypeID {
				fn(c)
			}
		}
	}
	one := func(c TypeID) {
		if c != NoTypeID {
			fn(c)
		}
	}
	switch tt.Kind {
	case KindUnion, KindIntersection:
		each(in.lists[tt.Payload])
	case KindArray, KindKeyOf, KindStringIntrinsic, KindEnum, KindEnumMember:
		one(tt.Elem)
	case KindIndexedAccess:
		one(tt.Elem)
		one(tt.Aux)
	case KindTuple:
		for _, e := range in.tuples[tt.Payload].Elems {
			one(e.Type)
		}
	case KindObject:
		o := &in.objects[tt.Payload]
		for _, p := range o.Props {
			one(p.Type)
		}
		if o.StringIdx != nil {
			one(o.StringIdx.Value)
		}
		if o.NumberIdx != nil {
			one(o.NumberIdx.Value)
		}
		each(o.Calls)
		each(o.Constructs)
	case KindFunction:
		f := &in.fns[tt.Payload]
		each(f.TypeParams)
		for _, p := range f.Params {
			one(p.Type)
		}
		one(f.This)
		one(f.Return)
		if f.Predicate != nil {
			one(f.Predicate.Type)
		}
	case KindApplication:
		each(in.apps[tt.Payload].Args)
	case KindConditional:
		c := &in.conds[tt.Payload]
		one(c.Check)
		one(c.Extends)
		one(c.True)
		one(c.False)
	case KindMapped:
		m := &in.mapped[tt.Payload]
		one(m.Param)
		one(m.Constraint)
		one(m.NameType)
		one(m.Template)
	case KindTemplate:
		each(in.templates[tt.Payload].Spans)
	}
}

// Walk visits id and everything reachable from it once, depth first. fn
// returns false to skip the children of a node.
func (in *Interner) Walk(id TypeID, fn func(TypeID) bool) {
	seen := make(map[TypeID]struct{})
	var rec func(TypeID)
	rec = func(t TypeID) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		if !fn(t) {
			return
		}
		in.Children(t, rec)
	}
	rec(id)
}

// ContainsKind reports whether any type reachable from id has one of kinds.
func (in *Interner) ContainsKind(id TypeID, kinds ...Kind) bool {
	found := false
	in.Walk(id, func(t TypeID) bool {
		if found {
			return false
		}
		k := in.types[t].Kind
		for _, want := range kinds {
			if k == want {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
