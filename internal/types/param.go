package types

// TypeParamInfo describes a type parameter or an `infer` placeholder.
type TypeParamInfo struct {
	Name       string
	Decl       DefID // declaration (or conditional) that introduces the parameter
	Constraint TypeID
	Default    TypeID
	Const      bool
}

// TypeParam interns a type parameter. Identity is the pair (Name, Decl);
// constraint and default travel in info only when the parameter is first
// interned and can be attached later with SetTypeParamBounds, which lets a
// constraint mention the parameter itself.
func (in *Interner) TypeParam(info TypeParamInfo) TypeID {
	return in.param(KindTypeParam, info)
}

// Infer interns an `infer Name` placeholder scoped to decl.
func (in *Interner) Infer(info TypeParamInfo) TypeID {
	return in.param(KindInfer, info)
}

func (in *Interner) param(kind Kind, info TypeParamInfo) TypeID {
	var w sigWriter
	w.uint(uint64(kind))
	w.param(info)
	slot := in.shapeSlot(tableParam, w.String(), func() int {
		return appendSlot(&in.params, info)
	})
	return in.Intern(Type{Kind: kind, Payload: slot})
}

// SetTypeParamBounds attaches a constraint and default to a type parameter.
// Only unset bounds are filled: once observed, a bound never changes.
func (in *Interner) SetTypeParamBounds(id, constraint, def TypeID) {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindTypeParam && tt.Kind != KindInfer) {
		return
	}
	p := &in.params[tt.Payload]
	if p.Constraint == NoTypeID {
		p.Constraint = constraint
	}
	if p.Default == NoTypeID {
		p.Default = def
	}
}

// TypeParamInfo returns metadata for a type parameter or infer placeholder.
func (in *Interner) TypeParamInfo(id TypeID) (TypeParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindTypeParam && tt.Kind != KindInfer) {
		return TypeParamInfo{}, false
	}
	return in.params[tt.Payload], true
}
