package types

// ParamInfo describes one function parameter.
type ParamInfo struct {
	Name     string
	Type     TypeID
	Optional bool
	Rest     bool
}

// TypePredicate describes `x is T` and `asserts x is T` return annotations.
type TypePredicate struct {
	Asserts bool
	Param   string // empty for `this is T`
	Type    TypeID // NoTypeID for `asserts x`
}

// FunctionShape describes a callable signature.
type FunctionShape struct {
	TypeParams  []TypeID // KindTypeParam ids
	Params      []ParamInfo
	This        TypeID
	Return      TypeID
	Predicate   *TypePredicate
	Method      bool
	Constructor bool
}

// Function creates or finds a function type.
func (in *Interner) Function(shape FunctionShape) TypeID {
	var w sigWriter
	w.ids(shape.TypeParams)
	w.uint(uint64(len(shape.Params)))
	for _, p := range shape.Params {
		w.str(p.Name)
		w.id(p.Type)
		w.bool(p.Optional)
		w.bool(p.Rest)
	}
	w.id(shape.This)
	w.id(shape.Return)
	if p := shape.Predicate; p != nil {
		w.bool(true)
		w.bool(p.Asserts)
		w.str(p.Param)
		w.id(p.Type)
	} else {
		w.bool(false)
	}
	w.bool(shape.Method)
	w.bool(shape.Constructor)
	slot := in.shapeSlot(tableFn, w.String(), func() int {
		c := FunctionShape{
			TypeParams:  cloneIDs(shape.TypeParams),
			Params:      cloneParams(shape.Params),
			This:        shape.This,
			Return:      shape.Return,
			Method:      shape.Method,
			Constructor: shape.Constructor,
		}
		if shape.Predicate != nil {
			p := *shape.Predicate
			c.Predicate = &p
		}
		return appendSlot(&in.fns, c)
	})
	return in.Intern(Type{Kind: KindFunction, Payload: slot})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FunctionShape, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunction || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// RequiredParams counts parameters that must be supplied by a caller.
func (f *FunctionShape) RequiredParams() int {
	n := 0
	for i, p := range f.Params {
		if !p.Optional && !p.Rest {
			n = i + 1
		}
	}
	return n
}

// RestParam returns the rest parameter, if any.
func (f *FunctionShape) RestParam() (ParamInfo, bool) {
	if len(f.Params) == 0 {
		return ParamInfo{}, false
	}
	last := f.Params[len(f.Params)-1]
	return last, last.Rest
}

func cloneParams(ps []ParamInfo) []ParamInfo {
	if len(ps) == 0 {
		return nil
	}
	out := make([]ParamInfo, len(ps))
	copy(out, ps)
	return out
}
