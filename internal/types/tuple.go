package types

// TupleElement describes one tuple position.
type TupleElement struct {
	Type     TypeID
	Name     string
	Optional bool
	Rest     bool // Type is an array (or tuple) spread into the tail
}

// TupleInfo stores the element list for a tuple type.
type TupleInfo struct {
	Elems    []TupleElement
	Readonly bool
}

// Tuple creates or finds an existing tuple type with the given elements.
func (in *Interner) Tuple(elems []TupleElement, readonly bool) TypeID {
	var w sigWriter
	w.uint(uint64(len(elems)))
	for _, e := range elems {
		w.id(e.Type)
		w.str(e.Name)
		w.bool(e.Optional)
		w.bool(e.Rest)
	}
	w.bool(readonly)
	slot := in.shapeSlot(tableTuple, w.String(), func() int {
		return appendSlot(&in.tuples, TupleInfo{Elems: cloneElems(elems), Readonly: readonly})
	})
	return in.Intern(Type{Kind: KindTuple, Payload: slot})
}

// TupleOf is a shorthand for a mutable tuple of required, unnamed elements.
func (in *Interner) TupleOf(elems ...TypeID) TypeID {
	out := make([]TupleElement, len(elems))
	for i, e := range elems {
		out[i] = TupleElement{Type: e}
	}
	return in.Tuple(out, false)
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple {
		return nil, false
	}
	if int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}

// Array interns T[].
func (in *Interner) Array(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem})
}

// ReadonlyArray interns readonly T[].
func (in *Interner) ReadonlyArray(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem, Flags: FlagReadonly})
}

func cloneElems(elems []TupleElement) []TupleElement {
	if len(elems) == 0 {
		return nil
	}
	out := make([]TupleElement, len(elems))
	copy(out, elems)
	return out
}
