package solver

import (
	"strconv"

	"tsolve/internal/types"
)

func itoa(i int) string { return strconv.Itoa(i) }

// relateArrayLike relates arrays and tuples. A readonly source never
// satisfies a mutable target.
func (s *Session) relateArrayLike(source, target types.TypeID, src, tgt types.Type, mode Mode) bool {
	if s.arrayReadonly(source, src) && !s.arrayReadonly(target, tgt) {
		return false
	}
	switch {
	case src.Kind == types.KindArray && tgt.Kind == types.KindArray:
		return s.related(src.Elem, tgt.Elem, mode)
	case src.Kind == types.KindTuple && tgt.Kind == types.KindArray:
		return s.related(s.arrayElem(source), tgt.Elem, mode)
	case src.Kind == types.KindArray && tgt.Kind == types.KindTuple:
		info, _ := s.in.TupleInfo(target)
		if _, rest := s.tupleRest(info); !rest || s.tupleMin(info) > 0 {
			return false
		}
		for _, e := range info.Elems {
			if !s.related(src.Elem, s.elemValue(e), mode) {
				return false
			}
		}
		return true
	}
	return s.relateTuples(source, target, mode)
}

func (s *Session) arrayReadonly(id types.TypeID, t types.Type) bool {
	if t.Kind == types.KindTuple {
		info, _ := s.in.TupleInfo(id)
		return info.Readonly
	}
	return t.Readonly()
}

// tupleMin counts the elements a tuple value must have.
func (s *Session) tupleMin(info *types.TupleInfo) int {
	n := 0
	for _, e := range info.Elems {
		if !e.Optional && !e.Rest {
			n++
		}
	}
	return n
}

// tupleRest returns the element type of a tuple's rest spread.
func (s *Session) tupleRest(info *types.TupleInfo) (types.TypeID, bool) {
	for _, e := range info.Elems {
		if e.Rest {
			return s.arrayElem(e.Type), true
		}
	}
	return types.NoTypeID, false
}

// relateTuples checks arity first: the source may not be shorter than the
// target requires, nor longer than the target allows. Elements then relate
// position by position, a rest spread standing for every later position.
func (s *Session) relateTuples(source, target types.TypeID, mode Mode) bool {
	a, _ := s.in.TupleInfo(source)
	b, _ := s.in.TupleInfo(target)
	_, aRest := s.tupleRest(a)
	_, bRest := s.tupleRest(b)
	if s.tupleMin(a) < s.tupleMin(b) {
		return false
	}
	if !bRest && (aRest || len(a.Elems) > len(b.Elems)) {
		return false
	}
	for i, se := range a.Elems {
		if se.Rest {
			for j := i; j < len(b.Elems); j++ {
				te := b.Elems[j]
				if te.Rest {
					if !s.related(se.Type, te.Type, mode) {
						return false
					}
					continue
				}
				if !s.related(s.elemValue(se), te.Type, mode) {
					return false
				}
			}
			if idx := restIndex(b); idx < i {
				rest, _ := s.tupleRest(b)
				return s.related(s.elemValue(se), rest, mode)
			}
			return true
		}
		want, ok := s.tupleElemAt(b, i)
		if !ok {
			return false
		}
		if !s.related(se.Type, want, mode) {
			return false
		}
	}
	return true
}

// tupleElemAt returns the type expected at position i of a tuple.
func (s *Session) tupleElemAt(info *types.TupleInfo, i int) (types.TypeID, bool) {
	for j, e := range info.Elems {
		if e.Rest {
			return s.arrayElem(e.Type), true
		}
		if j == i {
			return e.Type, true
		}
	}
	return types.NoTypeID, false
}

func restIndex(info *types.TupleInfo) int {
	for i, e := range info.Elems {
		if e.Rest {
			return i
		}
	}
	return len(info.Elems)
}
