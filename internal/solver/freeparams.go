package solver

import (
	"slices"

	"tsolve/internal/types"
)

// freeVars lists the type parameters id mentions that are not bound inside
// it. A generic function binds its own parameters and a mapped type binds
// its key parameter. The result is sorted and shared; callers must not
// modify it.
func (s *Session) freeVars(id types.TypeID) []types.TypeID {
	if id == types.NoTypeID {
		return nil
	}
	if vars, ok := s.free[id]; ok {
		return vars
	}
	var vars []types.TypeID
	t := s.in.MustLookup(id)
	switch t.Kind {
	case types.KindTypeParam:
		vars = []types.TypeID{id}
	case types.KindFunction:
		fn, _ := s.in.FnInfo(id)
		s.in.Children(id, func(c types.TypeID) {
			if !slices.Contains(fn.TypeParams, c) {
				vars = mergeVars(vars, s.freeVars(c))
			}
		})
		vars = slices.DeleteFunc(slices.Clone(vars), func(v types.TypeID) bool {
			return slices.Contains(fn.TypeParams, v)
		})
	case types.KindMapped:
		m, _ := s.in.MappedInfo(id)
		vars = mergeVars(vars, s.freeVars(m.Constraint))
		var inner []types.TypeID
		inner = mergeVars(inner, s.freeVars(m.Template))
		if m.NameType != types.NoTypeID {
			inner = mergeVars(inner, s.freeVars(m.NameType))
		}
		inner = slices.DeleteFunc(slices.Clone(inner), func(v types.TypeID) bool { return v == m.Param })
		vars = mergeVars(vars, inner)
	default:
		s.in.Children(id, func(c types.TypeID) {
			vars = mergeVars(vars, s.freeVars(c))
		})
	}
	s.free[id] = vars
	return vars
}

func (s *Session) hasFreeParams(id types.TypeID) bool {
	return len(s.freeVars(id)) > 0
}

func mergeVars(dst, src []types.TypeID) []types.TypeID {
	if len(src) == 0 {
		return dst
	}
	if len(dst) == 0 {
		return src
	}
	out := make([]types.TypeID, 0, len(dst)+len(src))
	out = append(out, dst...)
	out = append(out, src...)
	slices.Sort(out)
	return slices.Compact(out)
}

// hasInferVars reports whether id contains an `infer` placeholder.
func (s *Session) hasInferVars(id types.TypeID) bool {
	return s.in.ContainsKind(id, types.KindInfer)
}
