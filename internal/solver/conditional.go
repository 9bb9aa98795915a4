package solver

import (
	"tsolve/internal/types"
)

// evalConditional decides `Check extends Extends ? True : False`. It stays
// stuck while either side still mentions a free type parameter.
func (s *Session) evalConditional(id types.TypeID) types.TypeID {
	c, _ := s.in.ConditionalInfo(id)
	check := s.evaluate(c.Check)
	if c.Distributive {
		if members, ok := s.distributionMembers(check); ok {
			out := make([]types.TypeID, 0, len(members))
			for _, m := range members {
				out = append(out, s.evaluate(s.in.ConditionalWith(types.ConditionalInfo{
					Check:   m,
					Extends: c.Extends,
					True:    c.True,
					False:   c.False,
				})))
			}
			return s.in.Union(out...)
		}
	}
	if s.hasFreeParams(check) || s.hasFreeParams(c.Extends) {
		return id
	}

	extends := c.Extends
	var bindings Substitution
	if s.hasInferVars(extends) {
		bindings = s.inferPattern(check, extends)
		extends = s.instantiate(extends, bindings)
	}
	extends = s.evaluate(extends)

	switch s.in.KindOf(extends) {
	case types.KindAny, types.KindUnknown:
		return s.instantiate(c.True, bindings)
	}
	if s.in.KindOf(check) == types.KindAny {
		return s.in.Union(s.instantiate(c.True, bindings), c.False)
	}
	if s.related(check, extends, ModeAssignable) {
		return s.instantiate(c.True, bindings)
	}
	return c.False
}

// inferPattern binds the `infer` placeholders of pattern by matching check
// against it. A placeholder with a constraint keeps only the candidates
// that satisfy it and falls back to the constraint otherwise; one with no
// candidate binds to its constraint or unknown.
func (s *Session) inferPattern(check, pattern types.TypeID) Substitution {
	var vars []types.TypeID
	s.in.Walk(pattern, func(t types.TypeID) bool {
		if s.in.KindOf(t) == types.KindInfer {
			vars = append(vars, t)
		}
		return true
	})
	inf := s.newInferrer(vars)
	inf.infer(check, pattern, false)

	sub := make(Substitution, len(vars))
	for _, v := range vars {
		info, _ := s.in.TypeParamInfo(v)
		got, ok := inf.combine(v)
		if info.Constraint != types.NoTypeID {
			if ok {
				kept := s.in.RemoveFromUnion(got, func(m types.TypeID) bool {
					return !s.related(m, info.Constraint, ModeAssignable)
				})
				ok = kept != s.b.Never || got == s.b.Never
				got = kept
			}
			if !ok {
				got = info.Constraint
			}
		} else if !ok {
			got = s.b.Unknown
		}
		sub[v] = got
	}
	return sub
}
