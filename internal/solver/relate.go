package solver

import (
	"math"

	"tsolve/internal/diag"
	"tsolve/internal/types"
)

// Decision is the externally visible outcome of a relation query.
type Decision uint8

const (
	No Decision = iota
	Yes
)

func (d Decision) String() string {
	if d == Yes {
		return "yes"
	}
	return "no"
}

// IsSubtype decides source <: target under mode.
func (s *Session) IsSubtype(source, target types.TypeID, mode Mode) Decision {
	end := s.begin("is_subtype", source, target)
	d := decide(s.related(source, target, mode))
	end(d.String())
	return d
}

// IsAssignable reports whether a value of type source may be assigned to a
// location of type target.
func (s *Session) IsAssignable(source, target types.TypeID) bool {
	end := s.begin("is_assignable", source, target)
	d := decide(s.related(source, target, ModeAssignable))
	end(d.String())
	return d == Yes
}

func decide(ok bool) Decision {
	if ok {
		return Yes
	}
	return No
}

// related is the memoized, guarded entry point of the relation.
func (s *Session) related(source, target types.TypeID, mode Mode) bool {
	if source == target {
		return true
	}
	src := s.in.MustLookup(source)
	tgt := s.in.MustLookup(target)
	switch {
	case tgt.Kind == types.KindAny || tgt.Kind == types.KindUnknown:
		return true
	case src.Kind == types.KindAny || src.Kind == types.KindNever:
		return true
	case tgt.Kind == types.KindNever:
		return false
	case !s.opts.StrictNullChecks && isNullish(src.Kind):
		// Without strict null checks null and undefined inhabit every
		// type, generic and pattern targets included.
		return true
	}

	key := relKey{source: source, target: target, mode: mode}
	if r, ok := s.relations[key]; ok {
		return r
	}
	if s.guard.depth() == 0 {
		s.guard.lowest = math.MaxInt
	}
	if !s.tick() {
		s.guard.lowest = -1
		return true
	}
	switch s.guard.enter(key) {
	case guardCycle:
		return true
	case guardTooDeep:
		s.degrade(diag.SolverDepthExceeded, "relating %s to %s exceeded depth %d",
			s.Label(source), s.Label(target), s.opts.MaxSubtypeDepth)
		return true
	}
	saved := s.guard.frame()
	r := s.structuralRelate(source, target, src, tgt, mode)
	if s.guard.leave(key, saved) || !r {
		s.relations[key] = r
	}
	return r
}

// structuralRelate is the case split over the shapes of source and target.
func (s *Session) structuralRelate(source, target types.TypeID, src, tgt types.Type, mode Mode) bool {
	// Deferred and meta types reduce first.
	if n, ok := s.reduceForRelation(source, src); ok {
		return s.related(n, target, mode)
	}
	if n, ok := s.reduceForRelation(target, tgt); ok {
		return s.related(source, n, mode)
	}

	if src.Kind == types.KindUnion {
		for _, m := range s.in.Members(source) {
			if !s.related(m, target, mode) {
				return false
			}
		}
		return true
	}
	if tgt.Kind == types.KindIntersection {
		for _, m := range s.in.Members(target) {
			if !s.related(source, m, mode) {
				return false
			}
		}
		return true
	}
	if tgt.Kind == types.KindUnion {
		if s.relatedToSomeMember(source, src, target, mode) {
			return true
		}
		if src.Kind != types.KindIntersection {
			return false
		}
	}
	if src.Kind == types.KindIntersection {
		return s.intersectionSourceRelated(source, target, tgt, mode)
	}

	switch src.Kind {
	case types.KindTypeParam:
		return s.typeParamSourceRelated(source, target, mode)
	case types.KindInfer:
		return true
	}
	switch tgt.Kind {
	case types.KindTypeParam:
		return false
	case types.KindInfer:
		return true
	}

	if isPattern(src.Kind) || isPattern(tgt.Kind) {
		return s.relatePattern(source, target, src, tgt, mode)
	}

	// Meta types that could not be reduced are still generic.
	if src.Kind.IsMeta() {
		return s.related(s.baseConstraint(source), target, mode)
	}
	if tgt.Kind.IsMeta() {
		return s.couldBeRelatedToGeneric(source, target, tgt, mode)
	}

	if r, decided := s.relatePrimitive(source, target, src, tgt, mode); decided {
		return r
	}
	return s.relateStructured(source, target, src, tgt, mode)
}

func (s *Session) relatedToSomeMember(source types.TypeID, src types.Type, target types.TypeID, mode Mode) bool {
	members := s.in.Members(target)
	// Enum members relate to their own enum first; checking that before the
	// structural fallback keeps the common case cheap.
	if src.Kind == types.KindEnumMember {
		for _, m := range members {
			if mt := s.in.MustLookup(m); mt.Kind == types.KindEnum && mt.Def() == src.Def() {
				return true
			}
		}
	}
	for _, m := range members {
		if s.related(source, m, mode) {
			return true
		}
	}
	// `boolean` relates to a union that covers both of its values.
	if src.Kind == types.KindBoolean {
		return s.related(s.b.True, target, mode) && s.related(s.b.False, target, mode)
	}
	// A numeric enum is a union of its members.
	if src.Kind == types.KindEnum {
		return s.related(src.Elem, target, mode)
	}
	return false
}

func (s *Session) intersectionSourceRelated(source, target types.TypeID, tgt types.Type, mode Mode) bool {
	members := s.in.Members(source)
	for _, m := range members {
		if s.related(m, target, mode) {
			return true
		}
	}
	if merged, ok := s.mergeIntersection(members); ok {
		return s.related(merged, target, mode)
	}
	return false
}

// typeParamSourceRelated relates a type parameter through its constraint. An
// unconstrained parameter relates only to itself, any and unknown.
func (s *Session) typeParamSourceRelated(source, target types.TypeID, mode Mode) bool {
	info, _ := s.in.TypeParamInfo(source)
	if info.Constraint == types.NoTypeID || info.Constraint == s.b.Unknown {
		return false
	}
	if info.Constraint == source {
		return false
	}
	return s.related(info.Constraint, target, mode)
}

// couldBeRelatedToGeneric decides source <: target when target is a meta
// type that stays generic. Only identity is certain; otherwise the source is
// accepted when it satisfies the target's base constraint, so a still-generic
// target never produces a spurious failure.
func (s *Session) couldBeRelatedToGeneric(source, target types.TypeID, tgt types.Type, mode Mode) bool {
	if tgt.Kind == types.KindConditional {
		c, _ := s.in.ConditionalInfo(target)
		return s.related(source, c.True, mode) || s.related(source, c.False, mode)
	}
	return s.related(source, s.baseConstraint(target), mode)
}

func isNullish(k types.Kind) bool { return k == types.KindNull || k == types.KindUndefined }
