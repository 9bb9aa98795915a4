package testkit

import (
	"fmt"

	"tsolve/internal/solver"
	"tsolve/internal/types"
)

// CheckRelationInvariants runs the relation invariants over ids:
// 1) every type relates to itself
// 2) never relates to every type and every type relates to unknown
// 3) a | b relates to t exactly when a and b both do (checked on the first
// maxTriples triples)
func CheckRelationInvariants(s *solver.Session, ids []types.TypeID, maxTriples int) error {
	b := s.Interner().Builtins()
	for _, id := range ids {
		if s.IsSubtype(id, id, solver.ModeSubtype) != solver.Yes {
			return fmt.Errorf("%s is not a subtype of itself", s.Label(id))
		}
		if s.IsSubtype(b.Never, id, solver.ModeSubtype) != solver.Yes {
			return fmt.Errorf("never is not a subtype of %s", s.Label(id))
		}
		if s.IsSubtype(id, b.Unknown, solver.ModeSubtype) != solver.Yes {
			return fmt.Errorf("%s is not a subtype of unknown", s.Label(id))
		}
	}

	checked := 0
	for _, a := range ids {
		for _, c := range ids {
			for _, t := range ids {
				if checked >= maxTriples {
					return nil
				}
				checked++
				if err := checkUnionSplit(s, a, c, t); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkUnionSplit(s *solver.Session, a, c, t types.TypeID) error {
	in := s.Interner()
	// any absorbs the whole union, so the union no longer has two sides.
	if anyID := in.Builtins().Any; a == anyID || c == anyID {
		return nil
	}
	u := in.Union(a, c)
	whole := s.IsSubtype(u, t, solver.ModeSubtype) == solver.Yes
	parts := s.IsSubtype(a, t, solver.ModeSubtype) == solver.Yes &&
		s.IsSubtype(c, t, solver.ModeSubtype) == solver.Yes
	if whole != parts {
		return fmt.Errorf("union split mismatch for (%s | %s) <: %s: union=%v members=%v",
			s.Label(a), s.Label(c), s.Label(t), whole, parts)
	}
	return nil
}

// CheckEvaluationInvariants verifies that evaluation is idempotent and that
// non-meta types evaluate to themselves.
func CheckEvaluationInvariants(s *solver.Session, ids []types.TypeID) error {
	in := s.Interner()
	for _, id := range ids {
		once := s.Evaluate(id)
		if twice := s.Evaluate(once); twice != once {
			return fmt.Errorf("evaluate is not idempotent for %s: %s then %s",
				s.Label(id), s.Label(once), s.Label(twice))
		}
		k := in.KindOf(id)
		if !k.IsMeta() && !k.IsDeferred() && k != types.KindUnion && k != types.KindIntersection && once != id {
			return fmt.Errorf("evaluate changed non-meta type %s into %s", s.Label(id), s.Label(once))
		}
	}
	return nil
}

// CheckInferenceTotality calls every generic signature in sigs with every
// argument list in argLists and verifies that each declared type parameter
// receives a binding.
func CheckInferenceTotality(s *solver.Session, sigs []types.TypeID, argLists [][]types.TypeID) error {
	in := s.Interner()
	for _, sig := range sigs {
		fn, ok := in.FnInfo(sig)
		if !ok {
			return fmt.Errorf("%s is not a signature", s.Label(sig))
		}
		for _, args := range argLists {
			sub := s.Infer(sig, args, types.NoTypeID)
			for _, p := range fn.TypeParams {
				got, bound := sub[p]
				if !bound || got == types.NoTypeID {
					return fmt.Errorf("inferring %s from %d args left %s unbound", s.Label(sig), len(args), s.Label(p))
				}
			}
		}
	}
	return nil
}

// CheckInterning verifies that build returns the same id on every call.
func CheckInterning(build func() types.TypeID, rounds int) error {
	first := build()
	for i := 1; i < rounds; i++ {
		if got := build(); got != first {
			return fmt.Errorf("round %d interned %d, first round interned %d", i, got, first)
		}
	}
	return nil
}
