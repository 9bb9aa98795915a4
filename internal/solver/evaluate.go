package solver

import (
	"tsolve/internal/diag"
	"tsolve/internal/types"
)

// Evaluate reduces id to normal form: deferred references are resolved,
// applications expanded and meta types computed until the head of the
// result is structural or stuck on a free type parameter. Evaluation is
// idempotent.
func (s *Session) Evaluate(id types.TypeID) types.TypeID {
	end := s.begin("evaluate", id)
	r := s.evaluate(id)
	end(s.Label(r))
	return r
}

func reducible(k types.Kind) bool {
	return k.IsMeta() || k.IsDeferred() || k == types.KindUnion || k == types.KindIntersection
}

func (s *Session) evaluate(id types.TypeID) types.TypeID {
	if !reducible(s.in.KindOf(id)) {
		return id
	}
	if r, ok := s.evaluated[id]; ok {
		return r
	}
	if _, active := s.evalActive[id]; active {
		return id
	}
	if s.evalDepth >= int(s.opts.MaxEvaluationDepth) {
		s.degrade(diag.SolverEvaluationDepth, "evaluating %s exceeded depth %d",
			s.Label(id), s.opts.MaxEvaluationDepth)
		return s.b.Any
	}
	s.evalActive[id] = struct{}{}
	s.evalDepth++
	defer func() {
		delete(s.evalActive, id)
		s.evalDepth--
	}()

	cur := id
	settled := false
	for steps := 0; ; steps++ {
		if steps > int(s.opts.MaxEvaluationDepth) || !s.tick() {
			s.degrade(diag.SolverEvaluationDepth, "evaluating %s did not settle after %d steps",
				s.Label(id), steps)
			return s.b.Any
		}
		next := s.step(cur)
		if next == cur {
			settled = true
			break
		}
		if r, ok := s.evaluated[next]; ok {
			cur = r
			break
		}
		if _, active := s.evalActive[next]; active {
			cur = next
			break
		}
		cur = next
		if !reducible(s.in.KindOf(cur)) {
			settled = true
			break
		}
	}
	s.evaluated[id] = cur
	if settled {
		s.evaluated[cur] = cur
	}
	return cur
}

// step performs one reduction of id.
func (s *Session) step(id types.TypeID) types.TypeID {
	t := s.in.MustLookup(id)
	switch t.Kind {
	case types.KindLazy, types.KindTypeQuery:
		return s.resolveDef(t.Def())
	case types.KindApplication:
		return s.expandApplication(id)
	case types.KindConditional:
		return s.evalConditional(id)
	case types.KindMapped:
		return s.evalMapped(id)
	case types.KindIndexedAccess:
		return s.indexedAccess(t.Elem, t.Aux)
	case types.KindKeyOf:
		return s.keyOf(t.Elem)
	case types.KindTemplate:
		return s.evalTemplate(id)
	case types.KindStringIntrinsic:
		return s.evalIntrinsic(types.StringIntrinsicKind(t.Payload), t.Elem)
	case types.KindUnion, types.KindIntersection:
		members := s.in.Members(id)
		out := make([]types.TypeID, len(members))
		changed := false
		for i, m := range members {
			out[i] = s.evaluate(m)
			changed = changed || out[i] != m
		}
		if !changed {
			return id
		}
		if t.Kind == types.KindUnion {
			return s.in.Union(out...)
		}
		return s.in.Intersection(out...)
	}
	return id
}
