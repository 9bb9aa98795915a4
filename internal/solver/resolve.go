package solver

import (
	"tsolve/internal/diag"
	"tsolve/internal/types"
)

// resolveDef returns the declared type of def. A declaration the resolver
// does not know degrades to any, reported once per declaration.
func (s *Session) resolveDef(def types.DefID) types.TypeID {
	if id, ok := s.defs[def]; ok {
		return id
	}
	id, ok := s.resolver.ResolveDef(def)
	if !ok || id == types.NoTypeID {
		if _, seen := s.unresolved[def]; !seen {
			s.unresolved[def] = struct{}{}
			s.degrade(diag.SolverUnresolvedDef, "cannot resolve %s; treating it as any", s.defName(def))
		}
		id = s.b.Any
	}
	s.defs[def] = id
	return id
}

func (s *Session) defName(def types.DefID) string {
	if s.namer != nil {
		if name := s.namer.DefName(def); name != "" {
			return name
		}
	}
	return types.Label(s.in, s.in.Lazy(def))
}

// expandApplication substitutes the arguments of Def<Args> into the body of
// Def. Missing arguments take the parameter's default, instantiated over
// the arguments before it, or unknown.
func (s *Session) expandApplication(id types.TypeID) types.TypeID {
	if out, ok := s.expansions[id]; ok {
		return out
	}
	app, ok := s.in.AppInfo(id)
	if !ok {
		return id
	}
	body := s.resolveDef(app.Def)
	params := s.resolver.DefTypeParams(app.Def)
	out := body
	if len(params) > 0 {
		out = s.instantiate(body, s.bindArgs(params, app.Args))
	}
	s.expansions[id] = out
	return out
}

// bindArgs pairs declared parameters with explicit arguments.
func (s *Session) bindArgs(params, args []types.TypeID) Substitution {
	sub := make(Substitution, len(params))
	for i, p := range params {
		if i < len(args) && args[i] != types.NoTypeID {
			sub[p] = args[i]
			continue
		}
		info, _ := s.in.TypeParamInfo(p)
		if info.Default != types.NoTypeID {
			sub[p] = s.instantiate(info.Default, sub)
			continue
		}
		sub[p] = s.b.Unknown
	}
	return sub
}

// reduceForRelation steps a deferred or meta type one level towards a shape
// the relation can inspect. ok is false when id is already as reduced as it
// can get.
func (s *Session) reduceForRelation(id types.TypeID, t types.Type) (types.TypeID, bool) {
	switch t.Kind {
	case types.KindLazy, types.KindTypeQuery:
		r := s.resolveDef(t.Def())
		return r, r != id
	case types.KindApplication:
		r := s.expandApplication(id)
		return r, r != id
	case types.KindConditional, types.KindMapped, types.KindIndexedAccess,
		types.KindKeyOf, types.KindTemplate, types.KindStringIntrinsic:
		r := s.evaluate(id)
		return r, r != id
	case types.KindUnion, types.KindIntersection:
		// Members are relaxed individually by the union and intersection rules.
	}
	return id, false
}
