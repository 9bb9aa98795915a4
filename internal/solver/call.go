package solver

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"tsolve/internal/types"
)

// Infer computes type arguments for a generic signature called with args.
// contextual, when not NoTypeID, is the type the call's result is expected
// to have; it only binds parameters the arguments left unbound. The result
// always binds every type parameter of sig.
func (s *Session) Infer(sig types.TypeID, args []types.TypeID, contextual types.TypeID) Substitution {
	end := s.begin("infer", sig)
	sub := s.inferCall(sig, args, contextual)
	end(s.formatSubstitution(sub))
	return sub
}

func (s *Session) inferCall(sig types.TypeID, args []types.TypeID, contextual types.TypeID) Substitution {
	fn, ok := s.in.FnInfo(sig)
	if !ok || len(fn.TypeParams) == 0 {
		return Substitution{}
	}
	inf := s.newInferrer(fn.TypeParams)
	s.inferArgs(inf, fn, args)
	var ctx *inferrer
	if contextual != types.NoTypeID {
		ctx = s.newInferrer(fn.TypeParams)
		ctx.infer(contextual, returnOf(fn, s.b.Void), false)
	}
	return s.solve(fn.TypeParams, inf, ctx)
}

// inferArgs walks each argument against its parameter. Arguments that fall
// into a rest parameter typed by a variable are bound together as a tuple.
func (s *Session) inferArgs(inf *inferrer, fn *types.FunctionShape, args []types.TypeID) {
	for i, arg := range args {
		if i >= len(fn.Params) && paramRestIndex(fn) < 0 {
			return
		}
		if r := paramRestIndex(fn); r >= 0 && i >= r {
			rest := fn.Params[r]
			if inf.isVar(rest.Type) {
				inf.infer(s.in.TupleOf(args[r:]...), rest.Type, false)
				return
			}
		}
		if t, ok := s.paramTypeAt(fn, i); ok {
			inf.infer(arg, t, false)
		}
	}
}

// solve binds every variable. Candidates are collected first: the primary
// candidate, else the lower-priority one. Unbound variables then take their
// declared default, else unknown, in declaration order. Constraints are
// checked last against the completed substitution, so a constraint may name
// any parameter of the signature; a binding that violates its constraint is
// replaced by the constraint until nothing changes.
func (s *Session) solve(vars []types.TypeID, primary, fallback *inferrer) Substitution {
	sub := make(Substitution, len(vars))
	var unbound []types.TypeID
	for _, v := range vars {
		got, ok := primary.combine(v)
		if !ok && fallback != nil {
			got, ok = fallback.combine(v)
		}
		if !ok {
			unbound = append(unbound, v)
			continue
		}
		sub[v] = got
	}
	for _, v := range unbound {
		info, _ := s.in.TypeParamInfo(v)
		got := s.b.Unknown
		if info.Default != types.NoTypeID {
			got = s.instantiate(info.Default, sub)
		}
		sub[v] = got
	}
	for range vars {
		changed := false
		for _, v := range vars {
			info, _ := s.in.TypeParamInfo(v)
			if info.Constraint == types.NoTypeID {
				continue
			}
			c := s.instantiate(info.Constraint, sub)
			if sub[v] != c && !s.related(sub[v], c, ModeAssignable) {
				sub[v] = c
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return sub
}

// GetTypeOfCall resolves a call of sig with args. For an object with
// several call signatures the first overload the arguments satisfy is
// chosen, falling back to the first overload. Calling something that is not
// callable yields any.
func (s *Session) GetTypeOfCall(sig types.TypeID, args []types.TypeID, contextual types.TypeID) (types.TypeID, Substitution) {
	end := s.begin("call", sig)
	ret, sub := s.call(sig, args, contextual)
	end(s.Label(ret))
	return ret, sub
}

func (s *Session) call(sig types.TypeID, args []types.TypeID, contextual types.TypeID) (types.TypeID, Substitution) {
	callee := s.evaluate(sig)
	switch s.in.KindOf(callee) {
	case types.KindFunction:
		_, ret, sub := s.callSignature(callee, args, contextual)
		return ret, sub
	case types.KindObject:
		o, _ := s.in.ObjectInfo(callee)
		if len(o.Calls) == 0 {
			break
		}
		for _, c := range o.Calls {
			inst, ret, sub := s.callSignature(c, args, contextual)
			if s.applicable(inst, args) {
				return ret, sub
			}
		}
		_, ret, sub := s.callSignature(o.Calls[0], args, contextual)
		return ret, sub
	}
	return s.b.Any, Substitution{}
}

// callSignature instantiates one signature for a call and returns it with
// its result type.
func (s *Session) callSignature(sig types.TypeID, args []types.TypeID, contextual types.TypeID) (types.TypeID, types.TypeID, Substitution) {
	sub := s.inferCall(sig, args, contextual)
	inst := sig
	if len(sub) > 0 {
		inst = s.instantiateSignature(sig, sub)
	}
	fn, _ := s.in.FnInfo(inst)
	return inst, s.evaluate(returnOf(fn, s.b.Void)), sub
}

// applicable reports whether args satisfy the arity and parameter types of
// a non-generic signature.
func (s *Session) applicable(sig types.TypeID, args []types.TypeID) bool {
	fn, _ := s.in.FnInfo(sig)
	if len(args) < fn.RequiredParams() {
		return false
	}
	if paramRestIndex(fn) < 0 && len(args) > len(fn.Params) {
		return false
	}
	for i, a := range args {
		t, ok := s.paramTypeAt(fn, i)
		if !ok || !s.related(a, t, ModeAssignable) {
			return false
		}
	}
	return true
}

func (s *Session) formatSubstitution(sub Substitution) string {
	return strings.Join(lo.Map(sortedKeys(sub), func(k types.TypeID, _ int) string {
		return s.Label(k) + "=" + s.Label(sub[k])
	}), ", ")
}

func sortedKeys(sub Substitution) []types.TypeID {
	keys := lo.Keys(sub)
	slices.Sort(keys)
	return keys
}
