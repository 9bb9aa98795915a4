package solver

import (
	"slices"

	"tsolve/internal/types"
)

// relateSignature decides whether a source signature can stand in for a
// target signature. Parameters are compared contravariantly, or
// bivariantly for methods and when strictFunctionTypes is off; the return
// type covariantly unless the target returns void.
func (s *Session) relateSignature(source, target types.TypeID, mode Mode) bool {
	sf, _ := s.in.FnInfo(source)
	tf, _ := s.in.FnInfo(target)
	if sf.Constructor != tf.Constructor {
		return false
	}
	if len(sf.TypeParams) > 0 {
		var sub Substitution
		if len(sf.TypeParams) == len(tf.TypeParams) {
			sub = make(Substitution, len(sf.TypeParams))
			for i, p := range sf.TypeParams {
				sub[p] = tf.TypeParams[i]
			}
		} else {
			sub = s.inferFromSignature(sf, tf)
		}
		source = s.instantiateSignature(source, sub)
		sf, _ = s.in.FnInfo(source)
	}

	if _, rest := tf.RestParam(); !rest && sf.RequiredParams() > len(tf.Params) {
		return false
	}
	bivariant := !s.opts.StrictFunctionTypes || sf.Method || tf.Method
	if sf.This != types.NoTypeID && tf.This != types.NoTypeID {
		if !s.paramRelated(sf.This, tf.This, bivariant, mode) {
			return false
		}
	}
	sRestAt, tRestAt := paramRestIndex(sf), paramRestIndex(tf)
	n := max(len(sf.Params), len(tf.Params))
	for i := range n {
		if i == sRestAt && i == tRestAt {
			if !s.paramRelated(sf.Params[i].Type, tf.Params[i].Type, bivariant, mode) {
				return false
			}
			break
		}
		st, sok := s.paramTypeAt(sf, i)
		tt, tok := s.paramTypeAt(tf, i)
		if !sok || !tok {
			continue
		}
		if !s.paramRelated(st, tt, bivariant, mode) {
			return false
		}
	}

	if tf.Predicate != nil {
		if sf.Predicate == nil || sf.Predicate.Asserts != tf.Predicate.Asserts {
			return false
		}
		if tf.Predicate.Type != types.NoTypeID {
			if sf.Predicate.Type == types.NoTypeID || !s.related(sf.Predicate.Type, tf.Predicate.Type, mode) {
				return false
			}
		}
	}
	tr, sr := returnOf(tf, s.b.Void), returnOf(sf, s.b.Void)
	if tr == s.b.Void {
		return true
	}
	return s.related(sr, tr, mode)
}

func returnOf(fn *types.FunctionShape, fallback types.TypeID) types.TypeID {
	if fn.Return == types.NoTypeID {
		return fallback
	}
	return fn.Return
}

func (s *Session) paramRelated(st, tt types.TypeID, bivariant bool, mode Mode) bool {
	return s.related(tt, st, mode) || (bivariant && s.related(st, tt, mode))
}

func paramRestIndex(fn *types.FunctionShape) int {
	for i, p := range fn.Params {
		if p.Rest {
			return i
		}
	}
	return -1
}

// paramTypeAt returns the type an argument at position i is checked
// against. Positions past a rest parameter take its element type.
func (s *Session) paramTypeAt(fn *types.FunctionShape, i int) (types.TypeID, bool) {
	for j, p := range fn.Params {
		if p.Rest {
			if tup, ok := s.in.TupleInfo(p.Type); ok {
				return s.tupleElemAt(tup, i-j)
			}
			return s.arrayElem(p.Type), true
		}
		if j == i {
			return p.Type, true
		}
	}
	return types.NoTypeID, false
}

// instantiateSignature applies sub to a signature, including its own type
// parameters, and returns the resulting non-generic signature.
func (s *Session) instantiateSignature(id types.TypeID, sub Substitution) types.TypeID {
	fn, _ := s.in.FnInfo(id)
	shape := types.FunctionShape{
		TypeParams:  slices.DeleteFunc(slices.Clone(fn.TypeParams), func(p types.TypeID) bool { _, ok := sub[p]; return ok }),
		Params:      s.spreadParams(fn.Params, sub),
		This:        s.instantiate(fn.This, sub),
		Return:      s.instantiate(fn.Return, sub),
		Method:      fn.Method,
		Constructor: fn.Constructor,
	}
	if fn.Predicate != nil {
		p := *fn.Predicate
		p.Type = s.instantiate(p.Type, sub)
		shape.Predicate = &p
	}
	if len(shape.TypeParams) == 0 {
		shape.TypeParams = nil
	}
	return s.in.Function(shape)
}

// inferFromSignature instantiates a generic source signature in the context
// of a target signature: its type parameters are inferred from the target's
// parameter types, then from its return type for whatever is left.
func (s *Session) inferFromSignature(sf, tf *types.FunctionShape) Substitution {
	inf := s.newInferrer(sf.TypeParams)
	for i := range max(len(sf.Params), len(tf.Params)) {
		st, sok := s.paramTypeAt(sf, i)
		tt, tok := s.paramTypeAt(tf, i)
		if sok && tok {
			inf.infer(tt, st, false)
		}
	}
	ret := s.newInferrer(sf.TypeParams)
	ret.infer(returnOf(tf, s.b.Void), returnOf(sf, s.b.Void), false)
	return s.solve(sf.TypeParams, inf, ret)
}
