package solver

import (
	"slices"

	"tsolve/internal/types"
)

// inferrer collects candidate bindings for a fixed set of variables by
// walking a source type and a target type that mentions them in parallel.
type inferrer struct {
	s      *Session
	vars   []types.TypeID
	co     map[types.TypeID][]types.TypeID
	contra map[types.TypeID][]types.TypeID
	seen   map[inferKey]struct{}
	depth  int
}

type inferKey struct {
	source, target types.TypeID
	contra         bool
}

func (s *Session) newInferrer(vars []types.TypeID) *inferrer {
	return &inferrer{
		s:      s,
		vars:   vars,
		co:     make(map[types.TypeID][]types.TypeID),
		contra: make(map[types.TypeID][]types.TypeID),
		seen:   make(map[inferKey]struct{}),
	}
}

func (inf *inferrer) isVar(id types.TypeID) bool {
	return slices.Contains(inf.vars, id)
}

func (inf *inferrer) add(v, candidate types.TypeID, contra bool) {
	if contra {
		if !slices.Contains(inf.contra[v], candidate) {
			inf.contra[v] = append(inf.contra[v], candidate)
		}
		return
	}
	if !slices.Contains(inf.co[v], candidate) {
		inf.co[v] = append(inf.co[v], candidate)
	}
}

// combine merges the candidates of v. Covariant candidates are unioned and
// contravariant ones intersected; when both exist the covariant union wins
// if it satisfies every contravariant candidate.
func (inf *inferrer) combine(v types.TypeID) (types.TypeID, bool) {
	co, contra := inf.co[v], inf.contra[v]
	switch {
	case len(co) == 0 && len(contra) == 0:
		return types.NoTypeID, false
	case len(contra) == 0:
		return inf.s.in.Union(co...), true
	case len(co) == 0:
		return inf.s.in.Intersection(contra...), true
	}
	u := inf.s.in.Union(co...)
	for _, c := range contra {
		if !inf.s.related(u, c, ModeAssignable) {
			return inf.s.in.Intersection(contra...), true
		}
	}
	return u, true
}

// mentionsVars reports whether target refers to any variable being inferred.
func (inf *inferrer) mentionsVars(target types.TypeID) bool {
	found := false
	inf.s.in.Walk(target, func(t types.TypeID) bool {
		if found {
			return false
		}
		if inf.isVar(t) {
			found = true
			return false
		}
		return true
	})
	return found
}

// infer walks source against target, recording source positions that line
// up with variables. contra flips inside parameter positions.
func (inf *inferrer) infer(source, target types.TypeID, contra bool) {
	if source == types.NoTypeID || target == types.NoTypeID {
		return
	}
	if inf.isVar(target) {
		inf.add(target, source, contra)
		return
	}
	if source == target || !inf.mentionsVars(target) {
		return
	}
	key := inferKey{source: source, target: target, contra: contra}
	if _, ok := inf.seen[key]; ok || inf.depth >= int(inf.s.opts.MaxSubtypeDepth) {
		return
	}
	inf.seen[key] = struct{}{}
	inf.depth++
	defer func() { inf.depth-- }()

	s := inf.s
	src := s.in.MustLookup(source)
	tgt := s.in.MustLookup(target)

	if tgt.Kind == types.KindApplication {
		if src.Kind == types.KindApplication {
			sa, _ := s.in.AppInfo(source)
			ta, _ := s.in.AppInfo(target)
			if sa.Def == ta.Def && len(sa.Args) == len(ta.Args) {
				for i := range ta.Args {
					inf.infer(sa.Args[i], ta.Args[i], contra)
				}
				return
			}
		}
		inf.infer(source, s.expandApplication(target), contra)
		return
	}
	if tgt.Kind == types.KindLazy {
		inf.infer(source, s.resolveDef(tgt.Def()), contra)
		return
	}
	if src.Kind.IsDeferred() || src.Kind == types.KindApplication ||
		(src.Kind.IsMeta() && !isPattern(src.Kind)) {
		if r := s.evaluate(source); r != source {
			inf.infer(r, target, contra)
		}
		return
	}

	switch tgt.Kind {
	case types.KindUnion:
		inf.inferToUnion(source, target, contra)
		return
	case types.KindIntersection:
		for _, m := range s.in.Members(target) {
			inf.infer(source, m, contra)
		}
		return
	}
	if src.Kind == types.KindUnion {
		for _, m := range s.in.Members(source) {
			inf.infer(m, target, contra)
		}
		return
	}

	switch tgt.Kind {
	case types.KindArray:
		switch src.Kind {
		case types.KindArray:
			inf.infer(src.Elem, tgt.Elem, contra)
		case types.KindTuple:
			info, _ := s.in.TupleInfo(source)
			for _, e := range info.Elems {
				inf.infer(s.elemValue(e), tgt.Elem, contra)
			}
		}
	case types.KindTuple:
		inf.inferToTuple(source, target, src, contra)
	case types.KindObject:
		inf.inferToObject(source, target, src, contra)
	case types.KindFunction:
		switch src.Kind {
		case types.KindFunction:
			inf.inferSignatures(source, target, contra)
		case types.KindObject:
			o, _ := s.in.ObjectInfo(source)
			if len(o.Calls) > 0 {
				inf.inferSignatures(o.Calls[len(o.Calls)-1], target, contra)
			}
		}
	case types.KindTemplate:
		inf.inferToTemplate(source, target, contra)
	case types.KindConditional:
		c, _ := s.in.ConditionalInfo(target)
		inf.infer(source, c.True, contra)
		inf.infer(source, c.False, contra)
	case types.KindMapped:
		inf.inferToMapped(source, target, contra)
	}
}

// inferToUnion matches source members against target members. Members
// found verbatim in the target are consumed; the rest go to the structural
// members of the same shape, or else to the single naked variable.
func (inf *inferrer) inferToUnion(source, target types.TypeID, contra bool) {
	s := inf.s
	var naked, others []types.TypeID
	for _, m := range s.in.Members(target) {
		if inf.isVar(m) {
			naked = append(naked, m)
		} else {
			others = append(others, m)
		}
	}
	var leftover []types.TypeID
	for _, sm := range s.in.Members(source) {
		if slices.Contains(others, sm) {
			continue
		}
		matched := false
		for _, om := range others {
			if inf.sameShape(sm, om) {
				inf.infer(sm, om, contra)
				matched = true
			}
		}
		if !matched {
			leftover = append(leftover, sm)
		}
	}
	if len(leftover) == 0 {
		return
	}
	if len(naked) == 1 {
		inf.infer(s.in.Union(leftover...), naked[0], contra)
		return
	}
	for _, om := range others {
		for _, sm := range leftover {
			inf.infer(sm, om, contra)
		}
	}
}

// sameShape reports whether two types have the same outer structure.
func (inf *inferrer) sameShape(a, b types.TypeID) bool {
	ka := inf.s.in.KindOf(inf.s.evaluate(a))
	kb := inf.s.in.KindOf(inf.s.evaluate(b))
	class := func(k types.Kind) types.Kind {
		switch k {
		case types.KindTuple:
			return types.KindArray
		case types.KindFunction:
			return types.KindObject
		}
		return k
	}
	switch class(kb) {
	case types.KindArray, types.KindObject, types.KindTemplate:
		return class(ka) == class(kb)
	}
	return false
}

func (inf *inferrer) inferToTuple(source, target types.TypeID, src types.Type, contra bool) {
	s := inf.s
	tInfo, _ := s.in.TupleInfo(target)
	switch src.Kind {
	case types.KindArray:
		for _, te := range tInfo.Elems {
			if te.Rest {
				inf.infer(source, te.Type, contra)
				continue
			}
			inf.infer(src.Elem, te.Type, contra)
		}
		return
	case types.KindTuple:
	default:
		return
	}
	sInfo, _ := s.in.TupleInfo(source)
	for i, te := range tInfo.Elems {
		if te.Rest {
			tail := len(tInfo.Elems) - i - 1
			end := max(len(sInfo.Elems)-tail, i)
			rest := sInfo.Elems[min(i, len(sInfo.Elems)):min(end, len(sInfo.Elems))]
			if s.in.KindOf(te.Type) == types.KindArray {
				elem := s.in.MustLookup(te.Type).Elem
				for _, e := range rest {
					if e.Rest {
						inf.infer(e.Type, te.Type, contra)
						continue
					}
					inf.infer(e.Type, elem, contra)
				}
			} else {
				inf.infer(s.in.Tuple(rest, false), te.Type, contra)
			}
			for k := 0; k < tail && end+k < len(sInfo.Elems); k++ {
				inf.infer(sInfo.Elems[end+k].Type, tInfo.Elems[i+1+k].Type, contra)
			}
			return
		}
		if i >= len(sInfo.Elems) {
			return
		}
		se := sInfo.Elems[i]
		if se.Rest {
			inf.infer(s.arrayElem(se.Type), te.Type, contra)
			continue
		}
		inf.infer(se.Type, te.Type, contra)
	}
}

func (inf *inferrer) inferToObject(source, target types.TypeID, src types.Type, contra bool) {
	s := inf.s
	to, _ := s.in.ObjectInfo(target)
	switch src.Kind {
	case types.KindObject:
	case types.KindFunction:
		if len(to.Calls) > 0 {
			inf.inferSignatures(source, to.Calls[len(to.Calls)-1], contra)
		}
		return
	case types.KindArray, types.KindTuple:
		if to.NumberIdx != nil {
			inf.infer(s.arrayElem(source), to.NumberIdx.Value, contra)
		}
		return
	default:
		return
	}
	so, _ := s.in.ObjectInfo(source)
	for _, tp := range to.Props {
		if sp, ok := so.FindProperty(tp.Name); ok {
			inf.infer(sp.Type, tp.Type, contra)
		}
	}
	if to.StringIdx != nil {
		switch {
		case so.StringIdx != nil:
			inf.infer(so.StringIdx.Value, to.StringIdx.Value, contra)
		case len(so.Props) > 0:
			all := make([]types.TypeID, len(so.Props))
			for i, p := range so.Props {
				all[i] = p.Type
			}
			inf.infer(s.in.Union(all...), to.StringIdx.Value, contra)
		}
	}
	if to.NumberIdx != nil {
		switch {
		case so.NumberIdx != nil:
			inf.infer(so.NumberIdx.Value, to.NumberIdx.Value, contra)
		case so.StringIdx != nil:
			inf.infer(so.StringIdx.Value, to.NumberIdx.Value, contra)
		}
	}
	inf.inferSignatureLists(so.Calls, to.Calls, contra)
	inf.inferSignatureLists(so.Constructs, to.Constructs, contra)
}

// inferSignatureLists pairs overloads from the end, the way the last
// overload is the most general one.
func (inf *inferrer) inferSignatureLists(src, tgt []types.TypeID, contra bool) {
	for i := 1; i <= min(len(src), len(tgt)); i++ {
		inf.inferSignatures(src[len(src)-i], tgt[len(tgt)-i], contra)
	}
}

// inferSignatures walks parameters with flipped variance and the return
// type as is. A rest parameter typed by a variable binds a tuple of the
// remaining source parameters.
func (inf *inferrer) inferSignatures(source, target types.TypeID, contra bool) {
	s := inf.s
	sf, ok := s.in.FnInfo(source)
	if !ok {
		return
	}
	if len(sf.TypeParams) > 0 {
		erase := make(Substitution, len(sf.TypeParams))
		for _, p := range sf.TypeParams {
			erase[p] = s.baseConstraint(p)
		}
		source = s.instantiateSignature(source, erase)
		sf, _ = s.in.FnInfo(source)
	}
	tf, _ := s.in.FnInfo(target)
	for i, tp := range tf.Params {
		if tp.Rest && !s.isArrayLike(tp.Type) {
			var rest []types.TupleElement
			if i < len(sf.Params) {
				for _, p := range sf.Params[i:] {
					rest = append(rest, types.TupleElement{Type: p.Type, Name: p.Name, Optional: p.Optional, Rest: p.Rest})
				}
			}
			inf.infer(s.in.Tuple(rest, false), tp.Type, !contra)
			break
		}
		st, sok := s.paramTypeAt(sf, i)
		if !sok {
			continue
		}
		tt := tp.Type
		if tp.Rest {
			tt = s.arrayElem(tp.Type)
		}
		inf.infer(st, tt, !contra)
	}
	if sf.This != types.NoTypeID && tf.This != types.NoTypeID {
		inf.infer(sf.This, tf.This, !contra)
	}
	inf.infer(returnOf(sf, s.b.Void), returnOf(tf, s.b.Void), contra)
	if sf.Predicate != nil && tf.Predicate != nil {
		inf.infer(sf.Predicate.Type, tf.Predicate.Type, contra)
	}
}

func (s *Session) isArrayLike(id types.TypeID) bool {
	k := s.in.KindOf(id)
	return k == types.KindArray || k == types.KindTuple
}

// inferToTemplate captures the parts of a string literal that line up with
// the spans of a template.
func (inf *inferrer) inferToTemplate(source, target types.TypeID, contra bool) {
	s := inf.s
	text, ok := s.stringText(source)
	if !ok {
		return
	}
	info, _ := s.in.TemplateInfo(target)
	parts, ok := matchTemplate(text, info)
	if !ok {
		return
	}
	for i, p := range parts {
		inf.infer(s.in.StringLiteral(p), info.Spans[i], contra)
	}
}

// inferToMapped reverses a mapped type. Over `keyof T` the source itself is
// a candidate for T; over a variable key set the source's keys bind the key
// variable and its property types bind the template.
func (inf *inferrer) inferToMapped(source, target types.TypeID, contra bool) {
	s := inf.s
	m, _ := s.in.MappedInfo(target)
	if p, ok := s.homomorphicParam(m); ok && inf.isVar(p) {
		inf.infer(source, p, contra)
		return
	}
	o, ok := s.in.ObjectInfo(s.evaluate(source))
	if !ok {
		return
	}
	if inf.isVar(m.Constraint) {
		keys := make([]types.TypeID, 0, len(o.Props))
		for _, p := range o.Props {
			keys = append(keys, s.in.StringLiteral(p.Name))
		}
		inf.infer(s.in.Union(keys...), m.Constraint, contra)
	}
	values := make([]types.TypeID, 0, len(o.Props)+1)
	for _, p := range o.Props {
		values = append(values, p.Type)
	}
	if o.StringIdx != nil {
		values = append(values, o.StringIdx.Value)
	}
	if len(values) > 0 {
		inf.infer(s.in.Union(values...), m.Template, contra)
	}
}
