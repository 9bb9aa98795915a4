package solver

import (
	"tsolve/internal/types"
)

// relatePrimitive decides the relation when either side is a keyword type,
// a literal or an enum. decided is false when the pair is structured on both
// sides.
func (s *Session) relatePrimitive(source, target types.TypeID, src, tgt types.Type, mode Mode) (result, decided bool) {
	switch src.Kind {
	case types.KindNull, types.KindUndefined:
		if !s.opts.StrictNullChecks {
			return true, true
		}
		return src.Kind == types.KindUndefined && tgt.Kind == types.KindVoid, true
	case types.KindUnknown, types.KindVoid, types.KindInvalid:
		return false, true
	case types.KindEnumMember:
		switch tgt.Kind {
		case types.KindEnum:
			return tgt.Def() == src.Def(), true
		case types.KindEnumMember:
			return false, true
		}
		return s.related(src.Elem, target, mode), true
	case types.KindEnum:
		if tgt.Kind == types.KindEnum || tgt.Kind == types.KindEnumMember {
			return false, true
		}
		return s.related(src.Elem, target, mode), true
	}

	switch tgt.Kind {
	case types.KindEnum:
		return mode == ModeAssignable && s.isNumericEnum(target) && s.numberAssignableToEnum(source, src, target), true
	case types.KindEnumMember:
		if mode != ModeAssignable || !s.isNumericLiteral(tgt.Elem) {
			return false, true
		}
		return src.Kind == types.KindNumber || (src.Kind == types.KindLiteral && source == tgt.Elem), true
	case types.KindString, types.KindNumber, types.KindBigInt, types.KindBoolean, types.KindSymbol:
		return src.Kind == types.KindLiteral && s.in.LiteralBase(source) == target, true
	case types.KindLiteral, types.KindVoid, types.KindNull, types.KindUndefined:
		return false, true
	case types.KindNonPrimitive:
		return isObjectLike(src.Kind), true
	}

	if isPrimitive(src.Kind) {
		if tgt.Kind != types.KindObject {
			return false, true
		}
		o, _ := s.in.ObjectInfo(target)
		if o.IsEmpty() {
			return true, true
		}
		apparent, ok := s.primitiveShape(source)
		if !ok {
			return false, true
		}
		shape, _ := s.in.ObjectInfo(apparent)
		return s.relateShapes(shape, o, mode), true
	}
	return false, false
}

func isPrimitive(k types.Kind) bool {
	switch k {
	case types.KindString, types.KindNumber, types.KindBigInt, types.KindBoolean,
		types.KindSymbol, types.KindLiteral, types.KindNonPrimitive:
		return true
	}
	return false
}

func isObjectLike(k types.Kind) bool {
	switch k {
	case types.KindObject, types.KindArray, types.KindTuple, types.KindFunction, types.KindNonPrimitive:
		return true
	}
	return false
}

func isPattern(k types.Kind) bool {
	return k == types.KindTemplate || k == types.KindStringIntrinsic
}

func (s *Session) isNumericLiteral(id types.TypeID) bool {
	v, ok := s.in.LiteralInfo(id)
	return ok && v.Kind == types.LitNumber
}

// isNumericEnum reports whether every member of an enum has a number value.
func (s *Session) isNumericEnum(enum types.TypeID) bool {
	members := s.in.Members(s.in.MustLookup(enum).Elem)
	for _, m := range members {
		mt := s.in.MustLookup(m)
		value := m
		if mt.Kind == types.KindEnumMember {
			value = mt.Elem
		}
		if !s.isNumericLiteral(value) && s.in.KindOf(value) != types.KindNumber {
			return false
		}
	}
	return len(members) > 0
}

// numberAssignableToEnum accepts number itself, or a number literal equal to
// one of the enum's member values.
func (s *Session) numberAssignableToEnum(source types.TypeID, src types.Type, enum types.TypeID) bool {
	if src.Kind == types.KindNumber {
		return true
	}
	if !s.isNumericLiteral(source) {
		return false
	}
	for _, m := range s.in.Members(s.in.MustLookup(enum).Elem) {
		if mt := s.in.MustLookup(m); m == source || (mt.Kind == types.KindEnumMember && mt.Elem == source) {
			return true
		}
	}
	return false
}

// relatePattern relates template literal and string intrinsic types. A
// string literal belongs to a template when its text matches the pattern;
// patterns themselves are strings.
func (s *Session) relatePattern(source, target types.TypeID, src, tgt types.Type, mode Mode) bool {
	switch tgt.Kind {
	case types.KindTemplate:
		if text, ok := s.stringText(source); ok {
			return s.templateAccepts(text, target)
		}
		if src.Kind == types.KindTemplate {
			return s.templateRelated(source, target, mode)
		}
		return false
	case types.KindStringIntrinsic:
		kind := types.StringIntrinsicKind(tgt.Payload)
		if text, ok := s.stringText(source); ok {
			return applyIntrinsic(kind, text) == text && s.related(source, tgt.Elem, mode)
		}
		if src.Kind == types.KindStringIntrinsic && types.StringIntrinsicKind(src.Payload) == kind {
			return s.related(src.Elem, tgt.Elem, mode)
		}
		return false
	}
	return s.related(s.b.String, target, mode)
}

// templateRelated relates two templates with the same literal texts span by
// span.
func (s *Session) templateRelated(source, target types.TypeID, mode Mode) bool {
	a, _ := s.in.TemplateInfo(source)
	b, _ := s.in.TemplateInfo(target)
	if len(a.Texts) != len(b.Texts) {
		return false
	}
	for i := range a.Texts {
		if a.Texts[i] != b.Texts[i] {
			return false
		}
	}
	for i := range a.Spans {
		if !s.related(a.Spans[i], b.Spans[i], mode) {
			return false
		}
	}
	return true
}

// stringText returns the text of a string literal or string enum member.
func (s *Session) stringText(id types.TypeID) (string, bool) {
	v, ok := s.literalOf(id)
	if !ok || v.Kind != types.LitString {
		return "", false
	}
	return v.Str, true
}

// baseConstraint is the widest type a still-generic type can stand for.
func (s *Session) baseConstraint(id types.TypeID) types.TypeID {
	t := s.in.MustLookup(id)
	switch t.Kind {
	case types.KindTypeParam:
		info, _ := s.in.TypeParamInfo(id)
		if info.Constraint == types.NoTypeID || info.Constraint == id {
			return s.b.Unknown
		}
		return info.Constraint
	case types.KindKeyOf:
		return s.in.Union(s.b.String, s.b.Number, s.b.Symbol)
	case types.KindConditional:
		c, _ := s.in.ConditionalInfo(id)
		return s.in.Union(c.True, c.False)
	case types.KindTemplate, types.KindStringIntrinsic:
		return s.b.String
	case types.KindMapped:
		return s.b.EmptyObject
	case types.KindIndexedAccess:
		r := s.indexedAccess(s.baseConstraint(t.Elem), s.baseConstraint(t.Aux))
		if s.hasFreeParams(r) {
			return s.b.Unknown
		}
		return r
	case types.KindApplication:
		return s.expandApplication(id)
	}
	if s.hasFreeParams(id) {
		return s.b.Unknown
	}
	return id
}
