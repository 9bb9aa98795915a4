package solver

import (
	"tsolve/internal/types"
)

// evalMapped expands `{ [P in K as N]: X }` once K is a concrete key set.
// String and number keys become index signatures; literal keys become
// properties, renamed through the `as` clause when present. Mapping over
// `keyof S` copies the optional and readonly flags of S's properties before
// the modifiers apply.
func (s *Session) evalMapped(id types.TypeID) types.TypeID {
	m, _ := s.in.MappedInfo(id)
	keys := s.evaluate(m.Constraint)
	if s.hasFreeParams(keys) {
		return id
	}
	var source *types.ObjectShape
	if c := s.in.MustLookup(m.Constraint); c.Kind == types.KindKeyOf {
		source, _ = s.in.ObjectInfo(s.evaluate(c.Elem))
	}
	if s.in.KindOf(keys) == types.KindAny {
		keys = s.in.Union(s.b.String, s.b.Number, s.b.Symbol)
	}

	var shape types.ObjectShape
	for _, key := range s.in.Members(keys) {
		name := key
		if m.NameType != types.NoTypeID {
			name = s.evaluate(s.instantiate(m.NameType, Substitution{m.Param: key}))
		}
		value := s.instantiate(m.Template, Substitution{m.Param: key})
		for _, n := range s.in.Members(name) {
			s.addMappedKey(&shape, m, source, n, value)
		}
	}
	return s.in.Object(shape)
}

func (s *Session) addMappedKey(shape *types.ObjectShape, m *types.MappedInfo, source *types.ObjectShape, key, value types.TypeID) {
	switch s.in.KindOf(key) {
	case types.KindString:
		shape.StringIdx = &types.IndexSignature{Value: value, Readonly: m.Readonly == types.ModAdd}
		return
	case types.KindNumber:
		shape.NumberIdx = &types.IndexSignature{Value: value, Readonly: m.Readonly == types.ModAdd}
		return
	case types.KindLiteral, types.KindEnumMember:
	default:
		return
	}
	lit, ok := s.literalOf(key)
	if !ok || (lit.Kind != types.LitString && lit.Kind != types.LitNumber) {
		return
	}
	prop := types.PropertyInfo{Name: lit.Text(), Type: value}
	if source != nil {
		if sp, found := source.FindProperty(prop.Name); found {
			prop.Optional = sp.Optional
			prop.Readonly = sp.Readonly
		}
	}
	wasOptional := prop.Optional
	prop.Optional = applyModifier(prop.Optional, m.Optional)
	prop.Readonly = applyModifier(prop.Readonly, m.Readonly)
	if wasOptional {
		prop.Type = s.removeUndefined(prop.Type)
	}
	shape.Props = append(shape.Props, prop)
}

// literalOf returns the literal value of a literal or enum member type.
func (s *Session) literalOf(id types.TypeID) (types.LiteralValue, bool) {
	t := s.in.MustLookup(id)
	if t.Kind == types.KindEnumMember {
		return s.in.LiteralInfo(t.Elem)
	}
	return s.in.LiteralInfo(id)
}
