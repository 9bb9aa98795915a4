package solver

import (
	"tsolve/internal/types"
)

// primitiveKind maps a primitive, a literal or a string pattern to the
// keyword whose wrapper object supplies its members.
func (s *Session) primitiveKind(id types.TypeID) (types.Kind, bool) {
	switch k := s.in.KindOf(s.in.LiteralBase(id)); k {
	case types.KindString, types.KindNumber, types.KindBoolean, types.KindBigInt, types.KindSymbol:
		return k, true
	case types.KindTemplate, types.KindStringIntrinsic:
		return types.KindString, true
	}
	return types.KindInvalid, false
}

// primitiveShape returns the object type a primitive is viewed as when it
// meets an object type: the members of its wrapper, with methods taking no
// parameters. Strings also expose a read-only number index of characters.
func (s *Session) primitiveShape(id types.TypeID) (types.TypeID, bool) {
	kind, ok := s.primitiveKind(id)
	if !ok {
		return types.NoTypeID, false
	}
	if shape, ok := s.apparent[kind]; ok {
		return shape, true
	}
	b := s.b
	method := func(name string, ret types.TypeID) types.PropertyInfo {
		fn := s.in.Function(types.FunctionShape{Return: ret, Method: true})
		return types.PropertyInfo{Name: name, Type: fn, Method: true}
	}
	var shape types.ObjectShape
	switch kind {
	case types.KindString:
		shape.Props = []types.PropertyInfo{
			{Name: "length", Type: b.Number, Readonly: true},
			method("charAt", b.String),
			method("charCodeAt", b.Number),
			method("indexOf", b.Number),
			method("slice", b.String),
			method("toLowerCase", b.String),
			method("toUpperCase", b.String),
			method("trim", b.String),
			method("toString", b.String),
			method("valueOf", b.String),
		}
		shape.NumberIdx = &types.IndexSignature{Value: b.String, Readonly: true}
	case types.KindNumber:
		shape.Props = []types.PropertyInfo{
			method("toExponential", b.String),
			method("toFixed", b.String),
			method("toPrecision", b.String),
			method("toString", b.String),
			method("valueOf", b.Number),
		}
	case types.KindBoolean:
		shape.Props = []types.PropertyInfo{method("valueOf", b.Boolean)}
	case types.KindBigInt:
		shape.Props = []types.PropertyInfo{
			method("toString", b.String),
			method("valueOf", b.BigInt),
		}
	case types.KindSymbol:
		shape.Props = []types.PropertyInfo{
			{Name: "description", Type: s.in.Union(b.String, b.Undefined), Readonly: true},
			method("toString", b.String),
			method("valueOf", b.Symbol),
		}
	}
	id = s.in.Object(shape)
	s.apparent[kind] = id
	return id, true
}
