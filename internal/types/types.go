package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// DefID identifies a declaration owned by the binder. The solver only ever
// borrows DefIDs and resolves them through its resolver.
type DefID uint32

// NoDefID marks the absence of a declaration.
const NoDefID DefID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindAny
	KindUnknown
	KindNever
	KindVoid
	KindNull
	KindUndefined
	KindBoolean
	KindNumber
	KindString
	KindBigInt
	KindSymbol
	KindNonPrimitive
	KindLiteral
	KindUnion
	KindIntersection
	KindArray
	KindTuple
	KindObject
	KindFunction
	KindTypeParam
	KindInfer
	KindApplication
	KindConditional
	KindMapped
	KindIndexedAccess
	KindKeyOf
	KindTemplate
	KindStringIntrinsic
	KindLazy
	KindTypeQuery
	KindEnum
	KindEnumMember
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBigInt:
		return "bigint"
	case KindSymbol:
		return "symbol"
	case KindNonPrimitive:
		return "object"
	case KindLiteral:
		return "literal"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindObject:
		return "object-shape"
	case KindFunction:
		return "function"
	case KindTypeParam:
		return "type-param"
	case KindInfer:
		return "infer"
	case KindApplication:
		return "application"
	case KindConditional:
		return "conditional"
	case KindMapped:
		return "mapped"
	case KindIndexedAccess:
		return "indexed-access"
	case KindKeyOf:
		return "keyof"
	case KindTemplate:
		return "template"
	case KindStringIntrinsic:
		return "string-intrinsic"
	case KindLazy:
		return "lazy"
	case KindTypeQuery:
		return "typeof"
	case KindEnum:
		return "enum"
	case KindEnumMember:
		return "enum-member"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsIntrinsic reports whether the kind is one of the keyword types.
func (k Kind) IsIntrinsic() bool {
	return k >= KindAny && k <= KindNonPrimitive
}

// IsMeta reports whether values of this kind reduce through the evaluator.
func (k Kind) IsMeta() bool {
	switch k {
	case KindApplication, KindConditional, KindMapped, KindIndexedAccess,
		KindKeyOf, KindTemplate, KindStringIntrinsic:
		return true
	}
	return false
}

// IsDeferred reports whether the kind must be resolved through a resolver
// before its structure can be inspected.
func (k Kind) IsDeferred() bool {
	return k == KindLazy || k == KindTypeQuery
}

// Flags carry per-descriptor modifiers that take part in identity.
type Flags uint8

const (
	// FlagReadonly marks readonly arrays.
	FlagReadonly Flags = 1 << iota
)

// Type is a compact descriptor for any supported type. Variable-length shapes
// live in side tables addressed by Payload.
type Type struct {
	Kind    Kind
	Elem    TypeID // array element, keyof operand, indexed object, enum structure or member value, intrinsic argument
	Aux     TypeID // indexed-access index, enum member name
	Payload uint32 // side-table slot or DefID
	Flags   Flags
}

// Readonly reports whether the readonly flag is set.
func (t Type) Readonly() bool {
	return t.Flags&FlagReadonly != 0
}

// Def returns the declaration carried by lazy, typeof and enum descriptors.
func (t Type) Def() DefID {
	switch t.Kind {
	case KindLazy, KindTypeQuery, KindEnum, KindEnumMember:
		return DefID(t.Payload)
	}
	return NoDefID
}
