package types

// AppInfo describes an un-expanded generic application `Def<Args...>`.
type AppInfo struct {
	Def  DefID
	Args []TypeID
}

// Application interns a reference to a generic declaration with arguments.
func (in *Interner) Application(def DefID, args []TypeID) TypeID {
	var w sigWriter
	w.uint(uint64(def))
	w.ids(args)
	slot := in.shapeSlot(tableApp, w.String(), func() int {
		return appendSlot(&in.apps, AppInfo{Def: def, Args: cloneIDs(args)})
	})
	return in.Intern(Type{Kind: KindApplication, Payload: slot})
}

// AppInfo returns the declaration and arguments of an application.
func (in *Interner) AppInfo(id TypeID) (*AppInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindApplication || int(tt.Payload) >= len(in.apps) {
		return nil, false
	}
	return &in.apps[tt.Payload], true
}

// ConditionalInfo describes `Check extends Extends ? True : False`.
type ConditionalInfo struct {
	Check   TypeID
	Extends TypeID
	True    TypeID
	False   TypeID
	// Distributive is fixed at construction: the check type was a naked type
	// parameter when the conditional was written.
	Distributive bool
}

// Conditional interns a conditional type. Distributivity is derived from the
// check type and is preserved through instantiation.
func (in *Interner) Conditional(check, extends, whenTrue, whenFalse TypeID) TypeID {
	return in.conditional(ConditionalInfo{
		Check:        check,
		Extends:      extends,
		True:         whenTrue,
		False:        whenFalse,
		Distributive: in.KindOf(check) == KindTypeParam,
	})
}

// ConditionalWith interns a conditional with an explicit distributive flag.
// Instantiation uses it to keep the flag of the declaration it copies.
func (in *Interner) ConditionalWith(info ConditionalInfo) TypeID {
	return in.conditional(info)
}

func (in *Interner) conditional(info ConditionalInfo) TypeID {
	var w sigWriter
	w.id(info.Check)
	w.id(info.Extends)
	w.id(info.True)
	w.id(info.False)
	w.bool(info.Distributive)
	slot := in.shapeSlot(tableCond, w.String(), func() int {
		return appendSlot(&in.conds, info)
	})
	return in.Intern(Type{Kind: KindConditional, Payload: slot})
}

// ConditionalInfo returns the parts of a conditional type.
func (in *Interner) ConditionalInfo(id TypeID) (*ConditionalInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindConditional || int(tt.Payload) >= len(in.conds) {
		return nil, false
	}
	return &in.conds[tt.Payload], true
}

// Modifier is the `+`/`-` adjustment a mapped type applies to `?` or
// `readonly`.
type Modifier uint8

const (
	ModPreserve Modifier = iota
	ModAdd
	ModRemove
)

// MappedInfo describes `{ [Param in Constraint as NameType]: Template }`.
type MappedInfo struct {
	Param      TypeID // KindTypeParam
	Constraint TypeID
	NameType   TypeID // NoTypeID without an `as` clause
	Template   TypeID
	Optional   Modifier
	Readonly   Modifier
}

// Mapped interns a mapped type.
func (in *Interner) Mapped(info MappedInfo) TypeID {
	var w sigWriter
	w.id(info.Param)
	w.id(info.Constraint)
	w.id(info.NameType)
	w.id(info.Template)
	w.uint(uint64(info.Optional))
	w.uint(uint64(info.Readonly))
	slot := in.shapeSlot(tableMapped, w.String(), func() int {
		return appendSlot(&in.mapped, info)
	})
	return in.Intern(Type{Kind: KindMapped, Payload: slot})
}

// MappedInfo returns the parts of a mapped type.
func (in *Interner) MappedInfo(id TypeID) (*MappedInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindMapped || int(tt.Payload) >= len(in.mapped) {
		return nil, false
	}
	return &in.mapped[tt.Payload], true
}

// IndexedAccess interns `object[index]` without evaluating it.
func (in *Interner) IndexedAccess(object, index TypeID) TypeID {
	return in.Intern(Type{Kind: KindIndexedAccess, Elem: object, Aux: index})
}

// KeyOf interns `keyof operand` without evaluating it.
func (in *Interner) KeyOf(operand TypeID) TypeID {
	return in.Intern(Type{Kind: KindKeyOf, Elem: operand})
}

// StringIntrinsicKind selects one of the built-in string mapping types.
type StringIntrinsicKind uint8

const (
	IntrinsicUppercase StringIntrinsicKind = iota + 1
	IntrinsicLowercase
	IntrinsicCapitalize
	IntrinsicUncapitalize
)

var intrinsicNames = [...]string{
	IntrinsicUppercase:    "Uppercase",
	IntrinsicLowercase:    "Lowercase",
	IntrinsicCapitalize:   "Capitalize",
	IntrinsicUncapitalize: "Uncapitalize",
}

func (k StringIntrinsicKind) String() string {
	if int(k) < len(intrinsicNames) && intrinsicNames[k] != "" {
		return intrinsicNames[k]
	}
	return "Intrinsic?"
}

// LookupStringIntrinsic maps a type name to an intrinsic kind.
func LookupStringIntrinsic(name string) (StringIntrinsicKind, bool) {
	for k, n := range intrinsicNames {
		if n != "" && n == name {
			return StringIntrinsicKind(k), true
		}
	}
	return 0, false
}

// StringIntrinsic interns `Kind<arg>` without evaluating it.
func (in *Interner) StringIntrinsic(kind StringIntrinsicKind, arg TypeID) TypeID {
	return in.Intern(Type{Kind: KindStringIntrinsic, Elem: arg, Payload: uint32(kind)})
}

// Lazy interns a deferred reference to a declaration.
func (in *Interner) Lazy(def DefID) TypeID {
	return in.Intern(Type{Kind: KindLazy, Payload: uint32(def)})
}

// TypeQuery interns `typeof name` for the declaration def.
func (in *Interner) TypeQuery(def DefID) TypeID {
	return in.Intern(Type{Kind: KindTypeQuery, Payload: uint32(def)})
}

// Enum interns the enum declared by def. structural is the union of its
// member types; it is what the enum relates as outside its own members.
func (in *Interner) Enum(def DefID, structural TypeID) TypeID {
	id := in.Intern(Type{Kind: KindEnum, Elem: structural, Payload: uint32(def)})
	if _, ok := in.enums[def]; !ok {
		in.enums[def] = id
	}
	return id
}

// EnumByDef returns the enum type registered for def.
func (in *Interner) EnumByDef(def DefID) (TypeID, bool) {
	id, ok := in.enums[def]
	return id, ok
}

// EnumMember interns member name of the enum declared by parent with the
// given literal value.
func (in *Interner) EnumMember(parent DefID, name string, value TypeID) TypeID {
	return in.Intern(Type{Kind: KindEnumMember, Elem: value, Aux: in.StringLiteral(name), Payload: uint32(parent)})
}

// EnumMemberName returns the declared name of an enum member.
func (in *Interner) EnumMemberName(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindEnumMember {
		return ""
	}
	v, _ := in.LiteralInfo(tt.Aux)
	return v.Str
}
