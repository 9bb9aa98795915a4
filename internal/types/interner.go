package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for intrinsic types. They are allocated in a fixed
// order so every interner agrees on them.
type Builtins struct {
	Invalid      TypeID
	Any          TypeID
	Unknown      TypeID
	Never        TypeID
	Void         TypeID
	Null         TypeID
	Undefined    TypeID
	Boolean      TypeID
	Number       TypeID
	String       TypeID
	BigInt       TypeID
	Symbol       TypeID
	NonPrimitive TypeID
	True         TypeID
	False        TypeID
	EmptyObject  TypeID
}

// SubtypeOracle answers subtype questions during union normalization. The
// interner only consults it for unit members (literals, null, undefined), so
// an oracle may freely intern new types while answering.
type SubtypeOracle interface {
	IsSubtypeOf(source, target TypeID) bool
}

// Stats reports arena sizes. It never affects identity.
type Stats struct {
	Types      int
	Literals   int
	Lists      int
	Tuples     int
	Objects    int
	Functions  int
	Params     int
	Apps       int
	Conditions int
	Mapped     int
	Templates  int
	Hits       uint64
	Misses     uint64
}

type table uint8

const (
	tableList table = iota + 1
	tableTuple
	tableObject
	tableFn
	tableParam
	tableApp
	tableCond
	tableMapped
	tableTemplate
)

type shapeKey struct {
	table table
	sig   string
}

type typeKey Type

// Interner provides stable TypeIDs by hashing structural descriptors. It is
// append-only: existing entries are never mutated or removed, which keeps
// every cache keyed by TypeID valid for the life of the session.
//
// An Interner is not safe for concurrent use.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	literals     []LiteralValue
	literalIndex map[literalKey]uint32
	lists        [][]TypeID
	tuples       []TupleInfo
	objects      []ObjectShape
	fns          []FunctionShape
	params       []TypeParamInfo
	apps         []AppInfo
	conds        []ConditionalInfo
	mapped       []MappedInfo
	templates    []TemplateInfo
	shapes       map[shapeKey]uint32
	enums        map[DefID]TypeID

	oracle            SubtypeOracle
	distributionLimit int
	hits, misses      uint64
}

// DefaultDistributionLimit caps the number of members produced when an
// intersection over unions is distributed into a union of intersections.
const DefaultDistributionLimit = 10000

// NewInterner constructs an interner seeded with built-in intrinsics.
func NewInterner() *Interner {
	in := &Interner{
		index:             make(map[typeKey]TypeID, 256),
		literalIndex:      make(map[literalKey]uint32, 64),
		shapes:            make(map[shapeKey]uint32, 256),
		enums:             make(map[DefID]TypeID),
		distributionLimit: DefaultDistributionLimit,
	}
	// slot 0 of every side table is the invalid sentinel
	in.literals = append(in.literals, LiteralValue{})
	in.lists = append(in.lists, nil)
	in.tuples = append(in.tuples, TupleInfo{})
	in.objects = append(in.objects, ObjectShape{})
	in.fns = append(in.fns, FunctionShape{})
	in.params = append(in.params, TypeParamInfo{})
	in.apps = append(in.apps, AppInfo{})
	in.conds = append(in.conds, ConditionalInfo{})
	in.mapped = append(in.mapped, MappedInfo{})
	in.templates = append(in.templates, TemplateInfo{})

	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Any = in.Intern(Type{Kind: KindAny})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Never = in.Intern(Type{Kind: KindNever})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Null = in.Intern(Type{Kind: KindNull})
	in.builtins.Undefined = in.Intern(Type{Kind: KindUndefined})
	in.builtins.Boolean = in.Intern(Type{Kind: KindBoolean})
	in.builtins.Number = in.Intern(Type{Kind: KindNumber})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.BigInt = in.Intern(Type{Kind: KindBigInt})
	in.builtins.Symbol = in.Intern(Type{Kind: KindSymbol})
	in.builtins.NonPrimitive = in.Intern(Type{Kind: KindNonPrimitive})
	in.builtins.True = in.BooleanLiteral(true)
	in.builtins.False = in.BooleanLiteral(false)
	in.builtins.EmptyObject = in.Object(ObjectShape{})
	return in
}

// Builtins returns TypeIDs for intrinsic types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// SetOracle installs the subtype oracle used by union normalization.
func (in *Interner) SetOracle(o SubtypeOracle) {
	in.oracle = o
}

// SetDistributionLimit overrides DefaultDistributionLimit. Non-positive values
// are ignored.
func (in *Interner) SetDistributionLimit(limit int) {
	if limit > 0 {
		in.distributionLimit = limit
	}
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		in.hits++
		return id
	}
	in.misses++
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid. A foreign or stale id is a caller bug.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return tt
}

// KindOf returns the kind of id, or KindInvalid for unknown ids.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return tt.Kind
}

// Len returns the number of interned descriptors including the sentinel.
func (in *Interner) Len() int {
	return len(in.types)
}

// Stats returns arena sizes and hit counters.
func (in *Interner) Stats() Stats {
	return Stats{
		Types:      len(in.types),
		Literals:   len(in.literals) - 1,
		Lists:      len(in.lists) - 1,
		Tuples:     len(in.tuples) - 1,
		Objects:    len(in.objects) - 1,
		Functions:  len(in.fns) - 1,
		Params:     len(in.params) - 1,
		Apps:       len(in.apps) - 1,
		Conditions: len(in.conds) - 1,
		Mapped:     len(in.mapped) - 1,
		Templates:  len(in.templates) - 1,
		Hits:       in.hits,
		Misses:     in.misses,
	}
}

// shapeSlot returns the slot for sig in the given table, appending the value
// produced by add when the shape is new.
func (in *Interner) shapeSlot(tbl table, sig string, add func() int) uint32 {
	key := shapeKey{table: tbl, sig: sig}
	if slot, ok := in.shapes[key]; ok {
		return slot
	}
	slot, err := safecast.Conv[uint32](add())
	if err != nil {
		panic(fmt.Errorf("shape table %d overflow: %w", tbl, err))
	}
	in.shapes[key] = slot
	return slot
}

func appendSlot[T any](tbl *[]T, v T) int {
	*tbl = append(*tbl, v)
	return len(*tbl) - 1
}

func cloneIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	copy(out, ids)
	return out
}
