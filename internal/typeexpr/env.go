package typeexpr

import "tsolve/internal/types"

// TypeRef is what a type name resolves to. Params counts the declared type
// parameters and Required those without a default.
type TypeRef struct {
	Def      types.DefID
	Params   int
	Required int
}

// Env answers name lookups for the reader. It is implemented by the owner
// of the declarations, typically a fixture table.
type Env interface {
	LookupType(name string) (TypeRef, bool)
	LookupValue(name string) (types.DefID, bool)
	// LookupMember resolves `Name.Member`, e.g. an enum member.
	LookupMember(def types.DefID, member string) (types.TypeID, bool)
}

// MapEnv is an Env backed by plain maps.
type MapEnv struct {
	Types   map[string]TypeRef
	Values  map[string]types.DefID
	Members map[types.DefID]map[string]types.TypeID
}

func (e *MapEnv) LookupType(name string) (TypeRef, bool) {
	if e == nil {
		return TypeRef{}, false
	}
	ref, ok := e.Types[name]
	return ref, ok
}

func (e *MapEnv) LookupValue(name string) (types.DefID, bool) {
	if e == nil {
		return types.NoDefID, false
	}
	def, ok := e.Values[name]
	return def, ok
}

func (e *MapEnv) LookupMember(def types.DefID, member string) (types.TypeID, bool) {
	if e == nil {
		return types.NoTypeID, false
	}
	id, ok := e.Members[def][member]
	return id, ok
}
