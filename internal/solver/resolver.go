package solver

import "tsolve/internal/types"

// Resolver is implemented by whatever owns declarations (the binder, or a
// fixture table). Answers must be deterministic for a fixed program state.
type Resolver interface {
	// ResolveDef returns the declared type of def: the body of an alias or
	// interface, the structure of an enum, or the type of a value for
	// `typeof`. ok is false when the declaration does not exist.
	ResolveDef(def types.DefID) (types.TypeID, bool)
	// DefTypeParams lists the type parameters (KindTypeParam ids) of a
	// generic declaration in order.
	DefTypeParams(def types.DefID) []types.TypeID
}

// NopResolver resolves nothing; every deferred reference degrades to any.
type NopResolver struct{}

func (NopResolver) ResolveDef(types.DefID) (types.TypeID, bool) { return types.NoTypeID, false }
func (NopResolver) DefTypeParams(types.DefID) []types.TypeID     { return nil }
