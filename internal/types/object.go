package types

import (
	"slices"
	"strings"
)

// Visibility restricts structural compatibility of class members.
type Visibility uint8

const (
	VisPublic Visibility = iota
	VisPrivate
	VisProtected
)

// PropertyInfo describes a named member of an object shape.
type PropertyInfo struct {
	Name       string
	Type       TypeID
	Optional   bool
	Readonly   bool
	Method     bool
	Visibility Visibility
	Parent     DefID // declaring declaration; only meaningful for non-public members
}

// IndexSignature describes `[key: string]: T` or `[key: number]: T`.
type IndexSignature struct {
	Value    TypeID
	Readonly bool
}

// ObjectShape is the payload of object types. Properties are kept sorted by
// name so that insertion order never affects identity.
type ObjectShape struct {
	Props      []PropertyInfo
	StringIdx  *IndexSignature
	NumberIdx  *IndexSignature
	Calls      []TypeID // function types, in overload order
	Constructs []TypeID
	Nominal    DefID // class identity; NoDefID for structural shapes
}

// Object interns an object shape.
func (in *Interner) Object(shape ObjectShape) TypeID {
	props := slices.Clone(shape.Props)
	slices.SortStableFunc(props, func(a, b PropertyInfo) int { return strings.Compare(a.Name, b.Name) })
	props = slices.CompactFunc(props, func(a, b PropertyInfo) bool { return a.Name == b.Name })

	var w sigWriter
	w.uint(uint64(len(props)))
	for _, p := range props {
		w.str(p.Name)
		w.id(p.Type)
		w.bool(p.Optional)
		w.bool(p.Readonly)
		w.bool(p.Method)
		w.uint(uint64(p.Visibility))
		w.uint(uint64(p.Parent))
	}
	writeIndex(&w, shape.StringIdx)
	writeIndex(&w, shape.NumberIdx)
	w.ids(shape.Calls)
	w.ids(shape.Constructs)
	w.uint(uint64(shape.Nominal))

	slot := in.shapeSlot(tableObject, w.String(), func() int {
		return appendSlot(&in.objects, ObjectShape{
			Props:      props,
			StringIdx:  cloneIndex(shape.StringIdx),
			NumberIdx:  cloneIndex(shape.NumberIdx),
			Calls:      cloneIDs(shape.Calls),
			Constructs: cloneIDs(shape.Constructs),
			Nominal:    shape.Nominal,
		})
	})
	return in.Intern(Type{Kind: KindObject, Payload: slot})
}

func writeIndex(w *sigWriter, idx *IndexSignature) {
	if idx == nil {
		w.bool(false)
		return
	}
	w.bool(true)
	w.id(idx.Value)
	w.bool(idx.Readonly)
}

func cloneIndex(idx *IndexSignature) *IndexSignature {
	if idx == nil {
		return nil
	}
	c := *idx
	return &c
}

// ObjectInfo returns the shape of an object TypeID.
func (in *Interner) ObjectInfo(id TypeID) (*ObjectShape, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindObject || int(tt.Payload) >= len(in.objects) {
		return nil, false
	}
	return &in.objects[tt.Payload], true
}

// FindProperty looks up a property by name using binary search.
func (s *ObjectShape) FindProperty(name string) (PropertyInfo, bool) {
	i, ok := slices.BinarySearchFunc(s.Props, name, func(p PropertyInfo, n string) int {
		return strings.Compare(p.Name, n)
	})
	if !ok {
		return PropertyInfo{}, false
	}
	return s.Props[i], true
}

// IsEmpty reports whether the shape has no members at all, i.e. `{}`.
func (s *ObjectShape) IsEmpty() bool {
	return len(s.Props) == 0 && s.StringIdx == nil && s.NumberIdx == nil &&
		len(s.Calls) == 0 && len(s.Constructs) == 0
}
