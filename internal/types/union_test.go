package types

import "testing"

func TestUnionNormalization(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	a, bb := in.StringLiteral("a"), in.StringLiteral("b")

	tests := []struct {
		name string
		got  TypeID
		want TypeID
	}{
		{"empty", in.Union(), b.Never},
		{"singleton", in.Union(a), a},
		{"dedupe", in.Union(a, a), a},
		{"never dropped", in.Union(a, b.Never), a},
		{"any dominates", in.Union(b.Unknown, b.Any, a), b.Any},
		{"unknown dominates", in.Union(b.Unknown, a), b.Unknown},
		{"literal absorbed", in.Union(a, b.String), b.String},
		{"true|false", in.Union(b.True, b.False), b.Boolean},
		{"undefined absorbed by void", in.Union(b.Undefined, b.Void), b.Void},
		{"order irrelevant", in.Union(bb, a), in.Union(a, bb)},
		{"flatten", in.Union(in.Union(a, bb), b.Number), in.Union(a, b.Number, bb)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, Label(in, tt.got), Label(in, tt.want))
		}
	}
}

func TestIntersectionNormalization(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	a := in.StringLiteral("a")
	objX := in.Object(ObjectShape{Props: []PropertyInfo{{Name: "x", Type: b.Number}}})
	objY := in.Object(ObjectShape{Props: []PropertyInfo{{Name: "y", Type: b.String}}})

	tests := []struct {
		name string
		got  TypeID
		want TypeID
	}{
		{"empty", in.Intersection(), b.Unknown},
		{"never wins", in.Intersection(objX, b.Never), b.Never},
		{"any wins", in.Intersection(objX, b.Any), b.Any},
		{"unknown dropped", in.Intersection(objX, b.Unknown), objX},
		{"disjoint primitives", in.Intersection(b.String, b.Number), b.Never},
		{"literal absorbs primitive", in.Intersection(a, b.String), a},
		{"distinct units", in.Intersection(a, in.StringLiteral("b")), b.Never},
		{"object and null", in.Intersection(objX, b.Null), b.Never},
		{"order irrelevant", in.Intersection(objY, objX), in.Intersection(objX, objY)},
		{
			"distributes",
			in.Intersection(in.Union(a, b.Number), b.String),
			a,
		},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, Label(in, tt.got), Label(in, tt.want))
		}
	}
}

func TestUnionDistributionLimit(t *testing.T) {
	in := NewInterner()
	in.SetDistributionLimit(3)
	b := in.Builtins()
	u1 := in.Union(in.StringLiteral("a"), in.StringLiteral("b"))
	u2 := in.Union(in.NumberLiteral(1), in.NumberLiteral(2))
	got := in.Intersection(u1, u2)
	if in.KindOf(got) != KindIntersection {
		t.Fatalf("over the limit the intersection should stay undistributed, got %s", Label(in, got))
	}
	in.SetDistributionLimit(DefaultDistributionLimit)
	if got := in.Intersection(u1, u2); got != b.Never {
		t.Fatalf("distributed intersection = %s, want never", Label(in, got))
	}
}

type literalOracle struct{ in *Interner }

func (o literalOracle) IsSubtypeOf(source, target TypeID) bool {
	return o.in.LiteralBase(source) == target
}

func TestUnionOracleReduction(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	in.SetOracle(literalOracle{in: in})
	e := in.EnumMember(3, "A", in.NumberLiteral(0))
	got := in.Union(in.NumberLiteral(1), b.Number, e)
	if got != in.Union(b.Number, e) {
		t.Fatalf("got %s", Label(in, got))
	}
}

func TestEnumMemberAbsorbedByEnum(t *testing.T) {
	in := NewInterner()
	m0 := in.EnumMember(5, "A", in.NumberLiteral(0))
	m1 := in.EnumMember(5, "B", in.NumberLiteral(1))
	enum := in.Enum(5, in.Union(m0, m1))
	if got := in.Union(m0, enum); got != enum {
		t.Fatalf("got %s", Label(in, got))
	}
}

func TestRemoveFromUnion(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	u := in.Union(b.String, b.Null, b.Undefined)
	got := in.RemoveFromUnion(u, func(id TypeID) bool { return id == b.Null || id == b.Undefined })
	if got != b.String {
		t.Fatalf("got %s", Label(in, got))
	}
}
