package types

import (
	"bytes"
	"testing"
)

type namer map[DefID]string

func (n namer) DefName(def DefID) string { return n[def] }

func TestLabel(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	T := in.TypeParam(TypeParamInfo{Name: "T", Decl: 1})
	names := namer{1: "identity", 2: "Box", 3: "Color"}

	fn := in.Function(FunctionShape{
		TypeParams: []TypeID{T},
		Params:     []ParamInfo{{Name: "x", Type: T}},
		Return:     T,
	})
	obj := in.Object(ObjectShape{
		Props: []PropertyInfo{
			{Name: "b", Type: b.String, Optional: true},
			{Name: "a", Type: b.Number, Readonly: true},
		},
		StringIdx: &IndexSignature{Value: b.Unknown},
	})
	tests := []struct {
		id   TypeID
		want string
	}{
		{in.StringLiteral("hi"), `"hi"`},
		{in.NumberLiteral(1.5), "1.5"},
		{in.BigIntLiteral("10"), "10n"},
		{in.Union(b.String, b.Number), "number | string"},
		{in.Array(in.Union(b.String, b.Null)), "(null | string)[]"},
		{in.ReadonlyArray(b.Number), "readonly number[]"},
		{in.Tuple([]TupleElement{{Type: b.Number}, {Type: b.String, Optional: true}, {Type: in.Array(b.Boolean), Rest: true}}, false), "[number, string?, ...boolean[]]"},
		{fn, "<T>(x: T) => T"},
		{obj, "{ [key: string]: unknown; readonly a: number; b?: string }"},
		{in.Application(2, []TypeID{b.Number}), "Box<number>"},
		{in.KeyOf(T), "keyof T"},
		{in.IndexedAccess(T, in.StringLiteral("k")), `T["k"]`},
		{in.Template([]string{"id-", ""}, []TypeID{b.Number}), "`id-${number}`"},
		{in.StringIntrinsic(IntrinsicUppercase, T), "Uppercase<T>"},
		{in.EnumMember(3, "Red", in.NumberLiteral(0)), "Color.Red"},
		{in.Lazy(9), "#9"},
	}
	for _, tt := range tests {
		if got := LabelWith(in, names, tt.id); got != tt.want {
			t.Errorf("label = %q, want %q", got, tt.want)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	in := NewInterner()
	in.Union(in.StringLiteral("a"), in.Builtins().Number)
	snap := in.Snapshot(nil)
	if len(snap.Records) != in.Len()-1 {
		t.Fatalf("records = %d, want %d", len(snap.Records), in.Len()-1)
	}
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	last := got.Records[len(got.Records)-1]
	if last.Kind != "union" || last.Text != `number | "a"` {
		t.Fatalf("last record = %+v", last)
	}
}
