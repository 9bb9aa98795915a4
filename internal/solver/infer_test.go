package solver

import (
	"testing"

	"tsolve/internal/types"
)

// generic declares a signature with its own type parameters.
func (f *fixture) generic(params []types.TypeID, ret types.TypeID, ps ...types.ParamInfo) types.TypeID {
	return f.in.Function(types.FunctionShape{TypeParams: params, Params: ps, Return: ret})
}

func (f *fixture) expectBinding(sub Substitution, p, want types.TypeID) {
	f.t.Helper()
	got, ok := sub[p]
	if !ok {
		f.t.Fatalf("%s is unbound in {%s}", f.label(p), f.s.formatSubstitution(sub))
	}
	if got != want {
		f.t.Fatalf("%s = %s, want %s", f.label(p), f.label(got), f.label(want))
	}
}

func TestInferIdentity(t *testing.T) {
	f := newFixture(t)
	T := f.param("T", 30)
	id := f.generic([]types.TypeID{T}, T, types.ParamInfo{Name: "x", Type: T})

	f.expectBinding(f.s.Infer(id, []types.TypeID{f.str("hi")}, types.NoTypeID), T, f.str("hi"))

	ret, sub := f.s.GetTypeOfCall(id, []types.TypeID{f.str("hi")}, types.NoTypeID)
	if ret != f.str("hi") {
		t.Fatalf("call returned %s", f.label(ret))
	}
	f.expectBinding(sub, T, f.str("hi"))
}

func TestInferFromCallbackParameter(t *testing.T) {
	f := newFixture(t)
	T := f.param("T", 31)
	sig := f.generic([]types.TypeID{T}, T, types.ParamInfo{Name: "cb", Type: f.fn(f.b.Void, T)})

	sub := f.s.Infer(sig, []types.TypeID{f.fn(f.b.Void, f.b.Number)}, types.NoTypeID)
	f.expectBinding(sub, T, f.b.Number)
}

func TestInferCombinesVariances(t *testing.T) {
	f := newFixture(t)
	T := f.param("T", 32)
	sig := f.generic([]types.TypeID{T}, T,
		types.ParamInfo{Name: "x", Type: T},
		types.ParamInfo{Name: "cb", Type: f.fn(f.b.Void, T)},
	)

	agree := f.s.Infer(sig, []types.TypeID{f.str("a"), f.fn(f.b.Void, f.b.String)}, types.NoTypeID)
	f.expectBinding(agree, T, f.str("a"))

	conflict := f.s.Infer(sig, []types.TypeID{f.num(1), f.fn(f.b.Void, f.b.String)}, types.NoTypeID)
	f.expectBinding(conflict, T, f.b.String)
}

func TestInferFallsBackToDefaultThenUnknown(t *testing.T) {
	f := newFixture(t)
	D := f.param("D", 33)
	f.in.SetTypeParamBounds(D, types.NoTypeID, f.b.String)
	U := f.param("U", 33)
	sig := f.generic([]types.TypeID{D, U}, f.b.Void)

	sub := f.s.Infer(sig, nil, types.NoTypeID)
	f.expectBinding(sub, D, f.b.String)
	f.expectBinding(sub, U, f.b.Unknown)
}

func TestInferDefaultSeesEarlierParameters(t *testing.T) {
	f := newFixture(t)
	A := f.param("A", 34)
	B := f.param("B", 34)
	f.in.SetTypeParamBounds(B, types.NoTypeID, f.in.Array(A))
	sig := f.generic([]types.TypeID{A, B}, B, types.ParamInfo{Name: "a", Type: A})

	sub := f.s.Infer(sig, []types.TypeID{f.b.Number}, types.NoTypeID)
	f.expectBinding(sub, B, f.in.Array(f.b.Number))
}

func TestInferClampsToConstraint(t *testing.T) {
	f := newFixture(t)
	T := f.param("T", 35)
	f.in.SetTypeParamBounds(T, f.b.String, types.NoTypeID)
	sig := f.generic([]types.TypeID{T}, T, types.ParamInfo{Name: "x", Type: T})

	f.expectBinding(f.s.Infer(sig, []types.TypeID{f.num(42)}, types.NoTypeID), T, f.b.String)
	f.expectBinding(f.s.Infer(sig, []types.TypeID{f.str("ok")}, types.NoTypeID), T, f.str("ok"))
}

func TestInferConstraintNamesLaterParameter(t *testing.T) {
	f := newFixture(t)
	T := f.param("T", 40)
	U := f.param("U", 40)
	f.in.SetTypeParamBounds(T, U, types.NoTypeID)
	sig := f.generic([]types.TypeID{T, U}, T,
		types.ParamInfo{Name: "x", Type: T},
		types.ParamInfo{Name: "y", Type: U},
	)

	sub := f.s.Infer(sig, []types.TypeID{f.str("a"), f.b.String}, types.NoTypeID)
	f.expectBinding(sub, T, f.str("a"))
	f.expectBinding(sub, U, f.b.String)

	clamped := f.s.Infer(sig, []types.TypeID{f.num(1), f.b.String}, types.NoTypeID)
	f.expectBinding(clamped, T, f.b.String)
}

func TestInstantiatePlainSignature(t *testing.T) {
	f := newFixture(t)
	T := f.param("T", 41)
	id := f.fn(T, T)

	got := f.s.Instantiate(id, Substitution{T: f.b.Number})
	if want := f.fn(f.b.Number, f.b.Number); got != want {
		t.Fatalf("instantiate = %s, want %s", f.label(got), f.label(want))
	}
	if got := f.s.Instantiate(f.b.String, Substitution{T: f.b.Number}); got != f.b.String {
		t.Fatalf("instantiate changed string into %s", f.label(got))
	}
}

func TestInferFromContextualReturn(t *testing.T) {
	f := newFixture(t)
	T := f.param("T", 36)
	produce := f.generic([]types.TypeID{T}, T)
	f.expectBinding(f.s.Infer(produce, nil, f.b.Number), T, f.b.Number)

	id := f.generic([]types.TypeID{T}, T, types.ParamInfo{Name: "x", Type: T})
	f.expectBinding(f.s.Infer(id, []types.TypeID{f.str("a")}, f.b.String), T, f.str("a"))
}

func TestInferRestParameterAsTuple(t *testing.T) {
	f := newFixture(t)
	A := f.param("A", 37)
	f.in.SetTypeParamBounds(A, f.in.Array(f.b.Unknown), types.NoTypeID)
	sig := f.generic([]types.TypeID{A}, A, types.ParamInfo{Name: "args", Type: A, Rest: true})

	sub := f.s.Infer(sig, []types.TypeID{f.num(1), f.str("x")}, types.NoTypeID)
	f.expectBinding(sub, A, f.in.TupleOf(f.num(1), f.str("x")))
}

func TestInferThroughStructure(t *testing.T) {
	f := newFixture(t)
	T := f.param("T", 38)

	fromArray := f.generic([]types.TypeID{T}, T, types.ParamInfo{Name: "xs", Type: f.in.Array(T)})
	f.expectBinding(f.s.Infer(fromArray, []types.TypeID{f.in.Array(f.b.Boolean)}, types.NoTypeID), T, f.b.Boolean)

	fromProp := f.generic([]types.TypeID{T}, T, types.ParamInfo{Name: "o", Type: f.obj(prop("value", T))})
	arg := f.obj(prop("value", f.b.Number), prop("extra", f.b.String))
	f.expectBinding(f.s.Infer(fromProp, []types.TypeID{arg}, types.NoTypeID), T, f.b.Number)

	fromUnion := f.generic([]types.TypeID{T}, T, types.ParamInfo{Name: "x", Type: f.union(T, f.b.Null)})
	f.expectBinding(f.s.Infer(fromUnion, []types.TypeID{f.union(f.b.String, f.b.Null)}, types.NoTypeID), T, f.b.String)
}

func TestCallOverloads(t *testing.T) {
	f := newFixture(t)
	callee := f.in.Object(types.ObjectShape{Calls: []types.TypeID{
		f.fn(f.str("s"), f.b.String),
		f.fn(f.str("n"), f.b.Number),
	}})

	tests := []struct {
		name string
		arg  types.TypeID
		want types.TypeID
	}{
		{"first", f.str("x"), f.str("s")},
		{"second", f.num(3), f.str("n")},
		{"none applies", f.b.Boolean, f.str("s")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ret, _ := f.s.GetTypeOfCall(callee, []types.TypeID{tt.arg}, types.NoTypeID)
			if ret != tt.want {
				t.Fatalf("call(%s) = %s, want %s", f.label(tt.arg), f.label(ret), f.label(tt.want))
			}
		})
	}
}

func TestCallNonCallableIsAny(t *testing.T) {
	f := newFixture(t)
	ret, sub := f.s.GetTypeOfCall(f.b.Number, []types.TypeID{f.b.String}, types.NoTypeID)
	if ret != f.b.Any || len(sub) != 0 {
		t.Fatalf("got %s with %d bindings", f.label(ret), len(sub))
	}
}

func TestGenericSignatureRelation(t *testing.T) {
	f := newFixture(t)
	T := f.param("T", 39)
	id := f.generic([]types.TypeID{T}, T, types.ParamInfo{Name: "x", Type: T})

	f.expectRel(id, f.fn(f.b.Number, f.b.Number), ModeAssignable, true)
	f.expectRel(id, f.fn(f.b.Number, f.b.String), ModeAssignable, false)

	U := f.param("U", 40)
	other := f.generic([]types.TypeID{U}, U, types.ParamInfo{Name: "y", Type: U})
	f.expectRel(id, other, ModeSubtype, true)
	f.expectRel(f.fn(f.b.Number, f.b.Number), other, ModeAssignable, false)
}
