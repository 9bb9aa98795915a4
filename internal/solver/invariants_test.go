package solver_test

import (
	"testing"

	"tsolve/internal/config"
	"tsolve/internal/solver"
	"tsolve/internal/testkit"
	"tsolve/internal/types"
)

func newSession(in *types.Interner) *solver.Session {
	return solver.NewSession(in, solver.Options{Config: config.Default()})
}

func TestRelationInvariantsOnCorpus(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42} {
		in := types.NewInterner()
		s := newSession(in)
		ids := testkit.Corpus(in, seed, 40)
		if err := testkit.CheckRelationInvariants(s, ids, 4000); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
	}
}

func TestEvaluationInvariantsOnCorpus(t *testing.T) {
	in := types.NewInterner()
	s := newSession(in)
	if err := testkit.CheckEvaluationInvariants(s, testkit.Corpus(in, 3, 60)); err != nil {
		t.Fatal(err)
	}
}

func TestInferenceTotality(t *testing.T) {
	in := types.NewInterner()
	s := newSession(in)
	b := in.Builtins()
	T := in.TypeParam(types.TypeParamInfo{Name: "T", Decl: 1})
	U := in.TypeParam(types.TypeParamInfo{Name: "U", Decl: 1})
	in.SetTypeParamBounds(U, b.String, types.NoTypeID)

	sigs := []types.TypeID{
		in.Function(types.FunctionShape{TypeParams: []types.TypeID{T}, Params: []types.ParamInfo{{Name: "x", Type: T}}, Return: T}),
		in.Function(types.FunctionShape{TypeParams: []types.TypeID{T, U}, Params: []types.ParamInfo{{Name: "x", Type: in.Array(T)}}, Return: U}),
		in.Function(types.FunctionShape{TypeParams: []types.TypeID{T}, Params: []types.ParamInfo{{Name: "rest", Type: T, Rest: true}}, Return: b.Void}),
		in.Function(types.FunctionShape{TypeParams: []types.TypeID{U}, Return: U}),
	}
	corpus := testkit.Corpus(in, 11, 30)
	argLists := [][]types.TypeID{nil}
	for i := 0; i+2 < len(corpus); i += 3 {
		argLists = append(argLists, corpus[i:i+1], corpus[i:i+3])
	}
	if err := testkit.CheckInferenceTotality(s, sigs, argLists); err != nil {
		t.Fatal(err)
	}
}

func TestRecursiveShapesTerminate(t *testing.T) {
	in := types.NewInterner()
	res := &chainResolver{bodies: make(map[types.DefID]types.TypeID)}
	b := in.Builtins()

	// List_i = { head: number, tail: List_(i+1 mod n) | null } for several
	// ring sizes; every ring relates to every other.
	var rings []types.TypeID
	next := types.DefID(1)
	for _, n := range []int{1, 2, 3, 5} {
		first := next
		for i := range n {
			tail := first + types.DefID((i+1)%n)
			res.bodies[next] = in.Object(types.ObjectShape{Props: []types.PropertyInfo{
				{Name: "head", Type: b.Number},
				{Name: "tail", Type: in.Union(in.Lazy(tail), b.Null)},
			}})
			next++
		}
		rings = append(rings, in.Lazy(first))
	}
	// The session is created last so union construction above never asks
	// it about declarations that are not registered yet.
	s := solver.NewSession(in, solver.Options{Config: config.Default(), Resolver: res})
	for _, a := range rings {
		for _, c := range rings {
			if s.IsSubtype(a, c, solver.ModeSubtype) != solver.Yes {
				t.Fatalf("%s should relate to %s", s.Label(a), s.Label(c))
			}
		}
		if got := s.Evaluate(a); s.Evaluate(got) != got {
			t.Fatalf("evaluate of %s is not idempotent", s.Label(a))
		}
	}
}

func TestInterningIsStable(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	err := testkit.CheckInterning(func() types.TypeID {
		return in.Union(
			in.Object(types.ObjectShape{Props: []types.PropertyInfo{{Name: "b", Type: b.String}, {Name: "a", Type: b.Number}}}),
			in.TupleOf(b.Number, in.StringLiteral("x")),
		)
	}, 5)
	if err != nil {
		t.Fatal(err)
	}
}

type chainResolver struct {
	bodies map[types.DefID]types.TypeID
}

func (r *chainResolver) ResolveDef(def types.DefID) (types.TypeID, bool) {
	id, ok := r.bodies[def]
	return id, ok
}

func (r *chainResolver) DefTypeParams(types.DefID) []types.TypeID { return nil }
