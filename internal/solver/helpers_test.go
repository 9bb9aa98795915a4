package solver

import (
	"testing"

	"tsolve/internal/config"
	"tsolve/internal/diag"
	"tsolve/internal/types"
)

// tableResolver resolves declarations from in-memory maps.
type tableResolver struct {
	bodies map[types.DefID]types.TypeID
	params map[types.DefID][]types.TypeID
}

func newTableResolver() *tableResolver {
	return &tableResolver{
		bodies: make(map[types.DefID]types.TypeID),
		params: make(map[types.DefID][]types.TypeID),
	}
}

func (r *tableResolver) ResolveDef(def types.DefID) (types.TypeID, bool) {
	id, ok := r.bodies[def]
	return id, ok
}

func (r *tableResolver) DefTypeParams(def types.DefID) []types.TypeID {
	return r.params[def]
}

type fixture struct {
	t   *testing.T
	in  *types.Interner
	b   types.Builtins
	s   *Session
	res *tableResolver
	bag *diag.Bag
}

func newFixture(t *testing.T, tweak ...func(*config.Options)) *fixture {
	t.Helper()
	cfg := config.Default()
	for _, fn := range tweak {
		fn(&cfg)
	}
	in := types.NewInterner()
	res := newTableResolver()
	bag := diag.NewBag(64)
	s := NewSession(in, Options{Config: cfg, Resolver: res, Reporter: diag.BagReporter{Bag: bag}})
	return &fixture{t: t, in: in, b: in.Builtins(), s: s, res: res, bag: bag}
}

func (f *fixture) str(s string) types.TypeID  { return f.in.StringLiteral(s) }
func (f *fixture) num(n float64) types.TypeID { return f.in.NumberLiteral(n) }
func (f *fixture) union(ids ...types.TypeID) types.TypeID {
	return f.in.Union(ids...)
}

func (f *fixture) obj(props ...types.PropertyInfo) types.TypeID {
	return f.in.Object(types.ObjectShape{Props: props})
}

func prop(name string, t types.TypeID) types.PropertyInfo {
	return types.PropertyInfo{Name: name, Type: t}
}

func optProp(name string, t types.TypeID) types.PropertyInfo {
	return types.PropertyInfo{Name: name, Type: t, Optional: true}
}

func (f *fixture) fn(ret types.TypeID, params ...types.TypeID) types.TypeID {
	ps := make([]types.ParamInfo, len(params))
	for i, p := range params {
		ps[i] = types.ParamInfo{Name: string(rune('a' + i)), Type: p}
	}
	return f.in.Function(types.FunctionShape{Params: ps, Return: ret})
}

func (f *fixture) param(name string, decl types.DefID) types.TypeID {
	return f.in.TypeParam(types.TypeParamInfo{Name: name, Decl: decl})
}

func (f *fixture) infer(name string, decl types.DefID) types.TypeID {
	return f.in.Infer(types.TypeParamInfo{Name: name, Decl: decl})
}

// alias declares a generic alias def with the given parameters and body.
func (f *fixture) alias(def types.DefID, body types.TypeID, params ...types.TypeID) {
	f.res.bodies[def] = body
	f.res.params[def] = params
}

func (f *fixture) label(id types.TypeID) string { return f.s.Label(id) }

func (f *fixture) expectEval(id, want types.TypeID) {
	f.t.Helper()
	if got := f.s.Evaluate(id); got != want {
		f.t.Fatalf("evaluate(%s) = %s, want %s", f.label(id), f.label(got), f.label(want))
	}
}

func (f *fixture) expectRel(src, tgt types.TypeID, mode Mode, want bool) {
	f.t.Helper()
	if got := f.s.IsSubtype(src, tgt, mode) == Yes; got != want {
		f.t.Errorf("%s <: %s (%s) = %v, want %v", f.label(src), f.label(tgt), mode, got, want)
	}
}
