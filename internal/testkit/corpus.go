package testkit

import (
	"math/rand/v2"

	"tsolve/internal/types"
)

// Corpus returns a deterministic mix of hand-picked and generated types
// built in in. The same seed always yields the same corpus.
func Corpus(in *types.Interner, seed uint64, generated int) []types.TypeID {
	b := in.Builtins()
	ids := []types.TypeID{
		b.Any, b.Unknown, b.Never, b.Void, b.Null, b.Undefined,
		b.Boolean, b.Number, b.String, b.BigInt, b.Symbol, b.NonPrimitive,
		b.True, b.False, b.EmptyObject,
		in.StringLiteral("a"), in.StringLiteral("b"), in.NumberLiteral(1), in.NumberLiteral(42),
		in.Array(b.Number), in.ReadonlyArray(b.String),
		in.TupleOf(b.Number, b.String),
		in.Object(types.ObjectShape{Props: []types.PropertyInfo{{Name: "x", Type: b.Number}}}),
		in.Object(types.ObjectShape{Props: []types.PropertyInfo{
			{Name: "x", Type: b.Number},
			{Name: "y", Type: b.String, Optional: true},
		}}),
		in.Function(types.FunctionShape{Params: []types.ParamInfo{{Name: "x", Type: b.Number}}, Return: b.Void}),
		in.Template([]string{"id-", ""}, []types.TypeID{b.Number}),
	}

	g := &generator{in: in, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), pool: ids}
	for range generated {
		ids = append(ids, g.next(3))
		g.pool = ids
	}
	return ids
}

type generator struct {
	in   *types.Interner
	rng  *rand.Rand
	pool []types.TypeID
}

func (g *generator) pick() types.TypeID {
	return g.pool[g.rng.IntN(len(g.pool))]
}

func (g *generator) next(depth int) types.TypeID {
	if depth == 0 {
		return g.pick()
	}
	switch g.rng.IntN(7) {
	case 0:
		return g.in.Union(g.next(depth-1), g.next(depth-1))
	case 1:
		return g.in.Intersection(g.next(depth-1), g.next(depth-1))
	case 2:
		return g.in.Array(g.next(depth - 1))
	case 3:
		return g.in.TupleOf(g.next(depth-1), g.next(depth-1))
	case 4:
		names := []string{"a", "b", "c"}
		props := make([]types.PropertyInfo, 0, 2)
		for i := range 1 + g.rng.IntN(2) {
			props = append(props, types.PropertyInfo{
				Name:     names[(i+g.rng.IntN(3))%3],
				Type:     g.next(depth - 1),
				Optional: g.rng.IntN(3) == 0,
			})
		}
		return g.in.Object(types.ObjectShape{Props: props})
	case 5:
		return g.in.Function(types.FunctionShape{
			Params: []types.ParamInfo{{Name: "p", Type: g.next(depth - 1)}},
			Return: g.next(depth - 1),
		})
	default:
		return g.pick()
	}
}
