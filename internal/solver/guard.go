package solver

import (
	"math"
	"slices"

	"github.com/hashicorp/go-set/v3"

	"tsolve/internal/types"
)

// Mode selects the relation being decided.
type Mode uint8

const (
	// ModeSubtype is the strict structural subtype relation.
	ModeSubtype Mode = iota
	// ModeAssignable adds assignment leniencies (numeric enums accept number).
	ModeAssignable
)

func (m Mode) String() string {
	if m == ModeAssignable {
		return "assignable"
	}
	return "subtype"
}

type relKey struct {
	source types.TypeID
	target types.TypeID
	mode   Mode
}

type guardState uint8

const (
	guardEntered guardState = iota
	guardCycle
	guardTooDeep
)

// relationGuard tracks the relations currently being decided. Re-entering an
// active relation is a cycle and is assumed to hold; the assumption taints
// every frame above the one it refers to, and tainted Yes results must not be
// cached until that frame completes.
type relationGuard struct {
	active *set.Set[relKey]
	stack  []relKey
	max    int
	// lowest is the smallest stack index any assumption made so far in the
	// current frame refers to; -1 marks a depth overflow, which is never
	// cacheable.
	lowest int
}

func newRelationGuard(max int) *relationGuard {
	return &relationGuard{
		active: set.New[relKey](16),
		max:    max,
		lowest: math.MaxInt,
	}
}

// enter pushes key unless it is already active or the depth limit is hit.
func (g *relationGuard) enter(key relKey) guardState {
	if g.active.Contains(key) {
		if idx := slices.Index(g.stack, key); idx < g.lowest {
			g.lowest = idx
		}
		return guardCycle
	}
	if len(g.stack) >= g.max {
		g.lowest = -1
		return guardTooDeep
	}
	g.active.Insert(key)
	g.stack = append(g.stack, key)
	return guardEntered
}

// frame begins the bookkeeping of one entered relation and returns the value
// to hand back to leave.
func (g *relationGuard) frame() int {
	saved := g.lowest
	g.lowest = math.MaxInt
	return saved
}

// leave pops key and reports whether a result computed for it may be cached.
func (g *relationGuard) leave(key relKey, saved int) bool {
	g.active.Remove(key)
	g.stack = g.stack[:len(g.stack)-1]
	idx := len(g.stack)
	settled := g.lowest >= idx
	if settled {
		g.lowest = saved
	} else {
		g.lowest = min(saved, g.lowest)
	}
	return settled
}

func (g *relationGuard) depth() int {
	return len(g.stack)
}
