package solver

import (
	"testing"

	"tsolve/internal/types"
)

func TestGuardCycleTaintsInnerFrames(t *testing.T) {
	g := newRelationGuard(8)
	a := relKey{source: 1, target: 2}
	b := relKey{source: 3, target: 4}

	if g.enter(a) != guardEntered {
		t.Fatalf("first enter of a should succeed")
	}
	outer := g.frame()
	if g.enter(b) != guardEntered {
		t.Fatalf("first enter of b should succeed")
	}
	inner := g.frame()
	if g.enter(a) != guardCycle {
		t.Fatalf("re-entering a should report a cycle")
	}
	if g.leave(b, inner) {
		t.Fatalf("b depends on the assumption about a and must not be cached")
	}
	if !g.leave(a, outer) {
		t.Fatalf("a completes its own assumption and may be cached")
	}
	if g.depth() != 0 {
		t.Fatalf("stack not empty: %d", g.depth())
	}
}

func TestGuardDepthLimit(t *testing.T) {
	g := newRelationGuard(2)
	for i := range 2 {
		if g.enter(relKey{source: types.TypeID(i + 1), target: 99}) != guardEntered {
			t.Fatalf("enter %d should succeed", i)
		}
		g.frame()
	}
	if g.enter(relKey{source: 50, target: 99}) != guardTooDeep {
		t.Fatalf("third level should exceed the limit")
	}
	if g.lowest != -1 {
		t.Fatalf("overflow must poison caching, lowest=%d", g.lowest)
	}
}

func TestGuardModesAreDistinct(t *testing.T) {
	g := newRelationGuard(4)
	sub := relKey{source: 1, target: 2, mode: ModeSubtype}
	asg := relKey{source: 1, target: 2, mode: ModeAssignable}
	g.enter(sub)
	g.frame()
	if g.enter(asg) != guardEntered {
		t.Fatalf("the same pair under another mode is a different relation")
	}
}
