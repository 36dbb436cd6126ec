// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"slices"
	"testing"
)

func TestSort_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New()
	order, cycles := g.Sort()
	if order != nil {
		t.Errorf("expected nil order, got %v", order)
	}
	if cycles != nil {
		t.Errorf("expected nil cycles, got %v", cycles)
	}
}

func TestSort_SingleNode(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("a.f90")
	order, cycles := g.Sort()
	if !slices.Equal(order, []string{"a.f90"}) {
		t.Errorf("expected [a.f90], got %v", order)
	}
	if len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestSort_LinearChain(t *testing.T) {
	t.Parallel()
	g := New()
	// A -> B -> C (A must compile first, then B, then C)
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")

	order, cycles := g.Sort()
	if len(cycles) != 0 {
		t.Fatalf("unexpected cycles: %v", cycles)
	}
	expected := []string{"A", "B", "C"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestSort_TieBreakByInsertionOrder(t *testing.T) {
	t.Parallel()
	g := New()
	// Three independent nodes plus one dependent: ties must resolve in
	// the order nodes were first added, never map order.
	g.AddNode("z")
	g.AddNode("m")
	g.AddNode("a")
	g.AddEdge("m", "w")

	order, _ := g.Sort()
	expected := []string{"z", "m", "a", "w"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestSort_Diamond(t *testing.T) {
	t.Parallel()
	g := New()
	// A -> B, A -> C, B -> D, C -> D
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("B", "D")
	g.AddEdge("C", "D")

	order, cycles := g.Sort()
	if len(cycles) != 0 {
		t.Fatalf("unexpected cycles: %v", cycles)
	}
	expected := []string{"A", "B", "C", "D"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestSort_SelfEdgeIgnored(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "A")
	g.AddEdge("A", "B")

	order, cycles := g.Sort()
	if len(cycles) != 0 {
		t.Errorf("self-edge must not report a cycle, got %v", cycles)
	}
	if !slices.Equal(order, []string{"A", "B"}) {
		t.Errorf("expected [A B], got %v", order)
	}
}

func TestSort_DuplicateEdges(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "B")
	g.AddEdge("A", "B")

	order, cycles := g.Sort()
	if len(cycles) != 0 {
		t.Fatalf("unexpected cycles: %v", cycles)
	}
	if !slices.Equal(order, []string{"A", "B"}) {
		t.Errorf("expected [A B], got %v", order)
	}
}

func TestSort_SimpleCycleCollapsed(t *testing.T) {
	t.Parallel()
	g := New()
	// A <-> B plus downstream C: the cycle members stay adjacent in
	// insertion order and C still comes after both.
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")
	g.AddEdge("A", "C")

	order, cycles := g.Sort()
	if !slices.Equal(order, []string{"A", "B", "C"}) {
		t.Errorf("expected [A B C], got %v", order)
	}
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %v", cycles)
	}
	if !slices.Equal(cycles[0], []string{"A", "B"}) {
		t.Errorf("expected cycle [A B], got %v", cycles[0])
	}
}

func TestSort_CycleWithUpstreamDependency(t *testing.T) {
	t.Parallel()
	g := New()
	// root must compile before the B <-> C cycle; tail after it.
	g.AddNode("B")
	g.AddEdge("root", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "B")
	g.AddEdge("C", "tail")

	order, cycles := g.Sort()
	expected := []string{"root", "B", "C", "tail"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
	if len(cycles) != 1 || !slices.Equal(cycles[0], []string{"B", "C"}) {
		t.Errorf("expected cycle [B C], got %v", cycles)
	}
}

func TestSort_ThreeNodeCycle(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "A")

	order, cycles := g.Sort()
	if !slices.Equal(order, []string{"A", "B", "C"}) {
		t.Errorf("expected [A B C], got %v", order)
	}
	if len(cycles) != 1 || len(cycles[0]) != 3 {
		t.Fatalf("expected one 3-node cycle, got %v", cycles)
	}
}

func TestSort_TwoIndependentCycles(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")
	g.AddEdge("X", "Y")
	g.AddEdge("Y", "X")

	order, cycles := g.Sort()
	if !slices.Equal(order, []string{"A", "B", "X", "Y"}) {
		t.Errorf("expected [A B X Y], got %v", order)
	}
	if len(cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %v", cycles)
	}
	if !slices.Equal(cycles[0], []string{"A", "B"}) || !slices.Equal(cycles[1], []string{"X", "Y"}) {
		t.Errorf("unexpected cycle grouping: %v", cycles)
	}
}

func TestSort_Deterministic(t *testing.T) {
	t.Parallel()
	build := func() *Graph {
		g := New()
		g.AddEdge("p", "q")
		g.AddEdge("p", "r")
		g.AddEdge("q", "s")
		g.AddEdge("r", "s")
		g.AddEdge("s", "t")
		g.AddEdge("t", "s")
		g.AddNode("lone")
		return g
	}

	first, firstCycles := build().Sort()
	for range 20 {
		order, cycles := build().Sort()
		if !slices.Equal(order, first) {
			t.Fatalf("order not deterministic: %v vs %v", order, first)
		}
		if len(cycles) != len(firstCycles) {
			t.Fatalf("cycles not deterministic: %v vs %v", cycles, firstCycles)
		}
	}
}
