// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed graph operations for compile-order
// sequencing. It is used by the ordering pipeline to sort compilation
// units so that module definitions precede their uses, and to detect
// and collapse circular module dependencies instead of failing on them.
package dag

import "slices"

type (
	// Graph is a directed graph for deterministic topological sorting.
	// Nodes are identified by string keys (file paths in practice).
	// Edges represent "must compile before" relationships: an edge from
	// A to B means A must be compiled before B.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors (nodes that depend on it).
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// index maps each node to its insertion position; ties during the
		// sort are always broken by this discovery order.
		index map[string]int
		// edgeSet dedupes edges so in-degrees stay a pure function of the
		// provide/require sets the caller derived them from.
		edgeSet map[[2]string]bool
	}
)

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		index:     make(map[string]int),
		edgeSet:   make(map[[2]string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.index[name]; ok {
		return
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, meaning "from" must be compiled
// before "to". Both nodes are implicitly added if they don't exist.
// Duplicate edges and self-edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if from == to {
		return
	}
	key := [2]string{from, to}
	if g.edgeSet[key] {
		return
	}
	g.edgeSet[key] = true
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Sort returns a deterministic compile order together with any dependency
// cycles found.
//
// Acyclic regions are ordered by Kahn's algorithm with ties broken by
// insertion order: whenever several nodes have no remaining unsorted
// dependency, the earliest-inserted one is emitted first, so a fixed input
// always yields a byte-identical order.
//
// Strongly-connected components of size > 1 cannot be ordered internally;
// instead of failing, each is collapsed into a single block whose members
// appear adjacent, in insertion order, at the position the sort reaches the
// component. The collapsed components are returned as the second value, in
// the order they appear in the output, so callers can surface diagnostics.
func (g *Graph) Sort() (order []string, cycles [][]string) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	comps := g.stronglyConnected()

	// Members of each component in insertion order; the component sorts
	// at its earliest member's position.
	groupOf := make(map[string]int, len(g.nodes))
	groups := make([][]string, len(comps))
	keys := make([]int, len(comps))
	for i, comp := range comps {
		slices.SortFunc(comp, func(a, b string) int { return g.index[a] - g.index[b] })
		groups[i] = comp
		keys[i] = g.index[comp[0]]
		for _, n := range comp {
			groupOf[n] = i
		}
	}

	// Condense the graph: edges between distinct components only.
	inDegree := make([]int, len(groups))
	adjacent := make([][]int, len(groups))
	seen := make(map[[2]int]bool)
	for _, from := range g.nodes {
		for _, to := range g.adjacency[from] {
			gf, gt := groupOf[from], groupOf[to]
			if gf == gt {
				continue
			}
			key := [2]int{gf, gt}
			if seen[key] {
				continue
			}
			seen[key] = true
			adjacent[gf] = append(adjacent[gf], gt)
			inDegree[gt]++
		}
	}

	// The condensation is acyclic, so a ready component always exists.
	emitted := make([]bool, len(groups))
	for remaining := len(groups); remaining > 0; remaining-- {
		ready := -1
		for i := range groups {
			if emitted[i] || inDegree[i] != 0 {
				continue
			}
			if ready == -1 || keys[i] < keys[ready] {
				ready = i
			}
		}
		emitted[ready] = true
		order = append(order, groups[ready]...)
		if len(groups[ready]) > 1 {
			cycles = append(cycles, slices.Clone(groups[ready]))
		}
		for _, t := range adjacent[ready] {
			inDegree[t]--
		}
	}

	return order, cycles
}

// stronglyConnected computes the strongly-connected components of the graph
// using an iterative Tarjan traversal (recursion would overflow on deep
// dependency chains in large source trees).
func (g *Graph) stronglyConnected() [][]string {
	type frame struct {
		node string
		next int
	}

	next := 0
	indices := make(map[string]int, len(g.nodes))
	lowlink := make(map[string]int, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))
	var stack []string
	var comps [][]string

	for _, start := range g.nodes {
		if _, visited := indices[start]; visited {
			continue
		}
		frames := []frame{{node: start}}
		indices[start] = next
		lowlink[start] = next
		next++
		stack = append(stack, start)
		onStack[start] = true

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			neighbors := g.adjacency[f.node]
			if f.next < len(neighbors) {
				n := neighbors[f.next]
				f.next++
				if _, visited := indices[n]; !visited {
					indices[n] = next
					lowlink[n] = next
					next++
					stack = append(stack, n)
					onStack[n] = true
					frames = append(frames, frame{node: n})
				} else if onStack[n] && indices[n] < lowlink[f.node] {
					// Back-edge to a node still on the active path.
					lowlink[f.node] = indices[n]
				}
				continue
			}

			finished := *f
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := &frames[len(frames)-1]
				if lowlink[finished.node] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[finished.node]
				}
			}
			if lowlink[finished.node] == indices[finished.node] {
				var comp []string
				for {
					n := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[n] = false
					comp = append(comp, n)
					if n == finished.node {
						break
					}
				}
				comps = append(comps, comp)
			}
		}
	}

	return comps
}
