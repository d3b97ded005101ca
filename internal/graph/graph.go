// Package graph provides a dependency graph over service member names.
package graph

import (
	"slices"
)

// Symbol identifies a member by name.
type Symbol string

// Graph is a dependency graph of symbols with forward edges. Nodes keep
// their insertion order so results are deterministic.
type Graph struct {
	nodes []Symbol
	index map[Symbol]int
	edges map[Symbol][]Symbol
}

// New returns a graph with no nodes or edges.
func New() *Graph {
	return &Graph{
		index: make(map[Symbol]int),
		edges: make(map[Symbol][]Symbol),
	}
}

// AddNode registers a symbol. Duplicate calls are no-ops.
func (g *Graph) AddNode(sym Symbol) {
	if _, ok := g.index[sym]; ok {
		return
	}
	g.index[sym] = len(g.nodes)
	g.nodes = append(g.nodes, sym)
}

// AddEdge records that "from" depends on "to", meaning "to" must come
// before "from". Missing nodes are created implicitly. Duplicate edges
// are ignored.
func (g *Graph) AddEdge(from, to Symbol) {
	g.AddNode(from)
	g.AddNode(to)

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the symbols that sym depends on (forward edges).
func (g *Graph) Dependencies(sym Symbol) []Symbol {
	return g.edges[sym]
}

// HasNode reports whether the symbol exists in the graph.
func (g *Graph) HasNode(sym Symbol) bool {
	_, ok := g.index[sym]
	return ok
}

// Nodes returns the symbols in insertion order.
func (g *Graph) Nodes() []Symbol {
	return g.nodes
}

// ResolutionOrder returns symbols ordered so that dependencies come before
// dependents, using Tarjan's algorithm. Strongly connected components with
// more than one node (or a single node with a self-loop) are reported as
// cycles and excluded from the order.
func (g *Graph) ResolutionOrder() (order []Symbol, cycles [][]Symbol) {
	var (
		index    int
		stack    []Symbol
		onStack  = make(map[Symbol]bool)
		indices  = make(map[Symbol]int)
		lowlinks = make(map[Symbol]int)
	)

	var strongConnect func(sym Symbol)
	strongConnect = func(sym Symbol) {
		indices[sym] = index
		lowlinks[sym] = index
		index++
		stack = append(stack, sym)
		onStack[sym] = true

		for _, dep := range g.edges[sym] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[sym] = min(lowlinks[sym], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[sym] = min(lowlinks[sym], indices[dep])
			}
		}

		if lowlinks[sym] == indices[sym] {
			var scc []Symbol
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == sym {
					break
				}
			}
			switch {
			case len(scc) > 1:
				slices.SortFunc(scc, func(a, b Symbol) int { return g.index[a] - g.index[b] })
				cycles = append(cycles, scc)
			case slices.Contains(g.edges[scc[0]], scc[0]):
				cycles = append(cycles, scc)
			default:
				order = append(order, scc[0])
			}
		}
	}

	for _, sym := range g.nodes {
		if _, visited := indices[sym]; !visited {
			strongConnect(sym)
		}
	}

	return order, cycles
}

// FindCycles returns the strongly connected components that form cycles.
func (g *Graph) FindCycles() [][]Symbol {
	_, cycles := g.ResolutionOrder()
	return cycles
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}
