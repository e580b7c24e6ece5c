package graph

import (
	"slices"
	"strings"
)

// Cycle is an ordered sequence of distinct package names forming a simple
// cycle. The closing edge back to the first element is implicit. Two cycles
// are duplicates only when their normalized sequences are equal; rotations
// of the same cycle are recorded separately.
type Cycle []string

// Normalize drops repeated names, preserving first-occurrence order.
// Normalizing an already-normalized cycle returns an equal cycle.
func (c Cycle) Normalize() Cycle {
	norm := make(Cycle, 0, len(c))
	for _, name := range c {
		if !slices.Contains(norm, name) {
			norm = append(norm, name)
		}
	}
	return norm
}

// String renders the cycle with its implicit closing edge,
// e.g. "a -> b -> c -> a".
func (c Cycle) String() string {
	if len(c) == 0 {
		return ""
	}
	return strings.Join(c, " -> ") + " -> " + c[0]
}

// key returns a canonical join of the sequence for O(1) duplicate checks.
func (c Cycle) key() string {
	return strings.Join(c, "\x1f")
}

// cycleSet records normalized cycles, suppressing exact duplicates.
type cycleSet struct {
	seen   map[string]struct{}
	cycles []Cycle
}

func newCycleSet() *cycleSet {
	return &cycleSet{seen: make(map[string]struct{})}
}

// add records c if an equal sequence has not been recorded yet and reports
// whether it was added. Callers normalize before adding.
func (s *cycleSet) add(c Cycle) bool {
	k := c.key()
	if _, dup := s.seen[k]; dup {
		return false
	}
	s.seen[k] = struct{}{}
	s.cycles = append(s.cycles, c)
	return true
}

// FindAllCycles exhaustively enumerates simple cycles in an already-built
// graph. It runs a depth-first search from every unvisited node carrying the
// current path: a node already on the path yields the path suffix from its
// first occurrence as a cycle, and a node that was fully explored earlier is
// not re-expanded. This terminates on graphs with shared subgraphs and
// cycles, though a cycle reachable only through an already-explored entry
// point can be missed, and rotations of a recorded cycle are kept as
// distinct entries.
//
// The enumeration is independent of the cycles the builder detects during
// traversal and never fails.
func FindAllCycles(g *Graph) []Cycle {
	set := newCycleSet()
	visited := make(map[string]bool)

	var dfs func(name string, path []string)
	dfs = func(name string, path []string) {
		if i := slices.Index(path, name); i >= 0 {
			set.add(Cycle(slices.Clone(path[i:])).Normalize())
			return
		}
		if visited[name] {
			return
		}
		visited[name] = true

		n, ok := g.Node(name)
		if !ok {
			return
		}
		next := append(slices.Clone(path), name)
		for _, dep := range n.Deps.Names() {
			dfs(dep, next)
		}
	}

	for _, name := range g.Names() {
		if !visited[name] {
			dfs(name, nil)
		}
	}
	return set.cycles
}
