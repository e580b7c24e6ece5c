package graph

import (
	"maps"
	"slices"
)

// Dependencies maps a direct dependency name to its declared version
// constraint. Constraints are opaque strings - they are recorded as the
// source reports them and never parsed or compared. Adjacency sources,
// which carry no constraint information, use the wildcard "*".
type Dependencies map[string]string

// Names returns the dependency names in lexicographic order.
// This is the canonical iteration order for traversal and export, since map
// iteration order is unspecified.
func (d Dependencies) Names() []string {
	return slices.Sorted(maps.Keys(d))
}

// Status distinguishes resolved nodes from failed lookups.
type Status int

const (
	// StatusResolved marks a node whose direct dependencies were fetched.
	StatusResolved Status = iota
	// StatusFailed marks a node whose dependency lookup failed. Failed
	// nodes carry an empty dependency set and are never expanded further.
	StatusFailed
)

// Node is one package record in a dependency graph: the dependencies the
// source reported, the traversal level at which the package was first
// discovered, and - for failed lookups - the reason resolution stopped.
type Node struct {
	Deps   Dependencies // direct dependencies (empty when Status is StatusFailed)
	Level  int          // edge distance from the root along the discovering traversal
	Status Status       // resolved or failed
	Reason string       // failure detail, set only when Status is StatusFailed
}

// Failed reports whether the node's dependency lookup failed.
func (n Node) Failed() bool { return n.Status == StatusFailed }

// Leaf reports whether the node resolved successfully with no dependencies.
func (n Node) Leaf() bool { return n.Status == StatusResolved && len(n.Deps) == 0 }

// ResolvedNode creates a resolved node record. A nil dependency map is
// normalized to an empty one so Deps is never nil.
func ResolvedNode(deps Dependencies, level int) Node {
	if deps == nil {
		deps = Dependencies{}
	}
	return Node{Deps: deps, Level: level, Status: StatusResolved}
}

// FailedNode creates a failed node record with an empty dependency set.
func FailedNode(level int, reason string) Node {
	return Node{Deps: Dependencies{}, Level: level, Status: StatusFailed, Reason: reason}
}

// Graph is an insertion-ordered mapping from package name to [Node].
// First insertion wins: once a package is recorded its node is never
// replaced, so Level always reflects the traversal that discovered it.
//
// The zero value is not usable - use [NewGraph].
type Graph struct {
	nodes map[string]Node
	order []string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]Node)}
}

// Add inserts a node under name and reports whether it was inserted.
// If the name is empty or already present the graph is unchanged and Add
// returns false.
func (g *Graph) Add(name string, n Node) bool {
	if name == "" {
		return false
	}
	if _, exists := g.nodes[name]; exists {
		return false
	}
	if n.Deps == nil {
		n.Deps = Dependencies{}
	}
	g.nodes[name] = n
	g.order = append(g.order, name)
	return true
}

// Node returns the record for name and whether it exists.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Has reports whether name is recorded in the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Names returns all package names in insertion order.
// The returned slice is a copy and safe to modify.
func (g *Graph) Names() []string {
	return slices.Clone(g.order)
}

// Len returns the number of recorded packages.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the total number of (package, dependency) pairs.
func (g *Graph) EdgeCount() int {
	var total int
	for _, n := range g.nodes {
		total += len(n.Deps)
	}
	return total
}

// MaxLevel returns the deepest traversal level, or 0 for an empty graph.
func (g *Graph) MaxLevel() int {
	var depth int
	for _, n := range g.nodes {
		depth = max(depth, n.Level)
	}
	return depth
}

// FailedNames returns the names of all failed nodes in insertion order.
func (g *Graph) FailedNames() []string {
	var failed []string
	for _, name := range g.order {
		if g.nodes[name].Failed() {
			failed = append(failed, name)
		}
	}
	return failed
}
