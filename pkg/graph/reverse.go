package graph

import "slices"

// ReverseIndex maps a package name to the packages that directly depend on
// it. Buckets are duplicate-free and keep first-occurrence order, which
// follows the graph's insertion order. The index is fully derived from a
// graph by [BuildReverseIndex] and has no independent lifecycle.
type ReverseIndex map[string][]string

// Dependents returns the packages that directly depend on name.
// Returns nil if nothing depends on it.
func (r ReverseIndex) Dependents(name string) []string {
	return r[name]
}

// BuildReverseIndex inverts g: for every (package, dependency) pair the
// package is appended to the dependency's bucket unless already present.
// The input graph is not modified. Rebuilding from the same graph yields a
// bucket-for-bucket identical index.
func BuildReverseIndex(g *Graph) ReverseIndex {
	idx := make(ReverseIndex)
	for _, name := range g.Names() {
		n, _ := g.Node(name)
		for _, dep := range n.Deps.Names() {
			if !slices.Contains(idx[dep], name) {
				idx[dep] = append(idx[dep], name)
			}
		}
	}
	return idx
}
