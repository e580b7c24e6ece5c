// Package export renders built dependency graphs as text: Graphviz DOT for
// external rendering, and a JSON form consumed by the serve command and
// round-trip inspection. Rendering DOT to images lives in graphviz.go; the
// text exporters themselves never fail on a built graph.
package export

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/depviz/pkg/graph"
)

// ToDOT converts a built graph to an annotated Graphviz DOT description.
// Every package gets one node declaration styled by role (root, failed
// lookup, leaf, or internal node) and every (package, dependency) pair one
// edge declaration, with exact duplicate pairs skipped. Returns an empty
// string if the graph has no nodes.
func ToDOT(g *graph.Graph, root string) string {
	if g == nil || g.Len() == 0 {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("digraph DependencyGraph {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=lightblue, fontname=Arial];\n")
	buf.WriteString("  edge [color=darkgreen, fontname=Arial];\n")
	buf.WriteString("  graph [fontname=Arial];\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  label=%q;\n", "Dependency graph for "+root)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  fontsize=16;\n")
	buf.WriteString("\n")

	for _, name := range g.Names() {
		n, _ := g.Node(name)
		fmt.Fprintf(&buf, "  %q [%s];\n", name, nodeStyle(name, root, n))
	}

	buf.WriteString("\n")
	emitted := make(map[string]struct{})
	for _, name := range g.Names() {
		n, _ := g.Node(name)
		for _, dep := range n.Deps.Names() {
			pair := name + "\x1f" + dep
			if _, dup := emitted[pair]; dup {
				continue
			}
			emitted[pair] = struct{}{}
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeStyle picks the visual attributes for a node. Precedence: root beats
// a failed lookup beats a leaf beats the internal default.
func nodeStyle(name, root string, n graph.Node) string {
	switch {
	case name == root:
		return "shape=ellipse, style=filled, fillcolor=orange, fontsize=12"
	case n.Failed():
		return "style=filled, fillcolor=lightcoral, fontsize=10"
	case n.Leaf():
		return "style=filled, fillcolor=lightgreen, fontsize=10"
	default:
		return "style=filled, fillcolor=lightblue, fontsize=10"
	}
}

// ToSimpleDOT converts a built graph to a minimal DOT description with one
// edge per (package, dependency) pair and no node styling, intended for
// lightweight inspection. Returns an empty string if the graph has no
// nodes.
func ToSimpleDOT(g *graph.Graph, root string) string {
	if g == nil || g.Len() == 0 {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n")
	fmt.Fprintf(&buf, "  label=%q;\n", "Dependencies for "+root)
	buf.WriteString("\n")

	for _, name := range g.Names() {
		n, _ := g.Node(name)
		for _, dep := range n.Deps.Names() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}
