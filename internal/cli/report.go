package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/depviz/pkg/graph"
)

// reportGraph prints the level-grouped view of a built graph followed by
// its summary statistics.
func reportGraph(res *graph.Result) {
	printNewline()
	printTitle("Dependency graph for %s", res.Root)

	levels := make(map[int][]string)
	for _, name := range res.Graph.Names() {
		n, _ := res.Graph.Node(name)
		levels[n.Level] = append(levels[n.Level], name)
	}

	var depths []int
	for level := range levels {
		depths = append(depths, level)
	}
	sort.Ints(depths)

	for _, level := range depths {
		names := levels[level]
		sort.Strings(names)
		indent := strings.Repeat("  ", level)
		fmt.Printf("%s%s level %s: %s\n",
			indent, styleDim.Render(iconBullet),
			styleNumber.Render(fmt.Sprint(level)),
			strings.Join(names, ", "))
	}

	printNewline()
	printDetail("%d packages · %d dependencies · max depth %d",
		res.Graph.Len(), res.Graph.EdgeCount(), res.Graph.MaxLevel())
}

// reportDetails prints one line per package: its dependencies, or a leaf or
// failure marker.
func reportDetails(res *graph.Result) {
	printNewline()
	printTitle("Packages")

	names := res.Graph.Names()
	sort.Strings(names)

	for _, name := range names {
		n, _ := res.Graph.Node(name)
		label := fmt.Sprintf("%s (level %d)", name, n.Level)
		switch {
		case n.Failed():
			printError("%s - %s", label, n.Reason)
		case n.Leaf():
			printSuccess("%s - no dependencies", label)
		default:
			fmt.Printf("  %s %s %s\n",
				styleValue.Render(label),
				styleDim.Render(iconArrow),
				strings.Join(n.Deps.Names(), ", "))
		}
	}
}

// reportCycles prints the cycles detected during the build, if any.
func reportCycles(res *graph.Result) {
	printNewline()
	if len(res.Cycles) == 0 {
		printInfo("no dependency cycles detected")
		return
	}
	printWarning("Detected %d cyclic dependency chain(s):", len(res.Cycles))
	for _, c := range res.Cycles {
		printDetail("%s", c)
	}
}

// reportAllCycles re-enumerates cycles exhaustively on the built graph,
// independent of what the traversal happened to close.
func reportAllCycles(res *graph.Result) {
	cycles := graph.FindAllCycles(res.Graph)
	printNewline()
	printTitle("Exhaustive cycle search")
	if len(cycles) == 0 {
		printDetail("no cycles found")
		return
	}
	for _, c := range cycles {
		printDetail("%s", c)
	}
	printNewline()
	printDetail("%d cycle(s) found", len(cycles))
}

// reportReverse prints the packages that directly depend on name.
func reportReverse(res *graph.Result, name string) {
	printNewline()
	printTitle("Reverse dependencies of %s", name)

	dependents := res.Reverse.Dependents(name)
	if len(dependents) == 0 {
		printDetail("no package depends on %s", name)
		return
	}

	sorted := append([]string(nil), dependents...)
	sort.Strings(sorted)
	for _, dep := range sorted {
		fmt.Printf("  %s %s\n", styleDim.Render(iconBullet), styleValue.Render(dep))
	}
	printNewline()
	printDetail("%d package(s) depend on %s", len(dependents), name)
}
