// Package pkg provides the core libraries for depviz dependency analysis.
//
// # Overview
//
// Depviz resolves the transitive dependency graph of a package, analyzes it
// (cycles, reverse dependencies), and exports it for rendering. The pkg
// directory is organized into:
//
//  1. [graph] - Graph construction and analysis (builder, cycles, reverse index)
//  2. [source] - Dependency sources (local manifests, registry, adjacency files)
//  3. [export] - DOT/JSON exporters and Graphviz rendering
//  4. [config] - TOML configuration loading and validation
//  5. [errors] - Structured error codes shared across the surfaces
//  6. [httputil] - The registry HTTP client (timeout, headers, hooks)
//  7. [observability] - Optional build and HTTP instrumentation hooks
//  8. [buildinfo] - Version metadata injected at build time
//
// # Architecture
//
// The typical data flow through depviz:
//
//	Manifest tree / registry / adjacency file
//	         ↓
//	    [source] package (fetch direct dependencies)
//	         ↓
//	    [graph] package (traverse, detect cycles, invert edges)
//	         ↓
//	    [export] package (DOT, JSON, SVG/PNG)
//
// # Quick Start
//
// Build and export a dependency graph:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/depviz/pkg/export"
//	    "github.com/matzehuels/depviz/pkg/graph"
//	    "github.com/matzehuels/depviz/pkg/source"
//	)
//
//	src := source.NewLocal("./examples/repository")
//	res, err := graph.NewBuilder(src, nil).Build(context.Background(), "webapp")
//	if err != nil {
//	    // handle error
//	}
//	dot := export.ToDOT(res.Graph, res.Root)
package pkg
