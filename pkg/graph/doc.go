// Package graph builds and analyzes transitive dependency graphs.
//
// # Overview
//
// Depviz resolves the dependency closure of a single root package from a
// pluggable source (a local manifest tree, a remote registry, or a
// precomputed adjacency file) and answers three questions about it: which
// packages are reachable and at what depth, which dependency chains form
// cycles, and who depends on whom in reverse.
//
// The central type is [Graph], an insertion-ordered map from package name to
// [Node]. Every node is a tagged record: either resolved (with its direct
// dependencies and traversal level) or failed (with the reason its lookup
// could not complete). A package is inserted exactly once - the first
// traversal to discover it wins, and later discoveries never overwrite the
// recorded level or dependencies.
//
// # Building
//
// [Builder.Build] drives the traversal for one root package:
//
//	b := graph.NewBuilder(src, logger)
//	res, err := b.Build(ctx, "webapp")
//
// Sources that implement [BulkSource] (adjacency files) are loaded once and
// traversed breadth-first with an explicit queue. All other sources are
// queried per package and traversed depth-first. Both strategies share the
// same cycle bookkeeping: when an already-visited package reappears on the
// current path, the path suffix from its first occurrence is normalized and
// recorded once.
//
// A failed lookup for a single package is absorbed into the graph as a
// failed node and the traversal continues; only a failure to load a bulk
// source aborts the build.
//
// # Analysis
//
// [FindAllCycles] enumerates simple cycles over an already-built graph,
// independently of the cycles the builder noticed during traversal.
// [BuildReverseIndex] inverts the graph into dependent lists. Both are pure
// functions and never fail.
//
// Graph instances are owned by a single build and are not safe for
// concurrent mutation.
package graph
