// Package source provides the dependency sources a build can read from.
//
// Three interchangeable implementations of [graph.Source] exist:
//
//   - [Local]: a directory tree with one package.json manifest per package,
//     read at <dir>/<package>/package.json.
//   - [Registry]: an npm-compatible registry queried over HTTP, one GET per
//     package with a bounded timeout and no retries.
//   - [GraphFile]: a JSON adjacency file mapping every package to its
//     dependency names, loaded wholesale once per build. GraphFile also
//     implements [graph.BulkSource], which the builder prefers over
//     per-package fetches.
//
// All lookup failures carry the DEPENDENCY_LOOKUP error code; a structurally
// invalid adjacency file carries GRAPH_FORMAT and aborts the build.
package source
