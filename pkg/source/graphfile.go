package source

import (
	"context"
	"encoding/json"
	"os"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/graph"
)

// GraphFile reads a precomputed adjacency mapping from a JSON file: an
// object whose keys are package names and whose values are arrays of
// dependency names. The whole mapping is loaded once per build via [Load];
// the builder then traverses it breadth-first without further I/O.
type GraphFile struct {
	path string
}

// NewGraphFile creates a GraphFile source reading from path.
func NewGraphFile(path string) *GraphFile {
	return &GraphFile{path: path}
}

// Load reads and validates the full adjacency mapping. Any structural
// problem - unreadable file, malformed JSON, a top level that is not an
// object, or values that are not string arrays - is a GRAPH_FORMAT error,
// fatal to the whole build.
func (g *GraphFile) Load(_ context.Context) (graph.Adjacency, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphFormat, err, "read adjacency file %s", g.path)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphFormat, err, "adjacency file %s must contain a JSON object", g.path)
	}
	// A literal null unmarshals into a nil map without error; it is not an
	// object.
	if raw == nil {
		return nil, errors.New(errors.ErrCodeGraphFormat, "adjacency file %s must contain a JSON object, not null", g.path)
	}

	adj := make(graph.Adjacency, len(raw))
	for pkg, val := range raw {
		var deps []string
		if err := json.Unmarshal(val, &deps); err != nil {
			return nil, errors.Wrap(errors.ErrCodeGraphFormat, err, "dependencies of %s must be an array of strings", pkg)
		}
		// Same null trap per value: an empty array decodes to an empty
		// non-nil slice, so nil here means the value was null.
		if deps == nil {
			return nil, errors.New(errors.ErrCodeGraphFormat, "dependencies of %s must be an array of strings, not null", pkg)
		}
		adj[pkg] = deps
	}
	return adj, nil
}

// FetchDirect looks name up in the adjacency mapping, reloading the file.
// An absent key means the package's dependencies are unknown, which is a
// lookup failure rather than an empty dependency set. The builder bypasses
// this method in favor of [Load], but the per-call contract holds for
// callers using GraphFile as a plain [graph.Source].
func (g *GraphFile) FetchDirect(ctx context.Context, name string) (graph.Dependencies, error) {
	adj, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}
	names, ok := adj[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeLookup, "package %s not present in adjacency data", name)
	}
	deps := make(graph.Dependencies, len(names))
	for _, dep := range names {
		deps[dep] = "*"
	}
	return deps, nil
}
