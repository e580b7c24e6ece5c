package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/graph"
)

// manifestName is the per-package manifest file read by [Local].
const manifestName = "package.json"

// Local reads dependencies from a manifest tree on disk: one directory per
// package, each holding a package.json with an optional "dependencies"
// object. This is the fixture-friendly source used for offline runs and
// tests.
type Local struct {
	dir string
}

// NewLocal creates a Local source rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

// FetchDirect reads <dir>/<name>/package.json and returns its declared
// dependency mapping. A manifest without a "dependencies" field yields an
// empty mapping; a missing or unparsable manifest is a lookup failure.
func (l *Local) FetchDirect(_ context.Context, name string) (graph.Dependencies, error) {
	path := filepath.Join(l.dir, name, manifestName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLookup, err, "no manifest for package %s", name)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLookup, err, "invalid manifest for package %s", name)
	}

	deps := graph.Dependencies(m.Dependencies)
	if deps == nil {
		deps = graph.Dependencies{}
	}
	return deps, nil
}

type manifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
}
