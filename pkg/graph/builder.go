package graph

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/observability"
)

// Source retrieves the direct dependencies of a single package.
// Implementations live in pkg/source: local manifest trees and remote
// registries are queried per package through this interface.
type Source interface {
	// FetchDirect returns name's direct dependency mapping. A failed
	// lookup (missing manifest, network failure, malformed response) is
	// reported as an error and absorbed by the builder as a failed node.
	FetchDirect(ctx context.Context, name string) (Dependencies, error)
}

// Adjacency is a precomputed mapping from package name to its direct
// dependency names, loaded wholesale rather than queried per package.
type Adjacency map[string][]string

// BulkSource is implemented by sources whose entire adjacency mapping is
// loaded once per build. The builder traverses bulk sources breadth-first
// against the loaded mapping instead of calling FetchDirect per package.
type BulkSource interface {
	// Load returns the full adjacency mapping. A structural failure here
	// is fatal to the whole build.
	Load(ctx context.Context) (Adjacency, error)
}

// Result is the outcome of one build invocation.
type Result struct {
	ID      string       // unique build identifier
	Root    string       // root package name (level 0)
	Graph   *Graph       // dependency graph keyed by package name
	Cycles  []Cycle      // cycles detected during traversal, in discovery order
	Reverse ReverseIndex // dependent lists derived from Graph
}

// Builder constructs dependency graphs from a [Source]. The builder itself
// is stateless across builds: graph, visited set and cycle records are
// created fresh for every Build call and owned by that invocation alone.
type Builder struct {
	src Source
	log *log.Logger
}

// NewBuilder creates a Builder reading from src. A nil logger falls back to
// [log.Default].
func NewBuilder(src Source, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{src: src, log: logger}
}

// Build resolves the transitive dependency graph of root.
//
// Sources implementing [BulkSource] are loaded once and traversed
// breadth-first; all others are traversed depth-first with one FetchDirect
// call per newly discovered package. Lookup failures for individual
// packages are absorbed as failed nodes; only a bulk-load failure or
// context cancellation aborts the build. The reverse index is always
// derived before returning.
//
// Cancellation is observed at the traversal-step boundary, between
// expanding one package and the next.
func (b *Builder) Build(ctx context.Context, root string) (*Result, error) {
	if root == "" {
		return nil, errors.New(errors.ErrCodeConfig, "root package name must not be empty")
	}

	start := time.Now()
	observability.Build().OnBuildStart(ctx, root)

	s := &session{
		src:     b.src,
		log:     b.log,
		graph:   NewGraph(),
		visited: make(map[string]bool),
		cycles:  newCycleSet(),
	}

	var err error
	if bulk, ok := b.src.(BulkSource); ok {
		var adj Adjacency
		if adj, err = bulk.Load(ctx); err == nil {
			err = s.walkQueue(ctx, root, adj)
		}
	} else {
		err = s.walk(ctx, root, nil)
	}
	observability.Build().OnBuildComplete(ctx, root, s.graph.Len(), s.graph.EdgeCount(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:      uuid.NewString(),
		Root:    root,
		Graph:   s.graph,
		Cycles:  s.cycles.cycles,
		Reverse: BuildReverseIndex(s.graph),
	}, nil
}

// session holds the mutable state of exactly one build invocation.
type session struct {
	src Source
	log *log.Logger

	graph   *Graph
	visited map[string]bool
	cycles  *cycleSet
}

// walk expands name depth-first. path holds the chain of packages from the
// root to name's discoverer; its length is name's level.
func (s *session) walk(ctx context.Context, name string, path []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.visited[name] {
		s.noteCycle(ctx, name, path)
		return nil
	}
	s.visited[name] = true
	level := len(path)

	observability.Build().OnLookupStart(ctx, name)
	fetchStart := time.Now()
	deps, err := s.src.FetchDirect(ctx, name)
	observability.Build().OnLookupComplete(ctx, name, len(deps), time.Since(fetchStart), err)
	if err != nil {
		s.log.Warnf("dependency lookup failed: %s: %v", name, err)
		s.graph.Add(name, FailedNode(level, errors.UserMessage(err)))
		return nil
	}
	s.graph.Add(name, ResolvedNode(deps, level))

	next := append(slices.Clone(path), name)
	for _, dep := range deps.Names() {
		// An empty dependency name could never be recorded as a node;
		// skip it rather than drop it without trace.
		if dep == "" {
			s.log.Warnf("package %s declares a dependency with an empty name, skipping", name)
			continue
		}
		if err := s.walk(ctx, dep, next); err != nil {
			return err
		}
	}
	return nil
}

// walkQueue expands root breadth-first against a preloaded adjacency
// mapping. A package absent from the mapping has unknown dependencies and
// becomes a failed node rather than an empty one.
func (s *session) walkQueue(ctx context.Context, root string, adj Adjacency) error {
	type item struct {
		name  string
		level int
		path  []string
	}
	queue := []item{{name: root}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		it := queue[0]
		queue = queue[1:]

		if s.visited[it.name] {
			s.noteCycle(ctx, it.name, it.path)
			continue
		}
		s.visited[it.name] = true

		names, known := adj[it.name]
		if !known {
			s.graph.Add(it.name, FailedNode(it.level, fmt.Sprintf("package %s not present in adjacency data", it.name)))
			continue
		}

		deps := make(Dependencies, len(names))
		for _, dep := range names {
			deps[dep] = "*"
		}
		s.graph.Add(it.name, ResolvedNode(deps, it.level))

		next := append(slices.Clone(it.path), it.name)
		for _, dep := range names {
			if dep == "" {
				s.log.Warnf("package %s declares a dependency with an empty name, skipping", it.name)
				continue
			}
			queue = append(queue, item{name: dep, level: it.level + 1, path: next})
		}
	}
	return nil
}

// noteCycle records the cycle closed by revisiting name, if name is on the
// current path. The cycle is the path suffix from name's first occurrence,
// normalized; exact duplicates are suppressed.
func (s *session) noteCycle(ctx context.Context, name string, path []string) {
	i := slices.Index(path, name)
	if i < 0 {
		return
	}
	c := Cycle(slices.Clone(path[i:])).Normalize()
	if s.cycles.add(c) {
		s.log.Debugf("cycle detected: %s", c)
		observability.Build().OnCycle(ctx, c)
	}
}
