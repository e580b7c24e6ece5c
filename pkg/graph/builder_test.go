package graph

import (
	"context"
	stderrors "errors"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/observability"
)

// stubSource serves per-package lookups from a fixed map. Packages absent
// from the map fail the lookup.
type stubSource map[string]Dependencies

func (s stubSource) FetchDirect(_ context.Context, name string) (Dependencies, error) {
	deps, ok := s[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeLookup, "no manifest for %s", name)
	}
	return deps, nil
}

// stubBulkSource serves a whole adjacency mapping at once.
type stubBulkSource struct {
	adj Adjacency
	err error
}

func (s stubBulkSource) FetchDirect(_ context.Context, name string) (Dependencies, error) {
	return nil, errors.New(errors.ErrCodeLookup, "bulk source queried per package")
}

func (s stubBulkSource) Load(_ context.Context) (Adjacency, error) {
	return s.adj, s.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestBuildEmptyRoot(t *testing.T) {
	b := NewBuilder(stubSource{}, testLogger())

	_, err := b.Build(context.Background(), "")
	if err == nil {
		t.Fatal("Build(\"\") returned nil error")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeConfig {
		t.Errorf("error code = %q, want %q", got, errors.ErrCodeConfig)
	}
}

func TestBuildCyclicChain(t *testing.T) {
	src := stubSource{
		"A": {"B": "*"},
		"B": {"C": "*"},
		"C": {"A": "*"},
	}

	res, err := NewBuilder(src, testLogger()).Build(context.Background(), "A")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantLevels := map[string]int{"A": 0, "B": 1, "C": 2}
	for name, level := range wantLevels {
		n, ok := res.Graph.Node(name)
		if !ok {
			t.Fatalf("package %s missing from graph", name)
		}
		if n.Level != level {
			t.Errorf("%s level = %d, want %d", name, n.Level, level)
		}
		if n.Failed() {
			t.Errorf("%s unexpectedly failed: %s", name, n.Reason)
		}
	}

	if len(res.Cycles) != 1 {
		t.Fatalf("cycles = %v, want exactly one", res.Cycles)
	}
	if want := (Cycle{"A", "B", "C"}); !slices.Equal(res.Cycles[0], want) {
		t.Errorf("cycle = %v, want %v", res.Cycles[0], want)
	}
	if got := res.Reverse.Dependents("A"); !slices.Equal(got, []string{"C"}) {
		t.Errorf("Dependents(A) = %v, want [C]", got)
	}
}

func TestBuildAbsorbsLookupFailures(t *testing.T) {
	// "ghost" is not in the source; its failure must not abort the build
	// or stop sibling expansion.
	src := stubSource{
		"app":    {"ghost": "^1.0", "lib": "^2.0"},
		"lib":    {"util": "*"},
		"util":   {},
	}

	res, err := NewBuilder(src, testLogger()).Build(context.Background(), "app")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	n, ok := res.Graph.Node("ghost")
	if !ok {
		t.Fatal("failed package ghost missing from graph")
	}
	if !n.Failed() {
		t.Error("ghost not marked failed")
	}
	if want := "no manifest for ghost"; n.Reason != want {
		t.Errorf("Reason = %q, want %q", n.Reason, want)
	}
	if n.Level != 1 {
		t.Errorf("ghost level = %d, want 1", n.Level)
	}
	if len(n.Deps) != 0 {
		t.Errorf("failed node has %d deps, want 0", len(n.Deps))
	}

	// Siblings after the failure are still expanded.
	if !res.Graph.Has("util") {
		t.Error("util missing: traversal stopped after the failed lookup")
	}
	if got := res.Graph.FailedNames(); !slices.Equal(got, []string{"ghost"}) {
		t.Errorf("FailedNames() = %v, want [ghost]", got)
	}
}

func TestBuildSkipsEmptyDependencyNames(t *testing.T) {
	// An empty dependency name can never be recorded as a node, so the
	// traversal must skip it instead of marking it visited and losing it.
	src := stubSource{
		"app": {"": "*", "lib": "*"},
		"lib": {},
	}

	res, err := NewBuilder(src, testLogger()).Build(context.Background(), "app")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.Graph.Has("") {
		t.Error("empty name recorded as a node")
	}
	if !res.Graph.Has("lib") {
		t.Error("lib missing: traversal stopped at the empty name")
	}
}

func TestBuildBulkSkipsEmptyDependencyNames(t *testing.T) {
	src := stubBulkSource{adj: Adjacency{
		"app": {"", "lib"},
		"lib": {},
	}}

	res, err := NewBuilder(src, testLogger()).Build(context.Background(), "app")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.Graph.Has("") {
		t.Error("empty name recorded as a node")
	}
	if !res.Graph.Has("lib") {
		t.Error("lib missing: traversal stopped at the empty name")
	}
}

func TestBuildSharedDependencyVisitedOnce(t *testing.T) {
	// D is reachable via B and C but must be fetched and recorded once,
	// at the level of its first discovery.
	src := stubSource{
		"A": {"B": "*", "C": "*"},
		"B": {"D": "*"},
		"C": {"D": "*"},
		"D": {},
	}

	res, err := NewBuilder(src, testLogger()).Build(context.Background(), "A")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if res.Graph.Len() != 4 {
		t.Errorf("Len() = %d, want 4", res.Graph.Len())
	}
	n, _ := res.Graph.Node("D")
	if n.Level != 2 {
		t.Errorf("D level = %d, want 2", n.Level)
	}
	// Revisiting D through C closes no cycle: D is not on C's path.
	if len(res.Cycles) != 0 {
		t.Errorf("cycles = %v, want none", res.Cycles)
	}
	if got := res.Reverse.Dependents("D"); !slices.Equal(got, []string{"B", "C"}) {
		t.Errorf("Dependents(D) = %v, want [B C]", got)
	}
}

func TestBuildBulkBreadthFirst(t *testing.T) {
	src := stubBulkSource{adj: Adjacency{
		"A": {"B", "C"},
		"B": {"D"},
		"C": {"D"},
		"D": {},
	}}

	res, err := NewBuilder(src, testLogger()).Build(context.Background(), "A")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Breadth-first discovery order: the file's sibling order, level by level.
	if got, want := res.Graph.Names(), []string{"A", "B", "C", "D"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	wantLevels := map[string]int{"A": 0, "B": 1, "C": 1, "D": 2}
	for name, level := range wantLevels {
		n, _ := res.Graph.Node(name)
		if n.Level != level {
			t.Errorf("%s level = %d, want %d", name, n.Level, level)
		}
	}
}

func TestBuildBulkAbsentPackage(t *testing.T) {
	src := stubBulkSource{adj: Adjacency{"A": {"B"}}}

	res, err := NewBuilder(src, testLogger()).Build(context.Background(), "A")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	n, ok := res.Graph.Node("B")
	if !ok {
		t.Fatal("B missing from graph")
	}
	if !n.Failed() {
		t.Error("B not marked failed")
	}
	if want := "package B not present in adjacency data"; n.Reason != want {
		t.Errorf("Reason = %q, want %q", n.Reason, want)
	}
}

func TestBuildBulkCycle(t *testing.T) {
	src := stubBulkSource{adj: Adjacency{
		"A": {"B"},
		"B": {"C"},
		"C": {"A"},
	}}

	res, err := NewBuilder(src, testLogger()).Build(context.Background(), "A")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(res.Cycles) != 1 {
		t.Fatalf("cycles = %v, want exactly one", res.Cycles)
	}
	if want := (Cycle{"A", "B", "C"}); !slices.Equal(res.Cycles[0], want) {
		t.Errorf("cycle = %v, want %v", res.Cycles[0], want)
	}
}

func TestBuildBulkLoadFailure(t *testing.T) {
	loadErr := errors.New(errors.ErrCodeGraphFormat, "adjacency values must be arrays of strings")
	src := stubBulkSource{err: loadErr}

	_, err := NewBuilder(src, testLogger()).Build(context.Background(), "A")
	if err == nil {
		t.Fatal("Build() returned nil error for failed bulk load")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeGraphFormat {
		t.Errorf("error code = %q, want %q", got, errors.ErrCodeGraphFormat)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(stubSource{"A": {}}, testLogger()).Build(ctx, "A")
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

// recordingBuildHooks counts build events.
type recordingBuildHooks struct {
	observability.NoopBuildHooks
	mu      sync.Mutex
	builds  int
	lookups int
	cycles  int
}

func (h *recordingBuildHooks) OnBuildComplete(_ context.Context, _ string, _, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.builds++
}

func (h *recordingBuildHooks) OnLookupComplete(_ context.Context, _ string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lookups++
}

func (h *recordingBuildHooks) OnCycle(_ context.Context, _ []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cycles++
}

func TestBuildEmitsHooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	hooks := &recordingBuildHooks{}
	observability.SetBuildHooks(hooks)

	src := stubSource{
		"A": {"B": "*"},
		"B": {"A": "*"},
	}
	if _, err := NewBuilder(src, testLogger()).Build(context.Background(), "A"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.builds != 1 {
		t.Errorf("build events = %d, want 1", hooks.builds)
	}
	if hooks.lookups != 2 {
		t.Errorf("lookup events = %d, want 2", hooks.lookups)
	}
	if hooks.cycles != 1 {
		t.Errorf("cycle events = %d, want 1", hooks.cycles)
	}
}

func TestBuildResultIdentity(t *testing.T) {
	src := stubSource{"A": {}}
	b := NewBuilder(src, testLogger())

	first, err := b.Build(context.Background(), "A")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := b.Build(context.Background(), "A")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Error("build ID is empty")
	}
	if first.ID == second.ID {
		t.Error("consecutive builds share an ID")
	}
	if first.Root != "A" {
		t.Errorf("Root = %q, want %q", first.Root, "A")
	}
}
