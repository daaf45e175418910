package graph

import (
	"errors"
	"testing"

	"github.com/albertocavalcante/go-buildgraph/label"
)

// createTestGraph builds the fixture graph:
//
//	//internal:util
//	├── //internal:deferred_tensor
//	│   └── //internal:tensor_util
//	└── //internal:seed_stream
//	//internal:util_test
//	└── //internal:util (+ @third_party//numpy)
func createTestGraph() *Graph {
	seedStream := label.MustParse("//internal:seed_stream")
	deferredTensor := label.MustParse("//internal:deferred_tensor")
	tensorUtil := label.MustParse("//internal:tensor_util")
	util := label.MustParse("//internal:util")
	utilTest := label.MustParse("//internal:util_test")
	numpy := label.MustParse("@third_party//numpy:numpy")

	return Build([]TargetInfo{
		{Label: seedStream, Kind: "library", Srcs: []string{"seed_stream.py"}},
		{Label: tensorUtil, Kind: "library", Srcs: []string{"tensor_util.py"}},
		{Label: deferredTensor, Kind: "library", Deps: []label.Label{tensorUtil}},
		{Label: util, Kind: "library", Deps: []label.Label{deferredTensor, seedStream}},
		{Label: utilTest, Kind: "test", IsTest: true,
			Srcs: []string{"util_test.py"},
			Deps: []label.Label{util, numpy}},
	}, []string{"third_party"})
}

func TestBuild(t *testing.T) {
	g := createTestGraph()

	if len(g.Nodes) != 5 {
		t.Errorf("expected 5 nodes, got %d", len(g.Nodes))
	}

	util := label.MustParse("//internal:util")
	node := g.Get(util)
	if node == nil {
		t.Fatal("util node missing")
	}
	if len(node.Deps) != 2 {
		t.Errorf("util deps = %v", node.Deps)
	}

	// Reverse edges.
	seedStream := label.MustParse("//internal:seed_stream")
	dependents := g.Dependents(seedStream)
	if len(dependents) != 1 || dependents[0] != util {
		t.Errorf("seed_stream dependents = %v, want [%v]", dependents, util)
	}
}

func TestResolveLeafHasEmptyPrefix(t *testing.T) {
	g := createTestGraph()
	seedStream := label.MustParse("//internal:seed_stream")

	plan, err := g.Resolve(seedStream)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(plan.Prefix()) != 0 {
		t.Errorf("prefix = %v, want empty for leaf target", plan.Prefix())
	}
	if len(plan.Steps) != 1 || plan.Steps[0] != seedStream {
		t.Errorf("steps = %v", plan.Steps)
	}
}

func TestResolveOrdersDepsFirst(t *testing.T) {
	g := createTestGraph()
	util := label.MustParse("//internal:util")

	plan, err := g.Resolve(util)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if plan.Steps[len(plan.Steps)-1] != util {
		t.Errorf("last step = %v, want %v", plan.Steps[len(plan.Steps)-1], util)
	}

	index := make(map[label.Label]int)
	for i, step := range plan.Steps {
		index[step] = i
	}
	for _, dep := range []string{"//internal:deferred_tensor", "//internal:seed_stream", "//internal:tensor_util"} {
		depIdx, ok := index[label.MustParse(dep)]
		if !ok {
			t.Fatalf("dep %s missing from plan %v", dep, plan.Steps)
		}
		if depIdx >= index[util] {
			t.Errorf("dep %s ordered after target", dep)
		}
	}
	if index[label.MustParse("//internal:tensor_util")] >= index[label.MustParse("//internal:deferred_tensor")] {
		t.Error("tensor_util ordered after deferred_tensor")
	}
}

func TestResolveExternalDepsNoSteps(t *testing.T) {
	g := createTestGraph()

	plan, err := g.Resolve(label.MustParse("//internal:util_test"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for _, step := range plan.Steps {
		if step.IsExternal() {
			t.Errorf("external reference %v appeared as build step", step)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	g := createTestGraph()
	util := label.MustParse("//internal:util")

	first, err := g.Resolve(util)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := createTestGraph().Resolve(util)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		for j := range first.Steps {
			if first.Steps[j] != again.Steps[j] {
				t.Fatalf("non-deterministic order: %v vs %v", first.Steps, again.Steps)
			}
		}
	}
}

func TestResolveUnresolvedDependency(t *testing.T) {
	a := label.MustParse("//pkg:a")
	g := Build([]TargetInfo{
		{Label: a, Deps: []label.Label{label.MustParse("//pkg:missing")}},
	}, nil)

	_, err := g.Resolve(a)
	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("err = %v, want ErrUnresolvedDependency", err)
	}

	var unresolved *UnresolvedDependencyError
	if !errors.As(err, &unresolved) {
		t.Fatalf("err type = %T", err)
	}
	if unresolved.From != a {
		t.Errorf("From = %v, want %v", unresolved.From, a)
	}
	if unresolved.Missing.String() != "//pkg:missing" {
		t.Errorf("Missing = %v", unresolved.Missing)
	}
}

func TestResolveUndeclaredExternalRepo(t *testing.T) {
	a := label.MustParse("//pkg:a")
	g := Build([]TargetInfo{
		{Label: a, Deps: []label.Label{label.MustParse("@undeclared//x:y")}},
	}, []string{"third_party"})

	_, err := g.Resolve(a)
	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("err = %v, want ErrUnresolvedDependency for undeclared repo", err)
	}
}

func TestResolveMissingTarget(t *testing.T) {
	g := createTestGraph()
	_, err := g.Resolve(label.MustParse("//internal:nonexistent"))
	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("err = %v, want ErrUnresolvedDependency", err)
	}
}

func TestResolveCycle(t *testing.T) {
	a := label.MustParse("//pkg:a")
	b := label.MustParse("//pkg:b")
	c := label.MustParse("//pkg:c")
	g := Build([]TargetInfo{
		{Label: a, Deps: []label.Label{b}},
		{Label: b, Deps: []label.Label{c}},
		{Label: c, Deps: []label.Label{a}},
	}, nil)

	_, err := g.Resolve(a)
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("err = %v, want ErrCyclicDependency", err)
	}

	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("err type = %T", err)
	}
	if len(cycle.Cycle) != 3 {
		t.Errorf("cycle = %v, want 3 nodes", cycle.Cycle)
	}
}

func TestResolveAll(t *testing.T) {
	g := createTestGraph()

	order, err := g.ResolveAll()
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(order) != 5 {
		t.Fatalf("order = %v, want all 5 targets", order)
	}

	index := make(map[label.Label]int)
	for i, step := range order {
		index[step] = i
	}
	for key, node := range g.Nodes {
		for _, dep := range node.Deps {
			if _, internal := g.Nodes[dep]; !internal {
				continue
			}
			if index[dep] >= index[key] {
				t.Errorf("dep %v ordered after %v", dep, key)
			}
		}
	}
}

func TestQueries(t *testing.T) {
	g := createTestGraph()
	utilTest := label.MustParse("//internal:util_test")
	tensorUtil := label.MustParse("//internal:tensor_util")

	transitive := g.TransitiveDeps(utilTest)
	found := false
	for _, dep := range transitive {
		if dep == tensorUtil {
			found = true
		}
	}
	if !found {
		t.Errorf("TransitiveDeps(%v) = %v, missing %v", utilTest, transitive, tensorUtil)
	}

	dependents := g.TransitiveDependents(tensorUtil)
	if len(dependents) != 3 {
		t.Errorf("TransitiveDependents(%v) = %v, want 3 entries", tensorUtil, dependents)
	}

	path := g.Path(utilTest, tensorUtil)
	if len(path) != 4 {
		t.Errorf("Path = %v, want 4 hops", path)
	}
	if g.Path(tensorUtil, utilTest) != nil {
		t.Error("found path against edge direction")
	}

	roots := g.Roots()
	if len(roots) != 1 || roots[0] != utilTest {
		t.Errorf("Roots = %v, want [%v]", roots, utilTest)
	}

	leaves := g.Leaves()
	if len(leaves) != 2 {
		t.Errorf("Leaves = %v, want seed_stream and tensor_util", leaves)
	}
}

func TestStats(t *testing.T) {
	g := createTestGraph()
	stats := g.Stats()

	if stats.Targets != 5 {
		t.Errorf("Targets = %d, want 5", stats.Targets)
	}
	if stats.Tests != 1 {
		t.Errorf("Tests = %d, want 1", stats.Tests)
	}
	if stats.Edges != 4 {
		t.Errorf("Edges = %d, want 4", stats.Edges)
	}
	if stats.ExternalEdges != 1 {
		t.Errorf("ExternalEdges = %d, want 1", stats.ExternalEdges)
	}
	if stats.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", stats.MaxDepth)
	}
}
