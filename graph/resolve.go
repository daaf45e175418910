package graph

import (
	"github.com/albertocavalcante/go-buildgraph/label"
)

// Resolve computes the build plan for a target: a topological order over
// its dependency closure ending with the target itself.
//
// Resolution fails with an error wrapping ErrUnresolvedDependency when the
// target or any reference in its closure names no declared target or
// external repository, and with an error wrapping ErrCyclicDependency when
// the closure contains a cycle. The order is deterministic: dependencies
// are visited in lexical label order.
func (g *Graph) Resolve(target label.Label) (*BuildPlan, error) {
	if _, ok := g.Nodes[target]; !ok {
		return nil, &UnresolvedDependencyError{Missing: target}
	}

	plan := &BuildPlan{Target: target}
	state := &resolveState{
		g:       g,
		visited: make(map[label.Label]bool),
		onPath:  make(map[label.Label]bool),
	}

	if err := state.visit(target, &plan.Steps); err != nil {
		return nil, err
	}
	return plan, nil
}

// ResolveAll computes one global build order covering every target in the
// graph. Useful for whole-workspace compilation planning.
func (g *Graph) ResolveAll() ([]label.Label, error) {
	state := &resolveState{
		g:       g,
		visited: make(map[label.Label]bool),
		onPath:  make(map[label.Label]bool),
	}

	var order []label.Label
	for _, key := range g.sortedKeys() {
		if err := state.visit(key, &order); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// resolveState carries the DFS bookkeeping shared by Resolve and ResolveAll.
type resolveState struct {
	g       *Graph
	visited map[label.Label]bool
	onPath  map[label.Label]bool
	path    []label.Label
}

// visit performs a post-order DFS: a node is appended to order only after
// all of its dependencies, which is exactly the build-order property.
func (s *resolveState) visit(key label.Label, order *[]label.Label) error {
	if s.visited[key] {
		return nil
	}
	if s.onPath[key] {
		return &CycleError{Cycle: s.cycleFrom(key)}
	}

	node := s.g.Nodes[key]
	s.onPath[key] = true
	s.path = append(s.path, key)

	for _, dep := range node.Deps {
		if s.g.resolvesExternally(dep) {
			continue
		}
		if _, ok := s.g.Nodes[dep]; !ok {
			return &UnresolvedDependencyError{From: key, Missing: dep}
		}
		if err := s.visit(dep, order); err != nil {
			return err
		}
	}

	s.path = s.path[:len(s.path)-1]
	delete(s.onPath, key)
	s.visited[key] = true
	*order = append(*order, key)
	return nil
}

// cycleFrom extracts the cycle that closes at key from the current DFS path.
func (s *resolveState) cycleFrom(key label.Label) []label.Label {
	for i, l := range s.path {
		if l == key {
			cycle := make([]label.Label, len(s.path)-i)
			copy(cycle, s.path[i:])
			return cycle
		}
	}
	return []label.Label{key}
}

// sortedKeys returns all node labels in lexical order.
func (g *Graph) sortedKeys() []label.Label {
	keys := make([]label.Label, 0, len(g.Nodes))
	for key := range g.Nodes {
		keys = append(keys, key)
	}
	sortLabels(keys)
	return keys
}
