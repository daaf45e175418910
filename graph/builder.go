package graph

import (
	"sort"

	"github.com/albertocavalcante/go-buildgraph/label"
)

// Build constructs a Graph from declared targets.
//
// Construction never fails: dangling references and cycles are legal in the
// data structure and surface later from Resolve and Validate. Reverse edges
// are populated in a second pass once every node exists.
func Build(targets []TargetInfo, externalRepos []string) *Graph {
	g := &Graph{
		Nodes:         make(map[label.Label]*Node, len(targets)),
		ExternalRepos: make(map[string]bool, len(externalRepos)),
	}
	for _, repo := range externalRepos {
		g.ExternalRepos[repo] = true
	}

	// First pass: create all nodes.
	for _, t := range targets {
		deps := make([]label.Label, len(t.Deps))
		copy(deps, t.Deps)
		sortLabels(deps)

		g.Nodes[t.Label] = &Node{
			Label:  t.Label,
			Deps:   deps,
			Kind:   t.Kind,
			IsTest: t.IsTest,
			Srcs:   t.Srcs,
		}
	}

	// Second pass: reverse edges for internal dependencies.
	for key, node := range g.Nodes {
		for _, dep := range node.Deps {
			if depNode, ok := g.Nodes[dep]; ok {
				depNode.Dependents = append(depNode.Dependents, key)
			}
		}
	}
	for _, node := range g.Nodes {
		sortLabels(node.Dependents)
	}

	return g
}

// sortLabels orders labels lexically in place for deterministic traversal.
func sortLabels(labels []label.Label) {
	sort.Slice(labels, func(i, j int) bool {
		return label.Compare(labels[i], labels[j]) < 0
	})
}

// resolvesExternally reports whether a dependency reference is satisfied by
// a declared external repository rather than a graph node.
func (g *Graph) resolvesExternally(dep label.Label) bool {
	return dep.IsExternal() && g.ExternalRepos[dep.Repo()]
}
