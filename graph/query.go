package graph

import (
	"sort"

	"github.com/albertocavalcante/go-buildgraph/label"
)

// Get returns the node for a label, or nil if not found.
func (g *Graph) Get(key label.Label) *Node {
	return g.Nodes[key]
}

// Contains returns true if the graph declares the given target.
func (g *Graph) Contains(key label.Label) bool {
	_, ok := g.Nodes[key]
	return ok
}

// DirectDeps returns the direct dependencies of a target.
func (g *Graph) DirectDeps(key label.Label) []label.Label {
	if node := g.Nodes[key]; node != nil {
		return node.Deps
	}
	return nil
}

// Dependents returns targets that directly depend on the given target.
func (g *Graph) Dependents(key label.Label) []label.Label {
	if node := g.Nodes[key]; node != nil {
		return node.Dependents
	}
	return nil
}

// TransitiveDeps returns all transitive dependencies of a target, in
// breadth-first order. External references are included once each.
func (g *Graph) TransitiveDeps(key label.Label) []label.Label {
	return g.walk(key, func(n *Node) []label.Label { return n.Deps })
}

// TransitiveDependents returns all targets that transitively depend on the
// given target, in breadth-first order (closest dependents first).
func (g *Graph) TransitiveDependents(key label.Label) []label.Label {
	return g.walk(key, func(n *Node) []label.Label { return n.Dependents })
}

// walk performs a BFS from key following edges produced by next.
func (g *Graph) walk(key label.Label, next func(*Node) []label.Label) []label.Label {
	result := make([]label.Label, 0)
	visited := map[label.Label]bool{key: true}
	queue := []label.Label{key}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Nodes[current]
		if node == nil {
			continue
		}

		for _, edge := range next(node) {
			if !visited[edge] {
				visited[edge] = true
				result = append(result, edge)
				queue = append(queue, edge)
			}
		}
	}

	return result
}

// Path finds the shortest dependency path from one target to another.
// Returns nil if no path exists.
func (g *Graph) Path(from, to label.Label) []label.Label {
	if from == to {
		return []label.Label{from}
	}

	type queueItem struct {
		key  label.Label
		path []label.Label
	}

	visited := map[label.Label]bool{from: true}
	queue := []queueItem{{key: from, path: []label.Label{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Nodes[current.key]
		if node == nil {
			continue
		}

		for _, dep := range node.Deps {
			if dep == to {
				return append(current.path, dep)
			}
			if !visited[dep] {
				visited[dep] = true
				next := make([]label.Label, len(current.path)+1)
				copy(next, current.path)
				next[len(current.path)] = dep
				queue = append(queue, queueItem{key: dep, path: next})
			}
		}
	}

	return nil
}

// Roots returns all targets no other target depends on, sorted.
func (g *Graph) Roots() []label.Label {
	var roots []label.Label
	for key, node := range g.Nodes {
		if len(node.Dependents) == 0 {
			roots = append(roots, key)
		}
	}
	sortLabels(roots)
	return roots
}

// Leaves returns all targets with no dependencies at all, sorted.
func (g *Graph) Leaves() []label.Label {
	var leaves []label.Label
	for key, node := range g.Nodes {
		if len(node.Deps) == 0 {
			leaves = append(leaves, key)
		}
	}
	sortLabels(leaves)
	return leaves
}

// HasCycles returns true if the graph contains dependency cycles.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// FindCycles returns all dependency cycles in the graph. Each cycle is the
// sequence of labels on the loop; the first entry closes it with the last.
func (g *Graph) FindCycles() [][]label.Label {
	var cycles [][]label.Label
	visited := make(map[label.Label]bool)
	onPath := make(map[label.Label]bool)
	path := make([]label.Label, 0)

	var dfs func(key label.Label)
	dfs = func(key label.Label) {
		visited[key] = true
		onPath[key] = true
		path = append(path, key)

		if node := g.Nodes[key]; node != nil {
			for _, dep := range node.Deps {
				if _, internal := g.Nodes[dep]; !internal {
					continue
				}
				if !visited[dep] {
					dfs(dep)
				} else if onPath[dep] {
					// Back edge: extract the loop from the current path.
					for i, k := range path {
						if k == dep {
							cycle := make([]label.Label, len(path)-i)
							copy(cycle, path[i:])
							cycles = append(cycles, cycle)
							break
						}
					}
				}
			}
		}

		path = path[:len(path)-1]
		onPath[key] = false
	}

	for _, key := range g.sortedKeys() {
		if !visited[key] {
			dfs(key)
		}
	}

	return cycles
}

// Stats returns summary statistics about the graph.
func (g *Graph) Stats() Stats {
	stats := Stats{Targets: len(g.Nodes)}

	for _, node := range g.Nodes {
		if node.IsTest {
			stats.Tests++
		}
		for _, dep := range node.Deps {
			if g.resolvesExternally(dep) {
				stats.ExternalEdges++
			} else {
				stats.Edges++
			}
		}
	}

	stats.MaxDepth = g.maxDepth()
	return stats
}

// maxDepth computes the longest dependency chain, skipping cycle back-edges
// so malformed graphs still terminate.
func (g *Graph) maxDepth() int {
	depths := make(map[label.Label]int)
	onPath := make(map[label.Label]bool)
	var deepest int

	var dfs func(key label.Label, depth int)
	dfs = func(key label.Label, depth int) {
		if onPath[key] {
			return
		}
		if existing, ok := depths[key]; ok && existing >= depth {
			return
		}
		depths[key] = depth
		if depth > deepest {
			deepest = depth
		}

		node := g.Nodes[key]
		if node == nil {
			return
		}

		onPath[key] = true
		for _, dep := range node.Deps {
			if _, internal := g.Nodes[dep]; internal {
				dfs(dep, depth+1)
			}
		}
		delete(onPath, key)
	}

	for _, root := range g.Roots() {
		dfs(root, 0)
	}
	return deepest
}

// sortedStringKeys returns the keys of a string-keyed map in sorted order.
func sortedStringKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
