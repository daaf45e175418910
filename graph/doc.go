// Package graph provides the build target graph: dependency resolution,
// validation, and query capabilities over declared build targets.
//
// The graph is the static artifact an external build tool consumes. This
// package implements the two operations that tool performs:
//
//   - Resolve a target into an ordered build plan, failing on unresolved
//     references or dependency cycles
//   - Validate the whole graph (dangling references, cycles, duplicate
//     test sources within a package)
//
// # Building a Graph
//
//	g := graph.Build(targets, externalRepos)
//
// # Resolving a Target
//
//	plan, err := g.Resolve(label.MustParse("//internal:util"))
//	// plan.Steps is a topological order ending at the target; every
//	// dependency appears before its dependents.
//
// # Querying
//
//	deps := g.DirectDeps(key)
//	all := g.TransitiveDeps(key)
//	path := g.Path(from, to)
//
// # Output Formats
//
// The graph serializes to Graphviz DOT, deterministic JSON, and
// human-readable text via ToDOT, ToJSON, and ToText.
package graph
