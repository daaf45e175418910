// Package buildgraph provides a Go library for parsing, validating, and
// resolving declarative build target graphs (Bazel BUILD files).
//
// A build target graph maps target names to source sets, dependency
// references, visibility scopes, and test metadata. This library implements
// the consumer side of that artifact: it parses BUILD files into a typed
// workspace model, constructs the dependency graph, and computes build and
// test plans over it.
//
// # Overview
//
// The package provides three main layers:
//
//   - Workspace loading: ParseBuildContent / LoadWorkspace parse BUILD
//     files into packages of immutable targets, with package default
//     visibility resolved at load time
//   - Graph: NewGraph builds a resolvable dependency graph; Resolve
//     produces topologically ordered build plans and Validate checks the
//     whole-graph invariants (no dangling references, no cycles)
//   - Planning: the testplan package enumerates test targets and expands
//     shard execution plans; the snapshot package serializes workspaces
//     deterministically
//
// # Quick Start
//
//	ws, err := buildgraph.LoadWorkspace(ctx, "path/to/workspace")
//	if err != nil { ... }
//
//	g := buildgraph.NewGraph(ws)
//	if err := g.Validate(); err != nil { ... }
//
//	plan, err := g.Resolve(label.MustParse("//internal:util"))
//
// # Thread Safety
//
// Workspaces and graphs are immutable after construction and safe for
// concurrent use.
package buildgraph

import (
	"context"

	"github.com/albertocavalcante/go-buildgraph/graph"
)

// NewGraph constructs the dependency graph over all targets in the
// workspace. Construction always succeeds; structural problems surface
// from the graph's Resolve and Validate methods.
func NewGraph(ws *Workspace) *graph.Graph {
	targets := ws.Targets()
	infos := make([]graph.TargetInfo, 0, len(targets))
	for _, t := range targets {
		infos = append(infos, graph.TargetInfo{
			Label:  t.Label,
			Deps:   t.Deps,
			Kind:   string(t.Kind),
			IsTest: t.Kind == KindTest,
			Srcs:   t.Srcs,
		})
	}
	return graph.Build(infos, ws.ExternalRepos)
}

// Load parses a workspace and builds its graph in one call.
func Load(ctx context.Context, root string, opts ...Option) (*Workspace, *graph.Graph, error) {
	ws, err := LoadWorkspace(ctx, root, opts...)
	if err != nil {
		return nil, nil, err
	}
	return ws, NewGraph(ws), nil
}
