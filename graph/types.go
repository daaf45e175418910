package graph

import (
	"github.com/albertocavalcante/go-buildgraph/label"
)

// Graph represents a declared build target graph. It supports bidirectional
// traversal (dependencies and dependents) and topological resolution.
//
// A Graph is immutable after Build; all methods are safe for concurrent use.
type Graph struct {
	// Nodes contains all internal targets, keyed by label.
	Nodes map[label.Label]*Node

	// ExternalRepos are the declared external repository names. Dependency
	// references into these repositories resolve without a graph node.
	ExternalRepos map[string]bool
}

// Node represents one target in the graph.
type Node struct {
	// Label uniquely identifies this target.
	Label label.Label

	// Deps are the direct dependencies, internal and external.
	Deps []label.Label

	// Dependents are the internal targets that directly depend on this one
	// (reverse edges).
	Dependents []label.Label

	// Kind is the target kind ("library", "test", "filegroup", "unknown").
	Kind string

	// IsTest marks test targets for validation and enumeration.
	IsTest bool

	// Srcs are the declared source files, used by duplicate-source
	// validation for test targets.
	Srcs []string
}

// TargetInfo is the input record for Build: one declared target with its
// canonicalized dependency references.
type TargetInfo struct {
	Label  label.Label
	Deps   []label.Label
	Kind   string
	IsTest bool
	Srcs   []string
}

// BuildPlan is an ordered compilation plan for a single target: a
// topological order over the target's dependency closure, ending with the
// target itself. External references are resolved but carry no build step.
type BuildPlan struct {
	// Target is the target the plan was computed for.
	Target label.Label `json:"target"`

	// Steps lists internal targets in dependency order; every entry
	// appears after all of its dependencies. The final entry is Target.
	Steps []label.Label `json:"steps"`
}

// Prefix returns the build-order prefix: every step that must complete
// before the target itself builds. Empty for targets with no internal
// dependencies.
func (p *BuildPlan) Prefix() []label.Label {
	if len(p.Steps) == 0 {
		return nil
	}
	return p.Steps[:len(p.Steps)-1]
}

// Stats summarizes graph shape.
type Stats struct {
	// Targets is the number of internal targets.
	Targets int `json:"targets"`

	// Tests is the number of test targets.
	Tests int `json:"tests"`

	// Edges counts internal dependency edges.
	Edges int `json:"edges"`

	// ExternalEdges counts references into external repositories.
	ExternalEdges int `json:"external_edges"`

	// MaxDepth is the longest dependency chain in the graph.
	MaxDepth int `json:"max_depth"`
}
