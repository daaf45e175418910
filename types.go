package buildgraph

import (
	"fmt"
	"sort"
	"time"

	"github.com/albertocavalcante/go-buildgraph/ast"
	"github.com/albertocavalcante/go-buildgraph/label"
)

// TargetKind classifies what a target produces.
type TargetKind string

const (
	// KindLibrary is an importable/compilable source set.
	KindLibrary TargetKind = "library"

	// KindTest is an executable test target.
	KindTest TargetKind = "test"

	// KindFilegroup is a plain file collection.
	KindFilegroup TargetKind = "filegroup"

	// KindUnknown covers rule kinds the loader does not classify.
	KindUnknown TargetKind = "unknown"
)

// TestSize is a test size classification, which determines the default
// timeout budget the external runner grants a test target.
type TestSize string

const (
	SizeSmall    TestSize = "small"
	SizeMedium   TestSize = "medium"
	SizeLarge    TestSize = "large"
	SizeEnormous TestSize = "enormous"
)

// DefaultTimeout returns the runner timeout for this size classification.
// Values match Bazel's defaults: small=1m, medium=5m, large=15m, enormous=1h.
func (s TestSize) DefaultTimeout() time.Duration {
	switch s {
	case SizeSmall:
		return time.Minute
	case SizeLarge:
		return 15 * time.Minute
	case SizeEnormous:
		return time.Hour
	default:
		return 5 * time.Minute
	}
}

// Target is a single declared build target. Targets are immutable after
// loading; the external resolver reads them once per invocation.
type Target struct {
	// Label uniquely identifies the target within the workspace.
	Label label.Label `json:"label"`

	// Kind classifies the target (library, test, filegroup).
	Kind TargetKind `json:"kind"`

	// RuleKind is the rule function that declared the target
	// (e.g. "py_library", "multi_substrate_py_test").
	RuleKind string `json:"rule_kind"`

	// Srcs are the declared source file paths, relative to the package.
	Srcs []string `json:"srcs,omitempty"`

	// Deps are the canonicalized dependency labels, both internal targets
	// and external-repository packages.
	Deps []label.Label `json:"deps,omitempty"`

	// Visibility is the resolved visibility scope: the target's explicit
	// declaration if present, otherwise the package default inherited at
	// load time. Never nil after loading.
	Visibility []string `json:"visibility"`

	// Tags are freeform labels consumed by tooling (substrate toggles,
	// CI filters).
	Tags []string `json:"tags,omitempty"`

	// Testonly restricts which targets may depend on this one.
	Testonly bool `json:"testonly,omitempty"`

	// Test holds test metadata; nil for non-test targets.
	Test *TestMetadata `json:"test,omitempty"`
}

// HasTag reports whether the target carries the given tag.
func (t *Target) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// TestMetadata carries the scheduling metadata an external test runner
// consumes when planning execution.
type TestMetadata struct {
	// Size is the declared size classification; defaults to medium.
	Size TestSize `json:"size"`

	// ShardCount partitions the test's cases for parallel execution.
	// Zero means the test runs unsharded.
	ShardCount int `json:"shard_count,omitempty"`

	// Timeout overrides the size-derived timeout class when non-empty
	// ("short", "moderate", "long", "eternal").
	Timeout string `json:"timeout,omitempty"`

	// Flaky requests automatic retries from the runner.
	Flaky bool `json:"flaky,omitempty"`

	// DisabledSubstrates lists numerical backends this test must not run
	// on, derived from "no-<substrate>" tags.
	DisabledSubstrates []string `json:"disabled_substrates,omitempty"`
}

// Package is a namespace grouping targets declared in one BUILD file.
type Package struct {
	// Path is the workspace-relative package path ("" for the root).
	Path string `json:"path"`

	// DefaultVisibility applies to targets without an explicit visibility.
	DefaultVisibility []string `json:"default_visibility,omitempty"`

	// Targets in declaration order.
	Targets []*Target `json:"targets"`

	// BuildFile is the path of the BUILD file the package was parsed from.
	BuildFile string `json:"build_file,omitempty"`

	// File is the parsed BUILD file, kept for canonical reformatting and
	// content hashing. Nil for packages reconstructed from a snapshot.
	File *ast.BuildFile `json:"-"`
}

// Target returns the target with the given name, or nil.
func (p *Package) Target(name string) *Target {
	for _, t := range p.Targets {
		if t.Label.Name() == name {
			return t
		}
	}
	return nil
}

// Workspace is the full parsed target graph artifact: every package found
// under a workspace root, plus the declared external repositories that
// dependency references may point into.
type Workspace struct {
	// Packages is keyed by package path.
	Packages map[string]*Package `json:"packages"`

	// ExternalRepos are the external repository names dependencies may
	// reference (e.g. "third_party").
	ExternalRepos []string `json:"external_repos,omitempty"`
}

// Package returns the package at the given path, or nil.
func (w *Workspace) Package(path string) *Package {
	return w.Packages[path]
}

// Target resolves a label to its declared target, or nil if the label
// names no target in this workspace.
func (w *Workspace) Target(l label.Label) *Target {
	if l.IsExternal() {
		return nil
	}
	pkg := w.Packages[l.Package()]
	if pkg == nil {
		return nil
	}
	return pkg.Target(l.Name())
}

// Lookup resolves a label to its declared target, failing with
// ErrTargetNotFound when the label names no target in this workspace.
func (w *Workspace) Lookup(l label.Label) (*Target, error) {
	if t := w.Target(l); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, l)
}

// Targets returns all targets across all packages, sorted by label.
func (w *Workspace) Targets() []*Target {
	var all []*Target
	for _, pkg := range w.Packages {
		all = append(all, pkg.Targets...)
	}
	sort.Slice(all, func(i, j int) bool {
		return label.Compare(all[i].Label, all[j].Label) < 0
	})
	return all
}

// PackagePaths returns the sorted package paths in the workspace.
func (w *Workspace) PackagePaths() []string {
	paths := make([]string, 0, len(w.Packages))
	for p := range w.Packages {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
