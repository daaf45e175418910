// Package snapshot provides a deterministic serialized form of a parsed
// workspace.
//
// A snapshot captures the full target model (packages, targets, test
// metadata) plus a SHA-256 hash of each BUILD file's canonical form, so
// tools can detect drift without reparsing and can diff two states of the
// same workspace.
//
// # Usage
//
// Capture and persist:
//
//	snap := snapshot.New(ws)
//	if err := snap.WriteFile("buildgraph.snapshot.json"); err != nil {
//	    log.Fatal(err)
//	}
//
// Reload and compare:
//
//	old, err := snapshot.ReadFile("buildgraph.snapshot.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	diff := old.Diff(snapshot.New(ws))
//	fmt.Print(diff.Summary())
//
// Marshal output is byte-stable: marshaling, parsing, and marshaling again
// yields identical bytes.
package snapshot

import (
	"fmt"
	"sort"

	buildgraph "github.com/albertocavalcante/go-buildgraph"
	"github.com/albertocavalcante/go-buildgraph/ast"
	"github.com/albertocavalcante/go-buildgraph/label"
)

// FormatVersion is the current snapshot schema version.
const FormatVersion = 1

// Snapshot is the serialized form of a workspace.
type Snapshot struct {
	// Version is the schema version, for format compatibility.
	Version int `json:"snapshotVersion"`

	// ExternalRepos lists the declared external repository names.
	ExternalRepos []string `json:"externalRepos,omitempty"`

	// Packages holds every package, sorted by path.
	Packages []PackageEntry `json:"packages"`

	// BuildFileHashes maps package path to the SHA-256 hash of the
	// package's BUILD file in canonical form.
	BuildFileHashes map[string]string `json:"buildFileHashes,omitempty"`
}

// PackageEntry is one package in a snapshot.
type PackageEntry struct {
	Path              string        `json:"path"`
	DefaultVisibility []string      `json:"defaultVisibility,omitempty"`
	Targets           []TargetEntry `json:"targets"`
}

// TargetEntry is one target in a snapshot. Dependency labels are stored in
// canonical string form.
type TargetEntry struct {
	Name       string     `json:"name"`
	RuleKind   string     `json:"ruleKind"`
	Kind       string     `json:"kind"`
	Srcs       []string   `json:"srcs,omitempty"`
	Deps       []string   `json:"deps,omitempty"`
	Visibility []string   `json:"visibility,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Testonly   bool       `json:"testonly,omitempty"`
	Test       *TestEntry `json:"test,omitempty"`
}

// TestEntry carries test metadata for test targets.
type TestEntry struct {
	Size               string   `json:"size,omitempty"`
	ShardCount         int      `json:"shardCount,omitempty"`
	Timeout            string   `json:"timeout,omitempty"`
	Flaky              bool     `json:"flaky,omitempty"`
	DisabledSubstrates []string `json:"disabledSubstrates,omitempty"`
}

// New captures a snapshot of the workspace. Packages and targets are
// recorded in sorted order so output is deterministic.
func New(ws *buildgraph.Workspace) *Snapshot {
	snap := &Snapshot{
		Version:         FormatVersion,
		BuildFileHashes: make(map[string]string),
	}

	snap.ExternalRepos = append(snap.ExternalRepos, ws.ExternalRepos...)
	sort.Strings(snap.ExternalRepos)

	for _, path := range ws.PackagePaths() {
		pkg := ws.Packages[path]
		entry := PackageEntry{
			Path:              path,
			DefaultVisibility: pkg.DefaultVisibility,
		}

		targets := append([]*buildgraph.Target(nil), pkg.Targets...)
		sort.Slice(targets, func(i, j int) bool {
			return targets[i].Label.Name() < targets[j].Label.Name()
		})
		for _, target := range targets {
			entry.Targets = append(entry.Targets, targetEntry(target))
		}

		snap.Packages = append(snap.Packages, entry)

		if pkg.File != nil {
			snap.BuildFileHashes[path] = HashContent(ast.Format(pkg.File))
		}
	}

	return snap
}

func targetEntry(t *buildgraph.Target) TargetEntry {
	entry := TargetEntry{
		Name:       t.Label.Name(),
		RuleKind:   t.RuleKind,
		Kind:       string(t.Kind),
		Srcs:       t.Srcs,
		Visibility: t.Visibility,
		Tags:       t.Tags,
		Testonly:   t.Testonly,
	}
	for _, dep := range t.Deps {
		entry.Deps = append(entry.Deps, dep.String())
	}
	if t.Test != nil {
		entry.Test = &TestEntry{
			Size:               string(t.Test.Size),
			ShardCount:         t.Test.ShardCount,
			Timeout:            t.Test.Timeout,
			Flaky:              t.Test.Flaky,
			DisabledSubstrates: t.Test.DisabledSubstrates,
		}
	}
	return entry
}

// ToWorkspace reconstructs the workspace model the snapshot was captured
// from. The reconstructed packages carry no parsed BUILD files, only the
// target model.
func (s *Snapshot) ToWorkspace() (*buildgraph.Workspace, error) {
	ws := &buildgraph.Workspace{
		Packages:      make(map[string]*buildgraph.Package, len(s.Packages)),
		ExternalRepos: s.ExternalRepos,
	}

	for _, entry := range s.Packages {
		pkg := &buildgraph.Package{
			Path:              entry.Path,
			DefaultVisibility: entry.DefaultVisibility,
		}
		for _, te := range entry.Targets {
			target, err := snapshotTarget(entry.Path, te)
			if err != nil {
				return nil, fmt.Errorf("package %s: %w", entry.Path, err)
			}
			pkg.Targets = append(pkg.Targets, target)
		}
		ws.Packages[entry.Path] = pkg
	}

	return ws, nil
}

func snapshotTarget(pkgPath string, te TargetEntry) (*buildgraph.Target, error) {
	lbl, err := label.New("", pkgPath, te.Name)
	if err != nil {
		return nil, err
	}

	target := &buildgraph.Target{
		Label:      lbl,
		Kind:       buildgraph.TargetKind(te.Kind),
		RuleKind:   te.RuleKind,
		Srcs:       te.Srcs,
		Visibility: te.Visibility,
		Tags:       te.Tags,
		Testonly:   te.Testonly,
	}
	for _, dep := range te.Deps {
		depLabel, err := label.Parse(dep)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", te.Name, err)
		}
		target.Deps = append(target.Deps, depLabel)
	}
	if te.Test != nil {
		target.Test = &buildgraph.TestMetadata{
			Size:               buildgraph.TestSize(te.Test.Size),
			ShardCount:         te.Test.ShardCount,
			Timeout:            te.Test.Timeout,
			Flaky:              te.Test.Flaky,
			DisabledSubstrates: te.Test.DisabledSubstrates,
		}
	}
	return target, nil
}
