package graph

import (
	"errors"

	"github.com/albertocavalcante/go-buildgraph/label"
)

// Validate checks the whole graph against its structural invariants:
//
//   - every dependency reference resolves to a declared target or external
//     repository (no dangling references)
//   - the dependency graph is acyclic
//   - every test source file is declared by at most one test target within
//     its package
//
// All violations are collected and returned joined, so callers can report
// everything wrong with a manifest in one pass. Returns nil when the graph
// is valid.
func (g *Graph) Validate() error {
	var errs []error

	for _, key := range g.sortedKeys() {
		node := g.Nodes[key]
		for _, dep := range node.Deps {
			if g.resolvesExternally(dep) {
				continue
			}
			if _, ok := g.Nodes[dep]; !ok {
				errs = append(errs, &UnresolvedDependencyError{From: key, Missing: dep})
			}
		}
	}

	for _, cycle := range g.FindCycles() {
		errs = append(errs, &CycleError{Cycle: cycle})
	}

	errs = append(errs, g.validateTestSrcs()...)

	return errors.Join(errs...)
}

// validateTestSrcs enforces test source uniqueness within each package.
func (g *Graph) validateTestSrcs() []error {
	// package path -> src file -> declaring test targets
	byPackage := make(map[string]map[string][]label.Label)

	for _, key := range g.sortedKeys() {
		node := g.Nodes[key]
		if !node.IsTest {
			continue
		}
		pkg := key.Package()
		if byPackage[pkg] == nil {
			byPackage[pkg] = make(map[string][]label.Label)
		}
		for _, src := range node.Srcs {
			byPackage[pkg][src] = append(byPackage[pkg][src], key)
		}
	}

	var errs []error
	for _, pkg := range sortedStringKeys(byPackage) {
		srcs := byPackage[pkg]
		for _, src := range sortedStringKeys(srcs) {
			if targets := srcs[src]; len(targets) > 1 {
				errs = append(errs, &DuplicateTestSrcError{
					Package: pkg,
					Src:     src,
					Targets: targets,
				})
			}
		}
	}
	return errs
}
