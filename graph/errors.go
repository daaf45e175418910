package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/albertocavalcante/go-buildgraph/label"
)

// Sentinel errors surfaced by resolution and validation.
var (
	// ErrUnresolvedDependency indicates a dependency reference names no
	// declared target or external repository.
	ErrUnresolvedDependency = errors.New("unresolved dependency")

	// ErrCyclicDependency indicates the graph contains a dependency cycle.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrDuplicateTestSrc indicates two test targets in one package declare
	// the same source file.
	ErrDuplicateTestSrc = errors.New("duplicate test source")
)

// UnresolvedDependencyError reports a dangling dependency reference.
type UnresolvedDependencyError struct {
	// From is the target declaring the reference; zero when the missing
	// label was requested directly.
	From label.Label

	// Missing is the reference that resolves to nothing.
	Missing label.Label
}

func (e *UnresolvedDependencyError) Error() string {
	if e.From.IsEmpty() {
		return fmt.Sprintf("unresolved dependency: no such target %s", e.Missing)
	}
	return fmt.Sprintf("unresolved dependency: %s -> %s", e.From, e.Missing)
}

func (e *UnresolvedDependencyError) Unwrap() error {
	return ErrUnresolvedDependency
}

// CycleError reports a dependency cycle. Cycle holds the labels on the
// cycle in order; the first label closes the loop with the last.
type CycleError struct {
	Cycle []label.Label
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Cycle)+1)
	for _, l := range e.Cycle {
		parts = append(parts, l.String())
	}
	if len(e.Cycle) > 0 {
		parts = append(parts, e.Cycle[0].String())
	}
	return "cyclic dependency: " + strings.Join(parts, " -> ")
}

func (e *CycleError) Unwrap() error {
	return ErrCyclicDependency
}

// DuplicateTestSrcError reports a test source file declared by more than
// one test target in the same package.
type DuplicateTestSrcError struct {
	Package string
	Src     string
	Targets []label.Label
}

func (e *DuplicateTestSrcError) Error() string {
	names := make([]string, len(e.Targets))
	for i, t := range e.Targets {
		names[i] = t.String()
	}
	return fmt.Sprintf("duplicate test source %q in package //%s: declared by %s",
		e.Src, e.Package, strings.Join(names, ", "))
}

func (e *DuplicateTestSrcError) Unwrap() error {
	return ErrDuplicateTestSrc
}
