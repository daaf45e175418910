package buildgraph

import (
	"errors"
	"fmt"

	"github.com/albertocavalcante/go-buildgraph/label"
)

// Sentinel errors for workspace loading failures.
var (
	// ErrTargetNotFound indicates a requested target is not declared.
	ErrTargetNotFound = errors.New("target not found")

	// ErrDuplicateTarget indicates two rules in one package share a name.
	ErrDuplicateTarget = errors.New("duplicate target")

	// ErrNoBuildFiles indicates a workspace walk found nothing to parse.
	ErrNoBuildFiles = errors.New("no BUILD files found")
)

// DuplicateTargetError reports a target name declared twice in a package.
type DuplicateTargetError struct {
	Label label.Label
	File  string
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("%s: duplicate target %s", e.File, e.Label)
}

func (e *DuplicateTargetError) Unwrap() error {
	return ErrDuplicateTarget
}
