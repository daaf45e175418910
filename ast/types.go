// Package ast provides AST types for BUILD and BUILD.bazel files.
// It wraps github.com/bazelbuild/buildtools/build with higher-level types
// describing build targets rather than raw Starlark expressions.
package ast

import (
	"github.com/bazelbuild/buildtools/build"
)

// Position represents a source position for diagnostics.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// BuildFile represents a parsed BUILD file.
type BuildFile struct {
	// Path is the file path the content was parsed from.
	Path string

	// Package is the package() declaration, or nil if the file has none.
	Package *PackageDecl

	// Loads are the load() statements, in source order.
	Loads []*LoadStmt

	// Rules are the target-declaring rule calls, in source order.
	Rules []*RuleDecl

	// Unknown are statements the parser recognized as calls but could not
	// classify (no name attribute, macros without targets, etc.).
	Unknown []*UnknownStatement

	raw *build.File
}

// Raw returns the underlying buildtools File for advanced use cases.
func (f *BuildFile) Raw() *build.File {
	return f.raw
}

// Statement is the interface for all BUILD file statements.
type Statement interface {
	Position() Position
	isStatement()
}

// PackageDecl represents a package() declaration. At most one is allowed
// per BUILD file; its default_visibility applies to every rule in the file
// that lacks an explicit visibility attribute.
type PackageDecl struct {
	Pos               Position
	DefaultVisibility []string
	DefaultTestonly   bool
	Features          []string
}

func (p *PackageDecl) Position() Position { return p.Pos }
func (p *PackageDecl) isStatement()       {}

// LoadStmt represents a load() statement.
type LoadStmt struct {
	Pos     Position
	Module  string   // the .bzl label being loaded
	Symbols []string // symbols imported from the module
}

func (l *LoadStmt) Position() Position { return l.Pos }
func (l *LoadStmt) isStatement()       {}

// RuleDecl represents a target-declaring rule call such as
// py_library(name = ...), py_test(name = ...), or a macro invocation with
// the same shape (multi_substrate_py_library, etc.).
type RuleDecl struct {
	Pos Position

	// Kind is the rule function name (e.g. "py_library", "py_test").
	Kind string

	// Name is the target name within the package. Always non-empty for a
	// RuleDecl; calls without a name become UnknownStatement.
	Name string

	Srcs       []string
	Deps       []string
	Data       []string
	Visibility []string // nil means "inherit package default"
	Tags       []string
	Testonly   bool

	// Test holds test-only attributes. Nil for non-test rules.
	Test *TestAttrs
}

func (r *RuleDecl) Position() Position { return r.Pos }
func (r *RuleDecl) isStatement()       {}

// IsTest reports whether the rule declares a test target.
func (r *RuleDecl) IsTest() bool {
	return r.Test != nil
}

// TestAttrs holds the test execution metadata declared on a test rule.
type TestAttrs struct {
	// Size is the declared test size: "small", "medium", "large", or
	// "enormous". Empty means the runner default ("medium").
	Size string

	// ShardCount is the declared shard count, 0 when unsharded.
	ShardCount int

	// Timeout is the declared timeout class ("short", "moderate", "long",
	// "eternal"), empty to derive from Size.
	Timeout string

	// Flaky marks the test for automatic retries by the runner.
	Flaky bool
}

// UnknownStatement preserves calls the parser could not classify.
type UnknownStatement struct {
	Pos      Position
	FuncName string
	Raw      build.Expr
}

func (u *UnknownStatement) Position() Position { return u.Pos }
func (u *UnknownStatement) isStatement()       {}
