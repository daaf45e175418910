package ast

import (
	"fmt"
	"os"
	"strings"

	"github.com/bazelbuild/buildtools/build"

	"github.com/albertocavalcante/go-buildgraph/internal/buildutil"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
	Wrapped error
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

// ParseResult contains the parsed file and any diagnostics.
type ParseResult struct {
	File     *BuildFile
	Errors   []*ParseError
	Warnings []*ParseError
}

// HasErrors returns true if there were parse errors.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns a single error summarizing all parse errors, or nil.
func (r *ParseResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%d parse error(s): %s", len(r.Errors), strings.Join(msgs, "; "))
}

// Parser parses BUILD files into AST.
type Parser struct {
	filename string
	errors   []*ParseError
	warnings []*ParseError
}

// ParseFile reads and parses a BUILD file from disk.
func ParseFile(filename string) (*ParseResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return ParseContent(filename, data)
}

// ParseContent parses BUILD content from bytes.
func ParseContent(filename string, content []byte) (*ParseResult, error) {
	p := &Parser{filename: filename}
	return p.parse(content)
}

func (p *Parser) parse(content []byte) (*ParseResult, error) {
	raw, err := build.ParseBuild(p.filename, content)
	if err != nil {
		return nil, &ParseError{
			Pos:     Position{Filename: p.filename},
			Message: fmt.Sprintf("syntax error: %v", err),
			Wrapped: err,
		}
	}

	file := &BuildFile{
		Path: p.filename,
		raw:  raw,
	}

	for _, stmt := range raw.Stmt {
		p.parseStatement(file, stmt)
	}

	return &ParseResult{
		File:     file,
		Errors:   p.errors,
		Warnings: p.warnings,
	}, nil
}

func (p *Parser) parseStatement(file *BuildFile, expr build.Expr) {
	// load() statements have a dedicated node type in buildtools.
	if load, ok := expr.(*build.LoadStmt); ok {
		file.Loads = append(file.Loads, p.parseLoad(load))
		return
	}

	call, ok := expr.(*build.CallExpr)
	if !ok {
		// Variable assignments, comments, and list comprehensions carry no
		// target declarations.
		return
	}

	ident, ok := call.X.(*build.Ident)
	if !ok {
		return
	}

	pos := p.position(call)

	if ident.Name == "package" {
		if file.Package != nil {
			p.addError(pos, "duplicate package() declaration")
			return
		}
		file.Package = p.parsePackage(call, pos)
		return
	}

	name := buildutil.String(call, "name")
	if name == "" {
		// Calls carrying srcs/deps are rule declarations; a rule without a
		// name cannot be addressed by any label. Directive calls such as
		// exports_files() or licenses() legitimately have no name and pass
		// through as unknown statements.
		if buildutil.Has(call, "srcs") || buildutil.Has(call, "deps") {
			p.addError(pos, "%s: rule is missing a name attribute", ident.Name)
			return
		}
		file.Unknown = append(file.Unknown, &UnknownStatement{
			Pos:      pos,
			FuncName: ident.Name,
			Raw:      expr,
		})
		return
	}

	file.Rules = append(file.Rules, p.parseRule(call, ident.Name, name, pos))
}

func (p *Parser) parseLoad(load *build.LoadStmt) *LoadStmt {
	stmt := &LoadStmt{
		Pos: p.position(load),
	}
	if load.Module != nil {
		stmt.Module = load.Module.Value
	}
	for _, sym := range load.From {
		stmt.Symbols = append(stmt.Symbols, sym.Name)
	}
	return stmt
}

func (p *Parser) parsePackage(call *build.CallExpr, pos Position) *PackageDecl {
	decl := &PackageDecl{Pos: pos}

	decl.DefaultVisibility = buildutil.StringList(call, "default_visibility")
	decl.DefaultTestonly = buildutil.Bool(call, "default_testonly")
	decl.Features = buildutil.StringList(call, "features")

	if buildutil.HasNonStrings(call, "default_visibility") {
		p.addWarning(pos, "package: default_visibility contains non-literal entries, ignoring them")
	}

	return decl
}

func (p *Parser) parseRule(call *build.CallExpr, kind, name string, pos Position) *RuleDecl {
	rule := &RuleDecl{
		Pos:  pos,
		Kind: kind,
		Name: name,
	}

	rule.Srcs = p.stringList(call, "srcs", pos)
	rule.Deps = p.stringList(call, "deps", pos)
	rule.Data = p.stringList(call, "data", pos)
	rule.Tags = buildutil.StringList(call, "tags")
	rule.Testonly = buildutil.Bool(call, "testonly")

	// Distinguish an absent visibility attribute (inherit package default)
	// from an explicit empty list (private).
	if buildutil.Has(call, "visibility") {
		rule.Visibility = buildutil.StringList(call, "visibility")
		if rule.Visibility == nil {
			rule.Visibility = []string{}
		}
	}

	if isTestKind(kind) || buildutil.Has(call, "shard_count") || buildutil.Has(call, "size") {
		rule.Test = &TestAttrs{
			Size:       buildutil.String(call, "size"),
			ShardCount: buildutil.Int(call, "shard_count"),
			Timeout:    buildutil.String(call, "timeout"),
			Flaky:      buildutil.Bool(call, "flaky"),
		}
		if rule.Test.ShardCount < 0 {
			p.addError(pos, "%s: negative shard_count %d", name, rule.Test.ShardCount)
			rule.Test.ShardCount = 0
		}
		if rule.Test.Size != "" && !validTestSize(rule.Test.Size) {
			p.addError(pos, "%s: invalid test size %q", name, rule.Test.Size)
		}
	}

	return rule
}

// stringList extracts a list attribute, warning when select() or other
// non-literal expressions hide entries from static analysis.
func (p *Parser) stringList(call *build.CallExpr, attrName string, pos Position) []string {
	if buildutil.HasNonStrings(call, attrName) {
		p.addWarning(pos, "%s: %s contains non-literal entries (select/glob), only string literals are captured",
			buildutil.String(call, "name"), attrName)
	}
	return buildutil.StringList(call, attrName)
}

// isTestKind reports whether a rule function name declares a test target.
// Covers native rules (py_test, cc_test) and macro conventions used by
// multi-backend libraries (multi_substrate_py_test).
func isTestKind(kind string) bool {
	return strings.HasSuffix(kind, "_test") || kind == "test_suite"
}

func validTestSize(size string) bool {
	switch size {
	case "small", "medium", "large", "enormous":
		return true
	}
	return false
}

// Helper methods for diagnostics.

func (p *Parser) position(expr build.Expr) Position {
	start, _ := expr.Span()
	return Position{
		Filename: p.filename,
		Line:     start.Line,
		Column:   start.LineRune,
	}
}

func (p *Parser) addError(pos Position, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Parser) addWarning(pos Position, format string, args ...any) {
	p.warnings = append(p.warnings, &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}
