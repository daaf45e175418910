package ast

import (
	"strconv"

	"github.com/bazelbuild/buildtools/build"
)

// Format renders a BuildFile back to canonical BUILD text.
//
// The output contains exactly the declarations the AST holds (package
// defaults, loads, rules) with attributes in a fixed order, formatted by
// buildtools' standard formatter. Parsing the output again yields an
// equivalent BuildFile, which is the round-trip property the snapshot
// package builds on.
func Format(f *BuildFile) []byte {
	out := &build.File{
		Path: f.Path,
		Type: build.TypeBuild,
	}

	for _, load := range f.Loads {
		out.Stmt = append(out.Stmt, loadStmt(load))
	}

	if f.Package != nil {
		out.Stmt = append(out.Stmt, packageCall(f.Package))
	}

	for _, rule := range f.Rules {
		out.Stmt = append(out.Stmt, ruleCall(rule))
	}

	return build.Format(out)
}

func loadStmt(l *LoadStmt) *build.LoadStmt {
	stmt := &build.LoadStmt{
		Module: &build.StringExpr{Value: l.Module},
	}
	for _, sym := range l.Symbols {
		stmt.From = append(stmt.From, &build.Ident{Name: sym})
		stmt.To = append(stmt.To, &build.Ident{Name: sym})
	}
	return stmt
}

func packageCall(p *PackageDecl) *build.CallExpr {
	call := &build.CallExpr{
		X:              &build.Ident{Name: "package"},
		ForceMultiLine: true,
	}
	if len(p.DefaultVisibility) > 0 {
		call.List = append(call.List, assignList("default_visibility", p.DefaultVisibility))
	}
	if p.DefaultTestonly {
		call.List = append(call.List, assignBool("default_testonly", true))
	}
	if len(p.Features) > 0 {
		call.List = append(call.List, assignList("features", p.Features))
	}
	return call
}

func ruleCall(r *RuleDecl) *build.CallExpr {
	call := &build.CallExpr{
		X:              &build.Ident{Name: r.Kind},
		ForceMultiLine: true,
	}

	add := func(expr build.Expr) { call.List = append(call.List, expr) }

	add(assignString("name", r.Name))
	if len(r.Srcs) > 0 {
		add(assignList("srcs", r.Srcs))
	}
	if len(r.Deps) > 0 {
		add(assignList("deps", r.Deps))
	}
	if len(r.Data) > 0 {
		add(assignList("data", r.Data))
	}
	if r.Test != nil {
		if r.Test.Size != "" {
			add(assignString("size", r.Test.Size))
		}
		if r.Test.Timeout != "" {
			add(assignString("timeout", r.Test.Timeout))
		}
		if r.Test.ShardCount > 0 {
			add(assignInt("shard_count", r.Test.ShardCount))
		}
		if r.Test.Flaky {
			add(assignBool("flaky", true))
		}
	}
	if len(r.Tags) > 0 {
		add(assignList("tags", r.Tags))
	}
	if r.Testonly {
		add(assignBool("testonly", true))
	}
	if r.Visibility != nil {
		add(assignList("visibility", r.Visibility))
	}

	return call
}

func assignString(name, value string) *build.AssignExpr {
	return &build.AssignExpr{
		LHS: &build.Ident{Name: name},
		Op:  "=",
		RHS: &build.StringExpr{Value: value},
	}
}

func assignInt(name string, value int) *build.AssignExpr {
	return &build.AssignExpr{
		LHS: &build.Ident{Name: name},
		Op:  "=",
		RHS: &build.LiteralExpr{Token: strconv.Itoa(value)},
	}
}

func assignBool(name string, value bool) *build.AssignExpr {
	token := "False"
	if value {
		token = "True"
	}
	return &build.AssignExpr{
		LHS: &build.Ident{Name: name},
		Op:  "=",
		RHS: &build.Ident{Name: token},
	}
}

func assignList(name string, values []string) *build.AssignExpr {
	list := &build.ListExpr{ForceMultiLine: len(values) > 1}
	for _, v := range values {
		list.List = append(list.List, &build.StringExpr{Value: v})
	}
	return &build.AssignExpr{
		LHS: &build.Ident{Name: name},
		Op:  "=",
		RHS: list,
	}
}
