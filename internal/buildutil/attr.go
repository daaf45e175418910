// Package buildutil provides utilities for extracting rule attributes from
// buildtools AST nodes.
//
// BUILD rules are call expressions with keyword arguments. These helpers
// look up a keyword argument by name and coerce it to a Go value, returning
// the zero value when the attribute is absent or has a different shape.
package buildutil

import (
	"strconv"

	"github.com/bazelbuild/buildtools/build"
)

// attr returns the right-hand side of the keyword argument with the given
// name, or nil if the call has no such argument.
func attr(call *build.CallExpr, name string) build.Expr {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		if lhs, ok := assign.LHS.(*build.Ident); ok && lhs.Name == name {
			return assign.RHS
		}
	}
	return nil
}

// Has reports whether the call carries a keyword argument with the given name.
func Has(call *build.CallExpr, name string) bool {
	return attr(call, name) != nil
}

// String extracts a string attribute by name.
// Returns "" if the attribute is not found or not a string literal.
func String(call *build.CallExpr, name string) string {
	if str, ok := attr(call, name).(*build.StringExpr); ok {
		return str.Value
	}
	return ""
}

// Int extracts an integer attribute by name.
// Returns 0 if the attribute is not found or not a valid integer literal.
func Int(call *build.CallExpr, name string) int {
	if lit, ok := attr(call, name).(*build.LiteralExpr); ok {
		if val, err := strconv.Atoi(lit.Token); err == nil {
			return val
		}
	}
	return 0
}

// Bool extracts a boolean attribute by name.
// BUILD files encode booleans as the identifiers True/False, and a few
// legacy rules use 1/0 literals; both forms are accepted.
// Returns false if the attribute is not found.
func Bool(call *build.CallExpr, name string) bool {
	switch v := attr(call, name).(type) {
	case *build.Ident:
		return v.Name == "True"
	case *build.LiteralExpr:
		return v.Token == "1"
	}
	return false
}

// StringList extracts a list-of-strings attribute by name.
// Returns nil if the attribute is not found or not a list expression.
// Non-string elements (e.g. nested select() calls) are skipped; the caller
// can detect them with HasNonStrings.
func StringList(call *build.CallExpr, name string) []string {
	list, ok := attr(call, name).(*build.ListExpr)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list.List))
	for _, elem := range list.List {
		if str, ok := elem.(*build.StringExpr); ok {
			result = append(result, str.Value)
		}
	}
	return result
}

// HasNonStrings reports whether a list attribute contains elements that are
// not plain string literals, such as select() expressions or variables.
func HasNonStrings(call *build.CallExpr, name string) bool {
	rhs := attr(call, name)
	if rhs == nil {
		return false
	}
	list, ok := rhs.(*build.ListExpr)
	if !ok {
		// A non-list value (select(...), glob(...), identifier) counts.
		return true
	}
	for _, elem := range list.List {
		if _, ok := elem.(*build.StringExpr); !ok {
			return true
		}
	}
	return false
}

// PositionalStrings returns the positional string arguments of a call,
// in order, skipping keyword arguments and non-string positionals.
func PositionalStrings(call *build.CallExpr) []string {
	var result []string
	for _, arg := range call.List {
		if str, ok := arg.(*build.StringExpr); ok {
			result = append(result, str.Value)
		}
	}
	return result
}
