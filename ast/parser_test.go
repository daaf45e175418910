package ast

import (
	"errors"
	"strings"
	"testing"
)

func TestParseContent(t *testing.T) {
	content := `
load("//tools:defs.bzl", "multi_substrate_py_library", "multi_substrate_py_test")

package(
    default_visibility = ["//:__subpackages__"],
)

multi_substrate_py_library(
    name = "seed_stream",
    srcs = ["seed_stream.py"],
)

multi_substrate_py_library(
    name = "util",
    srcs = ["util.py"],
    deps = [
        ":deferred_tensor",
        ":seed_stream",
    ],
)

multi_substrate_py_test(
    name = "util_test",
    size = "medium",
    srcs = ["util_test.py"],
    shard_count = 4,
    tags = ["no-jax"],
    deps = [":util"],
)
`
	result, err := ParseContent("internal/BUILD", []byte(content))
	if err != nil {
		t.Fatalf("ParseContent: %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	file := result.File
	if file.Package == nil {
		t.Fatal("expected package() declaration")
	}
	if got := file.Package.DefaultVisibility; len(got) != 1 || got[0] != "//:__subpackages__" {
		t.Errorf("DefaultVisibility = %v", got)
	}

	if len(file.Loads) != 1 {
		t.Fatalf("expected 1 load, got %d", len(file.Loads))
	}
	if file.Loads[0].Module != "//tools:defs.bzl" {
		t.Errorf("load module = %q", file.Loads[0].Module)
	}
	if len(file.Loads[0].Symbols) != 2 {
		t.Errorf("load symbols = %v", file.Loads[0].Symbols)
	}

	if len(file.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(file.Rules))
	}

	util := file.Rules[1]
	if util.Name != "util" || util.Kind != "multi_substrate_py_library" {
		t.Errorf("rule[1] = %s %s", util.Kind, util.Name)
	}
	if len(util.Deps) != 2 || util.Deps[0] != ":deferred_tensor" {
		t.Errorf("util deps = %v", util.Deps)
	}
	if util.IsTest() {
		t.Error("library rule reported as test")
	}
	if util.Visibility != nil {
		t.Errorf("util visibility = %v, want nil (inherit default)", util.Visibility)
	}

	test := file.Rules[2]
	if !test.IsTest() {
		t.Fatal("util_test not recognized as test")
	}
	if test.Test.Size != "medium" {
		t.Errorf("size = %q", test.Test.Size)
	}
	if test.Test.ShardCount != 4 {
		t.Errorf("shard_count = %d", test.Test.ShardCount)
	}
	if len(test.Tags) != 1 || test.Tags[0] != "no-jax" {
		t.Errorf("tags = %v", test.Tags)
	}
}

func TestParseContentDiagnostics(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErrs    int
		wantWarns   int
		errContains string
	}{
		{
			name: "duplicate package",
			content: `package(default_visibility = ["//visibility:public"])
package(default_visibility = ["//visibility:private"])`,
			wantErrs:    1,
			errContains: "duplicate package()",
		},
		{
			name:        "invalid test size",
			content:     `py_test(name = "t", size = "gigantic", srcs = ["t.py"])`,
			wantErrs:    1,
			errContains: "invalid test size",
		},
		{
			name:      "select in deps warns",
			content:   `py_library(name = "l", deps = select({"//:a": [":x"]}))`,
			wantWarns: 1,
		},
		{
			name:     "directive without name is unknown",
			content:  `exports_files(["LICENSE"])`,
			wantErrs: 0,
		},
		{
			name:        "rule missing name is an error",
			content:     `py_library(srcs = ["lib.py"])`,
			wantErrs:    1,
			errContains: "missing a name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseContent("BUILD", []byte(tt.content))
			if err != nil {
				t.Fatalf("ParseContent: %v", err)
			}
			if len(result.Errors) != tt.wantErrs {
				t.Errorf("errors = %v, want %d", result.Errors, tt.wantErrs)
			}
			if tt.wantWarns > 0 && len(result.Warnings) != tt.wantWarns {
				t.Errorf("warnings = %v, want %d", result.Warnings, tt.wantWarns)
			}
			if tt.errContains != "" && len(result.Errors) > 0 {
				if !strings.Contains(result.Errors[0].Message, tt.errContains) {
					t.Errorf("error %q does not contain %q", result.Errors[0].Message, tt.errContains)
				}
			}
		})
	}
}

func TestParseContentSyntaxError(t *testing.T) {
	_, err := ParseContent("BUILD", []byte(`py_library(name = `))
	if err == nil {
		t.Fatal("expected syntax error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T, want *ParseError", err)
	}
}

func TestParseExplicitEmptyVisibility(t *testing.T) {
	content := `py_library(name = "private_lib", visibility = [])`
	result, err := ParseContent("BUILD", []byte(content))
	if err != nil {
		t.Fatalf("ParseContent: %v", err)
	}
	rule := result.File.Rules[0]
	if rule.Visibility == nil {
		t.Fatal("explicit empty visibility parsed as nil")
	}
	if len(rule.Visibility) != 0 {
		t.Errorf("visibility = %v, want empty list", rule.Visibility)
	}
}

func TestUnknownStatements(t *testing.T) {
	content := `
licenses(["notice"])

exports_files(["LICENSE"])

py_library(name = "lib")
`
	result, err := ParseContent("BUILD", []byte(content))
	if err != nil {
		t.Fatalf("ParseContent: %v", err)
	}
	if len(result.File.Unknown) != 2 {
		t.Errorf("unknown statements = %d, want 2", len(result.File.Unknown))
	}
	if len(result.File.Rules) != 1 {
		t.Errorf("rules = %d, want 1", len(result.File.Rules))
	}
}
