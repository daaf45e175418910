package buildutil

import (
	"reflect"
	"testing"

	"github.com/bazelbuild/buildtools/build"
)

// parseCall parses a BUILD snippet containing a single rule call.
func parseCall(t *testing.T, src string) *build.CallExpr {
	t.Helper()
	f, err := build.ParseBuild("BUILD", []byte(src))
	if err != nil {
		t.Fatalf("ParseBuild: %v", err)
	}
	for _, stmt := range f.Stmt {
		if call, ok := stmt.(*build.CallExpr); ok {
			return call
		}
	}
	t.Fatal("no call expression found")
	return nil
}

func TestString(t *testing.T) {
	call := parseCall(t, `py_test(name = "util_test", size = "medium")`)

	if got := String(call, "name"); got != "util_test" {
		t.Errorf("String(name) = %q, want %q", got, "util_test")
	}
	if got := String(call, "size"); got != "medium" {
		t.Errorf("String(size) = %q, want %q", got, "medium")
	}
	if got := String(call, "missing"); got != "" {
		t.Errorf("String(missing) = %q, want empty", got)
	}
}

func TestInt(t *testing.T) {
	call := parseCall(t, `py_test(name = "t", shard_count = 4)`)

	if got := Int(call, "shard_count"); got != 4 {
		t.Errorf("Int(shard_count) = %d, want 4", got)
	}
	if got := Int(call, "name"); got != 0 {
		t.Errorf("Int(name) = %d, want 0 for non-integer", got)
	}
}

func TestBool(t *testing.T) {
	call := parseCall(t, `py_library(name = "t", testonly = True, flaky = False, legacy = 1)`)

	if !Bool(call, "testonly") {
		t.Error("Bool(testonly) = false, want true")
	}
	if Bool(call, "flaky") {
		t.Error("Bool(flaky) = true, want false")
	}
	if !Bool(call, "legacy") {
		t.Error("Bool(legacy) = false, want true for 1 literal")
	}
	if Bool(call, "missing") {
		t.Error("Bool(missing) = true, want false")
	}
}

func TestStringList(t *testing.T) {
	call := parseCall(t, `py_library(name = "t", deps = [":seed_stream", "//util:util"])`)

	want := []string{":seed_stream", "//util:util"}
	if got := StringList(call, "deps"); !reflect.DeepEqual(got, want) {
		t.Errorf("StringList(deps) = %v, want %v", got, want)
	}
	if got := StringList(call, "missing"); got != nil {
		t.Errorf("StringList(missing) = %v, want nil", got)
	}
}

func TestHasNonStrings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		attr string
		want bool
	}{
		{"plain list", `r(name = "t", deps = [":a"])`, "deps", false},
		{"select value", `r(name = "t", deps = select({"//:x": [":a"]}))`, "deps", true},
		{"list with select", `r(name = "t", deps = [":a"] + select({"//:x": [":b"]}))`, "deps", true},
		{"glob srcs", `r(name = "t", srcs = glob(["*.py"]))`, "srcs", true},
		{"absent", `r(name = "t")`, "deps", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := parseCall(t, tt.src)
			if got := HasNonStrings(call, tt.attr); got != tt.want {
				t.Errorf("HasNonStrings(%s) = %v, want %v", tt.attr, got, tt.want)
			}
		})
	}
}

func TestPositionalStrings(t *testing.T) {
	call := parseCall(t, `exports_files(["LICENSE", "README.md"])`)
	// List literals are not positional strings.
	if got := PositionalStrings(call); got != nil {
		t.Errorf("PositionalStrings = %v, want nil for list argument", got)
	}

	call = parseCall(t, `package_group(name = "g")`)
	if got := PositionalStrings(call); got != nil {
		t.Errorf("PositionalStrings = %v, want nil", got)
	}
}

func TestHas(t *testing.T) {
	call := parseCall(t, `py_test(name = "t", shard_count = 2)`)
	if !Has(call, "shard_count") {
		t.Error("Has(shard_count) = false, want true")
	}
	if Has(call, "size") {
		t.Error("Has(size) = true, want false")
	}
}
