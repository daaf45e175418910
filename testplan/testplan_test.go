package testplan

import (
	"testing"
	"time"

	buildgraph "github.com/albertocavalcante/go-buildgraph"
	"github.com/albertocavalcante/go-buildgraph/label"
)

const internalBuild = `
multi_substrate_py_test(
    name = "util_test",
    size = "small",
    srcs = ["util_test.py"],
    shard_count = 3,
    tags = ["no-jax"],
)

multi_substrate_py_library(
    name = "util",
    srcs = ["util.py"],
)
`

const distributionsBuild = `
multi_substrate_py_test(
    name = "normal_test",
    size = "medium",
    srcs = ["normal_test.py"],
    flaky = True,
)

py_test(
    name = "slow_test",
    timeout = "eternal",
    srcs = ["slow_test.py"],
    tags = ["gpu"],
)
`

func loadTestWorkspace(t *testing.T) *buildgraph.Workspace {
	t.Helper()
	ws := &buildgraph.Workspace{Packages: map[string]*buildgraph.Package{}}
	for path, content := range map[string]string{
		"internal":               internalBuild,
		"distributions":          distributionsBuild,
		"distributions/internal": `py_test(name = "nested_test", srcs = ["nested_test.py"])`,
	} {
		pkg, err := buildgraph.ParseBuildContent(path, []byte(content))
		if err != nil {
			t.Fatalf("ParseBuildContent(%s): %v", path, err)
		}
		ws.Packages[path] = pkg
	}
	return ws
}

func TestEnumerate(t *testing.T) {
	ws := loadTestWorkspace(t)

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{
			name:   "whole workspace",
			prefix: "",
			want: []string{
				"//distributions/internal:nested_test",
				"//distributions:normal_test",
				"//distributions:slow_test",
				"//internal:util_test",
			},
		},
		{
			name:   "package prefix includes subpackages",
			prefix: "distributions",
			want: []string{
				"//distributions/internal:nested_test",
				"//distributions:normal_test",
				"//distributions:slow_test",
			},
		},
		{
			name:   "prefix is a path boundary, not a string prefix",
			prefix: "dist",
			want:   nil,
		},
		{
			name:   "exact package",
			prefix: "distributions/internal",
			want:   []string{"//distributions/internal:nested_test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Enumerate(ws, tt.prefix)
			if len(got) != len(tt.want) {
				t.Fatalf("Enumerate(%q) = %d targets, want %d", tt.prefix, len(got), len(tt.want))
			}
			for i, target := range got {
				if target.Label.String() != tt.want[i] {
					t.Errorf("target[%d] = %s, want %s", i, target.Label, tt.want[i])
				}
			}
		})
	}
}

func TestEnumerateSkipsLibraries(t *testing.T) {
	ws := loadTestWorkspace(t)
	for _, target := range Enumerate(ws, "") {
		if target.Kind != buildgraph.KindTest {
			t.Errorf("enumerated non-test target %s (%s)", target.Label, target.Kind)
		}
	}
}

func TestNewExpandsShards(t *testing.T) {
	ws := loadTestWorkspace(t)
	plan := New(Enumerate(ws, "internal"), Options{})

	if len(plan.Runs) != 3 {
		t.Fatalf("runs = %d, want 3 shards", len(plan.Runs))
	}
	for i, run := range plan.Runs {
		if run.Target.String() != "//internal:util_test" {
			t.Errorf("run[%d].Target = %s", i, run.Target)
		}
		if run.Shard != i {
			t.Errorf("run[%d].Shard = %d", i, run.Shard)
		}
		if run.TotalShards != 3 {
			t.Errorf("run[%d].TotalShards = %d", i, run.TotalShards)
		}
		if run.Timeout != time.Minute {
			t.Errorf("run[%d].Timeout = %v, want 1m for a small test", i, run.Timeout)
		}
	}
}

func TestNewTimeouts(t *testing.T) {
	ws := loadTestWorkspace(t)
	plan := New(Enumerate(ws, "distributions"), Options{})

	timeouts := make(map[string]time.Duration)
	flaky := make(map[string]bool)
	for _, run := range plan.Runs {
		timeouts[run.Target.String()] = run.Timeout
		flaky[run.Target.String()] = run.Flaky
	}

	// Size-derived default.
	if got := timeouts["//distributions:normal_test"]; got != 5*time.Minute {
		t.Errorf("normal_test timeout = %v, want 5m", got)
	}
	// Explicit timeout class overrides the size default.
	if got := timeouts["//distributions:slow_test"]; got != time.Hour {
		t.Errorf("slow_test timeout = %v, want 1h", got)
	}
	if !flaky["//distributions:normal_test"] {
		t.Error("normal_test should carry the flaky flag")
	}
}

func TestNewSubstrateFilter(t *testing.T) {
	ws := loadTestWorkspace(t)

	all := New(Enumerate(ws, ""), Options{})
	jax := New(Enumerate(ws, ""), Options{Substrate: "jax"})

	if len(jax.Targets()) != len(all.Targets())-1 {
		t.Fatalf("jax plan has %d targets, want one fewer than %d",
			len(jax.Targets()), len(all.Targets()))
	}
	for _, target := range jax.Targets() {
		if target.String() == "//internal:util_test" {
			t.Error("util_test is tagged no-jax and must be excluded")
		}
	}

	// Filtering on a substrate nothing disables keeps everything.
	numpy := New(Enumerate(ws, ""), Options{Substrate: "numpy"})
	if len(numpy.Runs) != len(all.Runs) {
		t.Errorf("numpy plan runs = %d, want %d", len(numpy.Runs), len(all.Runs))
	}
}

func TestNewTagFilter(t *testing.T) {
	ws := loadTestWorkspace(t)
	plan := New(Enumerate(ws, ""), Options{Tag: "gpu"})

	targets := plan.Targets()
	if len(targets) != 1 || targets[0].String() != "//distributions:slow_test" {
		t.Errorf("gpu-tagged targets = %v", targets)
	}
}

func TestPlanTargetsDeduplicates(t *testing.T) {
	ws := loadTestWorkspace(t)
	plan := New(Enumerate(ws, "internal"), Options{})

	targets := plan.Targets()
	if len(targets) != 1 {
		t.Fatalf("Targets() = %v, want the single sharded target once", targets)
	}
	if targets[0] != label.MustParse("//internal:util_test") {
		t.Errorf("target = %s", targets[0])
	}
}
