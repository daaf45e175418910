// Package testplan enumerates test targets and expands their shard
// execution plans.
//
// The build target graph only declares test metadata (size classification,
// shard count, substrate restrictions); actually running tests belongs to
// an external runner. This package computes what that runner consumes: the
// list of test targets under a package prefix and, per target, one run
// entry per shard with the timeout budget its size class grants.
package testplan

import (
	"sort"
	"strings"
	"time"

	buildgraph "github.com/albertocavalcante/go-buildgraph"
	"github.com/albertocavalcante/go-buildgraph/label"
)

// Run is a single scheduled test execution: one shard of one test target.
type Run struct {
	// Target is the test target to execute.
	Target label.Label `json:"target"`

	// Shard is the zero-based shard index.
	Shard int `json:"shard"`

	// TotalShards is the target's declared shard count; 1 for unsharded
	// tests.
	TotalShards int `json:"total_shards"`

	// Timeout is the execution budget, derived from the declared timeout
	// class when present, otherwise from the size classification.
	Timeout time.Duration `json:"timeout"`

	// Flaky requests automatic retries from the runner.
	Flaky bool `json:"flaky,omitempty"`
}

// Plan is a complete test execution plan.
type Plan struct {
	Runs []Run `json:"runs"`
}

// Targets returns the distinct test targets in the plan, in order.
func (p *Plan) Targets() []label.Label {
	var targets []label.Label
	seen := make(map[label.Label]bool)
	for _, run := range p.Runs {
		if !seen[run.Target] {
			seen[run.Target] = true
			targets = append(targets, run.Target)
		}
	}
	return targets
}

// Options filters and shapes plan construction.
type Options struct {
	// Substrate, when non-empty, excludes tests whose metadata disables
	// that substrate (declared via "no-<substrate>" tags).
	Substrate string

	// Tag, when non-empty, keeps only tests carrying the tag.
	Tag string
}

// Enumerate returns the test targets under a package prefix, sorted by
// label. An empty prefix enumerates the whole workspace.
func Enumerate(ws *buildgraph.Workspace, pkgPrefix string) []*buildgraph.Target {
	var tests []*buildgraph.Target
	for _, target := range ws.Targets() {
		if target.Kind != buildgraph.KindTest {
			continue
		}
		if !underPrefix(target.Label.Package(), pkgPrefix) {
			continue
		}
		tests = append(tests, target)
	}
	sort.Slice(tests, func(i, j int) bool {
		return label.Compare(tests[i].Label, tests[j].Label) < 0
	})
	return tests
}

// New builds an execution plan for the given test targets: one Run per
// shard, with timeouts derived from the declared metadata.
func New(tests []*buildgraph.Target, opts Options) *Plan {
	plan := &Plan{}

	for _, test := range tests {
		meta := test.Test
		if meta == nil {
			// A test target without metadata still runs, unsharded, with
			// the medium default budget.
			meta = &buildgraph.TestMetadata{Size: buildgraph.SizeMedium}
		}

		if opts.Substrate != "" && disabledOn(meta, opts.Substrate) {
			continue
		}
		if opts.Tag != "" && !test.HasTag(opts.Tag) {
			continue
		}

		shards := meta.ShardCount
		if shards < 1 {
			shards = 1
		}
		timeout := timeoutFor(meta)

		for shard := 0; shard < shards; shard++ {
			plan.Runs = append(plan.Runs, Run{
				Target:      test.Label,
				Shard:       shard,
				TotalShards: shards,
				Timeout:     timeout,
				Flaky:       meta.Flaky,
			})
		}
	}

	return plan
}

// timeoutFor maps an explicit timeout class to its budget, falling back to
// the size-derived default. Classes match Bazel's: short=1m, moderate=5m,
// long=15m, eternal=1h.
func timeoutFor(meta *buildgraph.TestMetadata) time.Duration {
	switch meta.Timeout {
	case "short":
		return time.Minute
	case "moderate":
		return 5 * time.Minute
	case "long":
		return 15 * time.Minute
	case "eternal":
		return time.Hour
	}
	return meta.Size.DefaultTimeout()
}

func disabledOn(meta *buildgraph.TestMetadata, substrate string) bool {
	for _, disabled := range meta.DisabledSubstrates {
		if disabled == substrate {
			return true
		}
	}
	return false
}

// underPrefix reports whether pkg is pkgPrefix itself or nested below it.
func underPrefix(pkg, prefix string) bool {
	if prefix == "" || pkg == prefix {
		return true
	}
	return strings.HasPrefix(pkg, prefix+"/")
}
