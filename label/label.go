// Package label provides strongly-typed, validated Bazel target labels.
//
// A label names a single target within a workspace. Labels are immutable
// and validate their components at construction time; zero values are
// invalid; use [Parse], [ParseRelative], or [New] to create instances.
//
// # Forms
//
// The accepted forms are:
//   - "//pkg/path:name": absolute label
//   - "//pkg/path": shorthand for "//pkg/path:path" (last segment)
//   - ":name" or "name": relative to a declaring package (ParseRelative)
//   - "@repo//pkg:name": label in an external repository
//
// # Validation Patterns
//
// Package paths are slash-separated segments matching [a-zA-Z0-9._-]+.
// Target names must match: [a-zA-Z0-9_.][a-zA-Z0-9_.+=,@~/-]*
// Repository names must match: [a-zA-Z][a-zA-Z0-9._-]*
package label

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	pkgSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	targetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.][a-zA-Z0-9_.+=,@~/-]*$`)
	repoNameRegex   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._-]*$`)
)

// Label identifies a single build target. The zero value is invalid.
type Label struct {
	repo string // external repository name, empty for the main workspace
	pkg  string // package path, no leading or trailing slashes
	name string // target name within the package
}

// New creates a validated Label from its components. repo may be empty
// for targets in the main workspace.
func New(repo, pkg, name string) (Label, error) {
	if repo != "" && !repoNameRegex.MatchString(repo) {
		return Label{}, fmt.Errorf("invalid repository name %q: must match [a-zA-Z][a-zA-Z0-9._-]*", repo)
	}
	if err := validatePackagePath(pkg); err != nil {
		return Label{}, err
	}
	if name == "" {
		return Label{}, fmt.Errorf("target name cannot be empty")
	}
	if !targetNameRegex.MatchString(name) {
		return Label{}, fmt.Errorf("invalid target name %q", name)
	}
	return Label{repo: repo, pkg: pkg, name: name}, nil
}

// Must creates a Label or panics. Use only for constants and tests.
func Must(repo, pkg, name string) Label {
	l, err := New(repo, pkg, name)
	if err != nil {
		panic(err)
	}
	return l
}

// Parse parses an absolute label ("//pkg:name", "//pkg", "@repo//pkg:name").
func Parse(s string) (Label, error) {
	if s == "" {
		return Label{}, fmt.Errorf("label cannot be empty")
	}

	var repo string
	rest := s
	if strings.HasPrefix(rest, "@") {
		slash := strings.Index(rest, "//")
		if slash < 0 {
			return Label{}, fmt.Errorf("invalid label %q: external label requires //", s)
		}
		repo = rest[1:slash]
		rest = rest[slash:]
	}

	if !strings.HasPrefix(rest, "//") {
		return Label{}, fmt.Errorf("invalid label %q: absolute label must start with // or @", s)
	}
	rest = rest[2:]

	pkg := rest
	name := ""
	if colon := strings.IndexByte(rest, ':'); colon >= 0 {
		pkg = rest[:colon]
		name = rest[colon+1:]
	} else {
		// Shorthand: //a/b means //a/b:b.
		if idx := strings.LastIndexByte(pkg, '/'); idx >= 0 {
			name = pkg[idx+1:]
		} else {
			name = pkg
		}
	}
	if name == "" {
		return Label{}, fmt.Errorf("invalid label %q: missing target name", s)
	}

	return New(repo, pkg, name)
}

// MustParse parses an absolute label or panics. Use only for constants/tests.
func MustParse(s string) Label {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// ParseRelative parses a label as it appears inside a BUILD file of the
// given package. Relative forms (":name", "name") are canonicalized against
// pkg; absolute forms are parsed as by Parse.
func ParseRelative(s, pkg string) (Label, error) {
	if s == "" {
		return Label{}, fmt.Errorf("label cannot be empty")
	}
	if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "@") {
		return Parse(s)
	}
	name := strings.TrimPrefix(s, ":")
	return New("", pkg, name)
}

// Repo returns the external repository name, or "" for the main workspace.
func (l Label) Repo() string { return l.repo }

// Package returns the package path (no leading slashes).
func (l Label) Package() string { return l.pkg }

// Name returns the target name within the package.
func (l Label) Name() string { return l.name }

// IsExternal reports whether the label points into an external repository.
func (l Label) IsExternal() bool { return l.repo != "" }

// IsEmpty reports whether this is a zero-value Label.
func (l Label) IsEmpty() bool { return l.name == "" }

// String returns the canonical form, always including the target name.
func (l Label) String() string {
	if l.repo != "" {
		return "@" + l.repo + "//" + l.pkg + ":" + l.name
	}
	return "//" + l.pkg + ":" + l.name
}

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (l Label) MarshalText() ([]byte, error) {
	if l.IsEmpty() {
		return nil, fmt.Errorf("cannot marshal zero-value label")
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Compare orders labels lexically by canonical string form.
func Compare(a, b Label) int {
	return strings.Compare(a.String(), b.String())
}

func validatePackagePath(pkg string) error {
	if pkg == "" {
		return nil // root package
	}
	if strings.HasPrefix(pkg, "/") || strings.HasSuffix(pkg, "/") {
		return fmt.Errorf("invalid package path %q: leading or trailing slash", pkg)
	}
	for _, seg := range strings.Split(pkg, "/") {
		if !pkgSegmentRegex.MatchString(seg) {
			return fmt.Errorf("invalid package path %q: bad segment %q", pkg, seg)
		}
	}
	return nil
}

// ValidPackagePath reports whether s is a valid slash-separated package path.
func ValidPackagePath(s string) bool {
	return validatePackagePath(s) == nil
}
