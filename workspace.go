package buildgraph

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/go-buildgraph/ast"
	"github.com/albertocavalcante/go-buildgraph/label"
)

// LoadWorkspace walks a directory tree, parses every BUILD file it finds,
// and assembles the declared target graph.
//
// Package default visibility is resolved onto each target at load time, so
// the returned Workspace carries no implicit inherited state. Parse errors
// across files are collected and returned joined; the workspace is only
// returned when every file parsed cleanly.
func LoadWorkspace(ctx context.Context, root string, opts ...Option) (*Workspace, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	log := cfg.log()

	ws := &Workspace{
		Packages:      make(map[string]*Package),
		ExternalRepos: append([]string(nil), cfg.externalRepos...),
	}

	var errs []error
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if cfg.ignored(d.Name()) && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !cfg.isBuildFile(d.Name()) {
			return nil
		}

		pkgPath, err := packagePath(root, path)
		if err != nil {
			return err
		}

		log.Debug("parsing build file", "path", path, "package", pkgPath)

		pkg, err := parsePackageFile(path, pkgPath)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if existing, ok := ws.Packages[pkgPath]; ok {
			errs = append(errs, fmt.Errorf("package %q declared by both %s and %s",
				pkgPath, existing.BuildFile, pkg.BuildFile))
			return nil
		}
		if cfg.skipTestonly {
			pkg.Targets = withoutTestonly(pkg.Targets)
		}
		ws.Packages[pkgPath] = pkg
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(ws.Packages) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoBuildFiles, root)
	}

	log.Debug("workspace loaded", "packages", len(ws.Packages))
	return ws, nil
}

// ParseBuildContent parses a single BUILD file's content as the package at
// pkgPath and resolves package defaults onto its targets.
func ParseBuildContent(pkgPath string, content []byte) (*Package, error) {
	result, err := ast.ParseContent(pkgPath+"/BUILD", content)
	if err != nil {
		return nil, err
	}
	if result.HasErrors() {
		return nil, result.Err()
	}
	return packageFromFile(result.File, pkgPath)
}

// ParseBuildFile parses a BUILD file from disk as the package at pkgPath.
func ParseBuildFile(path, pkgPath string) (*Package, error) {
	return parsePackageFile(path, pkgPath)
}

func parsePackageFile(path, pkgPath string) (*Package, error) {
	result, err := ast.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if result.HasErrors() {
		return nil, result.Err()
	}
	return packageFromFile(result.File, pkgPath)
}

// packageFromFile converts a parsed BUILD file into the package model,
// canonicalizing dependency labels and applying the default visibility to
// targets that declare none.
func packageFromFile(file *ast.BuildFile, pkgPath string) (*Package, error) {
	pkg := &Package{
		Path:      pkgPath,
		BuildFile: file.Path,
		File:      file,
	}
	if file.Package != nil {
		pkg.DefaultVisibility = file.Package.DefaultVisibility
	}

	seen := make(map[string]bool, len(file.Rules))
	for _, rule := range file.Rules {
		target, err := targetFromRule(rule, pkgPath, pkg.DefaultVisibility)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", file.Path, rule.Pos.Line, err)
		}
		if seen[rule.Name] {
			return nil, &DuplicateTargetError{Label: target.Label, File: file.Path}
		}
		seen[rule.Name] = true
		pkg.Targets = append(pkg.Targets, target)
	}

	return pkg, nil
}

func targetFromRule(rule *ast.RuleDecl, pkgPath string, defaultVisibility []string) (*Target, error) {
	lbl, err := label.New("", pkgPath, rule.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid target name: %w", err)
	}

	target := &Target{
		Label:    lbl,
		Kind:     classifyKind(rule),
		RuleKind: rule.Kind,
		Srcs:     rule.Srcs,
		Tags:     rule.Tags,
		Testonly: rule.Testonly,
	}

	for _, dep := range rule.Deps {
		depLabel, err := label.ParseRelative(dep, pkgPath)
		if err != nil {
			return nil, fmt.Errorf("target %s: invalid dep %q: %w", rule.Name, dep, err)
		}
		target.Deps = append(target.Deps, depLabel)
	}

	// Resolve visibility at construction time: explicit declaration wins,
	// otherwise the package default, otherwise private.
	switch {
	case rule.Visibility != nil:
		target.Visibility = rule.Visibility
	case len(defaultVisibility) > 0:
		target.Visibility = defaultVisibility
	default:
		target.Visibility = []string{"//visibility:private"}
	}

	if rule.Test != nil {
		target.Test = testMetadataFromAttrs(rule)
	}

	return target, nil
}

func classifyKind(rule *ast.RuleDecl) TargetKind {
	switch {
	case rule.IsTest():
		return KindTest
	case strings.HasSuffix(rule.Kind, "_library"):
		return KindLibrary
	case rule.Kind == "filegroup":
		return KindFilegroup
	default:
		return KindUnknown
	}
}

func testMetadataFromAttrs(rule *ast.RuleDecl) *TestMetadata {
	meta := &TestMetadata{
		Size:       TestSize(rule.Test.Size),
		ShardCount: rule.Test.ShardCount,
		Timeout:    rule.Test.Timeout,
		Flaky:      rule.Test.Flaky,
	}
	if meta.Size == "" {
		meta.Size = SizeMedium
	}
	for _, tag := range rule.Tags {
		if sub, ok := strings.CutPrefix(tag, "no-"); ok && sub != "" {
			meta.DisabledSubstrates = append(meta.DisabledSubstrates, sub)
		}
	}
	return meta
}

func withoutTestonly(targets []*Target) []*Target {
	kept := targets[:0]
	for _, t := range targets {
		if !t.Testonly {
			kept = append(kept, t)
		}
	}
	return kept
}

// packagePath derives the workspace-relative package path of a BUILD file.
func packagePath(root, buildFilePath string) (string, error) {
	rel, err := filepath.Rel(root, filepath.Dir(buildFilePath))
	if err != nil {
		return "", fmt.Errorf("package path for %s: %w", buildFilePath, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", nil
	}
	if !label.ValidPackagePath(rel) {
		return "", fmt.Errorf("directory %q is not a valid package path", rel)
	}
	return rel, nil
}

func (c *loadConfig) isBuildFile(name string) bool {
	for _, candidate := range c.buildFileNames {
		if name == candidate {
			return true
		}
	}
	return false
}

func (c *loadConfig) ignored(dirName string) bool {
	for _, d := range c.ignoreDirs {
		if dirName == d {
			return true
		}
	}
	return strings.HasPrefix(dirName, ".") && dirName != "."
}
