package buildgraph

import (
	"fmt"
	"log/slog"
)

// Option configures workspace loading behavior.
type Option func(*loadConfig) error

// loadConfig holds all loading configuration.
type loadConfig struct {
	buildFileNames []string
	externalRepos  []string
	ignoreDirs     []string
	skipTestonly   bool

	// logger is the structured logger for debug output. If nil, logging
	// is disabled. *slog.Logger keeps the library backend-agnostic; the
	// CLI bridges its own logger through a slog handler.
	logger *slog.Logger
}

func defaultConfig() *loadConfig {
	return &loadConfig{
		buildFileNames: []string{"BUILD", "BUILD.bazel"},
		ignoreDirs:     []string{".git", "bazel-out", "bazel-bin", "bazel-testlogs"},
	}
}

func applyOptions(opts []Option) (*loadConfig, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithBuildFileNames overrides the file names recognized as BUILD files.
func WithBuildFileNames(names ...string) Option {
	return func(c *loadConfig) error {
		if len(names) == 0 {
			return fmt.Errorf("at least one build file name is required")
		}
		c.buildFileNames = names
		return nil
	}
}

// WithExternalRepos declares external repository names that dependency
// labels may reference. References into undeclared repositories fail
// resolution as unresolved dependencies.
func WithExternalRepos(repos ...string) Option {
	return func(c *loadConfig) error {
		c.externalRepos = append(c.externalRepos, repos...)
		return nil
	}
}

// WithIgnoreDirs adds directory names skipped during the workspace walk.
func WithIgnoreDirs(dirs ...string) Option {
	return func(c *loadConfig) error {
		c.ignoreDirs = append(c.ignoreDirs, dirs...)
		return nil
	}
}

// WithoutTestonly excludes targets marked testonly from the workspace.
// Useful when planning production builds, where testonly targets and
// their test-support dependencies are out of scope.
func WithoutTestonly() Option {
	return func(c *loadConfig) error {
		c.skipTestonly = true
		return nil
	}
}

// WithLogger enables debug logging during loading.
func WithLogger(logger *slog.Logger) Option {
	return func(c *loadConfig) error {
		c.logger = logger
		return nil
	}
}

func (c *loadConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(slog.DiscardHandler)
}
