package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	buildgraph "github.com/albertocavalcante/go-buildgraph"
)

// configFileName is the per-workspace CLI configuration file.
const configFileName = ".buildgraph.toml"

// config holds workspace settings read from .buildgraph.toml. All fields
// are optional; zero values fall back to the library defaults.
type config struct {
	// BuildFiles overrides the recognized BUILD file names.
	BuildFiles []string `toml:"build_files"`

	// IgnoreDirs lists additional directory names to skip during loading.
	IgnoreDirs []string `toml:"ignore_dirs"`

	// ExternalRepos declares external repository names targets may
	// reference (e.g. "third_party").
	ExternalRepos []string `toml:"external_repos"`

	// Snapshot sets the default snapshot path, relative to the workspace
	// root.
	Snapshot string `toml:"snapshot"`
}

// loadConfig reads .buildgraph.toml from the workspace root. A missing
// file yields the zero config.
func loadConfig(root string) (config, error) {
	var cfg config
	path := filepath.Join(root, configFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", configFileName, err)
	}
	return cfg, nil
}

// options converts the config into workspace loading options.
func (c config) options() []buildgraph.Option {
	var opts []buildgraph.Option
	if len(c.BuildFiles) > 0 {
		opts = append(opts, buildgraph.WithBuildFileNames(c.BuildFiles...))
	}
	if len(c.IgnoreDirs) > 0 {
		opts = append(opts, buildgraph.WithIgnoreDirs(c.IgnoreDirs...))
	}
	if len(c.ExternalRepos) > 0 {
		opts = append(opts, buildgraph.WithExternalRepos(c.ExternalRepos...))
	}
	return opts
}
