package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	buildgraph "github.com/albertocavalcante/go-buildgraph"
	"github.com/albertocavalcante/go-buildgraph/graph"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. This is
// typically called by the main package with values injected via ldflags at
// build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOpts holds flags shared by every command.
type rootOpts struct {
	dir           string   // workspace root
	externalRepos []string // additional external repos beyond the config file
}

// Execute runs the buildgraph CLI and returns an error if any command
// fails.
//
// Logging defaults to info level on stderr; --verbose (-v) enables debug
// level. The logger is attached to the context and accessible to all
// commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool
	opts := rootOpts{dir: "."}

	root := &cobra.Command{
		Use:          "buildgraph",
		Short:        "buildgraph inspects declarative build target graphs",
		Long:         `buildgraph parses BUILD files into a dependency graph and computes build orders, test shard plans, visualizations, and deterministic snapshots over it.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("buildgraph %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.dir, "dir", "C", opts.dir, "workspace root directory")
	root.PersistentFlags().StringSliceVar(&opts.externalRepos, "external-repo", nil, "declare an external repository name (repeatable)")

	root.AddCommand(newValidateCmd(&opts))
	root.AddCommand(newPlanCmd(&opts))
	root.AddCommand(newTestsCmd(&opts))
	root.AddCommand(newGraphCmd(&opts))
	root.AddCommand(newRenderCmd(&opts))
	root.AddCommand(newSnapshotCmd(&opts))

	return root.ExecuteContext(ctx)
}

// loadWorkspace loads the workspace at opts.dir, applying .buildgraph.toml
// settings plus any flags, and builds its graph.
func loadWorkspace(ctx context.Context, opts *rootOpts) (*buildgraph.Workspace, *graph.Graph, error) {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.dir)
	if err != nil {
		return nil, nil, err
	}

	loadOpts := cfg.options()
	if len(opts.externalRepos) > 0 {
		loadOpts = append(loadOpts, buildgraph.WithExternalRepos(opts.externalRepos...))
	}
	loadOpts = append(loadOpts, buildgraph.WithLogger(slog.New(logger)))

	prog := newProgress(logger)
	ws, g, err := buildgraph.Load(ctx, opts.dir, loadOpts...)
	if err != nil {
		return nil, nil, err
	}
	stats := g.Stats()
	prog.done(fmt.Sprintf("Loaded %d packages with %d targets", len(ws.Packages), stats.Targets))

	return ws, g, nil
}

// snapshotPath resolves the snapshot file location: explicit flag, then
// the config file setting, then the default.
func snapshotPath(flag string, opts *rootOpts) (string, error) {
	if flag != "" {
		return flag, nil
	}
	cfg, err := loadConfig(opts.dir)
	if err != nil {
		return "", err
	}
	if cfg.Snapshot != "" {
		return cfg.Snapshot, nil
	}
	return "", nil
}
