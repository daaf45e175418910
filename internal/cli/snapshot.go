package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/go-buildgraph/snapshot"
)

// newSnapshotCmd creates the snapshot command with write and diff
// subcommands.
func newSnapshotCmd(root *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture and diff deterministic workspace snapshots",
	}

	cmd.AddCommand(newSnapshotWriteCmd(root))
	cmd.AddCommand(newSnapshotDiffCmd(root))

	return cmd
}

// newSnapshotWriteCmd creates the "snapshot write" subcommand. It captures
// the current workspace state and writes it with deterministic formatting.
func newSnapshotWriteCmd(root *rootOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Capture the workspace and write a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			path, err := snapshotPath(output, root)
			if err != nil {
				return err
			}
			if path == "" {
				path = snapshot.DefaultPath(root.dir)
			}

			ws, _, err := loadWorkspace(cmd.Context(), root)
			if err != nil {
				return err
			}

			snap := snapshot.New(ws)
			if err := snap.WriteFile(path); err != nil {
				return err
			}
			logger.Infof("Wrote snapshot of %d packages to %s", len(snap.Packages), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file path")

	return cmd
}

// newSnapshotDiffCmd creates the "snapshot diff" subcommand. With one
// argument it diffs the stored snapshot against the current workspace;
// with two it diffs two snapshot files.
func newSnapshotDiffCmd(root *rootOpts) *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "diff <old> [new]",
		Short: "Show differences between snapshots",
		Long: `Show target-level differences between two snapshots, or between a
stored snapshot and the current workspace state.

Examples:
  buildgraph snapshot diff buildgraph.snapshot.json
  buildgraph snapshot diff old.json new.json --exit-code`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := snapshot.ReadFile(args[0])
			if err != nil {
				return err
			}

			var current *snapshot.Snapshot
			if len(args) == 2 {
				current, err = snapshot.ReadFile(args[1])
				if err != nil {
					return err
				}
			} else {
				ws, _, err := loadWorkspace(cmd.Context(), root)
				if err != nil {
					return err
				}
				current = snapshot.New(ws)
			}

			diff := old.Diff(current)
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(diff.Summary(), "\n"))
			if exitCode && !diff.IsEmpty() {
				return fmt.Errorf("snapshots differ")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with an error when snapshots differ")

	return cmd
}
