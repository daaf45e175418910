package cli

import (
	"github.com/spf13/cobra"
)

// newValidateCmd creates the validate command. It loads the workspace and
// checks the whole-graph invariants: every dependency resolves, no cycles,
// and test source files are unique per package.
func newValidateCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the workspace and check graph invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			_, g, err := loadWorkspace(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if err := g.Validate(); err != nil {
				return err
			}

			stats := g.Stats()
			logger.Infof("Graph is valid: %d targets, %d edges, %d tests",
				stats.Targets, stats.Edges, stats.Tests)
			return nil
		},
	}
}
