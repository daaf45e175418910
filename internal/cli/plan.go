package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/go-buildgraph/label"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	format string // output format: "text" or "json"
	output string // output file path (stdout if empty)
}

// newPlanCmd creates the plan command. It resolves a target into its
// topologically ordered build plan: every dependency appears before the
// targets that need it.
func newPlanCmd(root *rootOpts) *cobra.Command {
	opts := planOpts{format: "text"}

	cmd := &cobra.Command{
		Use:   "plan <target>",
		Short: "Compute the build order for a target",
		Long: `Compute the topologically ordered build plan for a target.

Examples:
  buildgraph plan //internal:util
  buildgraph plan //distributions:normal --format json -o plan.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := label.Parse(args[0])
			if err != nil {
				return err
			}

			_, g, err := loadWorkspace(cmd.Context(), root)
			if err != nil {
				return err
			}

			plan, err := g.Resolve(target)
			if err != nil {
				return err
			}

			out, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			defer out.Close()

			switch opts.format {
			case "text":
				for i, step := range plan.Steps {
					fmt.Fprintf(out, "%3d  %s\n", i+1, step)
				}
			case "json":
				steps := make([]string, 0, len(plan.Steps))
				for _, step := range plan.Steps {
					steps = append(steps, step.String())
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Target string   `json:"target"`
					Steps  []string `json:"steps"`
				}{Target: plan.Target.String(), Steps: steps})
			default:
				return fmt.Errorf("unknown format: %s (must be 'text' or 'json')", opts.format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text (default), json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
