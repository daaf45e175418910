package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format string // output format: "dot", "json", or "text"
	output string // output file path (stdout if empty)
}

// newGraphCmd creates the graph command for exporting the dependency
// graph.
func newGraphCmd(root *rootOpts) *cobra.Command {
	opts := graphOpts{format: "text"}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the dependency graph as DOT, JSON, or text",
		Long: `Export the full dependency graph.

Examples:
  buildgraph graph
  buildgraph graph --format dot -o targets.dot
  buildgraph graph --format json | jq '.stats'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := loadWorkspace(cmd.Context(), root)
			if err != nil {
				return err
			}

			var data []byte
			switch opts.format {
			case "dot":
				data = []byte(g.ToDOT())
			case "json":
				data, err = g.ToJSON()
				if err != nil {
					return err
				}
			case "text":
				data = []byte(g.ToText())
			default:
				return fmt.Errorf("unknown format: %s (must be 'dot', 'json', or 'text')", opts.format)
			}

			out, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			defer out.Close()

			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text (default), dot, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
