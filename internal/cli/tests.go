package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/go-buildgraph/testplan"
)

// testsOpts holds the command-line flags for the tests command.
type testsOpts struct {
	shards    bool   // expand the per-shard execution plan
	substrate string // exclude tests disabled on this substrate
	tag       string // keep only tests carrying this tag
	format    string // output format: "text" or "json"
	output    string // output file path (stdout if empty)
}

// newTestsCmd creates the tests command. It enumerates test targets under
// a package prefix; with --shards it expands the full execution plan, one
// run per shard with its timeout budget.
func newTestsCmd(root *rootOpts) *cobra.Command {
	opts := testsOpts{format: "text"}

	cmd := &cobra.Command{
		Use:   "tests [package-prefix]",
		Short: "Enumerate test targets and expand shard plans",
		Long: `Enumerate test targets under a package prefix (the whole workspace if
omitted).

Examples:
  buildgraph tests
  buildgraph tests distributions --shards
  buildgraph tests --substrate jax --shards --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			ws, _, err := loadWorkspace(cmd.Context(), root)
			if err != nil {
				return err
			}

			tests := testplan.Enumerate(ws, prefix)
			logger.Infof("Found %d test targets", len(tests))

			out, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			defer out.Close()

			if !opts.shards {
				for _, test := range tests {
					fmt.Fprintln(out, test.Label)
				}
				return nil
			}

			plan := testplan.New(tests, testplan.Options{
				Substrate: opts.substrate,
				Tag:       opts.tag,
			})

			switch opts.format {
			case "text":
				for _, run := range plan.Runs {
					fmt.Fprintf(out, "%s [shard %d/%d] timeout=%s",
						run.Target, run.Shard+1, run.TotalShards, run.Timeout)
					if run.Flaky {
						fmt.Fprint(out, " flaky")
					}
					fmt.Fprintln(out)
				}
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			default:
				return fmt.Errorf("unknown format: %s (must be 'text' or 'json')", opts.format)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.shards, "shards", false, "expand the per-shard execution plan")
	cmd.Flags().StringVar(&opts.substrate, "substrate", "", "exclude tests disabled on this substrate")
	cmd.Flags().StringVar(&opts.tag, "tag", "", "keep only tests carrying this tag")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text (default), json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
