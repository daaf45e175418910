package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string // output file path
	format string // output format: "svg" or "png"
}

// newRenderCmd creates the render command. It exports the dependency
// graph as DOT and renders it in-process with Graphviz.
func newRenderCmd(root *rootOpts) *cobra.Command {
	opts := renderOpts{output: "targets.svg"}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dependency graph to SVG or PNG",
		Long: `Render the dependency graph using Graphviz.

The output format is derived from the -o extension unless --format is set.

Examples:
  buildgraph render -o targets.svg
  buildgraph render -o targets.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			format := opts.format
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(opts.output), ".")
			}
			gvFormat, err := renderFormat(format)
			if err != nil {
				return err
			}

			_, g, err := loadWorkspace(cmd.Context(), root)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			data, err := renderDOT(cmd.Context(), []byte(g.ToDOT()), gvFormat)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %d bytes of %s", len(data), format))

			out, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			defer out.Close()

			if _, err := out.Write(data); err != nil {
				return err
			}
			logger.Infof("Generated %s", opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, png (default: from -o extension)")

	return cmd
}

func renderFormat(format string) (graphviz.Format, error) {
	switch format {
	case "svg":
		return graphviz.SVG, nil
	case "png":
		return graphviz.PNG, nil
	default:
		return "", fmt.Errorf("unknown render format: %s (must be 'svg' or 'png')", format)
	}
}

// renderDOT renders a DOT graph using Graphviz.
func renderDOT(ctx context.Context, dot []byte, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
