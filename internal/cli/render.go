package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/layout"
	"github.com/matzehuels/rowgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple outputs)
	formats   []string // output formats: svg, dot, pdf, png, table, tree, json
	detailed  bool     // show iri and category in diagram labels
	direction string   // rank direction of the diagram
}

// renderCommand creates the render command for drawing a graph file.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a graph file as SVG, DOT, a table or a tree",
		Long: `Render a graph file as SVG, DOT, a table or a tree.

The input is the output of 'materialize' or 'layout'. Text formats (table,
tree) are printed to the terminal unless --output is given; other formats are
written next to the input file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png, table, tree, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show iri and category in diagram labels")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "diagram direction: DOWN (default), UP, RIGHT, LEFT")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isTextFormat(format string) bool {
	return format == pipeline.FormatTable || format == pipeline.FormatTree
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		Formats:  opts.formats,
		Detailed: opts.detailed,
		Logger:   c.Logger,
		Layout:   c.Config.LayoutOptions(),
	}
	if opts.direction != "" {
		popts.Layout.Direction = layout.Direction(strings.ToUpper(opts.direction))
	}

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, g, popts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	var written []string
	for _, format := range opts.formats {
		data := artifacts[format]
		if isTextFormat(format) && opts.output == "" {
			fmt.Print(string(data))
			continue
		}
		path := renderPath(input, opts.output, format, len(opts.formats))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	if len(written) > 0 {
		printSuccess("Rendered %d file(s)", len(written))
		for _, p := range written {
			printFile(p)
		}
		printStats(graphStats{nodes: len(g.Nodes), edges: len(g.Edges), cache: cacheState(cacheHit)})
	}
	return nil
}

// renderPath picks the file for one format: the --output value for a single
// format, otherwise <base>.<format>.
func renderPath(input, output, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	base := output
	if base == "" {
		base = outputPath("", input, "")
	}
	ext := format
	if isTextFormat(format) {
		ext = format + ".txt"
	}
	return base + "." + ext
}
