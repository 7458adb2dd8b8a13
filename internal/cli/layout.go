package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/layout"
)

// layoutFlags are the layout settings that can override the config file.
type layoutFlags struct {
	direction string
	routing   string
	refresh   bool
}

func (f layoutFlags) apply(opts *layout.Options) {
	if f.direction != "" {
		opts.Direction = layout.Direction(f.direction)
	}
	if f.routing != "" {
		opts.EdgeRouting = f.routing
	}
	*opts = opts.WithDefaults()
}

// layoutCommand creates the layout command for computing positioned graphs.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		filterPath string
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [mapping.json] [data.json]",
		Short: "Materialize and position a graph",
		Long: `Materialize and position a graph.

The layout command materializes the mapping against its datasets and lays the
containment forest out with Graphviz. The output is a layout.json file with
parent-relative and absolute positions, sized overlays and routed edges. It can
be rendered with the 'render' command.

Results are cached, keyed by the materialized graph and the layout settings.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], args[1], filterPath, output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <data>.layout.json)")
	cmd.Flags().StringVar(&filterPath, "filter", "", "selection document (allowedIris, filterObject)")
	cmd.Flags().StringVar(&flags.direction, "direction", "", "layer direction: DOWN (default), UP, RIGHT, LEFT")
	cmd.Flags().StringVar(&flags.routing, "routing", "", "edge routing: ORTHOGONAL (default), POLYLINE, SPLINES")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached layouts")

	return cmd
}

// runLayout materializes the inputs, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, mappingPath, dataPath, filterPath, output string, flags layoutFlags) error {
	opts, err := c.loadInputs(mappingPath, dataPath, filterPath)
	if err != nil {
		return err
	}
	flags.apply(&opts.Layout)
	opts.Refresh = flags.refresh

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Materialize(ctx, opts)
	if err != nil {
		return fmt.Errorf("materialize: %w", err)
	}

	sp := newSpinner(ctx, fmt.Sprintf("Laying out %d nodes...", res.NodeCount()))
	g, cacheHit, err := runner.LayoutWithCacheInfo(ctx, res, opts)
	if err != nil {
		sp.fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	sp.stop()
	if sp.interrupted() {
		return ctx.Err()
	}

	out := outputPath(output, dataPath, ".layout.json")
	if err := graph.WriteGraphFile(g, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Layout complete")
	printFile(out)
	printStats(graphStats{nodes: res.NodeCount(), edges: len(res.Edges), overlays: len(res.Overlays), cache: cacheState(cacheHit)})
	printNewline()
	printNextStep("Render", appName+" render "+out)

	return nil
}
