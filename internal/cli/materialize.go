package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rowgraph/pkg/graph"
)

// materializeCommand creates the materialize command.
func (c *CLI) materializeCommand() *cobra.Command {
	var output, filterPath string

	cmd := &cobra.Command{
		Use:   "materialize [mapping.json] [data.json]",
		Short: "Build an unpositioned graph from a mapping and its datasets",
		Long: `Build an unpositioned graph from a mapping and its datasets.

The output is a graph.json file holding nodes (with parentNode references),
edges and legend entries. Pass --filter with a selection document to restrict
the rows before materializing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMaterialize(cmd.Context(), args[0], args[1], filterPath, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <data>.graph.json)")
	cmd.Flags().StringVar(&filterPath, "filter", "", "selection document (allowedIris, filterObject)")

	return cmd
}

func (c *CLI) runMaterialize(ctx context.Context, mappingPath, dataPath, filterPath, output string) error {
	opts, err := c.loadInputs(mappingPath, dataPath, filterPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	start := time.Now()
	res, stats, err := runner.MaterializeWithStats(ctx, opts)
	if err != nil {
		return fmt.Errorf("materialize: %w", err)
	}
	logElapsed(c.Logger, start, "Materialized %d rows", stats.RowCount)

	out := outputPath(output, dataPath, ".graph.json")
	if err := graph.WriteGraphFile(res.Graph(), out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Graph materialized")
	printFile(out)
	printStats(graphStats{nodes: stats.NodeCount, edges: stats.EdgeCount, overlays: stats.OverlayCount})
	if stats.DroppedRows > 0 {
		printWarning("Dropped %d rows without an iri", stats.DroppedRows)
	}
	printNewline()
	printNextStep("Lay out", appName+" layout "+mappingPath+" "+dataPath)

	return nil
}
