package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/observability"
	"github.com/matzehuels/rowgraph/pkg/render"
	"github.com/matzehuels/rowgraph/pkg/render/nodelink"
	"github.com/matzehuels/rowgraph/pkg/render/text"
)

// RenderFormat renders g in a single format without caching.
func RenderFormat(ctx context.Context, g *graph.Graph, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	opts.SetRenderDefaults()
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	return renderFormat(ctx, g, graphData, format, opts)
}

func renderFormat(ctx context.Context, g *graph.Graph, graphData []byte, format string, opts Options) (data []byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, format, time.Since(start), err) }()

	switch format {
	case FormatJSON:
		return graphData, nil
	case FormatDOT:
		return []byte(toDOT(g, opts)), nil
	case FormatTable:
		return []byte(renderTable(g)), nil
	case FormatTree:
		return []byte(text.Tree(g) + "\n"), nil
	}

	svg, err := nodelink.RenderSVG(ctx, toDOT(g, opts))
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	switch format {
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	case FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	default:
		return svg, nil
	}
}

func toDOT(g *graph.Graph, opts Options) string {
	return nodelink.ToDOT(g, nodelink.Options{
		Detailed: opts.Detailed,
		RankDir:  opts.Layout.Direction.RankDir(),
	})
}

func renderTable(g *graph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString(text.Table(g))
	buf.WriteString("\n")
	if len(g.LegendItems) > 0 {
		buf.WriteString(text.Legend(g))
		buf.WriteString("\n")
	}
	return buf.String()
}

// artifactVariant distinguishes cached artifacts of the same graph.
func artifactVariant(format string, opts Options) string {
	switch format {
	case FormatSVG, FormatDOT, FormatPDF:
		return fmt.Sprintf("%s:%t:%s", format, opts.Detailed, opts.Layout.Direction)
	case FormatPNG:
		return fmt.Sprintf("%s:%t:%s:%.2f", format, opts.Detailed, opts.Layout.Direction, opts.Scale)
	default:
		return format
	}
}
