// Package nodelink renders materialized graphs as node-link diagrams.
//
// # Overview
//
// [ToDOT] converts a [graph.Graph] into Graphviz DOT source. Containment is
// drawn with clusters: every node that has children becomes a filled cluster
// holding its children, leaves become rounded boxes. Node fill and text
// colors come from the node data, edges take their stroke from the legend
// and their arrow direction from the start and end markers.
//
// Overlays do not fit the cluster tree, so they are drawn as dashed notes
// connected to their members with dotted lines.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, pass the SVG to [render.ToPDF] or [render.ToPNG].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
//
// [render.ToPDF]: github.com/matzehuels/rowgraph/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/rowgraph/pkg/render.ToPNG
package nodelink
