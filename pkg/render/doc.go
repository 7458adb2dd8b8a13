// Package render turns materialized graphs into viewable outputs.
//
// # Overview
//
// The subpackages cover two families of output:
//
//   - [nodelink]: Graphviz diagrams (DOT and SVG) with containment clusters
//   - [text]: terminal renderings as a table or a containment tree
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/rowgraph/pkg/render/nodelink
// [text]: github.com/matzehuels/rowgraph/pkg/render/text
package render
