package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/overlay"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the IRI and category below each label.
	Detailed bool
	// RankDir is the Graphviz rank direction (TB, LR, BT, RL). Defaults to TB.
	RankDir string
	// HideOverlays omits overlay notes.
	HideOverlays bool
}

// ToDOT converts a graph to Graphviz DOT format. Positions are ignored;
// Graphviz lays the diagram out again from the containment tree.
func ToDOT(g *graph.Graph, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := &writer{g: g, opts: opts, buf: &buf, groups: make(map[string]bool)}
	for _, n := range g.Nodes {
		if n.ParentNode != "" && !n.Data.IsOverlay {
			w.groups[n.ParentNode] = true
		}
	}
	for _, n := range g.Roots() {
		w.node(n, 1)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		w.edge(e)
	}

	if !opts.HideOverlays {
		w.overlays()
	}

	buf.WriteString("}\n")
	return buf.String()
}

type writer struct {
	g      *graph.Graph
	opts   Options
	buf    *bytes.Buffer
	groups map[string]bool
}

func (w *writer) node(n *graph.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	label := fmtLabel(n, w.opts.Detailed)

	if !w.groups[n.ID] {
		fmt.Fprintf(w.buf, "%s%q [%s];\n", indent, n.ID, strings.Join(fmtAttrs(n, label), ", "))
		return
	}

	fmt.Fprintf(w.buf, "%ssubgraph %q {\n", indent, clusterName(n.ID))
	fmt.Fprintf(w.buf, "%s  label=%q;\n", indent, label)
	fmt.Fprintf(w.buf, "%s  style=\"rounded,filled\";\n", indent)
	fmt.Fprintf(w.buf, "%s  fillcolor=%q;\n", indent, orDefault(n.Data.NodeColor, "#ffffff"))
	fmt.Fprintf(w.buf, "%s  fontcolor=%q;\n", indent, orDefault(n.Data.NodeTextColor, "#000000"))
	fmt.Fprintf(w.buf, "%s  %q [shape=point, style=invis, width=0, height=0, label=\"\"];\n", indent, anchorName(n.ID))
	for _, c := range w.g.ChildrenOf(n.ID) {
		if !c.Data.IsOverlay {
			w.node(c, depth+1)
		}
	}
	fmt.Fprintf(w.buf, "%s}\n", indent)
}

// endpoint returns the DOT node standing in for id and, for groups, the
// cluster the edge should be clipped to.
func (w *writer) endpoint(id string) (name, cluster string) {
	if w.groups[id] {
		return anchorName(id), clusterName(id)
	}
	return id, ""
}

func (w *writer) edge(e graph.Edge) {
	src, ltail := w.endpoint(e.Source)
	tgt, lhead := w.endpoint(e.Target)

	attrs := []string{
		fmt.Sprintf("color=%q", orDefault(e.Style.Color, "#b1b1b7")),
		"dir=" + direction(e),
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if ltail != "" {
		attrs = append(attrs, fmt.Sprintf("ltail=%q", ltail))
	}
	if lhead != "" {
		attrs = append(attrs, fmt.Sprintf("lhead=%q", lhead))
	}
	fmt.Fprintf(w.buf, "  %q -> %q [%s];\n", src, tgt, strings.Join(attrs, ", "))
}

func (w *writer) overlays() {
	overlays := w.g.Overlays()
	if len(overlays) == 0 {
		return
	}
	w.buf.WriteString("\n")
	for _, o := range overlays {
		fmt.Fprintf(w.buf, "  %q [shape=note, style=\"filled,dashed\", fillcolor=%q, fontcolor=%q, label=%q];\n",
			o.ID, orDefault(o.Data.NodeColor, "#ffffff"), orDefault(o.Data.NodeTextColor, "#000000"), o.Data.Label)
		for _, m := range overlay.Members(o, w.g.Nodes) {
			name, cluster := w.endpoint(m.ID)
			attrs := "style=dotted, dir=none"
			if cluster != "" {
				attrs += fmt.Sprintf(", lhead=%q", cluster)
			}
			fmt.Fprintf(w.buf, "  %q -> %q [%s];\n", o.ID, name, attrs)
		}
	}
}

func fmtLabel(n *graph.Node, detailed bool) string {
	if !detailed {
		return n.Data.Label
	}
	parts := []string{n.Data.Label}
	if n.Data.Category != "" {
		parts = append(parts, "category: "+n.Data.Category)
	}
	if n.Data.IRI != "" {
		parts = append(parts, "iri: "+n.Data.IRI)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *graph.Node, label string) []string {
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", orDefault(n.Data.NodeColor, "#ffffff")),
		fmt.Sprintf("fontcolor=%q", orDefault(n.Data.NodeTextColor, "#000000")),
	}
}

func direction(e graph.Edge) string {
	switch {
	case e.MarkerStart != nil && e.MarkerEnd != nil:
		return "both"
	case e.MarkerStart != nil:
		return "back"
	case e.MarkerEnd != nil:
		return "forward"
	default:
		return "none"
	}
}

func clusterName(id string) string { return "cluster_" + id }

func anchorName(id string) string { return "anchor_" + id }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
//
// [render.ToPDF]: github.com/matzehuels/rowgraph/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/rowgraph/pkg/render.ToPNG
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
