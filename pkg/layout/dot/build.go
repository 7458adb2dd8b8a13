package dot

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/rowgraph/pkg/layout"
)

const pointsPerInch = 72.0

// buildDOT writes one level of the hierarchy as a DOT document. Nodes are
// named by their slot among siblings and keep their size exactly.
func buildDOT(nodes []*layout.SolverNode, edges []*levelEdge, p params) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [rankdir=%s, splines=%s, nodesep=%s, ranksep=%s, margin=0, pad=0];\n",
		p.rankdir, p.splines, inches(p.nodeSpacing), inches(p.rankSpacing))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for i, n := range nodes {
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n", nodeName(i), inches(n.Width), inches(n.Height))
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %s -> %s [id=%q];\n", nodeName(e.from), nodeName(e.to), e.key)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(points float64) string {
	return fmt.Sprintf("%.4f", points/pointsPerInch)
}
