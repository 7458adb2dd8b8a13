package layout

import (
	"math"

	"github.com/matzehuels/rowgraph/pkg/graph"
)

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Footprint returns the size n and its subtree occupy before positioning.
//
// A leaf gets the default node size. A parent gets, per axis, the larger of
// the default and the sum of its children's footprints plus a margin before,
// between and after them.
func Footprint(n *graph.Node, opts Options) Size {
	return Footprints([]*graph.Node{n}, opts)[n.ID]
}

// Footprints sizes every node of the forest in one bottom-up pass.
func Footprints(forest []*graph.Node, opts Options) map[string]Size {
	out := make(map[string]Size)
	var visit func(n *graph.Node) Size
	visit = func(n *graph.Node) Size {
		s := Size{Width: opts.NodeWidth, Height: opts.NodeHeight}
		if !n.IsLeaf() {
			var w, h float64
			for _, c := range n.Children {
				cs := visit(c)
				w += cs.Width
				h += cs.Height
			}
			gaps := opts.Margin * float64(len(n.Children)+1)
			s.Width = math.Max(s.Width, w+gaps)
			s.Height = math.Max(s.Height, h+gaps)
		}
		out[n.ID] = s
		return s
	}
	for _, root := range forest {
		visit(root)
	}
	return out
}
