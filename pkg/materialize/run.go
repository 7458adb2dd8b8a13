package materialize

import (
	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/mapping"
)

// Result is the output of one materialization pass.
type Result struct {
	// Forest holds the root nodes with their children nested.
	Forest []*graph.Node
	// Flat holds every forest node in preorder.
	Flat []*graph.Node
	// Edges holds the matched edges.
	Edges []graph.Edge
	// Overlays holds unpositioned overlay nodes.
	Overlays []*graph.Node
	// Legend holds one entry per distinct color-key value.
	Legend []graph.LegendEntry
}

// Run materializes nodes, edges and overlays for cfg.
//
// The legend is reset first and filled during the pass; pass nil to get a
// fresh legend. Run does not filter; apply a selection to data beforehand.
func Run(cfg *mapping.Config, data dataset.Datasets, legend *Legend) *Result {
	if legend == nil {
		legend = NewLegend()
	}
	legend.Reset()

	res := &Result{}
	if cfg == nil {
		return res
	}
	res.Forest, res.Flat = Nodes(cfg.Layout, data, legend)
	res.Edges = Edges(cfg.Edges, data, res.Flat, legend)
	res.Overlays = Overlays(cfg.Overlays, data, legend)
	res.Legend = legend.Entries()
	return res
}

// Graph returns the unpositioned rendering triple: the flat forest followed
// by the overlays, with parentNode back-references set.
func (r *Result) Graph() *graph.Graph {
	g := &graph.Graph{
		Nodes:       make([]*graph.Node, 0, len(r.Flat)+len(r.Overlays)),
		Edges:       r.Edges,
		LegendItems: r.Legend,
	}
	for _, n := range r.Flat {
		cp := *n
		cp.Children = nil
		cp.ParentNode = n.Data.ParentID
		g.Nodes = append(g.Nodes, &cp)
	}
	for _, o := range r.Overlays {
		cp := *o
		g.Nodes = append(g.Nodes, &cp)
	}
	return g
}

// NodeCount returns the number of forest nodes.
func (r *Result) NodeCount() int { return len(r.Flat) }
