package layout

import (
	"context"
	"math"

	"github.com/matzehuels/rowgraph/pkg/graph"
)

// Solver assigns positions to a solver graph.
//
// Implementations return a graph of the same shape with X and Y set on every
// node relative to its parent, and Sections filled for the edges they route.
// Any error rejects the whole request.
type Solver interface {
	Layout(ctx context.Context, g *SolverGraph) (*SolverGraph, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, g *SolverGraph) (*SolverGraph, error)

// Layout calls f.
func (f SolverFunc) Layout(ctx context.Context, g *SolverGraph) (*SolverGraph, error) {
	return f(ctx, g)
}

// SolverGraph is the root of a solver request or response.
type SolverGraph struct {
	ID       string            `json:"id"`
	Options  map[string]string `json:"layoutOptions,omitempty"`
	Children []*SolverNode     `json:"children"`
	Edges    []*SolverEdge     `json:"edges"`
	Width    float64           `json:"width,omitempty"`
	Height   float64           `json:"height,omitempty"`
}

// SolverNode is a node with its position relative to its parent.
type SolverNode struct {
	ID       string        `json:"id"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Children []*SolverNode `json:"children,omitempty"`
}

// Point is a coordinate in a solver response.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EdgeSection is one routed segment chain of an edge, relative to the
// edge's container.
type EdgeSection struct {
	StartPoint Point   `json:"startPoint"`
	EndPoint   Point   `json:"endPoint"`
	BendPoints []Point `json:"bendPoints,omitempty"`
}

// SolverEdge connects nodes anywhere in the hierarchy.
// Container names the node whose coordinate system Sections use;
// empty means the root.
type SolverEdge struct {
	ID        string        `json:"id"`
	Sources   []string      `json:"sources"`
	Targets   []string      `json:"targets"`
	Container string        `json:"container,omitempty"`
	Sections  []EdgeSection `json:"sections,omitempty"`
}

// Walk visits every node of g in preorder with its parent (nil for roots).
func (g *SolverGraph) Walk(fn func(n, parent *SolverNode)) {
	var walk func(n, parent *SolverNode)
	walk = func(n, parent *SolverNode) {
		fn(n, parent)
		for _, c := range n.Children {
			walk(c, n)
		}
	}
	for _, c := range g.Children {
		walk(c, nil)
	}
}

// NodeCount returns the number of nodes in g.
func (g *SolverGraph) NodeCount() int {
	n := 0
	g.Walk(func(*SolverNode, *SolverNode) { n++ })
	return n
}

// Annotate builds the solver request for a forest: nodes carry their
// footprint, edges their endpoint ids.
func Annotate(forest []*graph.Node, edges []graph.Edge, opts Options) *SolverGraph {
	sizes := Footprints(forest, opts)

	var convert func(n *graph.Node) *SolverNode
	convert = func(n *graph.Node) *SolverNode {
		s := sizes[n.ID]
		sn := &SolverNode{ID: n.ID, Width: s.Width, Height: s.Height}
		for _, c := range n.Children {
			sn.Children = append(sn.Children, convert(c))
		}
		return sn
	}

	g := &SolverGraph{
		ID:       "root",
		Options:  opts.SolverOptions(),
		Children: make([]*SolverNode, 0, len(forest)),
		Edges:    make([]*SolverEdge, 0, len(edges)),
	}
	for _, root := range forest {
		g.Children = append(g.Children, convert(root))
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, &SolverEdge{
			ID:      e.ID,
			Sources: []string{e.Source},
			Targets: []string{e.Target},
		})
	}
	return g
}

// placement is where the solver put a node.
type placement struct {
	node   *SolverNode
	parent string
}

// index maps every node of a solver response to its placement.
func index(g *SolverGraph) map[string]placement {
	out := make(map[string]placement)
	g.Walk(func(n, parent *SolverNode) {
		p := placement{node: n}
		if parent != nil {
			p.parent = parent.ID
		}
		out[n.ID] = p
	})
	return out
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
