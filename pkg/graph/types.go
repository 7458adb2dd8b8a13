package graph

import (
	"strconv"
)

// Node kinds used in Node.Type when a mapping does not name one.
const (
	TypeDefault = "default"
	TypeGroup   = "group"
	TypeOverlay = "overlay"
)

// ExtentParent confines a child node to its parent's bounds.
const ExtentParent = "parent"

// =============================================================================
// Node
// =============================================================================

// Position is a 2D coordinate in canvas units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a materialized, optionally positioned node.
//
// Position is relative to the parent node (absolute for roots and overlays);
// PositionAbsolute is filled once layout has flattened the tree.
type Node struct {
	ID               string   `json:"id"`
	Type             string   `json:"type,omitempty"`
	Position         Position `json:"position"`
	PositionAbsolute Position `json:"positionAbsolute"`
	Width            float64  `json:"width,omitempty"`
	Height           float64  `json:"height,omitempty"`
	ParentNode       string   `json:"parentNode,omitempty"`
	ZIndex           int      `json:"zIndex,omitempty"`
	Data             NodeData `json:"data"`
	Children         []*Node  `json:"children,omitempty"`
}

// NodeData carries the row-derived content of a node.
type NodeData struct {
	Label            string `json:"label"`
	IRI              string `json:"iri"`
	Category         string `json:"category,omitempty"`
	EdgeKey          string `json:"edgeKey,omitempty"`
	ParentID         string `json:"parentId,omitempty"`
	Extent           string `json:"extent,omitempty"`
	ContainmentID    string `json:"containmentId,omitempty"`
	ContainedEntries string `json:"containedEntries,omitempty"`
	NodeColor        string `json:"nodeColor"`
	NodeTextColor    string `json:"nodeTextColor"`
	IsOverlay        bool   `json:"isOverlay,omitempty"`
	CanDelete        bool   `json:"canDelete,omitempty"`
}

// IsLeaf reports whether the node has no nested children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits n and its descendants in preorder with their parent.
func (n *Node) Walk(fn func(n, parent *Node)) {
	var walk func(cur, parent *Node)
	walk = func(cur, parent *Node) {
		fn(cur, parent)
		for _, c := range cur.Children {
			walk(c, cur)
		}
	}
	walk(n, nil)
}

// Descendants returns every node below n in preorder.
func (n *Node) Descendants() []*Node {
	var out []*Node
	n.Walk(func(cur, _ *Node) {
		if cur != n {
			out = append(out, cur)
		}
	})
	return out
}

// Right returns the absolute right edge of the node.
func (n *Node) Right() float64 { return n.PositionAbsolute.X + n.Width }

// Bottom returns the absolute bottom edge of the node.
func (n *Node) Bottom() float64 { return n.PositionAbsolute.Y + n.Height }

// ChildID builds the positional id of the index-th child of parent.
// An empty parent yields a root id.
func ChildID(parent string, index int) string {
	if parent == "" {
		return strconv.Itoa(index)
	}
	return parent + "-" + strconv.Itoa(index)
}

// =============================================================================
// Edge
// =============================================================================

// MarkerArrowClosed is the arrowhead drawn at marked edge ends.
const MarkerArrowClosed = "arrowclosed"

// EdgeStyle holds the stroke of an edge.
type EdgeStyle struct {
	Color string `json:"stroke"`
}

// Marker is an arrowhead at one end of an edge.
type Marker struct {
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
}

// Edge is a directed connection between two materialized nodes.
// Points holds the routed polyline in absolute coordinates once laid out.
type Edge struct {
	ID          string     `json:"id"`
	Label       string     `json:"label,omitempty"`
	Source      string     `json:"source"`
	Target      string     `json:"target"`
	Category    string     `json:"category,omitempty"`
	Style       EdgeStyle  `json:"style"`
	MarkerStart *Marker    `json:"markerStart,omitempty"`
	MarkerEnd   *Marker    `json:"markerEnd,omitempty"`
	Points      []Position `json:"points,omitempty"`
}

// EdgeID builds the id of an edge between two node ids.
func EdgeID(source, target string) string { return source + "-" + target }

// =============================================================================
// Legend
// =============================================================================

// LegendEntry maps one color-key value to its color.
type LegendEntry struct {
	Label  string `json:"label"`
	Color  string `json:"color"`
	IsEdge bool   `json:"isEdge"`
}

// =============================================================================
// Graph
// =============================================================================

// Graph is the flat triple consumed by the rendering surface.
type Graph struct {
	Nodes       []*Node       `json:"nodes"`
	Edges       []Edge        `json:"edges"`
	LegendItems []LegendEntry `json:"legendItems"`
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Roots returns the nodes without a parent, overlays excluded.
func (g *Graph) Roots() []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.ParentNode == "" && !n.Data.IsOverlay {
			out = append(out, n)
		}
	}
	return out
}

// ChildrenOf returns the nodes whose ParentNode is id, in graph order.
func (g *Graph) ChildrenOf(id string) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.ParentNode == id {
			out = append(out, n)
		}
	}
	return out
}

// Overlays returns the overlay nodes.
func (g *Graph) Overlays() []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Data.IsOverlay {
			out = append(out, n)
		}
	}
	return out
}
