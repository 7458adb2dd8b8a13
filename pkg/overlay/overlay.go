// Package overlay sizes containment regions around positioned nodes.
//
// An overlay node lists its members by IRI in Data.ContainedEntries
// (comma-separated) and is scoped by Data.ContainmentID: only nodes whose own
// ContainmentID matches can be members. [Resolve] computes each overlay's
// bounding box from its members' absolute rectangles and drops overlays that
// have no members left.
package overlay

import (
	"math"
	"strings"

	"github.com/matzehuels/rowgraph/pkg/graph"
)

const (
	// Padding is added on every side of the members' bounding box.
	Padding = 20.0
	// ZIndex places overlays below regular nodes.
	ZIndex = -1
)

// Members returns the non-overlay nodes that belong to overlay o.
func Members(o *graph.Node, nodes []*graph.Node) []*graph.Node {
	entries := Entries(o.Data.ContainedEntries)
	if len(entries) == 0 {
		return nil
	}
	var out []*graph.Node
	for _, n := range nodes {
		if n.Data.IsOverlay || n.Data.ContainmentID != o.Data.ContainmentID {
			continue
		}
		if entries[n.Data.IRI] {
			out = append(out, n)
		}
	}
	return out
}

// Entries splits a comma-joined member list into a set.
func Entries(s string) map[string]bool {
	out := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out[part] = true
		}
	}
	return out
}

// Resolve positions overlays around their members.
//
// nodes must carry absolute positions. The returned overlays are copies; the
// inputs are not modified. Overlays without members are omitted.
func Resolve(overlays, nodes []*graph.Node) []*graph.Node {
	var out []*graph.Node
	for _, o := range overlays {
		members := Members(o, nodes)
		if len(members) == 0 {
			continue
		}
		minX, minY, maxX, maxY := bounds(members)

		cp := *o
		cp.Children = nil
		cp.ParentNode = ""
		cp.ZIndex = ZIndex
		cp.Position = graph.Position{X: minX - Padding, Y: minY - Padding}
		cp.PositionAbsolute = cp.Position
		cp.Width = maxX - minX + 2*Padding
		cp.Height = maxY - minY + 2*Padding
		out = append(out, &cp)
	}
	return out
}

func bounds(nodes []*graph.Node) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.PositionAbsolute.X)
		minY = math.Min(minY, n.PositionAbsolute.Y)
		maxX = math.Max(maxX, n.Right())
		maxY = math.Max(maxY, n.Bottom())
	}
	return minX, minY, maxX, maxY
}
