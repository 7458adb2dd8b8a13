// Package text renders materialized graphs for the terminal.
//
// [Table] lists every node with its geometry and [Tree] draws the
// containment hierarchy. Both accept positioned and unpositioned graphs.
// Styling uses lipgloss, so color output follows the terminal's profile.
package text

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/overlay"
)

var (
	colorDim  = lipgloss.Color("240")
	colorGray = lipgloss.Color("245")

	headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// Table renders one row per node: id, label, category, parent and geometry.
// Overlays are listed after the forest nodes.
func Table(g *graph.Graph) string {
	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		rows = append(rows, []string{
			swatch(n.Data.NodeColor),
			n.ID,
			n.Data.Label,
			n.Data.Category,
			n.ParentNode,
			fmt.Sprintf("%.0f,%.0f", n.PositionAbsolute.X, n.PositionAbsolute.Y),
			fmt.Sprintf("%.0fx%.0f", n.Width, n.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("", "ID", "Label", "Category", "Parent", "Position", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(g.Nodes) && g.Nodes[row].Data.IsOverlay {
				return dimStyle
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// Legend renders the legend entries as a two-column table.
func Legend(g *graph.Graph) string {
	rows := make([][]string, 0, len(g.LegendItems))
	for _, e := range g.LegendItems {
		kind := "node"
		if e.IsEdge {
			kind = "edge"
		}
		rows = append(rows, []string{swatch(e.Color), e.Label, kind, e.Color})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("", "Value", "Kind", "Color").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// Tree renders the containment hierarchy, one branch per root node.
// Overlays follow under their own branch together with their members.
func Tree(g *graph.Graph) string {
	t := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(dimStyle)

	for _, n := range g.Roots() {
		t.Child(branch(g, n))
	}

	if overlays := g.Overlays(); len(overlays) > 0 {
		ot := tree.Root(dimStyle.Render("overlays"))
		for _, o := range overlays {
			members := overlay.Members(o, g.Nodes)
			names := make([]string, len(members))
			for i, m := range members {
				names[i] = m.Data.Label
			}
			ot.Child(tree.Root(item(o)).Child(names))
		}
		t.Child(ot)
	}
	return t.String()
}

func branch(g *graph.Graph, n *graph.Node) any {
	children := g.ChildrenOf(n.ID)
	if len(children) == 0 {
		return item(n)
	}
	sub := tree.Root(item(n))
	for _, c := range children {
		if !c.Data.IsOverlay {
			sub.Child(branch(g, c))
		}
	}
	return sub
}

func item(n *graph.Node) string {
	var b strings.Builder
	b.WriteString(n.Data.Label)
	if n.Data.Category != "" {
		b.WriteString(" ")
		b.WriteString(dimStyle.Render("[" + n.Data.Category + "]"))
	}
	return b.String()
}

func swatch(hex string) string {
	if hex == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}
