package text

import (
	"strings"
	"testing"

	"github.com/matzehuels/rowgraph/pkg/graph"
)

func sample() *graph.Graph {
	return &graph.Graph{
		Nodes: []*graph.Node{
			{ID: "0", Width: 300, Height: 200, Data: graph.NodeData{Label: "Plant", Category: "site", IRI: "p", NodeColor: "#4e79a7"}},
			{ID: "0-0", ParentNode: "0", Width: 150, Height: 50,
				PositionAbsolute: graph.Position{X: 20, Y: 20},
				Data:             graph.NodeData{Label: "Pump", Category: "asset", IRI: "a", ContainmentID: "p"}},
			{ID: "0-1", ParentNode: "0", Width: 150, Height: 50,
				Data: graph.NodeData{Label: "Valve", Category: "asset", IRI: "b", ContainmentID: "p"}},
			{ID: "overlay-zone-0", Type: graph.TypeOverlay,
				Data: graph.NodeData{Label: "Zone A", IsOverlay: true, ContainmentID: "p", ContainedEntries: "a"}},
		},
		LegendItems: []graph.LegendEntry{{Label: "pump", Color: "#4e79a7"}, {Label: "flow", Color: "#f28e2b", IsEdge: true}},
	}
}

func TestTable(t *testing.T) {
	out := Table(sample())
	for _, want := range []string{"ID", "Label", "Plant", "Pump", "0-1", "20,20", "150x50", "Zone A"} {
		if !strings.Contains(out, want) {
			t.Errorf("Table output missing %q:\n%s", want, out)
		}
	}
}

func TestLegend(t *testing.T) {
	out := Legend(sample())
	for _, want := range []string{"pump", "flow", "edge", "#f28e2b"} {
		if !strings.Contains(out, want) {
			t.Errorf("Legend output missing %q:\n%s", want, out)
		}
	}
}

func TestTree(t *testing.T) {
	out := Tree(sample())

	plant := strings.Index(out, "Plant")
	pump := strings.Index(out, "Pump")
	valve := strings.Index(out, "Valve")
	if plant < 0 || pump < plant || valve < pump {
		t.Fatalf("Tree should list Plant, then Pump, then Valve:\n%s", out)
	}
	if !strings.Contains(out, "overlays") || !strings.Contains(out, "Zone A") {
		t.Errorf("Tree should list overlays:\n%s", out)
	}

	lines := strings.Split(out, "\n")
	var pumpLine string
	for _, l := range lines {
		if strings.Contains(l, "Pump") {
			pumpLine = l
		}
	}
	if strings.Index(pumpLine, "Pump") <= strings.Index(lines[0], "Plant") {
		t.Errorf("Pump should be indented below Plant:\n%s", out)
	}
}

func TestEmptyGraph(t *testing.T) {
	g := &graph.Graph{}
	if out := Tree(g); strings.TrimSpace(out) != "" {
		t.Errorf("Tree of empty graph = %q, want empty", out)
	}
	if out := Table(g); !strings.Contains(out, "Label") {
		t.Errorf("Table of empty graph should still have headers: %q", out)
	}
}
