package materialize

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/filter"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/mapping"
)

func partsMapping() *mapping.RowMapping {
	return &mapping.RowMapping{ID: "parts", LabelFormat: "{iri}", Children: mapping.SelfRecursive()}
}

func partsData() dataset.Datasets {
	return dataset.Datasets{"parts": {
		{"iri": "a", "parentIri": nil},
		{"iri": "b", "parentIri": "a"},
	}}
}

// building returns a floors → rooms/doors layout with room-to-room edges
// and a zone overlay over the rooms of f1.
func building() (*mapping.Config, dataset.Datasets) {
	rooms := &mapping.RowMapping{
		ID:           "rooms",
		LabelFormat:  "{name}",
		EdgeMatchKey: "code",
		NodeColorKey: "use",
	}
	doors := &mapping.RowMapping{ID: "doors", LabelFormat: "door {iri}"}
	cfg := &mapping.Config{
		Layout: &mapping.RowMapping{
			ID:          "floors",
			LabelFormat: "Floor {level}",
			Children:    mapping.SubMappings(rooms, doors),
		},
		Edges: []mapping.EdgeMapping{{
			ID: "links", LabelFormat: "{kind}", SourceKey: "from", TargetKey: "to",
			ColorKey: "kind", Flow: mapping.FlowForward,
		}},
		Overlays: []mapping.OverlayMapping{{
			RowMapping: mapping.RowMapping{ID: "zones", LabelFormat: "{name}"},
			AttachesTo: "members",
		}},
	}
	data := dataset.Datasets{
		"floors": {{"iri": "f1", "level": 1.0}, {"iri": "f2", "level": 2.0}},
		"rooms": {
			{"iri": "r1", "floorsIri": "f1", "name": "'Hall'", "code": "H", "use": "public"},
			{"iri": "r2", "floorsIri": "f1", "name": "Office", "code": "O", "use": "private"},
			{"iri": "r3", "floorsIri": "f2", "name": "Lab", "code": "L", "use": "public"},
		},
		"doors": {{"iri": "d1", "floorsIri": "f1"}},
		"links": {
			{"iri": "e1", "from": "H", "to": "O", "kind": "door"},
			{"iri": "e2", "from": "O", "to": "L", "kind": "stair"},
			{"iri": "e3", "from": "H", "to": "L", "kind": "door"},
			{"iri": "e4", "from": "H", "to": "missing", "kind": "door"},
		},
		"zones": {
			{"iri": "z1", "parentIri": "f1", "members": "r1,r2", "name": "East"},
		},
	}
	return cfg, data
}

func ids(nodes []*graph.Node) string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID + ":" + n.Data.IRI
	}
	return strings.Join(out, " ")
}

func TestNodesRecursive(t *testing.T) {
	forest, flat := Nodes(partsMapping(), partsData(), NewLegend())

	if len(forest) != 1 {
		t.Fatalf("roots = %d, want 1", len(forest))
	}
	a := forest[0]
	if a.ID != "0" || a.Data.IRI != "a" || a.Data.Label != "a" {
		t.Errorf("root = %+v", a)
	}
	if len(a.Children) != 1 || a.Children[0].ID != "0-0" || a.Children[0].Data.IRI != "b" {
		t.Fatalf("children = %v", ids(a.Children))
	}
	if got := ids(flat); got != "0:a 0-0:b" {
		t.Errorf("flat = %s", got)
	}

	b := a.Children[0]
	if b.Data.ParentID != "0" || b.Data.Extent != graph.ExtentParent || b.Data.ContainmentID != "a" {
		t.Errorf("child data = %+v", b.Data)
	}
	if a.Type != graph.TypeGroup || b.Type != graph.TypeDefault {
		t.Errorf("types = %s/%s", a.Type, b.Type)
	}
	if a.Data.NodeColor != DefaultNodeColor || a.Data.NodeTextColor != DefaultTextColor {
		t.Errorf("default colors = %s/%s", a.Data.NodeColor, a.Data.NodeTextColor)
	}
}

func TestNodesFilteredToRoot(t *testing.T) {
	sel := &filter.Selection{FilterObject: map[string][]string{"parts": {"a"}}}
	forest, flat := Nodes(partsMapping(), filter.Apply(partsData(), sel, nil), NewLegend())

	if len(forest) != 1 || forest[0].Data.IRI != "a" || len(forest[0].Children) != 0 {
		t.Fatalf("forest = %s", ids(flat))
	}
	if len(flat) != 1 {
		t.Errorf("flat = %s, want only a", ids(flat))
	}
}

func TestNodesSubMappings(t *testing.T) {
	cfg, data := building()
	_, flat := Nodes(cfg.Layout, data, NewLegend())

	want := "0:f1 0-0:r1 0-1:r2 0-2:d1 1:f2 1-0:r3"
	if got := ids(flat); got != want {
		t.Errorf("flat = %s\nwant   %s", got, want)
	}
	r1 := flat[1]
	if r1.Data.Label != "Hall" || r1.Data.EdgeKey != "H" || r1.Data.Category != "rooms" {
		t.Errorf("r1 data = %+v", r1.Data)
	}
	if flat[0].Data.Label != "Floor 1" {
		t.Errorf("floor label = %q", flat[0].Data.Label)
	}
}

func TestNodesDescendIntoFilteredCategory(t *testing.T) {
	cfg, data := building()
	sel := &filter.Selection{FilterObject: map[string][]string{"rooms": {"r2"}}}
	_, flat := Nodes(cfg.Layout, filter.Apply(data, sel, cfg.Structural()), NewLegend())

	if got := ids(flat); got != "0:r2" {
		t.Errorf("flat = %s, want 0:r2", got)
	}
}

func TestNodesMissingData(t *testing.T) {
	cfg, _ := building()
	forest, flat := Nodes(cfg.Layout, dataset.Datasets{}, NewLegend())
	if forest != nil || flat != nil {
		t.Errorf("expected empty result, got %s", ids(flat))
	}
	if f, _ := Nodes(nil, partsData(), nil); f != nil {
		t.Error("nil mapping should produce nothing")
	}
}

func TestNodesCyclicData(t *testing.T) {
	data := dataset.Datasets{"parts": {
		{"iri": "a"},
		{"iri": "a", "parentIri": "a"},
	}}
	_, flat := Nodes(partsMapping(), data, NewLegend())
	if got := ids(flat); got != "0:a" {
		t.Errorf("flat = %s", got)
	}
}

func TestNodeIDsUnique(t *testing.T) {
	cfg, data := building()
	res := Run(cfg, data, nil)

	seen := make(map[string]bool)
	for _, n := range res.Graph().Nodes {
		if seen[n.ID] {
			t.Errorf("duplicate id %s", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestNodeColors(t *testing.T) {
	m := &mapping.RowMapping{ID: "rooms", NodeColorKey: "use", NodeTextColorKey: "ink"}
	data := dataset.Datasets{"rooms": {
		{"iri": "r1", "use": "public", "ink": "#FF0000"},
		{"iri": "r2", "use": "public", "ink": "not-a-color"},
		{"iri": "r3", "use": "private"},
		{"iri": "r4"},
	}}
	legend := NewLegend()
	_, flat := Nodes(m, data, legend)

	if flat[0].Data.NodeColor != flat[1].Data.NodeColor {
		t.Error("same color-key value should share a color")
	}
	if flat[0].Data.NodeColor == flat[2].Data.NodeColor {
		t.Error("different values should get different colors")
	}
	if flat[3].Data.NodeColor != DefaultNodeColor {
		t.Errorf("unset value color = %s", flat[3].Data.NodeColor)
	}
	if flat[0].Data.NodeTextColor != "#ff0000" {
		t.Errorf("text color = %s", flat[0].Data.NodeTextColor)
	}
	for _, n := range flat[1:] {
		if n.Data.NodeTextColor != DefaultTextColor {
			t.Errorf("%s text color = %s, want black", n.ID, n.Data.NodeTextColor)
		}
	}
	if legend.Len() != 2 {
		t.Errorf("legend entries = %d, want 2", legend.Len())
	}
}

func TestEdges(t *testing.T) {
	cfg, data := building()
	legend := NewLegend()
	_, flat := Nodes(cfg.Layout, data, legend)
	edges := Edges(cfg.Edges, data, flat, legend)

	if len(edges) != 3 {
		t.Fatalf("edges = %d, want 3 (e4 has no target)", len(edges))
	}
	e := edges[0]
	if e.ID != "0-0-0-1" || e.Source != "0-0" || e.Target != "0-1" || e.Label != "door" {
		t.Errorf("edge = %+v", e)
	}
	if e.MarkerStart != nil || e.MarkerEnd == nil || e.MarkerEnd.Color != e.Style.Color {
		t.Errorf("markers = %+v / %+v", e.MarkerStart, e.MarkerEnd)
	}
	if edges[0].Style.Color != edges[2].Style.Color {
		t.Error("edges with the same kind should share a color")
	}
}

func TestEdgesUnmatchedSourceKey(t *testing.T) {
	cfg, data := building()
	cfg.Edges[0].SourceKey = "nope"
	_, flat := Nodes(cfg.Layout, data, NewLegend())
	if edges := Edges(cfg.Edges, data, flat, NewLegend()); len(edges) != 0 {
		t.Errorf("edges = %v, want none", edges)
	}
}

func TestEdgesDuplicateKeepsFirst(t *testing.T) {
	cfg, data := building()
	data["links"] = []dataset.Row{
		{"from": "H", "to": "O", "kind": "door"},
		{"from": "H", "to": "O", "kind": "stair"},
	}
	legend := NewLegend()
	_, flat := Nodes(cfg.Layout, data, legend)
	edges := Edges(cfg.Edges, data, flat, legend)
	if len(edges) != 1 || edges[0].Label != "door" {
		t.Errorf("edges = %+v", edges)
	}
	if legend.Len() != 3 {
		t.Errorf("legend = %d, want 3 (two uses + door)", legend.Len())
	}
}

func TestEdgesWithCollidingIDsBothKept(t *testing.T) {
	parts := &mapping.RowMapping{ID: "parts", LabelFormat: "{iri}", EdgeMatchKey: "iri", Children: mapping.SelfRecursive()}
	links := []mapping.EdgeMapping{{ID: "links", SourceKey: "from", TargetKey: "to", Flow: mapping.FlowForward}}
	data := dataset.Datasets{
		"parts": {
			{"iri": "a"}, {"iri": "b"}, {"iri": "c"},
			{"iri": "a1", "parentIri": "a"}, {"iri": "a2", "parentIri": "a"},
			{"iri": "b1", "parentIri": "b"}, {"iri": "b2", "parentIri": "b"}, {"iri": "b3", "parentIri": "b"},
		},
		"links": {
			{"from": "a", "to": "b3"},
			{"from": "a2", "to": "c"},
			{"from": "a", "to": "b3"},
		},
	}
	legend := NewLegend()
	_, flat := Nodes(parts, data, legend)
	edges := Edges(links, data, flat, legend)

	if len(edges) != 2 {
		t.Fatalf("edges = %+v, want 2", edges)
	}
	got := []string{edges[0].ID + " " + edges[0].Source + ">" + edges[0].Target, edges[1].ID + " " + edges[1].Source + ">" + edges[1].Target}
	want := []string{"0-1-2 0>1-2", "0-1-2-2 0-1>2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("edges = %v, want %v", got, want)
	}
}

func TestEdgeFlowAndDefaultColor(t *testing.T) {
	tests := []struct {
		flow        mapping.FlowSymbol
		start, end bool
	}{
		{mapping.FlowBackward, true, false},
		{mapping.FlowForward, false, true},
		{mapping.FlowBoth, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.flow), func(t *testing.T) {
			cfg, data := building()
			cfg.Edges[0].Flow = tt.flow
			cfg.Edges[0].ColorKey = ""
			legend := NewLegend()
			_, flat := Nodes(cfg.Layout, data, legend)
			legend.Reset()
			e := Edges(cfg.Edges, data, flat, legend)[0]

			if (e.MarkerStart != nil) != tt.start || (e.MarkerEnd != nil) != tt.end {
				t.Errorf("markers start=%v end=%v", e.MarkerStart != nil, e.MarkerEnd != nil)
			}
			if e.Style.Color != DefaultEdgeColor {
				t.Errorf("color = %s, want default", e.Style.Color)
			}
			if legend.Len() != 0 {
				t.Error("default edge color must not enter the legend")
			}
		})
	}
}

func TestNoDanglingEdgesAfterFilter(t *testing.T) {
	cfg, data := building()
	sel := &filter.Selection{FilterObject: map[string][]string{"floors": {"f1"}, "rooms": {"r1", "r2"}}}
	res := Run(cfg, filter.Apply(data, sel, cfg.Structural()), nil)

	present := make(map[string]bool)
	for _, n := range res.Flat {
		present[n.ID] = true
	}
	for _, e := range res.Edges {
		if !present[e.Source] || !present[e.Target] {
			t.Errorf("dangling edge %s", e.ID)
		}
	}
	if len(res.Edges) != 1 {
		t.Errorf("edges = %d, want only H->O", len(res.Edges))
	}
}

func TestFilterIdempotentMaterialization(t *testing.T) {
	cfg, data := building()
	sel := &filter.Selection{FilterObject: map[string][]string{"floors": {"f1"}, "rooms": {"r1", "r2"}}}
	structural := cfg.Structural()

	once := filter.Apply(data, sel, structural)
	first := Run(cfg, once, nil).Graph()
	second := Run(cfg, filter.Apply(once, sel, structural), nil).Graph()

	if !reflect.DeepEqual(first, second) {
		t.Error("re-filtering changed the materialized graph")
	}

	// Selecting the materialized nodes again reproduces the same graph.
	res := Run(cfg, once, nil)
	again := Run(cfg, filter.Apply(data, filter.FromNodes(res.Forest...), structural), nil).Graph()
	if ids(again.Nodes) != ids(first.Nodes) {
		t.Errorf("FromNodes graph = %s\nwant %s", ids(again.Nodes), ids(first.Nodes))
	}
}

func TestLegendDedupe(t *testing.T) {
	cfg, data := building()
	cfg.Layout.Children.Subs()[0].NodeColorKey = ""
	res := Run(cfg, data, nil)

	count := map[string]int{}
	for _, e := range res.Legend {
		count[e.Label]++
		if !e.IsEdge {
			t.Errorf("entry %q should be an edge entry", e.Label)
		}
	}
	if count["door"] != 1 || count["stair"] != 1 || len(res.Legend) != 2 {
		t.Errorf("legend = %+v", res.Legend)
	}
}

func TestRunResetsLegend(t *testing.T) {
	cfg, data := building()
	legend := NewLegend()
	legend.Color("stale", true)

	res := Run(cfg, data, legend)
	for _, e := range res.Legend {
		if e.Label == "stale" {
			t.Fatal("legend leaked a value from a previous pass")
		}
	}

	again := Run(cfg, data, legend)
	if !reflect.DeepEqual(res.Legend, again.Legend) {
		t.Error("identical passes should assign identical colors")
	}
}

func TestOverlays(t *testing.T) {
	cfg, data := building()
	res := Run(cfg, data, nil)

	if len(res.Overlays) != 1 {
		t.Fatalf("overlays = %d", len(res.Overlays))
	}
	o := res.Overlays[0]
	if o.ID != "overlay-zones-0" || !o.Data.IsOverlay || o.Type != graph.TypeOverlay {
		t.Errorf("overlay = %+v", o)
	}
	if o.Data.ContainmentID != "f1" || o.Data.ContainedEntries != "r1,r2" || o.Data.Label != "East" {
		t.Errorf("overlay data = %+v", o.Data)
	}

	g := res.Graph()
	if last := g.Nodes[len(g.Nodes)-1]; last.ID != o.ID {
		t.Errorf("overlays should follow the forest, last = %s", last.ID)
	}
	if n, _ := g.NodeByID("0-1"); n.ParentNode != "0" || n.Children != nil {
		t.Errorf("flattened child = %+v", n)
	}
}

func TestLegendPalette(t *testing.T) {
	l := NewLegend()
	seen := map[string]bool{}
	for i := range 40 {
		c := l.Color(string(rune('a'+i%26))+strings.Repeat("x", i/26), false)
		if seen[c] {
			t.Fatalf("color %s repeated at %d", c, i)
		}
		seen[c] = true
	}
	if l.Len() != 40 || len(l.Entries()) != 40 {
		t.Errorf("Len = %d", l.Len())
	}
}
