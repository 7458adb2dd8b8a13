package materialize

import (
	"strconv"

	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/label"
	"github.com/matzehuels/rowgraph/pkg/mapping"
)

// Edges materializes every edge mapping against the flat node list.
//
// A row becomes an edge only when both its sourceKey and targetKey values
// match the edge key of some node; the first node in preorder wins when
// several share a key. Rows that join the same two nodes twice keep the
// first occurrence. Ids are "{source}-{target}"; since positional node ids
// contain dashes, "0"→"1-2" and "0-1"→"2" would share one, so a later pair
// whose id is already taken gets a "-2", "-3", ... suffix.
func Edges(maps []mapping.EdgeMapping, data dataset.Datasets, flat []*graph.Node, legend *Legend) []graph.Edge {
	byKey := indexByEdgeKey(flat)
	if len(byKey) == 0 {
		return nil
	}

	var edges []graph.Edge
	joined := make(map[[2]string]bool)
	taken := make(map[string]bool)
	for _, m := range maps {
		for _, row := range data[m.ID] {
			src, ok := lookup(byKey, row, m.SourceKey)
			if !ok {
				continue
			}
			dst, ok := lookup(byKey, row, m.TargetKey)
			if !ok {
				continue
			}

			pair := [2]string{src.ID, dst.ID}
			if joined[pair] {
				continue
			}
			joined[pair] = true
			id := uniqueEdgeID(taken, src.ID, dst.ID)
			taken[id] = true
			edges = append(edges, newEdge(m, row, id, src, dst, legend))
		}
	}
	return edges
}

func uniqueEdgeID(taken map[string]bool, source, target string) string {
	id := graph.EdgeID(source, target)
	if !taken[id] {
		return id
	}
	for n := 2; ; n++ {
		if c := id + "-" + strconv.Itoa(n); !taken[c] {
			return c
		}
	}
}

func indexByEdgeKey(flat []*graph.Node) map[string]*graph.Node {
	out := make(map[string]*graph.Node, len(flat))
	for _, n := range flat {
		if n.Data.IsOverlay || n.Data.EdgeKey == "" {
			continue
		}
		if _, dup := out[n.Data.EdgeKey]; !dup {
			out[n.Data.EdgeKey] = n
		}
	}
	return out
}

func lookup(byKey map[string]*graph.Node, row dataset.Row, field string) (*graph.Node, bool) {
	v, ok := row.Text(field)
	if !ok || v == "" {
		return nil, false
	}
	n, ok := byKey[v]
	return n, ok
}

func newEdge(m mapping.EdgeMapping, row dataset.Row, id string, src, dst *graph.Node, legend *Legend) graph.Edge {
	color := DefaultEdgeColor
	if m.ColorKey != "" && legend != nil {
		if v, ok := row.Text(m.ColorKey); ok && v != "" {
			color = legend.Color(label.Unquote(v), true)
		}
	}

	e := graph.Edge{
		ID:       id,
		Label:    label.Format(m.LabelFormat, row),
		Source:   src.ID,
		Target:   dst.ID,
		Category: m.ID,
		Style:    graph.EdgeStyle{Color: color},
	}
	if m.Flow.MarkStart() {
		e.MarkerStart = &graph.Marker{Type: graph.MarkerArrowClosed, Color: color}
	}
	if m.Flow.MarkEnd() {
		e.MarkerEnd = &graph.Marker{Type: graph.MarkerArrowClosed, Color: color}
	}
	return e
}
