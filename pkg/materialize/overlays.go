package materialize

import (
	"fmt"

	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/label"
	"github.com/matzehuels/rowgraph/pkg/mapping"
)

// Overlays materializes overlay rows as unpositioned overlay nodes.
// Geometry is assigned later by the overlay resolver once member nodes
// have absolute positions.
func Overlays(maps []mapping.OverlayMapping, data dataset.Datasets, legend *Legend) []*graph.Node {
	var out []*graph.Node
	for _, m := range maps {
		for i, row := range data[m.ID] {
			n := &graph.Node{
				ID:   OverlayID(m.ID, i),
				Type: m.NodeType,
				Data: graph.NodeData{
					Label:         label.Format(m.LabelFormat, row),
					IRI:           row.IRI(),
					Category:      m.ID,
					NodeColor:     nodeColor(&m.RowMapping, row, legend),
					NodeTextColor: nodeTextColor(&m.RowMapping, row),
					IsOverlay:     true,
					CanDelete:     m.CanDeleteElements,
				},
			}
			if n.Type == "" {
				n.Type = graph.TypeOverlay
			}
			n.Data.ContainmentID, _ = row.Ref(dataset.FieldParentIRI)
			n.Data.ContainedEntries, _ = row.Text(m.AttachesTo)
			n.Data.ContainedEntries = label.Unquote(n.Data.ContainedEntries)
			out = append(out, n)
		}
	}
	return out
}

// OverlayID returns the id of the index-th row of an overlay category.
func OverlayID(category string, index int) string {
	return fmt.Sprintf("overlay-%s-%d", category, index)
}
