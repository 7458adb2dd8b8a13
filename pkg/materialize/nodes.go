package materialize

import (
	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/label"
	"github.com/matzehuels/rowgraph/pkg/mapping"
)

// Nodes materializes the layout tree rooted at root.
//
// It returns the nested forest and a flat preorder list of the same nodes;
// the flat list is what edge matching scans. A nil root or missing datasets
// yield empty results.
func Nodes(root *mapping.RowMapping, data dataset.Datasets, legend *Legend) (forest, flat []*graph.Node) {
	if root == nil {
		return nil, nil
	}
	w := &walker{data: data, legend: legend, path: make(map[string]bool)}
	m, via := w.entry(root, nil)
	if m == nil {
		return nil, nil
	}
	forest = w.build(m, rootRows(m, via, data[m.ID]), "", "", 0)
	return forest, w.flat
}

type walker struct {
	data   dataset.Datasets
	legend *Legend
	flat   []*graph.Node
	// path holds category/iri pairs on the current branch; rows that would
	// repeat one are skipped so cyclic data cannot recurse forever.
	path map[string]bool
}

// entry finds the first mapping in declared depth-first order whose category
// has rows, together with the mapping it was reached through.
func (w *walker) entry(m, via *mapping.RowMapping) (*mapping.RowMapping, *mapping.RowMapping) {
	if len(w.data[m.ID]) > 0 {
		return m, via
	}
	for _, sub := range m.Children.Subs() {
		if found, from := w.entry(sub, m); found != nil {
			return found, from
		}
	}
	return nil, nil
}

// rootRows selects rows with no parent reference. For a mapping reached by
// descent the reference into the skipped parent must be empty as well.
func rootRows(m, via *mapping.RowMapping, rows []dataset.Row) []dataset.Row {
	var refs []string
	if m.IsRecursive() {
		refs = append(refs, dataset.FieldParentIRI)
	}
	if via != nil {
		refs = append(refs, via.ChildRefField(m))
	}

	var out []dataset.Row
	for _, r := range rows {
		if !hasAnyRef(r, refs) {
			out = append(out, r)
		}
	}
	return out
}

// childRows selects the rows of child that point at parentIRI through the
// reference field parent uses. Recursive sub-mappings only contribute their
// own top-level rows; deeper rows hang off their recursive parent.
func childRows(parent, child *mapping.RowMapping, parentIRI string, rows []dataset.Row) []dataset.Row {
	field := parent.ChildRefField(child)
	var out []dataset.Row
	for _, r := range rows {
		ref, ok := r.Ref(field)
		if !ok || ref != parentIRI {
			continue
		}
		if child != parent && child.IsRecursive() && hasAnyRef(r, []string{dataset.FieldParentIRI}) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func hasAnyRef(r dataset.Row, fields []string) bool {
	for _, f := range fields {
		if _, ok := r.Ref(f); ok {
			return true
		}
	}
	return false
}

// build materializes rows of m as children of the node parentID, appending
// each node to the flat list before its descendants. Child indices start at
// offset.
func (w *walker) build(m *mapping.RowMapping, rows []dataset.Row, parentID, parentIRI string, offset int) []*graph.Node {
	if len(rows) == 0 {
		return nil
	}
	nodes := make([]*graph.Node, 0, len(rows))
	for _, row := range rows {
		iri := row.IRI()
		key := m.ID + "\x00" + iri
		if w.path[key] {
			continue
		}
		n := w.node(m, row, graph.ChildID(parentID, offset+len(nodes)), parentID, parentIRI)
		w.flat = append(w.flat, n)

		w.path[key] = true
		switch m.Children.Kind() {
		case mapping.StrategySelfRecursive:
			n.Children = w.build(m, childRows(m, m, iri, w.data[m.ID]), n.ID, iri, 0)
		case mapping.StrategySubMappings:
			for _, sub := range m.Children.Subs() {
				// Indices continue across sub-mappings so sibling ids stay unique.
				kids := w.build(sub, childRows(m, sub, iri, w.data[sub.ID]), n.ID, iri, len(n.Children))
				n.Children = append(n.Children, kids...)
			}
		}
		delete(w.path, key)

		if len(n.Children) > 0 && m.NodeType == "" {
			n.Type = graph.TypeGroup
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func (w *walker) node(m *mapping.RowMapping, row dataset.Row, id, parentID, parentIRI string) *graph.Node {
	n := &graph.Node{
		ID:   id,
		Type: m.NodeType,
		Data: graph.NodeData{
			Label:         label.Format(m.LabelFormat, row),
			IRI:           row.IRI(),
			Category:      m.ID,
			ParentID:      parentID,
			ContainmentID: parentIRI,
			NodeColor:     nodeColor(m, row, w.legend),
			NodeTextColor: nodeTextColor(m, row),
			CanDelete:     m.CanDeleteElements,
		},
	}
	if n.Type == "" {
		n.Type = graph.TypeDefault
	}
	if parentID != "" {
		n.Data.Extent = graph.ExtentParent
	}
	if m.EdgeMatchKey != "" {
		n.Data.EdgeKey, _ = row.Text(m.EdgeMatchKey)
	}
	return n
}

func nodeColor(m *mapping.RowMapping, row dataset.Row, legend *Legend) string {
	if m.NodeColorKey == "" || legend == nil {
		return DefaultNodeColor
	}
	v, ok := row.Text(m.NodeColorKey)
	if !ok || v == "" {
		return DefaultNodeColor
	}
	return legend.Color(label.Unquote(v), false)
}

func nodeTextColor(m *mapping.RowMapping, row dataset.Row) string {
	if m.NodeTextColorKey == "" {
		return DefaultTextColor
	}
	v, _ := row.Text(m.NodeTextColorKey)
	return textColor(label.Unquote(v))
}
