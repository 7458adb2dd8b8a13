// Package filter restricts datasets to the branch a user selected.
//
// A [Selection] names the IRIs that stay visible, per category. Applying it
// keeps the selected rows of the named categories, keeps structural
// categories (edges and overlays) untouched, and clears every other node
// category. Reference fields pointing outside the selection are removed
// first, so a selected row whose parent was pruned becomes a root row.
//
//	sel := &filter.Selection{FilterObject: map[string][]string{"rooms": {"r1"}}}
//	out := filter.Apply(data, sel, cfg.Structural())
//
// Filtering never fails and never mutates its input. A nil or empty
// selection returns the datasets unchanged.
package filter

import (
	"maps"
	"slices"

	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/errors"
	"github.com/matzehuels/rowgraph/pkg/graph"
)

// Selection is the filter derived from a user selection.
type Selection struct {
	// AllowedIRIs extends the set of IRIs that references may point to.
	AllowedIRIs []string `json:"allowedIris,omitempty"`
	// FilterObject maps a category to the IRIs of its rows that stay.
	FilterObject map[string][]string `json:"filterObject"`
}

// Active reports whether applying s changes anything.
func (s *Selection) Active() bool {
	return s != nil && len(s.FilterObject) > 0
}

// Allowed returns the IRI superset references may point into:
// AllowedIRIs together with every value of FilterObject.
func (s *Selection) Allowed() map[string]bool {
	out := make(map[string]bool, len(s.AllowedIRIs))
	for _, iri := range s.AllowedIRIs {
		out[iri] = true
	}
	for _, iris := range s.FilterObject {
		for _, iri := range iris {
			out[iri] = true
		}
	}
	return out
}

// Validate rejects selections with empty category names.
func (s *Selection) Validate() error {
	if s == nil {
		return nil
	}
	for cat := range s.FilterObject {
		if cat == "" {
			return errors.New(errors.ErrCodeInvalidSelection, "filter names an empty category")
		}
	}
	return nil
}

// Apply returns data restricted to sel.
//
// Categories named in sel.FilterObject keep only their listed rows.
// Categories in structural keep all rows. Every other category is cleared,
// including categories that unrelated branches of the mapping tree need.
func Apply(data dataset.Datasets, sel *Selection, structural map[string]bool) dataset.Datasets {
	if !sel.Active() {
		return data
	}

	allowed := sel.Allowed()
	out := data.Clone()
	for _, rows := range out {
		for _, row := range rows {
			stripRefs(row, allowed)
		}
	}

	for cat, rows := range out {
		keep, named := sel.FilterObject[cat]
		switch {
		case named:
			out[cat] = retain(rows, keep)
		case structural[cat]:
		default:
			out[cat] = []dataset.Row{}
		}
	}
	return out
}

// stripRefs deletes reference fields whose value is not in allowed.
func stripRefs(row dataset.Row, allowed map[string]bool) {
	for field := range row {
		if !dataset.IsRefField(field) {
			continue
		}
		if v, _ := row.Text(field); !allowed[v] {
			delete(row, field)
		}
	}
}

func retain(rows []dataset.Row, iris []string) []dataset.Row {
	keep := make(map[string]bool, len(iris))
	for _, iri := range iris {
		keep[iri] = true
	}
	out := make([]dataset.Row, 0, len(rows))
	for _, r := range rows {
		if keep[r.IRI()] {
			out = append(out, r)
		}
	}
	return out
}

// FromNodes builds the selection that shows the given nodes and everything
// nested below them. Overlay nodes are ignored.
func FromNodes(nodes ...*graph.Node) *Selection {
	byCat := make(map[string][]string)
	seen := make(map[string]bool)
	for _, n := range nodes {
		if n == nil {
			continue
		}
		n.Walk(func(cur, _ *graph.Node) {
			if cur.Data.IsOverlay || cur.Data.IRI == "" || seen[cur.Data.Category+"\x00"+cur.Data.IRI] {
				return
			}
			seen[cur.Data.Category+"\x00"+cur.Data.IRI] = true
			byCat[cur.Data.Category] = append(byCat[cur.Data.Category], cur.Data.IRI)
		})
	}
	if len(byCat) == 0 {
		return nil
	}

	sel := &Selection{FilterObject: byCat}
	for _, cat := range slices.Sorted(maps.Keys(byCat)) {
		sel.AllowedIRIs = append(sel.AllowedIRIs, byCat[cat]...)
	}
	return sel
}
