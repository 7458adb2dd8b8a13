// Package dataset models query results as flat rows keyed by category.
//
// Rows have no fixed schema: fields vary per category. The only documented
// fields are:
//
//	iri          identifier of the row (required)
//	parentIri    parent reference for rows of a self-recursive category
//	{category}Iri  parent reference into another category
//
// Any field whose name ends in "Iri" is treated as a reference by the filter
// engine. Rows without an iri are dropped at the boundary by [Sanitize].
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
)

// FieldIRI is the identifying field every row carries.
const FieldIRI = "iri"

// FieldParentIRI is the parent reference of rows in a self-recursive category.
const FieldParentIRI = "parentIri"

// RefSuffix marks a field as a reference to another row.
const RefSuffix = "Iri"

// Row is one flat record within a category's dataset.
type Row map[string]any

// Datasets maps a category to its rows in query order.
type Datasets map[string][]Row

// RefField returns the name of the field a child row uses to point at a row
// of the given category.
func RefField(category string) string { return category + RefSuffix }

// IsRefField reports whether field names a reference to another row.
// The identifying field itself is not a reference.
func IsRefField(field string) bool {
	return field != FieldIRI && len(field) > len(RefSuffix) && strings.HasSuffix(field, RefSuffix)
}

// IRI returns the row's identifier, or "" when absent.
func (r Row) IRI() string {
	s, _ := r.Text(FieldIRI)
	return s
}

// Text returns the field value rendered as a string.
// The boolean is false when the field is absent or null.
func (r Row) Text(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	return Stringify(v), true
}

// Ref returns the non-empty value of a reference field.
func (r Row) Ref(field string) (string, bool) {
	s, ok := r.Text(field)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Clone returns a copy of the datasets whose rows may be mutated freely.
func (d Datasets) Clone() Datasets {
	out := make(Datasets, len(d))
	for cat, rows := range d {
		cp := make([]Row, len(rows))
		for i, r := range rows {
			cp[i] = r.Clone()
		}
		out[cat] = cp
	}
	return out
}

// Categories returns the category names in sorted order.
func (d Datasets) Categories() []string {
	return slices.Sorted(maps.Keys(d))
}

// RowCount returns the total number of rows across all categories.
func (d Datasets) RowCount() int {
	n := 0
	for _, rows := range d {
		n += len(rows)
	}
	return n
}

// Stringify renders a decoded JSON scalar the way labels and keys expect it:
// numbers without trailing zeros, booleans as true/false, strings verbatim.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Sanitize drops rows that lack an iri and returns the cleaned datasets
// together with the number of dropped rows. The input is not modified.
//
// When categories are given only those are checked; rows of other categories
// (edge rows, which carry no iri) are kept as they are.
func Sanitize(d Datasets, categories ...string) (Datasets, int) {
	var only map[string]bool
	if len(categories) > 0 {
		only = make(map[string]bool, len(categories))
		for _, c := range categories {
			only[c] = true
		}
	}

	out := make(Datasets, len(d))
	dropped := 0
	for cat, rows := range d {
		if only != nil && !only[cat] {
			out[cat] = rows
			continue
		}
		kept := make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.IRI() == "" {
				dropped++
				continue
			}
			kept = append(kept, r)
		}
		out[cat] = kept
	}
	return out, dropped
}

// Read decodes datasets from JSON of the form {"category": [{...}, ...]}.
func Read(r io.Reader) (Datasets, error) {
	var d Datasets
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode datasets: %w", err)
	}
	if d == nil {
		d = Datasets{}
	}
	return d, nil
}

// ReadFile decodes datasets from a JSON file.
func ReadFile(path string) (Datasets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
