// Package materialize turns mapped datasets into a node forest, matched
// edges and a color legend.
//
// # Nodes
//
// [Nodes] walks a RowMapping tree depth-first against the datasets. Root rows
// are rows whose parent reference is empty; children are rows whose
// reference equals their parent's IRI. Recursive mappings use the parentIri
// field, sub-mappings use "{parentCategory}Iri". Ids are positional:
//
//	0        first root row
//	0-1      second child of the first root
//	0-1-0    first child of that child
//
// When the root category has no rows, for example because a filter cleared
// it, the walk descends into the sub-mappings in declared order and
// materializes the first category that has rows.
//
// # Edges
//
// [Edges] matches each edge row's source and target values against the
// edgeMatchKey values of the materialized nodes. Rows with an unmatched end
// are skipped, so edges never dangle.
//
// # Legend
//
// Colors are assigned through an explicit [Legend], one color per distinct
// color-key value, first occurrence wins. [Run] resets the legend before
// assigning colors so values from an unrelated graph never leak in.
package materialize
