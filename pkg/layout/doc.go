// Package layout positions a materialized node forest.
//
// The [Orchestrator] runs one layout pass:
//
//  1. Footprint: sizes every node bottom-up ([Footprint]).
//  2. Solve: hands the annotated tree to a [Solver], which returns
//     parent-relative positions and routed edges.
//  3. Verify: every submitted node must come back positioned, otherwise the
//     whole pass fails and nothing is applied.
//  4. Flatten: accumulates absolute positions in preorder and strips the
//     nesting into a flat list linked by ParentNode.
//  5. Overlays: sizes overlays around their members ([overlay.Resolve]).
//
// Footprints sum children on both axes independently. This overestimates
// what a packing would need and is kept as a known approximation.
//
// # Solvers
//
// The solver graph mirrors the ELK JSON graph: nested children with x, y,
// width and height relative to their parent, and edges with source and
// target ids. Package layout/dot implements a [Solver] with Graphviz.
//
// # Concurrency
//
// Layouts are triggered by user events and may overlap. [Latest] keeps a
// single in-flight slot: starting a new request cancels the previous one,
// and a result that is no longer the latest is reported as [ErrStale].
package layout
