// Package pkg provides the core libraries for rowgraph.
//
// # Overview
//
// rowgraph turns categorized tabular rows into a nested, laid-out graph. A
// mapping document says which dataset category becomes which kind of node,
// how rows nest inside each other, which rows are edges and which are
// overlays. The pkg directory is organized into four areas:
//
//  1. Model - [mapping], [dataset], [filter] and the serialized [graph]
//  2. Materialization - [label], [materialize] and [overlay]
//  3. Layout and rendering - [layout], [layout/dot] and [render]
//  4. Infrastructure - [pipeline], [cache], [config], [errors] and [observability]
//
// # Architecture
//
// The data flow through rowgraph:
//
//	mapping + datasets (+ selection)
//	         ↓
//	    [filter] package (restrict rows to the selection)
//	         ↓
//	    [materialize] package (containment forest, edges, overlays, legend)
//	         ↓
//	    [layout] package (positions from a pluggable solver)
//	         ↓
//	    [render] packages (SVG, DOT, PDF, PNG, table, tree)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/rowgraph/pkg/cache"
//	    "github.com/matzehuels/rowgraph/pkg/layout/dot"
//	    "github.com/matzehuels/rowgraph/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, dot.New(nil), nil)
//	res, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Mapping: cfg,
//	    Data:    data,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// [mapping] - The mapping document: row mappings (leaf, recursive or with
// sub-mappings), edge mappings with a flow symbol, and overlay mappings.
//
// [dataset] - Category-keyed rows and the typed field accessors every other
// package reads them through.
//
// [filter] - Selections. Named categories keep only their listed rows and
// references outside the selection are stripped.
//
// [materialize] - Builds the containment forest with positional ids, the
// edges between matched nodes, overlay groups and the color legend.
//
// [layout] - Annotates the forest with footprints, hands it to a [layout.Solver]
// and maps the placed graph back. [layout.Latest] keeps only the newest request
// per client.
//
// [layout/dot] - A Graphviz solver that lays out each container's children
// as a cluster.
//
// [render/nodelink] and [render/text] - DOT/SVG diagrams and terminal tables
// and trees. [render] converts SVG to PDF and PNG.
//
// [pipeline] - materialize → layout → render, shared by the CLI and the HTTP
// server, with caching of layouts and artifacts.
//
// [cache] - File, redis and null backends behind one interface.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -short ./pkg/...   # Skip tests that need Graphviz output
//	go test -run Example       # Examples only
//
// [mapping]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/mapping
// [dataset]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/dataset
// [filter]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/filter
// [graph]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/graph
// [label]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/label
// [materialize]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/materialize
// [overlay]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/overlay
// [layout]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/layout
// [layout/dot]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/layout/dot
// [render]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/render/nodelink
// [render/text]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/render/text
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/rowgraph/pkg/observability
package pkg
