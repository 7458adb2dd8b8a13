package materialize_test

import (
	"fmt"

	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/mapping"
	"github.com/matzehuels/rowgraph/pkg/materialize"
)

func ExampleRun() {
	cfg := &mapping.Config{
		Layout: &mapping.RowMapping{ID: "parts", LabelFormat: "part {iri}", Children: mapping.SelfRecursive()},
	}
	data := dataset.Datasets{"parts": {
		{"iri": "a", "parentIri": nil},
		{"iri": "b", "parentIri": "a"},
		{"iri": "c", "parentIri": "b"},
	}}

	res := materialize.Run(cfg, data, nil)
	for _, root := range res.Forest {
		root.Walk(func(n, _ *graph.Node) {
			fmt.Printf("%-5s %s\n", n.ID, n.Data.Label)
		})
	}
	// Output:
	// 0     part a
	// 0-0   part b
	// 0-0-0 part c
}
