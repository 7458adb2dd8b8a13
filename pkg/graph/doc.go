// Package graph provides the wire types handed to the rendering surface.
//
// This package defines the canonical JSON format for rowgraph output, used by
// the CLI, the HTTP API, and the layout cache.
//
// # Core Types
//
//   - [Graph]: the rendering triple (nodes, edges, legendItems)
//   - [Node]: a materialized node, nested through Children until layout
//     flattens it, then linked through ParentNode
//   - [Edge]: a matched, colored, directional edge
//   - [LegendEntry]: one color-key value and its color
//
// # Identifiers
//
// Node ids are positional, not content-addressed: a root row gets its index
// ("0", "1", ...) and a child appends its own index to its parent's id
// ("0-0", "0-1", "0-1-0"). Ids are stable across re-materialization only if
// row order is stable. Edge ids are "{source}-{target}".
//
// # Serialization
//
//	{
//	  "nodes": [{"id": "0", "position": {"x": 0, "y": 0}, "data": {"label": "a", "iri": "a"}}],
//	  "edges": [{"id": "0-1", "source": "0", "target": "1", "style": {"stroke": "#b1b1b7"}}],
//	  "legendItems": [{"label": "door", "color": "#e6194b", "isEdge": true}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("view.json")
//	graph.WriteGraphFile(g, "output.json")
//	data, _ := graph.MarshalGraph(g)
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
