// Package mapping describes how dataset categories become graph nodes and edges.
//
// A [Config] is an externally authored JSON document:
//
//	{
//	  "layout": {
//	    "id": "buildings",
//	    "labelFormatTemplate": "{name}",
//	    "subMappings": [
//	      {"id": "rooms", "labelFormatTemplate": "{name} ({area} m²)", "edgeMatchKey": "iri"}
//	    ]
//	  },
//	  "edges": [
//	    {"id": "doors", "labelFormatTemplate": "{kind}", "sourceKey": "from",
//	     "targetKey": "to", "colorKey": "kind", "flowSymbol": "="}
//	  ],
//	  "overlays": [
//	    {"id": "zones", "labelFormatTemplate": "{name}", "attachesTo": "members"}
//	  ]
//	}
//
// The "layout" entry is a tree of [RowMapping]. Each mapping produces the
// children of its nodes with exactly one [ChildStrategy]: self-recursion over
// the same category, a list of sub-mappings, or nothing. The JSON form carries
// this as the isRecursive flag and the subMappings list; a document that sets
// both is rejected.
package mapping
