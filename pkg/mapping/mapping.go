package mapping

import (
	"encoding/json"

	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/errors"
)

// StrategyKind enumerates the ways a materialized node obtains children.
type StrategyKind int

const (
	// StrategyLeaf produces no children.
	StrategyLeaf StrategyKind = iota
	// StrategySelfRecursive reuses the same mapping with the current row as parent.
	StrategySelfRecursive
	// StrategySubMappings walks each declared sub-mapping with the current row as parent.
	StrategySubMappings
)

// String returns a human-readable strategy name.
func (k StrategyKind) String() string {
	switch k {
	case StrategySelfRecursive:
		return "recursive"
	case StrategySubMappings:
		return "sub-mappings"
	default:
		return "leaf"
	}
}

// ChildStrategy is the tagged variant selecting how children are produced.
// The zero value is a leaf.
type ChildStrategy struct {
	kind StrategyKind
	subs []*RowMapping
}

// Leaf returns a strategy without children.
func Leaf() ChildStrategy { return ChildStrategy{kind: StrategyLeaf} }

// SelfRecursive returns the strategy that reapplies the owning mapping.
func SelfRecursive() ChildStrategy { return ChildStrategy{kind: StrategySelfRecursive} }

// SubMappings returns the strategy that walks the given mappings in order.
// An empty list is a leaf.
func SubMappings(subs ...*RowMapping) ChildStrategy {
	if len(subs) == 0 {
		return Leaf()
	}
	return ChildStrategy{kind: StrategySubMappings, subs: subs}
}

// Kind reports the strategy variant.
func (c ChildStrategy) Kind() StrategyKind { return c.kind }

// Subs returns the declared sub-mappings; nil unless Kind is StrategySubMappings.
func (c ChildStrategy) Subs() []*RowMapping { return c.subs }

// RowMapping describes how one dataset category becomes nodes.
type RowMapping struct {
	ID                string
	LabelFormat       string
	Children          ChildStrategy
	CanDeleteElements bool
	EdgeMatchKey      string
	NodeColorKey      string
	NodeTextColorKey  string
	NodeType          string
}

// rowMappingJSON is the wire shape of a RowMapping.
type rowMappingJSON struct {
	ID                string        `json:"id"`
	LabelFormat       string        `json:"labelFormatTemplate"`
	IsRecursive       bool          `json:"isRecursive,omitempty"`
	CanDeleteElements bool          `json:"canDeleteElements,omitempty"`
	SubMappings       []*RowMapping `json:"subMappings,omitempty"`
	EdgeMatchKey      string        `json:"edgeMatchKey,omitempty"`
	NodeColorKey      string        `json:"nodeColorKey,omitempty"`
	NodeTextColorKey  string        `json:"nodeTextColorKey,omitempty"`
	NodeType          string        `json:"nodeType,omitempty"`
}

// UnmarshalJSON decodes the wire shape and rejects mappings that are both
// recursive and declare sub-mappings.
func (m *RowMapping) UnmarshalJSON(data []byte) error {
	var raw rowMappingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.IsRecursive && len(raw.SubMappings) > 0 {
		return errors.New(errors.ErrCodeInvalidMapping,
			"mapping %q is recursive and declares sub-mappings", raw.ID)
	}

	children := SubMappings(raw.SubMappings...)
	if raw.IsRecursive {
		children = SelfRecursive()
	}
	*m = RowMapping{
		ID:                raw.ID,
		LabelFormat:       raw.LabelFormat,
		Children:          children,
		CanDeleteElements: raw.CanDeleteElements,
		EdgeMatchKey:      raw.EdgeMatchKey,
		NodeColorKey:      raw.NodeColorKey,
		NodeTextColorKey:  raw.NodeTextColorKey,
		NodeType:          raw.NodeType,
	}
	return nil
}

// MarshalJSON encodes the mapping in its wire shape.
func (m RowMapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(rowMappingJSON{
		ID:                m.ID,
		LabelFormat:       m.LabelFormat,
		IsRecursive:       m.Children.Kind() == StrategySelfRecursive,
		CanDeleteElements: m.CanDeleteElements,
		SubMappings:       m.Children.Subs(),
		EdgeMatchKey:      m.EdgeMatchKey,
		NodeColorKey:      m.NodeColorKey,
		NodeTextColorKey:  m.NodeTextColorKey,
		NodeType:          m.NodeType,
	})
}

// IsRecursive reports whether the mapping reapplies itself for children.
func (m *RowMapping) IsRecursive() bool { return m.Children.Kind() == StrategySelfRecursive }

// ChildRefField returns the field through which rows produced by child point
// at their parent row produced by m.
func (m *RowMapping) ChildRefField(child *RowMapping) string {
	if child == m {
		return dataset.FieldParentIRI
	}
	return dataset.RefField(m.ID)
}

// Walk visits m and every mapping below it in depth-first preorder.
// Self-recursion is not followed. Returning false stops the walk.
func (m *RowMapping) Walk(fn func(m *RowMapping, parent *RowMapping) bool) {
	m.walk(nil, fn)
}

func (m *RowMapping) walk(parent *RowMapping, fn func(*RowMapping, *RowMapping) bool) bool {
	if !fn(m, parent) {
		return false
	}
	for _, sub := range m.Children.Subs() {
		if !sub.walk(m, fn) {
			return false
		}
	}
	return true
}

// Find returns the mapping with the given id in the tree rooted at m.
func (m *RowMapping) Find(id string) (*RowMapping, bool) {
	var found *RowMapping
	m.Walk(func(cur, _ *RowMapping) bool {
		if cur.ID == id {
			found = cur
			return false
		}
		return true
	})
	return found, found != nil
}

// OverlayMapping is a RowMapping whose rows describe containment regions.
// AttachesTo names the row field holding a comma-joined list of member IRIs.
type OverlayMapping struct {
	RowMapping
	AttachesTo string
}

type overlayMappingJSON struct {
	AttachesTo string `json:"attachesTo"`
}

// UnmarshalJSON decodes the embedded RowMapping and the attachesTo field.
func (o *OverlayMapping) UnmarshalJSON(data []byte) error {
	if err := o.RowMapping.UnmarshalJSON(data); err != nil {
		return err
	}
	var extra overlayMappingJSON
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	o.AttachesTo = extra.AttachesTo
	return nil
}

// MarshalJSON encodes the overlay mapping as a flat object.
func (o OverlayMapping) MarshalJSON() ([]byte, error) {
	base, err := o.RowMapping.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(base, &obj); err != nil {
		return nil, err
	}
	obj["attachesTo"] = o.AttachesTo
	return json.Marshal(obj)
}

// FlowSymbol sets the arrowheads drawn on an edge.
type FlowSymbol string

// Flow symbols.
const (
	FlowBackward FlowSymbol = "<"
	FlowForward  FlowSymbol = ">"
	FlowBoth     FlowSymbol = "="
)

// Valid reports whether f is one of the known symbols.
func (f FlowSymbol) Valid() bool {
	return f == FlowBackward || f == FlowForward || f == FlowBoth
}

// MarkStart reports whether the edge gets an arrow at its source.
func (f FlowSymbol) MarkStart() bool { return f == FlowBackward || f == FlowBoth }

// MarkEnd reports whether the edge gets an arrow at its target.
func (f FlowSymbol) MarkEnd() bool { return f == FlowForward || f == FlowBoth }

// EdgeMapping describes how rows of a category become edges between nodes.
// SourceKey and TargetKey name row fields whose values are matched against
// the edgeMatchKey values of materialized nodes.
type EdgeMapping struct {
	ID          string     `json:"id"`
	LabelFormat string     `json:"labelFormatTemplate"`
	SourceKey   string     `json:"sourceKey"`
	TargetKey   string     `json:"targetKey"`
	ColorKey    string     `json:"colorKey,omitempty"`
	Flow        FlowSymbol `json:"flowSymbol"`
}
