package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/rowgraph/pkg/errors"
)

// Direction is the flow direction of layers.
type Direction string

// Flow directions.
const (
	DirectionDown  Direction = "DOWN"
	DirectionUp    Direction = "UP"
	DirectionRight Direction = "RIGHT"
	DirectionLeft  Direction = "LEFT"
)

// RankDir returns the matching Graphviz rank direction. Unknown directions
// map to TB.
func (d Direction) RankDir() string {
	switch d {
	case DirectionUp:
		return "BT"
	case DirectionRight:
		return "LR"
	case DirectionLeft:
		return "RL"
	default:
		return "TB"
	}
}

// Edge routing modes.
const (
	RoutingOrthogonal = "ORTHOGONAL"
	RoutingPolyline   = "POLYLINE"
	RoutingSplines    = "SPLINES"
)

// Options are the spacing and sizing constants of a layout pass.
type Options struct {
	Direction    Direction `json:"direction" toml:"direction"`
	NodeSpacing  float64   `json:"nodeSpacing" toml:"node_spacing"`
	LayerSpacing float64   `json:"layerSpacing" toml:"layer_spacing"`
	EdgeSpacing  float64   `json:"edgeSpacing" toml:"edge_spacing"`
	EdgeRouting  string    `json:"edgeRouting" toml:"edge_routing"`
	NodeWidth    float64   `json:"nodeWidth" toml:"node_width"`
	NodeHeight   float64   `json:"nodeHeight" toml:"node_height"`
	// Margin separates siblings inside a parent's footprint.
	Margin float64 `json:"margin" toml:"margin"`
	// Padding is the inset of children from their parent's border.
	Padding float64 `json:"padding" toml:"padding"`
}

// DefaultOptions returns top-to-bottom, orthogonally routed defaults.
func DefaultOptions() Options {
	return Options{
		Direction:    DirectionDown,
		NodeSpacing:  50,
		LayerSpacing: 80,
		EdgeSpacing:  20,
		EdgeRouting:  RoutingOrthogonal,
		NodeWidth:    150,
		NodeHeight:   50,
		Margin:       20,
		Padding:      20,
	}
}

// WithDefaults completes o. The zero Options stands for DefaultOptions. In
// any other value the spacings, margin and padding are taken as given, so 0
// means no gap; to change a single field start from DefaultOptions. An empty
// direction or routing and a zero node size always take the default.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o == (Options{}) {
		return d
	}
	if o.Direction == "" {
		o.Direction = d.Direction
	}
	o.Direction = Direction(strings.ToUpper(string(o.Direction)))
	if o.EdgeRouting == "" {
		o.EdgeRouting = d.EdgeRouting
	}
	o.EdgeRouting = strings.ToUpper(o.EdgeRouting)
	if o.NodeWidth == 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = d.NodeHeight
	}
	return o
}

// Validate checks that options describe a usable layout.
func (o Options) Validate() error {
	switch o.Direction {
	case DirectionDown, DirectionUp, DirectionRight, DirectionLeft:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown direction %q", o.Direction)
	}
	switch o.EdgeRouting {
	case RoutingOrthogonal, RoutingPolyline, RoutingSplines:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown edge routing %q", o.EdgeRouting)
	}
	for name, v := range map[string]float64{
		"node spacing":  o.NodeSpacing,
		"layer spacing": o.LayerSpacing,
		"edge spacing":  o.EdgeSpacing,
		"margin":        o.Margin,
		"padding":       o.Padding,
	} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative", name)
		}
	}
	if o.NodeWidth <= 0 || o.NodeHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node size must be positive")
	}
	return nil
}

// Key returns a stable textual form of the options for cache keys.
func (o Options) Key() string {
	return fmt.Sprintf("%s|%s|%g|%g|%g|%g|%g|%g|%g", o.Direction, o.EdgeRouting,
		o.NodeSpacing, o.LayerSpacing, o.EdgeSpacing, o.NodeWidth, o.NodeHeight, o.Margin, o.Padding)
}

// SolverOptions renders the options as ELK-style layout properties.
func (o Options) SolverOptions() map[string]string {
	return map[string]string{
		"elk.algorithm":                             "layered",
		"elk.direction":                             string(o.Direction),
		"elk.spacing.nodeNode":                      fmt.Sprintf("%g", o.NodeSpacing),
		"elk.layered.spacing.nodeNodeBetweenLayers": fmt.Sprintf("%g", o.LayerSpacing),
		"elk.spacing.edgeEdge":                      fmt.Sprintf("%g", o.EdgeSpacing),
		"elk.edgeRouting":                           o.EdgeRouting,
		"elk.padding":                               fmt.Sprintf("[top=%g,left=%g,bottom=%g,right=%g]", o.Padding, o.Padding, o.Padding, o.Padding),
		"elk.hierarchyHandling":                     "INCLUDE_CHILDREN",
	}
}
