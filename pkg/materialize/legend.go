package materialize

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/rowgraph/pkg/graph"
)

// Default colors used when a mapping names no color key or the row has no value.
const (
	DefaultNodeColor = "#ffffff"
	DefaultTextColor = "#000000"
	DefaultEdgeColor = "#b1b1b7"
)

// palette is handed out first; later values get generated hues.
var palette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
	"#42d4f4", "#f032e6", "#bfef45", "#469990", "#9a6324",
}

const goldenAngle = 137.50776405003785

// Legend assigns colors to color-key values and records them for display.
// The zero value is not usable; create one with NewLegend.
//
// A Legend is not safe for concurrent use.
type Legend struct {
	colors  map[string]string
	entries []graph.LegendEntry
}

// NewLegend returns an empty legend.
func NewLegend() *Legend {
	return &Legend{colors: make(map[string]string)}
}

// Reset forgets every assigned color.
func (l *Legend) Reset() {
	clear(l.colors)
	l.entries = nil
}

// Color returns the color for value, assigning and recording a new one on
// first sight. isEdge is recorded with the first occurrence only.
func (l *Legend) Color(value string, isEdge bool) string {
	if c, ok := l.colors[value]; ok {
		return c
	}
	c := colorAt(len(l.entries))
	l.colors[value] = c
	l.entries = append(l.entries, graph.LegendEntry{Label: value, Color: c, IsEdge: isEdge})
	return c
}

// Entries returns the recorded entries in assignment order.
func (l *Legend) Entries() []graph.LegendEntry {
	out := make([]graph.LegendEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of distinct values seen.
func (l *Legend) Len() int { return len(l.entries) }

func colorAt(i int) string {
	if i < len(palette) {
		return palette[i]
	}
	h := math.Mod(float64(i-len(palette))*goldenAngle, 360)
	return colorful.Hcl(h, 0.4, 0.65).Clamped().Hex()
}

// textColor normalizes a literal CSS hex color, falling back to black.
func textColor(v string) string {
	c, err := colorful.Hex(v)
	if err != nil {
		return DefaultTextColor
	}
	return c.Hex()
}
