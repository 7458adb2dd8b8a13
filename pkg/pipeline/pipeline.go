// Package pipeline provides the materialize → layout → render pipeline for
// rowgraph.
//
// The CLI and the HTTP API both drive this package, so every entry point
// filters, materializes and caches the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Materialize: sanitize the datasets, apply the selection and build
//     nodes, edges, overlays and the legend from the mapping
//  2. Layout: position the materialized forest with the configured solver
//  3. Render: produce output artifacts (JSON, SVG, DOT, PDF, PNG, table, tree)
//
// Materialization is cheap and always recomputed. Layouts and rendered
// artifacts are cached, keyed by the hash of their input graph.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, dot.New(logger), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Mapping: cfg,
//	    Data:    data,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, err := runner.Materialize(ctx, opts)
//	g, err := runner.Layout(ctx, res, opts)
//	artifacts, err := runner.Render(ctx, g, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/errors"
	"github.com/matzehuels/rowgraph/pkg/filter"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/layout"
	"github.com/matzehuels/rowgraph/pkg/mapping"
	"github.com/matzehuels/rowgraph/pkg/materialize"
)

// Format constants for output formats.
const (
	FormatJSON  = "json"
	FormatSVG   = "svg"
	FormatDOT   = "dot"
	FormatPDF   = "pdf"
	FormatPNG   = "png"
	FormatTable = "table"
	FormatTree  = "tree"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatSVG:   true,
	FormatDOT:   true,
	FormatPDF:   true,
	FormatPNG:   true,
	FormatTable: true,
	FormatTree:  true,
}

// Cache lifetimes used when the runner has no TTL configured.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Materialize options
	Mapping   *mapping.Config   `json:"mapping"`
	Data      dataset.Datasets  `json:"data"`
	Selection *filter.Selection `json:"selection,omitempty"`

	// Layout options
	Layout  layout.Options `json:"layout"`
	Refresh bool           `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Materialized is the unpositioned materialization.
	Materialized *materialize.Result

	// Graph is the positioned graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the unpositioned graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount        int
	DroppedRows     int
	NodeCount       int
	EdgeCount       int
	OverlayCount    int
	MaterializeTime time.Duration
	LayoutTime      time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the positioned graph came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)",
			format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForMaterialize(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForMaterialize checks the mapping and the selection.
func (o *Options) ValidateForMaterialize() error {
	if o.Mapping == nil {
		return errors.New(errors.ErrCodeInvalidMapping, "mapping is required")
	}
	if err := o.Mapping.Validate(); err != nil {
		return err
	}
	if err := o.Selection.Validate(); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// ValidateForLayout fills unset layout options with defaults and validates them.
func (o *Options) ValidateForLayout() error {
	o.Layout = o.Layout.WithDefaults()
	o.setLogger()
	return o.Layout.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale == 0 {
		o.Scale = 2.0
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
