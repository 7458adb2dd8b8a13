package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rowgraph/pkg/cache"
	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/filter"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/label"
	"github.com/matzehuels/rowgraph/pkg/layout"
	"github.com/matzehuels/rowgraph/pkg/mapping"
	"github.com/matzehuels/rowgraph/pkg/materialize"
	"github.com/matzehuels/rowgraph/pkg/observability"
)

// DefaultSolverName labels layouts in cache keys when the runner is not told
// which solver it holds.
const DefaultSolverName = "dot"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the solver and the logger; it
// doesn't store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache      cache.Cache
	Keyer      cache.Keyer
	Solver     layout.Solver
	SolverName string
	TTL        time.Duration
	Logger     *log.Logger

	orch *layout.Orchestrator
}

// NewRunner creates a runner with the given cache, keyer and solver.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, solver layout.Solver, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Solver:     solver,
		SolverName: DefaultSolverName,
		Logger:     logger,
		orch:       layout.New(solver, logger),
	}
}

// Execute runs the complete materialize → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Materialize
	res, stats, err := r.MaterializeWithStats(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}
	result.Materialized = res
	result.Stats = stats
	if data, err := graph.MarshalGraph(res.Graph()); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	r.Logger.Info("materialized graph",
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"overlays", stats.OverlayCount,
		"duration", stats.MaterializeTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	g, layoutHit, err := r.LayoutWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Graph = g
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(g.Nodes),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// MaterializeWithStats sanitizes and filters the datasets, then materializes
// the mapping. Rows without an iri are dropped and counted.
func (r *Runner) MaterializeWithStats(ctx context.Context, opts Options) (*materialize.Result, Stats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForMaterialize(); err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()
	hooks := observability.Pipeline()

	data, dropped := dataset.Sanitize(opts.Data, nodeCategories(opts.Mapping)...)
	if dropped > 0 {
		opts.Logger.Warn("dropped rows without iri", "rows", dropped)
	}
	for id, fields := range missingLabelFields(opts.Mapping, data) {
		opts.Logger.Warn("label fields missing from every row", "mapping", id, "fields", fields)
	}
	rowCount := data.RowCount()
	hooks.OnMaterializeStart(ctx, rowCount)

	if opts.Selection.Active() {
		data = filter.Apply(data, opts.Selection, opts.Mapping.Structural())
		opts.Logger.Debug("applied selection",
			"categories", len(opts.Selection.FilterObject),
			"rows", data.RowCount())
	}

	res := materialize.Run(opts.Mapping, data, nil)
	stats := Stats{
		RowCount:        rowCount,
		DroppedRows:     dropped,
		NodeCount:       res.NodeCount(),
		EdgeCount:       len(res.Edges),
		OverlayCount:    len(res.Overlays),
		MaterializeTime: time.Since(start),
	}
	hooks.OnMaterializeComplete(ctx, stats.NodeCount, stats.EdgeCount, stats.MaterializeTime)
	return res, stats, nil
}

// nodeCategories lists the categories whose rows become nodes and therefore
// need an iri.
func nodeCategories(cfg *mapping.Config) []string {
	cats := cfg.Categories()
	for _, o := range cfg.Overlays {
		cats = append(cats, o.ID)
	}
	return cats
}

// missingLabelFields reports, per mapping with rows, the label placeholders
// that none of its rows carry. Such labels render as empty strings.
func missingLabelFields(cfg *mapping.Config, data dataset.Datasets) map[string][]string {
	out := make(map[string][]string)
	check := func(id, template string) {
		rows := data[id]
		if len(rows) == 0 {
			return
		}
		for _, field := range label.Fields(template) {
			found := false
			for _, row := range rows {
				if _, ok := row[field]; ok {
					found = true
					break
				}
			}
			if !found {
				out[id] = append(out[id], field)
			}
		}
	}
	cfg.Layout.Walk(func(m, _ *mapping.RowMapping) bool {
		check(m.ID, m.LabelFormat)
		return true
	})
	for _, o := range cfg.Overlays {
		check(o.ID, o.LabelFormat)
	}
	for _, e := range cfg.Edges {
		check(e.ID, e.LabelFormat)
	}
	return out
}

// Materialize is a convenience wrapper that calls MaterializeWithStats and discards the stats.
func (r *Runner) Materialize(ctx context.Context, opts Options) (*materialize.Result, error) {
	res, _, err := r.MaterializeWithStats(ctx, opts)
	return res, err
}

// LayoutWithCacheInfo positions res with caching and returns cache hit info.
// opts.Refresh skips the cache lookup but still stores the new layout.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, res *materialize.Result, opts Options) (*graph.Graph, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	if r.Solver == nil {
		return nil, false, fmt.Errorf("runner has no layout solver")
	}

	// Compute cache key
	graphData, err := graph.MarshalGraph(res.Graph())
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphData), cache.LayoutKeyOpts{
		Solver:  r.SolverName,
		Options: opts.Layout.Key(),
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if g, ok := r.cachedGraph(ctx, cacheKey); ok {
			return g, true, nil
		}
	}

	g, err := r.orch.Layout(ctx, res, opts.Layout)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := graph.MarshalGraph(g); err == nil {
		r.store(ctx, cacheKey, data, TTLLayout)
	}

	return g, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, res *materialize.Result, opts Options) (*graph.Graph, error) {
	g, _, err := r.LayoutWithCacheInfo(ctx, res, opts)
	return g, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from the graph data
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.RenderKey(graphHash, artifactVariant(format, opts))
		if data, ok := r.lookup(ctx, key); ok {
			artifacts[format] = data
			continue
		}
		allCached = false

		data, err := renderFormat(ctx, g, graphData, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		r.store(ctx, key, data, TTLArtifact)
	}

	return artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Cache helpers
// =============================================================================

func (r *Runner) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", cache.KeyType(key), "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KeyType(key))
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyType(key))
	return data, true
}

func (r *Runner) cachedGraph(ctx context.Context, key string) (*graph.Graph, bool) {
	data, ok := r.lookup(ctx, key)
	if !ok {
		return nil, false
	}
	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		// Fall through to recompute
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		return nil, false
	}
	return g, true
}

func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", cache.KeyType(key), "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cache.KeyType(key), len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
