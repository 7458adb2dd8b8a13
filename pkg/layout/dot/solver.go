package dot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"regexp"
	"runtime"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rowgraph/pkg/errors"
	"github.com/matzehuels/rowgraph/pkg/layout"
)

// Solver is a layout.Solver backed by Graphviz.
type Solver struct {
	// Concurrency bounds how many containers are laid out at once.
	// Zero means GOMAXPROCS.
	Concurrency int
	Logger      *log.Logger

	// render turns a DOT document into annotated DOT. Tests replace it.
	render func(ctx context.Context, src string) (string, error)
}

// New returns a Graphviz solver.
func New(logger *log.Logger) *Solver {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Solver{Logger: logger, render: renderDOT}
}

var _ layout.Solver = (*Solver)(nil)

// Layout positions every node of g. The input is not modified.
func (s *Solver) Layout(ctx context.Context, g *layout.SolverGraph) (*layout.SolverGraph, error) {
	out := clone(g)
	p := paramsFrom(out.Options)
	t := newTree(out)

	render := s.render
	if render == nil {
		render = renderDOT
	}
	limit := s.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	r := &run{params: p, tree: t, render: render, sem: make(chan struct{}, limit), logger: s.Logger}

	w, h, err := r.container(ctx, "", out.Children)
	if err != nil {
		return nil, err
	}
	out.Width, out.Height = w, h
	return out, nil
}

type run struct {
	params params
	tree   *tree
	render func(ctx context.Context, src string) (string, error)
	sem    chan struct{}
	logger *log.Logger
	mu     sync.Mutex
}

// container lays out children (recursively first) inside the container id
// and returns the size of the laid-out content including padding.
func (r *run) container(ctx context.Context, id string, children []*layout.SolverNode) (float64, float64, error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range children {
		if len(c.Children) == 0 {
			continue
		}
		g.Go(func() error {
			w, h, err := r.container(gctx, c.ID, c.Children)
			if err != nil {
				return err
			}
			c.Width = math.Max(c.Width, w)
			c.Height = math.Max(c.Height, h)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	edges := r.tree.edgesAt(id)
	src := buildDOT(children, edges, r.params)

	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	}
	annotated, err := r.render(ctx, src)
	<-r.sem
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeLayoutFailed, err, "graphviz failed for container %q", id)
	}

	res, err := parseAnnotated(annotated)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeLayoutFailed, err, "read graphviz output for container %q", id)
	}
	r.logger.Debug("laid out container", "container", id, "nodes", len(children), "edges", len(edges))

	pad := r.params.padding
	if id == "" {
		pad = 0
	}
	for i, c := range children {
		box, ok := res.nodes[nodeName(i)]
		if !ok {
			return 0, 0, errors.New(errors.ErrCodeLayoutFailed, "graphviz dropped node %s", c.ID)
		}
		// Sizes are fixed, so the submitted size is exact where the
		// reported one is rounded to inches.
		c.X = pad + box.x - c.Width/2
		c.Y = pad + box.y - c.Height/2
	}

	r.mu.Lock()
	for _, le := range edges {
		pts, ok := res.edges[le.key]
		if !ok || len(pts) < 2 {
			continue
		}
		le.edge.Container = id
		le.edge.Sections = []layout.EdgeSection{section(pts, pad)}
	}
	r.mu.Unlock()

	return res.width + 2*pad, res.height + 2*pad, nil
}

func section(pts []point, pad float64) layout.EdgeSection {
	conv := func(p point) layout.Point { return layout.Point{X: p.x + pad, Y: p.y + pad} }
	sec := layout.EdgeSection{
		StartPoint: conv(pts[0]),
		EndPoint:   conv(pts[len(pts)-1]),
	}
	for _, p := range pts[1 : len(pts)-1] {
		sec.BendPoints = append(sec.BendPoints, conv(p))
	}
	return sec
}

// renderDOT runs the dot engine and returns the annotated DOT document.
func renderDOT(ctx context.Context, src string) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return "", fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return buf.String(), nil
}

// =============================================================================
// Parameters
// =============================================================================

type params struct {
	rankdir     string
	splines     string
	nodeSpacing float64
	rankSpacing float64
	padding     float64
}

var paddingRe = regexp.MustCompile(`top=([0-9.]+)`)

// paramsFrom reads the ELK-style layout options the orchestrator sends.
func paramsFrom(opts map[string]string) params {
	d := layout.DefaultOptions()
	p := params{
		rankdir:     layout.Direction(opts["elk.direction"]).RankDir(),
		splines:     "ortho",
		nodeSpacing: d.NodeSpacing,
		rankSpacing: d.LayerSpacing,
		padding:     d.Padding,
	}
	switch opts["elk.edgeRouting"] {
	case layout.RoutingPolyline:
		p.splines = "polyline"
	case layout.RoutingSplines:
		p.splines = "spline"
	}
	if v, err := strconv.ParseFloat(opts["elk.spacing.nodeNode"], 64); err == nil {
		p.nodeSpacing = v
	}
	if v, err := strconv.ParseFloat(opts["elk.layered.spacing.nodeNodeBetweenLayers"], 64); err == nil {
		p.rankSpacing = v
	}
	if m := paddingRe.FindStringSubmatch(opts["elk.padding"]); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.padding = v
		}
	}
	return p
}

func clone(g *layout.SolverGraph) *layout.SolverGraph {
	out := &layout.SolverGraph{ID: g.ID, Options: g.Options, Width: g.Width, Height: g.Height}
	var cp func(n *layout.SolverNode) *layout.SolverNode
	cp = func(n *layout.SolverNode) *layout.SolverNode {
		c := *n
		c.Children = nil
		for _, k := range n.Children {
			c.Children = append(c.Children, cp(k))
		}
		return &c
	}
	for _, n := range g.Children {
		out.Children = append(out.Children, cp(n))
	}
	for _, e := range g.Edges {
		c := *e
		c.Sources = append([]string(nil), e.Sources...)
		c.Targets = append([]string(nil), e.Targets...)
		c.Sections = nil
		out.Edges = append(out.Edges, &c)
	}
	return out
}
