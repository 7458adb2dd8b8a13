package layout

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rowgraph/pkg/errors"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/materialize"
	"github.com/matzehuels/rowgraph/pkg/observability"
	"github.com/matzehuels/rowgraph/pkg/overlay"
)

// Orchestrator runs layout passes against a Solver.
// It holds no per-pass state and may be shared between goroutines.
type Orchestrator struct {
	solver Solver
	logger *log.Logger
}

// New returns an orchestrator using solver. A nil logger discards output.
func New(solver Solver, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Orchestrator{solver: solver, logger: logger}
}

// Layout positions the materialized result.
//
// The returned graph lists every forest node in preorder followed by the
// overlays that kept at least one member. Child positions are relative to
// ParentNode; PositionAbsolute is always in canvas coordinates. On any
// solver failure the error is logged and returned and no graph is produced.
func (o *Orchestrator) Layout(ctx context.Context, res *materialize.Result, opts Options) (*graph.Graph, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(res.Flat))

	g, err := o.layout(ctx, res, opts)
	hooks.OnLayoutComplete(ctx, len(res.Flat), time.Since(start), err)
	if err != nil {
		o.logger.Error("layout failed", "nodes", len(res.Flat), "err", err)
		return nil, err
	}
	o.logger.Debug("layout applied", "nodes", len(g.Nodes), "edges", len(g.Edges), "duration", time.Since(start))
	return g, nil
}

func (o *Orchestrator) layout(ctx context.Context, res *materialize.Result, opts Options) (*graph.Graph, error) {
	req := Annotate(res.Forest, res.Edges, opts)
	if len(req.Children) == 0 {
		return &graph.Graph{Edges: []graph.Edge{}, LegendItems: res.Legend}, nil
	}

	out, err := o.solver.Layout(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "layout cancelled")
		}
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "solver rejected layout")
	}
	if out == nil {
		return nil, errors.New(errors.ErrCodeLayoutFailed, "solver returned no graph")
	}

	placed := index(out)
	if err := verify(res.Forest, placed); err != nil {
		return nil, err
	}

	nodes, abs := flatten(res.Forest, placed)
	overlays := overlay.Resolve(res.Overlays, nodes)
	nodes = append(nodes, overlays...)

	return &graph.Graph{
		Nodes:       nodes,
		Edges:       route(res.Edges, out.Edges, nodes, abs),
		LegendItems: res.Legend,
	}, nil
}

// verify checks that the solver positioned every node under the parent it
// was submitted with.
func verify(forest []*graph.Node, placed map[string]placement) error {
	for _, root := range forest {
		var err error
		root.Walk(func(n, parent *graph.Node) {
			if err != nil {
				return
			}
			p, ok := placed[n.ID]
			if !ok {
				err = errors.New(errors.ErrCodeLayoutFailed, "solver did not position node %s", n.ID)
				return
			}
			want := ""
			if parent != nil {
				want = parent.ID
			}
			if p.parent != want {
				err = errors.New(errors.ErrCodeLayoutFailed, "solver moved node %s from %q to %q", n.ID, want, p.parent)
				return
			}
			if !finite(p.node.X, p.node.Y, p.node.Width, p.node.Height) {
				err = errors.New(errors.ErrCodeLayoutFailed, "solver returned invalid geometry for node %s", n.ID)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// flatten copies the forest into a preorder list with absolute positions.
// It also returns the absolute origin of every node for edge routing.
func flatten(forest []*graph.Node, placed map[string]placement) ([]*graph.Node, map[string]graph.Position) {
	var out []*graph.Node
	abs := make(map[string]graph.Position)
	for _, root := range forest {
		root.Walk(func(n, parent *graph.Node) {
			sn := placed[n.ID].node
			cp := *n
			cp.Children = nil
			cp.Position = graph.Position{X: sn.X, Y: sn.Y}
			cp.PositionAbsolute = cp.Position
			cp.Width, cp.Height = sn.Width, sn.Height
			if parent != nil {
				cp.ParentNode = parent.ID
				origin := abs[parent.ID]
				cp.PositionAbsolute = graph.Position{X: origin.X + sn.X, Y: origin.Y + sn.Y}
			}
			abs[n.ID] = cp.PositionAbsolute
			out = append(out, &cp)
		})
	}
	return out, abs
}

// route copies edges and attaches routed points in canvas coordinates.
// Edges the solver did not route keep an empty polyline.
//
// A solver routes an edge between nodes of different containers at their
// common container, so its points end on the borders of the endpoints'
// ancestors there. Such polylines are extended to the nearest point of the
// real endpoint boxes.
func route(edges []graph.Edge, routed []*SolverEdge, nodes []*graph.Node, abs map[string]graph.Position) []graph.Edge {
	byID := make(map[string]*SolverEdge, len(routed))
	for _, e := range routed {
		byID[e.ID] = e
	}
	byNode := make(map[string]*graph.Node, len(nodes))
	for _, n := range nodes {
		byNode[n.ID] = n
	}

	out := make([]graph.Edge, len(edges))
	for i, e := range edges {
		out[i] = e
		out[i].Points = nil
		se, ok := byID[e.ID]
		if !ok {
			continue
		}
		origin := abs[se.Container]
		for _, sec := range se.Sections {
			out[i].Points = append(out[i].Points, offset(sec.StartPoint, origin))
			for _, b := range sec.BendPoints {
				out[i].Points = append(out[i].Points, offset(b, origin))
			}
			out[i].Points = append(out[i].Points, offset(sec.EndPoint, origin))
		}
		pts := out[i].Points
		if len(pts) < 2 {
			continue
		}
		if n := byNode[e.Source]; n != nil && n.ParentNode != se.Container {
			pts = append([]graph.Position{nearestOnBox(n, pts[0])}, pts...)
		}
		if n := byNode[e.Target]; n != nil && n.ParentNode != se.Container {
			pts = append(pts, nearestOnBox(n, pts[len(pts)-1]))
		}
		out[i].Points = pts
	}
	return out
}

// nearestOnBox clamps p into n's absolute box. For a p outside the box this
// is the closest border point.
func nearestOnBox(n *graph.Node, p graph.Position) graph.Position {
	x0, y0 := n.PositionAbsolute.X, n.PositionAbsolute.Y
	return graph.Position{
		X: math.Min(math.Max(p.X, x0), x0+n.Width),
		Y: math.Min(math.Max(p.Y, y0), y0+n.Height),
	}
}

func offset(p Point, origin graph.Position) graph.Position {
	return graph.Position{X: origin.X + p.X, Y: origin.Y + p.Y}
}
