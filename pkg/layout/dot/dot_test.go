package dot

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/rowgraph/pkg/errors"
	"github.com/matzehuels/rowgraph/pkg/layout"
)

func sample() *layout.SolverGraph {
	opts := layout.DefaultOptions()
	return &layout.SolverGraph{
		ID:      "root",
		Options: opts.SolverOptions(),
		Children: []*layout.SolverNode{
			{ID: "0", Width: 150, Height: 50, Children: []*layout.SolverNode{
				{ID: "0-0", Width: 150, Height: 50},
				{ID: "0-1", Width: 150, Height: 50},
			}},
			{ID: "1", Width: 150, Height: 50},
		},
		Edges: []*layout.SolverEdge{
			{ID: "0-0-0-1", Sources: []string{"0-0"}, Targets: []string{"0-1"}},
			{ID: "0-0-1", Sources: []string{"0-0"}, Targets: []string{"1"}},
			{ID: "0-0-0", Sources: []string{"0"}, Targets: []string{"0-0"}},
		},
	}
}

var (
	fakeNodeRe = regexp.MustCompile(`(n\d+) \[width=([0-9.]+), height=([0-9.]+)\]`)
	fakeEdgeRe = regexp.MustCompile(`(n\d+) -> (n\d+) \[id="(e\d+)"\]`)
)

// rowRender lays nodes out left to right with a 10pt gap, bottom-aligned, and
// routes each edge as a straight line between centers, producing output in
// the shape Graphviz writes.
func rowRender(_ context.Context, src string) (string, error) {
	type c struct{ x, y float64 }
	centers := map[string]c{}
	var b strings.Builder
	x, maxH := 0.0, 0.0
	var lines []string
	for _, m := range fakeNodeRe.FindAllStringSubmatch(src, -1) {
		w, _ := strconv.ParseFloat(m[2], 64)
		h, _ := strconv.ParseFloat(m[3], 64)
		w, h = math.Round(w*7200)/100, math.Round(h*7200)/100
		centers[m[1]] = c{x + w/2, h / 2}
		lines = append(lines, fmt.Sprintf("\t%s\t[height=%s,\n\t\tpos=\"%g,%g\",\n\t\twidth=%s];", m[1], m[3], x+w/2, h/2, m[2]))
		x += w + 10
		if h > maxH {
			maxH = h
		}
	}
	for _, m := range fakeEdgeRe.FindAllStringSubmatch(src, -1) {
		a, z := centers[m[1]], centers[m[2]]
		lines = append(lines, fmt.Sprintf("\t%s -> %s\t[id=%s,\n\t\tpos=\"e,%g,%g %g,%g %g,%g\"];", m[1], m[2], m[3], z.x, z.y, a.x, a.y, (a.x+z.x)/2, a.y))
	}
	fmt.Fprintf(&b, "digraph G {\n\tgraph [bb=\"0,0,%g,%g\"];\n\tnode [label=\"\"];\n", x-10, maxH)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n}\n")
	return b.String(), nil
}

func TestBuildDOT(t *testing.T) {
	g := sample()
	p := paramsFrom(g.Options)
	tr := newTree(g)
	src := buildDOT(g.Children[0].Children, tr.edgesAt("0"), p)

	for _, want := range []string{
		"rankdir=TB", "splines=ortho", "nodesep=0.6944", "ranksep=1.1111",
		"n0 [width=2.0833, height=0.6944];",
		`n0 -> n1 [id="e0"];`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q:\n%s", want, src)
		}
	}
}

func TestParamsFrom(t *testing.T) {
	opts := layout.DefaultOptions()
	opts.Direction = layout.DirectionRight
	opts.EdgeRouting = layout.RoutingPolyline
	opts.Padding = 7
	p := paramsFrom(opts.SolverOptions())
	if p.rankdir != "LR" || p.splines != "polyline" || p.padding != 7 {
		t.Errorf("params = %+v", p)
	}
	if d := paramsFrom(nil); d.rankdir != "TB" || d.splines != "ortho" {
		t.Errorf("defaults = %+v", d)
	}
}

func TestLift(t *testing.T) {
	tr := newTree(sample())
	tests := []struct {
		a, b            string
		container, x, y string
		ok              bool
	}{
		{"0-0", "0-1", "0", "0-0", "0-1", true},
		{"0-0", "1", "", "0", "1", true},
		{"0", "0-0", "", "", "", false},
		{"0-0", "missing", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			c, x, y, ok := tr.lift(tt.a, tt.b)
			if ok != tt.ok || c != tt.container || x != tt.x || y != tt.y {
				t.Errorf("lift = %q %q %q %v", c, x, y, ok)
			}
		})
	}
	if n := len(tr.edgesAt("0")) + len(tr.edgesAt("")); n != 2 {
		t.Errorf("lifted edges = %d, want 2", n)
	}
}

func TestParseAnnotated(t *testing.T) {
	src := `digraph G {
	graph [bb="0,0,160,130",
		nodesep=0.5
	];
	node [label=""];
	n0	[height=0.5,
		pos="40,105",
		width=1.1111];
	n1	[height=0.5,
		pos="40,25",
		width=1.1111];
	n0 -> n1	[id=e0,
		pos="e,40,43.1 40,86.7 40,78.9 40,69.7 40,61.1"];
}
`
	res, err := parseAnnotated(src)
	if err != nil {
		t.Fatal(err)
	}
	if res.width != 160 || res.height != 130 {
		t.Errorf("bb = %vx%v", res.width, res.height)
	}
	n0 := res.nodes["n0"]
	if n0.x != 40 || n0.y != 25 || n0.h != 36 {
		t.Errorf("n0 = %+v", n0)
	}
	if n1 := res.nodes["n1"]; n1.y != 105 {
		t.Errorf("n1 = %+v", n1)
	}
	pts := res.edges["e0"]
	if len(pts) != 5 || pts[0] != (point{40, 130 - 86.7}) || pts[4] != (point{40, 130 - 43.1}) {
		t.Errorf("edge = %+v", pts)
	}
}

func TestParseAnnotatedLineContinuation(t *testing.T) {
	src := "digraph {\n\tgraph [bb=\"0,0,10,10\"];\n\tn0 -> n1 [id=e0, pos=\"e,1,1 2,2 \\\n3,3\"];\n}\n"
	res, err := parseAnnotated(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.edges["e0"]) != 3 {
		t.Errorf("edge = %+v", res.edges["e0"])
	}
}

func TestParseAnnotatedErrors(t *testing.T) {
	if _, err := parseAnnotated("digraph {}"); err == nil {
		t.Error("missing bounding box accepted")
	}
	if _, err := parseAnnotated("digraph {\n graph [bb=\"0,0,1,1\"];\n n0 [pos=\"x,y\", width=1, height=1];\n}"); err == nil {
		t.Error("bad pos accepted")
	}
}

func TestSolverNested(t *testing.T) {
	s := New(nil)
	s.render = rowRender
	in := sample()

	out, err := s.Layout(context.Background(), in)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if in.Children[0].Children[1].X != 0 || in.Edges[0].Sections != nil {
		t.Error("input graph was modified")
	}

	pad := layout.DefaultOptions().Padding
	parent := out.Children[0]
	a, b := parent.Children[0], parent.Children[1]
	if a.X != pad || a.Y != pad || b.X != pad+160 {
		t.Errorf("children at (%v,%v) and (%v,%v)", a.X, a.Y, b.X, b.Y)
	}
	if want := 310 + 2*pad; parent.Width != want || parent.Height != 50+2*pad {
		t.Errorf("parent size = %vx%v, want %vx%v", parent.Width, parent.Height, want, 50+2*pad)
	}
	if sib := out.Children[1]; sib.X != parent.Width+10 || sib.Y != parent.Height-50 {
		t.Errorf("sibling at (%v,%v)", sib.X, sib.Y)
	}

	inner, cross, nested := out.Edges[0], out.Edges[1], out.Edges[2]
	if inner.Container != "0" || len(inner.Sections) != 1 {
		t.Fatalf("inner edge = %+v", inner)
	}
	if start := inner.Sections[0].StartPoint; start.X != pad+75 {
		t.Errorf("inner start = %+v", start)
	}
	if cross.Container != "" || len(cross.Sections) != 1 {
		t.Errorf("cross edge = %+v", cross)
	}
	if nested.Sections != nil {
		t.Errorf("edge into own child should stay unrouted: %+v", nested)
	}
}

func TestSolverRenderFailure(t *testing.T) {
	s := New(nil)
	s.render = func(context.Context, string) (string, error) { return "", fmt.Errorf("syntax error") }
	_, err := s.Layout(context.Background(), sample())
	if !errors.Is(err, errors.ErrCodeLayoutFailed) {
		t.Errorf("err = %v", err)
	}
}

func TestSolverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(nil)
	s.Concurrency = 1
	s.render = func(ctx context.Context, src string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return rowRender(ctx, src)
	}
	if _, err := s.Layout(ctx, sample()); err == nil {
		t.Error("cancelled layout succeeded")
	}
}

func TestSolverGraphviz(t *testing.T) {
	if testing.Short() {
		t.Skip("runs graphviz")
	}
	out, err := New(nil).Layout(context.Background(), sample())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	parent := out.Children[0]
	a, b := parent.Children[0], parent.Children[1]
	if a.Width != 150 || a.Height != 50 {
		t.Errorf("child size changed: %vx%v", a.Width, a.Height)
	}
	overlapX := a.X < b.X+b.Width && b.X < a.X+a.Width
	overlapY := a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
	if overlapX && overlapY {
		t.Errorf("siblings overlap: %+v %+v", a, b)
	}
	for _, c := range parent.Children {
		if c.X < 0 || c.Y < 0 || c.X+c.Width > parent.Width+0.5 || c.Y+c.Height > parent.Height+0.5 {
			t.Errorf("%s escapes its parent: %+v in %vx%v", c.ID, c, parent.Width, parent.Height)
		}
	}
}
