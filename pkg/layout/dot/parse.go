package dot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// box is a node center and size in points, y pointing down.
type box struct {
	x, y, w, h float64
}

type point struct {
	x, y float64
}

// annotated is the geometry read back from Graphviz.
type annotated struct {
	width, height float64
	nodes         map[string]box
	// edges maps an edge id to its polyline.
	edges map[string][]point
}

var (
	bbRe    = regexp.MustCompile(`bb="([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+)"`)
	nodeRe  = regexp.MustCompile(`(?m)^\s*(n\d+)\s*\[([^\]]*)\]`)
	edgeRe  = regexp.MustCompile(`(?m)^\s*(n\d+)\s*->\s*(n\d+)\s*\[([^\]]*)\]`)
	attrRe  = regexp.MustCompile(`(\w+)=("(?:[^"\\]|\\.)*"|[^,\s\]]+)`)
	splitRe = regexp.MustCompile(`\\\r?\n`)
)

// parseAnnotated reads node and edge geometry from annotated DOT output.
// Graphviz coordinates have y pointing up; they are flipped against the
// bounding box.
func parseAnnotated(src string) (*annotated, error) {
	src = splitRe.ReplaceAllString(src, "")

	m := bbRe.FindStringSubmatch(src)
	if m == nil {
		return nil, fmt.Errorf("no bounding box in output")
	}
	bb, err := floats(m[1:]...)
	if err != nil {
		return nil, fmt.Errorf("bounding box: %w", err)
	}
	top := bb[3]

	res := &annotated{
		width:  bb[2] - bb[0],
		height: bb[3] - bb[1],
		nodes:  make(map[string]box),
		edges:  make(map[string][]point),
	}

	for _, nm := range nodeRe.FindAllStringSubmatch(src, -1) {
		attrs := parseAttrs(nm[2])
		pos, ok := attrs["pos"]
		if !ok {
			continue
		}
		p, err := parsePoint(pos)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nm[1], err)
		}
		wh, err := floats(attrs["width"], attrs["height"])
		if err != nil {
			return nil, fmt.Errorf("node %s size: %w", nm[1], err)
		}
		res.nodes[nm[1]] = box{
			x: p.x - bb[0],
			y: top - p.y,
			w: wh[0] * pointsPerInch,
			h: wh[1] * pointsPerInch,
		}
	}

	for _, em := range edgeRe.FindAllStringSubmatch(src, -1) {
		attrs := parseAttrs(em[3])
		id, pos := attrs["id"], attrs["pos"]
		if id == "" || pos == "" {
			continue
		}
		pts, err := parseSpline(pos)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", id, err)
		}
		for i := range pts {
			pts[i] = point{x: pts[i].x - bb[0], y: top - pts[i].y}
		}
		res.edges[id] = pts
	}
	return res, nil
}

func parseAttrs(s string) map[string]string {
	out := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		v := m[2]
		if uq, err := strconv.Unquote(v); err == nil {
			v = uq
		}
		out[m[1]] = v
	}
	return out
}

// parseSpline reads a Graphviz spline "e,x,y s,x,y x,y x,y ..." into an
// ordered polyline from start to end.
func parseSpline(s string) ([]point, error) {
	var start, end *point
	var pts []point
	for _, tok := range strings.Fields(s) {
		switch {
		case strings.HasPrefix(tok, "e,"):
			p, err := parsePoint(tok[2:])
			if err != nil {
				return nil, err
			}
			end = &p
		case strings.HasPrefix(tok, "s,"):
			p, err := parsePoint(tok[2:])
			if err != nil {
				return nil, err
			}
			start = &p
		default:
			p, err := parsePoint(tok)
			if err != nil {
				return nil, err
			}
			pts = append(pts, p)
		}
	}
	if start != nil {
		pts = append([]point{*start}, pts...)
	}
	if end != nil {
		pts = append(pts, *end)
	}
	return pts, nil
}

func parsePoint(s string) (point, error) {
	parts := strings.Split(strings.TrimSuffix(s, "!"), ",")
	if len(parts) < 2 {
		return point{}, fmt.Errorf("bad point %q", s)
	}
	v, err := floats(parts[0], parts[1])
	if err != nil {
		return point{}, err
	}
	return point{x: v[0], y: v[1]}, nil
}

func floats(ss ...string) ([]float64, error) {
	out := make([]float64, len(ss))
	for i, s := range ss {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
