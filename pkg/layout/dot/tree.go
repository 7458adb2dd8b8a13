package dot

import (
	"strconv"

	"github.com/matzehuels/rowgraph/pkg/layout"
)

// tree indexes the hierarchy of a solver graph.
type tree struct {
	parent map[string]string
	// slot is the position of a node among its siblings.
	slot  map[string]int
	depth map[string]int
	// levels maps a container id to the edges routed inside it.
	levels map[string][]*levelEdge
}

// levelEdge is an edge lifted to the level where its ends are siblings.
type levelEdge struct {
	edge     *layout.SolverEdge
	from, to int
	key      string
}

func newTree(g *layout.SolverGraph) *tree {
	t := &tree{
		parent: make(map[string]string),
		slot:   make(map[string]int),
		depth:  make(map[string]int),
		levels: make(map[string][]*levelEdge),
	}
	var index func(nodes []*layout.SolverNode, parent string, depth int)
	index = func(nodes []*layout.SolverNode, parent string, depth int) {
		for i, n := range nodes {
			t.parent[n.ID] = parent
			t.slot[n.ID] = i
			t.depth[n.ID] = depth
			index(n.Children, n.ID, depth+1)
		}
	}
	index(g.Children, "", 0)

	for _, e := range g.Edges {
		if len(e.Sources) == 0 || len(e.Targets) == 0 {
			continue
		}
		container, a, b, ok := t.lift(e.Sources[0], e.Targets[0])
		if !ok {
			continue
		}
		le := &levelEdge{edge: e, from: t.slot[a], to: t.slot[b]}
		le.key = edgeKey(len(t.levels[container]))
		t.levels[container] = append(t.levels[container], le)
	}
	return t
}

// lift returns the lowest common container of a and b and the ancestors of
// a and b (or a and b themselves) that are its direct children. It fails
// for unknown ids and when one end contains the other.
func (t *tree) lift(a, b string) (container, x, y string, ok bool) {
	_, okA := t.depth[a]
	_, okB := t.depth[b]
	if !okA || !okB {
		return "", "", "", false
	}
	for t.depth[a] > t.depth[b] {
		a = t.parent[a]
	}
	for t.depth[b] > t.depth[a] {
		b = t.parent[b]
	}
	x, y = a, b
	for t.parent[x] != t.parent[y] {
		x, y = t.parent[x], t.parent[y]
	}
	if x == y {
		return "", "", "", false
	}
	return t.parent[x], x, y, true
}

func (t *tree) edgesAt(container string) []*levelEdge {
	return t.levels[container]
}

func nodeName(slot int) string { return "n" + strconv.Itoa(slot) }

// edgeKey is the Graphviz id of the seq-th edge of a level.
func edgeKey(seq int) string { return "e" + strconv.Itoa(seq) }
