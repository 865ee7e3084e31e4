package layout

import (
	"github.com/GreedyKomodoDragon/Kontroler/internal/dag"
)

const (
	DefaultMargin     = 20.0
	DefaultRowHeight  = 100.0
	DefaultNodeWidth  = 100.0
	DefaultNodeHeight = 50.0
	DefaultTolerance  = 6.0

	// levelColumns is the number of level columns that fit the container
	// when no explicit LevelWidth is given.
	levelColumns = 8
)

// Options controls how a graph is placed inside its container
type Options struct {
	Width      float64
	Height     float64
	LevelWidth float64
	RowHeight  float64
	Margin     float64
	NodeWidth  float64
	NodeHeight float64
	// Tolerance is the hover hit distance around an edge, in pixels
	Tolerance float64
}

func (o Options) withDefaults() Options {
	if o.LevelWidth <= 0 {
		o.LevelWidth = o.Width / levelColumns
	}
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Node is a placed task
type Node struct {
	ID    string  `json:"id"`
	Level int     `json:"level"`
	Rank  int     `json:"rank"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Center returns the middle of the node's box
func (n Node) Center(opts Options) Point {
	return Point{X: n.X + opts.NodeWidth/2, Y: n.Y + opts.NodeHeight/2}
}

// Edge runs from a dependency to the task that depends on it
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Layout is the result of placing a connections map
type Layout struct {
	Nodes    []Node  `json:"nodes"`
	Edges    []Edge  `json:"edges"`
	MaxLevel int     `json:"maxLevel"`
	Options  Options `json:"-"`

	index map[string]int
}

// Compute places every task of connections (task -> dependencies) in a
// level column and a rank row. Dependency names with no entry of their own
// are not placed; their edges are kept and skipped when drawn.
func Compute(connections map[string][]string, opts Options) *Layout {
	opts = opts.withDefaults()
	l := &Layout{
		Nodes:   []Node{},
		Edges:   []Edge{},
		Options: opts,
		index:   map[string]int{},
	}
	if len(connections) == 0 || opts.Width <= 0 || opts.Height <= 0 {
		return l
	}

	graph := dag.NewGraph(connections)
	levels, order := graph.Levels()

	ranks := make(map[int]int)
	placed := make(map[string]Node, len(order))
	for _, taskID := range order {
		level := levels[taskID]
		placed[taskID] = Node{ID: taskID, Level: level, Rank: ranks[level]}
		ranks[level]++
		if level > l.MaxLevel {
			l.MaxLevel = level
		}
	}

	for _, taskID := range order {
		node := placed[taskID]
		node.X = float64(l.MaxLevel-node.Level)*opts.LevelWidth + opts.Margin
		node.Y = float64(node.Rank)*opts.RowHeight + opts.Margin
		l.index[taskID] = len(l.Nodes)
		l.Nodes = append(l.Nodes, node)
	}

	for _, taskID := range graph.Nodes() {
		for _, dep := range connections[taskID] {
			l.Edges = append(l.Edges, Edge{From: dep, To: taskID})
		}
	}

	return l
}

// Empty reports whether nothing was placed
func (l *Layout) Empty() bool {
	return len(l.Nodes) == 0
}

// Node looks up a placed task
func (l *Layout) Node(taskID string) (Node, bool) {
	i, ok := l.index[taskID]
	if !ok {
		return Node{}, false
	}
	return l.Nodes[i], true
}

// Move shifts a placed task by dx, dy
func (l *Layout) Move(taskID string, dx, dy float64) bool {
	i, ok := l.index[taskID]
	if !ok {
		return false
	}
	l.Nodes[i].X += dx
	l.Nodes[i].Y += dy
	return true
}

// Curve returns the drawn shape of an edge, or false when either endpoint
// was never placed.
func (l *Layout) Curve(e Edge) (Bezier, bool) {
	from, ok := l.Node(e.From)
	if !ok {
		return Bezier{}, false
	}
	to, ok := l.Node(e.To)
	if !ok {
		return Bezier{}, false
	}
	return edgeCurve(from, to, l.Options), true
}

// NodeAt returns the topmost task whose box contains p
func (l *Layout) NodeAt(p Point) (Node, bool) {
	for i := len(l.Nodes) - 1; i >= 0; i-- {
		n := l.Nodes[i]
		if p.X >= n.X && p.X <= n.X+l.Options.NodeWidth &&
			p.Y >= n.Y && p.Y <= n.Y+l.Options.NodeHeight {
			return n, true
		}
	}
	return Node{}, false
}

// EdgeNear returns the drawable edge closest to p when it lies within the
// hover tolerance.
func (l *Layout) EdgeNear(p Point) (Edge, bool) {
	best := -1
	bestDist := l.Options.Tolerance
	for i, e := range l.Edges {
		curve, ok := l.Curve(e)
		if !ok {
			continue
		}
		if d := curve.Distance(p); d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Edge{}, false
	}
	return l.Edges[best], true
}

// Size returns the extent needed to show every node
func (l *Layout) Size() (float64, float64) {
	w, h := l.Options.Width, l.Options.Height
	for _, n := range l.Nodes {
		if r := n.X + l.Options.NodeWidth + l.Options.Margin; r > w {
			w = r
		}
		if b := n.Y + l.Options.NodeHeight + l.Options.Margin; b > h {
			h = b
		}
	}
	return w, h
}
