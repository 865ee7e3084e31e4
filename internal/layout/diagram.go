package layout

import (
	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
)

// Diagram is an interactive view over a run graph. Node drags survive until
// the next Resize, which lays the graph out again. A Diagram is not safe for
// concurrent use.
type Diagram struct {
	connections map[string][]string
	taskInfo    map[string]models.TaskInfo
	opts        Options
	onSelect    func(taskID string)

	layout   *Layout
	selected string
	hovered  *Edge
}

// NewDiagram lays out graph inside a container of opts.Width by opts.Height.
// onSelect may be nil.
func NewDiagram(graph models.DagRunGraph, opts Options, onSelect func(taskID string)) *Diagram {
	d := &Diagram{
		connections: graph.Connections,
		taskInfo:    graph.TaskInfo,
		opts:        opts,
		onSelect:    onSelect,
	}
	d.layout = Compute(d.connections, d.opts)
	return d
}

// Layout returns the current placement
func (d *Diagram) Layout() *Layout {
	return d.layout
}

// Resize lays the graph out again for a new container size
func (d *Diagram) Resize(width, height float64) {
	d.opts.Width = width
	d.opts.Height = height
	d.layout = Compute(d.connections, d.opts)
	d.hovered = nil
}

// Click selects the task under (x, y) and reports it to the selection
// callback. Clicking empty space changes nothing.
func (d *Diagram) Click(x, y float64) (string, bool) {
	node, ok := d.layout.NodeAt(Point{X: x, Y: y})
	if !ok {
		return "", false
	}

	d.selected = node.ID
	if d.onSelect != nil {
		d.onSelect(node.ID)
	}
	return node.ID, true
}

// Select marks a task as selected without invoking the callback
func (d *Diagram) Select(taskID string) bool {
	if _, ok := d.layout.Node(taskID); !ok {
		return false
	}
	d.selected = taskID
	return true
}

// Selected returns the selected task, if any
func (d *Diagram) Selected() string {
	return d.selected
}

// Drag moves a task by dx, dy. Edges are derived from node positions so they
// follow the node.
func (d *Diagram) Drag(taskID string, dx, dy float64) bool {
	if !d.layout.Move(taskID, dx, dy) {
		return false
	}
	d.hovered = nil
	return true
}

// Hover highlights the edge nearest to (x, y) within the hover tolerance and
// clears the highlight otherwise.
func (d *Diagram) Hover(x, y float64) (Edge, bool) {
	edge, ok := d.layout.EdgeNear(Point{X: x, Y: y})
	if !ok {
		d.hovered = nil
		return Edge{}, false
	}
	d.hovered = &edge
	return edge, true
}

// HighlightedEdge returns the edge currently under the pointer
func (d *Diagram) HighlightedEdge() (Edge, bool) {
	if d.hovered == nil {
		return Edge{}, false
	}
	return *d.hovered, true
}

// Color returns the fill for a placed task
func (d *Diagram) Color(taskID string) string {
	return StatusColor(d.taskInfo, taskID)
}
