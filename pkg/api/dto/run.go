package dto

import (
	"github.com/GreedyKomodoDragon/Kontroler/internal/dag"
	"github.com/GreedyKomodoDragon/Kontroler/internal/layout"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
)

// GraphQuery sizes the diagram container
type GraphQuery struct {
	Width  float64 `form:"width" validate:"omitempty,min=1,max=10000"`
	Height float64 `form:"height" validate:"omitempty,min=1,max=10000"`
}

// SVGQuery adds the interactive state to render
type SVGQuery struct {
	GraphQuery
	Selected string   `form:"selected"`
	HoverX   *float64 `form:"hoverX"`
	HoverY   *float64 `form:"hoverY"`
}

// GraphNode is a placed task with its status colour
type GraphNode struct {
	layout.Node
	Status models.Status `json:"status"`
	Color  string        `json:"color"`
	// Dangling lists dependencies that name no task; their edges are not drawn
	Dangling []string `json:"dangling,omitempty"`
}

// GraphResponse is the laid out graph of a DAG run
type GraphResponse struct {
	RunID    int           `json:"runId"`
	Status   models.Status `json:"status"`
	MaxLevel  int           `json:"maxLevel"`
	TaskCount int           `json:"taskCount"`
	Roots     []string      `json:"roots"`
	Leaves    []string      `json:"leaves"`
	// Order is a topological order of the tasks, null when the run has a cycle
	Order []string      `json:"order"`
	Nodes []GraphNode   `json:"nodes"`
	Edges []layout.Edge `json:"edges"`
}

// ToGraphResponse renders a diagram's layout with per-task colours
func ToGraphResponse(run models.DagRunAll, d *layout.Diagram) GraphResponse {
	l := d.Layout()
	graph := dag.NewGraph(run.Connections)
	resp := GraphResponse{
		RunID:     run.ID,
		Status:    run.Status,
		MaxLevel:  l.MaxLevel,
		TaskCount: graph.GetTaskCount(),
		Roots:     graph.GetRootTasks(),
		Leaves:    graph.GetLeafTasks(),
		Nodes:     make([]GraphNode, 0, len(l.Nodes)),
		Edges:     l.Edges,
	}
	if order, err := graph.TopologicalSort(); err == nil {
		resp.Order = order
	}
	for _, n := range l.Nodes {
		resp.Nodes = append(resp.Nodes, GraphNode{
			Node:     n,
			Status:   run.TaskInfo[n.ID].Status,
			Color:    d.Color(n.ID),
			Dangling: graph.Dangling(n.ID),
		})
	}
	return resp
}

// TaskPaneResponse is everything the details pane shows for a clicked task
type TaskPaneResponse struct {
	Name            string                 `json:"name"`
	Status          models.Status          `json:"status"`
	Task            *models.TaskDetails    `json:"task,omitempty"`
	Run             *models.TaskRunDetails `json:"run,omitempty"`
	PodTemplateYAML string                 `json:"podTemplateYaml,omitempty"`
	Dependencies    []string               `json:"dependencies"`
	Dependents      []string               `json:"dependents"`
	Upstream        []string               `json:"upstream"`
	Downstream      []string               `json:"downstream"`
}

// ClickRequest is a pointer click on the graph
type ClickRequest struct {
	GraphQuery
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
