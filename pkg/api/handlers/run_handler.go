package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/internal/dag"
	"github.com/GreedyKomodoDragon/Kontroler/internal/dagform"
	"github.com/GreedyKomodoDragon/Kontroler/internal/layout"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/dto"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/middleware"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/gin-gonic/gin"
)

const (
	defaultGraphWidth  = 1200
	defaultGraphHeight = 400
)

// RunHandler serves the graph view of DAG runs
type RunHandler struct {
	backend client.Client
}

// NewRunHandler creates a new run handler
func NewRunHandler(backend client.Client) *RunHandler {
	return &RunHandler{backend: backend}
}

// GetGraph handles GET /api/v1/runs/:id/graph
// @Summary Laid out dependency graph of a run
// @Tags runs
// @Produce json
// @Param id path int true "Run ID"
// @Param width query number false "Container width" default(1200)
// @Param height query number false "Container height" default(400)
// @Success 200 {object} dto.GraphResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/runs/{id}/graph [get]
func (h *RunHandler) GetGraph(c *gin.Context) {
	var query dto.GraphQuery
	if !middleware.BindQueryAndValidate(c, &query) {
		return
	}

	run, ok := h.loadRun(c)
	if !ok {
		return
	}

	d := layout.NewDiagram(run.Graph(), containerOptions(query), nil)
	c.JSON(http.StatusOK, dto.ToGraphResponse(run, d))
}

// GetGraphSVG handles GET /api/v1/runs/:id/graph.svg
// @Summary Rendered dependency graph of a run
// @Description Optionally highlights a selected task and the edge nearest to
// @Description the hover point.
// @Tags runs
// @Produce image/svg+xml
// @Param id path int true "Run ID"
// @Param selected query string false "Selected task"
// @Param hoverX query number false "Pointer x"
// @Param hoverY query number false "Pointer y"
// @Success 200 {string} string
// @Router /api/v1/runs/{id}/graph.svg [get]
func (h *RunHandler) GetGraphSVG(c *gin.Context) {
	var query dto.SVGQuery
	if !middleware.BindQueryAndValidate(c, &query) {
		return
	}

	run, ok := h.loadRun(c)
	if !ok {
		return
	}

	d := layout.NewDiagram(run.Graph(), containerOptions(query.GraphQuery), nil)
	if query.Selected != "" {
		d.Select(query.Selected)
	}
	if query.HoverX != nil && query.HoverY != nil {
		d.Hover(*query.HoverX, *query.HoverY)
	}

	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}

	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// GetGraphDot handles GET /api/v1/runs/:id/graph.dot
// @Summary Dependency graph of a run in Graphviz format
// @Tags runs
// @Produce text/vnd.graphviz
// @Param id path int true "Run ID"
// @Success 200 {string} string
// @Router /api/v1/runs/{id}/graph.dot [get]
func (h *RunHandler) GetGraphDot(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	d := layout.NewDiagram(run.Graph(), containerOptions(dto.GraphQuery{}), nil)
	if err := d.ToDot(&buf); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}

	c.Data(http.StatusOK, "text/vnd.graphviz", buf.Bytes())
}

// ClickGraph handles POST /api/v1/runs/:id/graph/click
// @Summary Resolve a click on the graph into the clicked task's details
// @Tags runs
// @Accept json
// @Produce json
// @Param id path int true "Run ID"
// @Param click body dto.ClickRequest true "Pointer position and container size"
// @Success 200 {object} dto.TaskPaneResponse
// @Success 204 "No task under the pointer"
// @Router /api/v1/runs/{id}/graph/click [post]
func (h *RunHandler) ClickGraph(c *gin.Context) {
	var req dto.ClickRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}

	run, ok := h.loadRun(c)
	if !ok {
		return
	}

	var selected string
	d := layout.NewDiagram(run.Graph(), containerOptions(req.GraphQuery), func(taskID string) {
		selected = taskID
	})
	if _, hit := d.Click(req.X, req.Y); !hit {
		c.Status(http.StatusNoContent)
		return
	}

	h.writeTaskPane(c, run, selected)
}

// GetTask handles GET /api/v1/runs/:id/tasks/:task
// @Summary Details pane of one task in a run
// @Tags runs
// @Produce json
// @Param id path int true "Run ID"
// @Param task path string true "Task name"
// @Success 200 {object} dto.TaskPaneResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/runs/{id}/tasks/{task} [get]
func (h *RunHandler) GetTask(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}

	h.writeTaskPane(c, run, c.Param("task"))
}

func (h *RunHandler) writeTaskPane(c *gin.Context, run models.DagRunAll, name string) {
	graph := dag.NewGraph(run.Connections)
	if !graph.Has(name) {
		middleware.AbortWithError(c, http.StatusNotFound, "TASK_NOT_FOUND", "Task "+name+" is not part of this run")
		return
	}

	info := run.TaskInfo[name]
	deps, _ := graph.GetImmediateDependencies(name)
	dependents, _ := graph.GetImmediateDependents(name)
	upstream, _ := graph.GetUpstreamTasks(name)
	downstream, _ := graph.GetDownstreamTasks(name)
	pane := dto.TaskPaneResponse{
		Name:         name,
		Status:       info.Status,
		Dependencies: deps,
		Dependents:   dependents,
		Upstream:     upstream,
		Downstream:   downstream,
	}

	if info.ID != 0 {
		ctx := c.Request.Context()

		details, err := h.backend.GetTaskDetails(ctx, info.ID)
		if err != nil {
			middleware.AbortWithBackendError(c, err)
			return
		}
		pane.Task = &details

		runDetails, err := h.backend.GetTaskRunDetails(ctx, run.ID, info.ID)
		if err != nil {
			middleware.AbortWithBackendError(c, err)
			return
		}
		pane.Run = &runDetails

		if podTemplate, err := dagform.PodTemplateYAML(details.PodTemplate); err == nil {
			pane.PodTemplateYAML = podTemplate
		} else {
			_ = c.Error(err)
		}
	}

	c.JSON(http.StatusOK, pane)
}

func (h *RunHandler) loadRun(c *gin.Context) (models.DagRunAll, bool) {
	runID, err := strconv.Atoi(c.Param("id"))
	if err != nil || runID < 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, "INVALID_RUN_ID", "Run ID must be a non-negative integer")
		return models.DagRunAll{}, false
	}

	run, err := h.backend.GetDagRunAll(c.Request.Context(), runID)
	if err != nil {
		middleware.AbortWithBackendError(c, err)
		return models.DagRunAll{}, false
	}
	return run, true
}

func containerOptions(q dto.GraphQuery) layout.Options {
	opts := layout.Options{Width: q.Width, Height: q.Height}
	if opts.Width == 0 {
		opts.Width = defaultGraphWidth
	}
	if opts.Height == 0 {
		opts.Height = defaultGraphHeight
	}
	return opts
}
