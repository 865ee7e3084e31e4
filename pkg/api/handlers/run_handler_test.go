package handlers_test

import (
	"net/http"
	"testing"

	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/internal/layout"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/dto"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/handlers"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// pipelineRun has extract at x=170 and load at x=20 in a 1200px container
func pipelineRun() models.DagRunAll {
	return models.DagRunAll{
		ID:     7,
		DagID:  3,
		Status: models.StatusRunning,
		Connections: map[string][]string{
			"extract": {},
			"load":    {"extract"},
		},
		TaskInfo: map[string]models.TaskInfo{
			"extract": {ID: 11, Status: models.StatusSuccess},
			"load":    {Status: models.StatusRunning},
		},
	}
}

func newRunRouter(backend *MockBackend) *gin.Engine {
	h := handlers.NewRunHandler(backend)
	return newEngine(func(r gin.IRoutes) {
		r.GET("/runs/:id/graph", h.GetGraph)
		r.GET("/runs/:id/graph.svg", h.GetGraphSVG)
		r.GET("/runs/:id/graph.dot", h.GetGraphDot)
		r.POST("/runs/:id/graph/click", h.ClickGraph)
		r.GET("/runs/:id/tasks/:task", h.GetTask)
	})
}

func TestGetGraph(t *testing.T) {
	backend := new(MockBackend)
	backend.On("GetDagRunAll", mock.Anything, 7).Return(pipelineRun(), nil)
	router := newRunRouter(backend)

	w := doRequest(t, router, http.MethodGet, "/api/v1/runs/7/graph", "ada-token", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[dto.GraphResponse](t, w)
	assert.Equal(t, 7, resp.RunID)
	assert.Equal(t, 1, resp.MaxLevel)
	require.Len(t, resp.Nodes, 2)

	byID := map[string]dto.GraphNode{}
	for _, n := range resp.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, 170.0, byID["extract"].X)
	assert.Equal(t, 20.0, byID["load"].X)
	assert.Equal(t, "#10B981", byID["extract"].Color)
	assert.Equal(t, "#3B82F6", byID["load"].Color)
	assert.Equal(t, []layout.Edge{{From: "extract", To: "load"}}, resp.Edges)
	assert.Equal(t, 2, resp.TaskCount)
	assert.Equal(t, []string{"extract"}, resp.Roots)
	assert.Equal(t, []string{"load"}, resp.Leaves)
	assert.Equal(t, []string{"extract", "load"}, resp.Order)
	assert.Empty(t, byID["load"].Dangling)
}

func TestGetGraphCycleAndDangling(t *testing.T) {
	run := models.DagRunAll{
		ID:     8,
		Status: models.StatusFailed,
		Connections: map[string][]string{
			"a": {"b"},
			"b": {"a"},
			"c": {"a", "ghost"},
		},
	}
	backend := new(MockBackend)
	backend.On("GetDagRunAll", mock.Anything, 8).Return(run, nil)
	router := newRunRouter(backend)

	w := doRequest(t, router, http.MethodGet, "/api/v1/runs/8/graph", "ada-token", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[dto.GraphResponse](t, w)
	assert.Equal(t, 3, resp.TaskCount)
	assert.Nil(t, resp.Order)
	assert.Empty(t, resp.Roots)
	assert.Equal(t, []string{"c"}, resp.Leaves)

	dangling := map[string][]string{}
	for _, n := range resp.Nodes {
		dangling[n.ID] = n.Dangling
	}
	assert.Equal(t, []string{"ghost"}, dangling["c"])
	assert.Empty(t, dangling["a"])
}

func TestGetGraphInvalidRun(t *testing.T) {
	backend := new(MockBackend)
	router := newRunRouter(backend)

	w := doRequest(t, router, http.MethodGet, "/api/v1/runs/abc/graph", "ada-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	backend.On("GetDagRunAll", mock.Anything, 99).Return(models.DagRunAll{}, &client.APIError{
		Status:  http.StatusNotFound,
		Message: "The requested resource was not found.",
	})
	w = doRequest(t, router, http.MethodGet, "/api/v1/runs/99/graph", "ada-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "The requested resource was not found.", decode[dto.ErrorResponse](t, w).Message)

	w = doRequest(t, router, http.MethodGet, "/api/v1/runs/7/graph?width=-5", "ada-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGraphSVG(t *testing.T) {
	backend := new(MockBackend)
	backend.On("GetDagRunAll", mock.Anything, 7).Return(pipelineRun(), nil)
	router := newRunRouter(backend)

	w := doRequest(t, router, http.MethodGet, "/api/v1/runs/7/graph.svg?selected=load", "ada-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `class="node selected"`)
	assert.Contains(t, body, `data-task="load"`)
}

func TestGetGraphDot(t *testing.T) {
	backend := new(MockBackend)
	backend.On("GetDagRunAll", mock.Anything, 7).Return(pipelineRun(), nil)
	router := newRunRouter(backend)

	w := doRequest(t, router, http.MethodGet, "/api/v1/runs/7/graph.dot", "ada-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "digraph")
	assert.Contains(t, w.Body.String(), `"extract" -> "load"`)
}

func TestClickGraph(t *testing.T) {
	backend := new(MockBackend)
	backend.On("GetDagRunAll", mock.Anything, 7).Return(pipelineRun(), nil)
	backend.On("GetTaskDetails", mock.Anything, 11).Return(models.TaskDetails{
		ID:          11,
		Name:        "extract",
		Image:       "alpine",
		PodTemplate: `{"serviceAccountName":"runner"}`,
	}, nil)
	backend.On("GetTaskRunDetails", mock.Anything, 7, 11).Return(models.TaskRunDetails{
		ID:       11,
		Status:   models.StatusSuccess,
		Attempts: 1,
		Pods:     []models.TaskPod{{PodUID: "pod-1", Name: "extract-1", Status: "Succeeded"}},
	}, nil)
	router := newRunRouter(backend)

	t.Run("hit", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/runs/7/graph/click", "ada-token", dto.ClickRequest{X: 210, Y: 45})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		pane := decode[dto.TaskPaneResponse](t, w)
		assert.Equal(t, "extract", pane.Name)
		assert.Equal(t, models.StatusSuccess, pane.Status)
		assert.Equal(t, []string{"load"}, pane.Dependents)
		assert.Empty(t, pane.Dependencies)
		require.NotNil(t, pane.Run)
		assert.Equal(t, "pod-1", pane.Run.Pods[0].PodUID)
		assert.Contains(t, pane.PodTemplateYAML, "serviceAccountName: runner")
	})

	t.Run("miss", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/runs/7/graph/click", "ada-token", dto.ClickRequest{X: 600, Y: 350})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	backend.AssertExpectations(t)
}

func TestGetTask(t *testing.T) {
	backend := new(MockBackend)
	backend.On("GetDagRunAll", mock.Anything, 7).Return(pipelineRun(), nil)
	router := newRunRouter(backend)

	t.Run("task without backend id", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/runs/7/tasks/load", "ada-token", nil)
		require.Equal(t, http.StatusOK, w.Code)

		pane := decode[dto.TaskPaneResponse](t, w)
		assert.Equal(t, []string{"extract"}, pane.Dependencies)
		assert.Equal(t, []string{"extract"}, pane.Upstream)
		assert.Empty(t, pane.Downstream)
		assert.Nil(t, pane.Task)
		assert.Nil(t, pane.Run)
		backend.AssertNotCalled(t, "GetTaskDetails", mock.Anything, mock.Anything)
	})

	t.Run("unknown task", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/runs/7/tasks/publish", "ada-token", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetTaskClosure(t *testing.T) {
	run := models.DagRunAll{
		ID: 9,
		Connections: map[string][]string{
			"extract":   {},
			"transform": {"extract"},
			"load":      {"transform"},
			"report":    {"load"},
		},
	}
	backend := new(MockBackend)
	backend.On("GetDagRunAll", mock.Anything, 9).Return(run, nil)
	router := newRunRouter(backend)

	tests := []struct {
		task       string
		upstream   []string
		downstream []string
	}{
		{task: "extract", upstream: []string{}, downstream: []string{"load", "report", "transform"}},
		{task: "transform", upstream: []string{"extract"}, downstream: []string{"load", "report"}},
		{task: "report", upstream: []string{"extract", "load", "transform"}, downstream: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, "/api/v1/runs/9/tasks/"+tt.task, "ada-token", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			pane := decode[dto.TaskPaneResponse](t, w)
			assert.Equal(t, tt.upstream, pane.Upstream)
			assert.Equal(t, tt.downstream, pane.Downstream)
		})
	}
}
