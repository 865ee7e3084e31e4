package handlers

import (
	"net/http"

	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/dto"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/middleware"
	"github.com/gin-gonic/gin"
)

// DAGHandler passes DAG lookups through to the backend for the form's
// select inputs and the run form.
type DAGHandler struct {
	backend client.Client
}

// NewDAGHandler creates a new DAG handler
func NewDAGHandler(backend client.Client) *DAGHandler {
	return &DAGHandler{backend: backend}
}

// SearchNames handles GET /api/v1/dags/names
// @Summary Search DAG names
// @Tags dags
// @Produce json
// @Param term query string false "Substring to search for"
// @Success 200 {object} dto.NamesResponse
// @Router /api/v1/dags/names [get]
func (h *DAGHandler) SearchNames(c *gin.Context) {
	names, err := h.backend.GetDagNames(c.Request.Context(), c.Query("term"))
	if err != nil {
		middleware.AbortWithBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NamesResponse{Names: names})
}

// GetParameters handles GET /api/v1/dags/parameters
// @Summary Parameters of a DAG
// @Tags dags
// @Produce json
// @Param name query string false "DAG name"
// @Success 200 {object} dto.ParametersResponse
// @Router /api/v1/dags/parameters [get]
func (h *DAGHandler) GetParameters(c *gin.Context) {
	params, err := h.backend.GetDagParameters(c.Request.Context(), c.Query("name"))
	if err != nil {
		middleware.AbortWithBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ParametersResponse{Parameters: params})
}

// CreateRun handles POST /api/v1/dags/runs
// @Summary Start a run of an existing DAG
// @Tags dags
// @Accept json
// @Produce json
// @Param run body dto.CreateRunRequest true "Run definition"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/dags/runs [post]
func (h *DAGHandler) CreateRun(c *gin.Context) {
	var req dto.CreateRunRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}

	if err := h.backend.CreateDagRun(c.Request.Context(), req.ToDagRunForm()); err != nil {
		middleware.AbortWithBackendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Success: true, Message: "DAG run created"})
}

// DeleteDAG handles DELETE /api/v1/dags/:namespace/:name
// @Summary Delete a DAG
// @Tags dags
// @Param namespace path string true "Namespace"
// @Param name path string true "DAG name"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/dags/{namespace}/{name} [delete]
func (h *DAGHandler) DeleteDAG(c *gin.Context) {
	if err := h.backend.DeleteDag(c.Request.Context(), c.Param("namespace"), c.Param("name")); err != nil {
		middleware.AbortWithBackendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetStats handles GET /api/v1/stats/dashboard
// @Summary Landing page counters
// @Tags dags
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Router /api/v1/stats/dashboard [get]
func (h *DAGHandler) GetStats(c *gin.Context) {
	stats, err := h.backend.GetDashboardStats(c.Request.Context())
	if err != nil {
		middleware.AbortWithBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
