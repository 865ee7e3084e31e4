package api

import (
	"net/http"

	"github.com/GreedyKomodoDragon/Kontroler/internal/auth"
	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/internal/session"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/dto"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/handlers"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Version is reported by the health endpoint
const Version = "0.1.0"

// Dependencies are the collaborators the dashboard API is built from
type Dependencies struct {
	Backend     client.Client
	Checker     auth.Checker
	Sessions    session.Store
	Reporter    auth.ErrorReporter
	RateLimiter *middleware.RateLimiter
	Logger      *logrus.Logger
	// Health reports the state of optional services such as Redis
	Health func() map[string]string
}

// NewRouter wires the dashboard routes
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(deps.Logger), middleware.ErrorHandler(deps.Logger))

	router.GET("/health", func(c *gin.Context) {
		services := map[string]string{}
		if deps.Health != nil {
			services = deps.Health()
		}
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:   "healthy",
			Version:  Version,
			Services: services,
		})
	})

	forms := handlers.NewFormHandler(deps.Sessions, deps.Backend, deps.Reporter)
	runs := handlers.NewRunHandler(deps.Backend)
	dags := handlers.NewDAGHandler(deps.Backend)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(deps.Checker))
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.RateLimit())
	}
	{
		editors := middleware.RequireRole(auth.RoleAdmin, auth.RoleEditor)

		v1.POST("/forms", editors, forms.CreateForm)
		v1.GET("/forms/:id", forms.GetForm)
		v1.DELETE("/forms/:id", forms.DeleteForm)
		v1.POST("/forms/:id/actions", editors, forms.ApplyAction)
		v1.POST("/forms/:id/validate", forms.ValidateForm)
		v1.POST("/forms/:id/submit", editors, forms.SubmitForm)
		v1.GET("/forms/:id/schedule/preview", forms.PreviewSchedule)
		v1.GET("/forms/:id/export", forms.ExportForm)

		v1.GET("/runs/:id/graph", runs.GetGraph)
		v1.GET("/runs/:id/graph.svg", runs.GetGraphSVG)
		v1.GET("/runs/:id/graph.dot", runs.GetGraphDot)
		v1.POST("/runs/:id/graph/click", runs.ClickGraph)
		v1.GET("/runs/:id/tasks/:task", runs.GetTask)

		v1.GET("/dags/names", dags.SearchNames)
		v1.GET("/dags/parameters", dags.GetParameters)
		v1.POST("/dags/runs", editors, dags.CreateRun)
		v1.DELETE("/dags/:namespace/:name", editors, dags.DeleteDAG)
		v1.GET("/stats/dashboard", dags.GetStats)
	}

	return router
}
