package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GreedyKomodoDragon/Kontroler/internal/auth"
	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/middleware"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBackend is a mock implementation of client.Client
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) CreateDag(ctx context.Context, form models.DagFormObj) (string, error) {
	args := m.Called(ctx, form)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) GetDagNames(ctx context.Context, term string) ([]string, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBackend) GetDagParameters(ctx context.Context, name string) ([]models.Parameter, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Parameter), args.Error(1)
}

func (m *MockBackend) GetDags(ctx context.Context, page int) ([]models.Dag, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Dag), args.Error(1)
}

func (m *MockBackend) GetDagRuns(ctx context.Context, page int) ([]models.DagRunMeta, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DagRunMeta), args.Error(1)
}

func (m *MockBackend) GetDagRunAll(ctx context.Context, runID int) (models.DagRunAll, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).(models.DagRunAll), args.Error(1)
}

func (m *MockBackend) GetTaskRunDetails(ctx context.Context, runID, taskID int) (models.TaskRunDetails, error) {
	args := m.Called(ctx, runID, taskID)
	return args.Get(0).(models.TaskRunDetails), args.Error(1)
}

func (m *MockBackend) GetTaskDetails(ctx context.Context, taskID int) (models.TaskDetails, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(models.TaskDetails), args.Error(1)
}

func (m *MockBackend) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.DashboardStats), args.Error(1)
}

func (m *MockBackend) CreateDagRun(ctx context.Context, form models.DagRunForm) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockBackend) DeleteDag(ctx context.Context, namespace, name string) error {
	args := m.Called(ctx, namespace, name)
	return args.Error(0)
}

func (m *MockBackend) CheckAuth(ctx context.Context) (models.AuthCheck, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.AuthCheck), args.Error(1)
}

var _ client.Client = (*MockBackend)(nil)

// staticChecker accepts a fixed set of tokens
type staticChecker map[string]auth.State

func (s staticChecker) Check(ctx context.Context, token string) (auth.AuthState, error) {
	if state, ok := s[token]; ok {
		return state, nil
	}
	return auth.Anonymous, nil
}

var users = staticChecker{
	"ada-token": auth.NewState("ada", auth.RoleEditor),
	"bob-token": auth.NewState("bob", auth.RoleEditor),
	"eve-token": auth.NewState("eve", auth.RoleViewer),
}

func newEngine(register func(r gin.IRoutes)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1", middleware.RequireAuth(users))
	register(group)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: client.CookieName, Value: token})
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
