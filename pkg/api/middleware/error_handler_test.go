package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("recovers panics", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		router := gin.New()
		router.Use(middleware.ErrorHandler(logger))
		router.GET("/test", func(c *gin.Context) {
			panic("layout exploded")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, "layout exploded", hook.LastEntry().Data["panic"])
	})

	t.Run("renders unhandled errors", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		router := gin.New()
		router.Use(middleware.ErrorHandler(logger))
		router.GET("/test", func(c *gin.Context) {
			_ = c.Error(errors.New("session store unavailable"))
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "session store unavailable")
	})
}

func TestAbortWithBackendError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "mapped status",
			err:     &client.APIError{Status: http.StatusForbidden, Message: "You don't have permission to delete this DAG"},
			status:  http.StatusForbidden,
			message: "You don't have permission to delete this DAG",
		},
		{
			name:    "network failure",
			err:     &client.APIError{Status: client.StatusNetwork, Message: "Network error occurred while creating DAG."},
			status:  http.StatusBadGateway,
			message: "Network error occurred while creating DAG.",
		},
		{
			name:    "unexpected error",
			err:     errors.New("boom"),
			status:  http.StatusBadGateway,
			message: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			middleware.AbortWithBackendError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.True(t, c.IsAborted())
		})
	}
}
