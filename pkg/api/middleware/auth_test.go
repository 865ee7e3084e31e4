package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GreedyKomodoDragon/Kontroler/internal/auth"
	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	states map[string]auth.State
	err    error
}

func (s stubChecker) Check(ctx context.Context, token string) (auth.AuthState, error) {
	if s.err != nil {
		return nil, s.err
	}
	if state, ok := s.states[token]; ok {
		return state, nil
	}
	return auth.Anonymous, nil
}

var checker = stubChecker{states: map[string]auth.State{
	"admin-token":  auth.NewState("root", auth.RoleAdmin),
	"viewer-token": auth.NewState("guest", auth.RoleViewer),
}}

func serve(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: client.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("valid session cookie", func(t *testing.T) {
		router := gin.New()
		router.Use(middleware.RequireAuth(checker))
		router.GET("/test", func(c *gin.Context) {
			token, _ := client.TokenFrom(c.Request.Context())
			c.JSON(200, gin.H{
				"username": c.GetString("username"),
				"role":     c.GetString("role"),
				"token":    token,
				"state":    middleware.GetAuthState(c).Username(),
			})
		})

		w := serve(router, "admin-token")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":"root","role":"admin","token":"admin-token","state":"root"}`, w.Body.String())
	})

	t.Run("missing cookie", func(t *testing.T) {
		router := gin.New()
		router.Use(middleware.RequireAuth(checker))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		w := serve(router, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authentication required. Please log in.")
	})

	t.Run("unknown token", func(t *testing.T) {
		router := gin.New()
		router.Use(middleware.RequireAuth(checker))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		assert.Equal(t, http.StatusUnauthorized, serve(router, "expired").Code)
	})

	t.Run("backend unreachable", func(t *testing.T) {
		router := gin.New()
		router.Use(middleware.RequireAuth(stubChecker{err: errors.New("connection refused")}))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		w := serve(router, "admin-token")

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_UNAVAILABLE")
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(middleware.RequireAuth(checker))
		router.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleEditor))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})
		return router
	}

	t.Run("user has required role", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(newRouter(), "admin-token").Code)
	})

	t.Run("user does not have required role", func(t *testing.T) {
		w := serve(newRouter(), "viewer-token")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "INSUFFICIENT_PERMISSIONS")
	})

	t.Run("without RequireAuth", func(t *testing.T) {
		router := gin.New()
		router.Use(middleware.RequireRole(auth.RoleViewer))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		assert.Equal(t, http.StatusForbidden, serve(router, "").Code)
	})
}
