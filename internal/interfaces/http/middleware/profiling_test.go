package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/imperialbinding/billing/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := middleware.DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPathPrefixes, "/swagger")
}

func TestProfilingMiddleware_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{Enabled: false}))

	var route string
	var labelled bool
	r.GET("/api/v1/invoices/:id", func(c *gin.Context) {
		route, labelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/3", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labelled)
	assert.Empty(t, route)
}

func TestProfilingMiddleware_AddsLabels(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Profiling())

	labels := map[string]string{}
	r.GET("/api/v1/invoices/:id/pdf", func(c *gin.Context) {
		for _, key := range []string{"route", "method", "resource"} {
			if v, ok := pprof.Label(c.Request.Context(), key); ok {
				labels[key] = v
			}
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/3/pdf", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		"route":    "/api/v1/invoices/:id/pdf",
		"method":   "GET",
		"resource": "invoices",
	}, labels)
}

func TestProfilingMiddleware_SkipPaths(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Profiling())

	var labelled bool
	r.GET("/health", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})
	r.GET("/swagger/*any", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/health", "/swagger/index.html"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.False(t, labelled, path)
	}
}
