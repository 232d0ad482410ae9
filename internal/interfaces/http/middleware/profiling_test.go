package middleware

import (
	"net/http"
	"runtime/pprof"
	"testing"

	"github.com/erp/customers/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfilingWithConfig(t *testing.T) {
	var route, method string
	var labelled bool
	handler := func(c *gin.Context) {
		route, labelled = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
		method, _ = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelMethod)
		c.Status(http.StatusOK)
	}

	router := gin.New()
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))
	router.GET("/customers/:id", handler)
	router.GET("/health", handler)
	router.GET("/swagger/*any", handler)

	t.Run("labels matched routes", func(t *testing.T) {
		serve(router, http.MethodGet, "/customers/3", nil)

		assert.True(t, labelled)
		assert.Equal(t, "/customers/:id", route)
		assert.Equal(t, "GET", method)
	})

	t.Run("skips health", func(t *testing.T) {
		serve(router, http.MethodGet, "/health", nil)
		assert.False(t, labelled)
	})

	t.Run("skips swagger prefix", func(t *testing.T) {
		serve(router, http.MethodGet, "/swagger/index.html", nil)
		assert.False(t, labelled)
	})
}

func TestProfilingWithConfig_Disabled(t *testing.T) {
	var labelled bool
	router := gin.New()
	router.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
	})

	serve(router, http.MethodGet, "/test", nil)

	assert.False(t, labelled)
}
