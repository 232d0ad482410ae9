package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLoggedRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Request-ID"); id != "" {
			c.Set("request_id", id)
		}
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	return router, recorded
}

func requestEntries(recorded *observer.ObservedLogs) []observer.LoggedEntry {
	return recorded.FilterMessage("HTTP Request").All()
}

func TestGinMiddleware(t *testing.T) {
	router, recorded := newLoggedRouter(zapcore.InfoLevel)
	router.GET("/api/customers/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers/4?verbose=1", nil)
	req.Header.Set("User-Agent", "customers-test")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	logs := requestEntries(recorded)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/customers/4", fields["path"])
	assert.Equal(t, "/api/customers/:id", fields["route"])
	assert.Equal(t, "verbose=1", fields["query"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "customers-test", fields["user_agent"])
	assert.Contains(t, fields, "latency")
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusCreated, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusUnsupportedMediaType, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			router, recorded := newLoggedRouter(zapcore.DebugLevel)
			router.GET("/status", func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))

			logs := requestEntries(recorded)
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
		})
	}
}

func TestGinMiddleware_PropagatesRequestLogger(t *testing.T) {
	router, recorded := newLoggedRouter(zapcore.InfoLevel)

	var fromGin, fromRequest *zap.Logger
	router.GET("/ping", func(c *gin.Context) {
		fromGin = GetGinLogger(c)
		fromRequest = FromContext(c.Request.Context())
		L(c.Request.Context()).Info("handled")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-99")
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, fromGin)
	assert.Same(t, fromGin, fromRequest)

	handled := recorded.FilterMessage("handled").All()
	require.Len(t, handled, 1)
	assert.Equal(t, "req-99", handled[0].ContextMap()["request_id"])

	logs := requestEntries(recorded)
	require.Len(t, logs, 1)
	assert.Equal(t, "req-99", logs[0].ContextMap()["request_id"])
}

func TestGinMiddleware_RecordsErrors(t *testing.T) {
	router, recorded := newLoggedRouter(zapcore.InfoLevel)
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusBadRequest)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	logs := requestEntries(recorded)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].ContextMap(), "errors")
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("customer table missing")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":500,"error":"Internal Server Error","message":"An unexpected error occurred"}`, w.Body.String())

	logs := recorded.FilterMessage("Panic recovered").All()
	require.Len(t, logs, 1)
	assert.Equal(t, "/panic", logs[0].ContextMap()["path"])
}

func TestGetGinLogger_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	l := GetGinLogger(c)
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("dropped") })
}
