package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/config"
)

func TestGetTraceID(t *testing.T) {
	newCtx := func(headers map[string]string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return c
	}

	c := newCtx(map[string]string{TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"})
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(c))

	c = newCtx(map[string]string{TraceIDHeader: "abc"})
	assert.Equal(t, "abc", GetTraceID(c))

	assert.Len(t, GetTraceID(newCtx(nil)), 32)
}

func TestLoggingMiddleware_SetsLoggerAndHeader(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware(zap.NewNop()))

	var logger *zap.Logger
	r.GET("/", func(c *gin.Context) {
		logger = GetLoggerFromGinContext(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "trace-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-1", w.Header().Get(TraceIDHeader))
	assert.NotNil(t, logger)
}

func TestNewLoggerFromConfig(t *testing.T) {
	logger, err := NewLoggerFromConfig(config.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLoggerFromConfig(config.LoggingConfig{Level: "WARN", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))

	_, err = NewLoggerFromConfig(config.LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
