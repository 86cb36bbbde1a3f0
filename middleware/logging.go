package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/duynhne/franchise-service/config"
)

const (
	TraceIDHeader     = "X-Trace-ID"
	TraceParentHeader = "traceparent"
)

// GetTraceID returns the trace id of the W3C traceparent header
// (00-<trace_id>-<parent_id>-<flags>), then X-Trace-ID, or a new one.
func GetTraceID(c *gin.Context) string {
	if traceParent := c.GetHeader(TraceParentHeader); traceParent != "" {
		parts := strings.Split(traceParent, "-")
		if len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}
	if traceID := c.GetHeader(TraceIDHeader); traceID != "" {
		return traceID
	}
	return generateTraceID()
}

func generateTraceID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// LoggingMiddleware stores a trace-scoped logger under "logger" in the gin
// context and logs every request once it completes.
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		traceID := GetTraceID(c)

		c.Set("trace_id", traceID)
		c.Set("logger", logger.With(zap.String("trace_id", traceID)))
		c.Header(TraceIDHeader, traceID)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("trace_id", traceID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			logger.Error("HTTP request", fields...)
		case status >= 400:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// GetLoggerFromGinContext retrieves the logger set by LoggingMiddleware (and
// enriched by SessionMiddleware).
func GetLoggerFromGinContext(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	logger, err := NewLogger()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// NewLogger creates a JSON production logger.
func NewLogger() (*zap.Logger, error) {
	return NewLoggerFromConfig(config.LoggingConfig{Level: "info", Format: "json"})
}

// NewLoggerFromConfig builds a JSON or console logger at the configured level.
func NewLoggerFromConfig(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Format, "console") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.MessageKey = "message"
		zc.EncoderConfig.LevelKey = "level"
		zc.EncoderConfig.CallerKey = "caller"
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
