package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/config"
	database "github.com/duynhne/franchise-service/internal/core"
	"github.com/duynhne/franchise-service/internal/core/domain"
	"github.com/duynhne/franchise-service/internal/core/repository/psql"
	"github.com/duynhne/franchise-service/internal/core/storage"
	logicv1 "github.com/duynhne/franchise-service/internal/logic/v1"
	v1 "github.com/duynhne/franchise-service/internal/web/v1"
	"github.com/duynhne/franchise-service/middleware"
)

func main() {
	// Load configuration from environment variables (with .env file support for local dev)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	logger, err := middleware.NewLoggerFromConfig(cfg.Logging)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Service starting",
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version),
		zap.String("env", cfg.Service.Env),
		zap.String("port", cfg.Service.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	if cfg.Tracing.Enabled {
		if _, err := middleware.InitTracing(cfg); err != nil {
			logger.Warn("Failed to initialize tracing", zap.Error(err))
		} else {
			logger.Info("Tracing initialized",
				zap.String("endpoint", cfg.Tracing.Endpoint),
				zap.Float64("sample_rate", cfg.Tracing.SampleRate),
			)
		}
	} else {
		logger.Info("Tracing disabled (TRACING_ENABLED=false)")
	}

	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg.Profiling); err != nil {
			logger.Warn("Failed to initialize profiling", zap.Error(err))
		} else {
			logger.Info("Profiling initialized", zap.String("endpoint", cfg.Profiling.Endpoint))
			defer middleware.StopProfiling()
		}
	} else {
		logger.Info("Profiling disabled (PROFILING_ENABLED=false)")
	}

	// Change listeners run until shutdown.
	listenCtx, stopListeners := context.WithCancel(context.Background())
	defer stopListeners()

	store, closeStore, err := openStore(listenCtx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	logger.Info("Storage ready", zap.String("driver", cfg.Storage.Driver), zap.String("namespace", cfg.Storage.Namespace))

	dispatcher := newDispatcher(cfg.Collaborators, logger)

	service := logicv1.NewService(store, logicv1.Options{
		Keys:       storage.NewKeys(cfg.Storage.Namespace),
		Dispatcher: dispatcher,
		Logger:     logger,
		Settings: logicv1.Settings{
			ReplayDelay:          cfg.Session.ReplayDelay,
			CompareRedirectDelay: cfg.Session.CompareRedirectDelay,
			CompareMaxItems:      cfg.Session.CompareMaxItems,
		},
	})

	// Initialize auth client for token introspection
	authClient := middleware.NewAuthClient(cfg.AuthServiceURL)
	logger.Info("Auth client initialized",
		zap.String("auth_service_url", cfg.AuthServiceURL),
		zap.Bool("allow_unauthenticated_fallback", cfg.AuthAllowUnauthenticatedFallback),
	)

	handler := v1.NewHandler(service, authClient, cfg.AuthAllowUnauthenticatedFallback)

	r := gin.New()
	r.Use(gin.Recovery())

	var isShuttingDown atomic.Bool

	// Tracing middleware (must be first for context propagation)
	r.Use(middleware.TracingMiddleware())

	// Logging middleware (must be before Prometheus and session middleware)
	r.Use(middleware.LoggingMiddleware(logger))

	r.Use(middleware.PrometheusMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	apiV1 := r.Group("/api/v1")
	apiV1.Use(middleware.SessionMiddleware())
	handler.RegisterRoutes(apiV1)

	srv := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting franchise service", zap.String("port", cfg.Service.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Fail readiness first and wait for propagation.
	isShuttingDown.Store(true)
	if drainDelay := cfg.GetReadinessDrainDelayDuration(); drainDelay > 0 {
		logger.Info("Readiness drain delay started", zap.Duration("delay", drainDelay))
		time.Sleep(drainDelay)
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server...", zap.Duration("timeout", shutdownTimeout))

	// Cleanup order: HTTP server → collaborator calls → storage → tracer

	// 1. Stop accepting connections and wait for in-flight requests
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.Info("HTTP server shutdown complete")
	}

	// 2. Let background engagement and CRM calls finish
	dispatcher.Wait()
	logger.Info("Collaborator calls drained")

	// 3. Stop change listeners and release the backend
	stopListeners()
	closeStore()
	logger.Info("Storage closed")

	// 4. Flush pending spans
	if err := middleware.Shutdown(shutdownCtx); err != nil {
		logger.Error("Tracer shutdown error", zap.Error(err))
	}

	logger.Info("Graceful shutdown complete")
}

// openStore connects the configured storage backend and starts its change
// listener. The returned func releases the backend.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemory(), func() {}, nil

	case "redis":
		rdb, err := storage.NewRedis(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisChannel, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := rdb.Listen(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return rdb, func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("Redis close error", zap.Error(err))
			}
		}, nil

	case "postgres":
		pool, err := database.Connect(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := psql.NewStorageRepository(pool, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := repo.Listen(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// newDispatcher uses the HTTP collaborators when their URLs are configured
// and the logging mock otherwise.
func newDispatcher(cfg config.CollaboratorsConfig, logger *zap.Logger) *logicv1.Dispatcher {
	mock := logicv1.NewMockCollaborator(logger)

	var engagement logicv1.Engagement = mock
	if cfg.EngagementURL != "" {
		engagement = logicv1.NewCollaboratorClient("engagement", cfg.EngagementURL, cfg.Timeout, logger)
	}
	var crm logicv1.CRM = mock
	if cfg.CRMURL != "" {
		crm = logicv1.NewCollaboratorClient("crm", cfg.CRMURL, cfg.Timeout, logger)
	}
	return logicv1.NewDispatcher(engagement, crm, cfg.Timeout, logger)
}
