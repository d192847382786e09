package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/zombar/realitycheck/internal/analyzer"
	"github.com/zombar/realitycheck/internal/api"
	"github.com/zombar/realitycheck/internal/cache"
	"github.com/zombar/realitycheck/internal/config"
	"github.com/zombar/realitycheck/internal/database"
	"github.com/zombar/realitycheck/internal/knowledgebase"
	"github.com/zombar/realitycheck/internal/queue"
	"github.com/zombar/realitycheck/pkg/logging"
	"github.com/zombar/realitycheck/pkg/metrics"
	"github.com/zombar/realitycheck/pkg/tracing"
)

const metricsNamespace = "realitycheck"

func main() {
	var (
		configPath = flag.String("config", "", "Path to realitycheck.yaml (env: REALITYCHECK_* overrides)")
		port       = flag.Int("port", 0, "Server port, overrides server.port")
		noWorker   = flag.Bool("no-worker", false, "Do not start the background worker in this process")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *noWorker {
		cfg.Worker.Enabled = false
	}

	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("realitycheck service initializing", "version", "1.0.0")

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName)
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() {
				if err := tp.Shutdown(context.Background()); err != nil {
					logger.Error("error shutting down tracer", "error", err)
				}
			}()
			logger.Info("tracing initialized successfully")
		}
	}

	kb, err := knowledgebase.LoadOrDefault(cfg.KnowledgeBase.Path)
	if err != nil {
		logger.Error("failed to load knowledge base", "error", err, "path", cfg.KnowledgeBase.Path)
		os.Exit(1)
	}
	logger.Info("knowledge base loaded",
		"path", cfg.KnowledgeBase.Path,
		"ingredients", kb.Size(),
		"well_known_brands", len(kb.WellKnownBrands()),
		"emerging_brands", len(kb.EmergingBrands()),
	)

	db, err := database.New(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	dbMetrics := metrics.NewDatabaseMetrics(metricsNamespace, nil)
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			dbMetrics.UpdateDBStats(db.Conn())
		}
	}()

	businessMetrics := metrics.NewBusinessMetrics(metricsNamespace, nil)
	engine := analyzer.New(kb)

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		resultCache, err = cache.New(cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			logger.Warn("failed to connect result cache, continuing without it", "error", err, "redis_addr", cfg.Redis.Addr)
			resultCache = nil
		} else {
			defer resultCache.Close()
			logger.Info("result cache enabled", "ttl", cfg.Cache.TTL.String())
		}
	}

	opts := api.Options{
		Metrics: businessMetrics,
		Logger:  logger,
	}
	if resultCache != nil {
		opts.Cache = resultCache
	}

	var worker *queue.Worker
	if cfg.Worker.Enabled {
		queueClient := queue.NewClient(queue.ClientConfig{
			RedisAddr:     cfg.Redis.Addr,
			RedisPassword: cfg.Redis.Password,
			RedisDB:       cfg.Redis.DB,
			MaxRetries:    cfg.Worker.MaxRetries,
		})
		defer queueClient.Close()
		opts.Queue = queueClient

		var workerCache queue.ResultCache
		if resultCache != nil {
			workerCache = resultCache
		}
		worker = queue.NewWorker(queue.WorkerConfig{
			RedisAddr:     cfg.Redis.Addr,
			RedisPassword: cfg.Redis.Password,
			RedisDB:       cfg.Redis.DB,
			Concurrency:   cfg.Worker.Concurrency,
		}, db, engine, workerCache, businessMetrics)

		go func() {
			if err := worker.Start(); err != nil {
				logger.Error("worker stopped", "error", err)
			}
		}()
	}

	apiHandler := api.NewHandler(db, engine, opts)

	handler := newHTTPHandler(apiHandler, logger, cfg.Tracing.ServiceName)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("realitycheck service starting",
			"port", cfg.Server.Port,
			"cache_enabled", resultCache != nil,
			"worker_enabled", cfg.Worker.Enabled,
			"worker_concurrency", cfg.Worker.Concurrency,
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if worker != nil {
		worker.Shutdown()
	}

	logger.Info("server stopped")
}

// newHTTPHandler wraps the API with tracing -> HTTP logging -> handlers.
// The server span must exist before the access logger reads the context.
func newHTTPHandler(apiHandler http.Handler, logger *slog.Logger, service string) http.Handler {
	return tracing.HTTPMiddleware(service)(
		logging.HTTPLoggingMiddleware(logger)(apiHandler),
	)
}
