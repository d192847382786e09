package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/zombar/realitycheck/internal/models"
	"github.com/zombar/realitycheck/pkg/metrics"
)

// Analyzer runs a reality check
type Analyzer interface {
	AnalyzeProductWithContext(ctx context.Context, in models.AnalysisInput) models.AnalysisResult
}

// Store persists finished analyses
type Store interface {
	SaveAnalysis(ctx context.Context, analysis *models.Analysis) error
}

// ResultCache receives finished analyses; it may be nil
type ResultCache interface {
	Set(ctx context.Context, analysis *models.Analysis) error
}

// Worker wraps the Asynq server for processing tasks
type Worker struct {
	server          *asynq.Server
	mux             *asynq.ServeMux
	store           Store
	analyzer        Analyzer
	cache           ResultCache
	concurrency     int
	logger          *slog.Logger
	businessMetrics *metrics.BusinessMetrics
	now             func() time.Time
}

// WorkerConfig contains configuration for the queue worker
type WorkerConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

// NewWorker creates a new queue worker. cache and businessMetrics may be nil.
func NewWorker(
	cfg WorkerConfig,
	store Store,
	analyzer Analyzer,
	cache ResultCache,
	businessMetrics *metrics.BusinessMetrics,
) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	serverCfg := asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueAnalysis: 1,
		},
		RetryDelayFunc:  retryDelay,
		ShutdownTimeout: 30 * time.Second,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)

			slog.Error("task processing error",
				"task_type", task.Type(),
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := newWorker(store, analyzer, cache, businessMetrics)
	w.server = asynq.NewServer(redisOpt, serverCfg)
	w.concurrency = cfg.Concurrency
	return w
}

func newWorker(store Store, analyzer Analyzer, cache ResultCache, businessMetrics *metrics.BusinessMetrics) *Worker {
	w := &Worker{
		mux:             asynq.NewServeMux(),
		store:           store,
		analyzer:        analyzer,
		cache:           cache,
		logger:          slog.Default(),
		businessMetrics: businessMetrics,
		now:             time.Now,
	}
	w.registerHandlers()
	return w
}

// registerHandlers registers all task handlers with the worker
func (w *Worker) registerHandlers() {
	w.mux.HandleFunc(TypeAnalyzeProduct, w.handleAnalyzeProduct)
}

// Start starts the worker to begin processing tasks
func (w *Worker) Start() error {
	w.logger.Info("starting asynq worker",
		"concurrency", w.concurrency,
		"queue", QueueAnalysis,
	)

	// Run blocks until shutdown
	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the worker
func (w *Worker) Shutdown() {
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
}

// retryDelay backs off 10s, 30s, 1m, then 5m for every later attempt.
// Failures here are storage failures; the engine itself cannot fail.
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	delays := []time.Duration{
		10 * time.Second,
		30 * time.Second,
		1 * time.Minute,
		5 * time.Minute,
	}
	if n < len(delays) {
		return delays[n]
	}
	return delays[len(delays)-1]
}
