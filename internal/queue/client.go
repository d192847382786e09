package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/zombar/realitycheck/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Task type constants
const (
	TypeAnalyzeProduct = "realitycheck:analyze_product"
)

// Queue names
const (
	QueueAnalysis = "analysis"
)

// AnalyzeProductPayload represents the payload for a background reality check
type AnalyzeProductPayload struct {
	JobID string               `json:"job_id"`
	Input models.AnalysisInput `json:"input"`
	// Tracing and timing fields
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

// Client wraps the Asynq client for enqueueing tasks
type Client struct {
	client     *asynq.Client
	maxRetries int
}

// ClientConfig contains configuration for the queue client
type ClientConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MaxRetries    int
}

// NewClient creates a new queue client
func NewClient(cfg ClientConfig) *Client {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &Client{
		client:     client,
		maxRetries: cfg.MaxRetries,
	}
}

// EnqueueAnalyzeProduct enqueues a reality check. jobID doubles as the asynq
// task id and the id of the stored analysis.
func (c *Client) EnqueueAnalyzeProduct(ctx context.Context, jobID string, input models.AnalysisInput) (string, error) {
	task, opts, err := newAnalyzeProductTask(ctx, jobID, input, c.maxRetries)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue analyze product task: %w", err)
	}

	return info.ID, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}

func newAnalyzeProductTask(ctx context.Context, jobID string, input models.AnalysisInput, maxRetries int) (*asynq.Task, []asynq.Option, error) {
	payload := AnalyzeProductPayload{
		JobID:      jobID,
		Input:      input,
		EnqueuedAt: time.Now().UnixNano(),
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		payload.TraceID = spanCtx.TraceID().String()
		payload.SpanID = spanCtx.SpanID().String()

		span.AddEvent("task_enqueued", trace.WithAttributes(
			attribute.String("task.type", TypeAnalyzeProduct),
			attribute.String("task.id", jobID),
			attribute.Int64("enqueued_at", payload.EnqueuedAt),
		))
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TypeAnalyzeProduct, payloadBytes, asynq.TaskID(jobID))

	opts := []asynq.Option{
		asynq.MaxRetry(maxRetries),
		asynq.Timeout(time.Minute),
		asynq.Queue(QueueAnalysis),
		asynq.Retention(7 * 24 * time.Hour), // Keep completed tasks for 7 days
	}

	return task, opts, nil
}
