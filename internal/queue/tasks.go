package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/zombar/realitycheck/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// handleAnalyzeProduct runs a queued reality check and stores the result
func (w *Worker) handleAnalyzeProduct(ctx context.Context, t *asynq.Task) error {
	var payload AnalyzeProductPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.JobID == "" || strings.TrimSpace(payload.Input.Product.Name) == "" {
		return fmt.Errorf("task payload missing job id or product name: %w", asynq.SkipRetry)
	}

	var queueWaitTime time.Duration
	if payload.EnqueuedAt > 0 {
		queueWaitTime = time.Since(time.Unix(0, payload.EnqueuedAt))
	}

	ctx, span := startTaskSpan(ctx, payload, queueWaitTime)
	defer span.End()

	w.logger.Info("processing reality check",
		"job_id", payload.JobID,
		"product", payload.Input.Product.Name,
		"platform", payload.Input.Product.Platform,
		"queue_wait_seconds", queueWaitTime.Seconds(),
	)

	start := time.Now()
	result := w.analyzer.AnalyzeProductWithContext(ctx, payload.Input)
	duration := time.Since(start)

	now := w.now().UTC()
	analysis := &models.Analysis{
		ID:        payload.JobID,
		Input:     payload.Input,
		Result:    result,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := w.store.SaveAnalysis(ctx, analysis); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	if w.cache != nil {
		if err := w.cache.Set(ctx, analysis); err != nil {
			w.logger.Warn("failed to cache analysis", "job_id", payload.JobID, "error", err)
		}
	}

	w.businessMetrics.RecordAnalysis("worker", result.OverallVerdict, result.RealityScore, duration)

	span.SetAttributes(
		attribute.Int("reality.score", result.RealityScore),
		attribute.String("reality.verdict", result.OverallVerdict),
	)

	w.logger.Info("reality check saved",
		"job_id", payload.JobID,
		"reality_score", result.RealityScore,
		"verdict", result.OverallVerdict,
		"duration_ms", duration.Milliseconds(),
	)

	return nil
}

// startTaskSpan continues the enqueuing trace when the payload carries one
func startTaskSpan(ctx context.Context, payload AnalyzeProductPayload, queueWaitTime time.Duration) (context.Context, trace.Span) {
	if payload.TraceID != "" && payload.SpanID != "" {
		traceID, traceErr := trace.TraceIDFromHex(payload.TraceID)
		spanID, spanErr := trace.SpanIDFromHex(payload.SpanID)
		if traceErr == nil && spanErr == nil {
			remoteSpanCtx := trace.NewSpanContext(trace.SpanContextConfig{
				TraceID:    traceID,
				SpanID:     spanID,
				TraceFlags: trace.FlagsSampled,
				Remote:     true,
			})
			ctx = trace.ContextWithRemoteSpanContext(ctx, remoteSpanCtx)
		}
	}

	ctx, span := otel.Tracer("realitycheck").Start(ctx, "asynq.task.process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", TypeAnalyzeProduct),
			attribute.String("job.id", payload.JobID),
			attribute.Float64("queue.wait_time_seconds", queueWaitTime.Seconds()),
			attribute.Int64("enqueued_at", payload.EnqueuedAt),
		),
	)
	span.AddEvent("task_processing_started")
	return ctx, span
}
