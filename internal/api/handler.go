package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/zombar/realitycheck/internal/database"
	"github.com/zombar/realitycheck/internal/models"
	"github.com/zombar/realitycheck/pkg/logging"
	"github.com/zombar/realitycheck/pkg/metrics"
	"github.com/zombar/realitycheck/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultLimit   = 10
	maxLimit       = 100
	maxBodyBytes   = 1 << 20
	requestTimeout = 30 * time.Second
)

// Store persists and queries analyses
type Store interface {
	SaveAnalysis(ctx context.Context, analysis *models.Analysis) error
	GetAnalysis(ctx context.Context, id string) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, limit, offset int) ([]*models.Analysis, error)
	GetAnalysesByVerdict(ctx context.Context, verdict string) ([]*models.Analysis, error)
	DeleteAnalysis(ctx context.Context, id string) error
}

// Analyzer runs a reality check
type Analyzer interface {
	AnalyzeProductWithContext(ctx context.Context, in models.AnalysisInput) models.AnalysisResult
}

// JobQueue enqueues background reality checks
type JobQueue interface {
	EnqueueAnalyzeProduct(ctx context.Context, jobID string, input models.AnalysisInput) (string, error)
}

// ResultCache short-circuits repeated analyses of identical input
type ResultCache interface {
	Get(ctx context.Context, input models.AnalysisInput) (*models.Analysis, bool, error)
	Set(ctx context.Context, analysis *models.Analysis) error
	Delete(ctx context.Context, input models.AnalysisInput) error
}

// Options holds the optional collaborators of a Handler. Nil fields disable
// the feature: no queue means POST /api/jobs answers 503.
type Options struct {
	Queue   JobQueue
	Cache   ResultCache
	Metrics *metrics.BusinessMetrics
	Logger  *slog.Logger
}

// Handler handles HTTP requests
type Handler struct {
	store    Store
	analyzer Analyzer
	queue    JobQueue
	cache    ResultCache
	metrics  *metrics.BusinessMetrics
	logger   *slog.Logger
	mux      *http.ServeMux
}

// NewHandler creates a new API handler with CORS support and metrics
func NewHandler(store Store, analyzer Analyzer, opts Options) http.Handler {
	h := newHandler(store, analyzer, opts)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(h.mux)
}

func newHandler(store Store, analyzer Analyzer, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		store:    store,
		analyzer: analyzer,
		queue:    opts.Queue,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	h.setupRoutes()
	return h
}

// setupRoutes configures all API routes
func (h *Handler) setupRoutes() {
	h.mux.Handle("/metrics", promhttp.Handler())
	h.mux.HandleFunc("/api/analyze", h.handleAnalyze)
	h.mux.HandleFunc("/api/jobs", h.handleCreateJob)
	h.mux.HandleFunc("/api/jobs/", h.handleJobStatus)
	h.mux.HandleFunc("/api/analyses", h.handleListAnalyses)
	h.mux.HandleFunc("/api/analyses/", h.handleAnalysisOperations)
	h.mux.HandleFunc("/api/search", h.handleSearchByVerdict)
	h.mux.HandleFunc("/health", h.handleHealth)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleAnalyze runs a reality check synchronously and stores the result
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if cached, hit := h.lookupCache(ctx, r, input); hit {
		w.Header().Set("X-Cache", "HIT")
		respondJSON(w, cached, http.StatusOK)
		return
	}

	start := time.Now()
	result := h.analyzer.AnalyzeProductWithContext(ctx, input)
	h.metrics.RecordAnalysis("api", result.OverallVerdict, result.RealityScore, time.Since(start))

	now := time.Now().UTC()
	analysis := &models.Analysis{
		ID:        generateID(),
		Input:     input,
		Result:    result,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.SaveAnalysis(ctx, analysis); err != nil {
		h.internalError(w, r, fmt.Errorf("failed to save analysis: %w", err))
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, analysis); err != nil {
			logging.LogRequest(h.logger, r, "cache write failed", slog.String("error", err.Error()))
		}
	}

	tracing.SetSpanAttributes(r.Context(),
		attribute.String("analysis.id", analysis.ID),
		attribute.Int("reality.score", result.RealityScore),
		attribute.String("reality.verdict", result.OverallVerdict),
	)

	w.Header().Set("X-Cache", "MISS")
	respondJSON(w, analysis, http.StatusOK)
}

// handleCreateJob queues a reality check and returns immediately
func (h *Handler) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.queue == nil {
		respondError(w, "Background analysis is disabled", http.StatusServiceUnavailable)
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	jobID := generateID()
	taskID, err := h.queue.EnqueueAnalyzeProduct(r.Context(), jobID, input)
	if err != nil {
		h.internalError(w, r, fmt.Errorf("failed to enqueue analysis: %w", err))
		return
	}

	tracing.SetSpanAttributes(r.Context(), attribute.String("job.id", jobID))

	respondJSON(w, map[string]interface{}{
		"job_id":  jobID,
		"task_id": taskID,
		"status":  "queued",
		"message": "Analysis queued for processing",
	}, http.StatusAccepted)
}

// handleJobStatus reports a queued job. An unknown id and a job still in the
// queue are indistinguishable, so both answer 404 pending_or_not_found.
func (h *Handler) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if idx := strings.Index(jobID, "/"); idx != -1 {
		jobID = jobID[:idx]
	}
	if jobID == "" {
		respondError(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	analysis, err := h.store.GetAnalysis(ctx, jobID)
	if errors.Is(err, database.ErrNotFound) {
		respondJSON(w, map[string]interface{}{
			"job_id":  jobID,
			"status":  "pending_or_not_found",
			"message": "Analysis not found - it may still be queued or has expired",
		}, http.StatusNotFound)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"job_id":     jobID,
		"status":     "completed",
		"created_at": analysis.CreatedAt,
		"analysis":   analysis,
	}, http.StatusOK)
}

// handleListAnalyses handles listing all analyses with pagination
func (h *Handler) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	analyses, err := h.store.ListAnalyses(ctx, limit, offset)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	respondJSON(w, analyses, http.StatusOK)
}

// handleAnalysisOperations handles GET and DELETE for specific analyses
func (h *Handler) handleAnalysisOperations(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, "Analysis ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getAnalysis(w, r, id)
	case http.MethodDelete:
		h.deleteAnalysis(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) getAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	analysis, err := h.store.GetAnalysis(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, "Analysis not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	respondJSON(w, analysis, http.StatusOK)
}

// deleteAnalysis removes an analysis and its cache entry
func (h *Handler) deleteAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	analysis, err := h.store.GetAnalysis(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, "Analysis not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	if err := h.store.DeleteAnalysis(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, "Analysis not found", http.StatusNotFound)
			return
		}
		h.internalError(w, r, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Delete(ctx, analysis.Input); err != nil {
			logging.LogRequest(h.logger, r, "cache delete failed", slog.String("error", err.Error()))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSearchByVerdict lists analyses with the given verdict
func (h *Handler) handleSearchByVerdict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	verdict := r.URL.Query().Get("verdict")
	switch verdict {
	case models.VerdictAuthentic, models.VerdictSuspicious, models.VerdictLikelySponsored:
	case "":
		respondError(w, "verdict query parameter is required", http.StatusBadRequest)
		return
	default:
		respondError(w, fmt.Sprintf("unknown verdict %q", verdict), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	analyses, err := h.store.GetAnalysesByVerdict(ctx, verdict)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	respondJSON(w, analyses, http.StatusOK)
}

// decodeInput parses and validates an analysis request body. On failure the
// error response has already been written.
func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (models.AnalysisInput, bool) {
	var input models.AnalysisInput

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return input, false
	}

	if strings.TrimSpace(input.Product.Name) == "" {
		respondError(w, "product.name is required", http.StatusBadRequest)
		return input, false
	}

	tracing.SetSpanAttributes(r.Context(),
		attribute.String("product.platform", input.Product.Platform),
		attribute.Int("product.ingredients", len(input.Product.Ingredients.Parsed)),
		attribute.Bool("input.has_social", input.Social != nil),
		attribute.Bool("input.has_reviews", input.Reviews != nil),
	)

	return input, true
}

// lookupCache returns a cached analysis. Cache errors count as misses.
func (h *Handler) lookupCache(ctx context.Context, r *http.Request, input models.AnalysisInput) (*models.Analysis, bool) {
	if h.cache == nil {
		return nil, false
	}

	cached, hit, err := h.cache.Get(ctx, input)
	switch {
	case err != nil:
		h.metrics.RecordCacheLookup("error")
		logging.LogRequest(h.logger, r, "cache read failed", slog.String("error", err.Error()))
		return nil, false
	case hit:
		h.metrics.RecordCacheLookup("hit")
		return cached, true
	default:
		h.metrics.RecordCacheLookup("miss")
		return nil, false
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.HTTPErrorLogger(h.logger, http.StatusInternalServerError, err, r)
	respondError(w, err.Error(), http.StatusInternalServerError)
}

func parsePagination(r *http.Request) (limit, offset int, err error) {
	limit, offset = defaultLimit, 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}

	return limit, offset, nil
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, map[string]string{"error": message}, statusCode)
}

// generateID generates a UUID v4 for an analysis or job
func generateID() string {
	return uuid.NewString()
}
