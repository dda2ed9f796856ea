package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"menucompare/models"
	"menucompare/services"
)

// Version is reported by the health check
const Version = "1.0.0"

// Comparer runs one comparison
type Comparer interface {
	Compare(ctx context.Context, inputURL string) (*models.ComparisonResult, error)
}

// Options bounds request handling
type Options struct {
	MaxConcurrent  int64
	MaxRequestSize int64
	RequestTimeout time.Duration
}

// Handlers serves the comparison API
type Handlers struct {
	comparer Comparer
	slots    *semaphore.Weighted
	opts     Options
	log      *zap.Logger
}

// NewHandlers creates handlers that run at most opts.MaxConcurrent comparisons at once
func NewHandlers(comparer Comparer, opts Options, log *zap.Logger) *Handlers {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.MaxRequestSize <= 0 {
		opts.MaxRequestSize = 64 * 1024
	}
	if log == nil {
		log = zap.L()
	}
	return &Handlers{
		comparer: comparer,
		slots:    semaphore.NewWeighted(opts.MaxConcurrent),
		opts:     opts,
		log:      log.Named("handlers"),
	}
}

// HealthCheck returns a simple health check response
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "menucompare",
		"version":   Version,
	}
	writeJSON(w, http.StatusOK, response)
}

// Compare runs a cross-platform price comparison for the posted URL
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	var req models.CompareRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	ctx := r.Context()
	if h.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.RequestTimeout)
		defer cancel()
	}

	// Each comparison drives its own browser page; queue beyond the limit.
	if err := h.slots.Acquire(ctx, 1); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Too many comparisons in progress")
		return
	}
	defer h.slots.Release(1)

	result, err := h.comparer.Compare(ctx, req.URL)
	if err != nil {
		h.writeCompareError(w, req.URL, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) writeCompareError(w http.ResponseWriter, inputURL string, err error) {
	var rejected *services.InputRejectedError
	switch {
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:  rejected.Message,
			Reason: string(rejected.Reason),
		})
	case errors.Is(err, services.ErrRendererUnavailable):
		h.log.Error("renderer unavailable", zap.String("url", inputURL), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "Browser not available, try again shortly")
	default:
		h.log.Error("comparison failed", zap.String("url", inputURL), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Comparison failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}
