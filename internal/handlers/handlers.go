package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/registry"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/contracts"
)

const serviceName = "edge-analyzer"

// Pinger is a dependency the health check probes
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators a Handler serves requests with.
// Only Registry is required; nil sources disable the lookups they back.
type Dependencies struct {
	Registry     *registry.AnalyzerRegistry
	Quotes       contracts.QuoteSource
	GameLogs     contracts.GameLogSource
	Publisher    contracts.ResultPublisher
	Metrics      *metrics.Metrics
	BatchWorkers int
	HealthChecks map[string]Pinger
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	registry     *registry.AnalyzerRegistry
	quotes       contracts.QuoteSource
	gameLogs     contracts.GameLogSource
	publisher    contracts.ResultPublisher
	metrics      *metrics.Metrics
	batchWorkers int
	healthChecks map[string]Pinger
}

// NewHandler creates a new handler with dependencies
func NewHandler(deps Dependencies) *Handler {
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	return &Handler{
		registry:     deps.Registry,
		quotes:       deps.Quotes,
		gameLogs:     deps.GameLogs,
		publisher:    deps.Publisher,
		metrics:      m,
		batchWorkers: deps.BatchWorkers,
		healthChecks: deps.HealthChecks,
	}
}

// HealthCheck pings every configured dependency
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for name, p := range h.healthChecks {
		if err := p.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, fmt.Sprintf("%s unhealthy", name), err)
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   serviceName,
		"sports":    h.registry.SportKeys(),
	})
}

// GetMetrics returns the in-process counters and latency percentiles
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.metrics.Snapshot())
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
		if status < http.StatusInternalServerError {
			message = fmt.Sprintf("%s: %v", message, err)
		}
	}

	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
