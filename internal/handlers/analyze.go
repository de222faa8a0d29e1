package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/analyzer"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/store"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/google/uuid"
)

// MaxBatchSize bounds the selections accepted by one batch request
const MaxBatchSize = 500

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Selection   models.Selection        `json:"selection"`
	Quotes      []models.Quote          `json:"quotes,omitempty"`
	EventID     string                  `json:"event_id,omitempty"`
	Simulation  *models.SimulationInput `json:"simulation,omitempty"`
	Adjustments *models.Adjustments     `json:"adjustments,omitempty"` // Applied to game logs loaded by the service
}

// BatchRequest is the body of POST /api/v1/analyze/batch. All selections share
// one sport and one quote snapshot.
type BatchRequest struct {
	EventID    string             `json:"event_id,omitempty"`
	Quotes     []models.Quote     `json:"quotes,omitempty"`
	Selections []models.Selection `json:"selections"`
}

// BatchResponse is the body returned by POST /api/v1/analyze/batch
type BatchResponse struct {
	BatchID string                  `json:"batch_id"`
	Count   int                     `json:"count"`
	Results []models.AnalysisResult `json:"results"`
}

// ConsensusRequest is the body of POST /api/v1/consensus
type ConsensusRequest struct {
	Selection models.Selection `json:"selection"`
	Quotes    []models.Quote   `json:"quotes"`
}

// Analyze analyzes a single selection
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RequestErrors.Inc()
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	a, cfg, err := h.sportAnalyzer(req.Selection.SportKey)
	if err == nil {
		err = validateSelection(req.Selection)
	}
	if err == nil {
		err = validateQuotes(req.Quotes)
	}
	if err != nil {
		h.metrics.RequestErrors.Inc()
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	quotes := req.Quotes
	if len(quotes) == 0 {
		eventID := req.EventID
		if eventID == "" {
			eventID = req.Selection.EventID
		}
		quotes, err = h.loadQuotes(r.Context(), eventID)
		if err != nil {
			h.metrics.RequestErrors.Inc()
			respondError(w, http.StatusInternalServerError, "failed to load quotes", err)
			return
		}
	}

	areq := analyzer.Request{
		Selection:  req.Selection,
		Quotes:     quotes,
		Simulation: req.Simulation,
	}
	if areq.Simulation == nil {
		areq.Simulation = h.loadSimulationInput(r.Context(), cfg, req.Selection, req.Adjustments)
	}

	result := a.Analyze(areq)
	result.AnalysisID = uuid.NewString()

	h.record(result)
	h.metrics.AnalysisLatency.Record(time.Since(start))
	h.publish(r.Context(), []models.AnalysisResult{result})

	respondJSON(w, http.StatusOK, result)
}

// AnalyzeBatch analyzes many selections on the bounded worker pool
func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RequestErrors.Inc()
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := validateBatch(req); err != nil {
		h.metrics.RequestErrors.Inc()
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	a, cfg, err := h.sportAnalyzer(req.Selections[0].SportKey)
	if err != nil {
		h.metrics.RequestErrors.Inc()
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	quotes := req.Quotes
	if len(quotes) == 0 {
		eventID := req.EventID
		if eventID == "" {
			eventID = req.Selections[0].EventID
		}
		quotes, err = h.loadQuotes(r.Context(), eventID)
		if err != nil {
			h.metrics.RequestErrors.Inc()
			respondError(w, http.StatusInternalServerError, "failed to load quotes", err)
			return
		}
	}

	// Game logs load on the workers, under the pool's context
	results, err := a.BatchFunc(r.Context(), len(req.Selections), h.batchWorkers, func(ctx context.Context, i int) analyzer.Request {
		sel := req.Selections[i]
		return analyzer.Request{
			Selection:  sel,
			Quotes:     quotes,
			Simulation: h.loadSimulationInput(ctx, cfg, sel, nil),
		}
	})
	if err != nil {
		h.metrics.RequestErrors.Inc()
		respondError(w, http.StatusServiceUnavailable, "batch analysis aborted", err)
		return
	}

	for i := range results {
		results[i].AnalysisID = uuid.NewString()
		h.record(results[i])
	}
	h.metrics.BatchesRun.Inc()
	h.metrics.AnalysisLatency.Record(time.Since(start))
	h.publish(r.Context(), results)

	respondJSON(w, http.StatusOK, BatchResponse{
		BatchID: uuid.NewString(),
		Count:   len(results),
		Results: results,
	})
}

// Consensus returns the raw consensus for a selection, 404 when none exists
func (h *Handler) Consensus(w http.ResponseWriter, r *http.Request) {
	var req ConsensusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	a, _, err := h.sportAnalyzer(req.Selection.SportKey)
	if err == nil {
		err = validateSelection(req.Selection)
	}
	if err == nil {
		err = validateQuotes(req.Quotes)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	c, ok := a.Builder().Build(req.Selection, req.Quotes)
	if !ok {
		respondError(w, http.StatusNotFound, "no consensus within line tolerance", nil)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func validateBatch(req BatchRequest) error {
	if len(req.Selections) == 0 {
		return fmt.Errorf("selections must not be empty")
	}
	if len(req.Selections) > MaxBatchSize {
		return fmt.Errorf("at most %d selections per batch, got %d", MaxBatchSize, len(req.Selections))
	}

	sport := req.Selections[0].SportKey
	for i, sel := range req.Selections {
		if sel.SportKey != sport {
			return fmt.Errorf("selections[%d]: all selections must share sport %s", i, sport)
		}
		if err := validateSelection(sel); err != nil {
			return fmt.Errorf("selections[%d]: %w", i, err)
		}
	}

	return validateQuotes(req.Quotes)
}

// sportAnalyzer resolves the registered analyzer and configuration for a sport
func (h *Handler) sportAnalyzer(sportKey string) (*analyzer.Analyzer, contracts.SportConfig, error) {
	a, ok := h.registry.Get(sportKey)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported sport %q", sportKey)
	}
	cfg, _ := h.registry.Config(sportKey)
	return a, cfg, nil
}

// loadQuotes reads an event's snapshot from the quote source. With no event or
// no source the analysis runs on an empty snapshot and reports missing odds.
func (h *Handler) loadQuotes(ctx context.Context, eventID string) ([]models.Quote, error) {
	if eventID == "" || h.quotes == nil {
		return nil, nil
	}
	return h.quotes.GetQuotes(ctx, eventID)
}

// loadSimulationInput builds simulation input for a player prop from the game log
// source. It returns nil for non-props, unnamed players or without a source, and an
// empty input when the log cannot be loaded so the result carries the warning.
func (h *Handler) loadSimulationInput(ctx context.Context, cfg contracts.SportConfig, sel models.Selection, adj *models.Adjustments) *models.SimulationInput {
	if h.gameLogs == nil || !sel.IsPlayerProp() || sel.Description == "" {
		return nil
	}

	games, err := h.gameLogs.GetGameLog(ctx, sel.SportKey, sel.Description, cfg.GetGameLogWindow())
	if err != nil {
		fmt.Printf("⚠️  Game log unavailable for %s: %v\n", sel.Description, err)
		return &models.SimulationInput{}
	}

	input := &models.SimulationInput{GameLog: games}
	if adj != nil {
		input.Adjustments = *adj
	}

	season, err := h.gameLogs.GetSeasonAverages(ctx, sel.SportKey, sel.Description)
	switch {
	case err == nil:
		input.Season = *season
	case errors.Is(err, store.ErrNotFound):
		input.Season = models.AveragesFromLog(games)
	default:
		fmt.Printf("⚠️  Season averages unavailable for %s: %v\n", sel.Description, err)
		input.Season = models.AveragesFromLog(games)
	}

	return input
}

// record updates the outcome counters for one result
func (h *Handler) record(result models.AnalysisResult) {
	h.metrics.AnalysesRun.Inc()
	if result.SoftFallback {
		h.metrics.SoftFallbacks.Inc()
	}
	if slices.Contains(result.Warnings, analyzer.WarnAlternateLine) {
		h.metrics.AlternateLines.Inc()
	}
	if result.Simulation != nil {
		h.metrics.SimulationsRun.Inc()
	}
}

// batchPublisher is implemented by publishers that can pipeline many results
type batchPublisher interface {
	PublishAll(ctx context.Context, results []models.AnalysisResult) error
}

// publish hands results downstream. Failures are counted and logged, never
// surfaced to the caller.
func (h *Handler) publish(ctx context.Context, results []models.AnalysisResult) {
	if h.publisher == nil || len(results) == 0 {
		return
	}

	if bp, ok := h.publisher.(batchPublisher); ok && len(results) > 1 {
		if err := bp.PublishAll(ctx, results); err != nil {
			h.metrics.PublishErrors.Inc()
			fmt.Printf("❌ Failed to publish %d results: %v\n", len(results), err)
			return
		}
		h.metrics.ResultsPublished.Add(int64(len(results)))
		return
	}

	for _, result := range results {
		if err := h.publisher.Publish(ctx, result); err != nil {
			h.metrics.PublishErrors.Inc()
			fmt.Printf("❌ Failed to publish analysis %s: %v\n", result.AnalysisID, err)
			continue
		}
		h.metrics.ResultsPublished.Inc()
	}
}
