package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/simulator"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/store"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

// defaultSimulationSport is used when a simulate request names no sport
const defaultSimulationSport = "basketball_nba"

// SimulateRequest is the body of POST /api/v1/simulate. When game_log is empty
// and player is set, the log and season averages are loaded by the service.
type SimulateRequest struct {
	SportKey    string                `json:"sport_key,omitempty"`
	Player      string                `json:"player,omitempty"`
	Season      models.SeasonAverages `json:"season"`
	GameLog     []models.GameLogEntry `json:"game_log"`
	Stat        string                `json:"stat"`
	Iterations  int                   `json:"iterations,omitempty"`
	Adjustments models.Adjustments    `json:"adjustments,omitempty"`
	Line        *float64              `json:"line,omitempty"`
}

// Simulate runs the Monte Carlo simulator and returns its summary
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RequestErrors.Inc()
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	if req.SportKey == "" {
		req.SportKey = defaultSimulationSport
	}
	a, cfg, err := h.sportAnalyzer(req.SportKey)
	if err == nil && req.Line != nil {
		err = oddsmath.ValidateLine(*req.Line)
	}
	if err == nil && req.Iterations < 0 {
		err = fmt.Errorf("iterations must not be negative")
	}
	if err != nil {
		h.metrics.RequestErrors.Inc()
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	input := models.SimulationInput{
		Season:      req.Season,
		GameLog:     req.GameLog,
		Stat:        req.Stat,
		Iterations:  req.Iterations,
		Adjustments: req.Adjustments,
	}

	if len(input.GameLog) == 0 && req.Player != "" && h.gameLogs != nil {
		games, err := h.gameLogs.GetGameLog(r.Context(), req.SportKey, req.Player, cfg.GetGameLogWindow())
		if err != nil {
			h.metrics.RequestErrors.Inc()
			respondError(w, http.StatusInternalServerError, "failed to load game log", err)
			return
		}
		input.GameLog = games

		season, err := h.gameLogs.GetSeasonAverages(r.Context(), req.SportKey, req.Player)
		switch {
		case err == nil:
			input.Season = *season
		case errors.Is(err, store.ErrNotFound):
			input.Season = models.AveragesFromLog(games)
		default:
			h.metrics.RequestErrors.Inc()
			respondError(w, http.StatusInternalServerError, "failed to load season averages", err)
			return
		}
	}

	result, err := a.Simulator().Run(input, a.NewRandSource())
	if err != nil {
		h.metrics.RequestErrors.Inc()
		if errors.Is(err, simulator.ErrEmptyGameLog) || errors.Is(err, simulator.ErrUnknownStat) {
			respondError(w, http.StatusBadRequest, "invalid simulation input", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "simulation failed", err)
		return
	}

	h.metrics.SimulationsRun.Inc()
	h.metrics.SimulateLatency.Record(time.Since(start))

	respondJSON(w, http.StatusOK, result.Summary(req.Line))
}
