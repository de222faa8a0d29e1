package handlers

import (
	"net/http"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/go-chi/chi/v5"
)

// SportInfo describes a registered sport's analysis configuration
type SportInfo struct {
	SportKey          string                         `json:"sport_key"`
	DisplayName       string                         `json:"display_name"`
	Classification    models.BookmakerClassification `json:"classification"`
	GameLineTolerance float64                        `json:"game_line_tolerance"`
	PropLineTolerance float64                        `json:"prop_line_tolerance"`
	SimIterations     int                            `json:"sim_iterations"`
	GameLogWindow     int                            `json:"game_log_window"`
	StatsBlendWeight  float64                        `json:"stats_blend_weight"`
}

func sportInfo(cfg contracts.SportConfig) SportInfo {
	return SportInfo{
		SportKey:          cfg.GetSportKey(),
		DisplayName:       cfg.GetDisplayName(),
		Classification:    cfg.GetClassification(),
		GameLineTolerance: cfg.GetGameLineTolerance(),
		PropLineTolerance: cfg.GetPropLineTolerance(),
		SimIterations:     cfg.GetSimulationIterations(),
		GameLogWindow:     cfg.GetGameLogWindow(),
		StatsBlendWeight:  cfg.GetStatsBlendWeight(),
	}
}

// GetSports lists every registered sport
func (h *Handler) GetSports(w http.ResponseWriter, r *http.Request) {
	keys := h.registry.SportKeys()
	sports := make([]SportInfo, 0, len(keys))
	for _, key := range keys {
		if cfg, ok := h.registry.Config(key); ok {
			sports = append(sports, sportInfo(cfg))
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sports": sports,
		"count":  len(sports),
	})
}

// GetSport returns one sport's configuration
func (h *Handler) GetSport(w http.ResponseWriter, r *http.Request) {
	sportKey := chi.URLParam(r, "sport")

	cfg, ok := h.registry.Config(sportKey)
	if !ok {
		respondError(w, http.StatusNotFound, "sport not registered", nil)
		return
	}

	respondJSON(w, http.StatusOK, sportInfo(cfg))
}
