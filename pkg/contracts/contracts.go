package contracts

import (
	"context"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

// QuoteSource supplies the current quote snapshot for an event
type QuoteSource interface {
	// GetQuotes returns every bookmaker quote currently stored for the event
	GetQuotes(ctx context.Context, eventID string) ([]models.Quote, error)
}

// GameLogSource supplies per-player historical box scores
type GameLogSource interface {
	// GetGameLog returns up to limit games, most recent first
	GetGameLog(ctx context.Context, sportKey, player string, limit int) ([]models.GameLogEntry, error)

	// GetSeasonAverages returns the player's per-game averages for the current season
	GetSeasonAverages(ctx context.Context, sportKey, player string) (*models.SeasonAverages, error)
}

// ClassificationProvider loads bookmaker classification for a sport
type ClassificationProvider interface {
	GetClassification(ctx context.Context, sportKey string) (models.BookmakerClassification, error)
}

// ResultPublisher hands finished analyses to downstream consumers
type ResultPublisher interface {
	Publish(ctx context.Context, result models.AnalysisResult) error
}

// SportConfig is the pluggable per-sport configuration
// Similar to the normalizer's SportNormalizer pattern
type SportConfig interface {
	// Identification
	GetSportKey() string    // "basketball_nba", "americanfootball_nfl"
	GetDisplayName() string // "NBA", "NFL"

	// Consensus configuration
	GetClassification() models.BookmakerClassification
	GetGameLineTolerance() float64
	GetPropLineTolerance() float64

	// Alternate-line sensitivity
	GetSensitivity() models.SensitivityTable

	// Simulation
	GetSimulationIterations() int
	GetGameLogWindow() int
	GetStatsBlendWeight() float64
}
