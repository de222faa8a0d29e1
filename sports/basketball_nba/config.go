package basketball_nba

import (
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/config"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

const sportKey = "basketball_nba"

// Config holds NBA-specific analysis configuration
type Config struct {
	SharpBooks        []string           // Price-discovery leaders for game lines
	ReferenceBook     string             // Preferred when several sharp books qualify
	PropBookWeights   map[string]float64 // Weighted sharp-ish books for player props
	GameLineTolerance float64            // Max line distance for game-line consensus
	PropLineTolerance float64            // Max line distance for prop consensus
	SimIterations     int
	GameLogWindow     int     // Recent games fed to the simulator
	StatsBlendWeight  float64 // Share of blended edge from the simulation
	Sensitivity       map[string]float64
}

// NewConfig creates a new NBA configuration with defaults and environment overrides
func NewConfig() *Config {
	return &Config{
		SharpBooks:        config.GetEnvStringSlice("NBA_SHARP_BOOKS", []string{"pinnacle", "circasports", "bookmaker"}),
		ReferenceBook:     config.GetEnv("NBA_REFERENCE_BOOK", "pinnacle"),
		PropBookWeights:   config.GetEnvWeights("NBA_PROP_BOOK_WEIGHTS", defaultPropWeights()),
		GameLineTolerance: config.GetEnvFloat("NBA_GAME_LINE_TOLERANCE", 2.0), // ±2 points
		PropLineTolerance: config.GetEnvFloat("NBA_PROP_LINE_TOLERANCE", 0.5), // ±0.5
		SimIterations:     config.GetEnvInt("SIM_ITERATIONS", 10000),
		GameLogWindow:     config.GetEnvInt("NBA_GAME_LOG_WINDOW", 10),
		StatsBlendWeight:  config.GetEnvFloat("NBA_STATS_BLEND_WEIGHT", 0.7), // Tunable; fixed regardless of sample size
		Sensitivity:       defaultSensitivity(),
	}
}

// Prop books ranked by how closely their prices track closing lines
func defaultPropWeights() map[string]float64 {
	return map[string]float64{
		"pinnacle":    1.0,
		"circasports": 0.9,
		"betonlineag": 0.8,
		"fanduel":     0.7,
		"draftkings":  0.6,
		"betmgm":      0.4,
	}
}

// Probability moved per point of line. Low-count stats move more per unit.
func defaultSensitivity() map[string]float64 {
	return map[string]float64{
		"points":                  0.02,
		"rebounds":                0.04,
		"assists":                 0.05,
		"threes":                  0.07,
		"steals":                  0.08,
		"blocks":                  0.08,
		"turnovers":               0.06,
		"points_rebounds_assists": 0.015,
		"points_rebounds":         0.018,
		"points_assists":          0.018,
		"rebounds_assists":        0.03,
		"blocks_steals":           0.06,
		"spread":                  0.03,
		"total":                   0.015,
	}
}

// GetSportKey implements SportConfig
func (c *Config) GetSportKey() string {
	return sportKey
}

// GetDisplayName implements SportConfig
func (c *Config) GetDisplayName() string {
	return "NBA"
}

// GetClassification implements SportConfig
func (c *Config) GetClassification() models.BookmakerClassification {
	return models.BookmakerClassification{
		Sharp:         c.SharpBooks,
		ReferenceBook: c.ReferenceBook,
		PropWeights:   c.PropBookWeights,
		DisplayNames: map[string]string{
			"pinnacle":    "Pinnacle",
			"circasports": "Circa Sports",
			"bookmaker":   "Bookmaker",
			"betonlineag": "BetOnline",
			"fanduel":     "FanDuel",
			"draftkings":  "DraftKings",
			"betmgm":      "BetMGM",
			"caesars":     "Caesars",
		},
	}
}

// GetGameLineTolerance implements SportConfig
func (c *Config) GetGameLineTolerance() float64 {
	return c.GameLineTolerance
}

// GetPropLineTolerance implements SportConfig
func (c *Config) GetPropLineTolerance() float64 {
	return c.PropLineTolerance
}

// GetSensitivity implements SportConfig
func (c *Config) GetSensitivity() models.SensitivityTable {
	return models.SensitivityTable{
		Rates:       map[string]map[string]float64{sportKey: c.Sensitivity},
		DefaultRate: 0.02,
	}
}

// GetSimulationIterations implements SportConfig
func (c *Config) GetSimulationIterations() int {
	return c.SimIterations
}

// GetGameLogWindow implements SportConfig
func (c *Config) GetGameLogWindow() int {
	return c.GameLogWindow
}

// GetStatsBlendWeight implements SportConfig
func (c *Config) GetStatsBlendWeight() float64 {
	return c.StatsBlendWeight
}
