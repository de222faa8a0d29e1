package americanfootball_nfl

import (
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/config"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

const sportKey = "americanfootball_nfl"

// Config holds NFL-specific analysis configuration
type Config struct {
	SharpBooks        []string
	ReferenceBook     string
	PropBookWeights   map[string]float64
	GameLineTolerance float64
	PropLineTolerance float64
	SimIterations     int
	GameLogWindow     int
	StatsBlendWeight  float64
	Sensitivity       map[string]float64
}

// NewConfig creates a new NFL configuration with defaults and environment overrides
func NewConfig() *Config {
	return &Config{
		SharpBooks:        config.GetEnvStringSlice("NFL_SHARP_BOOKS", []string{"pinnacle", "circasports"}),
		ReferenceBook:     config.GetEnv("NFL_REFERENCE_BOOK", "circasports"),
		PropBookWeights:   config.GetEnvWeights("NFL_PROP_BOOK_WEIGHTS", map[string]float64{"pinnacle": 1.0, "circasports": 1.0, "fanduel": 0.7, "draftkings": 0.6}),
		GameLineTolerance: config.GetEnvFloat("NFL_GAME_LINE_TOLERANCE", 2.0),
		PropLineTolerance: config.GetEnvFloat("NFL_PROP_LINE_TOLERANCE", 0.5),
		SimIterations:     config.GetEnvInt("SIM_ITERATIONS", 10000),
		GameLogWindow:     config.GetEnvInt("NFL_GAME_LOG_WINDOW", 8), // Shorter season
		StatsBlendWeight:  config.GetEnvFloat("NFL_STATS_BLEND_WEIGHT", 0.7),
		Sensitivity: map[string]float64{
			// Key numbers (3, 7) make NFL spreads and totals move more per point than NBA
			"spread":             0.03,
			"total":              0.03,
			"pass_yds":           0.004,
			"rush_yds":           0.008,
			"reception_yds":      0.008,
			"receptions":         0.06,
			"pass_tds":           0.12,
			"anytime_td":         0.10,
			"pass_completions":   0.03,
			"pass_attempts":      0.025,
			"rush_attempts":      0.04,
			"pass_interceptions": 0.15,
		},
	}
}

// GetSportKey implements SportConfig
func (c *Config) GetSportKey() string {
	return sportKey
}

// GetDisplayName implements SportConfig
func (c *Config) GetDisplayName() string {
	return "NFL"
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
			"fanduel":     "FanDuel",
			"draftkings":  "DraftKings",
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
