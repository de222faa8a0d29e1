package testutil

import "github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"

// SportConfig is an in-memory SportConfig for tests
type SportConfig struct {
	SportKey          string
	Classification    models.BookmakerClassification
	GameLineTolerance float64
	PropLineTolerance float64
	Sensitivity       models.SensitivityTable
	Iterations        int
	GameLogWindow     int
	StatsBlendWeight  float64
}

// NBAConfig returns a test NBA configuration, with optional overrides
func NBAConfig(overrides ...func(*SportConfig)) *SportConfig {
	cfg := &SportConfig{
		SportKey:          "basketball_nba",
		Classification:    Classification(),
		GameLineTolerance: 2.0,
		PropLineTolerance: 0.5,
		Sensitivity:       Sensitivity(),
		Iterations:        5000,
		GameLogWindow:     10,
		StatsBlendWeight:  0.7,
	}

	for _, override := range overrides {
		override(cfg)
	}

	return cfg
}

func (c *SportConfig) GetSportKey() string                               { return c.SportKey }
func (c *SportConfig) GetDisplayName() string                            { return c.SportKey }
func (c *SportConfig) GetClassification() models.BookmakerClassification { return c.Classification }
func (c *SportConfig) GetGameLineTolerance() float64                     { return c.GameLineTolerance }
func (c *SportConfig) GetPropLineTolerance() float64                     { return c.PropLineTolerance }
func (c *SportConfig) GetSensitivity() models.SensitivityTable           { return c.Sensitivity }
func (c *SportConfig) GetSimulationIterations() int                      { return c.Iterations }
func (c *SportConfig) GetGameLogWindow() int                             { return c.GameLogWindow }
func (c *SportConfig) GetStatsBlendWeight() float64                      { return c.StatsBlendWeight }
