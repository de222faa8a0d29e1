package altline_test

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/altline"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

func totalsSelection(sport, outcome string, line float64) models.Selection {
	return models.Selection{
		SportKey:    sport,
		MarketKey:   models.MarketTotals,
		OutcomeName: outcome,
		Point:       models.Float64Ptr(line),
	}
}

func TestAdjustThreePointsAtThreePercent(t *testing.T) {
	adjuster := altline.NewAdjuster(models.SensitivityTable{
		Rates: map[string]map[string]float64{
			"americanfootball_nfl": {"total": 0.03},
		},
	})

	c := models.Consensus{Probability: 0.50, Line: 44.5, Confidence: 100, Source: models.SourceSharp}
	adj := adjuster.Adjust(c, totalsSelection("americanfootball_nfl", "Over", 47.5))

	if adj.Shift != -0.09 {
		t.Errorf("Shift = %v, want exactly -0.09", adj.Shift)
	}
	if math.Abs(adj.Probability-0.41) > 1e-12 {
		t.Errorf("Probability = %v, want 0.41", adj.Probability)
	}
	if adj.Confidence != 94 {
		t.Errorf("Confidence = %v, want 94", adj.Confidence)
	}
	if adj.LineDiff != 3 {
		t.Errorf("LineDiff = %v, want 3", adj.LineDiff)
	}
}

func TestAdjustDirection(t *testing.T) {
	adjuster := altline.NewAdjuster(testutil.Sensitivity())
	c := models.Consensus{Probability: 0.50, Line: 24.5, Confidence: 95, Source: models.SourceWeighted}

	tests := []struct {
		name      string
		outcome   string
		requested float64
		wantShift float64
	}{
		{"over at a higher line is harder", "Over", 26.5, -0.04},
		{"over at a lower line is easier", "Over", 22.5, 0.04},
		{"under at a higher line is easier", "Under", 26.5, 0.04},
		{"under at a lower line is harder", "Under", 22.5, -0.04},
		{"same line", "Over", 24.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := models.Selection{
				SportKey:    "basketball_nba",
				MarketKey:   "player_points",
				OutcomeName: tt.outcome,
				Point:       models.Float64Ptr(tt.requested),
			}
			adj := adjuster.Adjust(c, sel)
			if math.Abs(adj.Shift-tt.wantShift) > 1e-12 {
				t.Errorf("Shift = %v, want %v", adj.Shift, tt.wantShift)
			}
		})
	}
}

func TestAdjustSpreadIsSymmetric(t *testing.T) {
	adjuster := altline.NewAdjuster(testutil.Sensitivity())
	c := models.Consensus{Probability: 0.50, Line: -3.5, Confidence: 100, Source: models.SourceSharp}

	for _, requested := range []float64{-5.5, -1.5} {
		sel := models.Selection{
			SportKey:    "basketball_nba",
			MarketKey:   models.MarketSpreads,
			OutcomeName: "Los Angeles Lakers",
			Point:       models.Float64Ptr(requested),
		}
		adj := adjuster.Adjust(c, sel)
		if math.Abs(adj.Shift-(-0.06)) > 1e-12 {
			t.Errorf("requested %v: Shift = %v, want -0.06", requested, adj.Shift)
		}
	}
}

func TestAdjustClampsProbability(t *testing.T) {
	adjuster := altline.NewAdjuster(testutil.Sensitivity())

	tests := []struct {
		name      string
		prob      float64
		outcome   string
		requested float64
		want      float64
	}{
		{"floor", 0.10, "Over", 30.5, 0.05},
		{"ceiling", 0.90, "Under", 30.5, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.Consensus{Probability: tt.prob, Line: 24.5, Confidence: 100, Source: models.SourceWeighted}
			sel := models.Selection{
				SportKey:    "basketball_nba",
				MarketKey:   "player_rebounds",
				OutcomeName: tt.outcome,
				Point:       models.Float64Ptr(tt.requested),
			}
			if got := adjuster.Adjust(c, sel).Probability; got != tt.want {
				t.Errorf("Probability = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustConfidence(t *testing.T) {
	adjuster := altline.NewAdjuster(testutil.Sensitivity())

	tests := []struct {
		name       string
		confidence float64
		source     models.ConsensusSource
		requested  float64
		want       float64
	}{
		{"sharp one unit", 100, models.SourceSharp, 225.5, 98},
		{"sharp four units", 100, models.SourceSharp, 228.5, 92},
		{"soft penalty", 70, models.SourceSoft, 226.5, 56},
		{"floored at 20", 40, models.SourceSoft, 236.5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.Consensus{Probability: 0.5, Line: 224.5, Confidence: tt.confidence, Source: tt.source}
			got := adjuster.Adjust(c, totalsSelection("basketball_nba", "Over", tt.requested)).Confidence
			if got != tt.want {
				t.Errorf("Confidence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRateLookup(t *testing.T) {
	adjuster := altline.NewAdjuster(testutil.Sensitivity())

	tests := []struct {
		name   string
		sport  string
		market string
		want   float64
	}{
		{"configured stat", "basketball_nba", "player_points", 0.02},
		{"configured high-variance stat", "basketball_nba", "player_blocks", 0.08},
		{"generic spread", "basketball_nba", models.MarketSpreads, 0.03},
		{"generic total", "basketball_nba", models.MarketTotals, 0.015},
		{"unconfigured stat", "basketball_nba", "player_turnovers", altline.DefaultRate},
		{"unconfigured sport", "icehockey_nhl", models.MarketTotals, altline.DefaultRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adjuster.Rate(tt.sport, tt.market); got != tt.want {
				t.Errorf("Rate(%s, %s) = %v, want %v", tt.sport, tt.market, got, tt.want)
			}
		})
	}
}

func TestNewAdjusterDefaultsRate(t *testing.T) {
	adjuster := altline.NewAdjuster(models.SensitivityTable{})
	if got := adjuster.Rate("basketball_nba", "player_points"); got != altline.DefaultRate {
		t.Errorf("Rate = %v, want %v", got, altline.DefaultRate)
	}
}
