package altline

import (
	"math"
	"strings"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

const (
	// DefaultRate is the fraction of probability moved per unit of line when
	// nothing more specific is configured
	DefaultRate = 0.02

	minProbability = 0.05
	maxProbability = 0.95

	confidencePerUnit = 2.0
	softPenalty       = 10.0
	minConfidence     = 20.0
)

// Adjustment is a consensus moved to a different line
type Adjustment struct {
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
	LineDiff    float64 `json:"line_diff"` // Requested minus consensus line
	Rate        float64 `json:"rate"`
	Shift       float64 `json:"shift"` // Probability moved before clamping
}

// Adjuster extrapolates a consensus probability from its own line to a nearby one
// using linear per-sport, per-stat sensitivity rates.
type Adjuster struct {
	table models.SensitivityTable
}

// NewAdjuster creates an adjuster over a sensitivity table
func NewAdjuster(table models.SensitivityTable) *Adjuster {
	if table.DefaultRate <= 0 {
		table.DefaultRate = DefaultRate
	}
	return &Adjuster{table: table}
}

// Rate returns the sensitivity for a sport and market.
//
// Lookup order:
// 1. The stat's own rate (player_points -> "points")
// 2. The sport's generic "spread" or "total" rate for game lines
// 3. The table default
func (a *Adjuster) Rate(sportKey, marketKey string) float64 {
	rates := a.table.Rates[sportKey]

	if rate, ok := rates[StatKey(marketKey)]; ok && rate > 0 {
		return rate
	}

	if generic := genericKey(marketKey); generic != "" {
		if rate, ok := rates[generic]; ok && rate > 0 {
			return rate
		}
	}

	return a.table.DefaultRate
}

// Adjust moves consensus c from c.Line to the selection's requested line.
//
// Shift = −lineDiff × rate for overs, +lineDiff × rate for unders, and
// −|lineDiff| × rate for spread sides. The probability is clamped to [0.05, 0.95].
// Confidence loses 2 points per unit of distance and 10 more for a soft consensus,
// floored at 20.
func (a *Adjuster) Adjust(c models.Consensus, sel models.Selection) Adjustment {
	lineDiff := sel.Line() - c.Line
	rate := a.Rate(sel.SportKey, sel.MarketKey)

	var shift float64
	switch sel.Side() {
	case models.SideOver:
		shift = -lineDiff * rate
	case models.SideUnder:
		shift = lineDiff * rate
	default:
		shift = -math.Abs(lineDiff) * rate
	}

	confidence := c.Confidence - confidencePerUnit*math.Abs(lineDiff)
	if c.Source == models.SourceSoft {
		confidence -= softPenalty
	}

	return Adjustment{
		Probability: oddsmath.Clamp(c.Probability+shift, minProbability, maxProbability),
		Confidence:  math.Max(confidence, minConfidence),
		LineDiff:    lineDiff,
		Rate:        rate,
		Shift:       shift,
	}
}

// StatKey strips the player_ prefix from a prop market key
func StatKey(marketKey string) string {
	return strings.TrimPrefix(marketKey, "player_")
}

func genericKey(marketKey string) string {
	switch marketKey {
	case models.MarketSpreads:
		return "spread"
	case models.MarketTotals:
		return "total"
	}
	return ""
}
