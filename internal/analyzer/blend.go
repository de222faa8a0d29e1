package analyzer

import (
	"errors"
	"math"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/simulator"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

// Simulation lean thresholds and nudges, in percentage points of edge
const (
	simFavorableEdge    = 2.0
	simEscalationEdge   = 5.0
	strongAgreeNudge    = 3.0
	weakAgreeNudge      = 1.5
	weakDisagreeNudge   = -1.5
	strongDisagreeNudge = -3.0
)

// simLean is the simulation's own read on the bet
type simLean int

const (
	leanNeutral simLean = iota
	leanFavorable
	leanUnfavorable
)

// simulationOutcome is a finished simulation priced against the selection
type simulationOutcome struct {
	result   *simulator.Result
	hitProb  float64
	hasPrice bool
	edge     float64 // Stats edge in percentage points, unrounded
}

func (o *simulationOutcome) lean() simLean {
	switch {
	case !o.hasPrice:
		return leanNeutral
	case o.edge >= simFavorableEdge:
		return leanFavorable
	case o.edge <= -simFavorableEdge:
		return leanUnfavorable
	}
	return leanNeutral
}

// simulate runs the simulator for a prop selection. Missing or unusable data
// skips the statistical path with a warning rather than failing the analysis.
func (a *Analyzer) simulate(sel models.Selection, input models.SimulationInput) (*simulationOutcome, []string) {
	if len(input.GameLog) == 0 {
		return nil, []string{WarnNoGameLog}
	}

	if input.Stat == "" {
		stat, ok := simulator.StatForMarket(sel.MarketKey)
		if !ok {
			return nil, []string{WarnUnmappedStat}
		}
		input.Stat = stat
	}

	var warnings []string
	if len(input.GameLog) < lowSampleGames {
		warnings = append(warnings, WarnLowSample)
	}

	result, err := a.simulator.Run(input, a.newRand())
	if err != nil {
		if errors.Is(err, simulator.ErrUnknownStat) {
			return nil, append(warnings, WarnUnmappedStat)
		}
		return nil, append(warnings, WarnSimulationFailed)
	}

	side := sel.Side()
	if side != models.SideOver && side != models.SideUnder {
		side = models.SideOver
	}

	outcome := &simulationOutcome{
		result:   result,
		hitProb:  result.HitProbability(sel.Line(), side),
		hasPrice: sel.HasPrice(),
	}
	if outcome.hasPrice {
		outcome.edge = (outcome.hitProb - oddsmath.ImpliedProbability(sel.Price)) * 100
	}

	return outcome, warnings
}

// blend folds the simulation into a priced result.
//
// Edge = round(statsEdge × w + marketEdge × (1 − w)) with w the stats blend weight.
// Confidence moves ±3 when the simulation strongly agrees or disagrees with the
// market and ±1.5 on weaker signals. The recommendation escalates one tier when
// both favor the bet and the simulation edge is large, and drops to avoid when the
// simulation disagrees with a positive market edge.
func (a *Analyzer) blend(result *models.AnalysisResult, sim *simulationOutcome) {
	marketEdge := result.MarketEdge
	result.Edge = int(math.Round(sim.edge*a.blendWeight + float64(marketEdge)*(1-a.blendWeight)))

	lean := sim.lean()
	marketPositive := marketEdge > 0

	var nudge float64
	switch {
	case lean == leanFavorable && marketPositive:
		nudge = strongAgreeNudge
	case lean == leanUnfavorable && !marketPositive:
		nudge = weakAgreeNudge
	case lean == leanFavorable && !marketPositive:
		nudge = weakDisagreeNudge
	case lean == leanUnfavorable && marketPositive:
		nudge = strongDisagreeNudge
	}
	result.Confidence = clampConfidence(result.Confidence + nudge)

	sharp := result.ConsensusSource == models.SourceSharp || result.ConsensusSource == models.SourceWeighted
	rec := Recommend(result.Edge, result.Confidence, sharp && !result.SoftFallback)

	switch {
	case lean == leanUnfavorable && marketPositive:
		rec = models.RecommendAvoid
	case lean == leanFavorable && marketPositive && sim.edge >= simEscalationEdge && rec != models.RecommendNoEdge:
		rec = escalate(rec)
	}

	result.Recommendation = rec
}
