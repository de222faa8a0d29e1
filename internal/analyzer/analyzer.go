package analyzer

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/altline"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/consensus"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/simulator"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

// Warnings attached to results; the analyzer never fails, it explains
const (
	WarnNoOddsData       = "no odds data for selection"
	WarnNoMarketOdds     = "no market odds for prop; using bettor price as the only quote"
	WarnNoBettorPrice    = "no bettor price supplied; market-only analysis"
	WarnSoftFallback     = "no sharp consensus; using best available soft price"
	WarnSoftConsensus    = "no sharp consensus; soft-book consensus moved to requested line"
	WarnAlternateLine    = "requested line differs from market line; probability extrapolated"
	WarnNoVigRemoval     = "opposing side not quoted; vig not removed"
	WarnLowSample        = "fewer than 5 games in log; simulation is low-confidence context"
	WarnNoGameLog        = "no game log; statistical analysis skipped"
	WarnUnmappedStat     = "statistic not supported by simulator; statistical analysis skipped"
	WarnSimulationFailed = "simulation failed; statistical analysis skipped"
)

const (
	// DefaultStatsBlendWeight is the share of blended edge taken from the simulation.
	// Fixed regardless of sample size; sports may override it.
	DefaultStatsBlendWeight = 0.7

	fallbackPrice     = -110
	softFallbackBase  = 40.0
	minConfidence     = 10.0
	maxConfidence     = 95.0
	maxEdgeNudge      = 3.0
	edgeNudgeFactor   = 0.1
	lowSampleGames    = 5
	fallbackQuoteBook = "bettor"
)

// Request is one selection to analyze with the quotes and optional statistical
// input it should be judged against
type Request struct {
	Selection  models.Selection        `json:"selection"`
	Quotes     []models.Quote          `json:"quotes"`
	Simulation *models.SimulationInput `json:"simulation,omitempty"`
}

// Analyzer synthesizes fair probability, edge, confidence and a recommendation
// for one sport. It holds only configuration and is safe for concurrent use.
type Analyzer struct {
	sportKey    string
	builder     *consensus.Builder
	adjuster    *altline.Adjuster
	simulator   *simulator.Simulator
	blendWeight float64
	newRand     func() simulator.RandSource
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithRandSource replaces the simulator's entropy source, e.g. with a seeded one in tests
func WithRandSource(newRand func() simulator.RandSource) Option {
	return func(a *Analyzer) {
		a.newRand = newRand
	}
}

// New creates an analyzer from a sport configuration
func New(cfg contracts.SportConfig, opts ...Option) *Analyzer {
	blend := cfg.GetStatsBlendWeight()
	if blend <= 0 || blend > 1 {
		blend = DefaultStatsBlendWeight
	}

	a := &Analyzer{
		sportKey:    cfg.GetSportKey(),
		builder:     consensus.NewBuilder(cfg.GetClassification(), cfg.GetGameLineTolerance(), cfg.GetPropLineTolerance()),
		adjuster:    altline.NewAdjuster(cfg.GetSensitivity()),
		simulator:   simulator.New(cfg.GetSimulationIterations()),
		blendWeight: blend,
		newRand:     simulator.NewEntropySource,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// SportKey returns the sport this analyzer is configured for
func (a *Analyzer) SportKey() string {
	return a.sportKey
}

// Builder exposes the consensus builder for diagnostics
func (a *Analyzer) Builder() *consensus.Builder {
	return a.builder
}

// Simulator exposes the configured simulator
func (a *Analyzer) Simulator() *simulator.Simulator {
	return a.simulator
}

// NewRandSource returns a fresh random source for one simulation
func (a *Analyzer) NewRandSource() simulator.RandSource {
	return a.newRand()
}

// fairResolution is the fair probability and where it came from
type fairResolution struct {
	probability float64
	confidence  float64
	consensus   models.Consensus
	sharp       bool // Sharp data contributed
	soft        bool // Soft fallback: best soft price's own implied probability
}

// Analyze produces an AnalysisResult for the request. It always returns a result;
// missing data surfaces as warnings.
//
// Fair probability resolution:
// 1. Consensus within tolerance of the requested line (prop weighted mode or sharp game line)
// 2. Consensus at the market's common line moved to the requested line
// 3. Best non-sharp price's own implied probability (soft fallback)
func (a *Analyzer) Analyze(req Request) models.AnalysisResult {
	sel := req.Selection
	quotes := req.Quotes
	var warnings []string

	if len(quotesAtAnyLine(sel, quotes)) == 0 {
		if !sel.IsPlayerProp() {
			return models.EmptyAnalysis(sel, WarnNoOddsData)
		}
		quotes = []models.Quote{fallbackQuote(sel)}
		warnings = append(warnings, WarnNoMarketOdds)
	}

	market := marketQuotes(sel, quotes)
	if len(market) == 0 {
		return models.EmptyAnalysis(sel, WarnNoOddsData)
	}
	snap := summarizeMarket(market, a.builder.Classification())

	result := models.AnalysisResult{
		Selection:        sel,
		BestPrice:        snap.best.Price,
		BestBook:         snap.best.BookKey,
		WorstPrice:       snap.worst.Price,
		WorstBook:        snap.worst.BookKey,
		OddsRange:        snap.oddsRange,
		BooksQuoting:     snap.books,
		MarketEfficiency: snap.efficiency,
		SharpAgreement:   snap.agreement,
		Recommendation:   models.RecommendNoEdge,
	}

	fair, fairWarnings := a.resolveFair(sel, quotes, snap)
	warnings = append(warnings, fairWarnings...)

	prob := oddsmath.RoundTo(fair.probability, 4)
	fairOdds := oddsmath.ProbabilityToAmerican(fair.probability)
	result.FairProbability = &prob
	result.FairOdds = &fairOdds
	result.SoftFallback = fair.soft
	if !fair.soft {
		line := fair.consensus.Line
		result.ConsensusSource = fair.consensus.Source
		result.ConsensusBooks = fair.consensus.Books
		if sel.Point != nil {
			result.ConsensusLine = &line
		}
	}

	var sim *simulationOutcome
	if req.Simulation != nil && sel.IsPlayerProp() {
		var simWarnings []string
		sim, simWarnings = a.simulate(sel, *req.Simulation)
		warnings = append(warnings, simWarnings...)
		if sim != nil {
			summary := sim.result.Summary(sel.Point)
			result.Simulation = &summary
		}
	}

	if !sel.HasPrice() {
		result.Confidence = 0
		result.Recommendation = models.RecommendNoEdge
		result.Warnings = append(warnings, WarnNoBettorPrice)
		return result
	}

	marketEdge := oddsmath.Edge(fair.probability, sel.Price)
	confidence := clampConfidence(fair.confidence + oddsmath.Clamp(float64(marketEdge)*edgeNudgeFactor, -maxEdgeNudge, maxEdgeNudge))

	result.MarketEdge = marketEdge
	result.Edge = marketEdge
	result.ExpectedValue = oddsmath.RoundTo(oddsmath.ExpectedValue(fair.probability, sel.Price)*100, 2)
	result.Confidence = confidence
	result.Recommendation = Recommend(marketEdge, confidence, fair.sharp)

	if sim != nil {
		a.blend(&result, sim)
	}

	result.Confidence = oddsmath.RoundTo(result.Confidence, 1)
	result.Warnings = append([]string{}, warnings...)
	return result
}

// resolveFair walks the fallback chain for the selection's fair probability
func (a *Analyzer) resolveFair(sel models.Selection, quotes []models.Quote, snap marketSnapshot) (fairResolution, []string) {
	var warnings []string

	if c, ok := a.builder.Build(sel, quotes); ok {
		prob := c.Probability
		if c.LineDistance > 0 {
			prob = a.adjuster.Adjust(c, sel).Probability
		}
		if !c.VigRemoved {
			warnings = append(warnings, WarnNoVigRemoval)
		}
		return fairResolution{
			probability: prob,
			confidence:  c.Confidence,
			consensus:   c,
			sharp:       true,
		}, warnings
	}

	if line, ok := consensus.MarketLine(sel, quotes); ok && sel.Point != nil && line != *sel.Point {
		marketSel := sel.WithPoint(line)

		c, ok := a.builder.Build(marketSel, quotes)
		if !ok {
			c, ok = a.builder.Soft(marketSel, quotes)
		}
		if ok {
			adj := a.adjuster.Adjust(c, sel)
			c.LineDistance = math.Abs(adj.LineDiff)

			if c.IsSharp() {
				warnings = append(warnings, WarnAlternateLine)
			} else {
				warnings = append(warnings, WarnSoftConsensus)
			}
			return fairResolution{
				probability: adj.Probability,
				confidence:  adj.Confidence,
				consensus:   c,
				sharp:       c.IsSharp(),
			}, warnings
		}
	}

	fallback := snap.best
	if snap.bestSoft != nil {
		fallback = *snap.bestSoft
	}

	return fairResolution{
		probability: oddsmath.ImpliedProbability(fallback.Price),
		confidence:  softFallbackBase,
		consensus: models.Consensus{
			Line:   fallback.Line(),
			Books:  []string{fallback.BookKey},
			Source: models.SourceSoft,
		},
		soft: true,
	}, append(warnings, WarnSoftFallback)
}

// quotesAtAnyLine returns every quote for the selection's market, outcome and subject
func quotesAtAnyLine(sel models.Selection, quotes []models.Quote) []models.Quote {
	var matched []models.Quote
	for _, q := range quotes {
		if q.Matches(sel) {
			matched = append(matched, q)
		}
	}
	return matched
}

// fallbackQuote stands in for missing market coverage on a prop so statistical
// analysis can still run
func fallbackQuote(sel models.Selection) models.Quote {
	price := sel.Price
	if price == 0 {
		price = fallbackPrice
	}
	book := sel.BookKey
	if book == "" {
		book = fallbackQuoteBook
	}
	return models.Quote{
		EventID:     sel.EventID,
		BookKey:     book,
		MarketKey:   sel.MarketKey,
		OutcomeName: sel.OutcomeName,
		Point:       sel.Point,
		Price:       price,
		Description: sel.Description,
	}
}

func clampConfidence(c float64) float64 {
	return oddsmath.Clamp(c, minConfidence, maxConfidence)
}
