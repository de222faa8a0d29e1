package models

// Recommendation is the discrete betting call produced by an analysis
type Recommendation string

const (
	RecommendStrongBet Recommendation = "strong_bet"
	RecommendBet       Recommendation = "bet"
	RecommendConsider  Recommendation = "consider"
	RecommendAvoid     Recommendation = "avoid"
	RecommendNoEdge    Recommendation = "no_edge"
)

// MarketEfficiency classifies how tightly books agree on price
type MarketEfficiency string

const (
	MarketEfficient         MarketEfficiency = "efficient"
	MarketInefficient       MarketEfficiency = "inefficient"
	MarketHighlyInefficient MarketEfficiency = "highly_inefficient"
)

// SharpAgreement classifies the best price against the sharp-book average
type SharpAgreement string

const (
	SharpAgree       SharpAgreement = "agree"
	SharpMixed       SharpAgreement = "mixed"
	SharpDisagree    SharpAgreement = "disagree"
	SharpUnavailable SharpAgreement = "unavailable"
)

// AnalysisResult is the synthesizer's output for one selection
type AnalysisResult struct {
	AnalysisID       string             `json:"analysis_id,omitempty"`
	Selection        Selection          `json:"selection"`
	BestPrice        int                `json:"best_price"`
	BestBook         string             `json:"best_book"`
	WorstPrice       int                `json:"worst_price"`
	WorstBook        string             `json:"worst_book"`
	OddsRange        int                `json:"odds_range"` // Cents between best and worst
	BooksQuoting     int                `json:"books_quoting"`
	Edge             int                `json:"edge"`             // Percentage points
	MarketEdge       int                `json:"market_edge"`      // Edge before simulation blending
	ExpectedValue    float64            `json:"expected_value"`   // Per $100 staked
	Confidence       float64            `json:"confidence"`       // 0-100
	MarketEfficiency MarketEfficiency   `json:"market_efficiency"`
	SharpAgreement   SharpAgreement     `json:"sharp_agreement"`
	FairProbability  *float64           `json:"fair_probability"`
	FairOdds         *int               `json:"fair_odds,omitempty"`
	ConsensusSource  ConsensusSource    `json:"consensus_source,omitempty"`
	ConsensusBooks   []string           `json:"consensus_books,omitempty"`
	ConsensusLine    *float64           `json:"consensus_line,omitempty"`
	SoftFallback     bool               `json:"soft_fallback"`
	Recommendation   Recommendation     `json:"recommendation"`
	Simulation       *SimulationSummary `json:"simulation,omitempty"`
	Warnings         []string           `json:"warnings"`
}

// EmptyAnalysis returns the neutral all-zero result for a selection
func EmptyAnalysis(sel Selection, warnings ...string) AnalysisResult {
	return AnalysisResult{
		Selection:        sel,
		MarketEfficiency: MarketEfficient,
		SharpAgreement:   SharpUnavailable,
		Recommendation:   RecommendNoEdge,
		Warnings:         append([]string{}, warnings...),
	}
}
