package models

// ConsensusSource records which kind of books a consensus was built from
type ConsensusSource string

const (
	SourceSharp    ConsensusSource = "sharp"    // Single best sharp book (game lines)
	SourceWeighted ConsensusSource = "weighted" // Weighted sharp-ish blend (player props)
	SourceSoft     ConsensusSource = "soft"     // Non-sharp books only, reduced trust
)

// Consensus is a synthesized fair probability for one selection
type Consensus struct {
	Probability  float64         `json:"probability"`   // Strictly inside (0,1)
	Line         float64         `json:"line"`          // Line the probability was computed at
	LineDistance float64         `json:"line_distance"` // |Line - requested line|
	Confidence   float64         `json:"confidence"`    // 0-100
	Books        []string        `json:"books"`         // Contributing bookmakers
	Source       ConsensusSource `json:"source"`
	VigRemoved   bool            `json:"vig_removed"` // False when the opposing side was missing
	Agreement    float64         `json:"agreement"`   // 0-1 inter-book agreement (weighted mode)
}

// IsSharp reports whether sharp data contributed to the consensus
func (c Consensus) IsSharp() bool {
	return c.Source == SourceSharp || c.Source == SourceWeighted
}

// BookmakerClassification partitions bookmakers into sharp and weighted sharp-ish sets.
// It is configuration, not derived state.
type BookmakerClassification struct {
	Sharp         []string           `json:"sharp"`          // Price-discovery leaders for game lines
	ReferenceBook string             `json:"reference_book"` // Preferred sharp book when several qualify
	PropWeights   map[string]float64 `json:"prop_weights"`   // Weighted sharp-ish books for props (0-1)
	DisplayNames  map[string]string  `json:"display_names"`
}

// IsSharp reports whether bookKey is a sharp book
func (c BookmakerClassification) IsSharp(bookKey string) bool {
	for _, b := range c.Sharp {
		if b == bookKey {
			return true
		}
	}
	return false
}

// PropWeight returns the prop-consensus weight for bookKey, 0 when unclassified
func (c BookmakerClassification) PropWeight(bookKey string) float64 {
	return c.PropWeights[bookKey]
}

// DisplayName returns the human-readable bookmaker name, falling back to the key
func (c BookmakerClassification) DisplayName(bookKey string) string {
	if name, ok := c.DisplayNames[bookKey]; ok {
		return name
	}
	return bookKey
}

// SensitivityTable maps sport → stat → probability moved per unit of line
type SensitivityTable struct {
	Rates       map[string]map[string]float64 `json:"rates"`
	DefaultRate float64                       `json:"default_rate"`
}
