package consensus

import (
	"math"
	"strings"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

const (
	// Consensus probabilities never touch 0 or 1
	minProbability = 0.01
	maxProbability = 0.99

	// lineEpsilon absorbs float noise when comparing half-point lines
	lineEpsilon = 1e-9

	// missingOppositePenalty applies when vig could not be removed
	missingOppositePenalty = 10.0
)

// Builder computes fair-probability consensus for a selection from a quote snapshot.
// It holds only configuration and is safe for concurrent use.
type Builder struct {
	classification    models.BookmakerClassification
	gameLineTolerance float64
	propLineTolerance float64
}

// NewBuilder creates a consensus builder for one sport's classification
func NewBuilder(classification models.BookmakerClassification, gameLineTolerance, propLineTolerance float64) *Builder {
	return &Builder{
		classification:    classification,
		gameLineTolerance: gameLineTolerance,
		propLineTolerance: propLineTolerance,
	}
}

// Classification returns the bookmaker classification the builder was configured with
func (b *Builder) Classification() models.BookmakerClassification {
	return b.classification
}

// Build dispatches to the player-prop or game-line mode based on the selection's market.
// The boolean is false when no consensus is available.
func (b *Builder) Build(sel models.Selection, quotes []models.Quote) (models.Consensus, bool) {
	if sel.IsPlayerProp() {
		return b.PlayerProp(sel, quotes)
	}
	return b.GameLine(sel, quotes)
}

// GameLine builds consensus from the single best sharp quote within the line tolerance.
//
// Selection order:
// 1. Nearest line to the requested line (exact match first)
// 2. The reference sharp book
// 3. First quote in snapshot order
//
// Vig is removed with the same book's opposing side at the same line; without it the
// raw implied probability is used and confidence is reduced.
func (b *Builder) GameLine(sel models.Selection, quotes []models.Quote) (models.Consensus, bool) {
	var (
		chosen     models.Quote
		chosenDist float64
		found      bool
	)

	for _, q := range quotes {
		if !q.Matches(sel) || !b.classification.IsSharp(q.BookKey) {
			continue
		}

		dist, ok := lineDistance(sel.Point, q.Point)
		if !ok || dist > b.gameLineTolerance+lineEpsilon {
			continue
		}

		if !found || betterCandidate(dist, q.BookKey, chosenDist, chosen.BookKey, b.classification.ReferenceBook) {
			chosen = q
			chosenDist = dist
			found = true
		}
	}

	if !found {
		return models.Consensus{}, false
	}

	prob, vigRemoved := fairProbability(chosen, quotes)

	confidence := 100.0 - linePenalty(chosenDist)
	if !vigRemoved {
		confidence -= missingOppositePenalty
	}

	return models.Consensus{
		Probability:  oddsmath.Clamp(prob, minProbability, maxProbability),
		Line:         chosen.Line(),
		LineDistance: chosenDist,
		Confidence:   confidence,
		Books:        []string{chosen.BookKey},
		Source:       models.SourceSharp,
		VigRemoved:   vigRemoved,
		Agreement:    1,
	}, true
}

// Soft builds an equal-weight consensus across every book quoting the selection at
// exactly its requested line. Used when no sharp book prices the market. Quotes
// for more than one player yield no consensus.
func (b *Builder) Soft(sel models.Selection, quotes []models.Quote) (models.Consensus, bool) {
	var probs []float64
	var books []string
	allVigRemoved := true
	subjects := make(map[string]struct{})

	for _, q := range quotes {
		if !q.Matches(sel) {
			continue
		}
		if dist, ok := lineDistance(sel.Point, q.Point); !ok || dist > lineEpsilon {
			continue
		}

		subjects[strings.ToLower(strings.TrimSpace(q.Description))] = struct{}{}

		prob, vigRemoved := fairProbability(q, quotes)
		if !vigRemoved {
			allVigRemoved = false
		}
		probs = append(probs, prob)
		books = append(books, q.BookKey)
	}

	if len(probs) == 0 || len(subjects) > 1 {
		return models.Consensus{}, false
	}

	agreement := agreementScore(stdDev(probs))

	return models.Consensus{
		Probability:  oddsmath.Clamp(mean(probs), minProbability, maxProbability),
		Line:         sel.Line(),
		LineDistance: 0,
		Confidence:   50.0 + 20.0*agreement,
		Books:        books,
		Source:       models.SourceSoft,
		VigRemoved:   allVigRemoved,
		Agreement:    agreement,
	}, true
}

// MarketLine returns the line most books quote for the selection's outcome.
// Ties go to the line closest to the requested one.
func MarketLine(sel models.Selection, quotes []models.Quote) (float64, bool) {
	counts := make(map[float64]int)
	for _, q := range quotes {
		if q.Point == nil || !q.Matches(sel) {
			continue
		}
		counts[*q.Point]++
	}

	if len(counts) == 0 {
		return 0, false
	}

	requested := sel.Line()
	best, bestCount := 0.0, -1
	for line, count := range counts {
		switch {
		case count > bestCount:
			best, bestCount = line, count
		case count == bestCount && math.Abs(line-requested) < math.Abs(best-requested):
			best = line
		case count == bestCount && math.Abs(line-requested) == math.Abs(best-requested) && line < best:
			// Deterministic order for equidistant ties
			best = line
		}
	}

	return best, true
}

// fairProbability returns the no-vig probability of q using the same book's opposing
// side, or q's raw implied probability when the opposing side is not quoted.
func fairProbability(q models.Quote, quotes []models.Quote) (float64, bool) {
	for _, other := range quotes {
		if q.IsOpposite(other) {
			fair, _ := oddsmath.RemoveVig(q.Price, other.Price)
			return fair, true
		}
	}
	return oddsmath.ImpliedProbability(q.Price), false
}

// lineDistance returns |requested - quoted|. Markets without a line (moneyline) only
// match quotes without a line.
func lineDistance(requested, quoted *float64) (float64, bool) {
	if requested == nil || quoted == nil {
		return 0, requested == nil && quoted == nil
	}
	return math.Abs(*requested - *quoted), true
}

// linePenalty is the confidence cost of pricing off a nearby line
func linePenalty(dist float64) float64 {
	switch {
	case dist <= lineEpsilon:
		return 0
	case dist <= 1.0+lineEpsilon:
		return 3
	case dist <= 2.0+lineEpsilon:
		return 5
	default:
		return 5 + 2*(dist-2.0)
	}
}

func betterCandidate(dist float64, book string, bestDist float64, bestBook, reference string) bool {
	if math.Abs(dist-bestDist) > lineEpsilon {
		return dist < bestDist
	}
	return book == reference && bestBook != reference
}
