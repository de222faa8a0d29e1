package analyzer

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/consensus"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

// Market efficiency and sharp agreement thresholds, in cents
const (
	efficientRange   = 15
	inefficientRange = 30

	sharpAgreeCents = 10.0
	sharpMixedCents = 25.0
)

// marketSnapshot is the price landscape for one selection at one line
type marketSnapshot struct {
	quotes     []models.Quote
	best       models.Quote
	worst      models.Quote
	bestSoft   *models.Quote // Best price from a non-sharp book
	books      int
	oddsRange  int
	efficiency models.MarketEfficiency
	agreement  models.SharpAgreement
}

// marketQuotes collects the quotes for the selection at its requested line, or at
// the market's common line when nobody quotes the requested one
func marketQuotes(sel models.Selection, quotes []models.Quote) []models.Quote {
	exact := quotesAtLine(sel, quotes)
	if len(exact) > 0 || sel.Point == nil {
		return exact
	}

	line, ok := consensus.MarketLine(sel, quotes)
	if !ok {
		return nil
	}
	return quotesAtLine(sel.WithPoint(line), quotes)
}

func quotesAtLine(sel models.Selection, quotes []models.Quote) []models.Quote {
	var matched []models.Quote
	for _, q := range quotes {
		if !q.Matches(sel) {
			continue
		}
		if sel.Point == nil {
			if q.Point == nil {
				matched = append(matched, q)
			}
			continue
		}
		if q.Point != nil && math.Abs(*q.Point-*sel.Point) < 1e-9 {
			matched = append(matched, q)
		}
	}
	return matched
}

// summarizeMarket classifies best/worst prices, efficiency and sharp agreement.
// quotes must be non-empty.
func summarizeMarket(quotes []models.Quote, classification models.BookmakerClassification) marketSnapshot {
	snap := marketSnapshot{
		quotes: quotes,
		best:   quotes[0],
		worst:  quotes[0],
	}

	books := make(map[string]struct{})
	var sharpCents []float64

	for i, q := range quotes {
		books[q.BookKey] = struct{}{}

		// Compare by payout, not raw sign: +120 beats -110
		if oddsmath.Payout(q.Price) > oddsmath.Payout(snap.best.Price) {
			snap.best = q
		}
		if oddsmath.Payout(q.Price) < oddsmath.Payout(snap.worst.Price) {
			snap.worst = q
		}

		if classification.IsSharp(q.BookKey) {
			sharpCents = append(sharpCents, float64(oddsmath.ToCents(q.Price)))
		} else if snap.bestSoft == nil || oddsmath.Payout(q.Price) > oddsmath.Payout(snap.bestSoft.Price) {
			snap.bestSoft = &quotes[i]
		}
	}

	snap.books = len(books)
	snap.oddsRange = oddsmath.ToCents(snap.best.Price) - oddsmath.ToCents(snap.worst.Price)
	snap.efficiency = classifyEfficiency(snap.oddsRange)
	snap.agreement = classifyAgreement(float64(oddsmath.ToCents(snap.best.Price)), sharpCents)

	return snap
}

func classifyEfficiency(oddsRange int) models.MarketEfficiency {
	switch {
	case oddsRange <= efficientRange:
		return models.MarketEfficient
	case oddsRange <= inefficientRange:
		return models.MarketInefficient
	default:
		return models.MarketHighlyInefficient
	}
}

// classifyAgreement compares the best price with the sharp-book average price
func classifyAgreement(bestCents float64, sharpCents []float64) models.SharpAgreement {
	if len(sharpCents) == 0 {
		return models.SharpUnavailable
	}

	sum := 0.0
	for _, c := range sharpCents {
		sum += c
	}
	gap := math.Abs(bestCents - sum/float64(len(sharpCents)))

	switch {
	case gap <= sharpAgreeCents:
		return models.SharpAgree
	case gap <= sharpMixedCents:
		return models.SharpMixed
	default:
		return models.SharpDisagree
	}
}
