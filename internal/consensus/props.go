package consensus

import (
	"math"
	"strings"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

// propDistancePenalty is the confidence lost per unit between the requested
// line and the line the consensus was priced at
const propDistancePenalty = 2.0

// bookProb is one weighted book's contribution to a prop consensus
type bookProb struct {
	book   string
	line   float64
	dist   float64
	prob   float64
	weight float64
}

// PlayerProp builds a weighted consensus across the sharp-ish prop books.
//
// No single book is trusted exclusively:
// 1. Keep books with a prop weight and a quote within the prop line tolerance
// 2. Use each book's closest line and remove vig with its opposing side
// 3. Weight-normalized average of the no-vig probabilities
// 4. Confidence = 85 + 15 × agreement − 2 × line distance, agreement = max(0, 1 - 20 × stddev)
//
// Books that only quote one side are skipped since their vig cannot be removed.
// Quotes naming more than one player never blend; that yields no consensus.
func (b *Builder) PlayerProp(sel models.Selection, quotes []models.Quote) (models.Consensus, bool) {
	perBook := make(map[string]bookProb)
	order := make([]string, 0)
	subjects := make(map[string]struct{})

	for _, q := range quotes {
		if !q.Matches(sel) {
			continue
		}

		weight := b.classification.PropWeight(q.BookKey)
		if weight <= 0 {
			continue
		}

		dist, ok := lineDistance(sel.Point, q.Point)
		if !ok || dist > b.propLineTolerance+lineEpsilon {
			continue
		}

		prob, vigRemoved := fairProbability(q, quotes)
		if !vigRemoved {
			continue
		}

		subjects[strings.ToLower(strings.TrimSpace(q.Description))] = struct{}{}

		existing, seen := perBook[q.BookKey]
		if seen && existing.dist <= dist {
			continue
		}
		if !seen {
			order = append(order, q.BookKey)
		}

		perBook[q.BookKey] = bookProb{
			book:   q.BookKey,
			line:   q.Line(),
			dist:   dist,
			prob:   prob,
			weight: weight,
		}
	}

	if len(perBook) == 0 || len(subjects) > 1 {
		return models.Consensus{}, false
	}

	contributions := make([]bookProb, 0, len(order))
	for _, book := range order {
		contributions = append(contributions, perBook[book])
	}

	var weightedSum, weightTotal float64
	probs := make([]float64, 0, len(contributions))
	books := make([]string, 0, len(contributions))
	for _, c := range contributions {
		weightedSum += c.prob * c.weight
		weightTotal += c.weight
		probs = append(probs, c.prob)
		books = append(books, c.book)
	}

	agreement := agreementScore(stdDev(probs))
	line := dominantLine(contributions, sel.Line())

	dist, _ := lineDistance(sel.Point, &line)

	return models.Consensus{
		Probability:  oddsmath.Clamp(weightedSum/weightTotal, minProbability, maxProbability),
		Line:         line,
		LineDistance: dist,
		Confidence:   85.0 + 15.0*agreement - propDistancePenalty*dist,
		Books:        books,
		Source:       models.SourceWeighted,
		VigRemoved:   true,
		Agreement:    agreement,
	}, true
}

// dominantLine is the line carrying the most prop weight; ties go to the line
// closest to the requested one.
func dominantLine(contributions []bookProb, requested float64) float64 {
	weights := make(map[float64]float64)
	for _, c := range contributions {
		weights[c.line] += c.weight
	}

	best, bestWeight := contributions[0].line, -1.0
	for _, c := range contributions {
		w := weights[c.line]
		switch {
		case w > bestWeight+lineEpsilon:
			best, bestWeight = c.line, w
		case math.Abs(w-bestWeight) <= lineEpsilon && math.Abs(c.line-requested) < math.Abs(best-requested):
			best = c.line
		}
	}
	return best
}

// agreementScore maps inter-book spread to [0,1]; 5 points of stddev is total disagreement
func agreementScore(sd float64) float64 {
	return math.Max(0, 1-20*sd)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}
