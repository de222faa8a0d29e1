package oddsmath

import "math"

// RemoveVig removes vig from a two-way market using the multiplicative method
// This is the standard method for spreads, totals, moneylines and two-way props
//
// Formula:
// 1. Convert both sides to implied probabilities
// 2. Calculate overround: totalProb = prob1 + prob2 (typically > 1.0)
// 3. Normalize: fairProb1 = prob1 / totalProb, fairProb2 = prob2 / totalProb
// 4. Fair probabilities now sum to 1.0
//
// Example:
// Side A: -110 (52.38% implied) | Side B: -110 (52.38% implied)
// Overround: 104.76% (4.76% vig)
// Fair: 50% / 50% (after normalization)
//
// Precondition: A and B are opposite sides of the same market at the same line.
func RemoveVig(oddsA, oddsB int) (fairA, fairB float64) {
	probA := ImpliedProbability(oddsA)
	probB := ImpliedProbability(oddsB)

	total := probA + probB
	return probA / total, probB / total
}

// VigPercentage calculates the overround of a two-way market
// Vig% = (probA + probB - 1.0) * 100
//
// Example:
// -110 / -110 → 4.76%
func VigPercentage(oddsA, oddsB int) float64 {
	total := ImpliedProbability(oddsA) + ImpliedProbability(oddsB)
	if total <= 1.0 {
		return 0
	}
	return (total - 1.0) * 100.0
}

// ExpectedValue returns the expected profit of a $1 stake at the given price
// EV = (P(win) × payout) - (P(lose) × 1)
//
// Example:
// Fair 50%, offered +110 → 0.5 × 1.10 - 0.5 = +0.05
func ExpectedValue(trueProb float64, american int) float64 {
	return trueProb*Payout(american) - (1.0 - trueProb)
}

// Edge returns the probability edge of a fair probability over the price's implied
// probability, in percentage points, rounded to the nearest whole point.
//
// Example:
// Fair 55%, offered -110 (52.38%) → 3
func Edge(fairProb float64, american int) int {
	return int(math.Round((fairProb - ImpliedProbability(american)) * 100.0))
}
