package oddsmath

import (
	"fmt"
	"math"
)

// ImpliedProbability converts American odds to the probability implied by the price
// American +150 → 0.40
// American -150 → 0.60
//
// Callers must never pass 0; use ValidateAmerican at the boundary.
func ImpliedProbability(american int) float64 {
	if american > 0 {
		return 100.0 / (float64(american) + 100.0)
	}

	abs := float64(-american)
	return abs / (abs + 100.0)
}

// Payout returns the profit on a winning $1 stake
// American +150 → 1.50
// American -150 → 0.667
func Payout(american int) float64 {
	if american > 0 {
		return float64(american) / 100.0
	}
	return 100.0 / float64(-american)
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) float64 {
	return Payout(american) + 1.0
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -150
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("invalid decimal odds: must be > 1.0")
	}

	if decimal >= 2.0 {
		// Positive American odds: (decimal - 1) * 100
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}

	// Negative American odds: -100 / (decimal - 1)
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// ProbabilityToAmerican converts a probability to the American price that implies it,
// rounded to the nearest integer.
// 0.40 → +150
// 0.60 → -150
//
// Even money (0.50) is expressed as +100. Probabilities outside (0,1) are clamped to
// [0.001, 0.999] so the result is always a finite price.
func ProbabilityToAmerican(probability float64) int {
	p := Clamp(probability, 0.001, 0.999)

	if p > 0.5 {
		return -int(math.Round(p / (1.0 - p) * 100.0))
	}
	return int(math.Round((1.0 - p) / p * 100.0))
}

// ToCents maps an American price onto a continuous "cents" scale where -100 and +100
// coincide, so price gaps can be measured across the even-money boundary.
// -110 → -10, +105 → +5 (a 15 cent gap)
func ToCents(american int) int {
	if american > 0 {
		return american - 100
	}
	return american + 100
}

// FromCents is the inverse of ToCents
func FromCents(cents float64) float64 {
	if cents >= 0 {
		return cents + 100
	}
	return cents - 100
}

// ValidateAmerican rejects prices that cannot be American odds.
// Valid prices are <= -100 or >= +100.
func ValidateAmerican(american int) error {
	if american == 0 {
		return fmt.Errorf("invalid American odds: cannot be 0")
	}
	if american > -100 && american < 100 {
		return fmt.Errorf("invalid American odds %d: must be <= -100 or >= +100", american)
	}
	return nil
}

// ValidateLine rejects non-finite line values
func ValidateLine(line float64) error {
	if math.IsNaN(line) || math.IsInf(line, 0) {
		return fmt.Errorf("invalid line: must be a finite number")
	}
	return nil
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
