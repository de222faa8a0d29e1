package analyzer

import "github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"

// Recommend maps edge (percentage points), confidence (0-100) and whether sharp
// data contributed to a betting call.
//
// Without sharp data only a large, confident edge earns "consider":
//
//	edge >= 4 && confidence >= 55 -> consider, else avoid
//
// With sharp data:
//
//	edge >= 3 && confidence >= 65 -> strong_bet
//	edge >= 2 && confidence >= 55 -> bet
//	edge >= 1 && confidence >= 45 -> consider
//	otherwise                     -> avoid
//
// A non-positive edge is always no_edge.
func Recommend(edge int, confidence float64, sharp bool) models.Recommendation {
	if edge <= 0 {
		return models.RecommendNoEdge
	}

	if !sharp {
		if edge >= 4 && confidence >= 55 {
			return models.RecommendConsider
		}
		return models.RecommendAvoid
	}

	switch {
	case edge >= 3 && confidence >= 65:
		return models.RecommendStrongBet
	case edge >= 2 && confidence >= 55:
		return models.RecommendBet
	case edge >= 1 && confidence >= 45:
		return models.RecommendConsider
	default:
		return models.RecommendAvoid
	}
}

// escalate moves a positive recommendation up one tier
func escalate(rec models.Recommendation) models.Recommendation {
	switch rec {
	case models.RecommendAvoid:
		return models.RecommendConsider
	case models.RecommendConsider:
		return models.RecommendBet
	case models.RecommendBet:
		return models.RecommendStrongBet
	}
	return rec
}
