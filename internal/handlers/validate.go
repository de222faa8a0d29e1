package handlers

import (
	"fmt"
	"strings"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

// validateSelection rejects selections the engine cannot interpret. A zero
// price is allowed and means "evaluate the market only".
func validateSelection(sel models.Selection) error {
	if sel.SportKey == "" {
		return fmt.Errorf("selection.sport_key is required")
	}
	if sel.MarketKey == "" {
		return fmt.Errorf("selection.market_key is required")
	}
	if sel.OutcomeName == "" {
		return fmt.Errorf("selection.outcome_name is required")
	}
	if sel.IsPlayerProp() && strings.TrimSpace(sel.Description) == "" {
		return fmt.Errorf("selection.description (player) is required for market %s", sel.MarketKey)
	}
	if sel.Price != 0 {
		if err := oddsmath.ValidateAmerican(sel.Price); err != nil {
			return fmt.Errorf("selection.price: %w", err)
		}
	}
	if sel.Point != nil {
		if err := oddsmath.ValidateLine(*sel.Point); err != nil {
			return fmt.Errorf("selection.point: %w", err)
		}
	}
	if sel.MarketKey != models.MarketMoneyline && sel.Point == nil {
		return fmt.Errorf("selection.point is required for market %s", sel.MarketKey)
	}
	return nil
}

// validateQuotes rejects quotes with impossible prices or lines
func validateQuotes(quotes []models.Quote) error {
	for i, q := range quotes {
		if err := oddsmath.ValidateAmerican(q.Price); err != nil {
			return fmt.Errorf("quotes[%d] (%s): %w", i, q.BookKey, err)
		}
		if q.Point != nil {
			if err := oddsmath.ValidateLine(*q.Point); err != nil {
				return fmt.Errorf("quotes[%d] (%s): %w", i, q.BookKey, err)
			}
		}
	}
	return nil
}
