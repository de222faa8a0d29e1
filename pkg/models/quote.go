package models

import (
	"strings"
	"time"
)

// Quote is one bookmaker's price for one outcome of one market (matches Mercury's outcome shape)
type Quote struct {
	EventID     string    `json:"event_id,omitempty"`
	BookKey     string    `json:"book_key"`
	MarketKey   string    `json:"market_key"`
	OutcomeName string    `json:"outcome_name"`          // "Over", "Under", team name
	Point       *float64  `json:"point,omitempty"`       // Absent for moneyline
	Price       int       `json:"price"`                 // American odds
	Description string    `json:"description,omitempty"` // Player name for props
	LastUpdate  time.Time `json:"last_update,omitempty"`
}

// Selection is the bettor's target and the query key used to filter quotes
type Selection struct {
	SportKey    string   `json:"sport_key"`
	EventID     string   `json:"event_id,omitempty"`
	MarketKey   string   `json:"market_key"`
	OutcomeName string   `json:"outcome_name"`
	Point       *float64 `json:"point,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       int      `json:"price,omitempty"` // Bettor's quoted price, 0 = evaluate market only
	BookKey     string   `json:"book_key,omitempty"`
}

// Market key prefixes and game-line keys (The Odds API conventions)
const (
	MarketMoneyline = "h2h"
	MarketSpreads   = "spreads"
	MarketTotals    = "totals"

	playerPropPrefix = "player_"
)

// IsPlayerProp reports whether the selection targets a player statistical prop
func (s Selection) IsPlayerProp() bool {
	return IsPlayerPropMarket(s.MarketKey)
}

// HasPrice reports whether the bettor supplied a real price
func (s Selection) HasPrice() bool {
	return s.Price != 0
}

// Line returns the requested line, or 0 for markets without one
func (s Selection) Line() float64 {
	if s.Point == nil {
		return 0
	}
	return *s.Point
}

// WithPoint returns a copy of the selection targeting a different line
func (s Selection) WithPoint(point float64) Selection {
	s.Point = &point
	return s
}

// Side classifies the selection for line-movement purposes
func (s Selection) Side() Side {
	switch strings.ToLower(s.OutcomeName) {
	case "over":
		return SideOver
	case "under":
		return SideUnder
	}
	return SideSpread
}

// IsPlayerPropMarket reports whether a market key names a player prop
func IsPlayerPropMarket(marketKey string) bool {
	return strings.HasPrefix(marketKey, playerPropPrefix)
}

// Line returns the quote's line, or 0 when absent
func (q Quote) Line() float64 {
	if q.Point == nil {
		return 0
	}
	return *q.Point
}

// Matches reports whether the quote is for the selection's market, outcome and subject.
// Lines are not compared here; line tolerance is the consensus builder's concern.
func (q Quote) Matches(sel Selection) bool {
	if q.MarketKey != sel.MarketKey {
		return false
	}
	if !strings.EqualFold(q.OutcomeName, sel.OutcomeName) {
		return false
	}
	if sel.Description != "" && !strings.EqualFold(q.Description, sel.Description) {
		return false
	}
	return true
}

// IsOpposite reports whether other is the opposing side of q's two-way market at the same line
func (q Quote) IsOpposite(other Quote) bool {
	if q.BookKey != other.BookKey || q.MarketKey != other.MarketKey {
		return false
	}
	if strings.EqualFold(q.OutcomeName, other.OutcomeName) {
		return false
	}
	if !strings.EqualFold(q.Description, other.Description) {
		return false
	}

	if q.Point == nil || other.Point == nil {
		return q.Point == nil && other.Point == nil
	}

	// Spreads quote the two sides at mirrored points (-3.5 / +3.5)
	if q.MarketKey == MarketSpreads {
		return *q.Point == -*other.Point
	}
	return *q.Point == *other.Point
}

// Side is the direction a selection moves with its line
type Side string

const (
	SideOver   Side = "over"
	SideUnder  Side = "under"
	SideSpread Side = "spread"
)

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}
