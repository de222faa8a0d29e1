package testutil

import (
	"time"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

// QuoteFixture creates a test Quote with sensible defaults
func QuoteFixture(overrides ...func(*models.Quote)) models.Quote {
	point := -3.5

	quote := models.Quote{
		EventID:     "test-event-1",
		BookKey:     "pinnacle",
		MarketKey:   models.MarketSpreads,
		OutcomeName: "Los Angeles Lakers",
		Point:       &point,
		Price:       -110,
		LastUpdate:  time.Now(),
	}

	// Apply overrides
	for _, override := range overrides {
		override(&quote)
	}

	return quote
}

// SpreadPair creates both sides of a spread market for one book
func SpreadPair(bookKey, favorite, underdog string, point float64, favPrice, dogPrice int) []models.Quote {
	fav := point
	dog := -point
	return []models.Quote{
		QuoteFixture(func(q *models.Quote) {
			q.BookKey = bookKey
			q.OutcomeName = favorite
			q.Point = &fav
			q.Price = favPrice
		}),
		QuoteFixture(func(q *models.Quote) {
			q.BookKey = bookKey
			q.OutcomeName = underdog
			q.Point = &dog
			q.Price = dogPrice
		}),
	}
}

// TotalPair creates both sides of a game total for one book
func TotalPair(bookKey string, point float64, overPrice, underPrice int) []models.Quote {
	return overUnder(bookKey, models.MarketTotals, "", point, overPrice, underPrice)
}

// PropPair creates both sides of a player prop for one book
func PropPair(bookKey, marketKey, player string, point float64, overPrice, underPrice int) []models.Quote {
	return overUnder(bookKey, marketKey, player, point, overPrice, underPrice)
}

// MoneylinePair creates both sides of a moneyline for one book
func MoneylinePair(bookKey, home, away string, homePrice, awayPrice int) []models.Quote {
	return []models.Quote{
		QuoteFixture(func(q *models.Quote) {
			q.BookKey = bookKey
			q.MarketKey = models.MarketMoneyline
			q.OutcomeName = home
			q.Point = nil
			q.Price = homePrice
		}),
		QuoteFixture(func(q *models.Quote) {
			q.BookKey = bookKey
			q.MarketKey = models.MarketMoneyline
			q.OutcomeName = away
			q.Point = nil
			q.Price = awayPrice
		}),
	}
}

func overUnder(bookKey, marketKey, player string, point float64, overPrice, underPrice int) []models.Quote {
	over := point
	under := point
	return []models.Quote{
		QuoteFixture(func(q *models.Quote) {
			q.BookKey = bookKey
			q.MarketKey = marketKey
			q.OutcomeName = "Over"
			q.Description = player
			q.Point = &over
			q.Price = overPrice
		}),
		QuoteFixture(func(q *models.Quote) {
			q.BookKey = bookKey
			q.MarketKey = marketKey
			q.OutcomeName = "Under"
			q.Description = player
			q.Point = &under
			q.Price = underPrice
		}),
	}
}

// Concat flattens quote groups into one snapshot
func Concat(groups ...[]models.Quote) []models.Quote {
	var all []models.Quote
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// Classification returns a small sharp/weighted classification for tests
func Classification() models.BookmakerClassification {
	return models.BookmakerClassification{
		Sharp:         []string{"pinnacle", "circasports", "bookmaker"},
		ReferenceBook: "pinnacle",
		PropWeights: map[string]float64{
			"pinnacle":    1.0,
			"circasports": 0.9,
			"bookmaker":   0.8,
			"fanduel":     0.7,
			"draftkings":  0.6,
		},
		DisplayNames: map[string]string{
			"pinnacle":   "Pinnacle",
			"fanduel":    "FanDuel",
			"draftkings": "DraftKings",
		},
	}
}

// Sensitivity returns a sensitivity table for tests
func Sensitivity() models.SensitivityTable {
	return models.SensitivityTable{
		Rates: map[string]map[string]float64{
			"basketball_nba": {
				"points":   0.02,
				"rebounds": 0.05,
				"blocks":   0.08,
				"spread":   0.03,
				"total":    0.015,
			},
		},
		DefaultRate: 0.02,
	}
}

// GameLog builds n identical games with the given per-game line
func GameLog(n int, game models.GameLogEntry) []models.GameLogEntry {
	games := make([]models.GameLogEntry, n)
	for i := range games {
		g := game
		g.GameDate = time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i)
		games[i] = g
	}
	return games
}

// ScorerGame is a typical 25-point scorer's box score
func ScorerGame() models.GameLogEntry {
	return models.GameLogEntry{
		Opponent:  "BOS",
		Minutes:   35,
		Points:    25,
		Rebounds:  7,
		Assists:   6,
		Steals:    1,
		Blocks:    1,
		Turnovers: 3,
		FGM:       9,
		FGA:       19,
		FG3M:      2,
		FG3A:      6,
		FTM:       5,
		FTA:       6,
	}
}

// VariedScorerLog is a 10-game window with realistic game-to-game variance
func VariedScorerLog() []models.GameLogEntry {
	minutes := []float64{34, 36, 31, 38, 35, 33, 37, 30, 36, 35}
	fgm := []float64{9, 11, 7, 12, 9, 8, 10, 6, 10, 9}
	fga := []float64{19, 21, 17, 23, 18, 18, 20, 15, 21, 19}
	fg3m := []float64{2, 3, 1, 4, 2, 1, 3, 1, 2, 2}
	fg3a := []float64{6, 7, 5, 8, 6, 5, 7, 4, 6, 6}
	ftm := []float64{5, 6, 4, 7, 5, 4, 6, 3, 6, 5}
	fta := []float64{6, 7, 5, 8, 6, 5, 7, 4, 7, 6}
	reb := []float64{7, 8, 5, 9, 7, 6, 8, 5, 7, 7}
	ast := []float64{6, 5, 7, 4, 6, 6, 5, 8, 6, 6}

	games := make([]models.GameLogEntry, len(minutes))
	for i := range games {
		games[i] = models.GameLogEntry{
			GameDate:  time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -2*i),
			Opponent:  "OPP",
			Minutes:   minutes[i],
			FGM:       fgm[i],
			FGA:       fga[i],
			FG3M:      fg3m[i],
			FG3A:      fg3a[i],
			FTM:       ftm[i],
			FTA:       fta[i],
			Points:    2*(fgm[i]-fg3m[i]) + 3*fg3m[i] + ftm[i],
			Rebounds:  reb[i],
			Assists:   ast[i],
			Steals:    1,
			Blocks:    1,
			Turnovers: 3,
		}
	}
	return games
}
