package consensus_test

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

const pointsMarket = "player_points"

func propSelection(point float64) models.Selection {
	return models.Selection{
		SportKey:    "basketball_nba",
		MarketKey:   pointsMarket,
		OutcomeName: "Over",
		Point:       models.Float64Ptr(point),
		Description: "LeBron James",
		Price:       -110,
	}
}

func TestPlayerPropIdenticalBooks(t *testing.T) {
	quotes := testutil.Concat(
		testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 24.5, -130, 110),
		testutil.PropPair("circasports", pointsMarket, "LeBron James", 24.5, -130, 110),
		testutil.PropPair("fanduel", pointsMarket, "LeBron James", 24.5, -130, 110),
	)

	c, found := newBuilder().Build(propSelection(24.5), quotes)
	if !found {
		t.Fatal("expected consensus")
	}

	if c.Confidence != 100 {
		t.Errorf("Confidence = %v, want 100", c.Confidence)
	}
	if c.Agreement != 1 {
		t.Errorf("Agreement = %v, want 1", c.Agreement)
	}
	if len(c.Books) != 3 {
		t.Errorf("Books = %v, want 3 books", c.Books)
	}
	if math.Abs(c.Probability-0.5427) > 0.0001 {
		t.Errorf("Probability = %f, want 0.5427", c.Probability)
	}
	if c.Source != models.SourceWeighted {
		t.Errorf("Source = %v, want weighted", c.Source)
	}
}

func TestPlayerPropWeightedAverage(t *testing.T) {
	quotes := testutil.Concat(
		testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 24.5, -110, -110), // 0.5000, weight 1.0
		testutil.PropPair("fanduel", pointsMarket, "LeBron James", 24.5, -150, 130),   // 0.5798, weight 0.7
	)

	c, found := newBuilder().PlayerProp(propSelection(24.5), quotes)
	if !found {
		t.Fatal("expected consensus")
	}

	if math.Abs(c.Probability-0.53287) > 0.0001 {
		t.Errorf("Probability = %f, want 0.53287", c.Probability)
	}

	// Disagreement pulls confidence toward 85
	if math.Abs(c.Confidence-88.025) > 0.01 {
		t.Errorf("Confidence = %f, want ~88.025", c.Confidence)
	}
	if c.Confidence >= 100 || c.Confidence < 85 {
		t.Errorf("Confidence = %f, want in [85, 100)", c.Confidence)
	}
}

func TestPlayerPropFiltering(t *testing.T) {
	tests := []struct {
		name      string
		quotes    []models.Quote
		wantFound bool
		wantBooks int
	}{
		{
			name: "unweighted books ignored",
			quotes: testutil.Concat(
				testutil.PropPair("betmgm", pointsMarket, "LeBron James", 24.5, -110, -110),
				testutil.PropPair("caesars", pointsMarket, "LeBron James", 24.5, -110, -110),
			),
			wantFound: false,
		},
		{
			name: "line beyond half point ignored",
			quotes: testutil.Concat(
				testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 24.5, -110, -110),
				testutil.PropPair("fanduel", pointsMarket, "LeBron James", 25.5, -110, -110),
			),
			wantFound: true,
			wantBooks: 1,
		},
		{
			name: "half point away still counts",
			quotes: testutil.Concat(
				testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 24.5, -110, -110),
				testutil.PropPair("fanduel", pointsMarket, "LeBron James", 25.0, -110, -110),
			),
			wantFound: true,
			wantBooks: 2,
		},
		{
			name: "one-sided book skipped",
			quotes: testutil.Concat(
				testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 24.5, -110, -110),
				testutil.PropPair("fanduel", pointsMarket, "LeBron James", 24.5, -110, -110)[:1],
			),
			wantFound: true,
			wantBooks: 1,
		},
		{
			name: "other player ignored",
			quotes: testutil.Concat(
				testutil.PropPair("pinnacle", pointsMarket, "Anthony Davis", 24.5, -110, -110),
			),
			wantFound: false,
		},
	}

	b := newBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, found := b.PlayerProp(propSelection(24.5), tt.quotes)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && len(c.Books) != tt.wantBooks {
				t.Errorf("Books = %v, want %d books", c.Books, tt.wantBooks)
			}
		})
	}
}

func TestPlayerPropUsesClosestLinePerBook(t *testing.T) {
	quotes := testutil.Concat(
		testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 25.0, -150, 130),
		testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 24.5, -110, -110),
	)

	c, found := newBuilder().PlayerProp(propSelection(24.5), quotes)
	if !found {
		t.Fatal("expected consensus")
	}
	if len(c.Books) != 1 {
		t.Fatalf("Books = %v, want one entry per book", c.Books)
	}
	if c.Probability != 0.5 {
		t.Errorf("Probability = %v, want 0.5 from the exact line", c.Probability)
	}
	if c.Line != 24.5 || c.LineDistance != 0 {
		t.Errorf("Line = %v (distance %v), want 24.5 (0)", c.Line, c.LineDistance)
	}
}

func TestPlayerPropDominantLine(t *testing.T) {
	quotes := testutil.Concat(
		testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 25.0, -110, -110),
		testutil.PropPair("circasports", pointsMarket, "LeBron James", 25.0, -110, -110),
		testutil.PropPair("fanduel", pointsMarket, "LeBron James", 24.5, -110, -110),
	)

	c, found := newBuilder().PlayerProp(propSelection(24.5), quotes)
	if !found {
		t.Fatal("expected consensus")
	}
	if c.Line != 25.0 {
		t.Errorf("Line = %v, want 25.0 (most weight)", c.Line)
	}
	if c.LineDistance != 0.5 {
		t.Errorf("LineDistance = %v, want 0.5", c.LineDistance)
	}
	if c.Confidence != 99 {
		t.Errorf("Confidence = %v, want 100 - 2×0.5", c.Confidence)
	}
}

func TestPlayerPropConfidenceDecaysWithDistance(t *testing.T) {
	b := newBuilder()
	atLine := func(point float64) []models.Quote {
		return testutil.Concat(
			testutil.PropPair("pinnacle", pointsMarket, "LeBron James", point, -130, 110),
			testutil.PropPair("circasports", pointsMarket, "LeBron James", point, -130, 110),
		)
	}

	exact, found := b.PlayerProp(propSelection(24.5), atLine(24.5))
	if !found {
		t.Fatal("expected consensus at the requested line")
	}
	near, found := b.PlayerProp(propSelection(24.5), atLine(24.0))
	if !found {
		t.Fatal("expected consensus half a point away")
	}

	if near.LineDistance != 0.5 {
		t.Errorf("LineDistance = %v, want 0.5", near.LineDistance)
	}
	if near.Confidence >= exact.Confidence {
		t.Errorf("Confidence at 0.5 = %v, want below exact-line %v", near.Confidence, exact.Confidence)
	}
	if exact.Confidence != 100 || near.Confidence != 99 {
		t.Errorf("Confidence = %v / %v, want 100 / 99", exact.Confidence, near.Confidence)
	}
}

func TestPlayerPropNeverBlendsPlayers(t *testing.T) {
	noSubject := propSelection(24.5)
	noSubject.Description = ""

	tests := []struct {
		name      string
		quotes    []models.Quote
		wantFound bool
	}{
		{
			name: "two players",
			quotes: testutil.Concat(
				testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 24.5, -200, 165),
				testutil.PropPair("circasports", pointsMarket, "Anthony Davis", 24.5, 150, -180),
			),
			wantFound: false,
		},
		{
			name: "one player",
			quotes: testutil.Concat(
				testutil.PropPair("pinnacle", pointsMarket, "LeBron James", 24.5, -200, 165),
				testutil.PropPair("circasports", pointsMarket, "LeBron James", 24.5, -190, 160),
			),
			wantFound: true,
		},
	}

	b := newBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, found := b.PlayerProp(noSubject, tt.quotes)
			if found != tt.wantFound {
				t.Fatalf("found = %v (probability %v, books %v), want %v", found, c.Probability, c.Books, tt.wantFound)
			}

			if _, found := b.Soft(noSubject, tt.quotes); found != tt.wantFound {
				t.Errorf("Soft found = %v, want %v", found, tt.wantFound)
			}
		})
	}
}
