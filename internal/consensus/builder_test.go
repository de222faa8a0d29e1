package consensus_test

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/consensus"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

func newBuilder() *consensus.Builder {
	return consensus.NewBuilder(testutil.Classification(), 2.0, 0.5)
}

func spreadSelection(point float64) models.Selection {
	return models.Selection{
		SportKey:    "basketball_nba",
		MarketKey:   models.MarketSpreads,
		OutcomeName: "Los Angeles Lakers",
		Point:       models.Float64Ptr(point),
		Price:       -110,
	}
}

func TestGameLineConfidenceByDistance(t *testing.T) {
	quotes := testutil.SpreadPair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -3.5, -110, -110)

	tests := []struct {
		name           string
		requested      float64
		wantFound      bool
		wantConfidence float64
		wantDistance   float64
	}{
		{"exact line", -3.5, true, 100, 0},
		{"one point away", -4.5, true, 97, 1},
		{"two points away", -5.5, true, 95, 2},
		{"half point beyond tolerance", -6.0, false, 0, 0},
		{"far beyond tolerance", -10.5, false, 0, 0},
	}

	b := newBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, found := b.GameLine(spreadSelection(tt.requested), quotes)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if !found {
				return
			}

			if c.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", c.Confidence, tt.wantConfidence)
			}
			if c.LineDistance != tt.wantDistance {
				t.Errorf("LineDistance = %v, want %v", c.LineDistance, tt.wantDistance)
			}
			if c.Line != -3.5 {
				t.Errorf("Line = %v, want -3.5", c.Line)
			}
			if c.Probability != 0.5 {
				t.Errorf("Probability = %v, want 0.5", c.Probability)
			}
			if c.Source != models.SourceSharp {
				t.Errorf("Source = %v, want sharp", c.Source)
			}
		})
	}
}

func TestGameLineConfidenceStrictlyDecreases(t *testing.T) {
	quotes := testutil.SpreadPair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -3.5, -110, -110)
	b := newBuilder()

	prev := math.Inf(1)
	for _, requested := range []float64{-3.5, -4.5, -5.5} {
		c, found := b.GameLine(spreadSelection(requested), quotes)
		if !found {
			t.Fatalf("no consensus at %v", requested)
		}
		if c.Confidence >= prev {
			t.Errorf("confidence at %v = %v, not below %v", requested, c.Confidence, prev)
		}
		prev = c.Confidence
	}
}

func TestGameLinePrefersExactLine(t *testing.T) {
	quotes := testutil.Concat(
		testutil.SpreadPair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -4.5, -105, -115),
		testutil.SpreadPair("circasports", "Los Angeles Lakers", "Boston Celtics", -3.5, -110, -110),
	)

	c, found := newBuilder().GameLine(spreadSelection(-3.5), quotes)
	if !found {
		t.Fatal("expected consensus")
	}
	if c.Books[0] != "circasports" {
		t.Errorf("Books = %v, want circasports (exact line)", c.Books)
	}
	if c.Confidence != 100 {
		t.Errorf("Confidence = %v, want 100", c.Confidence)
	}
}

func TestGameLinePrefersReferenceBook(t *testing.T) {
	quotes := testutil.Concat(
		testutil.SpreadPair("circasports", "Los Angeles Lakers", "Boston Celtics", -3.5, -105, -115),
		testutil.SpreadPair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -3.5, -110, -110),
		testutil.SpreadPair("bookmaker", "Los Angeles Lakers", "Boston Celtics", -3.5, -115, -105),
	)

	c, found := newBuilder().GameLine(spreadSelection(-3.5), quotes)
	if !found {
		t.Fatal("expected consensus")
	}
	if len(c.Books) != 1 || c.Books[0] != "pinnacle" {
		t.Errorf("Books = %v, want [pinnacle]", c.Books)
	}
	if c.Probability != 0.5 {
		t.Errorf("Probability = %v, want 0.5", c.Probability)
	}
}

func TestGameLineFirstBookWithoutReference(t *testing.T) {
	quotes := testutil.Concat(
		testutil.SpreadPair("circasports", "Los Angeles Lakers", "Boston Celtics", -3.5, -105, -115),
		testutil.SpreadPair("bookmaker", "Los Angeles Lakers", "Boston Celtics", -3.5, -115, -105),
	)

	c, found := newBuilder().GameLine(spreadSelection(-3.5), quotes)
	if !found {
		t.Fatal("expected consensus")
	}
	if c.Books[0] != "circasports" {
		t.Errorf("Books = %v, want first in snapshot order (circasports)", c.Books)
	}
}

func TestGameLineMissingOppositeSide(t *testing.T) {
	quotes := []models.Quote{
		testutil.QuoteFixture(), // Lakers -3.5 -110 at pinnacle, no Celtics side
	}

	c, found := newBuilder().GameLine(spreadSelection(-3.5), quotes)
	if !found {
		t.Fatal("expected consensus")
	}
	if c.VigRemoved {
		t.Error("VigRemoved = true, want false")
	}
	if math.Abs(c.Probability-0.5238) > 0.0001 {
		t.Errorf("Probability = %f, want raw implied 0.5238", c.Probability)
	}
	if c.Confidence != 90 {
		t.Errorf("Confidence = %v, want 90", c.Confidence)
	}
}

func TestGameLineIgnoresSoftBooks(t *testing.T) {
	quotes := testutil.Concat(
		testutil.SpreadPair("fanduel", "Los Angeles Lakers", "Boston Celtics", -3.5, -110, -110),
		testutil.SpreadPair("draftkings", "Los Angeles Lakers", "Boston Celtics", -3.5, -108, -112),
	)

	if _, found := newBuilder().GameLine(spreadSelection(-3.5), quotes); found {
		t.Error("expected no consensus from soft books")
	}
}

func TestGameLineMoneyline(t *testing.T) {
	quotes := testutil.MoneylinePair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -200, 170)
	sel := models.Selection{
		MarketKey:   models.MarketMoneyline,
		OutcomeName: "Los Angeles Lakers",
	}

	c, found := newBuilder().Build(sel, quotes)
	if !found {
		t.Fatal("expected consensus")
	}
	if math.Abs(c.Probability-0.6429) > 0.001 {
		t.Errorf("Probability = %f, want ~0.6429", c.Probability)
	}
	if c.Confidence != 100 {
		t.Errorf("Confidence = %v, want 100", c.Confidence)
	}
}

func TestGameLineClampsProbability(t *testing.T) {
	quotes := testutil.MoneylinePair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -100000, 50000)
	sel := models.Selection{MarketKey: models.MarketMoneyline, OutcomeName: "Boston Celtics"}

	c, found := newBuilder().GameLine(sel, quotes)
	if !found {
		t.Fatal("expected consensus")
	}
	if c.Probability < 0.01 || c.Probability >= 1 {
		t.Errorf("Probability = %v, want clamped into [0.01, 0.99]", c.Probability)
	}
}

func TestSoftConsensus(t *testing.T) {
	quotes := testutil.Concat(
		testutil.SpreadPair("fanduel", "Los Angeles Lakers", "Boston Celtics", -3.5, -110, -110),
		testutil.SpreadPair("draftkings", "Los Angeles Lakers", "Boston Celtics", -3.5, -110, -110),
		testutil.SpreadPair("betmgm", "Los Angeles Lakers", "Boston Celtics", -4.5, -130, 110),
	)

	c, found := newBuilder().Soft(spreadSelection(-3.5), quotes)
	if !found {
		t.Fatal("expected soft consensus")
	}
	if c.Source != models.SourceSoft {
		t.Errorf("Source = %v, want soft", c.Source)
	}
	if len(c.Books) != 2 {
		t.Errorf("Books = %v, want the two books at -3.5", c.Books)
	}
	if c.Probability != 0.5 {
		t.Errorf("Probability = %v, want 0.5", c.Probability)
	}
	if c.Confidence != 70 {
		t.Errorf("Confidence = %v, want 70", c.Confidence)
	}
	if c.IsSharp() {
		t.Error("soft consensus reported as sharp")
	}
}

func TestMarketLine(t *testing.T) {
	tests := []struct {
		name      string
		quotes    []models.Quote
		requested float64
		want      float64
		wantFound bool
	}{
		{
			name: "most quoted line wins",
			quotes: testutil.Concat(
				testutil.SpreadPair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -6.5, -110, -110),
				testutil.SpreadPair("fanduel", "Los Angeles Lakers", "Boston Celtics", -6.5, -110, -110),
				testutil.SpreadPair("draftkings", "Los Angeles Lakers", "Boston Celtics", -7.0, -110, -110),
			),
			requested: -3.5,
			want:      -6.5,
			wantFound: true,
		},
		{
			name: "tie goes to closest line",
			quotes: testutil.Concat(
				testutil.SpreadPair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -9.5, -110, -110),
				testutil.SpreadPair("fanduel", "Los Angeles Lakers", "Boston Celtics", -6.5, -110, -110),
			),
			requested: -3.5,
			want:      -6.5,
			wantFound: true,
		},
		{
			name:      "no quotes",
			quotes:    nil,
			requested: -3.5,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := consensus.MarketLine(spreadSelection(tt.requested), tt.quotes)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && got != tt.want {
				t.Errorf("MarketLine = %v, want %v", got, tt.want)
			}
		})
	}
}
