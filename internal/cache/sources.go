package cache

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

// GameLogStore is the cache side of GameLogs
type GameLogStore interface {
	ReadGameLog(ctx context.Context, sportKey, player string, limit int) ([]models.GameLogEntry, bool, error)
	WriteGameLog(ctx context.Context, sportKey, player string, limit int, games []models.GameLogEntry) error
	ReadSeasonAverages(ctx context.Context, sportKey, player string) (*models.SeasonAverages, bool, error)
	WriteSeasonAverages(ctx context.Context, sportKey, player string, avg *models.SeasonAverages) error
}

// QuoteStore is the cache side of Quotes
type QuoteStore interface {
	ReadQuotes(ctx context.Context, eventID string) ([]models.Quote, bool, error)
	WriteQuotes(ctx context.Context, eventID string, quotes []models.Quote) error
}

// GameLogs is a cache-aside GameLogSource. Cache errors are logged and
// bypassed; only the underlying source can fail a lookup.
type GameLogs struct {
	cache  GameLogStore
	source contracts.GameLogSource
}

// NewGameLogs wraps source with a cache
func NewGameLogs(cache GameLogStore, source contracts.GameLogSource) *GameLogs {
	return &GameLogs{cache: cache, source: source}
}

// GetGameLog implements contracts.GameLogSource
func (g *GameLogs) GetGameLog(ctx context.Context, sportKey, player string, limit int) ([]models.GameLogEntry, error) {
	games, ok, err := g.cache.ReadGameLog(ctx, sportKey, player, limit)
	if err != nil {
		fmt.Printf("⚠️  Game log cache read failed: %v\n", err)
	} else if ok {
		return games, nil
	}

	games, err = g.source.GetGameLog(ctx, sportKey, player, limit)
	if err != nil {
		return nil, fmt.Errorf("loading game log for %s: %w", player, err)
	}

	// Empty logs are not cached so a newly tracked player shows up on the next request
	if len(games) > 0 {
		if err := g.cache.WriteGameLog(ctx, sportKey, player, limit, games); err != nil {
			fmt.Printf("⚠️  Game log cache write failed: %v\n", err)
		}
	}

	return games, nil
}

// GetSeasonAverages implements contracts.GameLogSource
func (g *GameLogs) GetSeasonAverages(ctx context.Context, sportKey, player string) (*models.SeasonAverages, error) {
	avg, ok, err := g.cache.ReadSeasonAverages(ctx, sportKey, player)
	if err != nil {
		fmt.Printf("⚠️  Season cache read failed: %v\n", err)
	} else if ok {
		return avg, nil
	}

	avg, err = g.source.GetSeasonAverages(ctx, sportKey, player)
	if err != nil {
		return nil, fmt.Errorf("loading season averages for %s: %w", player, err)
	}

	if err := g.cache.WriteSeasonAverages(ctx, sportKey, player, avg); err != nil {
		fmt.Printf("⚠️  Season cache write failed: %v\n", err)
	}

	return avg, nil
}

// Quotes is a cache-aside QuoteSource with a short TTL, so a burst of analyses
// on one event shares a single snapshot
type Quotes struct {
	cache  QuoteStore
	source contracts.QuoteSource
}

// NewQuotes wraps source with a cache
func NewQuotes(cache QuoteStore, source contracts.QuoteSource) *Quotes {
	return &Quotes{cache: cache, source: source}
}

// GetQuotes implements contracts.QuoteSource
func (q *Quotes) GetQuotes(ctx context.Context, eventID string) ([]models.Quote, error) {
	quotes, ok, err := q.cache.ReadQuotes(ctx, eventID)
	if err != nil {
		fmt.Printf("⚠️  Quote cache read failed: %v\n", err)
	} else if ok {
		return quotes, nil
	}

	quotes, err = q.source.GetQuotes(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("loading quotes for event %s: %w", eventID, err)
	}

	if len(quotes) > 0 {
		if err := q.cache.WriteQuotes(ctx, eventID, quotes); err != nil {
			fmt.Printf("⚠️  Quote cache write failed: %v\n", err)
		}
	}

	return quotes, nil
}
