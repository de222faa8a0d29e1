package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/cache"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

var (
	_ contracts.GameLogSource = (*cache.GameLogs)(nil)
	_ contracts.QuoteSource   = (*cache.Quotes)(nil)
	_ cache.GameLogStore      = (*cache.RedisCache)(nil)
	_ cache.QuoteStore        = (*cache.RedisCache)(nil)
)

// memoryStore is an in-memory GameLogStore and QuoteStore
type memoryStore struct {
	games      map[string][]models.GameLogEntry
	seasons    map[string]*models.SeasonAverages
	quotes     map[string][]models.Quote
	shouldFail bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		games:   make(map[string][]models.GameLogEntry),
		seasons: make(map[string]*models.SeasonAverages),
		quotes:  make(map[string][]models.Quote),
	}
}

var errRedisDown = errors.New("redis: connection refused")

func (m *memoryStore) ReadGameLog(ctx context.Context, sportKey, player string, limit int) ([]models.GameLogEntry, bool, error) {
	if m.shouldFail {
		return nil, false, errRedisDown
	}
	games, ok := m.games[cache.GameLogKey(sportKey, player, limit)]
	return games, ok, nil
}

func (m *memoryStore) WriteGameLog(ctx context.Context, sportKey, player string, limit int, games []models.GameLogEntry) error {
	if m.shouldFail {
		return errRedisDown
	}
	m.games[cache.GameLogKey(sportKey, player, limit)] = games
	return nil
}

func (m *memoryStore) ReadSeasonAverages(ctx context.Context, sportKey, player string) (*models.SeasonAverages, bool, error) {
	if m.shouldFail {
		return nil, false, errRedisDown
	}
	avg, ok := m.seasons[cache.SeasonKey(sportKey, player)]
	return avg, ok, nil
}

func (m *memoryStore) WriteSeasonAverages(ctx context.Context, sportKey, player string, avg *models.SeasonAverages) error {
	if m.shouldFail {
		return errRedisDown
	}
	m.seasons[cache.SeasonKey(sportKey, player)] = avg
	return nil
}

func (m *memoryStore) ReadQuotes(ctx context.Context, eventID string) ([]models.Quote, bool, error) {
	if m.shouldFail {
		return nil, false, errRedisDown
	}
	quotes, ok := m.quotes[cache.QuotesKey(eventID)]
	return quotes, ok, nil
}

func (m *memoryStore) WriteQuotes(ctx context.Context, eventID string, quotes []models.Quote) error {
	if m.shouldFail {
		return errRedisDown
	}
	m.quotes[cache.QuotesKey(eventID)] = quotes
	return nil
}

// countingSource is a GameLogSource and QuoteSource that counts its calls
type countingSource struct {
	games       []models.GameLogEntry
	quotes      []models.Quote
	gameCalls   int
	seasonCalls int
	quoteCalls  int
	err         error
}

func (s *countingSource) GetGameLog(ctx context.Context, sportKey, player string, limit int) ([]models.GameLogEntry, error) {
	s.gameCalls++
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.games) {
		return s.games[:limit], nil
	}
	return s.games, nil
}

func (s *countingSource) GetSeasonAverages(ctx context.Context, sportKey, player string) (*models.SeasonAverages, error) {
	s.seasonCalls++
	if s.err != nil {
		return nil, s.err
	}
	avg := models.AveragesFromLog(s.games)
	return &avg, nil
}

func (s *countingSource) GetQuotes(ctx context.Context, eventID string) ([]models.Quote, error) {
	s.quoteCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

func TestGameLogsCacheAside(t *testing.T) {
	store := newMemoryStore()
	source := &countingSource{games: testutil.VariedScorerLog()}
	logs := cache.NewGameLogs(store, source)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		games, err := logs.GetGameLog(ctx, "basketball_nba", "LeBron James", 10)
		if err != nil {
			t.Fatalf("GetGameLog() error: %v", err)
		}
		if len(games) != 10 {
			t.Fatalf("got %d games, want 10", len(games))
		}
	}
	if source.gameCalls != 1 {
		t.Errorf("source called %d times, want 1", source.gameCalls)
	}

	// A different window is a different key
	if _, err := logs.GetGameLog(ctx, "basketball_nba", "LeBron James", 5); err != nil {
		t.Fatalf("GetGameLog() error: %v", err)
	}
	if source.gameCalls != 2 {
		t.Errorf("source called %d times, want 2", source.gameCalls)
	}

	for i := 0; i < 2; i++ {
		avg, err := logs.GetSeasonAverages(ctx, "basketball_nba", "lebron  james")
		if err != nil {
			t.Fatalf("GetSeasonAverages() error: %v", err)
		}
		if avg.GamesPlayed != 10 {
			t.Errorf("GamesPlayed = %d, want 10", avg.GamesPlayed)
		}
	}
	if source.seasonCalls != 1 {
		t.Errorf("season source called %d times, want 1", source.seasonCalls)
	}
}

func TestGameLogsEmptyNotCached(t *testing.T) {
	store := newMemoryStore()
	source := &countingSource{}
	logs := cache.NewGameLogs(store, source)

	for i := 0; i < 2; i++ {
		if _, err := logs.GetGameLog(context.Background(), "basketball_nba", "Rookie", 10); err != nil {
			t.Fatalf("GetGameLog() error: %v", err)
		}
	}
	if source.gameCalls != 2 {
		t.Errorf("source called %d times, want 2", source.gameCalls)
	}
}

func TestCacheFailureFallsThrough(t *testing.T) {
	store := newMemoryStore()
	store.shouldFail = true
	source := &countingSource{
		games:  testutil.VariedScorerLog(),
		quotes: testutil.SpreadPair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -3.5, -110, -110),
	}

	games, err := cache.NewGameLogs(store, source).GetGameLog(context.Background(), "basketball_nba", "LeBron James", 10)
	if err != nil || len(games) != 10 {
		t.Errorf("GetGameLog() = %d games, %v; want source data despite cache failure", len(games), err)
	}

	quotes, err := cache.NewQuotes(store, source).GetQuotes(context.Background(), "test-event-1")
	if err != nil || len(quotes) != 2 {
		t.Errorf("GetQuotes() = %d quotes, %v; want source data despite cache failure", len(quotes), err)
	}
}

func TestSourceErrorPropagates(t *testing.T) {
	sourceErr := errors.New("database down")
	source := &countingSource{err: sourceErr}

	_, err := cache.NewGameLogs(newMemoryStore(), source).GetGameLog(context.Background(), "basketball_nba", "LeBron James", 10)
	if !errors.Is(err, sourceErr) {
		t.Errorf("err = %v, want wrapped source error", err)
	}

	_, err = cache.NewQuotes(newMemoryStore(), source).GetQuotes(context.Background(), "test-event-1")
	if !errors.Is(err, sourceErr) {
		t.Errorf("err = %v, want wrapped source error", err)
	}
}

func TestQuotesCacheAside(t *testing.T) {
	source := &countingSource{
		quotes: testutil.SpreadPair("pinnacle", "Los Angeles Lakers", "Boston Celtics", -3.5, -110, -110),
	}
	quotes := cache.NewQuotes(newMemoryStore(), source)

	for i := 0; i < 3; i++ {
		if _, err := quotes.GetQuotes(context.Background(), "test-event-1"); err != nil {
			t.Fatalf("GetQuotes() error: %v", err)
		}
	}
	if source.quoteCalls != 1 {
		t.Errorf("source called %d times, want 1", source.quoteCalls)
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{cache.GameLogKey("basketball_nba", "LeBron James", 10), "gamelog:basketball_nba:lebron-james:10"},
		{cache.GameLogKey("basketball_nba", "  lebron   JAMES ", 10), "gamelog:basketball_nba:lebron-james:10"},
		{cache.SeasonKey("basketball_nba", "Nikola Jokić"), "season:basketball_nba:nikola-jokić"},
		{cache.QuotesKey("evt-42"), "quotes:evt-42"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %s, want %s", tt.got, tt.want)
		}
	}
}
