package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/redis/go-redis/v9"
)

// TTL defaults
const (
	DefaultGameLogTTL = 30 * time.Minute
	DefaultQuoteTTL   = 15 * time.Second
	SeasonTTL         = 6 * time.Hour
)

// RedisCache stores game logs, season averages and quote snapshots in Redis
type RedisCache struct {
	client     *redis.Client
	gameLogTTL time.Duration
	quoteTTL   time.Duration
}

// NewRedisCache creates a Redis cache. Zero TTLs use the defaults.
func NewRedisCache(client *redis.Client, gameLogTTL, quoteTTL time.Duration) *RedisCache {
	if gameLogTTL <= 0 {
		gameLogTTL = DefaultGameLogTTL
	}
	if quoteTTL <= 0 {
		quoteTTL = DefaultQuoteTTL
	}
	return &RedisCache{
		client:     client,
		gameLogTTL: gameLogTTL,
		quoteTTL:   quoteTTL,
	}
}

// GameLogKey is the cache key for a player's recent games
func GameLogKey(sportKey, player string, limit int) string {
	return fmt.Sprintf("gamelog:%s:%s:%d", sportKey, playerSlug(player), limit)
}

// SeasonKey is the cache key for a player's season averages
func SeasonKey(sportKey, player string) string {
	return fmt.Sprintf("season:%s:%s", sportKey, playerSlug(player))
}

// QuotesKey is the cache key for an event's quote snapshot
func QuotesKey(eventID string) string {
	return fmt.Sprintf("quotes:%s", eventID)
}

func playerSlug(player string) string {
	return strings.Join(strings.Fields(strings.ToLower(player)), "-")
}

// ReadGameLog returns a cached game log; ok is false on a miss
func (c *RedisCache) ReadGameLog(ctx context.Context, sportKey, player string, limit int) ([]models.GameLogEntry, bool, error) {
	var games []models.GameLogEntry
	ok, err := c.read(ctx, GameLogKey(sportKey, player, limit), &games)
	return games, ok, err
}

// WriteGameLog caches a game log
func (c *RedisCache) WriteGameLog(ctx context.Context, sportKey, player string, limit int, games []models.GameLogEntry) error {
	return c.write(ctx, GameLogKey(sportKey, player, limit), games, c.gameLogTTL)
}

// ReadSeasonAverages returns cached season averages; ok is false on a miss
func (c *RedisCache) ReadSeasonAverages(ctx context.Context, sportKey, player string) (*models.SeasonAverages, bool, error) {
	var avg models.SeasonAverages
	ok, err := c.read(ctx, SeasonKey(sportKey, player), &avg)
	if !ok || err != nil {
		return nil, ok, err
	}
	return &avg, true, nil
}

// WriteSeasonAverages caches season averages
func (c *RedisCache) WriteSeasonAverages(ctx context.Context, sportKey, player string, avg *models.SeasonAverages) error {
	return c.write(ctx, SeasonKey(sportKey, player), avg, SeasonTTL)
}

// ReadQuotes returns a cached quote snapshot; ok is false on a miss
func (c *RedisCache) ReadQuotes(ctx context.Context, eventID string) ([]models.Quote, bool, error) {
	var quotes []models.Quote
	ok, err := c.read(ctx, QuotesKey(eventID), &quotes)
	return quotes, ok, err
}

// WriteQuotes caches a quote snapshot
func (c *RedisCache) WriteQuotes(ctx context.Context, eventID string, quotes []models.Quote) error {
	return c.write(ctx, QuotesKey(eventID), quotes, c.quoteTTL)
}

// Ping checks Redis connectivity
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) read(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshaling %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) write(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}
