package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a lookup matches no rows
var ErrNotFound = errors.New("not found")

// Client reads quotes, game logs and bookmaker metadata from Alexandria
type Client struct {
	db *sql.DB
}

// NewClient opens and pings an Alexandria connection pool
func NewClient(dsn string) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

// NewClientFromDB wraps an existing connection pool
func NewClientFromDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// Ping checks database connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.db.Close()
}

const quoteColumns = `
	SELECT event_id, book_key, market_key, outcome_name, price, point,
	       COALESCE(player_name, ''), vendor_last_update
	FROM odds_raw
	WHERE is_latest = true
	  AND event_id = $1
`

// GetQuotes implements contracts.QuoteSource
func (c *Client) GetQuotes(ctx context.Context, eventID string) ([]models.Quote, error) {
	query := quoteColumns + " ORDER BY market_key, book_key, outcome_name"

	rows, err := c.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

func scanQuotes(rows *sql.Rows) ([]models.Quote, error) {
	var quotes []models.Quote
	for rows.Next() {
		var (
			q          models.Quote
			point      sql.NullFloat64
			lastUpdate sql.NullTime
		)
		if err := rows.Scan(
			&q.EventID, &q.BookKey, &q.MarketKey, &q.OutcomeName,
			&q.Price, &point, &q.Description, &lastUpdate,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}

		if point.Valid {
			p := point.Float64
			q.Point = &p
		}
		if lastUpdate.Valid {
			q.LastUpdate = lastUpdate.Time
		}
		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

// GetGameLog implements contracts.GameLogSource
func (c *Client) GetGameLog(ctx context.Context, sportKey, player string, limit int) ([]models.GameLogEntry, error) {
	query := `
		SELECT game_date, opponent, minutes, points, rebounds, assists,
		       steals, blocks, turnovers, fgm, fga, fg3m, fg3a, ftm, fta
		FROM player_game_logs
		WHERE sport_key = $1
		  AND LOWER(player_name) = LOWER($2)
		  AND minutes > 0
		ORDER BY game_date DESC
		LIMIT $3
	`

	rows, err := c.db.QueryContext(ctx, query, sportKey, player, limit)
	if err != nil {
		return nil, fmt.Errorf("query game log: %w", err)
	}
	defer rows.Close()

	var games []models.GameLogEntry
	for rows.Next() {
		var g models.GameLogEntry
		if err := rows.Scan(
			&g.GameDate, &g.Opponent, &g.Minutes, &g.Points, &g.Rebounds, &g.Assists,
			&g.Steals, &g.Blocks, &g.Turnovers, &g.FGM, &g.FGA, &g.FG3M, &g.FG3A, &g.FTM, &g.FTA,
		); err != nil {
			return nil, fmt.Errorf("scan game log: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game log: %w", err)
	}

	return games, nil
}

// GetSeasonAverages implements contracts.GameLogSource. Averages cover the
// latest season stored for the sport.
func (c *Client) GetSeasonAverages(ctx context.Context, sportKey, player string) (*models.SeasonAverages, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(minutes), 0), COALESCE(AVG(points), 0), COALESCE(AVG(rebounds), 0),
		       COALESCE(AVG(assists), 0), COALESCE(AVG(steals), 0), COALESCE(AVG(blocks), 0),
		       COALESCE(AVG(turnovers), 0), COALESCE(AVG(fgm), 0), COALESCE(AVG(fga), 0),
		       COALESCE(AVG(fg3m), 0), COALESCE(AVG(fg3a), 0), COALESCE(AVG(ftm), 0),
		       COALESCE(AVG(fta), 0)
		FROM player_game_logs
		WHERE sport_key = $1
		  AND LOWER(player_name) = LOWER($2)
		  AND minutes > 0
		  AND season = (SELECT MAX(season) FROM player_game_logs WHERE sport_key = $1)
	`

	var avg models.SeasonAverages
	err := c.db.QueryRowContext(ctx, query, sportKey, player).Scan(
		&avg.GamesPlayed, &avg.Minutes, &avg.Points, &avg.Rebounds,
		&avg.Assists, &avg.Steals, &avg.Blocks,
		&avg.Turnovers, &avg.FGM, &avg.FGA,
		&avg.FG3M, &avg.FG3A, &avg.FTM,
		&avg.FTA,
	)
	if err == sql.ErrNoRows || (err == nil && avg.GamesPlayed == 0) {
		return nil, fmt.Errorf("season averages for %s: %w", player, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query season averages: %w", err)
	}

	return &avg, nil
}
