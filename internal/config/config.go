package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	RequestTimeout  time.Duration // Applied to every request; bounds pathological inputs
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the Alexandria connection
type DatabaseConfig struct {
	DSN string // Empty disables the Postgres-backed sources
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL      string // Empty disables caching and publishing
	Password string
	DB       int
}

// AnalysisConfig holds engine-wide analysis settings
type AnalysisConfig struct {
	Sports         []string
	SimIterations  int
	BatchWorkers   int // 0 = one per CPU
	PublishResults bool
	GameLogTTL     time.Duration
	QuoteTTL       time.Duration
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Analysis AnalysisConfig
}

// Load reads configuration from the environment, after loading a .env file if present
func Load() *Config {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv reads configuration from environment variables only
func LoadFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            GetEnv("EDGE_ANALYZER_PORT", "8086"),
			RequestTimeout:  time.Duration(GetEnvInt("ANALYSIS_TIMEOUT_SECONDS", 20)) * time.Second,
			AllowedOrigins:  GetEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN: GetEnv("ALEXANDRIA_DSN", ""),
		},
		Redis: RedisConfig{
			URL:      GetEnv("REDIS_URL", ""),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvInt("REDIS_DB", 0),
		},
		Analysis: AnalysisConfig{
			Sports:         GetEnvStringSlice("SPORTS", []string{"basketball_nba"}),
			SimIterations:  GetEnvInt("SIM_ITERATIONS", 10000),
			BatchWorkers:   GetEnvInt("BATCH_WORKERS", 0),
			PublishResults: GetEnvBool("PUBLISH_RESULTS", true),
			GameLogTTL:     time.Duration(GetEnvInt("GAMELOG_CACHE_TTL_MINUTES", 30)) * time.Minute,
			QuoteTTL:       time.Duration(GetEnvInt("QUOTE_CACHE_TTL_SECONDS", 15)) * time.Second,
		},
	}
}

// Validate checks settings that would otherwise fail at first use
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("EDGE_ANALYZER_PORT must not be empty")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("ANALYSIS_TIMEOUT_SECONDS must be positive")
	}
	if c.Analysis.SimIterations <= 0 {
		return fmt.Errorf("SIM_ITERATIONS must be positive, got %d", c.Analysis.SimIterations)
	}
	if len(c.Analysis.Sports) == 0 {
		return fmt.Errorf("SPORTS must name at least one sport")
	}
	return nil
}

// ResultStreams returns the Redis streams analysis results are published to
func (c *Config) ResultStreams() []string {
	streams := make([]string, 0, len(c.Analysis.Sports))
	for _, sport := range c.Analysis.Sports {
		sport = strings.TrimSpace(sport)
		if sport != "" {
			streams = append(streams, fmt.Sprintf("analysis.results.%s", sport))
		}
	}
	return streams
}
