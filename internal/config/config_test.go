package config_test

import (
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"EDGE_ANALYZER_PORT", "ANALYSIS_TIMEOUT_SECONDS", "CORS_ALLOWED_ORIGINS",
		"ALEXANDRIA_DSN", "REDIS_URL", "REDIS_PASSWORD", "REDIS_DB",
		"SPORTS", "SIM_ITERATIONS", "BATCH_WORKERS", "PUBLISH_RESULTS",
		"GAMELOG_CACHE_TTL_MINUTES", "QUOTE_CACHE_TTL_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := config.LoadFromEnv()

	if cfg.Server.Port != "8086" {
		t.Errorf("Expected default port '8086', got '%s'", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 20*time.Second {
		t.Errorf("Expected default timeout 20s, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Database.DSN != "" {
		t.Errorf("Expected empty default DSN, got '%s'", cfg.Database.DSN)
	}
	if cfg.Redis.URL != "" {
		t.Errorf("Expected empty default redis URL, got '%s'", cfg.Redis.URL)
	}
	if cfg.Analysis.SimIterations != 10000 {
		t.Errorf("Expected 10000 iterations, got %d", cfg.Analysis.SimIterations)
	}
	if cfg.Analysis.BatchWorkers != 0 {
		t.Errorf("Expected 0 batch workers (one per CPU), got %d", cfg.Analysis.BatchWorkers)
	}
	if !cfg.Analysis.PublishResults {
		t.Error("Expected publishing enabled by default")
	}
	if cfg.Analysis.GameLogTTL != 30*time.Minute {
		t.Errorf("Expected 30m game log TTL, got %v", cfg.Analysis.GameLogTTL)
	}
	if len(cfg.Analysis.Sports) != 1 || cfg.Analysis.Sports[0] != "basketball_nba" {
		t.Errorf("Expected default sports [basketball_nba], got %v", cfg.Analysis.Sports)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDGE_ANALYZER_PORT", "9090")
	t.Setenv("ANALYSIS_TIMEOUT_SECONDS", "5")
	t.Setenv("REDIS_URL", "redis.example.com:6379")
	t.Setenv("SPORTS", "basketball_nba, americanfootball_nfl")
	t.Setenv("SIM_ITERATIONS", "20000")
	t.Setenv("BATCH_WORKERS", "4")
	t.Setenv("PUBLISH_RESULTS", "false")

	cfg := config.LoadFromEnv()

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Redis.URL != "redis.example.com:6379" {
		t.Errorf("Expected custom redis URL, got '%s'", cfg.Redis.URL)
	}
	if cfg.Analysis.SimIterations != 20000 {
		t.Errorf("Expected 20000 iterations, got %d", cfg.Analysis.SimIterations)
	}
	if cfg.Analysis.BatchWorkers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Analysis.BatchWorkers)
	}
	if cfg.Analysis.PublishResults {
		t.Error("Expected publishing disabled")
	}

	streams := cfg.ResultStreams()
	if len(streams) != 2 {
		t.Fatalf("Expected 2 result streams, got %d", len(streams))
	}
	if streams[1] != "analysis.results.americanfootball_nfl" {
		t.Errorf("Expected 'analysis.results.americanfootball_nfl', got '%s'", streams[1])
	}
}

func TestLoadFromEnv_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIM_ITERATIONS", "lots")
	t.Setenv("PUBLISH_RESULTS", "maybe")

	cfg := config.LoadFromEnv()

	if cfg.Analysis.SimIterations != 10000 {
		t.Errorf("Expected fallback 10000, got %d", cfg.Analysis.SimIterations)
	}
	if !cfg.Analysis.PublishResults {
		t.Error("Expected fallback true for unparseable bool")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIM_ITERATIONS", "-5")

	if err := config.LoadFromEnv().Validate(); err == nil {
		t.Error("Expected error for negative iterations")
	}
}

func TestGetEnvWeights(t *testing.T) {
	defaults := map[string]float64{"pinnacle": 1.0}

	tests := []struct {
		name  string
		value string
		want  map[string]float64
	}{
		{"unset uses default", "", defaults},
		{"parses pairs", "pinnacle:1.0, fanduel:0.7", map[string]float64{"pinnacle": 1.0, "fanduel": 0.7}},
		{"skips malformed", "pinnacle:1.0,fanduel,draftkings:abc,caesars:1.5", map[string]float64{"pinnacle": 1.0}},
		{"all malformed uses default", "fanduel", defaults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_PROP_WEIGHTS", tt.value)
			got := config.GetEnvWeights("TEST_PROP_WEIGHTS", defaults)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for book, w := range tt.want {
				if got[book] != w {
					t.Errorf("weight[%s] = %v, want %v", book, got[book], w)
				}
			}
		})
	}
}

func TestGetEnvStringSlice(t *testing.T) {
	t.Setenv("TEST_BOOKS", " pinnacle , ,circasports ")

	got := config.GetEnvStringSlice("TEST_BOOKS", nil)
	if len(got) != 2 || got[0] != "pinnacle" || got[1] != "circasports" {
		t.Errorf("got %v, want [pinnacle circasports]", got)
	}
}
