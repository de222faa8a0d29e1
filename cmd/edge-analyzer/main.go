package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/cache"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/config"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/registry"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/store"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/sports/americanfootball_nfl"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/sports/basketball_nba"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

const classificationRefreshInterval = 5 * time.Minute

// sportConfigs builds the per-sport configurations this service knows about
var sportConfigs = map[string]func() contracts.SportConfig{
	"basketball_nba":       func() contracts.SportConfig { return basketball_nba.NewConfig() },
	"americanfootball_nfl": func() contracts.SportConfig { return americanfootball_nfl.NewConfig() },
}

func main() {
	fmt.Println("=== Fortuna Edge Analyzer v0 ===")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Register sports
	analyzers := registry.NewAnalyzerRegistry()
	for _, sportKey := range cfg.Analysis.Sports {
		newConfig, ok := sportConfigs[sportKey]
		if !ok {
			fmt.Printf("⚠️  Unknown sport %s, skipping\n", sportKey)
			continue
		}
		sportCfg := newConfig()
		if err := analyzers.Register(sportCfg); err != nil {
			fmt.Printf("❌ Failed to register %s: %v\n", sportKey, err)
			os.Exit(1)
		}
		c := sportCfg.GetClassification()
		fmt.Printf("✓ %s registered: sharp=%v reference=%s prop_books=%d\n",
			sportCfg.GetDisplayName(), c.Sharp, c.ReferenceBook, len(c.PropWeights))
	}
	if analyzers.Count() == 0 {
		fmt.Println("❌ No sports registered")
		os.Exit(1)
	}

	deps := handlers.Dependencies{
		Registry:     analyzers,
		Metrics:      metrics.New(),
		BatchWorkers: cfg.Analysis.BatchWorkers,
		HealthChecks: make(map[string]handlers.Pinger),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Alexandria DB (quotes, game logs, book classification)
	var alexandria *store.Client
	if cfg.Database.DSN != "" {
		client, err := store.NewClient(cfg.Database.DSN)
		if err != nil {
			fmt.Printf("❌ Failed to connect to Alexandria: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()
		alexandria = client
		fmt.Println("✓ Connected to Alexandria DB")

		deps.Quotes = alexandria
		deps.GameLogs = alexandria
		deps.HealthChecks["database"] = alexandria

		if err := analyzers.ReloadClassification(ctx, alexandria); err != nil {
			fmt.Printf("⚠️  Using configured classification: %v\n", err)
		}
	} else {
		fmt.Println("⚠️  ALEXANDRIA_DSN not set; requests must carry their own quotes and game logs")
	}

	// Connect to Redis (cache + result streams)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			fmt.Printf("❌ Invalid REDIS_URL: %v\n", err)
			os.Exit(1)
		}
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		if cfg.Redis.DB != 0 {
			opts.DB = cfg.Redis.DB
		}

		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Connected to Redis")

		redisCache := cache.NewRedisCache(redisClient, cfg.Analysis.GameLogTTL, cfg.Analysis.QuoteTTL)
		deps.HealthChecks["redis"] = redisCache

		if alexandria != nil {
			deps.Quotes = cache.NewQuotes(redisCache, alexandria)
			deps.GameLogs = cache.NewGameLogs(redisCache, alexandria)
			fmt.Printf("✓ Caching game logs for %v, quotes for %v\n", cfg.Analysis.GameLogTTL, cfg.Analysis.QuoteTTL)
		}

		if cfg.Analysis.PublishResults {
			deps.Publisher = publisher.NewStreamPublisher(redisClient)
			fmt.Printf("✓ Publishing results to %v\n", cfg.ResultStreams())
		}
	} else {
		fmt.Println("⚠️  REDIS_URL not set; caching and result publishing disabled")
	}

	handler := handlers.NewHandler(deps)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", handler.GetMetrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", handler.Analyze)
		r.Post("/analyze/batch", handler.AnalyzeBatch)
		r.Post("/simulate", handler.Simulate)
		r.Post("/consensus", handler.Consensus)
		r.Get("/sports", handler.GetSports)
		r.Get("/sports/{sport}", handler.GetSport)
	})

	// Keep the bookmaker classification in step with Alexandria
	if alexandria != nil {
		go func() {
			ticker := time.NewTicker(classificationRefreshInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := analyzers.ReloadClassification(ctx, alexandria); err != nil {
						fmt.Printf("⚠️  Classification refresh: %v\n", err)
					}
				}
			}
		}()
	}

	// Start metrics reporter
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := deps.Metrics.Snapshot()
				fmt.Printf("📊 Metrics: analyses=%d simulations=%d soft_fallbacks=%d errors=%d p50=%.1fms p99=%.1fms\n",
					s.AnalysesRun, s.SimulationsRun, s.SoftFallbacks, s.RequestErrors, s.AnalysisP50Millis, s.AnalysisP99Millis)
			}
		}
	}()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
	}

	// Start server in goroutine
	go func() {
		fmt.Printf("✓ Edge Analyzer started on port %s\n", cfg.Server.Port)
		fmt.Printf("  Sports: %v\n", analyzers.SportKeys())
		fmt.Printf("  Simulation iterations: %d\n", cfg.Analysis.SimIterations)
		fmt.Printf("  Request timeout: %v\n", cfg.Server.RequestTimeout)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	fmt.Printf("\n⚠️  Received signal: %v\n", sig)
	fmt.Println("🛑 Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("❌ Shutdown error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Edge Analyzer stopped")
}
