package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/analyzer"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

// entry pairs a sport's configuration with the analyzer built from it
type entry struct {
	config   contracts.SportConfig
	analyzer *analyzer.Analyzer
}

// AnalyzerRegistry manages per-sport analyzers
type AnalyzerRegistry struct {
	sports map[string]entry
	opts   []analyzer.Option
	mu     sync.RWMutex
}

// NewAnalyzerRegistry creates a new analyzer registry. opts apply to every analyzer it builds.
func NewAnalyzerRegistry(opts ...analyzer.Option) *AnalyzerRegistry {
	return &AnalyzerRegistry{
		sports: make(map[string]entry),
		opts:   opts,
	}
}

// Register builds an analyzer for the sport configuration and adds it to the registry
func (r *AnalyzerRegistry) Register(cfg contracts.SportConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sportKey := cfg.GetSportKey()
	if _, exists := r.sports[sportKey]; exists {
		return fmt.Errorf("analyzer for sport %s is already registered", sportKey)
	}

	r.sports[sportKey] = entry{config: cfg, analyzer: analyzer.New(cfg, r.opts...)}
	return nil
}

// Replace swaps in a new configuration for an already registered sport,
// e.g. after the bookmaker classification is reloaded
func (r *AnalyzerRegistry) Replace(cfg contracts.SportConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sportKey := cfg.GetSportKey()
	if _, exists := r.sports[sportKey]; !exists {
		return fmt.Errorf("no analyzer registered for sport %s", sportKey)
	}

	r.sports[sportKey] = entry{config: cfg, analyzer: analyzer.New(cfg, r.opts...)}
	return nil
}

// Get retrieves an analyzer by sport key
func (r *AnalyzerRegistry) Get(sportKey string) (*analyzer.Analyzer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.sports[sportKey]
	return e.analyzer, exists
}

// Config retrieves a sport's configuration
func (r *AnalyzerRegistry) Config(sportKey string) (contracts.SportConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.sports[sportKey]
	return e.config, exists
}

// SportKeys returns the registered sports in sorted order
func (r *AnalyzerRegistry) SportKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.sports))
	for key := range r.sports {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of registered sports
func (r *AnalyzerRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sports)
}

// classifiedConfig overrides a sport configuration's bookmaker classification
type classifiedConfig struct {
	contracts.SportConfig
	classification models.BookmakerClassification
}

func (c classifiedConfig) GetClassification() models.BookmakerClassification {
	return c.classification
}

// WithClassification returns cfg with its bookmaker classification replaced
func WithClassification(cfg contracts.SportConfig, classification models.BookmakerClassification) contracts.SportConfig {
	return classifiedConfig{SportConfig: cfg, classification: classification}
}

// baseConfig strips any classification override from cfg
func baseConfig(cfg contracts.SportConfig) contracts.SportConfig {
	if c, ok := cfg.(classifiedConfig); ok {
		return c.SportConfig
	}
	return cfg
}

// ReloadClassification merges the provider's bookmaker classification into every
// registered sport and rebuilds its analyzer. A sport whose load fails keeps its
// current analyzer; the first error is returned after all sports are tried.
func (r *AnalyzerRegistry) ReloadClassification(ctx context.Context, provider contracts.ClassificationProvider) error {
	var firstErr error

	for _, sportKey := range r.SportKeys() {
		cfg, _ := r.Config(sportKey)
		base := baseConfig(cfg)

		loaded, err := provider.GetClassification(ctx, sportKey)
		if err != nil {
			fmt.Printf("⚠️  Classification reload failed for %s: %v\n", sportKey, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("reload classification for %s: %w", sportKey, err)
			}
			continue
		}

		merged := MergeClassification(base.GetClassification(), loaded)
		if err := r.Replace(WithClassification(base, merged)); err != nil {
			return err
		}
		fmt.Printf("✓ %s classification: %d sharp, %d weighted prop books\n", sportKey, len(merged.Sharp), len(merged.PropWeights))
	}

	return firstErr
}

// MergeClassification combines configured and database classifications.
// Configured values win: a configured sharp list replaces the loaded one, and
// configured prop weights and display names override loaded entries for the same book.
func MergeClassification(configured, loaded models.BookmakerClassification) models.BookmakerClassification {
	merged := models.BookmakerClassification{
		Sharp:         configured.Sharp,
		ReferenceBook: configured.ReferenceBook,
		PropWeights:   make(map[string]float64, len(loaded.PropWeights)+len(configured.PropWeights)),
		DisplayNames:  make(map[string]string, len(loaded.DisplayNames)+len(configured.DisplayNames)),
	}

	if len(merged.Sharp) == 0 {
		merged.Sharp = loaded.Sharp
	}
	if merged.ReferenceBook == "" {
		merged.ReferenceBook = loaded.ReferenceBook
	}

	for book, w := range loaded.PropWeights {
		merged.PropWeights[book] = w
	}
	for book, w := range configured.PropWeights {
		merged.PropWeights[book] = w
	}
	for book, name := range loaded.DisplayNames {
		merged.DisplayNames[book] = name
	}
	for book, name := range configured.DisplayNames {
		merged.DisplayNames[book] = name
	}

	return merged
}
