package config

import (
	"os"
	"strconv"
	"strings"
)

// Helper functions for environment variable parsing.
// Unset or unparseable values fall back to the default.

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEnvStringSlice splits a comma-separated value, trimming blanks
func GetEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// GetEnvWeights parses "book:weight,book:weight". Malformed entries are skipped.
func GetEnvWeights(key string, defaultValue map[string]float64) map[string]float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	weights := make(map[string]float64)
	for _, part := range strings.Split(value, ",") {
		book, raw, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || w <= 0 || w > 1 {
			continue
		}
		weights[strings.TrimSpace(book)] = w
	}
	if len(weights) == 0 {
		return defaultValue
	}
	return weights
}
