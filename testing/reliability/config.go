package reliability

import (
	"os"
	"strconv"
	"time"
)

// ReliabilityConfig holds configuration for reliability testing.
type ReliabilityConfig struct {
	Level         string        // "basic" or "stress"
	Duration      time.Duration // Test duration for stress tests
	MaxGoroutines int           // Maximum goroutines for concurrent tests
	Events        int           // Events per thread for volume tests
}

// getReliabilityConfig reads configuration from environment variables.
func getReliabilityConfig() ReliabilityConfig {
	return ReliabilityConfig{
		Level:         os.Getenv("TIMELINEZ_RELIABILITY_LEVEL"),
		Duration:      parseDuration(getEnv("TIMELINEZ_RELIABILITY_DURATION", "5s")),
		MaxGoroutines: parseInt(getEnv("TIMELINEZ_RELIABILITY_MAX_GOROUTINES", "64"), 64),
		Events:        parseInt(getEnv("TIMELINEZ_RELIABILITY_EVENTS", "250000"), 250_000),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, fallback int) int {
	if value, err := strconv.Atoi(s); err == nil && value > 0 {
		return value
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return 5 * time.Second
}
