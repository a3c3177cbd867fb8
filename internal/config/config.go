package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the Risk Analyser service.
type Config struct {
	// Messaging
	NatsURL         string
	RecordsSubject  string
	AnalysesSubject string

	// Storage integrations (optional; empty disables the integration)
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Processing budgets
	RecordTimeoutSeconds int
	BaselineTimeoutMs    int
	BatchWorkers         int
	DedupTTLHours        int

	// Detection tuning (configurable per detector)
	Tuning DetectionTuning

	// Optional config files; empty means built-in defaults
	WeightsPath   string
	KnowledgePath string
}

// DetectionTuning contains configurable knobs for individual detectors.
// These can be adjusted per environment without rebuilding.
type DetectionTuning struct {
	// Budget Anomaly
	MinBaselineSample int // minimum sample size before z-scores are trusted

	// Compressed Deadline
	DefaultExpectedWindowDays int // expected window when no baseline median exists
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Try multiple .env locations
	envPaths := []string{
		".env",
		"../.env",
		"/app/.env", // Docker
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded config from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Printf("No .env file found, using environment variables")
	}

	config := &Config{
		// Messaging with defaults
		NatsURL:         getEnvOrDefault("NATS_URL", "nats://localhost:4222"),
		RecordsSubject:  getEnvOrDefault("RECORDS_SUBJECT", "procurement.records"),
		AnalysesSubject: getEnvOrDefault("ANALYSES_SUBJECT", "procurement.analyses"),

		// Optional storage integrations
		PostgresDSN:   getEnvOrDefault("POSTGRES_DSN", ""),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       parseIntOrDefault("REDIS_DB", 0),

		// Processing budgets
		RecordTimeoutSeconds: parseIntOrDefault("RECORD_TIMEOUT_SECONDS", 10),
		BaselineTimeoutMs:    parseIntOrDefault("BASELINE_TIMEOUT_MS", 500),
		BatchWorkers:         parseIntOrDefault("BATCH_WORKERS", 4),
		DedupTTLHours:        parseIntOrDefault("DEDUP_TTL_HOURS", 24),

		// Default tuning (can be overridden by env vars)
		Tuning: DetectionTuning{
			MinBaselineSample:         parseIntOrDefault("MIN_BASELINE_SAMPLE", 5),
			DefaultExpectedWindowDays: parseIntOrDefault("DEFAULT_EXPECTED_WINDOW_DAYS", 21),
		},

		// Optional config files
		WeightsPath:   getEnvOrDefault("WEIGHTS_PATH", ""),
		KnowledgePath: getEnvOrDefault("KNOWLEDGE_PATH", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.NatsURL == "" {
		return fmt.Errorf("NATS_URL is required")
	}

	if c.RecordsSubject == "" {
		return fmt.Errorf("RECORDS_SUBJECT is required")
	}

	if c.AnalysesSubject == "" {
		return fmt.Errorf("ANALYSES_SUBJECT is required")
	}

	if c.RecordTimeoutSeconds <= 0 {
		return fmt.Errorf("RECORD_TIMEOUT_SECONDS must be positive")
	}

	if c.BatchWorkers <= 0 {
		return fmt.Errorf("BATCH_WORKERS must be positive")
	}

	if c.Tuning.MinBaselineSample < 1 {
		return fmt.Errorf("MIN_BASELINE_SAMPLE must be at least 1")
	}

	if c.Tuning.DefaultExpectedWindowDays <= 0 {
		return fmt.Errorf("DEFAULT_EXPECTED_WINDOW_DAYS must be positive")
	}

	return nil
}

// Helper functions
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
