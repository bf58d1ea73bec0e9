package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Plays
	PlaysDir  string
	SplitMode string // "line" or "sentence" (default: line)

	// Selection and checks
	MinSentences     int
	ConfidenceFloor  float64
	ConfidenceSource string // "local", "remote" or "both" (default: local)
	SampleSize       int
	SampleSeed       *int64 // nil means time-seeded

	// Remote annotator
	RemoteProvider    string // "openai" or "anthropic" (default: openai)
	RemoteModel       string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AnthropicAPIKey   string
	MaxRetries        int
	RetryDelay        time.Duration
	RemoteTimeout     time.Duration
	RemoteConcurrency int

	// Local classifier
	ClassifierHost  string
	ClassifierModel string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:     getEnv("DATABASE_PATH", "data/playmood.db"),
		PlaysDir:         getEnv("PLAYS_DIR", "plays"),
		SplitMode:        strings.ToLower(getEnv("SPLIT_MODE", "line")),
		ConfidenceSource: strings.ToLower(getEnv("CONFIDENCE_SOURCE", "local")),
		RemoteProvider:   strings.ToLower(getEnv("REMOTE_PROVIDER", "openai")),
		RemoteModel:      getEnv("REMOTE_MODEL", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		ClassifierHost:   normalizeHost(getEnv("CLASSIFIER_HOST", "http://localhost:8500")),
		ClassifierModel:  getEnv("CLASSIFIER_MODEL", "sentiment"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MinSentences, err = getInt("MIN_SENTENCES", 50); err != nil {
		return nil, err
	}
	if cfg.SampleSize, err = getInt("SAMPLE_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getInt("MAX_RETRIES", 0); err != nil {
		return nil, err
	}
	if cfg.RemoteConcurrency, err = getInt("REMOTE_CONCURRENCY", 1); err != nil {
		return nil, err
	}

	cfg.ConfidenceFloor, err = strconv.ParseFloat(getEnv("CONFIDENCE_FLOOR", "0.90"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CONFIDENCE_FLOOR: %w", err)
	}

	if seed := getEnv("SAMPLE_SEED", ""); seed != "" {
		v, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SAMPLE_SEED: %w", err)
		}
		cfg.SampleSeed = &v
	}

	cfg.RetryDelay, err = time.ParseDuration(getEnv("RETRY_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETRY_DELAY: %w", err)
	}
	cfg.RemoteTimeout, err = time.ParseDuration(getEnv("REMOTE_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMOTE_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.MinSentences < 0 {
		return fmt.Errorf("MIN_SENTENCES must not be negative")
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return fmt.Errorf("CONFIDENCE_FLOOR must be between 0 and 1, got %v", c.ConfidenceFloor)
	}
	switch c.SplitMode {
	case "line", "sentence":
	default:
		return fmt.Errorf("invalid SPLIT_MODE: %s (must be 'line' or 'sentence')", c.SplitMode)
	}
	switch c.ConfidenceSource {
	case "local", "remote", "both":
	default:
		return fmt.Errorf("invalid CONFIDENCE_SOURCE: %s (must be 'local', 'remote' or 'both')", c.ConfidenceSource)
	}
	return nil
}

// ValidateForClassify checks configuration needed for the local pass.
func (c *Config) ValidateForClassify() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ClassifierHost == "" {
		return fmt.Errorf("CLASSIFIER_HOST is required for classification")
	}
	return nil
}

// ValidateForAnnotate checks configuration needed for the annotate command,
// which runs both passes.
func (c *Config) ValidateForAnnotate() error {
	if err := c.ValidateForClassify(); err != nil {
		return err
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("SAMPLE_SIZE must not be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative")
	}
	if c.RemoteConcurrency < 1 {
		return fmt.Errorf("REMOTE_CONCURRENCY must be at least 1")
	}
	switch c.RemoteProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when REMOTE_PROVIDER is openai")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when REMOTE_PROVIDER is anthropic")
		}
	default:
		return fmt.Errorf("invalid REMOTE_PROVIDER: %s (must be 'openai' or 'anthropic')", c.RemoteProvider)
	}
	return nil
}

// RemoteAPIKey returns the key for the configured remote provider.
func (c *Config) RemoteAPIKey() string {
	if c.RemoteProvider == "anthropic" {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultVal)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// normalizeHost ensures the classifier host has a URL scheme. A bind address
// like "0.0.0.0:8500" is rewritten to localhost.
func normalizeHost(host string) string {
	if host == "" {
		return "http://localhost:8500"
	}
	if strings.HasPrefix(host, "0.0.0.0") {
		host = "localhost" + strings.TrimPrefix(host, "0.0.0.0")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/")
}
