package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Sources
	RulesPath       string
	LetterheadsPath string

	// Generation
	BatchConcurrency int
	GenerationTTL    time.Duration

	// HTTP
	MaxUploadBytes     int64
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string

	// Logging
	LogJSON bool
}

// LoadDotenv reads KEY=VALUE pairs from files (".env" when none are given)
// into the environment. Variables already set win. Missing files are not
// an error.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("BAILGEN_API_KEY"),

		RulesPath:       os.Getenv("RULES_PATH"),
		LetterheadsPath: os.Getenv("LETTERHEADS_PATH"),

		BatchConcurrency: envInt("BATCH_CONCURRENCY", 4),
		GenerationTTL:    envDuration("GENERATION_TTL", 1*time.Hour),

		MaxUploadBytes:     envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB
		RequestTimeout:     envDuration("REQUEST_TIMEOUT", 60*time.Second),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		LogJSON: envBool("LOG_JSON", true),
	}

	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 4
	}
	if cfg.GenerationTTL <= 0 {
		cfg.GenerationTTL = 1 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.RulesPath == "" {
		return fmt.Errorf("RULES_PATH is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("BAILGEN_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated variable, dropping blank items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
