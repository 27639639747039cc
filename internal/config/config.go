// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible defaults.
// In Go, we typically use structs to hold configuration, and a function to
// load values from environment variables. A local .env file is loaded first
// (see LoadDotEnv) so developers don't have to export everything by hand.
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
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Database settings. Empty DatabaseURL means the live catalog is not
	// configured and only the bundled static dataset is served.
	DatabaseURL    string
	MigrationsPath string

	// NCERT catalog and PDF handling
	NCERTCacheDir   string
	ExtractMaxPages int
	ExtractMaxChars int
	PDFTimeout      time.Duration
	TextTimeout     time.Duration
	IndexTimeout    time.Duration
	AllowedPDFHosts []string
	NCERTIndexURL   string
	NCERTPDFBaseURL string

	// Local object storage for scraped chapter PDFs and text
	StorageDir    string
	PublicBaseURL string

	// Text generation providers (first configured one wins)
	OpenAIAPIKey     string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiModel      string
	OpenRouterAPIKey string
	OpenRouterModel  string

	// JWT secret shared with the auth provider. Tokens are verified, never issued.
	JWTSecret string

	// Rate limiting: study summaries per hour per client
	SummaryRateLimit int

	// CORS
	AllowedOrigins []string
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win over the file.
func LoadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	_ = godotenv.Load()
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		NCERTCacheDir:   getEnv("NCERT_CACHE_DIR", "data/ncert-cache"),
		ExtractMaxPages: getEnvInt("NCERT_EXTRACT_MAX_PAGES", 6),
		ExtractMaxChars: getEnvInt("NCERT_EXTRACT_MAX_CHARS", 8000),
		PDFTimeout:      getEnvDuration("NCERT_PDF_TIMEOUT", 30*time.Second),
		TextTimeout:     getEnvDuration("NCERT_TEXT_TIMEOUT", 30*time.Second),
		IndexTimeout:    getEnvDuration("NCERT_INDEX_TIMEOUT", 45*time.Second),
		AllowedPDFHosts: getEnvList("NCERT_ALLOWED_HOSTS", []string{"ncert.nic.in"}),
		NCERTIndexURL:   getEnv("NCERT_INDEX_URL", "https://ncert.nic.in/textbook.php?ln=en"),
		NCERTPDFBaseURL: getEnv("NCERT_PDF_BASE_URL", "https://ncert.nic.in/textbook/pdf"),

		StorageDir:    getEnv("STORAGE_DIR", "data/storage"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", "openai/gpt-4.1-mini"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SummaryRateLimit: getEnvInt("SUMMARY_RATE_LIMIT", 30),

		// CORS: in production, set this to your frontend URL
		AllowedOrigins: getEnvList("CORS_ORIGIN", []string{"http://localhost:3000"}),
	}

	if cfg.ExtractMaxPages < 1 {
		return nil, fmt.Errorf("NCERT_EXTRACT_MAX_PAGES must be at least 1, got %d", cfg.ExtractMaxPages)
	}
	if cfg.ExtractMaxChars < 1 {
		return nil, fmt.Errorf("NCERT_EXTRACT_MAX_CHARS must be at least 1, got %d", cfg.ExtractMaxChars)
	}
	if len(cfg.AllowedPDFHosts) == 0 {
		return nil, fmt.Errorf("NCERT_ALLOWED_HOSTS must list at least one host")
	}

	// Security: the summary endpoint spends LLM credits, so production must
	// verify the auth provider's tokens.
	if cfg.GinMode == "release" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production; refusing to serve summaries unauthenticated")
	}

	return cfg, nil
}

// LiveCatalogConfigured reports whether a live catalog database is set up.
func (c *Config) LiveCatalogConfigured() bool {
	return c.DatabaseURL != ""
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvDuration accepts Go durations ("45s") or bare seconds ("45").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	if d, err := time.ParseDuration(str); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(str); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvList reads a comma-separated list, dropping blank entries. A value
// with no usable entries falls back like an unset one.
func getEnvList(key string, fallback []string) []string {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(str, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
