package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Location decides what "today" and the current month mean for a student.
	Location *time.Location

	// Database
	DatabaseURL   string
	MigrationsDir string

	// Redis
	RedisURL string

	// Identity verifier (Supabase project JWT secret)
	JWTSecret string

	// Gemini AI
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Chat pipeline
	ContextQueryTimeout    time.Duration
	TranscriptWriteTimeout time.Duration

	// Motivational quotes
	QuotesAutoRefresh     bool
	QuotesRefreshInterval time.Duration
}

// Load reads the environment once at startup. GEMINI_API_KEY may be empty
// here; the model invoker reports it as a configuration error on first use.
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                   getEnvOrDefault("PORT", "8080"),
		Env:                    getEnvOrDefault("ENV", "development"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		MigrationsDir:          getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:               os.Getenv("REDIS_URL"),
		JWTSecret:              os.Getenv("SUPABASE_JWT_SECRET"),
		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		GeminiModel:            getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeout:          getEnvAsDurationOrDefault("GEMINI_TIMEOUT", 60*time.Second),
		ContextQueryTimeout:    getEnvAsDurationOrDefault("CONTEXT_QUERY_TIMEOUT", 5*time.Second),
		TranscriptWriteTimeout: getEnvAsDurationOrDefault("TRANSCRIPT_WRITE_TIMEOUT", 5*time.Second),
		QuotesAutoRefresh:      getEnvAsBoolOrDefault("QUOTES_AUTO_REFRESH", false),
		QuotesRefreshInterval:  getEnvAsDurationOrDefault("QUOTES_REFRESH_INTERVAL", 6*time.Hour),
	}

	loc, err := time.LoadLocation(getEnvOrDefault("APP_TIMEZONE", "Asia/Jakarta"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("required environment variable DATABASE_URL is not set")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("required environment variable REDIS_URL is not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("required environment variable SUPABASE_JWT_SECRET is not set")
	}
	if c.GeminiTimeout <= 0 {
		return fmt.Errorf("GEMINI_TIMEOUT must be > 0")
	}
	if c.ContextQueryTimeout <= 0 || c.TranscriptWriteTimeout <= 0 {
		return fmt.Errorf("CONTEXT_QUERY_TIMEOUT and TRANSCRIPT_WRITE_TIMEOUT must be > 0")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs := getEnvAsIntOrDefault(key, -1); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultVal
	}
}
