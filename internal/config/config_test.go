package config

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{"parses go duration", "TEST_DUR_1", "90s", time.Minute, 90 * time.Second},
		{"parses plain seconds", "TEST_DUR_2", "45", time.Minute, 45 * time.Second},
		{"uses default for empty", "TEST_DUR_3", "", time.Minute, time.Minute},
		{"uses default for garbage", "TEST_DUR_4", "soon", time.Minute, time.Minute},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvAsDurationOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsBoolOrDefault(t *testing.T) {
	t.Setenv("TEST_BOOL_ON", "yes")
	t.Setenv("TEST_BOOL_OFF", "0")
	t.Setenv("TEST_BOOL_BAD", "maybe")

	if !getEnvAsBoolOrDefault("TEST_BOOL_ON", false) {
		t.Error("Expected yes to parse as true")
	}
	if getEnvAsBoolOrDefault("TEST_BOOL_OFF", true) {
		t.Error("Expected 0 to parse as false")
	}
	if !getEnvAsBoolOrDefault("TEST_BOOL_BAD", true) {
		t.Error("Expected default for unparseable value")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when DATABASE_URL is missing")
	}
}

func TestLoad_AllowsMissingGeminiKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/synergy")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected config to load, got %v", err)
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("Expected empty Gemini key, got %q", cfg.GeminiAPIKey)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("Expected default model, got %q", cfg.GeminiModel)
	}
	if cfg.GeminiTimeout != 60*time.Second {
		t.Errorf("Expected default timeout 60s, got %s", cfg.GeminiTimeout)
	}
}

func TestValidate_RejectsNonPositiveTimeouts(t *testing.T) {
	cfg := &Config{
		Port:                   "8080",
		DatabaseURL:            "postgres://localhost/synergy",
		RedisURL:               "redis://localhost:6379",
		JWTSecret:              "secret",
		GeminiTimeout:          0,
		ContextQueryTimeout:    time.Second,
		TranscriptWriteTimeout: time.Second,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected validation error for zero GEMINI_TIMEOUT")
	}
}
