package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// valid returns a config that passes validation; cases tweak one field.
func valid() Config {
	return Config{
		Port:               "8080",
		DataBackend:        BackendPostgREST,
		APIBaseURL:         "http://localhost:3000",
		APITimeout:         7 * time.Second,
		SearchDebounce:     300 * time.Millisecond,
		SessionTTL:         30 * time.Minute,
		SessionMax:         1000,
		RateLimitPerMinute: 60,
		RateLimitBurst:     10,
		LogLevel:           "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid postgrest backend config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name: "valid memory backend without api url",
			mutate: func(c *Config) {
				c.DataBackend = BackendMemory
				c.APIBaseURL = ""
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [postgrest memory]",
		},
		{
			name:        "postgrest backend missing api url",
			mutate:      func(c *Config) { c.APIBaseURL = "" },
			wantErr:     true,
			errorString: "API base URL cannot be empty when using postgrest backend",
		},
		{
			name:        "invalid api url",
			mutate:      func(c *Config) { c.APIBaseURL = "://invalid-url" },
			wantErr:     true,
			errorString: "invalid API base URL",
		},
		{
			name:        "invalid api url scheme",
			mutate:      func(c *Config) { c.APIBaseURL = "ftp://localhost:3000" },
			wantErr:     true,
			errorString: "invalid API base URL scheme 'ftp': must be 'http' or 'https'",
		},
		{
			name:        "api url without host",
			mutate:      func(c *Config) { c.APIBaseURL = "http://" },
			wantErr:     true,
			errorString: "missing host",
		},
		{
			name:        "api timeout too short",
			mutate:      func(c *Config) { c.APITimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid API timeout 10ms: must be at least 100ms",
		},
		{
			name:        "api timeout too long",
			mutate:      func(c *Config) { c.APITimeout = 5 * time.Minute },
			wantErr:     true,
			errorString: "invalid API timeout 5m0s: must be at most 2 minutes",
		},
		{
			name:        "search debounce too long",
			mutate:      func(c *Config) { c.SearchDebounce = 10 * time.Second },
			wantErr:     true,
			errorString: "invalid search debounce 10s",
		},
		{
			name:        "session ttl too short",
			mutate:      func(c *Config) { c.SessionTTL = time.Second },
			wantErr:     true,
			errorString: "invalid session TTL 1s: must be at least 1 minute",
		},
		{
			name:        "session max zero",
			mutate:      func(c *Config) { c.SessionMax = 0 },
			wantErr:     true,
			errorString: "invalid session max 0: must be at least 1",
		},
		{
			name:        "rate limit zero",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0: must be at least 1 per minute",
		},
		{
			name:        "rate limit burst zero",
			mutate:      func(c *Config) { c.RateLimitBurst = 0 },
			wantErr:     true,
			errorString: "invalid rate limit burst 0: must be at least 1",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := valid()
	cfg.Port = "abc"
	cfg.SessionMax = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid port", "invalid session max"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"PORT", "DATA_BACKEND", "API_BASE_URL", "API_TIMEOUT", "SEARCH_DEBOUNCE",
		"CLAMP_PAGE", "SESSION_TTL", "SESSION_MAX", "RATE_LIMIT_PER_MINUTE", "LOG_LEVEL",
	}
	originalVars := map[string]string{}
	for _, key := range keys {
		originalVars[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8080" {
			t.Errorf("Load() Port = %v, want 8080", cfg.Port)
		}
		if cfg.DataBackend != BackendPostgREST {
			t.Errorf("Load() DataBackend = %v, want postgrest", cfg.DataBackend)
		}
		if cfg.APIBaseURL != "http://localhost:3000" {
			t.Errorf("Load() APIBaseURL = %v, want http://localhost:3000", cfg.APIBaseURL)
		}
		if cfg.APITimeout != 7*time.Second {
			t.Errorf("Load() APITimeout = %v, want 7s", cfg.APITimeout)
		}
		if cfg.SearchDebounce != 300*time.Millisecond {
			t.Errorf("Load() SearchDebounce = %v, want 300ms", cfg.SearchDebounce)
		}
		if cfg.ClampPage {
			t.Errorf("Load() ClampPage = true, want false")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("DATA_BACKEND", "memory")
		os.Setenv("API_BASE_URL", "https://api.example.com")
		os.Setenv("API_TIMEOUT", "3s")
		os.Setenv("SEARCH_DEBOUNCE", "150ms")
		os.Setenv("CLAMP_PAGE", "true")
		os.Setenv("SESSION_MAX", "25")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != BackendMemory {
			t.Errorf("Load() DataBackend = %v, want memory", cfg.DataBackend)
		}
		if cfg.APIBaseURL != "https://api.example.com" {
			t.Errorf("Load() APIBaseURL = %v", cfg.APIBaseURL)
		}
		if cfg.APITimeout != 3*time.Second {
			t.Errorf("Load() APITimeout = %v, want 3s", cfg.APITimeout)
		}
		if cfg.SearchDebounce != 150*time.Millisecond {
			t.Errorf("Load() SearchDebounce = %v, want 150ms", cfg.SearchDebounce)
		}
		if !cfg.ClampPage {
			t.Errorf("Load() ClampPage = false, want true")
		}
		if cfg.SessionMax != 25 {
			t.Errorf("Load() SessionMax = %v, want 25", cfg.SessionMax)
		}
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		os.Setenv("API_TIMEOUT", "soon")
		os.Setenv("SESSION_MAX", "many")
		os.Setenv("CLAMP_PAGE", "maybe")

		cfg := Load()

		if cfg.APITimeout != 7*time.Second {
			t.Errorf("Load() APITimeout = %v, want 7s default", cfg.APITimeout)
		}
		if cfg.SessionMax != 1000 {
			t.Errorf("Load() SessionMax = %v, want 1000 default", cfg.SessionMax)
		}
		if cfg.ClampPage {
			t.Errorf("Load() ClampPage = true, want false default")
		}
	})
}
