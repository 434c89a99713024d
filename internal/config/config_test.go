package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Tingwu: TingwuConfig{
			Endpoint:             "https://tingwu.cn-beijing.aliyuncs.com/",
			APIVersion:           "2023-09-30",
			SourceLanguage:       "en",
			Timeout:              30,
			PollInterval:         10,
			MaxPollAttempts:      360,
			MaxConsecutiveErrors: 5,
		},
		HTTP: HTTPConfig{
			Port:    8080,
			Address: "127.0.0.1",
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid configuration",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "empty endpoint",
			mutate:      func(c *Config) { c.Tingwu.Endpoint = "" },
			expectError: true,
			errorMsg:    "endpoint cannot be empty",
		},
		{
			name:        "empty api version",
			mutate:      func(c *Config) { c.Tingwu.APIVersion = "" },
			expectError: true,
			errorMsg:    "api_version cannot be empty",
		},
		{
			name:        "zero timeout",
			mutate:      func(c *Config) { c.Tingwu.Timeout = 0 },
			expectError: true,
			errorMsg:    "timeout must be at least 1 second",
		},
		{
			name:        "zero poll interval",
			mutate:      func(c *Config) { c.Tingwu.PollInterval = 0 },
			expectError: true,
			errorMsg:    "poll_interval must be at least 1 second",
		},
		{
			name:        "negative max poll attempts",
			mutate:      func(c *Config) { c.Tingwu.MaxPollAttempts = -1 },
			expectError: true,
			errorMsg:    "max_poll_attempts cannot be negative",
		},
		{
			name:        "zero max consecutive errors",
			mutate:      func(c *Config) { c.Tingwu.MaxConsecutiveErrors = 0 },
			expectError: true,
			errorMsg:    "max_consecutive_errors must be at least 1",
		},
		{
			name:        "invalid http port",
			mutate:      func(c *Config) { c.HTTP.Port = 70000 },
			expectError: true,
			errorMsg:    "http port must be between 1 and 65535",
		},
		{
			name:        "http disabled skips http validation",
			mutate:      func(c *Config) { c.HTTP.Enabled = false; c.HTTP.Port = 0 },
			expectError: false,
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
			errorMsg:    "level must be one of",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			expectError: true,
			errorMsg:    "format must be 'json' or 'text'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errorMsg)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def := Default()
	if cfg.Tingwu.Endpoint != def.Tingwu.Endpoint {
		t.Errorf("expected default endpoint %q, got %q", def.Tingwu.Endpoint, cfg.Tingwu.Endpoint)
	}
	if cfg.Tingwu.PollInterval != 10 {
		t.Errorf("expected default poll interval 10, got %d", cfg.Tingwu.PollInterval)
	}
	if cfg.HTTP.Enabled {
		t.Error("monitoring server should be disabled by default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
tingwu:
  endpoint: "http://localhost:9000/"
  poll_interval: 2
logging:
  level: "debug"
  format: "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// File values override defaults, unset values keep them.
	if cfg.Tingwu.Endpoint != "http://localhost:9000/" {
		t.Errorf("expected overridden endpoint, got %q", cfg.Tingwu.Endpoint)
	}
	if cfg.Tingwu.PollInterval != 2 {
		t.Errorf("expected poll interval 2, got %d", cfg.Tingwu.PollInterval)
	}
	if cfg.Tingwu.APIVersion != "2023-09-30" {
		t.Errorf("expected default api version, got %q", cfg.Tingwu.APIVersion)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tingwu: [broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
tingwu:
  poll_interval: 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for zero poll interval")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := validConfig()

	if got := cfg.Tingwu.GetTimeoutDuration(); got != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", got)
	}
	if got := cfg.Tingwu.GetPollIntervalDuration(); got != 10*time.Second {
		t.Errorf("expected 10s poll interval, got %v", got)
	}
}
