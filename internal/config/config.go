package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete client configuration
type Config struct {
	Tingwu  TingwuConfig  `yaml:"tingwu"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// TingwuConfig contains Tingwu API client configuration. Credentials are not
// part of the file; they come from the environment.
type TingwuConfig struct {
	Endpoint             string `yaml:"endpoint"`
	APIVersion           string `yaml:"api_version"`
	SourceLanguage       string `yaml:"source_language"`
	Timeout              int    `yaml:"timeout"`       // seconds
	PollInterval         int    `yaml:"poll_interval"` // seconds
	MaxPollAttempts      int    `yaml:"max_poll_attempts"`
	MaxConsecutiveErrors int    `yaml:"max_consecutive_errors"`
}

// HTTPConfig contains the optional monitoring HTTP server configuration
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
	Enabled bool   `yaml:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
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
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads and parses the configuration file. A missing file is not an
// error; the defaults cover a plain CLI run.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.Tingwu.Validate(); err != nil {
		return fmt.Errorf("tingwu config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates Tingwu client configuration
func (t *TingwuConfig) Validate() error {
	if t.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}

	if t.APIVersion == "" {
		return fmt.Errorf("api_version cannot be empty")
	}

	if t.SourceLanguage == "" {
		return fmt.Errorf("source_language cannot be empty")
	}

	if t.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", t.Timeout)
	}

	if t.PollInterval < 1 {
		return fmt.Errorf("poll_interval must be at least 1 second, got %d", t.PollInterval)
	}

	if t.MaxPollAttempts < 0 {
		return fmt.Errorf("max_poll_attempts cannot be negative, got %d", t.MaxPollAttempts)
	}

	if t.MaxConsecutiveErrors < 1 {
		return fmt.Errorf("max_consecutive_errors must be at least 1, got %d", t.MaxConsecutiveErrors)
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("http port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("http address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetTimeoutDuration returns the HTTP client timeout as a time.Duration
func (t *TingwuConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}

// GetPollIntervalDuration returns the poll interval as a time.Duration
func (t *TingwuConfig) GetPollIntervalDuration() time.Duration {
	return time.Duration(t.PollInterval) * time.Second
}
