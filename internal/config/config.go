package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API     APIConfig       `yaml:"api"`
	Run     RunConfig       `yaml:"run"`
	Report  ReportConfig    `yaml:"report"`
	Notify  []NotifyChannel `yaml:"notify"`
	Logging LoggingConfig   `yaml:"logging"`
}

type APIConfig struct {
	BaseURL        string            `yaml:"base_url"`
	Key            string            `yaml:"key"`
	Timeout        time.Duration     `yaml:"timeout"`
	DefaultHeaders map[string]string `yaml:"default_headers"`
	RatePerSec     float64           `yaml:"rate_per_sec"`
	RateBurst      int               `yaml:"rate_burst"`
}

type RunConfig struct {
	Workers     int           `yaml:"workers"`
	CaseTimeout time.Duration `yaml:"case_timeout"`
	Verbose     bool          `yaml:"verbose"`
}

type ReportConfig struct {
	Path string `yaml:"path"` // empty disables the JSON artifact
}

// NotifyChannel is one configured notification target. Settings are flat
// yaml fields; senders read the ones they need.
type NotifyChannel struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"` // "webhook" or "slack"
	Enabled *bool  `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret,omitempty"`  // webhook: HMAC-SHA256 signing secret
	Channel string `yaml:"channel,omitempty"` // slack: channel override
}

func (ch *NotifyChannel) IsEnabled() bool {
	if ch.Enabled == nil {
		return true
	}
	return *ch.Enabled
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "https://api.thecatapi.com",
			Timeout:    15 * time.Second,
			RatePerSec: 5,
			RateBurst:  10,
		},
		Run: RunConfig{
			Workers:     4,
			CaseTimeout: 30 * time.Second,
		},
		Report: ReportConfig{
			Path: "report.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment. A .env file in the working directory is read first when
// present; $VAR references inside the YAML are expanded before parsing, and
// CATCHECK_BASE_URL / CATCHECK_API_KEY override whatever the file says.
func Load(path string) (*Config, error) {
	// Missing .env files are fine.
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("CATCHECK_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CATCHECK_API_KEY"); v != "" {
		cfg.API.Key = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateRun(); err != nil {
		return err
	}
	for i := range c.Notify {
		if err := validateChannel(&c.Notify[i], i); err != nil {
			return err
		}
	}
	return validateLogLevel(c.Logging.Level)
}

func (c *Config) validateAPI() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL (e.g. https://api.thecatapi.com)")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.RatePerSec < 0 {
		return fmt.Errorf("api.rate_per_sec must be non-negative")
	}
	if c.API.RatePerSec > 0 && c.API.RateBurst < 1 {
		return fmt.Errorf("api.rate_burst must be at least 1 when rate limiting is on")
	}
	return nil
}

func (c *Config) validateRun() error {
	if c.Run.Workers <= 0 {
		return fmt.Errorf("run.workers must be positive")
	}
	if c.Run.CaseTimeout <= 0 {
		return fmt.Errorf("run.case_timeout must be positive")
	}
	return nil
}

func validateChannel(ch *NotifyChannel, i int) error {
	if strings.TrimSpace(ch.Name) == "" {
		return fmt.Errorf("notify[%d].name is required", i)
	}
	if ch.Type != "webhook" && ch.Type != "slack" {
		return fmt.Errorf("notify[%d].type must be webhook or slack", i)
	}
	if strings.TrimSpace(ch.URL) == "" {
		return fmt.Errorf("notify[%d].url is required", i)
	}
	u, err := url.Parse(ch.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("notify[%d].url must be an absolute URL", i)
	}
	return nil
}

func validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
}
