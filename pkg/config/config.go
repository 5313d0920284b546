// Package config provides configuration structures and loading logic for the
// coordination engine.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the global configuration for the engine.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Ethics     EthicsConfig     `yaml:"ethics"`
	Rules      RulesConfig      `yaml:"rules"`
	Governance GovernanceConfig `yaml:"governance"`
}

// LoggingConfig holds configuration for logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// TelemetryConfig holds configuration for OpenTelemetry.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
	Environment  string `yaml:"environment"`
}

// EthicsConfig holds configuration for the ethics gate.
//
// ProhibitedPatterns distinguishes nil from empty: nil defers to the built-in
// pattern set, while an explicitly empty list disables substring matching.
type EthicsConfig struct {
	ProhibitedPatterns []string `yaml:"prohibited_patterns"`
}

// RulesConfig holds configuration for conflict rule loading.
type RulesConfig struct {
	File  string `yaml:"file"`
	Watch bool   `yaml:"watch"`
}

// GovernanceConfig holds batch admission limits. A MaxBatchSize of zero
// disables the limit.
type GovernanceConfig struct {
	MaxBatchSize int `yaml:"max_batch_size"`
}

// Load reads configuration from a file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		// Defaults
		Logging: LoggingConfig{
			Level: "info",
		},
		Governance: GovernanceConfig{
			MaxBatchSize: 256,
		},
	}

	if path != "" {
		//nolint:gosec // Config file path is controlled by admin/operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CONCORD_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("CONCORD_LOG_PRETTY"); val == "true" {
		cfg.Logging.Pretty = true
	}

	if val := os.Getenv("CONCORD_OTLP_ENDPOINT"); val != "" {
		cfg.Telemetry.OTLPEndpoint = val
	}
	if val := os.Getenv("CONCORD_OTLP_INSECURE"); val == "true" {
		cfg.Telemetry.Insecure = true
	}
	if val := os.Getenv("CONCORD_ENVIRONMENT"); val != "" {
		cfg.Telemetry.Environment = val
	}

	// LookupEnv because set-but-empty means "no prohibited patterns", which
	// is a different statement than "use the defaults".
	if val, ok := os.LookupEnv("CONCORD_ETHICS_PROHIBITED"); ok {
		patterns := []string{}
		for _, p := range strings.Split(val, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		cfg.Ethics.ProhibitedPatterns = patterns
	}

	if val := os.Getenv("CONCORD_RULES_FILE"); val != "" {
		cfg.Rules.File = val
	}
	if val := os.Getenv("CONCORD_RULES_WATCH"); val == "true" {
		cfg.Rules.Watch = true
	}

	if val := os.Getenv("CONCORD_MAX_BATCH"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Governance.MaxBatchSize = n
		}
	}
}

// Validate performs comprehensive validation of the entire configuration
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging configuration: %w", err)
	}

	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("rules configuration: %w", err)
	}

	if err := c.Governance.Validate(); err != nil {
		return fmt.Errorf("governance configuration: %w", err)
	}

	return nil
}

// Validate performs validation of logging configuration
func (c *LoggingConfig) Validate() error {
	if strings.TrimSpace(c.Level) == "" {
		c.Level = "info"
	}

	level := strings.TrimSpace(strings.ToLower(c.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Level = level
		return nil
	default:
		return fmt.Errorf("invalid log level %q, supported levels: debug, info, warn, error", c.Level)
	}
}

// Validate performs validation of rules configuration
func (c *RulesConfig) Validate() error {
	if c.Watch && strings.TrimSpace(c.File) == "" {
		return fmt.Errorf("rules watch requires a rules file")
	}
	return nil
}

// Validate performs validation of governance configuration
func (c *GovernanceConfig) Validate() error {
	if c.MaxBatchSize < 0 {
		return fmt.Errorf("max_batch_size must not be negative, got %d", c.MaxBatchSize)
	}
	return nil
}
