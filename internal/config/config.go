// ABOUTME: Configuration loading and parsing for the convene server
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete convene server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Chatbot  ChatbotConfig  `yaml:"chatbot"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig holds the optional response cache configuration
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`

	AccessTokenTTL time.Duration `yaml:"-"`
	SignupTokenTTL time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	AccessTokenTTLRaw string `yaml:"access_token_ttl"`
	SignupTokenTTLRaw string `yaml:"signup_token_ttl"`
}

// ChatbotConfig holds the event assistant configuration
type ChatbotConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	Deployment string `yaml:"deployment"`
	APIVersion string `yaml:"api_version"`
	APIKey     string `yaml:"api_key"`

	SessionIdleTTL time.Duration `yaml:"-"`
	SweepInterval  time.Duration `yaml:"-"`

	SessionIdleTTLRaw string `yaml:"session_idle_ttl"`
	SweepIntervalRaw  string `yaml:"sweep_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults applied when the corresponding fields are absent.
const (
	DefaultAccessTokenTTL = 15 * time.Minute
	DefaultSignupTokenTTL = 24 * time.Hour
	DefaultSessionIdleTTL = time.Hour
	DefaultSweepInterval  = 5 * time.Minute
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}

	if c.Chatbot.Enabled {
		if c.Chatbot.Endpoint == "" {
			return fmt.Errorf("chatbot.endpoint is required when chatbot is enabled")
		}
		if c.Chatbot.Deployment == "" {
			return fmt.Errorf("chatbot.deployment is required when chatbot is enabled")
		}
		if c.Chatbot.APIKey == "" {
			return fmt.Errorf("chatbot.api_key is required when chatbot is enabled")
		}
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values,
// applying defaults where the raw value is absent.
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
		def  time.Duration
	}{
		{"access_token_ttl", cfg.Auth.AccessTokenTTLRaw, &cfg.Auth.AccessTokenTTL, DefaultAccessTokenTTL},
		{"signup_token_ttl", cfg.Auth.SignupTokenTTLRaw, &cfg.Auth.SignupTokenTTL, DefaultSignupTokenTTL},
		{"session_idle_ttl", cfg.Chatbot.SessionIdleTTLRaw, &cfg.Chatbot.SessionIdleTTL, DefaultSessionIdleTTL},
		{"sweep_interval", cfg.Chatbot.SweepIntervalRaw, &cfg.Chatbot.SweepInterval, DefaultSweepInterval},
	}

	for _, f := range fields {
		if f.raw == "" {
			*f.dst = f.def
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}

	return nil
}
