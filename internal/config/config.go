// Package config loads the gateway configuration: defaults, an optional
// config.yaml and LAW_MCP_* environment overrides, in that order.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full gateway configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Results   ResultsConfig   `mapstructure:"results"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig names the server and selects the transport.
type ServerConfig struct {
	Name      string `mapstructure:"name"`
	Version   string `mapstructure:"version"`
	Transport string `mapstructure:"transport"` // stdio, http
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig controls the upstream registry client.
type APIConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	TimeoutSec    int    `mapstructure:"timeout"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
	MaxRetries    int    `mapstructure:"max_retries"`
	UserAgent     string `mapstructure:"user_agent"`
}

// CacheConfig sets the response cache size and per-endpoint TTLs, all in
// seconds.
type CacheConfig struct {
	MaxEntries  int `mapstructure:"max_entries"`
	MetadataTTL int `mapstructure:"metadata_ttl"`
	SearchTTL   int `mapstructure:"search_ttl"`
	BrowseTTL   int `mapstructure:"browse_ttl"`
	DetailsTTL  int `mapstructure:"details_ttl"`
	ChangesTTL  int `mapstructure:"changes_ttl"`
}

// DocumentsConfig bounds the in-memory document store.
type DocumentsConfig struct {
	MaxDocuments int `mapstructure:"max_documents"`
	MaxBytes     int `mapstructure:"max_bytes"`
	TTLSec       int `mapstructure:"ttl"`
}

// ResultsConfig bounds the result set store.
type ResultsConfig struct {
	MaxSets int `mapstructure:"max_sets"`
	TTLSec  int `mapstructure:"ttl"`
}

// BreakerConfig tunes the upstream circuit breaker.
type BreakerConfig struct {
	FailureThreshold   int `mapstructure:"failure_threshold"`
	RecoveryTimeoutSec int `mapstructure:"recovery_timeout"`
	HalfOpenMaxCalls   int `mapstructure:"half_open_max_calls"`
}

// LogConfig selects log verbosity and format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
}

// Seconds converts a whole-second config value to a duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Load reads the configuration. A missing config file is fine; environment
// variables always win.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("LAW_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport %q: expected stdio or http", c.Server.Transport)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "sejmlex")
	v.SetDefault("server.version", "2.3.0")
	v.SetDefault("server.transport", "stdio")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7683)

	v.SetDefault("api.base_url", "https://api.sejm.gov.pl/eli")
	v.SetDefault("api.timeout", 30)
	v.SetDefault("api.max_concurrent", 10)
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.user_agent", "sejmlex/2.3.0")

	v.SetDefault("cache.max_entries", 1000)
	v.SetDefault("cache.metadata_ttl", 86400)
	v.SetDefault("cache.search_ttl", 600)
	v.SetDefault("cache.browse_ttl", 3600)
	v.SetDefault("cache.details_ttl", 3600)
	v.SetDefault("cache.changes_ttl", 300)

	v.SetDefault("documents.max_documents", 10)
	v.SetDefault("documents.max_bytes", 5*1024*1024)
	v.SetDefault("documents.ttl", 7200)

	v.SetDefault("results.max_sets", 20)
	v.SetDefault("results.ttl", 3600)

	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.recovery_timeout", 60)
	v.SetDefault("breaker.half_open_max_calls", 3)

	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "text")
}
