// Package config loads server configuration from yaml plus environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/spf13/viper"
)

// Config holds all configuration for the tool server.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Search   SearchConfig   `mapstructure:"search"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig contains HTTP transport settings.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// SearchConfig selects the outbound search provider.
type SearchConfig struct {
	Provider     string `mapstructure:"provider"` // brave or serper
	BraveAPIKey  string `mapstructure:"brave_api_key"`
	SerperAPIKey string `mapstructure:"serper_api_key"`
}

// BrowserConfig tunes the headless browser.
type BrowserConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SessionsConfig bounds the session store.
type SessionsConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	MaxSessions   int           `mapstructure:"max_sessions"`
	SweepSchedule string        `mapstructure:"sweep_schedule"` // 5-field cron
}

func (s SessionsConfig) Validate() error {
	if s.TTL <= 0 {
		return fmt.Errorf("sessions.ttl must be positive")
	}
	if s.MaxSessions <= 0 {
		return fmt.Errorf("sessions.max_sessions must be positive")
	}
	if _, err := cronexpr.Parse(s.SweepSchedule); err != nil {
		return fmt.Errorf("sessions.sweep_schedule: %w", err)
	}
	return nil
}

// CacheConfig bounds the per-URL render cache.
type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// LoadConfig reads config.yaml from path (or the working directory) and
// applies WEBSCOUT_* environment overrides. Missing files are fine; the
// defaults describe a fully working local setup.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("WEBSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.listen", ":8600")
	v.SetDefault("search.provider", "brave")
	v.SetDefault("browser.user_agent", "webscout/1.0 (+https://github.com/webscout)")
	v.SetDefault("browser.timeout", 30*time.Second)
	v.SetDefault("sessions.ttl", 30*time.Minute)
	v.SetDefault("sessions.max_sessions", 64)
	v.SetDefault("sessions.sweep_schedule", "*/5 * * * *")
	v.SetDefault("cache.size", 128)
	v.SetDefault("cache.ttl", 15*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Sessions.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
