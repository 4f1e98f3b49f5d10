package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	Mode    string `yaml:"mode"` // polling | webhook (future)
	Workers int    `yaml:"workers"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"` // metrics endpoint
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"` // empty: in-memory session store
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DispatcherConfig struct {
	Interval    time.Duration `yaml:"interval"`
	WarmupDelay time.Duration `yaml:"warmup_delay"`
	MaxAttempts int           `yaml:"max_attempts"`
}

type ResolverConfig struct {
	// Timezone absolute and clock expressions are interpreted in,
	// e.g. "Asia/Almaty". Storage is always UTC.
	Timezone string `yaml:"timezone"`
	// SessionTTL is the guided-flow idle timeout.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type Config struct {
	Bot        BotConfig        `yaml:"bot"`
	Log        LogConfig        `yaml:"log"`
	Admin      AdminConfig      `yaml:"admin"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Resolver   ResolverConfig   `yaml:"resolver"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Dispatcher.Interval <= 0 {
		cfg.Dispatcher.Interval = time.Minute
	}
	if cfg.Dispatcher.WarmupDelay < 0 {
		cfg.Dispatcher.WarmupDelay = 0
	}
	if cfg.Dispatcher.MaxAttempts <= 0 {
		cfg.Dispatcher.MaxAttempts = 5
	}
	if cfg.Resolver.SessionTTL <= 0 {
		cfg.Resolver.SessionTTL = 10 * time.Minute
	}
	if cfg.Resolver.Timezone == "" {
		cfg.Resolver.Timezone = "UTC"
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
