// Package config loads the webhook server configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezones resolve inside minimal containers

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"medication-bot/domain"
)

const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all medication-bot configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache" toml:"cache"`
	Bot       BotConfig       `yaml:"bot" toml:"bot"`
}

type ServerConfig struct {
	Addr            string   `yaml:"addr" toml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout" toml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// RateLimitConfig limits requests per client IP. Zero disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" toml:"requests_per_minute"`
	Burst             int `yaml:"burst" toml:"burst"`
}

type CacheConfig struct {
	Backend       string   `yaml:"backend" toml:"backend"`
	RedisAddr     string   `yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword string   `yaml:"redis_password,omitempty" toml:"redis_password,omitempty"`
	RedisDB       int      `yaml:"redis_db" toml:"redis_db"`
	TTL           Duration `yaml:"ttl" toml:"ttl"`
}

type BotConfig struct {
	// Timezone is the IANA zone in which treatment days are counted.
	Timezone     string              `yaml:"timezone" toml:"timezone"`
	QuickReplies []domain.QuickReply `yaml:"quick_replies" toml:"quick_replies"`
}

// Duration is a time.Duration written as "15s" in config files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{15 * time.Second},
			IdleTimeout:     Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Burst:             10,
		},
		Cache: CacheConfig{
			Backend:   CacheNone,
			RedisAddr: "localhost:6379",
		},
		Bot: BotConfig{
			Timezone: "Asia/Seoul",
			QuickReplies: []domain.QuickReply{
				{Label: "메인", Action: "message", MessageText: "메인메뉴"},
				{Label: "다시계산", Action: "message", MessageText: "복약 진행 확인"},
			},
		},
	}
}

// Load reads the config file at path, returning defaults if it doesn't
// exist. The format follows the extension: .yaml/.yml or .toml.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// applyEnv overrides file values with MEDBOT_* variables. PORT is honoured
// for hosting platforms that only expose a port number.
func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if v := os.Getenv("MEDBOT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MEDBOT_TIMEZONE"); v != "" {
		cfg.Bot.Timezone = v
	}
	if v := os.Getenv("MEDBOT_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("MEDBOT_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MEDBOT_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit.RequestsPerMinute = n
	}
	return nil
}

// Validate checks values that would otherwise fail at request time.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate_limit values must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	for i, qr := range c.Bot.QuickReplies {
		if qr.Label == "" || qr.MessageText == "" {
			return fmt.Errorf("bot.quick_replies[%d]: label and message_text are required", i)
		}
	}
	return nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Bot.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Bot.Timezone)
	if err != nil {
		return nil, fmt.Errorf("bot.timezone: %w", err)
	}
	return loc, nil
}

// QuickReplies returns the configured quick replies with the action
// defaulted to "message".
func (c Config) QuickReplies() []domain.QuickReply {
	out := make([]domain.QuickReply, len(c.Bot.QuickReplies))
	for i, qr := range c.Bot.QuickReplies {
		if qr.Action == "" {
			qr.Action = "message"
		}
		out[i] = qr
	}
	return out
}
