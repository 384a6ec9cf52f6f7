package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Search   SearchConfig   `mapstructure:"search"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	State    StateConfig    `mapstructure:"state"`
	Bot      BotConfig      `mapstructure:"bot"`
	Photo    PhotoConfig    `mapstructure:"photo"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ProviderConfig describes the HotPepper gourmet API. An empty APIKey is not a
// load error: the proxy answers 500 per request instead.
type ProviderConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
}

type SearchConfig struct {
	DefaultArea  string `mapstructure:"default_area"`
	DefaultCount int    `mapstructure:"default_count"`
	MaxCount     int    `mapstructure:"max_count"`
	StrictParams bool   `mapstructure:"strict_params"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type StateConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type BotConfig struct {
	Token    string `mapstructure:"token"`
	ProxyURL string `mapstructure:"proxy_url"`
	PageSize int    `mapstructure:"page_size"`
}

type PhotoConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Addr returns host:port for the HTTP listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads .env (if any), configs/config.yml (if any) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath("configs")
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Info("config file not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("provider.base_url", "https://webservice.recruit.co.jp")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.timeout", "0s")
	v.SetDefault("provider.rate_limit", 0)
	v.SetDefault("search.default_area", "Z098")
	v.SetDefault("search.default_count", 10)
	v.SetDefault("search.max_count", 100)
	v.SetDefault("search.strict_params", false)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", "60s")
	v.SetDefault("state.ttl", "24h")
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.proxy_url", "http://localhost:3000")
	v.SetDefault("bot.page_size", 10)
	v.SetDefault("photo.cache_ttl", "1h")
	v.SetDefault("log.level", "info")
}

func bindEnv(v *viper.Viper) {
	binds := map[string]string{
		"provider.api_key": "HOTPEPPER_API_KEY",
		"bot.token":        "TELEGRAM_TOKEN",
		"redis.address":    "REDIS_ADDRESS",
		"redis.password":   "REDIS_PASSWORD",
		"server.port":      "PORT",
	}
	for key, env := range binds {
		if err := v.BindEnv(key, env); err != nil {
			slog.Error("failed to bind env", "key", key, "env", env, "error", err)
		}
	}
}

// ParseLevel maps log.level onto slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
