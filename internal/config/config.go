package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
	Cache    Cache    `mapstructure:"cache"`
	Market   Market   `mapstructure:"market"`
	Demo     Demo     `mapstructure:"demo"`
}

// Server holds the configuration for the HTTP API.
type Server struct {
	Port            int           `mapstructure:"port"`
	CORSAllowOrigin string        `mapstructure:"cors_allow_origin"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// Database holds the configuration for the database.
type Database struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN    string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Cache holds the configuration for the dashboard statistics cache.
type Cache struct {
	Enabled bool          `mapstructure:"enabled"`
	MaxCost int64         `mapstructure:"max_cost"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Market holds the configuration for the reference price client.
type Market struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url"`
	QuoteAsset     string  `mapstructure:"quote_asset"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Demo holds the configuration for demo trade generation.
type Demo struct {
	DefaultCount int      `mapstructure:"default_count"`
	MaxCount     int      `mapstructure:"max_count"`
	Symbols      []string `mapstructure:"symbols"`
	Seed         int64    `mapstructure:"seed"`
}

// LoadConfig reads configuration from a config.yml in path, a .env file and
// environment variables. A missing config file is not an error.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allow_origin", "*")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "journal.db")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_cost", 1<<20)
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("market.enabled", false)
	v.SetDefault("market.base_url", "https://api.binance.com/api/v3")
	v.SetDefault("market.quote_asset", "USDT")
	v.SetDefault("market.rate_limit", 10)      // requests per second
	v.SetDefault("market.rate_limit_burst", 5) // burst size

	v.SetDefault("demo.default_count", 20)
	v.SetDefault("demo.max_count", 500)
	v.SetDefault("demo.symbols", []string{"BTC", "ETH", "SOL", "XRP", "BNB"})
}

// Validate reports configuration values the application cannot run with.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported (sqlite|postgres)", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, "database.dsn is required")
	}
	if c.Cache.Enabled && c.Cache.MaxCost <= 0 {
		errs = append(errs, "cache.max_cost must be positive when the cache is enabled")
	}
	if c.Market.Enabled && c.Market.RateLimit <= 0 {
		errs = append(errs, "market.rate_limit must be positive when the market client is enabled")
	}
	if c.Demo.MaxCount <= 0 {
		errs = append(errs, "demo.max_count must be positive")
	}
	if len(c.Demo.Symbols) == 0 {
		errs = append(errs, "demo.symbols must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
