package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App    AppConfig
	Server ServerConfig
	API    APIConfig
	Redis  RedisConfig
	Search SearchConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string
	Environment string // development, production
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string
	Port int
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds the showtimes API client settings.
type APIConfig struct {
	BaseURL          string
	PriceConcurrency int64
	Previews         time.Duration
	CacheTTL         time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the Redis address.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SearchConfig holds the entity search client settings.
type SearchConfig struct {
	BaseURL  string
	Debounce time.Duration
}

// Load reads configuration from environment variables, with optional .env
// file override.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	// Missing .env is fine; environment variables still apply.
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "cinematix")
	v.SetDefault("APP_ENVIRONMENT", "development")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)

	v.SetDefault("API_BASE_URL", "https://cinematix.app/api")
	v.SetDefault("API_PRICE_CONCURRENCY", 6)
	v.SetDefault("API_PREVIEWS", "20m")
	v.SetDefault("API_CACHE_TTL", "15m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SEARCH_BASE_URL", "https://www.wikidata.org/w/api.php")
	v.SetDefault("SEARCH_DEBOUNCE", "250ms")
}

func bindConfig(v *viper.Viper, cfg *Config) {
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")

	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")

	cfg.API.BaseURL = v.GetString("API_BASE_URL")
	cfg.API.PriceConcurrency = v.GetInt64("API_PRICE_CONCURRENCY")
	cfg.API.Previews = v.GetDuration("API_PREVIEWS")
	cfg.API.CacheTTL = v.GetDuration("API_CACHE_TTL")

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")

	cfg.Search.BaseURL = v.GetString("SEARCH_BASE_URL")
	cfg.Search.Debounce = v.GetDuration("SEARCH_DEBOUNCE")
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}
	if c.API.PriceConcurrency <= 0 {
		return fmt.Errorf("invalid price concurrency: %d", c.API.PriceConcurrency)
	}
	return nil
}

// IsProduction returns true if running in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
