package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/corsa-lab/corsa-api/internal/core/parse"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CORSA_"

// envFiles are loaded into the process environment before config is read.
// Earlier files win; variables already set are never overridden.
var envFiles = []string{".env.local", ".env"}

// legacyEnv maps the variable names of earlier deployments onto config keys.
// They rank below the config file and CORSA_ variables.
var legacyEnv = map[string]string{
	"SUPABASE_URL":              "postgrest.url",
	"SUPABASE_SERVICE_ROLE_KEY": "postgrest.api_key",
	"SUPABASE_SCHEMA":           "postgrest.schema",
	"LISTINGS_TABLE":            "datasource.listings_table",
	"PORT":                      "server.port",
	"ALLOWED_ORIGIN":            "server.allowed_origin",
}

// Config is the top-level application config.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	DataSource DataSourceConfig `koanf:"datasource"`
	Database   DatabaseConfig   `koanf:"database"`
	PostgREST  PostgRESTConfig  `koanf:"postgrest"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Cache      CacheConfig      `koanf:"cache"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	History    HistoryConfig    `koanf:"history"`
	Dates      DatesConfig      `koanf:"dates"`
}

type ServerConfig struct {
	Port           int     `koanf:"port"`
	Host           string  `koanf:"host"`
	Mode           string  `koanf:"mode"`           // debug | release
	AllowedOrigin  string  `koanf:"allowed_origin"` // "*" allows any origin
	RateLimitRPS   float64 `koanf:"rate_limit_rps"` // 0 disables the limiter
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

// SlogLevel returns the configured level; Validate guarantees it parses.
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type DataSourceConfig struct {
	Type          string `koanf:"type"` // postgres | postgrest
	ListingsTable string `koanf:"listings_table"`
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"` // postgres (lib/pq) | pgx
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type PostgRESTConfig struct {
	URL       string        `koanf:"url"`
	APIKey    string        `koanf:"api_key"`
	Schema    string        `koanf:"schema"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"`
	RateBurst int           `koanf:"rate_burst"`
}

type CatalogConfig struct {
	Path string `koanf:"path"` // empty uses the embedded catalog
}

type CacheConfig struct {
	DefaultTTL    time.Duration `koanf:"default_ttl"`
	SummaryTTL    time.Duration `koanf:"summary_ttl"`
	PricingTTL    time.Duration `koanf:"pricing_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	MaxEntries    int           `koanf:"max_entries"`
}

type MetricsConfig struct {
	Window             string `koanf:"window"` // "30d" or a Go duration
	SampleLimit        int    `koanf:"sample_limit"`
	FilterTotalByModel bool   `koanf:"filter_total_by_model"`
}

// WindowDuration parses Window.
func (c MetricsConfig) WindowDuration() (time.Duration, error) {
	return parse.Window(c.Window)
}

type HistoryConfig struct {
	Limit int `koanf:"limit"`
}

type DatesConfig struct {
	Location string `koanf:"location"` // IANA zone for zone-less date strings
}

// TimeLocation resolves Location; Validate guarantees it loads.
func (c DatesConfig) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	if strings.TrimSpace(c.Server.AllowedOrigin) == "" {
		return fmt.Errorf("server.allowed_origin is required (use \"*\" for any)")
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("server.rate_limit_rps must be >= 0")
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst <= 0 {
		return fmt.Errorf("server.rate_limit_burst must be > 0 when rate limiting is enabled")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}

	if strings.TrimSpace(c.DataSource.ListingsTable) == "" {
		return fmt.Errorf("datasource.listings_table is required")
	}

	switch c.DataSource.Type {
	case "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for datasource.type postgres")
		}
		if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
			return fmt.Errorf("unsupported database.driver %q (must be postgres or pgx)", c.Database.Driver)
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	case "postgrest":
		if strings.TrimSpace(c.PostgREST.URL) == "" {
			return fmt.Errorf("postgrest.url is required for datasource.type postgrest")
		}
		if u, err := url.Parse(c.PostgREST.URL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid postgrest.url %q", c.PostgREST.URL)
		}
		if strings.TrimSpace(c.PostgREST.APIKey) == "" {
			return fmt.Errorf("postgrest.api_key is required for datasource.type postgrest")
		}
		if c.PostgREST.Timeout <= 0 {
			return fmt.Errorf("postgrest.timeout must be > 0")
		}
		if c.PostgREST.RateLimit <= 0 || c.PostgREST.RateBurst <= 0 {
			return fmt.Errorf("postgrest.rate_limit and postgrest.rate_burst must be > 0")
		}
	default:
		return fmt.Errorf("unsupported datasource.type %q (must be postgres or postgrest)", c.DataSource.Type)
	}

	if c.Cache.DefaultTTL <= 0 || c.Cache.SummaryTTL <= 0 || c.Cache.PricingTTL <= 0 {
		return fmt.Errorf("cache ttls must be > 0")
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("cache.sweep_interval must be > 0")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be >= 0")
	}

	if _, err := c.Metrics.WindowDuration(); err != nil {
		return fmt.Errorf("invalid metrics.window %q: %w", c.Metrics.Window, err)
	}
	if c.Metrics.SampleLimit <= 0 {
		return fmt.Errorf("metrics.sample_limit must be > 0")
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("history.limit must be > 0")
	}

	if _, err := time.LoadLocation(c.Dates.Location); err != nil {
		return fmt.Errorf("invalid dates.location %q: %w", c.Dates.Location, err)
	}

	return nil
}

// Load layers defaults, legacy environment names, the config file and CORSA_
// environment variables, then validates the result. .env files are read into
// the environment first.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                   4000,
		"server.host":                   "0.0.0.0",
		"server.mode":                   "release",
		"server.allowed_origin":         "*",
		"server.rate_limit_rps":         50,
		"server.rate_limit_burst":       100,
		"log.level":                     "info",
		"datasource.type":               "postgres",
		"datasource.listings_table":     "listings",
		"database.driver":               "postgres",
		"database.dsn":                  "",
		"database.max_open_conns":       10,
		"database.max_idle_conns":       10,
		"database.auto_migrate":         false,
		"postgrest.url":                 "",
		"postgrest.api_key":             "",
		"postgrest.schema":              "public",
		"postgrest.timeout":             "15s",
		"postgrest.rate_limit":          20,
		"postgrest.rate_burst":          10,
		"catalog.path":                  "",
		"cache.default_ttl":             "300s",
		"cache.summary_ttl":             "120s",
		"cache.pricing_ttl":             "900s",
		"cache.sweep_interval":          "60s",
		"cache.max_entries":             1024,
		"metrics.window":                "30d",
		"metrics.sample_limit":          10000,
		"metrics.filter_total_by_model": true,
		"history.limit":                 2000,
		"dates.location":                "UTC",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	for name, key := range legacyEnv {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			k.Set(key, value)
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFiles(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		slog.Debug("[Config] Loaded env file", "path", path)
	}
	return nil
}
