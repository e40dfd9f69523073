package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rebanho/rebanho-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	CORS      CORSConfig      `yaml:"cors"`
	Repro     ReproConfig     `yaml:"repro"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug, release, test
	Env  string `yaml:"env"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// ReproConfig holds the defaults used when a farm has no threshold override.
type ReproConfig struct {
	WarningOpenDays  int           `yaml:"warning_open_days"`
	CriticalOpenDays int           `yaml:"critical_open_days"`
	TopAlertsLimit   int           `yaml:"top_alerts_limit"`
	SummaryCacheTTL  time.Duration `yaml:"summary_cache_ttl"`
}

type SchedulerConfig struct {
	Enabled bool `yaml:"enabled"`
	// CacheFlushCron runs once a day so cached open-day counts never go stale across midnight.
	CacheFlushCron string `yaml:"cache_flush_cron"`
	Timezone       string `yaml:"timezone"`
}

// RateLimitConfig caps mutating requests per farm and client IP. Needs Redis.
type RateLimitConfig struct {
	WritesPerMinute int `yaml:"writes_per_minute"`
}

// Default returns a config with every field set to a usable local value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8081, Mode: "debug", Env: "local"},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "rebanho",
			DBName:          "rebanho",
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		CORS:  CORSConfig{AllowOrigins: "http://localhost:3000"},
		Repro: ReproConfig{
			WarningOpenDays:  120,
			CriticalOpenDays: 180,
			TopAlertsLimit:   10,
			SummaryCacheTTL:  5 * time.Minute,
		},
		Scheduler: SchedulerConfig{
			Enabled:        true,
			CacheFlushCron: "5 0 * * *",
			Timezone:       "America/Sao_Paulo",
		},
		RateLimit: RateLimitConfig{WritesPerMinute: 120},
	}
}

// Load reads the YAML file at path on top of Default() and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Env, "APP_ENV")
	setString(&c.Server.Mode, "GIN_MODE")
	setInt(&c.Server.Port, "PORT")

	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")

	setString(&c.Redis.Host, "REDIS_HOST")
	setInt(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		c.Redis.Enabled = v == "true" || v == "1"
	}

	setString(&c.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")

	setInt(&c.Repro.WarningOpenDays, "REPRO_WARNING_OPEN_DAYS")
	setInt(&c.Repro.CriticalOpenDays, "REPRO_CRITICAL_OPEN_DAYS")
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be positive")
	}
	if c.Repro.WarningOpenDays <= 0 {
		return errors.New("repro.warning_open_days must be positive")
	}
	if c.Repro.CriticalOpenDays <= c.Repro.WarningOpenDays {
		return errors.New("repro.critical_open_days must be greater than repro.warning_open_days")
	}
	if c.Repro.TopAlertsLimit <= 0 {
		c.Repro.TopAlertsLimit = 10
	}
	return nil
}

// GetDSN builds the MySQL DSN used by gorm.io/driver/mysql.
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// IsDevelopment reports whether the service runs in a local/dev environment.
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// LogResolved prints the effective configuration without secrets.
func LogResolved(c *Config) {
	logger.GetLogger().Info().
		Str("env", c.Server.Env).
		Int("port", c.Server.Port).
		Str("db_host", c.Database.Host).
		Str("db_name", c.Database.DBName).
		Bool("redis_enabled", c.Redis.Enabled).
		Int("warning_open_days", c.Repro.WarningOpenDays).
		Int("critical_open_days", c.Repro.CriticalOpenDays).
		Bool("scheduler_enabled", c.Scheduler.Enabled).
		Msg("config resolved")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
