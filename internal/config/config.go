// Package config provides configuration for the application
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/translationreview/backend/pkg/validator"
)

// ErrMissingDatabaseURL is returned when neither DATABASE_URL nor database.url is set
var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is not set")

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// AppConfig holds general application settings
type AppConfig struct {
	Env        string `mapstructure:"env" validate:"required"`
	APIVersion string `mapstructure:"api_version"`
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"min=0"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1,max=1000"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0,max=100"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"min=0"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	Origins        string   `mapstructure:"allowed_origins"`
	AllowedOrigins []string `mapstructure:"-"`
}

// AuthConfig holds login settings
type AuthConfig struct {
	PasswordScheme string `mapstructure:"password_scheme" validate:"oneof=plaintext bcrypt"`
}

// RateLimitConfig holds request rate limiting settings
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"min=1"`
}

// Load reads configuration from ./config/config.yaml and environment variables
func Load() (*Config, error) {
	return LoadFromPath("./config")
}

// LoadFromPath reads configuration from config.yaml in configPath and environment variables.
//
// Environment variables take precedence over the file; the file is optional.
func LoadFromPath(configPath string) (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetDefault("app.env", "local")
	v.SetDefault("app.api_version", "1.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("logging.level", "info")
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("auth.password_scheme", "plaintext")
	v.SetDefault("rate_limit.requests_per_minute", 100)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("logging.level", "LOG_LEVEL", "LOGGING_LEVEL")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.api_version", "API_VERSION", "APP_API_VERSION")
	_ = v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.URL = strings.TrimSpace(cfg.Database.URL)
	if cfg.Database.URL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if _, err := cfg.DSN(); err != nil {
		return nil, err
	}

	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.CORS.AllowedOrigins = parseOrigins(cfg.CORS.Origins)

	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// parseOrigins splits a comma-separated origins list, falling back to "*" when nothing is left
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// DSN returns the database connection string in the form expected by the MySQL driver.
//
// Timestamps are parsed into time.Time in UTC and utf8mb4 is used unless the URL says otherwise.
func (c *Config) DSN() (string, error) {
	dsnCfg, err := mysql.ParseDSN(c.Database.URL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.UTC
	if dsnCfg.Params == nil {
		dsnCfg.Params = map[string]string{}
	}
	if _, ok := dsnCfg.Params["charset"]; !ok {
		dsnCfg.Params["charset"] = "utf8mb4"
	}

	return dsnCfg.FormatDSN(), nil
}
