package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration for integration tests from the .env file or environment variables.
//
// TEST_DATABASE_URL is optional: when it is not set the returned Config has an empty
// database URL and integration tests are expected to skip themselves.
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Database.URL = strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	cfg.Database.MigrationsPath = "../../migrations"
	if cfg.Database.URL == "" {
		return cfg, nil
	}

	if _, err := cfg.DSN(); err != nil {
		return nil, err
	}

	return cfg, nil
}
