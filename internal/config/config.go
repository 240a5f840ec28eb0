package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the update server
type Config struct {
	// Server Configuration
	Environment string `env:"ENV" envDefault:"development"`
	Host        string `env:"HOST" envDefault:"0.0.0.0"`
	Port        string `env:"PORT" envDefault:"3000"`

	// Artifact store Configuration
	APKDir string `env:"APK_DIR" envDefault:"./apks"`

	// Release catalog Configuration. When empty the built-in release
	// table is used.
	CatalogFile string `env:"CATALOG_FILE"`

	// Logging Configuration
	LogFile string `env:"LOG_FILE"`

	// Rate limiting Configuration
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	// Load .env file if present. Specific environment files win over the
	// generic one; godotenv never overwrites variables already set.
	envLocations := []string{".env"}
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Set default log file if not set
	if cfg.LogFile == "" {
		if cfg.Environment == "production" {
			cfg.LogFile = "/app/logs/update-server.log"
		} else {
			cfg.LogFile = "./logs/update-server.log"
		}
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
