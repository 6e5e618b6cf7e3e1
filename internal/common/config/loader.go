package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PROVIDERS_TICKETING_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored if not found
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the first location that has one, so the
// loader works from the repo root, cmd directories and package tests.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up the directory tree looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "activity-aggregator"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 5000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60000
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 100
	}
	if cfg.Server.RateLimitWindow == 0 {
		cfg.Server.RateLimitWindow = 60
	}

	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 24
	}

	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}

	applyProviderDefaults(&cfg.Providers)

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func applyProviderDefaults(p *ProvidersConfig) {
	const (
		defaultTimeout    = 5000
		defaultMaxResults = 20
	)

	if p.Ticketing.Timeout == 0 {
		p.Ticketing.Timeout = defaultTimeout
	}
	if p.Ticketing.MaxResults == 0 {
		p.Ticketing.MaxResults = defaultMaxResults
	}
	if p.Marketplace.Timeout == 0 {
		p.Marketplace.Timeout = defaultTimeout
	}
	if p.Marketplace.MaxResults == 0 {
		p.Marketplace.MaxResults = defaultMaxResults
	}
	if p.Attractions.Timeout == 0 {
		p.Attractions.Timeout = defaultTimeout
	}
	if p.Attractions.MaxResults == 0 {
		p.Attractions.MaxResults = defaultMaxResults
	}
	if p.Dining.Timeout == 0 {
		p.Dining.Timeout = defaultTimeout
	}
	if p.Dining.MaxResults == 0 {
		p.Dining.MaxResults = defaultMaxResults
	}
	if p.CityGuide.MaxResults == 0 {
		p.CityGuide.MaxResults = defaultMaxResults
	}
}

// validateConfig rejects configurations the service cannot start with.
// Missing provider credentials are deliberately not an error: the owning
// adapter degrades to an empty result instead.
func validateConfig(cfg *Config) error {
	if cfg.Cache.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("cache enabled but database.redis.address is empty")
	}
	if cfg.Providers.CityGuide.Enabled && cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("cityguide provider enabled but database.postgres.host is empty")
	}
	if cfg.Cache.TTLHours < 0 {
		return fmt.Errorf("cache.ttl_hours must not be negative")
	}
	return nil
}
