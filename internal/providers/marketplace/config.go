package marketplace

import (
	"time"

	appconfig "activity-aggregator/internal/common/config"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	MaxResults   int
}

func LoadConfig(cfg appconfig.MarketplaceConfig) *Config {
	return &Config{
		BaseURL:      cfg.BaseURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Timeout:      time.Duration(cfg.Timeout) * time.Millisecond,
		MaxResults:   cfg.MaxResults,
	}
}
