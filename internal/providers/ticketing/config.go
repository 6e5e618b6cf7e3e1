package ticketing

import (
	"time"

	appconfig "activity-aggregator/internal/common/config"
)

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxResults int
}

func LoadConfig(cfg appconfig.TicketingConfig) *Config {
	return &Config{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Timeout:    time.Duration(cfg.Timeout) * time.Millisecond,
		MaxResults: cfg.MaxResults,
	}
}
