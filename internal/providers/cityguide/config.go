package cityguide

import (
	appconfig "activity-aggregator/internal/common/config"
)

type Config struct {
	MaxResults int
}

func LoadConfig(cfg appconfig.CityGuideConfig) *Config {
	return &Config{
		MaxResults: cfg.MaxResults,
	}
}
