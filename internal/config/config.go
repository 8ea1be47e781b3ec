package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Worker    WorkerConfig
	Source    SourceConfig
	Map       MapConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port int    `envconfig:"SERVER_PORT" default:"8050"`
}

type WorkerConfig struct {
	Count int `envconfig:"WORKER_COUNT" default:"5"`
}

type SourceConfig struct {
	BaseURL         string        `envconfig:"DATA_SOURCE_URL" default:"https://gaia-hazlab.github.io/website/data"`
	FetchTimeout    time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	RetryMax        int           `envconfig:"FETCH_RETRY_MAX" default:"2"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"0"` // 0 disables periodic refresh
}

type MapConfig struct {
	MapboxToken string  `envconfig:"MAPBOX_TOKEN"` // optional, enables the satellite basemap
	CenterLat   float64 `envconfig:"MAP_CENTER_LAT" default:"47.5"`
	CenterLon   float64 `envconfig:"MAP_CENTER_LON" default:"-121.5"`
	Zoom        float64 `envconfig:"MAP_ZOOM" default:"6"`
}

type RateLimitConfig struct {
	RPS int `envconfig:"RATE_LIMIT_RPS" default:"5"`
}

type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Source.BaseURL == "" {
		return fmt.Errorf("data source URL must not be empty")
	}
	if c.Source.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Source.RetryMax < 0 {
		return fmt.Errorf("fetch retry max must not be negative")
	}
	if c.Source.RefreshInterval != 0 && c.Source.RefreshInterval < time.Minute {
		return fmt.Errorf("refresh interval must be 0 or at least 1 minute")
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.RateLimit.RPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}

	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 || c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		return fmt.Errorf("invalid map center: %v,%v", c.Map.CenterLat, c.Map.CenterLon)
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		return fmt.Errorf("invalid map zoom: %v", c.Map.Zoom)
	}

	return nil
}
