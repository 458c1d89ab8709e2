package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "solarsynergy/backend/libs/config"
)

// Config defines controller configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"CONTROLLER_HTTP_PORT"`
	} `yaml:"http"`
	Bridge struct {
		BaseURL              string `yaml:"baseUrl" env:"CONTROLLER_BRIDGE_BASE_URL"`
		StatusPath           string `yaml:"statusPath" env:"CONTROLLER_BRIDGE_STATUS_PATH"`
		StationID            string `yaml:"stationId" env:"CONTROLLER_BRIDGE_STATION_ID"`
		CheckIntervalSeconds int    `yaml:"checkIntervalSeconds" env:"CONTROLLER_BRIDGE_CHECK_INTERVAL"`
		CheckTimeoutSeconds  int    `yaml:"checkTimeoutSeconds" env:"CONTROLLER_BRIDGE_CHECK_TIMEOUT"`
	} `yaml:"bridge"`
	Wallet struct {
		InitialBalance float64 `yaml:"initialBalance" env:"CONTROLLER_WALLET_INITIAL_BALANCE"`
	} `yaml:"wallet"`
	Session struct {
		TickSeconds int `yaml:"tickSeconds" env:"CONTROLLER_SESSION_TICK_SECONDS"`
	} `yaml:"session"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8081"
	cfg.Bridge.BaseURL = "http://localhost:8080"
	cfg.Bridge.StatusPath = "/api/status"
	cfg.Bridge.StationID = "ETP-G17-HUB"
	cfg.Bridge.CheckIntervalSeconds = 30
	cfg.Bridge.CheckTimeoutSeconds = 5
	cfg.Wallet.InitialBalance = 50.00
	cfg.Session.TickSeconds = 1

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Bridge.BaseURL) == "" {
		return nil, errors.New("config: bridge base url required")
	}
	if cfg.Wallet.InitialBalance < 0 {
		return nil, errors.New("config: initial balance must not be negative")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8081"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// CheckInterval returns the health-check period.
func (c *Config) CheckInterval() time.Duration {
	if c.Bridge.CheckIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Bridge.CheckIntervalSeconds) * time.Second
}

// CheckTimeout returns the per-check deadline.
func (c *Config) CheckTimeout() time.Duration {
	if c.Bridge.CheckTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Bridge.CheckTimeoutSeconds) * time.Second
}

// TickInterval returns the session accounting quantum.
func (c *Config) TickInterval() time.Duration {
	if c.Session.TickSeconds <= 0 {
		return time.Second
	}
	return time.Duration(c.Session.TickSeconds) * time.Second
}
