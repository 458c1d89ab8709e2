package config

import (
	"errors"
	"fmt"
	"strings"

	libconfig "solarsynergy/backend/libs/config"
)

// Config defines bridge service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"BRIDGE_HTTP_PORT"`
	} `yaml:"http"`
	Status struct {
		Path string `yaml:"path" env:"BRIDGE_STATUS_PATH"`
	} `yaml:"status"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Status.Path = "/api/status"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(cfg.Status.Path, "/") {
		return nil, errors.New("config: status path must start with /")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
