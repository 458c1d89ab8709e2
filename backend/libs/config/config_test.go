package config

import (
	"testing"
	"time"
)

type testConfig struct {
	HTTP struct {
		Port string `yaml:"port" env:"TESTSVC_HTTP_PORT"`
	} `yaml:"http"`
	Bridge struct {
		BaseURL string        `yaml:"baseUrl" env:"TESTSVC_BRIDGE_BASE_URL"`
		Timeout time.Duration `yaml:"timeout" env:"TESTSVC_BRIDGE_TIMEOUT"`
	} `yaml:"bridge"`
	Limit int `yaml:"limit"`
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("TESTSVC_HTTP_PORT", "9999")
	t.Setenv("TESTSVC_BRIDGE_BASE_URL", "http://bridge:8080")
	t.Setenv("TESTSVC_BRIDGE_TIMEOUT", "7s")
	t.Setenv("LIMIT", "42")

	cfg := &testConfig{}
	cfg.HTTP.Port = "8080"

	if err := LoadConfig(cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.Port != "9999" {
		t.Fatalf("env tag override failed: %q", cfg.HTTP.Port)
	}
	if cfg.Bridge.BaseURL != "http://bridge:8080" {
		t.Fatalf("nested env override failed: %q", cfg.Bridge.BaseURL)
	}
	if cfg.Bridge.Timeout != 7*time.Second {
		t.Fatalf("duration parse failed: %v", cfg.Bridge.Timeout)
	}
	if cfg.Limit != 42 {
		t.Fatalf("generated key override failed: %d", cfg.Limit)
	}
}

func TestDefaultsSurviveWithoutEnv(t *testing.T) {
	cfg := &testConfig{}
	cfg.HTTP.Port = "8080"

	if err := LoadConfig(cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Fatalf("default clobbered: %q", cfg.HTTP.Port)
	}
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	if err := LoadConfig(testConfig{}); err == nil {
		t.Fatalf("expected error for non-pointer target")
	}
	if err := LoadConfig(nil); err == nil {
		t.Fatalf("expected error for nil target")
	}
}
