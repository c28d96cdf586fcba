package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.Provider != "openai" {
		t.Errorf("Provider = %q", cfg.Model.Provider)
	}
	if cfg.Model.Model != "llama-3.1-8b-instant" {
		t.Errorf("Model = %q", cfg.Model.Model)
	}
	if cfg.Model.APIKeyEnv != "GROQ_API_KEY" {
		t.Errorf("APIKeyEnv = %q", cfg.Model.APIKeyEnv)
	}
	if cfg.Planner.UtilizationFloor != 0.70 {
		t.Errorf("UtilizationFloor = %v", cfg.Planner.UtilizationFloor)
	}
	if cfg.Planner.RegenerationAttempts != 1 {
		t.Errorf("RegenerationAttempts = %d", cfg.Planner.RegenerationAttempts)
	}
	if cfg.Model.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", cfg.Model.Timeout)
	}
	if cfg.Model.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d", cfg.Model.MaxRetries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing provider", func(c *Config) { c.Model.Provider = "" }},
		{"missing model", func(c *Config) { c.Model.Model = "" }},
		{"temperature too high", func(c *Config) { c.Model.Temperature = 1.5 }},
		{"zero floor", func(c *Config) { c.Planner.UtilizationFloor = 0 }},
		{"floor above one", func(c *Config) { c.Planner.UtilizationFloor = 1.2 }},
		{"negative regeneration attempts", func(c *Config) { c.Planner.RegenerationAttempts = -1 }},
		{"zero timeout", func(c *Config) { c.Model.Timeout = 0 }},
		{"zero retries", func(c *Config) { c.Model.MaxRetries = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.Model = "llama-3.3-70b-versatile"
	cfg.Planner.UtilizationFloor = 0.80
	cfg.NATS.URL = "nats://example:4222"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model.Model != "llama-3.3-70b-versatile" {
		t.Errorf("Model = %q", loaded.Model.Model)
	}
	if loaded.Planner.UtilizationFloor != 0.80 {
		t.Errorf("UtilizationFloor = %v", loaded.Planner.UtilizationFloor)
	}
	if loaded.NATS.URL != "nats://example:4222" {
		t.Errorf("NATS URL = %q", loaded.NATS.URL)
	}
}

func TestLoadFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model:\n  model: custom-model\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model.Model != "custom-model" {
		t.Errorf("Model = %q", cfg.Model.Model)
	}
	// Unset fields keep their defaults.
	if cfg.Model.Provider != "openai" {
		t.Errorf("Provider = %q, want the openai default", cfg.Model.Provider)
	}
	if cfg.Planner.UtilizationFloor != 0.70 {
		t.Errorf("UtilizationFloor = %v, want the 0.70 default", cfg.Planner.UtilizationFloor)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NOVATRIP_NATS_URL", "nats://override:4222")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NATS.URL != "nats://override:4222" {
		t.Errorf("NATS URL = %q, env override not applied", cfg.NATS.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model:\n  temperature: 3.0\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for out-of-range temperature")
	}
}
