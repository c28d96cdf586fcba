// Package config provides configuration loading for novatrip.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete novatrip configuration.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Planner PlannerConfig `yaml:"planner"`
	NATS    NATSConfig    `yaml:"nats"`
}

// ModelConfig configures the generation collaborator endpoint.
type ModelConfig struct {
	// Provider is the registered provider name ("openai", "anthropic").
	Provider string `yaml:"provider"`
	// Endpoint is the API base URL (default: the Groq OpenAI-compatible API).
	Endpoint string `yaml:"endpoint"`
	// Model is the model identifier sent to the provider.
	Model string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the credential.
	// When the variable is empty the engine runs in mock-mode.
	APIKeyEnv string `yaml:"api_key_env"`
	// Temperature controls randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature"`
	// MaxTokens limits response length.
	MaxTokens int `yaml:"max_tokens"`
	// Timeout is the maximum time to wait for model responses. Timeouts are
	// treated as collaborator-unavailable and trigger the mock fallback.
	Timeout time.Duration `yaml:"timeout"`
	// MaxRetries is how many attempts a completion request gets before its
	// failure is surfaced to the fallback path.
	MaxRetries int `yaml:"max_retries"`
}

// PlannerConfig configures the itinerary engine.
type PlannerConfig struct {
	// UtilizationFloor is the minimum planned-spend/budget ratio before a
	// below-floor warning attaches (default 0.70).
	UtilizationFloor float64 `yaml:"utilization_floor"`
	// RegenerationAttempts is how many mock regenerations a schema failure
	// gets before surfacing (default 1).
	RegenerationAttempts int `yaml:"regeneration_attempts"`
}

// NATSConfig configures the persistence connection.
type NATSConfig struct {
	// URL is the NATS server URL.
	URL string `yaml:"url"`
}

// DefaultConfig returns a Config with sensible defaults. The model defaults
// mirror the Groq free tier; set GROQ_API_KEY to leave mock-mode.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:    "openai",
			Endpoint:    "https://api.groq.com/openai/v1",
			Model:       "llama-3.1-8b-instant",
			APIKeyEnv:   "GROQ_API_KEY",
			Temperature: 0.2,
			MaxTokens:   4000,
			Timeout:     90 * time.Second,
			MaxRetries:  3,
		},
		Planner: PlannerConfig{
			UtilizationFloor:     0.70,
			RegenerationAttempts: 1,
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Model.Provider == "" {
		return fmt.Errorf("model.provider is required")
	}
	if c.Model.Model == "" {
		return fmt.Errorf("model.model is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("model.timeout must be positive")
	}
	if c.Model.MaxRetries < 1 {
		return fmt.Errorf("model.max_retries must be at least 1")
	}
	if c.Planner.UtilizationFloor <= 0 || c.Planner.UtilizationFloor > 1 {
		return fmt.Errorf("planner.utilization_floor must be in (0, 1]")
	}
	if c.Planner.RegenerationAttempts < 0 {
		return fmt.Errorf("planner.regeneration_attempts must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, layered over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Load returns the configuration for a run: the file at path when given,
// otherwise defaults, with the NATS URL overridable through NOVATRIP_NATS_URL.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if url := os.Getenv("NOVATRIP_NATS_URL"); url != "" {
		config.NATS.URL = url
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveToFile writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
