package llm

import (
	"os"
	"strconv"
)

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	LogCalls    bool    `yaml:"log_calls"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	TimeoutMs   int     `yaml:"timeout_ms"`
	MaxRetries  int     `yaml:"max_retries"`
	Temperature float32 `yaml:"temperature"`
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// An empty BaseURL uses the public Gemini endpoint.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		LogCalls:    false,
		Model:       "gemini-1.5-flash",
		TimeoutMs:   30000,
		MaxRetries:  1,
		Temperature: 0.4,
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overrides cfg with any PLANNERSMART_LLM_* variables that are set
// and valid. Invalid values are ignored.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("PLANNERSMART_LLM_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCalls = b
		}
	}
	if v := os.Getenv("PLANNERSMART_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PLANNERSMART_LLM_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PLANNERSMART_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("PLANNERSMART_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("PLANNERSMART_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f >= 0 && f <= 2 {
			cfg.Temperature = float32(f)
		}
	}
}
