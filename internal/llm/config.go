package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskClassify assigns one taxonomy code to a learner query.
	TaskClassify TaskType = "classify"
)

// Provider names a completion backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// ParseProvider maps a config string to a Provider. Unknown names are
// returned as-is and rejected later by NewClient.
func ParseProvider(s string) Provider {
	return Provider(strings.ToLower(strings.TrimSpace(s)))
}

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	LogCalls   bool
	Endpoint   string // base URL; empty uses the provider default
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with defaults. Classification is a
// single attempt at temperature 0 with room for the longest code.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderOpenAI,
		LogCalls:   false,
		Endpoint:   "",
		Model:      "gpt-4o-mini",
		TimeoutMs:  30000,
		MaxRetries: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskClassify: {Temperature: 0, MaxTokens: 10},
		},
	}
}

// DefaultEndpoint returns the base URL used when Endpoint is empty.
func (c LLMConfig) DefaultEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	switch c.Provider {
	case ProviderOllama:
		return "http://localhost:11434"
	case ProviderOpenAI:
		return "https://api.openai.com/v1/"
	default:
		return ""
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg, os.Getenv)
	return cfg
}

// ApplyEnv overrides cfg with TAXIS_LLM_* values returned by getenv.
// Unparseable values are ignored.
func ApplyEnv(cfg *LLMConfig, getenv func(string) string) {
	if v := getenv("TAXIS_LLM_PROVIDER"); v != "" {
		cfg.Provider = ParseProvider(v)
	}
	if v := getenv("TAXIS_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := getenv("TAXIS_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := getenv("TAXIS_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := getenv("TAXIS_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := getenv("TAXIS_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := getenv("TAXIS_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	// Provider-native key variables are honored when no explicit key is set.
	if cfg.APIKey == "" {
		switch cfg.Provider {
		case ProviderOpenAI:
			cfg.APIKey = getenv("OPENAI_API_KEY")
		case ProviderGemini:
			cfg.APIKey = getenv("GEMINI_API_KEY")
		}
	}

	applyTaskTimeoutEnv(cfg, TaskClassify, "TAXIS_LLM_CLASSIFY_TIMEOUT_MS", getenv)
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string, getenv func(string) string) {
	v := getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Tasks == nil {
		cfg.Tasks = map[TaskType]TaskConfig{}
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
