package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/taxis/internal/ingest"
	"github.com/alexanderramin/taxis/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWith_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadWith("", envMap(nil))
	require.NoError(t, err)
	assert.Empty(t, cfg.Source)
	assert.Equal(t, ';', cfg.Input.Delimiter)
	assert.Equal(t, "Prompt", cfg.Input.TextColumn)
	assert.Equal(t, ingest.EncodingUTF8, cfg.Input.Encoding)
	assert.Equal(t, 1, cfg.Classify.Concurrency)
	assert.False(t, cfg.Classify.StrictCodes)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 0, cfg.LLM.MaxRetries)
}

func TestLoadWith_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
input:
  delimiter: tab
  text_column: query
  keep: last
classify:
  strict_codes: true
  concurrency: 4
  categories: "1 3"
  sample: 200
llm:
  provider: ollama
  model: llama3.2
  timeout_ms: 5000
`)

	cfg, err := LoadWith(path, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, '\t', cfg.Input.Delimiter)
	assert.Equal(t, "query", cfg.Input.TextColumn)
	assert.Equal(t, ingest.KeepLast, cfg.Input.Keep)
	assert.True(t, cfg.Classify.StrictCodes)
	assert.Equal(t, 4, cfg.Classify.Concurrency)
	assert.Equal(t, "1 3", cfg.Classify.Categories)
	assert.Equal(t, 200, cfg.Classify.Sample)
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, 5000, cfg.LLM.TimeoutMs)
}

func TestLoadWith_EnvWinsOverYAML(t *testing.T) {
	path := writeConfig(t, "classify:\n  concurrency: 4\nllm:\n  model: from-file\n")

	cfg, err := LoadWith(path, envMap(map[string]string{
		"TAXIS_CONCURRENCY":  "2",
		"TAXIS_LLM_MODEL":    "from-env",
		"TAXIS_DELIMITER":    ",",
		"TAXIS_STRICT_CODES": "yes",
		"OPENAI_API_KEY":     "sk-test",
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Classify.Concurrency)
	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, ',', cfg.Input.Delimiter)
	assert.True(t, cfg.Classify.StrictCodes)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoadWith_ConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, "environment: staging\n")

	cfg, err := LoadWith("", envMap(map[string]string{"TAXIS_CONFIG": path}))
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
}

func TestLoadWith_Errors(t *testing.T) {
	_, err := LoadWith(filepath.Join(t.TempDir(), "missing.yaml"), envMap(nil))
	assert.Error(t, err, "an explicitly named file must exist")

	_, err = LoadWith(writeConfig(t, "unknown_key: 1\n"), envMap(nil))
	assert.Error(t, err)

	_, err = LoadWith(writeConfig(t, "input:\n  delimiter: ab\n"), envMap(nil))
	assert.Error(t, err)

	_, err = LoadWith(writeConfig(t, "classify:\n  concurrency: 0\n"), envMap(nil))
	assert.ErrorContains(t, err, "concurrency")

	_, err = LoadWith(writeConfig(t, "llm:\n  timeout_ms: 0\n"), envMap(nil))
	assert.ErrorContains(t, err, "llm.timeout_ms")

	_, err = LoadWith(writeConfig(t, "llm:\n  max_retries: -1\n"), envMap(nil))
	assert.ErrorContains(t, err, "llm.max_retries")

	_, err = LoadWith(writeConfig(t, "llm:\n  provider: claude\n"), envMap(nil))
	assert.ErrorIs(t, err, llm.ErrUnknownProvider)

	_, err = LoadWith(writeConfig(t, ""), envMap(map[string]string{"TAXIS_SAMPLE": "many"}))
	assert.ErrorContains(t, err, "TAXIS_SAMPLE")
}
